package purchasing

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/stock-api/internal/application/inventory"
	"github.com/jhoicas/stock-api/internal/domain"
	"github.com/jhoicas/stock-api/internal/domain/entity"
	"github.com/jhoicas/stock-api/internal/domain/repository"
	"github.com/jhoicas/stock-api/pkg/logger"
)

// Límites de paginación del listado de órdenes.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// UseCase alta, consulta y eliminación de órdenes de compra.
// La recepción de una orden vive en el paquete receiving.
type UseCase struct {
	txRunner inventory.TxRunner
	repos    repository.Repositories
	now      func() time.Time
	log      *logger.Logger
}

// NewUseCase construye el caso de uso. now puede ser nil (time.Now).
func NewUseCase(txRunner inventory.TxRunner, repos repository.Repositories, now func() time.Time, log *logger.Logger) *UseCase {
	if now == nil {
		now = time.Now
	}
	return &UseCase{txRunner: txRunner, repos: repos, now: now, log: log.Named("purchasing")}
}

// CreateOrderInput alta de una orden.
type CreateOrderInput struct {
	SupplierID int64
	Note       string
	Items      []OrderLine
	Actor      string
}

// OrderLine artículo y cantidad pedida.
type OrderLine struct {
	ArticleID int64
	Quantity  decimal.Decimal
}

// Create valida proveedor, artículos y cantidades y persiste la orden PENDING.
// El número de secuencia se toma del contador dentro de la misma transacción que el alta,
// así que nunca se repite aunque se borre la última orden.
func (uc *UseCase) Create(ctx context.Context, in CreateOrderInput) (*entity.PurchaseOrder, error) {
	lines, err := mergeLines(in.Items)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	order := &entity.PurchaseOrder{
		SupplierID: in.SupplierID,
		Status:     entity.OrderStatusPending,
		Note:       strings.TrimSpace(in.Note),
		CreatedAt:  now,
		CreatedBy:  in.Actor,
	}
	err = uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		supplier, err := repos.Suppliers.GetByID(ctx, in.SupplierID)
		if err != nil {
			return err
		}
		if supplier == nil {
			return domain.ErrSupplierNotFound
		}
		order.Items = make([]entity.PurchaseOrderItem, 0, len(lines))
		for _, l := range lines {
			a, err := repos.Articles.GetByID(ctx, l.ArticleID)
			if err != nil {
				return err
			}
			if a == nil {
				return fmt.Errorf("artículo %d: %w", l.ArticleID, domain.ErrArticleNotFound)
			}
			if !a.IsActive() {
				return fmt.Errorf("artículo %d: %w", l.ArticleID, domain.ErrArticleRetired)
			}
			order.Items = append(order.Items, entity.PurchaseOrderItem{
				ArticleID:         l.ArticleID,
				RequestedQuantity: l.Quantity,
			})
		}
		seq, err := repos.Orders.NextSequence(ctx)
		if err != nil {
			return err
		}
		order.SequenceNumber = seq
		return repos.Orders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("order_id", order.ID).Int64("sequence", order.SequenceNumber).Int("items", len(order.Items)).Msg("orden de compra creada")
	return order, nil
}

// Delete elimina una orden PENDING. El número de secuencia no se reutiliza.
func (uc *UseCase) Delete(ctx context.Context, id int64) error {
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		order, err := repos.Orders.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrOrderNotFound
		}
		if !order.IsPending() {
			return domain.ErrOrderAlreadyReceived
		}
		return repos.Orders.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Int64("order_id", id).Msg("orden de compra eliminada")
	return nil
}

// Get devuelve la orden con sus ítems.
func (uc *UseCase) Get(ctx context.Context, id int64) (*entity.PurchaseOrder, error) {
	o, err := uc.repos.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}

// List lista órdenes por número de secuencia descendente. status vacío = todas.
func (uc *UseCase) List(ctx context.Context, status entity.OrderStatus, limit, offset int) ([]*entity.PurchaseOrder, error) {
	if status != "" && status != entity.OrderStatusPending && status != entity.OrderStatusReceived {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return uc.repos.Orders.List(ctx, status, limit, offset)
}

// mergeLines valida cantidades y suma las líneas repetidas del mismo artículo.
// Devuelve las líneas ordenadas por artículo.
func mergeLines(in []OrderLine) ([]OrderLine, error) {
	byArticle := make(map[int64]decimal.Decimal, len(in))
	for _, l := range in {
		if l.ArticleID <= 0 {
			return nil, fmt.Errorf("%w: artículo requerido", domain.ErrInvalidInput)
		}
		if !l.Quantity.IsPositive() {
			return nil, fmt.Errorf("artículo %d: %w", l.ArticleID, domain.ErrInvalidQuantity)
		}
		byArticle[l.ArticleID] = byArticle[l.ArticleID].Add(l.Quantity)
	}
	if len(byArticle) == 0 {
		return nil, domain.ErrEmptyOrder
	}
	out := make([]OrderLine, 0, len(byArticle))
	for id, q := range byArticle {
		out = append(out, OrderLine{ArticleID: id, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ArticleID < out[j].ArticleID })
	return out, nil
}
