package receiving

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/stock-api/internal/application/inventory"
	"github.com/jhoicas/stock-api/internal/domain"
	"github.com/jhoicas/stock-api/internal/domain/entity"
	"github.com/jhoicas/stock-api/internal/domain/repository"
	"github.com/jhoicas/stock-api/pkg/logger"
)

// UseCase recepción controlada de mercadería: por escaneo, por orden de compra y en borrador.
// Cada operación es una única transacción; si falla un ítem no queda ningún efecto.
type UseCase struct {
	txRunner inventory.TxRunner
	repos    repository.Repositories
	ledger   Ledger
	now      func() time.Time
	log      *logger.Logger
}

// NewUseCase construye el caso de uso. now puede ser nil (time.Now).
func NewUseCase(txRunner inventory.TxRunner, repos repository.Repositories, ledger Ledger, now func() time.Time, log *logger.Logger) *UseCase {
	if now == nil {
		now = time.Now
	}
	return &UseCase{txRunner: txRunner, repos: repos, ledger: ledger, now: now, log: log.Named("receiving")}
}

// ScanReceiptInput recepción de un artículo escaneado.
type ScanReceiptInput struct {
	SupplierName   string
	DocumentNumber string
	ScannedCode    string
	Quantity       decimal.Decimal
	Actor          string
}

// DraftInput cabecera de una recepción en borrador.
type DraftInput struct {
	SupplierName   string
	DocumentNumber string
	Actor          string
}

// OrderReceipt resultado de recibir una orden de compra.
type OrderReceipt struct {
	Order   *entity.PurchaseOrder
	Receipt *entity.Receipt
}

// ReceiveByScan crea una recepción confirmada con un único ítem y su ingreso de stock.
func (uc *UseCase) ReceiveByScan(ctx context.Context, in ScanReceiptInput) (*entity.Receipt, error) {
	supplier := strings.TrimSpace(in.SupplierName)
	doc := strings.TrimSpace(in.DocumentNumber)
	if supplier == "" || strings.TrimSpace(in.ScannedCode) == "" {
		return nil, fmt.Errorf("%w: proveedor y código escaneado son obligatorios", domain.ErrInvalidInput)
	}
	if !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}
	now := uc.now()
	receipt := &entity.Receipt{
		SupplierName:   supplier,
		DocumentNumber: doc,
		Status:         entity.ReceiptStatusConfirmed,
		CreatedAt:      now,
		ConfirmedAt:    &now,
		CreatedBy:      in.Actor,
	}
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		article, err := inventory.LockArticle(ctx, repos.Articles, 0, in.ScannedCode)
		if err != nil {
			return err
		}
		if err := repos.Receipts.Create(ctx, receipt); err != nil {
			return err
		}
		item := entity.ReceiptItem{
			ReceiptID:   receipt.ID,
			ArticleID:   article.ID,
			Quantity:    in.Quantity,
			ScannedCode: inventory.NormalizeCode(in.ScannedCode),
		}
		if err := repos.Receipts.AddItem(ctx, &item); err != nil {
			return err
		}
		receipt.Items = append(receipt.Items, item)
		_, err = uc.ledger.ApplyInTx(ctx, repos, article, inventory.Posting{
			Kind:          entity.MovementKindIngress,
			Quantity:      in.Quantity,
			Note:          receiptNote(receipt),
			Actor:         in.Actor,
			TransactionID: uuid.New().String(),
			At:            now,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("receipt_id", receipt.ID).Str("supplier", supplier).Msg("recepción por escaneo registrada")
	return receipt, nil
}

// ReceiveOrder recibe una orden pendiente: una recepción con un ítem e ingreso por cada línea,
// misma hora de confirmación, y la orden pasa a RECEIVED. Si ya estaba recibida devuelve
// domain.ErrAlreadyReceived junto con la orden, sin tocar el stock.
func (uc *UseCase) ReceiveOrder(ctx context.Context, orderID int64, actor string) (*OrderReceipt, error) {
	now := uc.now()
	txID := uuid.New().String()
	var out OrderReceipt
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		order, err := repos.Orders.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrOrderNotFound
		}
		out.Order = order
		if !order.IsPending() {
			return domain.ErrAlreadyReceived
		}
		supplier, err := repos.Suppliers.GetByID(ctx, order.SupplierID)
		if err != nil {
			return err
		}
		if supplier == nil {
			return domain.ErrSupplierNotFound
		}
		receipt := &entity.Receipt{
			SupplierName:    supplier.Name,
			DocumentNumber:  fmt.Sprintf("OC-%d", order.SequenceNumber),
			Status:          entity.ReceiptStatusConfirmed,
			PurchaseOrderID: &order.ID,
			CreatedAt:       now,
			ConfirmedAt:     &now,
			CreatedBy:       actor,
		}
		if err := repos.Receipts.Create(ctx, receipt); err != nil {
			return err
		}
		note := fmt.Sprintf("OC #%d", order.SequenceNumber)
		for _, line := range lockOrder(order.Items) {
			article, err := inventory.LockArticle(ctx, repos.Articles, line.ArticleID, "")
			if err != nil {
				return err
			}
			item := entity.ReceiptItem{
				ReceiptID: receipt.ID,
				ArticleID: article.ID,
				Quantity:  line.RequestedQuantity,
			}
			if err := repos.Receipts.AddItem(ctx, &item); err != nil {
				return err
			}
			receipt.Items = append(receipt.Items, item)
			if _, err := uc.ledger.ApplyInTx(ctx, repos, article, inventory.Posting{
				Kind:          entity.MovementKindIngress,
				Quantity:      line.RequestedQuantity,
				Note:          note,
				Actor:         actor,
				TransactionID: txID,
				At:            now,
			}); err != nil {
				return fmt.Errorf("artículo %d: %w", line.ArticleID, err)
			}
		}
		if err := repos.Orders.MarkReceived(ctx, order.ID, now); err != nil {
			return err
		}
		order.Status = entity.OrderStatusReceived
		order.ReceivedAt = &now
		out.Receipt = receipt
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyReceived) {
			return &out, err
		}
		return nil, err
	}
	uc.log.Info().
		Int64("order_id", out.Order.ID).
		Int64("sequence", out.Order.SequenceNumber).
		Int64("receipt_id", out.Receipt.ID).
		Int("items", len(out.Receipt.Items)).
		Msg("orden de compra recibida")
	return &out, nil
}

// CreateDraft abre una recepción en borrador; el stock no cambia hasta confirmarla.
func (uc *UseCase) CreateDraft(ctx context.Context, in DraftInput) (*entity.Receipt, error) {
	supplier := strings.TrimSpace(in.SupplierName)
	if supplier == "" {
		return nil, fmt.Errorf("%w: el proveedor es obligatorio", domain.ErrInvalidInput)
	}
	receipt := &entity.Receipt{
		SupplierName:   supplier,
		DocumentNumber: strings.TrimSpace(in.DocumentNumber),
		Status:         entity.ReceiptStatusDraft,
		CreatedAt:      uc.now(),
		CreatedBy:      in.Actor,
	}
	if err := uc.repos.Receipts.Create(ctx, receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

// AddDraftItem agrega un artículo escaneado a una recepción en borrador.
func (uc *UseCase) AddDraftItem(ctx context.Context, receiptID int64, scannedCode string, quantity decimal.Decimal) (*entity.Receipt, error) {
	if !quantity.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}
	var receipt *entity.Receipt
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		r, err := lockDraft(ctx, repos.Receipts, receiptID)
		if err != nil {
			return err
		}
		article, err := inventory.FindByScan(ctx, repos.Articles, scannedCode)
		if err != nil {
			return err
		}
		if !article.IsActive() {
			return domain.ErrArticleRetired
		}
		item := entity.ReceiptItem{
			ReceiptID:   r.ID,
			ArticleID:   article.ID,
			Quantity:    quantity,
			ScannedCode: inventory.NormalizeCode(scannedCode),
		}
		if err := repos.Receipts.AddItem(ctx, &item); err != nil {
			return err
		}
		r.Items = append(r.Items, item)
		receipt = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// ConfirmDraft aplica un ingreso por cada ítem del borrador y lo marca CONFIRMED.
func (uc *UseCase) ConfirmDraft(ctx context.Context, receiptID int64, actor string) (*entity.Receipt, error) {
	now := uc.now()
	txID := uuid.New().String()
	var receipt *entity.Receipt
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Repositories) error {
		r, err := lockDraft(ctx, repos.Receipts, receiptID)
		if err != nil {
			return err
		}
		if len(r.Items) == 0 {
			return domain.ErrEmptyReceipt
		}
		note := receiptNote(r)
		for _, it := range lockOrderItems(r.Items) {
			article, err := inventory.LockArticle(ctx, repos.Articles, it.ArticleID, "")
			if err != nil {
				return err
			}
			if _, err := uc.ledger.ApplyInTx(ctx, repos, article, inventory.Posting{
				Kind:          entity.MovementKindIngress,
				Quantity:      it.Quantity,
				Note:          note,
				Actor:         actor,
				TransactionID: txID,
				At:            now,
			}); err != nil {
				return fmt.Errorf("artículo %d: %w", it.ArticleID, err)
			}
		}
		if err := repos.Receipts.Confirm(ctx, r.ID, now); err != nil {
			return err
		}
		r.Status = entity.ReceiptStatusConfirmed
		r.ConfirmedAt = &now
		receipt = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("receipt_id", receipt.ID).Int("items", len(receipt.Items)).Msg("recepción confirmada")
	return receipt, nil
}

// Get devuelve la recepción con sus ítems.
func (uc *UseCase) Get(ctx context.Context, id int64) (*entity.Receipt, error) {
	r, err := uc.repos.Receipts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrReceiptNotFound
	}
	return r, nil
}

func lockDraft(ctx context.Context, receipts repository.ReceiptRepository, id int64) (*entity.Receipt, error) {
	r, err := receipts.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrReceiptNotFound
	}
	if r.IsConfirmed() {
		return nil, domain.ErrReceiptAlreadyConfirmed
	}
	return r, nil
}

// lockOrder ordena las líneas por artículo para tomar los bloqueos siempre en el mismo orden.
func lockOrder(items []entity.PurchaseOrderItem) []entity.PurchaseOrderItem {
	out := make([]entity.PurchaseOrderItem, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ArticleID < out[j].ArticleID })
	return out
}

func lockOrderItems(items []entity.ReceiptItem) []entity.ReceiptItem {
	out := make([]entity.ReceiptItem, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ArticleID < out[j].ArticleID })
	return out
}

func receiptNote(r *entity.Receipt) string {
	if r.DocumentNumber == "" {
		return fmt.Sprintf("Recepción #%d", r.ID)
	}
	return fmt.Sprintf("Recepción #%d - %s", r.ID, r.DocumentNumber)
}
