package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-api/internal/domain"
	"github.com/jhoicas/stock-api/internal/domain/entity"
	"github.com/jhoicas/stock-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

const orderColumns = `id, sequence_number, supplier_id, status, note, created_at, received_at, created_by`

// PurchaseOrderRepo implementación sobre PostgreSQL de órdenes de compra.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// NextSequence incrementa el contador de órdenes. El UPDATE bloquea la fila del contador
// hasta el fin de la transacción, así dos órdenes nunca comparten número.
func (r *PurchaseOrderRepo) NextSequence(ctx context.Context) (int64, error) {
	var seq int64
	err := r.q.QueryRow(ctx,
		`UPDATE purchase_order_counter SET last_value = last_value + 1 WHERE id = 1 RETURNING last_value`,
	).Scan(&seq)
	if err != nil {
		return 0, wrapErr("next purchase order sequence", err)
	}
	return seq, nil
}

// Create persiste cabecera e ítems.
func (r *PurchaseOrderRepo) Create(ctx context.Context, o *entity.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (sequence_number, supplier_id, status, note, created_at, received_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		o.SequenceNumber, o.SupplierID, string(o.Status), o.Note, o.CreatedAt, o.ReceivedAt, o.CreatedBy,
	).Scan(&o.ID)
	if err != nil {
		return wrapErr("insert purchase order", err)
	}
	for i := range o.Items {
		it := &o.Items[i]
		it.OrderID = o.ID
		err := r.q.QueryRow(ctx,
			`INSERT INTO purchase_order_items (order_id, article_id, requested_quantity) VALUES ($1, $2, $3) RETURNING id`,
			it.OrderID, it.ArticleID, it.RequestedQuantity,
		).Scan(&it.ID)
		if err != nil {
			return wrapErr("insert purchase order item", err)
		}
	}
	return nil
}

// GetByID devuelve la orden con sus ítems.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id int64) (*entity.PurchaseOrder, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM purchase_orders WHERE id = $1`, id)
}

// GetByIDForUpdate bloquea la orden; dos recepciones simultáneas de la misma orden se serializan aquí.
func (r *PurchaseOrderRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.PurchaseOrder, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM purchase_orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *PurchaseOrderRepo) get(ctx context.Context, query string, id int64) (*entity.PurchaseOrder, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get purchase order", err)
	}
	if err := r.loadItems(ctx, []*entity.PurchaseOrder{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// MarkReceived pasa la orden a RECEIVED.
func (r *PurchaseOrderRepo) MarkReceived(ctx context.Context, id int64, receivedAt time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE purchase_orders SET status = 'RECEIVED', received_at = $2 WHERE id = $1`, id, receivedAt)
	if err != nil {
		return wrapErr("mark purchase order received", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// Delete elimina la orden; los ítems caen por ON DELETE CASCADE.
func (r *PurchaseOrderRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM purchase_orders WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete purchase order", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// List lista órdenes por número descendente. status vacío = todas.
func (r *PurchaseOrderRepo) List(ctx context.Context, status entity.OrderStatus, limit, offset int) ([]*entity.PurchaseOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM purchase_orders
		WHERE ($1 = '' OR status = $1)
		ORDER BY sequence_number DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, string(status), limit, offset)
	if err != nil {
		return nil, wrapErr("list purchase orders", err)
	}
	defer rows.Close()
	out := []*entity.PurchaseOrder{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, wrapErr("scan purchase order", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list purchase orders", err)
	}
	rows.Close()
	if err := r.loadItems(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// loadItems carga los ítems de todas las órdenes en una sola consulta.
func (r *PurchaseOrderRepo) loadItems(ctx context.Context, orders []*entity.PurchaseOrder) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[int64]*entity.PurchaseOrder, len(orders))
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		o.Items = []entity.PurchaseOrderItem{}
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}
	rows, err := r.q.Query(ctx,
		`SELECT id, order_id, article_id, requested_quantity FROM purchase_order_items WHERE order_id = ANY($1) ORDER BY order_id, article_id`, ids)
	if err != nil {
		return wrapErr("list purchase order items", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.PurchaseOrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ArticleID, &it.RequestedQuantity); err != nil {
			return wrapErr("scan purchase order item", err)
		}
		if o, ok := byID[it.OrderID]; ok {
			o.Items = append(o.Items, it)
		}
	}
	if err := rows.Err(); err != nil {
		return wrapErr("list purchase order items", err)
	}
	return nil
}

func scanOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var o entity.PurchaseOrder
	var status string
	if err := row.Scan(
		&o.ID, &o.SequenceNumber, &o.SupplierID, &status, &o.Note, &o.CreatedAt, &o.ReceivedAt, &o.CreatedBy,
	); err != nil {
		return nil, err
	}
	o.Status = entity.OrderStatus(status)
	return &o, nil
}
