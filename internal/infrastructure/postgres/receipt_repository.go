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

var _ repository.ReceiptRepository = (*ReceiptRepo)(nil)

const receiptColumns = `id, supplier_name, document_number, status, purchase_order_id, created_at, confirmed_at, created_by`

// ReceiptRepo implementación sobre PostgreSQL de recepciones e ítems.
type ReceiptRepo struct {
	q Querier
}

// NewReceiptRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReceiptRepository(q Querier) *ReceiptRepo {
	return &ReceiptRepo{q: q}
}

// Create persiste la cabecera de la recepción.
func (r *ReceiptRepo) Create(ctx context.Context, rc *entity.Receipt) error {
	query := `
		INSERT INTO receipts (supplier_name, document_number, status, purchase_order_id, created_at, confirmed_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		rc.SupplierName, rc.DocumentNumber, string(rc.Status), rc.PurchaseOrderID,
		rc.CreatedAt, rc.ConfirmedAt, rc.CreatedBy,
	).Scan(&rc.ID)
	if err != nil {
		return wrapErr("insert receipt", err)
	}
	return nil
}

// AddItem persiste una línea de la recepción.
func (r *ReceiptRepo) AddItem(ctx context.Context, item *entity.ReceiptItem) error {
	query := `
		INSERT INTO receipt_items (receipt_id, article_id, quantity, scanned_code)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err := r.q.QueryRow(ctx, query, item.ReceiptID, item.ArticleID, item.Quantity, item.ScannedCode).Scan(&item.ID)
	if err != nil {
		return wrapErr("insert receipt item", err)
	}
	return nil
}

// GetByID devuelve la cabecera con sus ítems.
func (r *ReceiptRepo) GetByID(ctx context.Context, id int64) (*entity.Receipt, error) {
	return r.get(ctx, `SELECT `+receiptColumns+` FROM receipts WHERE id = $1`, id)
}

// GetByIDForUpdate bloquea la cabecera; los ítems se agregan siempre bajo ese bloqueo.
func (r *ReceiptRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Receipt, error) {
	return r.get(ctx, `SELECT `+receiptColumns+` FROM receipts WHERE id = $1 FOR UPDATE`, id)
}

func (r *ReceiptRepo) get(ctx context.Context, query string, id int64) (*entity.Receipt, error) {
	var rc entity.Receipt
	var status string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&rc.ID, &rc.SupplierName, &rc.DocumentNumber, &status, &rc.PurchaseOrderID,
		&rc.CreatedAt, &rc.ConfirmedAt, &rc.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get receipt", err)
	}
	rc.Status = entity.ReceiptStatus(status)

	rows, err := r.q.Query(ctx,
		`SELECT id, receipt_id, article_id, quantity, scanned_code FROM receipt_items WHERE receipt_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, wrapErr("list receipt items", err)
	}
	defer rows.Close()
	rc.Items = []entity.ReceiptItem{}
	for rows.Next() {
		var it entity.ReceiptItem
		if err := rows.Scan(&it.ID, &it.ReceiptID, &it.ArticleID, &it.Quantity, &it.ScannedCode); err != nil {
			return nil, wrapErr("scan receipt item", err)
		}
		rc.Items = append(rc.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list receipt items", err)
	}
	return &rc, nil
}

// Confirm pasa la recepción de DRAFT a CONFIRMED.
func (r *ReceiptRepo) Confirm(ctx context.Context, id int64, confirmedAt time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE receipts SET status = 'CONFIRMED', confirmed_at = $2 WHERE id = $1 AND status = 'DRAFT'`, id, confirmedAt)
	if err != nil {
		return wrapErr("confirm receipt", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrReceiptAlreadyConfirmed
	}
	return nil
}
