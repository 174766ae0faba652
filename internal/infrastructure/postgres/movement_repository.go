package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-api/internal/domain/entity"
	"github.com/jhoicas/stock-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, transaction_id, article_id, kind, quantity, balance_after, note, actor, created_at`

// MovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento del libro de stock.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO stock_movements (transaction_id, article_id, kind, quantity, balance_after, note, actor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		m.TransactionID, m.ArticleID, string(m.Kind), m.Quantity, m.BalanceAfter,
		m.Note, m.Actor, m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return wrapErr("insert stock movement", err)
	}
	return nil
}

// ListByArticle lista los movimientos del artículo, el más reciente primero.
func (r *MovementRepo) ListByArticle(ctx context.Context, articleID int64, limit int) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE article_id = $1 ORDER BY id DESC LIMIT $2`
	return r.list(ctx, "list movements by article", query, articleID, limit)
}

// ListByTransaction lista los movimientos de una misma operación en orden de inserción.
func (r *MovementRepo) ListByTransaction(ctx context.Context, transactionID string) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE transaction_id = $1 ORDER BY id`
	return r.list(ctx, "list movements by transaction", query, transactionID)
}

func (r *MovementRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()
	out := []*entity.Movement{}
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, wrapErr(op, err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}
	return out, nil
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var kind string
	if err := row.Scan(
		&m.ID, &m.TransactionID, &m.ArticleID, &kind, &m.Quantity, &m.BalanceAfter,
		&m.Note, &m.Actor, &m.CreatedAt,
	); err != nil {
		return nil, err
	}
	m.Kind = entity.MovementKind(kind)
	return &m, nil
}
