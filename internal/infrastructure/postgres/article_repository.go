package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/stock-api/internal/domain"
	"github.com/jhoicas/stock-api/internal/domain/entity"
	"github.com/jhoicas/stock-api/internal/domain/repository"
)

var _ repository.ArticleRepository = (*ArticleRepo)(nil)

const articleColumns = `id, code, description, unit_measure, balance, minimum, location, qr_value, status, category_id, created_at, updated_at, retired_at`

// ArticleRepo implementación del puerto ArticleRepository sobre PostgreSQL (usable con pool o tx).
type ArticleRepo struct {
	q Querier
}

// NewArticleRepository construye el adaptador de persistencia para artículos. Pasar pool o tx (Querier).
func NewArticleRepository(q Querier) *ArticleRepo {
	return &ArticleRepo{q: q}
}

// Create persiste un nuevo artículo y asigna su ID.
func (r *ArticleRepo) Create(ctx context.Context, a *entity.Article) error {
	query := `
		INSERT INTO articles (code, description, unit_measure, balance, minimum, location, qr_value, status, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		a.Code, a.Description, a.UnitMeasure, a.Balance, a.Minimum, a.Location,
		a.QRValue, string(a.Status), a.CategoryID, a.CreatedAt, a.UpdatedAt,
	).Scan(&a.ID)
	if err != nil {
		return wrapErr("insert article", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID.
func (r *ArticleRepo) GetByID(ctx context.Context, id int64) (*entity.Article, error) {
	return r.getOne(ctx, "get article", `SELECT `+articleColumns+` FROM articles WHERE id = $1`, id)
}

// GetByIDForUpdate bloquea la fila del artículo hasta el fin de la transacción.
func (r *ArticleRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Article, error) {
	return r.getOne(ctx, "lock article", `SELECT `+articleColumns+` FROM articles WHERE id = $1 FOR UPDATE`, id)
}

// GetByCode obtiene un artículo por código.
func (r *ArticleRepo) GetByCode(ctx context.Context, code string) (*entity.Article, error) {
	return r.getOne(ctx, "get article by code", `SELECT `+articleColumns+` FROM articles WHERE code = $1`, code)
}

// GetByQR obtiene un artículo por el valor de su QR.
func (r *ArticleRepo) GetByQR(ctx context.Context, qrValue string) (*entity.Article, error) {
	return r.getOne(ctx, "get article by qr", `SELECT `+articleColumns+` FROM articles WHERE qr_value = $1`, qrValue)
}

func (r *ArticleRepo) getOne(ctx context.Context, op, query string, arg any) (*entity.Article, error) {
	a, err := scanArticle(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr(op, err)
	}
	return a, nil
}

// Update persiste datos descriptivos y de ciclo de vida. No toca balance.
func (r *ArticleRepo) Update(ctx context.Context, a *entity.Article) error {
	query := `
		UPDATE articles SET code = $2, description = $3, unit_measure = $4, minimum = $5, location = $6,
			qr_value = $7, status = $8, category_id = $9, updated_at = $10, retired_at = $11
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		a.ID, a.Code, a.Description, a.UnitMeasure, a.Minimum, a.Location,
		a.QRValue, string(a.Status), a.CategoryID, a.UpdatedAt, a.RetiredAt,
	)
	if err != nil {
		return wrapErr("update article", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

// UpdateBalance actualiza solo el saldo (usado por el libro de stock).
func (r *ArticleRepo) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx, `UPDATE articles SET balance = $2, updated_at = now() WHERE id = $1`, id, balance)
	if err != nil {
		return wrapErr("update article balance", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

// List lista artículos por código. includeRetired=false devuelve solo activos.
func (r *ArticleRepo) List(ctx context.Context, includeRetired bool) ([]*entity.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE ($1 OR status = 'ACTIVE') ORDER BY code`
	return r.list(ctx, "list articles", query, includeRetired)
}

// ListBelowMinimum lista artículos activos con saldo bajo el mínimo, mayor déficit primero.
func (r *ArticleRepo) ListBelowMinimum(ctx context.Context) ([]*entity.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles
		WHERE status = 'ACTIVE' AND balance < minimum
		ORDER BY (minimum - balance) DESC, code`
	return r.list(ctx, "list articles below minimum", query)
}

func (r *ArticleRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Article, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()
	out := []*entity.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, wrapErr(op, err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}
	return out, nil
}

func scanArticle(row pgx.Row) (*entity.Article, error) {
	var a entity.Article
	var status string
	err := row.Scan(
		&a.ID, &a.Code, &a.Description, &a.UnitMeasure, &a.Balance, &a.Minimum, &a.Location,
		&a.QRValue, &status, &a.CategoryID, &a.CreatedAt, &a.UpdatedAt, &a.RetiredAt,
	)
	if err != nil {
		return nil, err
	}
	a.Status = entity.ArticleStatus(status)
	return &a, nil
}
