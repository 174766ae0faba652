package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-api/internal/domain/entity"
	"github.com/jhoicas/stock-api/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

const supplierColumns = `id, tax_id, name, contact_name, email, phone, address, payment_term, created_at, updated_at`

// SupplierRepo implementación sobre PostgreSQL (usable con pool o tx).
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

// Create persiste un proveedor y asigna su ID.
func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	query := `
		INSERT INTO suppliers (tax_id, name, contact_name, email, phone, address, payment_term, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		s.TaxID, s.Name, s.ContactName, s.Email, s.Phone, s.Address, string(s.PaymentTerm), s.CreatedAt, s.UpdatedAt,
	).Scan(&s.ID)
	if err != nil {
		return wrapErr("insert supplier", err)
	}
	return nil
}

// GetByID obtiene un proveedor por ID.
func (r *SupplierRepo) GetByID(ctx context.Context, id int64) (*entity.Supplier, error) {
	return r.getOne(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id)
}

// GetByTaxID obtiene un proveedor por CUIT normalizado.
func (r *SupplierRepo) GetByTaxID(ctx context.Context, taxID string) (*entity.Supplier, error) {
	return r.getOne(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE tax_id = $1`, taxID)
}

func (r *SupplierRepo) getOne(ctx context.Context, query string, arg any) (*entity.Supplier, error) {
	s, err := scanSupplier(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get supplier", err)
	}
	return s, nil
}

// List lista proveedores por nombre con paginación.
func (r *SupplierRepo) List(ctx context.Context, limit, offset int) ([]*entity.Supplier, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+supplierColumns+` FROM suppliers ORDER BY name, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, wrapErr("list suppliers", err)
	}
	defer rows.Close()
	out := []*entity.Supplier{}
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, wrapErr("scan supplier", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list suppliers", err)
	}
	return out, nil
}

func scanSupplier(row pgx.Row) (*entity.Supplier, error) {
	var s entity.Supplier
	var term string
	if err := row.Scan(
		&s.ID, &s.TaxID, &s.Name, &s.ContactName, &s.Email, &s.Phone, &s.Address, &term, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	s.PaymentTerm = entity.PaymentTerm(term)
	return &s, nil
}
