package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/stock-api/internal/domain"
)

// Códigos SQLSTATE que se traducen a errores de dominio.
const (
	sqlStateUniqueViolation      = "23505"
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
)

// Constraints únicos con error de dominio propio.
var uniqueConstraintErrors = map[string]error{
	"articles_code_key":     domain.ErrDuplicateCode,
	"articles_qr_value_key": domain.ErrDuplicateQR,
	"suppliers_tax_id_key":  domain.ErrDuplicateTaxID,
}

// wrapErr traduce errores de PostgreSQL a errores de dominio; el resto se envuelve con la operación.
func wrapErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateUniqueViolation:
			if derr, ok := uniqueConstraintErrors[pgErr.ConstraintName]; ok {
				return derr
			}
			return domain.ErrDuplicate
		case sqlStateSerializationFailure, sqlStateDeadlockDetected:
			return domain.ErrConcurrentWrite
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
