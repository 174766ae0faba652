package repository

import (
	"context"

	"github.com/jhoicas/stock-api/internal/domain/entity"
)

// MovementRepository puerto del libro de movimientos. Solo inserción y lectura.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	ListByArticle(ctx context.Context, articleID int64, limit int) ([]*entity.Movement, error)
	ListByTransaction(ctx context.Context, transactionID string) ([]*entity.Movement, error)
}
