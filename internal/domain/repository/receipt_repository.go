package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-api/internal/domain/entity"
)

// ReceiptRepository puerto de persistencia para recepciones y sus ítems.
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *entity.Receipt) error
	AddItem(ctx context.Context, item *entity.ReceiptItem) error
	// GetByID devuelve la cabecera con sus ítems.
	GetByID(ctx context.Context, id int64) (*entity.Receipt, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*entity.Receipt, error)
	Confirm(ctx context.Context, id int64, confirmedAt time.Time) error
}
