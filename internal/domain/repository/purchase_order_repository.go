package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-api/internal/domain/entity"
)

// PurchaseOrderRepository puerto de persistencia para órdenes de compra.
type PurchaseOrderRepository interface {
	// NextSequence incrementa el contador atómico de órdenes y devuelve el nuevo valor.
	// Debe llamarse dentro de la misma transacción que Create.
	NextSequence(ctx context.Context) (int64, error)
	// Create persiste cabecera e ítems.
	Create(ctx context.Context, order *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id int64) (*entity.PurchaseOrder, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*entity.PurchaseOrder, error)
	MarkReceived(ctx context.Context, id int64, receivedAt time.Time) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, status entity.OrderStatus, limit, offset int) ([]*entity.PurchaseOrder, error)
}
