package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/stock-api/internal/domain/entity"
)

// ArticleRepository define el puerto de persistencia para Article (DIP).
// Los Get devuelven (nil, nil) si no existe.
type ArticleRepository interface {
	Create(ctx context.Context, article *entity.Article) error
	GetByID(ctx context.Context, id int64) (*entity.Article, error)
	// GetByIDForUpdate bloquea la fila (SELECT FOR UPDATE) hasta el fin de la transacción.
	GetByIDForUpdate(ctx context.Context, id int64) (*entity.Article, error)
	GetByCode(ctx context.Context, code string) (*entity.Article, error)
	GetByQR(ctx context.Context, qrValue string) (*entity.Article, error)
	// Update persiste los datos descriptivos y de ciclo de vida. No toca Balance.
	Update(ctx context.Context, article *entity.Article) error
	// UpdateBalance solo lo usa el libro de stock.
	UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error
	List(ctx context.Context, includeRetired bool) ([]*entity.Article, error)
	ListBelowMinimum(ctx context.Context) ([]*entity.Article, error)
}
