package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/stock-api/internal/domain/entity"
	"github.com/jhoicas/stock-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error
}

// Clock permite fijar la hora en tests.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// LabelGenerator genera la etiqueta imprimible (PDF con QR) de un artículo.
type LabelGenerator interface {
	GenerateArticleLabel(article *entity.Article) ([]byte, error)
}
