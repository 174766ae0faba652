package repository

import (
	"context"

	"github.com/jhoicas/stock-api/internal/domain/entity"
)

// CategoryRepository solo resuelve la referencia desde artículos; el ABM de categorías vive fuera de este servicio.
type CategoryRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Category, error)
}
