package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/stock-api/internal/domain/entity"
)

// CreateArticleRequest body para POST /api/articles.
type CreateArticleRequest struct {
	Code           string   `json:"code" validate:"required,max=50"`
	Description    string   `json:"description" validate:"required,max=255"`
	UnitMeasure    string   `json:"unit_measure" validate:"omitempty,max=30"`
	Minimum        Quantity `json:"minimum"`
	InitialBalance Quantity `json:"initial_balance"`
	Location       string   `json:"location" validate:"omitempty,max=100"`
	QRValue        string   `json:"qr_value" validate:"omitempty,max=255"`
	CategoryID     *int64   `json:"category_id" validate:"omitempty,gt=0"`
}

// UpdateArticleRequest body para PUT /api/articles/:id. Código y saldo no se editan.
type UpdateArticleRequest struct {
	Description   *string   `json:"description" validate:"omitempty,min=1,max=255"`
	UnitMeasure   *string   `json:"unit_measure" validate:"omitempty,max=30"`
	Minimum       *Quantity `json:"minimum"`
	Location      *string   `json:"location" validate:"omitempty,max=100"`
	QRValue       *string   `json:"qr_value" validate:"omitempty,min=1,max=255"`
	CategoryID    *int64    `json:"category_id" validate:"omitempty,gt=0"`
	ClearCategory bool      `json:"clear_category"`
}

// RetireArticleRequest body opcional para POST /api/articles/:id/retire.
type RetireArticleRequest struct {
	Note string `json:"note" validate:"max=500"`
}

// ArticleResponse salida de un artículo.
type ArticleResponse struct {
	ID           int64           `json:"id"`
	Code         string          `json:"code"`
	Description  string          `json:"description"`
	UnitMeasure  string          `json:"unit_measure"`
	Balance      decimal.Decimal `json:"balance"`
	Minimum      decimal.Decimal `json:"minimum"`
	BelowMinimum bool            `json:"below_minimum"`
	Location     string          `json:"location"`
	QRValue      string          `json:"qr_value"`
	Status       string          `json:"status"`
	CategoryID   *int64          `json:"category_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	RetiredAt    *time.Time      `json:"retired_at,omitempty"`
}

// ArticleListResponse lista de artículos.
type ArticleListResponse struct {
	Items []ArticleResponse `json:"items"`
}

// ArticleFromEntity arma la respuesta de un artículo.
func ArticleFromEntity(a *entity.Article) ArticleResponse {
	return ArticleResponse{
		ID:           a.ID,
		Code:         a.Code,
		Description:  a.Description,
		UnitMeasure:  a.UnitMeasure,
		Balance:      a.Balance,
		Minimum:      a.Minimum,
		BelowMinimum: a.IsActive() && a.BelowMinimum(),
		Location:     a.Location,
		QRValue:      a.QRValue,
		Status:       string(a.Status),
		CategoryID:   a.CategoryID,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
		RetiredAt:    a.RetiredAt,
	}
}

// ArticlesFromEntities arma una lista de respuestas.
func ArticlesFromEntities(list []*entity.Article) ArticleListResponse {
	items := make([]ArticleResponse, 0, len(list))
	for _, a := range list {
		items = append(items, ArticleFromEntity(a))
	}
	return ArticleListResponse{Items: items}
}
