package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/stock-api/internal/domain/entity"
)

// RegisterMovementRequest body para POST /api/movements.
// El artículo se indica por article_id o por scanned_code (texto leído del QR).
type RegisterMovementRequest struct {
	ArticleID   int64    `json:"article_id" validate:"omitempty,gt=0"`
	ScannedCode string   `json:"scanned_code" validate:"omitempty,max=255"`
	Type        string   `json:"type" validate:"required"`
	Quantity    Quantity `json:"quantity"`
	Note        string   `json:"note" validate:"max=500"`
}

// MovementResponse salida de un registro del libro.
type MovementResponse struct {
	ID            int64           `json:"id"`
	TransactionID string          `json:"transaction_id"`
	ArticleID     int64           `json:"article_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	Note          string          `json:"note"`
	Actor         string          `json:"actor"`
	CreatedAt     time.Time       `json:"created_at"`
}

// MovementListResponse historial de un artículo.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
}

// MovementResultResponse respuesta de un movimiento aplicado: artículo con su saldo nuevo.
type MovementResultResponse struct {
	Article  ArticleResponse  `json:"article"`
	Movement MovementResponse `json:"movement"`
}

// MovementFromEntity arma la respuesta de un movimiento.
func MovementFromEntity(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		ArticleID:     m.ArticleID,
		Type:          string(m.Kind),
		Quantity:      m.Quantity,
		BalanceAfter:  m.BalanceAfter,
		Note:          m.Note,
		Actor:         m.Actor,
		CreatedAt:     m.CreatedAt,
	}
}

// MovementsFromEntities arma el historial.
func MovementsFromEntities(list []*entity.Movement) MovementListResponse {
	items := make([]MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, MovementFromEntity(m))
	}
	return MovementListResponse{Items: items}
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un artículo bajo su stock mínimo.
type ReplenishmentSuggestionDTO struct {
	ArticleID         int64           `json:"article_id"`
	Code              string          `json:"code"`
	Description       string          `json:"description"`
	UnitMeasure       string          `json:"unit_measure"`
	Location          string          `json:"location"`
	CurrentBalance    decimal.Decimal `json:"current_balance"`
	Minimum           decimal.Decimal `json:"minimum"`
	Deficit           decimal.Decimal `json:"deficit"`             // Minimum - CurrentBalance
	IdealStock        decimal.Decimal `json:"ideal_stock"`         // Minimum * 1.5
	SuggestedOrderQty decimal.Decimal `json:"suggested_order_qty"` // IdealStock - CurrentBalance
	Priority          int             `json:"priority"`            // 1 = más urgente
}
