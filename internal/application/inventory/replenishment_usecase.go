package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/stock-api/internal/application/dto"
	"github.com/jhoicas/stock-api/internal/domain/repository"
)

// idealFactor stock ideal = mínimo * 1.5
var idealFactor = decimal.RequireFromString("1.5")

// ReplenishmentUseCase genera la lista de reposición: artículos activos con saldo bajo el mínimo.
type ReplenishmentUseCase struct {
	articleRepo repository.ArticleRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(articleRepo repository.ArticleRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{articleRepo: articleRepo}
}

// GenerateReplenishmentList devuelve los artículos bajo mínimo con la cantidad sugerida de pedido,
// ordenados por mayor déficit. Priority 1 = más urgente.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	articles, err := uc.articleRepo.ListBelowMinimum(ctx)
	if err != nil {
		return nil, err
	}
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(articles))
	for _, a := range articles {
		if !a.IsActive() || !a.BelowMinimum() {
			continue
		}
		ideal := a.Minimum.Mul(idealFactor)
		suggested := ideal.Sub(a.Balance)
		if suggested.IsNegative() {
			suggested = decimal.Zero
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ArticleID:         a.ID,
			Code:              a.Code,
			Description:       a.Description,
			UnitMeasure:       a.UnitMeasure,
			Location:          a.Location,
			CurrentBalance:    a.Balance,
			Minimum:           a.Minimum,
			Deficit:           a.Minimum.Sub(a.Balance),
			IdealStock:        ideal,
			SuggestedOrderQty: suggested,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if !a.Deficit.Equal(b.Deficit) {
			return a.Deficit.GreaterThan(b.Deficit)
		}
		return a.Code < b.Code
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
