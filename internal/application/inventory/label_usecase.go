package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-api/internal/domain"
	"github.com/jhoicas/stock-api/internal/domain/repository"
)

// LabelUseCase genera la etiqueta QR imprimible de un artículo.
type LabelUseCase struct {
	articleRepo repository.ArticleRepository
	generator   LabelGenerator
}

// NewLabelUseCase construye el caso de uso.
func NewLabelUseCase(articleRepo repository.ArticleRepository, generator LabelGenerator) *LabelUseCase {
	return &LabelUseCase{articleRepo: articleRepo, generator: generator}
}

// ArticleLabel devuelve el PDF de la etiqueta y el nombre de archivo sugerido.
// Los artículos dados de baja no tienen etiqueta.
func (uc *LabelUseCase) ArticleLabel(ctx context.Context, id int64) (pdf []byte, filename string, err error) {
	a, err := uc.articleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if a == nil {
		return nil, "", domain.ErrArticleNotFound
	}
	if !a.IsActive() {
		return nil, "", domain.ErrArticleRetired
	}
	pdf, err = uc.generator.GenerateArticleLabel(a)
	if err != nil {
		return nil, "", fmt.Errorf("etiqueta: generar PDF: %w", err)
	}
	return pdf, fmt.Sprintf("etiqueta-%s.pdf", a.Code), nil
}
