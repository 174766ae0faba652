package receiving

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-api/internal/domain"
	"github.com/jhoicas/stock-api/internal/domain/repository"
	"github.com/jhoicas/stock-api/pkg/logger"
)

// PDFUseCase genera el comprobante PDF de una recepción y, si hay almacenamiento configurado,
// guarda una copia en receipts/<id>.pdf.
type PDFUseCase struct {
	repos     repository.Repositories
	generator ReceiptPDFGenerator
	archive   DocumentArchive
	log       *logger.Logger
}

// NewPDFUseCase construye el caso de uso. archive puede ser nil.
func NewPDFUseCase(repos repository.Repositories, generator ReceiptPDFGenerator, archive DocumentArchive, log *logger.Logger) *PDFUseCase {
	return &PDFUseCase{repos: repos, generator: generator, archive: archive, log: log.Named("receipt_pdf")}
}

// DownloadReceiptPDF arma el documento con los datos de los artículos y lo renderiza.
//
// Retorna:
//   - (pdfBytes, filename, nil)       si todo sale bien.
//   - domain.ErrReceiptNotFound       si la recepción no existe.
func (uc *PDFUseCase) DownloadReceiptPDF(ctx context.Context, receiptID int64) (pdfBytes []byte, filename string, err error) {
	r, err := uc.repos.Receipts.GetByID(ctx, receiptID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener recepción: %w", err)
	}
	if r == nil {
		return nil, "", domain.ErrReceiptNotFound
	}

	doc := ReceiptDocument{Receipt: r, Lines: make([]ReceiptLine, 0, len(r.Items))}
	if r.PurchaseOrderID != nil {
		order, err := uc.repos.Orders.GetByID(ctx, *r.PurchaseOrderID)
		if err != nil {
			return nil, "", fmt.Errorf("pdf: obtener orden: %w", err)
		}
		if order != nil {
			doc.OrderSequence = order.SequenceNumber
		}
	}
	for _, it := range r.Items {
		line := ReceiptLine{Quantity: it.Quantity, Code: fmt.Sprintf("#%d", it.ArticleID)}
		a, err := uc.repos.Articles.GetByID(ctx, it.ArticleID)
		if err != nil {
			return nil, "", fmt.Errorf("pdf: obtener artículo: %w", err)
		}
		if a != nil {
			line.Code = a.Code
			line.Description = a.Description
			line.UnitMeasure = a.UnitMeasure
		}
		doc.Lines = append(doc.Lines, line)
	}

	pdfBytes, err = uc.generator.GenerateReceiptPDF(doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar: %w", err)
	}

	if uc.archive != nil {
		key := fmt.Sprintf("receipts/%d.pdf", r.ID)
		if err := uc.archive.Put(ctx, key, "application/pdf", pdfBytes); err != nil {
			uc.log.Warn().Err(err).Str("key", key).Msg("no se pudo archivar el comprobante")
		}
	}
	return pdfBytes, fmt.Sprintf("recepcion-%d.pdf", r.ID), nil
}
