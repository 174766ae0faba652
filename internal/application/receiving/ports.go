package receiving

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/stock-api/internal/application/inventory"
	"github.com/jhoicas/stock-api/internal/domain/entity"
	"github.com/jhoicas/stock-api/internal/domain/repository"
)

// Ledger interfaz para integrar recepciones con el libro de stock.
// ApplyInTx aplica un movimiento con los repositorios del caller (misma transacción);
// si retorna error el caller debe hacer rollback.
type Ledger interface {
	ApplyInTx(ctx context.Context, repos repository.Repositories, article *entity.Article, p inventory.Posting) (*inventory.MovementResult, error)
}

// ReceiptPDFGenerator genera el comprobante imprimible de una recepción.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(doc ReceiptDocument) ([]byte, error)
}

// DocumentArchive guarda copias de los comprobantes generados (almacenamiento de objetos).
type DocumentArchive interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
}

// ReceiptDocument datos necesarios para imprimir una recepción.
type ReceiptDocument struct {
	Receipt       *entity.Receipt
	OrderSequence int64 // 0 si la recepción no viene de una orden de compra
	Lines         []ReceiptLine
}

// ReceiptLine línea imprimible.
type ReceiptLine struct {
	Code        string
	Description string
	UnitMeasure string
	Quantity    decimal.Decimal
}
