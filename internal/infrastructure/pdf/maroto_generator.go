// Package pdf genera los documentos imprimibles del depósito con Maroto v2.
//
// Comprobante de recepción (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: COMPROBANTE DE RECEPCIÓN  │  N° + Fecha            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PROVEEDOR + Documento / Orden de compra                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Descripción | Unidad | Cantidad             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR de la recepción + firma de quien recibe          │
//	└─────────────────────────────────────────────────────────────┘
//
// Etiqueta de artículo (100x60 mm): QR con el valor escaneable, código y descripción.
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-api/internal/application/inventory"
	"github.com/jhoicas/stock-api/internal/application/receiving"
	"github.com/jhoicas/stock-api/internal/domain/entity"
)

var (
	_ receiving.ReceiptPDFGenerator = (*MarotoGenerator)(nil)
	_ inventory.LabelGenerator      = (*MarotoGenerator)(nil)
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// Medidas de la etiqueta en mm.
const (
	labelWidth  = 100
	labelHeight = 60
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoGenerator implementa receiving.ReceiptPDFGenerator e inventory.LabelGenerator.
type MarotoGenerator struct {
	company string // razón social impresa en los comprobantes
}

// NewMarotoGenerator construye el generador.
func NewMarotoGenerator(company string) *MarotoGenerator {
	return &MarotoGenerator{company: company}
}

// GenerateReceiptPDF genera el comprobante de una recepción y devuelve sus bytes.
func (g *MarotoGenerator) GenerateReceiptPDF(doc receiving.ReceiptDocument) ([]byte, error) {
	if doc.Receipt == nil {
		return nil, fmt.Errorf("pdf: recepción vacía")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fmt.Sprintf("Recepción %d", doc.Receipt.ID), true).
		WithAuthor(g.company, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(receiptHeaderRow(g.company, doc.Receipt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(supplierRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(doc.Lines)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(doc.Lines))

	m.AddRows(line.NewRow(3))
	m.AddRows(receiptFooterRow(doc.Receipt))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return out.GetBytes(), nil
}

// GenerateArticleLabel genera la etiqueta para pegar en la ubicación del artículo.
// El QR contiene QRValue, que es lo que resuelve el escaneo.
func (g *MarotoGenerator) GenerateArticleLabel(a *entity.Article) ([]byte, error) {
	cfg := config.NewBuilder().
		WithDimensions(labelWidth, labelHeight).
		WithLeftMargin(3).WithRightMargin(3).
		WithTopMargin(3).WithBottomMargin(3).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Etiqueta "+a.Code, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(row.New(50).Add(
		col.New(5).Add(code.NewQr(a.QRValue, props.Rect{Percent: 95, Center: true})),
		col.New(7).Add(
			text.New(a.Code, props.Text{Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 3, Left: 2}),
			text.New(a.Description, props.Text{Size: 8, Top: 13, Left: 2}),
			text.New("Ubicación: "+nonEmpty(a.Location, "—"), props.Text{Size: 7, Top: 32, Left: 2, Color: colorGray}),
			text.New("Unidad: "+a.UnitMeasure, props.Text{Size: 7, Top: 38, Left: 2, Color: colorGray}),
		),
	))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar etiqueta: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func receiptHeaderRow(company string, r *entity.Receipt) core.Row {
	fecha := r.CreatedAt.Format("02/01/2006 15:04")
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(company, "Depósito"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("COMPROBANTE DE RECEPCIÓN", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(fmt.Sprintf("N° %06d", r.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 2,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
			text.New(statusLabel(r.Status), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 14, Color: colorPrimary,
			}),
		),
	)
}

func supplierRow(doc receiving.ReceiptDocument) core.Row {
	ref := "Documento: " + nonEmpty(doc.Receipt.DocumentNumber, "—")
	if doc.OrderSequence > 0 {
		ref += fmt.Sprintf("   |   Orden de compra N° %d", doc.OrderSequence)
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("PROVEEDOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(doc.Receipt.SupplierName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(ref, props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Código", 2, align.Left),
		h("Descripción", 6, align.Left),
		h("Unidad", 2, align.Center),
		h("Cantidad", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func tableDetailRows(lines []receiving.ReceiptLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(l.Code, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(6).Add(text.New(l.Description, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(l.UnitMeasure, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(formatQuantity(l.Quantity), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func totalsRow(lines []receiving.ReceiptLine) core.Row {
	return row.New(8).Add(
		col.New(8),
		col.New(4).Add(text.New(fmt.Sprintf("Ítems recibidos: %d", len(lines)), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

// receiptFooterRow: QR con el identificador de la recepción + firma.
func receiptFooterRow(r *entity.Receipt) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(fmt.Sprintf("RECEPCION-%d", r.ID), props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Recibido por: "+nonEmpty(r.CreatedBy, "—"), props.Text{Size: 8, Top: 6, Left: 3, Color: colorGray}),
			text.New("Firma: ______________________________", props.Text{Size: 9, Top: 24, Left: 3}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func statusLabel(s entity.ReceiptStatus) string {
	if s == entity.ReceiptStatusConfirmed {
		return "CONFIRMADA"
	}
	return "BORRADOR"
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatQuantity usa punto de miles y coma decimal, sin ceros de relleno.
// Ej: 1234.5 → "1.234,5", -20 → "-20".
func formatQuantity(d decimal.Decimal) string {
	s := d.String()
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	out := sign + string(buf)
	if hasFrac {
		out += "," + frac
	}
	return out
}
