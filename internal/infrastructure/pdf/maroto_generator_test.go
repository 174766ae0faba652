package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-api/internal/application/receiving"
	"github.com/jhoicas/stock-api/internal/domain/entity"
)

func TestFormatQuantity(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"5", "5"},
		{"1234.5", "1.234,5"},
		{"1000000", "1.000.000"},
		{"-20", "-20"},
		{"-1234.125", "-1.234,125"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatQuantity(decimal.RequireFromString(tt.in)), tt.in)
	}
}

func TestGenerateReceiptPDF(t *testing.T) {
	g := NewMarotoGenerator("Depósito Central")
	orderID := int64(4)
	doc := receiving.ReceiptDocument{
		Receipt: &entity.Receipt{
			ID: 12, SupplierName: "Ferretería Sur", DocumentNumber: "OC-3",
			Status: entity.ReceiptStatusConfirmed, PurchaseOrderID: &orderID,
			CreatedAt: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC), CreatedBy: "user-1",
		},
		OrderSequence: 3,
		Lines: []receiving.ReceiptLine{
			{Code: "A001", Description: "Tornillo 3mm", UnitMeasure: "unidad", Quantity: decimal.NewFromInt(5)},
			{Code: "A002", Description: "Cable 2,5mm", UnitMeasure: "metro", Quantity: decimal.RequireFromString("12.5")},
		},
	}

	out, err := g.GenerateReceiptPDF(doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateReceiptPDF_NilReceipt(t *testing.T) {
	_, err := NewMarotoGenerator("").GenerateReceiptPDF(receiving.ReceiptDocument{})
	assert.Error(t, err)
}

func TestGenerateArticleLabel(t *testing.T) {
	g := NewMarotoGenerator("")
	out, err := g.GenerateArticleLabel(&entity.Article{
		Code: "A001", Description: "Tornillo 3mm", UnitMeasure: "unidad",
		QRValue: "A001", Location: "Estante 4", Status: entity.ArticleStatusActive,
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
