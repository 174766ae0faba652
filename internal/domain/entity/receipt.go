package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una recepción.
type ReceiptStatus string

const (
	ReceiptStatusDraft     ReceiptStatus = "DRAFT"
	ReceiptStatusConfirmed ReceiptStatus = "CONFIRMED"
)

// Receipt cabecera de una recepción controlada de mercadería.
type Receipt struct {
	ID              int64
	SupplierName    string
	DocumentNumber  string
	Status          ReceiptStatus
	PurchaseOrderID *int64
	CreatedAt       time.Time
	ConfirmedAt     *time.Time
	CreatedBy       string
	Items           []ReceiptItem
}

// ReceiptItem línea de una recepción.
type ReceiptItem struct {
	ID          int64
	ReceiptID   int64
	ArticleID   int64
	Quantity    decimal.Decimal
	ScannedCode string
}

// IsConfirmed indica si la recepción ya impactó en el stock.
func (r *Receipt) IsConfirmed() bool {
	return r.Status == ReceiptStatusConfirmed
}
