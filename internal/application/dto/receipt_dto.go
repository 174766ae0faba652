package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/stock-api/internal/domain/entity"
)

// ScanReceiptRequest body para POST /api/receipts/scan: recepción de un artículo escaneado en un solo paso.
type ScanReceiptRequest struct {
	SupplierName   string   `json:"supplier_name" validate:"required,max=200"`
	DocumentNumber string   `json:"document_number" validate:"max=100"`
	ScannedCode    string   `json:"scanned_code" validate:"required,max=255"`
	Quantity       Quantity `json:"quantity"`
}

// AddDraftItemRequest body para POST /api/receipts/:id/items.
type AddDraftItemRequest struct {
	ScannedCode string   `json:"scanned_code" validate:"required,max=255"`
	Quantity    Quantity `json:"quantity"`
}

// CreateDraftReceiptRequest body para POST /api/receipts (borrador).
type CreateDraftReceiptRequest struct {
	SupplierName   string `json:"supplier_name" validate:"required,max=200"`
	DocumentNumber string `json:"document_number" validate:"max=100"`
}

// ReceiptResponse salida de una recepción con sus ítems.
type ReceiptResponse struct {
	ID              int64                 `json:"id"`
	SupplierName    string                `json:"supplier_name"`
	DocumentNumber  string                `json:"document_number"`
	Status          string                `json:"status"`
	PurchaseOrderID *int64                `json:"purchase_order_id,omitempty"`
	CreatedBy       string                `json:"created_by"`
	CreatedAt       time.Time             `json:"created_at"`
	ConfirmedAt     *time.Time            `json:"confirmed_at,omitempty"`
	Items           []ReceiptItemResponse `json:"items"`
}

// ReceiptItemResponse línea de recepción.
type ReceiptItemResponse struct {
	ID          int64           `json:"id"`
	ArticleID   int64           `json:"article_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	ScannedCode string          `json:"scanned_code,omitempty"`
}

// ReceiptFromEntity arma la respuesta de una recepción.
func ReceiptFromEntity(r *entity.Receipt) ReceiptResponse {
	items := make([]ReceiptItemResponse, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, ReceiptItemResponse{
			ID:          it.ID,
			ArticleID:   it.ArticleID,
			Quantity:    it.Quantity,
			ScannedCode: it.ScannedCode,
		})
	}
	return ReceiptResponse{
		ID:              r.ID,
		SupplierName:    r.SupplierName,
		DocumentNumber:  r.DocumentNumber,
		Status:          string(r.Status),
		PurchaseOrderID: r.PurchaseOrderID,
		CreatedBy:       r.CreatedBy,
		CreatedAt:       r.CreatedAt,
		ConfirmedAt:     r.ConfirmedAt,
		Items:           items,
	}
}
