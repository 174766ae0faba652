package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/stock-api/internal/domain/entity"
)

// CreatePurchaseOrderRequest body para POST /api/purchase-orders.
type CreatePurchaseOrderRequest struct {
	SupplierID int64                      `json:"supplier_id" validate:"required,gt=0"`
	Note       string                     `json:"note" validate:"max=500"`
	Items      []PurchaseOrderItemRequest `json:"items" validate:"dive"`
}

// PurchaseOrderItemRequest línea pedida.
type PurchaseOrderItemRequest struct {
	ArticleID int64    `json:"article_id" validate:"required,gt=0"`
	Quantity  Quantity `json:"quantity"`
}

// ListPurchaseOrdersRequest filtros de GET /api/purchase-orders.
type ListPurchaseOrdersRequest struct {
	PageRequest
	Status string `query:"status"` // PENDING | RECEIVED | vacío = todas
}

// PurchaseOrderResponse salida de una orden de compra.
type PurchaseOrderResponse struct {
	ID             int64                       `json:"id"`
	SequenceNumber int64                       `json:"sequence_number"`
	SupplierID     int64                       `json:"supplier_id"`
	Status         string                      `json:"status"`
	Note           string                      `json:"note"`
	CreatedBy      string                      `json:"created_by"`
	CreatedAt      time.Time                   `json:"created_at"`
	ReceivedAt     *time.Time                  `json:"received_at,omitempty"`
	Items          []PurchaseOrderItemResponse `json:"items"`
}

// PurchaseOrderItemResponse línea de la orden.
type PurchaseOrderItemResponse struct {
	ID                int64           `json:"id"`
	ArticleID         int64           `json:"article_id"`
	RequestedQuantity decimal.Decimal `json:"requested_quantity"`
}

// PurchaseOrderListResponse lista paginada de órdenes.
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// ReceiveOrderResponse resultado de recibir una orden.
// AlreadyReceived indica que la orden ya estaba recibida y no se movió stock; Code vale ALREADY_RECEIVED.
type ReceiveOrderResponse struct {
	Code            string                `json:"code,omitempty"`
	Order           PurchaseOrderResponse `json:"order"`
	Receipt         *ReceiptResponse      `json:"receipt,omitempty"`
	AlreadyReceived bool                  `json:"already_received"`
}

// PurchaseOrderFromEntity arma la respuesta de una orden.
func PurchaseOrderFromEntity(o *entity.PurchaseOrder) PurchaseOrderResponse {
	items := make([]PurchaseOrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, PurchaseOrderItemResponse{
			ID:                it.ID,
			ArticleID:         it.ArticleID,
			RequestedQuantity: it.RequestedQuantity,
		})
	}
	return PurchaseOrderResponse{
		ID:             o.ID,
		SequenceNumber: o.SequenceNumber,
		SupplierID:     o.SupplierID,
		Status:         string(o.Status),
		Note:           o.Note,
		CreatedBy:      o.CreatedBy,
		CreatedAt:      o.CreatedAt,
		ReceivedAt:     o.ReceivedAt,
		Items:          items,
	}
}
