package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra.
type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "PENDING"
	OrderStatusReceived OrderStatus = "RECEIVED"
)

// PurchaseOrder cabecera de una orden de compra a proveedor.
// SequenceNumber se asigna al persistir y nunca se reutiliza.
type PurchaseOrder struct {
	ID             int64
	SequenceNumber int64
	SupplierID     int64
	Status         OrderStatus
	Note           string
	CreatedAt      time.Time
	ReceivedAt     *time.Time
	CreatedBy      string
	Items          []PurchaseOrderItem
}

// PurchaseOrderItem artículo y cantidad pedida.
type PurchaseOrderItem struct {
	ID                int64
	OrderID           int64
	ArticleID         int64
	RequestedQuantity decimal.Decimal
}

// IsPending indica si la orden todavía puede recibirse o eliminarse.
func (o *PurchaseOrder) IsPending() bool {
	return o.Status == OrderStatusPending
}
