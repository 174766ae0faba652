package dto

import "time"

// CreateSupplierRequest body para POST /api/suppliers.
type CreateSupplierRequest struct {
	TaxID       string `json:"tax_id" validate:"required,max=20"`
	Name        string `json:"name" validate:"required,max=200"`
	ContactName string `json:"contact_name" validate:"max=200"`
	Email       string `json:"email" validate:"omitempty,email,max=200"`
	Phone       string `json:"phone" validate:"max=50"`
	Address     string `json:"address" validate:"max=300"`
	PaymentTerm string `json:"payment_term" validate:"omitempty,oneof=CASH NET_15 NET_30 NET_60"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID          int64     `json:"id"`
	TaxID       string    `json:"tax_id"`
	Name        string    `json:"name"`
	ContactName string    `json:"contact_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	PaymentTerm string    `json:"payment_term"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SupplierListResponse lista paginada de proveedores.
type SupplierListResponse struct {
	Items []SupplierResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
