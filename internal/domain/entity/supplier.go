package entity

import "time"

// Condiciones de pago de un proveedor.
type PaymentTerm string

const (
	PaymentTermCash  PaymentTerm = "CASH"
	PaymentTermNet15 PaymentTerm = "NET_15"
	PaymentTermNet30 PaymentTerm = "NET_30"
	PaymentTermNet60 PaymentTerm = "NET_60"
)

// Valid indica si la condición de pago es una de las soportadas.
func (p PaymentTerm) Valid() bool {
	switch p {
	case PaymentTermCash, PaymentTermNet15, PaymentTermNet30, PaymentTermNet60:
		return true
	}
	return false
}

// Supplier proveedor de mercadería. No tiene baja.
type Supplier struct {
	ID          int64
	TaxID       string // CUIT, único
	Name        string
	ContactName string
	Email       string
	Phone       string
	Address     string
	PaymentTerm PaymentTerm
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
