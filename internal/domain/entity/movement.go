package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
type MovementKind string

const (
	MovementKindIngress    MovementKind = "INGRESS"    // entrada
	MovementKindEgress     MovementKind = "EGRESS"     // salida
	MovementKindAdjustment MovementKind = "ADJUSTMENT" // ajuste con signo
	MovementKindRetirement MovementKind = "RETIREMENT" // baja del artículo, cantidad 0
)

// ParseMovementKind acepta los nombres canónicos y los del sistema anterior (INGRESO, EGRESO, AJUSTE, BAJA).
func ParseMovementKind(s string) (MovementKind, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INGRESS", "IN", "INGRESO":
		return MovementKindIngress, true
	case "EGRESS", "OUT", "EGRESO":
		return MovementKindEgress, true
	case "ADJUSTMENT", "ADJUST", "AJUSTE":
		return MovementKindAdjustment, true
	case "RETIREMENT", "BAJA":
		return MovementKindRetirement, true
	}
	return "", false
}

// Valid indica si k es uno de los cuatro tipos conocidos.
func (k MovementKind) Valid() bool {
	switch k {
	case MovementKindIngress, MovementKindEgress, MovementKindAdjustment, MovementKindRetirement:
		return true
	}
	return false
}

// Movement es un registro inmutable del libro de stock.
// Quantity: magnitud (>=0) en INGRESS/EGRESS, delta con signo en ADJUSTMENT, 0 en RETIREMENT.
type Movement struct {
	ID            int64
	TransactionID string // agrupa los movimientos de una misma operación
	ArticleID     int64
	Kind          MovementKind
	Quantity      decimal.Decimal
	BalanceAfter  decimal.Decimal
	Note          string
	Actor         string
	CreatedAt     time.Time
}

// Effect devuelve el efecto con signo del movimiento sobre el saldo.
func (m *Movement) Effect() decimal.Decimal {
	switch m.Kind {
	case MovementKindIngress, MovementKindAdjustment:
		return m.Quantity
	case MovementKindEgress:
		return m.Quantity.Neg()
	}
	return decimal.Zero
}
