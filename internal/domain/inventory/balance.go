package inventory

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/stock-api/internal/domain"
	"github.com/jhoicas/stock-api/internal/domain/entity"
)

// Apply implementa la regla de saldo del libro de stock (servicio de dominio).
// Devuelve la cantidad a registrar en el movimiento y el nuevo saldo.
//
//	INGRESS:    q > 0;  nuevo = saldo + q
//	EGRESS:     q > 0;  q <= saldo; nuevo = saldo - q
//	ADJUSTMENT: d != 0; saldo + d >= 0; nuevo = saldo + d (se guarda d con signo)
//	RETIREMENT: q se ignora y se guarda 0; el saldo no cambia
func Apply(kind entity.MovementKind, balance, quantity decimal.Decimal) (stored, newBalance decimal.Decimal, err error) {
	if kind != entity.MovementKindRetirement {
		if err := CheckQuantity(quantity); err != nil {
			return decimal.Zero, balance, err
		}
	}
	switch kind {
	case entity.MovementKindIngress:
		if !quantity.IsPositive() {
			return decimal.Zero, balance, domain.ErrInvalidQuantity
		}
		return quantity, balance.Add(quantity), nil
	case entity.MovementKindEgress:
		if !quantity.IsPositive() {
			return decimal.Zero, balance, domain.ErrInvalidQuantity
		}
		if quantity.GreaterThan(balance) {
			return decimal.Zero, balance, domain.ErrInsufficientStock
		}
		return quantity, balance.Sub(quantity), nil
	case entity.MovementKindAdjustment:
		if quantity.IsZero() {
			return decimal.Zero, balance, domain.ErrInvalidQuantity
		}
		next := balance.Add(quantity)
		if next.IsNegative() {
			return decimal.Zero, balance, domain.ErrNegativeBalanceResult
		}
		return quantity, next, nil
	case entity.MovementKindRetirement:
		return decimal.Zero, balance, nil
	}
	return decimal.Zero, balance, domain.ErrUnknownMovementKind
}

// Límites de una cantidad: hasta MaxIntegerDigits enteros y MaxDecimalPlaces decimales.
const (
	MaxIntegerDigits = 18
	MaxDecimalPlaces = 6
)

// CheckQuantity rechaza cantidades fuera de rango. Solo mira coeficiente y exponente;
// no reescala el decimal.
func CheckQuantity(q decimal.Decimal) error {
	if q.IsZero() {
		return nil
	}
	coef := strings.TrimPrefix(q.Coefficient().String(), "-")
	exp := int64(q.Exponent())
	trimmed := strings.TrimRight(coef, "0")
	exp += int64(len(coef) - len(trimmed))
	if int64(len(trimmed))+exp > MaxIntegerDigits {
		return fmt.Errorf("%w: más de %d dígitos enteros", domain.ErrInvalidQuantity, MaxIntegerDigits)
	}
	if -exp > MaxDecimalPlaces {
		return fmt.Errorf("%w: más de %d decimales", domain.ErrInvalidQuantity, MaxDecimalPlaces)
	}
	return nil
}
