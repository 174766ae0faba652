package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-api/internal/domain"
	"github.com/jhoicas/stock-api/internal/domain/entity"
	"github.com/jhoicas/stock-api/internal/domain/inventory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestApply_Reglas(t *testing.T) {
	cases := []struct {
		name      string
		kind      entity.MovementKind
		balance   string
		quantity  string
		wantStore string
		wantBal   string
		wantErr   error
	}{
		{"ingreso suma", entity.MovementKindIngress, "10", "2.5", "2.5", "12.5", nil},
		{"ingreso cero", entity.MovementKindIngress, "10", "0", "0", "10", domain.ErrInvalidQuantity},
		{"ingreso negativo", entity.MovementKindIngress, "10", "-1", "0", "10", domain.ErrInvalidQuantity},
		{"egreso resta", entity.MovementKindEgress, "10", "4", "4", "6", nil},
		{"egreso exacto deja cero", entity.MovementKindEgress, "6", "6", "6", "0", nil},
		{"egreso mayor al saldo", entity.MovementKindEgress, "6", "10", "0", "6", domain.ErrInsufficientStock},
		{"egreso negativo", entity.MovementKindEgress, "6", "-1", "0", "6", domain.ErrInvalidQuantity},
		{"ajuste positivo", entity.MovementKindAdjustment, "6", "3", "3", "9", nil},
		{"ajuste negativo", entity.MovementKindAdjustment, "6", "-6", "-6", "0", nil},
		{"ajuste deja negativo", entity.MovementKindAdjustment, "6", "-20", "0", "6", domain.ErrNegativeBalanceResult},
		{"ajuste cero", entity.MovementKindAdjustment, "6", "0", "0", "6", domain.ErrInvalidQuantity},
		{"baja guarda cero", entity.MovementKindRetirement, "6", "99", "0", "6", nil},
		{"tipo desconocido", entity.MovementKind("TRANSFER"), "6", "1", "0", "6", domain.ErrUnknownMovementKind},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stored, bal, err := inventory.Apply(tc.kind, dec(tc.balance), dec(tc.quantity))
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.True(t, dec(tc.wantStore).Equal(stored), "cantidad registrada: %s", stored)
			assert.True(t, dec(tc.wantBal).Equal(bal), "saldo: %s", bal)
		})
	}
}

// La suma de efectos de una secuencia válida coincide con el saldo final, sin deriva decimal.
func TestApply_SumaDeEfectosIgualSaldo(t *testing.T) {
	balance := decimal.Zero
	effects := decimal.Zero
	steps := []struct {
		kind entity.MovementKind
		q    string
	}{
		{entity.MovementKindIngress, "0.1"},
		{entity.MovementKindIngress, "0.2"},
		{entity.MovementKindEgress, "0.3"},
		{entity.MovementKindIngress, "100.005"},
		{entity.MovementKindAdjustment, "-0.005"},
		{entity.MovementKindRetirement, "0"},
	}
	for i := 0; i < 100; i++ {
		steps = append(steps, struct {
			kind entity.MovementKind
			q    string
		}{entity.MovementKindIngress, "0.01"})
	}
	for _, s := range steps {
		stored, next, err := inventory.Apply(s.kind, balance, dec(s.q))
		require.NoError(t, err)
		m := entity.Movement{Kind: s.kind, Quantity: stored}
		effects = effects.Add(m.Effect())
		balance = next
	}
	assert.Equal(t, "101", balance.String())
	assert.True(t, effects.Equal(balance))
}

func TestCheckQuantity_Limites(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"0", true},
		{"12.5", true},
		{"-6", true},
		{"999999999999999999", true},
		{"0.000001", true},
		{"2.5000000", true},
		{"1e17", true},
		{"1000000000000000000", false},
		{"1e18", false},
		{"1e999999999", false},
		{"0.0000001", false},
		{"1e-999999999", false},
	}
	for _, tc := range cases {
		err := inventory.CheckQuantity(dec(tc.in))
		if tc.ok {
			assert.NoError(t, err, tc.in)
		} else {
			assert.ErrorIs(t, err, domain.ErrInvalidQuantity, tc.in)
		}
	}
}

func TestApply_RechazaExponenteEnorme(t *testing.T) {
	for _, kind := range []entity.MovementKind{entity.MovementKindIngress, entity.MovementKindAdjustment} {
		_, bal, err := inventory.Apply(kind, dec("10"), dec("1e3000000"))
		require.ErrorIs(t, err, domain.ErrInvalidQuantity, string(kind))
		assert.True(t, dec("10").Equal(bal))
	}
}
