package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-api/internal/domain"
	"github.com/jhoicas/stock-api/internal/domain/inventory"
)

// Quantity cantidad decimal que acepta número JSON o string con coma decimal ("12,5", "1.234,5").
// Se serializa como string para no perder precisión.
type Quantity struct {
	decimal.Decimal
}

// NewQuantity envuelve un decimal.
func NewQuantity(d decimal.Decimal) Quantity {
	return Quantity{Decimal: d}
}

// UnmarshalJSON implementa json.Unmarshaler.
func (q *Quantity) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		q.Decimal = decimal.Zero
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrInvalidQuantity, err)
		}
	}
	d, err := ParseQuantity(s)
	if err != nil {
		return err
	}
	q.Decimal = d
	return nil
}

// ParseQuantity interpreta una cantidad escrita a mano o leída de un CSV.
// Con punto y coma presentes, el punto es separador de miles.
// Los errores envuelven domain.ErrInvalidQuantity; ver inventory.CheckQuantity para los límites.
func ParseQuantity(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: vacía", domain.ErrInvalidQuantity)
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", domain.ErrInvalidQuantity, s)
	}
	if err := inventory.CheckQuantity(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}
