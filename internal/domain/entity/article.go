package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de un artículo.
type ArticleStatus string

const (
	ArticleStatusActive  ArticleStatus = "ACTIVE"
	ArticleStatusRetired ArticleStatus = "RETIRED"
)

// DefaultUnitMeasure unidad usada cuando el alta no indica una.
const DefaultUnitMeasure = "unidad"

// Article representa un ítem de stock (SKU) controlado por el sistema.
// Balance solo cambia vía movimientos; nunca se edita directamente.
type Article struct {
	ID          int64
	Code        string // único; se renombra al dar de baja
	Description string
	UnitMeasure string // ej: unidad, kg, caja
	Balance     decimal.Decimal
	Minimum     decimal.Decimal
	Location    string
	QRValue     string // valor codificado en la etiqueta QR
	Status      ArticleStatus
	CategoryID  *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	RetiredAt   *time.Time
}

// IsActive indica si el artículo admite movimientos.
func (a *Article) IsActive() bool {
	return a.Status == ArticleStatusActive
}

// BelowMinimum indica si el saldo está por debajo del stock mínimo.
func (a *Article) BelowMinimum() bool {
	return a.Balance.LessThan(a.Minimum)
}

// Retire pasa el artículo a RETIRED y libera su código y QR para reutilizarlos.
func (a *Article) Retire(now time.Time) {
	a.Code = RetiredIdentifier(a.Code, a.ID)
	a.QRValue = RetiredIdentifier(a.QRValue, a.ID)
	a.Status = ArticleStatusRetired
	a.RetiredAt = &now
	a.UpdatedAt = now
}

// RetiredIdentifier arma el identificador reservado de un artículo inactivo.
func RetiredIdentifier(value string, id int64) string {
	return fmt.Sprintf("%s__inactivo_%d", value, id)
}
