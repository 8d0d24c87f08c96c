package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto perecedero. ShelfLifeDays es la vida útil
// configurada: al crear un lote, el vencimiento se deriva de
// producción + ShelfLifeDays. El stock NO vive aquí: se agrega desde los lotes.
type Product struct {
	ID            string
	SKU           string // código único
	Name          string
	Description   string
	Price         decimal.Decimal
	ShelfLifeDays int    // días de vida útil desde la fecha de producción
	UnitMeasure   string // unidad de medida (un, kg, lt, ...)
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
