package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un lote (mutuamente excluyentes).
// DEPLETED tiene prioridad sobre EXPIRED cuando ambas condiciones se cumplen.
const (
	BatchStatusActive   = "ACTIVE"
	BatchStatusDepleted = "DEPLETED"
	BatchStatusExpired  = "EXPIRED"
)

// Batch representa un lote perecedero de un producto: fecha de producción,
// vencimiento derivado de la vida útil del producto y cantidad propia.
// InitialQuantity es inmutable después de la creación; CurrentQuantity se muta
// solo vía operaciones del ciclo de vida (nunca directamente desde handlers).
type Batch struct {
	ID              string
	ProductID       string
	ProductionDate  time.Time
	ExpirationDate  time.Time // ProductionDate + ShelfLifeDays del producto
	InitialQuantity decimal.Decimal
	CurrentQuantity decimal.Decimal
	Status          string // ACTIVE, DEPLETED, EXPIRED
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsTerminal reporta si el lote está en un estado final (elegible para borrado).
func (b *Batch) IsTerminal() bool {
	return b.Status == BatchStatusDepleted || b.Status == BatchStatusExpired
}
