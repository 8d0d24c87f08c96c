package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Razones estándar del ledger (texto libre en la entidad; estas son las que
// escribe el propio motor).
const (
	ReasonInitialStock       = "initial stock"
	ReasonQuantityAdjustment = "quantity adjustment"
	ReasonBatchDeleted       = "batch deleted"
)

// StockMovement entrada append-only del ledger de stock: un registro por cada
// evento que afecta la cantidad de un lote. Nunca se actualiza ni se borra;
// el historial sobrevive al borrado del lote (el trail de auditoría es
// consultable por producto aunque el lote ya no exista).
type StockMovement struct {
	ID        string
	BatchID   string
	ProductID string
	Delta     decimal.Decimal // cambio firmado; 0 como marcador terminal en borrados
	Reason    string
	CreatedAt time.Time
}
