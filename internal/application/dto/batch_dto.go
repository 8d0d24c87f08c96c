package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBatchRequest body para POST /api/batches. ProductionDate acepta
// "2006-01-02" o RFC 3339; un valor no parseable se reporta como fecha
// inválida por el caso de uso.
type CreateBatchRequest struct {
	ProductID       string          `json:"product_id"`
	ProductionDate  string          `json:"production_date"`
	InitialQuantity decimal.Decimal `json:"initial_quantity"`
}

// UpdateQuantityRequest body para PATCH /api/batches/:id/quantity.
// Delta firmado: positivo repone, negativo consume. Reason opcional.
type UpdateQuantityRequest struct {
	Delta  decimal.Decimal `json:"delta"`
	Reason string          `json:"reason,omitempty"`
}

// ReasonRequest body para operaciones que registran un motivo en el ledger
// (deplete, out-of-stock, delete).
type ReasonRequest struct {
	Reason string `json:"reason,omitempty"`
}

// BatchResponse representación HTTP de un lote.
type BatchResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	ProductionDate  time.Time       `json:"production_date"`
	ExpirationDate  time.Time       `json:"expiration_date"`
	InitialQuantity decimal.Decimal `json:"initial_quantity"`
	CurrentQuantity decimal.Decimal `json:"current_quantity"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// StockSummaryResponse rollup de stock de un producto.
type StockSummaryResponse struct {
	ProductID     string          `json:"product_id"`
	TotalStock    decimal.Decimal `json:"total_stock"`
	ActiveBatches int             `json:"active_batches"`
	ExpiringSoon  int             `json:"expiring_soon"`
}

// MovementResponse entrada del ledger en respuestas de historial.
type MovementResponse struct {
	ID        string          `json:"id"`
	BatchID   string          `json:"batch_id"`
	ProductID string          `json:"product_id"`
	Delta     decimal.Decimal `json:"delta"`
	Reason    string          `json:"reason"`
	CreatedAt time.Time       `json:"created_at"`
}

// BatchOutcome resultado por lote de una operación masiva (out-of-stock,
// refresh masivo). Error vacío = éxito; las fallas no abortan el resto.
type BatchOutcome struct {
	BatchID string `json:"batch_id"`
	Error   string `json:"error,omitempty"`
}
