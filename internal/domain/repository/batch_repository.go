package repository

import (
	"github.com/shopspring/decimal"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
)

// BatchRepository define el puerto de persistencia para Batch (DIP).
// Los listados por producto ordenan por production_date ascendente (el lote
// más viejo primero, para razonar consumo FIFO). Los agregados se resuelven
// en SQL, no en memoria.
type BatchRepository interface {
	Create(batch *entity.Batch) error
	GetByID(id string) (*entity.Batch, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para el ciclo
	// leer-modificar-escribir de una transacción; serializa deltas concurrentes
	// sobre el mismo lote.
	GetForUpdate(id string) (*entity.Batch, error)
	ListByProductAndStatus(productID, status string) ([]*entity.Batch, error)
	ListByStatus(status string) ([]*entity.Batch, error)
	Update(batch *entity.Batch) error
	Delete(id string) error
	// TotalQuantityByProductAndStatus suma current_quantity; 0 si no hay filas.
	TotalQuantityByProductAndStatus(productID, status string) (decimal.Decimal, error)
}
