package repository

import "github.com/jhoicas/lotes-api/internal/domain/entity"

// StockMovementRepository define el puerto del ledger append-only.
// Solo inserciones y lecturas: las entradas nunca se actualizan ni se borran,
// y sobreviven al borrado del lote al que pertenecen. Los listados ordenan
// por created_at ascendente (orden cronológico del trail).
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	ListByBatch(batchID string) ([]*entity.StockMovement, error)
	ListByProduct(productID string) ([]*entity.StockMovement, error)
}
