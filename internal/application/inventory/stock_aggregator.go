package inventory

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/lotes-api/internal/application/dto"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

// StockAggregator rollups de stock por producto, solo lectura. Vive separado
// del ciclo de vida para que cacheo o índices puedan agregarse después sin
// tocar los caminos de escritura.
type StockAggregator struct {
	batchRepo      repository.BatchRepository
	clock          Clock
	nearExpiryDays int
}

// NewStockAggregator construye el agregador. nearExpiryDays define la ventana
// de pronto-vencimiento del resumen.
func NewStockAggregator(batchRepo repository.BatchRepository, clock Clock, nearExpiryDays int) *StockAggregator {
	if nearExpiryDays <= 0 {
		nearExpiryDays = 7
	}
	return &StockAggregator{batchRepo: batchRepo, clock: clock, nearExpiryDays: nearExpiryDays}
}

// TotalStockByProduct suma la cantidad actual de los lotes ACTIVE del
// producto; 0 si no tiene ninguno.
func (a *StockAggregator) TotalStockByProduct(ctx context.Context, productID string) (decimal.Decimal, error) {
	return a.batchRepo.TotalQuantityByProductAndStatus(productID, entity.BatchStatusActive)
}

// StockSummaryByProduct devuelve stock total, lotes activos y lotes con
// vencimiento dentro de la ventana configurada.
func (a *StockAggregator) StockSummaryByProduct(ctx context.Context, productID string) (*dto.StockSummaryResponse, error) {
	total, err := a.batchRepo.TotalQuantityByProductAndStatus(productID, entity.BatchStatusActive)
	if err != nil {
		return nil, err
	}
	active, err := a.batchRepo.ListByProductAndStatus(productID, entity.BatchStatusActive)
	if err != nil {
		return nil, err
	}
	limit := a.clock.Now().AddDate(0, 0, a.nearExpiryDays)
	expiringSoon := 0
	for _, b := range active {
		if !b.ExpirationDate.After(limit) {
			expiringSoon++
		}
	}
	return &dto.StockSummaryResponse{
		ProductID:     productID,
		TotalStock:    total,
		ActiveBatches: len(active),
		ExpiringSoon:  expiringSoon,
	}, nil
}
