package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/lotes-api/internal/application/dto"
	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/inventory"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

// BatchLifecycleUseCase orquesta el ciclo de vida de lotes: creación,
// mutación de cantidad, agotamiento, vencimiento, historial y borrado.
// Cada comando es una transacción (TxRunner) con bloqueo de fila
// (SELECT FOR UPDATE) sobre el lote, así dos deltas concurrentes sobre el
// mismo lote se serializan en la BD. Las consultas van directo a los repos
// atados al pool.
type BatchLifecycleUseCase struct {
	txRunner    TxRunner
	batchRepo   repository.BatchRepository
	movRepo     repository.StockMovementRepository
	productRepo repository.ProductRepository
	clock       Clock
}

// NewBatchLifecycleUseCase construye el caso de uso.
func NewBatchLifecycleUseCase(
	txRunner TxRunner,
	batchRepo repository.BatchRepository,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	clock Clock,
) *BatchLifecycleUseCase {
	return &BatchLifecycleUseCase{
		txRunner:    txRunner,
		batchRepo:   batchRepo,
		movRepo:     movRepo,
		productRepo: productRepo,
		clock:       clock,
	}
}

// parseProductionDate acepta fecha simple o RFC 3339. ok=false deja el valor
// en cero para que ValidateCreate lo rechace con el mensaje de fecha inválida.
func parseProductionDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// CreateBatch crea un lote ACTIVE para un producto existente, deriva el
// vencimiento de la vida útil configurada y escribe la entrada inicial del
// ledger en la misma transacción.
func (uc *BatchLifecycleUseCase) CreateBatch(ctx context.Context, in dto.CreateBatchRequest) (*entity.Batch, error) {
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewNotFoundError("Product with ID %s not found", in.ProductID)
	}

	now := uc.clock.Now()
	productionDate, _ := parseProductionDate(in.ProductionDate)
	if err := inventory.ValidateCreate(in.InitialQuantity, productionDate, now); err != nil {
		return nil, err
	}

	batch := &entity.Batch{
		ID:              uuid.New().String(),
		ProductID:       product.ID,
		ProductionDate:  productionDate,
		ExpirationDate:  inventory.ComputeExpiration(productionDate, product.ShelfLifeDays),
		InitialQuantity: in.InitialQuantity,
		CurrentQuantity: in.InitialQuantity,
		Status:          entity.BatchStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = uc.txRunner.Run(ctx, func(batchRepo repository.BatchRepository, movRepo repository.StockMovementRepository) error {
		if err := batchRepo.Create(batch); err != nil {
			return err
		}
		return movRepo.Create(&entity.StockMovement{
			ID:        uuid.New().String(),
			BatchID:   batch.ID,
			ProductID: batch.ProductID,
			Delta:     in.InitialQuantity,
			Reason:    entity.ReasonInitialStock,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// GetBatch devuelve el lote o (nil, nil) si no existe: semántica de consulta,
// no de comando.
func (uc *BatchLifecycleUseCase) GetBatch(ctx context.Context, id string) (*entity.Batch, error) {
	return uc.batchRepo.GetByID(id)
}

// GetActiveBatchesByProduct lista los lotes ACTIVE del producto, el más viejo
// primero (orden de consumo FIFO).
func (uc *BatchLifecycleUseCase) GetActiveBatchesByProduct(ctx context.Context, productID string) ([]*entity.Batch, error) {
	return uc.batchRepo.ListByProductAndStatus(productID, entity.BatchStatusActive)
}

// UpdateBatchQuantity aplica un delta firmado al lote dentro de una
// transacción con bloqueo de fila. Si la cantidad llega a cero, el lote pasa
// a DEPLETED. Registra el delta en el ledger con el motivo dado (o uno por
// defecto).
func (uc *BatchLifecycleUseCase) UpdateBatchQuantity(ctx context.Context, batchID string, in dto.UpdateQuantityRequest) (*entity.Batch, error) {
	if err := inventory.ValidateQuantityDelta(in.Delta); err != nil {
		return nil, err
	}
	reason := in.Reason
	if reason == "" {
		reason = entity.ReasonQuantityAdjustment
	}
	now := uc.clock.Now()

	var updated *entity.Batch
	err := uc.txRunner.Run(ctx, func(batchRepo repository.BatchRepository, movRepo repository.StockMovementRepository) error {
		batch, err := batchRepo.GetForUpdate(batchID)
		if err != nil {
			return err
		}
		if batch == nil {
			return domain.NewNotFoundError("Batch with ID %s not found", batchID)
		}
		newQuantity, err := inventory.ApplyDelta(batch.CurrentQuantity, in.Delta, batch.Status)
		if err != nil {
			return err
		}
		batch.CurrentQuantity = newQuantity
		if newQuantity.IsZero() {
			batch.Status = entity.BatchStatusDepleted
		}
		batch.UpdatedAt = now
		if err := batchRepo.Update(batch); err != nil {
			return err
		}
		if err := movRepo.Create(&entity.StockMovement{
			ID:        uuid.New().String(),
			BatchID:   batch.ID,
			ProductID: batch.ProductID,
			Delta:     in.Delta,
			Reason:    reason,
			CreatedAt: now,
		}); err != nil {
			return err
		}
		updated = batch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// MarkBatchAsDepleted agota el lote: cantidad a cero, estado DEPLETED y una
// entrada en el ledger con el negativo de la cantidad previa.
func (uc *BatchLifecycleUseCase) MarkBatchAsDepleted(ctx context.Context, batchID, reason string) (*entity.Batch, error) {
	now := uc.clock.Now()
	var updated *entity.Batch
	err := uc.txRunner.Run(ctx, func(batchRepo repository.BatchRepository, movRepo repository.StockMovementRepository) error {
		batch, err := uc.depleteLocked(batchRepo, movRepo, batchID, reason, now)
		if err != nil {
			return err
		}
		updated = batch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// depleteLocked transición de agotamiento sobre un lote ya dentro de una tx.
func (uc *BatchLifecycleUseCase) depleteLocked(
	batchRepo repository.BatchRepository,
	movRepo repository.StockMovementRepository,
	batchID, reason string,
	now time.Time,
) (*entity.Batch, error) {
	batch, err := batchRepo.GetForUpdate(batchID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, domain.NewNotFoundError("Batch with ID %s not found", batchID)
	}
	if batch.Status == entity.BatchStatusDepleted {
		return nil, domain.NewConflictError("Batch is already depleted")
	}
	previous := batch.CurrentQuantity
	batch.CurrentQuantity = decimal.Zero
	batch.Status = entity.BatchStatusDepleted
	batch.UpdatedAt = now
	if err := batchRepo.Update(batch); err != nil {
		return nil, err
	}
	if err := movRepo.Create(&entity.StockMovement{
		ID:        uuid.New().String(),
		BatchID:   batch.ID,
		ProductID: batch.ProductID,
		Delta:     previous.Neg(),
		Reason:    reason,
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}
	return batch, nil
}

// MarkProductAsOutOfStock agota todos los lotes ACTIVE del producto, uno por
// transacción: atomicidad por lote, no por producto. Una falla en un lote no
// aborta los demás; el resultado por lote queda en los outcomes.
func (uc *BatchLifecycleUseCase) MarkProductAsOutOfStock(ctx context.Context, productID, reason string) ([]dto.BatchOutcome, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewNotFoundError("Product with ID %s not found", productID)
	}

	batches, err := uc.batchRepo.ListByProductAndStatus(productID, entity.BatchStatusActive)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	outcomes := make([]dto.BatchOutcome, 0, len(batches))
	for _, b := range batches {
		batchID := b.ID
		err := uc.txRunner.Run(ctx, func(batchRepo repository.BatchRepository, movRepo repository.StockMovementRepository) error {
			_, err := uc.depleteLocked(batchRepo, movRepo, batchID, reason, now)
			if domain.IsConflict(err) {
				// Otro actor lo agotó entre el listado y la tx: contar como omitido.
				return nil
			}
			return err
		})
		outcome := dto.BatchOutcome{BatchID: batchID}
		if err != nil {
			outcome.Error = err.Error()
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// RefreshBatchStatus recalcula el estado contra el reloj actual y persiste
// solo si cambió. Idempotente: dos llamadas seguidas sin que pase el tiempo
// producen el mismo estado.
func (uc *BatchLifecycleUseCase) RefreshBatchStatus(ctx context.Context, batchID string) (*entity.Batch, error) {
	now := uc.clock.Now()
	var refreshed *entity.Batch
	err := uc.txRunner.Run(ctx, func(batchRepo repository.BatchRepository, movRepo repository.StockMovementRepository) error {
		batch, err := batchRepo.GetForUpdate(batchID)
		if err != nil {
			return err
		}
		if batch == nil {
			return domain.NewNotFoundError("Batch with ID %s not found", batchID)
		}
		newStatus := inventory.ComputeStatus(batch, now)
		if newStatus != batch.Status {
			batch.Status = newStatus
			batch.UpdatedAt = now
			if err := batchRepo.Update(batch); err != nil {
				return err
			}
		}
		refreshed = batch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return refreshed, nil
}

// RefreshAllBatchStatuses recorre los lotes no terminales y les aplica
// RefreshBatchStatus. Best-effort: una falla no detiene la iteración y queda
// reflejada en su outcome. Pensado para el loop de mantenimiento periódico.
func (uc *BatchLifecycleUseCase) RefreshAllBatchStatuses(ctx context.Context) ([]dto.BatchOutcome, error) {
	batches, err := uc.batchRepo.ListByStatus(entity.BatchStatusActive)
	if err != nil {
		return nil, err
	}
	outcomes := make([]dto.BatchOutcome, 0, len(batches))
	for _, b := range batches {
		_, err := uc.RefreshBatchStatus(ctx, b.ID)
		outcome := dto.BatchOutcome{BatchID: b.ID}
		if err != nil {
			outcome.Error = err.Error()
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// GetBatchHistory devuelve las entradas del ledger de un lote o de un
// producto, en orden cronológico. Se espera exactamente uno de los dos
// filtros. El historial por producto incluye lotes ya borrados.
func (uc *BatchLifecycleUseCase) GetBatchHistory(ctx context.Context, productID, batchID string) ([]*entity.StockMovement, error) {
	switch {
	case batchID != "" && productID == "":
		return uc.movRepo.ListByBatch(batchID)
	case productID != "" && batchID == "":
		return uc.movRepo.ListByProduct(productID)
	default:
		return nil, domain.NewValidationError("exactly one of productId or batchId is required")
	}
}

// DeleteBatch elimina el registro del lote, permitido solo en estado
// terminal. Antes de borrar escribe una entrada terminal (delta 0) con el
// motivo; el ledger sobrevive al borrado.
func (uc *BatchLifecycleUseCase) DeleteBatch(ctx context.Context, batchID, reason string) error {
	if reason == "" {
		reason = entity.ReasonBatchDeleted
	}
	now := uc.clock.Now()
	return uc.txRunner.Run(ctx, func(batchRepo repository.BatchRepository, movRepo repository.StockMovementRepository) error {
		batch, err := batchRepo.GetForUpdate(batchID)
		if err != nil {
			return err
		}
		if batch == nil {
			return domain.NewNotFoundError("Batch with ID %s not found", batchID)
		}
		if err := inventory.ValidateDeletable(batch.Status); err != nil {
			return err
		}
		if err := movRepo.Create(&entity.StockMovement{
			ID:        uuid.New().String(),
			BatchID:   batch.ID,
			ProductID: batch.ProductID,
			Delta:     decimal.Zero,
			Reason:    reason,
			CreatedAt: now,
		}); err != nil {
			return err
		}
		return batchRepo.Delete(batch.ID)
	})
}
