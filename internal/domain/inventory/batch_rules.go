// Package inventory contiene las reglas puras del ciclo de vida de lotes:
// funciones de validación e invariantes sin efectos secundarios. La capa de
// aplicación las invoca al inicio de cada operación y es responsable de
// persistir el resultado.
package inventory

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
)

// ValidateCreate valida los datos de creación de un lote contra el reloj dado.
// La cantidad inicial debe ser positiva y la fecha de producción no puede ser
// futura ni cero.
func ValidateCreate(initialQuantity decimal.Decimal, productionDate time.Time, now time.Time) error {
	if initialQuantity.LessThanOrEqual(decimal.Zero) {
		return domain.NewValidationError("initialQuantity must be greater than 0")
	}
	if productionDate.IsZero() || productionDate.After(now) {
		return domain.NewValidationError("productionDate must be a valid date not in the future")
	}
	return nil
}

// ComputeExpiration deriva el vencimiento: producción + vida útil del producto.
func ComputeExpiration(productionDate time.Time, shelfLifeDays int) time.Time {
	return productionDate.AddDate(0, 0, shelfLifeDays)
}

// ValidateQuantityDelta rechaza deltas cero. El signo es libre: positivo
// repone, negativo consume.
func ValidateQuantityDelta(delta decimal.Decimal) error {
	if delta.IsZero() {
		return domain.NewValidationError("Delta cannot be zero")
	}
	return nil
}

// ApplyDelta calcula la nueva cantidad de un lote. Un lote DEPLETED no admite
// ningún delta (ni consumos ni reposiciones); un consumo que deje la cantidad
// negativa es stock insuficiente. Si la cantidad resultante es cero, el caller
// debe transicionar el estado a DEPLETED.
func ApplyDelta(currentQuantity, delta decimal.Decimal, status string) (decimal.Decimal, error) {
	if status == entity.BatchStatusDepleted {
		return decimal.Zero, domain.NewConflictError("Batch is already depleted")
	}
	newQuantity := currentQuantity.Add(delta)
	if newQuantity.IsNegative() {
		return decimal.Zero, domain.NewConflictError("Insufficient stock")
	}
	return newQuantity, nil
}

// ComputeStatus recalcula el estado de un lote como función pura del lote y el
// reloj. Precedencia: DEPLETED > EXPIRED > ACTIVE (un lote agotado nunca pasa
// a vencido aunque la fecha ya haya ocurrido).
func ComputeStatus(batch *entity.Batch, now time.Time) string {
	if batch.Status == entity.BatchStatusDepleted {
		return entity.BatchStatusDepleted
	}
	if !now.Before(batch.ExpirationDate) {
		return entity.BatchStatusExpired
	}
	return entity.BatchStatusActive
}

// ValidateDeletable un lote solo puede borrarse en estado terminal.
func ValidateDeletable(status string) error {
	if status != entity.BatchStatusDepleted && status != entity.BatchStatusExpired {
		return domain.NewConflictError("Batch can only be deleted if DEPLETED or EXPIRED")
	}
	return nil
}
