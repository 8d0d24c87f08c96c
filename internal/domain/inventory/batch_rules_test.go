package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/inventory"
)

var now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ──────────────────────────────────────────────────────────────────────────────
// ValidateCreate
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateCreate(t *testing.T) {
	cases := []struct {
		name     string
		quantity decimal.Decimal
		date     time.Time
		wantErr  string
	}{
		{"cantidad positiva y fecha pasada", dec("10"), now.AddDate(0, 0, -1), ""},
		{"fecha igual a hoy", dec("0.5"), now, ""},
		{"cantidad cero", decimal.Zero, now.AddDate(0, 0, -1), "initialQuantity must be greater than 0"},
		{"cantidad negativa", dec("-3"), now.AddDate(0, 0, -1), "initialQuantity must be greater than 0"},
		{"fecha futura", dec("10"), now.AddDate(0, 0, 1), "productionDate must be a valid date not in the future"},
		{"fecha cero (no parseable)", dec("10"), time.Time{}, "productionDate must be a valid date not in the future"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := inventory.ValidateCreate(tc.quantity, tc.date, now)
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.True(t, domain.IsValidation(err), "debe ser error de validación")
				assert.Equal(t, tc.wantErr, err.Error())
			}
		})
	}
}

func TestComputeExpiration(t *testing.T) {
	prod := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 2, 7, 0, 0, 0, 0, time.UTC), inventory.ComputeExpiration(prod, 7))
	// Vida útil larga cruza de mes correctamente.
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), inventory.ComputeExpiration(prod, 30))
}

// ──────────────────────────────────────────────────────────────────────────────
// ValidateQuantityDelta / ApplyDelta
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateQuantityDelta(t *testing.T) {
	assert.NoError(t, inventory.ValidateQuantityDelta(dec("5")))
	assert.NoError(t, inventory.ValidateQuantityDelta(dec("-5")))

	err := inventory.ValidateQuantityDelta(decimal.Zero)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, "Delta cannot be zero", err.Error())
}

func TestApplyDelta(t *testing.T) {
	cases := []struct {
		name    string
		current decimal.Decimal
		delta   decimal.Decimal
		status  string
		want    decimal.Decimal
		wantErr string
	}{
		{"consumo parcial", dec("10"), dec("-4"), entity.BatchStatusActive, dec("6"), ""},
		{"reposición", dec("10"), dec("5"), entity.BatchStatusActive, dec("15"), ""},
		{"consumo exacto hasta cero", dec("10"), dec("-10"), entity.BatchStatusActive, decimal.Zero, ""},
		{"consumo fraccional", dec("1.5"), dec("-0.5"), entity.BatchStatusActive, dec("1"), ""},
		{"delta sobre lote agotado", dec("0"), dec("5"), entity.BatchStatusDepleted, decimal.Zero, "Batch is already depleted"},
		{"consumo negativo sobre lote agotado", dec("0"), dec("-1"), entity.BatchStatusDepleted, decimal.Zero, "Batch is already depleted"},
		{"stock insuficiente", dec("3"), dec("-4"), entity.BatchStatusActive, decimal.Zero, "Insufficient stock"},
		{"delta sobre lote vencido se permite", dec("8"), dec("-2"), entity.BatchStatusExpired, dec("6"), ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := inventory.ApplyDelta(tc.current, tc.delta, tc.status)
			if tc.wantErr == "" {
				require.NoError(t, err)
				assert.True(t, tc.want.Equal(got), "esperado %s, obtenido %s", tc.want, got)
			} else {
				require.Error(t, err)
				assert.True(t, domain.IsConflict(err), "debe ser error de conflicto")
				assert.Equal(t, tc.wantErr, err.Error())
			}
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// ComputeStatus — precedencia DEPLETED > EXPIRED > ACTIVE
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeStatus(t *testing.T) {
	batch := func(status string, expiration time.Time) *entity.Batch {
		return &entity.Batch{Status: status, ExpirationDate: expiration}
	}

	t.Run("activo sin vencer permanece activo", func(t *testing.T) {
		got := inventory.ComputeStatus(batch(entity.BatchStatusActive, now.AddDate(0, 0, 3)), now)
		assert.Equal(t, entity.BatchStatusActive, got)
	})

	t.Run("vencimiento exacto ya cuenta como vencido", func(t *testing.T) {
		got := inventory.ComputeStatus(batch(entity.BatchStatusActive, now), now)
		assert.Equal(t, entity.BatchStatusExpired, got)
	})

	t.Run("vencimiento pasado", func(t *testing.T) {
		got := inventory.ComputeStatus(batch(entity.BatchStatusActive, now.AddDate(0, 0, -1)), now)
		assert.Equal(t, entity.BatchStatusExpired, got)
	})

	t.Run("agotado gana sobre vencido", func(t *testing.T) {
		got := inventory.ComputeStatus(batch(entity.BatchStatusDepleted, now.AddDate(0, 0, -10)), now)
		assert.Equal(t, entity.BatchStatusDepleted, got)
	})

	t.Run("vencido sigue vencido aunque se recalcule", func(t *testing.T) {
		b := batch(entity.BatchStatusExpired, now.AddDate(0, 0, -1))
		assert.Equal(t, entity.BatchStatusExpired, inventory.ComputeStatus(b, now))
		// Idempotente: recalcular de nuevo no cambia nada.
		assert.Equal(t, entity.BatchStatusExpired, inventory.ComputeStatus(b, now))
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// ValidateDeletable
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateDeletable(t *testing.T) {
	assert.NoError(t, inventory.ValidateDeletable(entity.BatchStatusDepleted))
	assert.NoError(t, inventory.ValidateDeletable(entity.BatchStatusExpired))

	err := inventory.ValidateDeletable(entity.BatchStatusActive)
	require.Error(t, err)
	assert.True(t, domain.IsConflict(err))
	assert.Equal(t, "Batch can only be deleted if DEPLETED or EXPIRED", err.Error())
}
