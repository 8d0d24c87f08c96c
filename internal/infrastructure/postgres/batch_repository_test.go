package postgres

import (
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lotes-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func setupBatchRepo(t *testing.T) (*BatchRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return NewBatchRepository(mock), mock
}

func sampleBatch() *entity.Batch {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	return &entity.Batch{
		ID:              "batch-001",
		ProductID:       "prod-001",
		ProductionDate:  time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		ExpirationDate:  time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
		InitialQuantity: decimal.NewFromInt(100),
		CurrentQuantity: decimal.NewFromInt(70),
		Status:          entity.BatchStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func batchMockColumns() []string {
	return []string{
		"id", "product_id", "production_date", "expiration_date",
		"initial_quantity", "current_quantity", "status", "created_at", "updated_at",
	}
}

func batchRow(b *entity.Batch) *pgxmock.Rows {
	return pgxmock.NewRows(batchMockColumns()).AddRow(
		b.ID, b.ProductID, b.ProductionDate, b.ExpirationDate,
		b.InitialQuantity, b.CurrentQuantity, b.Status, b.CreatedAt, b.UpdatedAt,
	)
}

// ──────────────────────────────────────────────────────────────────────────────
// Create / Update / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestBatchRepo_Create(t *testing.T) {
	repo, mock := setupBatchRepo(t)
	defer mock.Close()

	b := sampleBatch()
	mock.ExpectExec("INSERT INTO batches").
		WithArgs(
			b.ID, b.ProductID, b.ProductionDate, b.ExpirationDate,
			b.InitialQuantity, b.CurrentQuantity, b.Status, b.CreatedAt, b.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, repo.Create(b))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepo_Update_SoloCamposMutables(t *testing.T) {
	repo, mock := setupBatchRepo(t)
	defer mock.Close()

	b := sampleBatch()
	// Solo cantidad, estado y updated_at: el resto del lote es inmutable.
	mock.ExpectExec("UPDATE batches SET current_quantity").
		WithArgs(b.ID, b.CurrentQuantity, b.Status, b.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, repo.Update(b))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepo_Delete(t *testing.T) {
	repo, mock := setupBatchRepo(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM batches").
		WithArgs("batch-001").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, repo.Delete("batch-001"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ──────────────────────────────────────────────────────────────────────────────
// GetByID / GetForUpdate
// ──────────────────────────────────────────────────────────────────────────────

func TestBatchRepo_GetByID(t *testing.T) {
	repo, mock := setupBatchRepo(t)
	defer mock.Close()

	b := sampleBatch()
	mock.ExpectQuery("SELECT .+ FROM batches WHERE id").
		WithArgs(b.ID).
		WillReturnRows(batchRow(b))

	got, err := repo.GetByID(b.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, b.ID, got.ID)
	assert.True(t, got.CurrentQuantity.Equal(b.CurrentQuantity))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepo_GetByID_SinFilas_DevuelveNilNil(t *testing.T) {
	repo, mock := setupBatchRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM batches WHERE id").
		WithArgs("batch-missing").
		WillReturnRows(pgxmock.NewRows(batchMockColumns()))

	got, err := repo.GetByID("batch-missing")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepo_GetForUpdate_BloqueaFila(t *testing.T) {
	repo, mock := setupBatchRepo(t)
	defer mock.Close()

	b := sampleBatch()
	// La consulta debe pedir el lock de fila.
	mock.ExpectQuery("SELECT .+ FROM batches WHERE id = \\$1 FOR UPDATE").
		WithArgs(b.ID).
		WillReturnRows(batchRow(b))

	got, err := repo.GetForUpdate(b.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ──────────────────────────────────────────────────────────────────────────────
// Listados y agregados
// ──────────────────────────────────────────────────────────────────────────────

func TestBatchRepo_ListByProductAndStatus_OrdenaPorProduccion(t *testing.T) {
	repo, mock := setupBatchRepo(t)
	defer mock.Close()

	b := sampleBatch()
	mock.ExpectQuery("SELECT .+ FROM batches WHERE product_id = \\$1 AND status = \\$2\\s+ORDER BY production_date ASC").
		WithArgs(b.ProductID, entity.BatchStatusActive).
		WillReturnRows(batchRow(b))

	got, err := repo.ListByProductAndStatus(b.ProductID, entity.BatchStatusActive)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepo_TotalQuantity_SumaEnSQL(t *testing.T) {
	repo, mock := setupBatchRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(current_quantity\\), 0\\)").
		WithArgs("prod-001", entity.BatchStatusActive).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(decimal.NewFromInt(170)))

	total, err := repo.TotalQuantityByProductAndStatus("prod-001", entity.BatchStatusActive)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(170)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchRepo_TotalQuantity_ErrorDeConsulta(t *testing.T) {
	repo, mock := setupBatchRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT COALESCE").
		WithArgs("prod-001", entity.BatchStatusActive).
		WillReturnError(errors.New("connection refused"))

	_, err := repo.TotalQuantityByProductAndStatus("prod-001", entity.BatchStatusActive)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "total quantity by product")
	assert.NoError(t, mock.ExpectationsWereMet())
}
