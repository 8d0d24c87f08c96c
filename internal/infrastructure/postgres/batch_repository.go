package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

const batchColumns = "id, product_id, production_date, expiration_date, initial_quantity, current_quantity, status, created_at, updated_at"

// BatchRepo implementación de BatchRepository sobre PostgreSQL (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

// Create persiste un lote nuevo.
func (r *BatchRepo) Create(batch *entity.Batch) error {
	query := `
		INSERT INTO batches (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.ProductID, batch.ProductionDate, batch.ExpirationDate,
		batch.InitialQuantity, batch.CurrentQuantity, batch.Status,
		batch.CreatedAt, batch.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID; (nil, nil) si no existe.
func (r *BatchRepo) GetByID(id string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get batch")
}

// GetForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE) para el
// ciclo leer-modificar-escribir de la transacción; (nil, nil) si no existe.
func (r *BatchRepo) GetForUpdate(id string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get batch for update")
}

// ListByProductAndStatus lista lotes de un producto en un estado, el más
// viejo primero (production_date ASC) para consumo FIFO.
func (r *BatchRepo) ListByProductAndStatus(productID, status string) ([]*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM batches WHERE product_id = $1 AND status = $2
		ORDER BY production_date ASC`
	rows, err := r.q.Query(context.Background(), query, productID, status)
	if err != nil {
		return nil, fmt.Errorf("list batches by product: %w", err)
	}
	return r.scanMany(rows)
}

// ListByStatus lista todos los lotes en un estado (para el refresh masivo).
func (r *BatchRepo) ListByStatus(status string) ([]*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM batches WHERE status = $1
		ORDER BY production_date ASC`
	rows, err := r.q.Query(context.Background(), query, status)
	if err != nil {
		return nil, fmt.Errorf("list batches by status: %w", err)
	}
	return r.scanMany(rows)
}

// Update persiste cantidad, estado y updated_at de un lote existente.
// initial_quantity y las fechas son inmutables después de la creación.
func (r *BatchRepo) Update(batch *entity.Batch) error {
	query := `
		UPDATE batches SET current_quantity = $2, status = $3, updated_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.CurrentQuantity, batch.Status, batch.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	return nil
}

// Delete elimina el registro del lote. Las entradas del ledger no se tocan.
func (r *BatchRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM batches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	return nil
}

// TotalQuantityByProductAndStatus suma current_quantity en SQL; 0 si no hay filas.
func (r *BatchRepo) TotalQuantityByProductAndStatus(productID, status string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(current_quantity), 0)
		FROM batches WHERE product_id = $1 AND status = $2`
	var total decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, productID, status).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total quantity by product: %w", err)
	}
	return total, nil
}

func (r *BatchRepo) scanOne(row pgx.Row, op string) (*entity.Batch, error) {
	var b entity.Batch
	err := row.Scan(
		&b.ID, &b.ProductID, &b.ProductionDate, &b.ExpirationDate,
		&b.InitialQuantity, &b.CurrentQuantity, &b.Status,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &b, nil
}

func (r *BatchRepo) scanMany(rows pgx.Rows) ([]*entity.Batch, error) {
	defer rows.Close()
	var list []*entity.Batch
	for rows.Next() {
		var b entity.Batch
		if err := rows.Scan(
			&b.ID, &b.ProductID, &b.ProductionDate, &b.ExpirationDate,
			&b.InitialQuantity, &b.CurrentQuantity, &b.Status,
			&b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
