package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que el cambio de estado del lote y
// su entrada en el ledger persisten juntos o ninguno (atomicidad por comando).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		batchRepo repository.BatchRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// Clock abstrae el reloj del sistema para chequeos de vencimiento y fecha
// futura; se inyecta para poder fijarlo en tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock devuelve el reloj real.
func SystemClock() Clock { return systemClock{} }
