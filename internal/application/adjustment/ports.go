package adjustment

import (
	"context"

	"github.com/jhoicas/qoe-review-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// La mutación del ajuste y su entrada de auditoría se confirman juntas o no se confirman.
type TxRunner interface {
	RunAdjustments(ctx context.Context, fn func(
		adjRepo repository.AdjustmentRepository,
		auditRepo repository.AuditLogRepository,
	) error) error
}

// Locker mutex distribuido por clave. Acquire retorna domain.ErrConflict si otro proceso tiene el lock.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// NopLocker no bloquea; la consistencia queda a cargo de FOR UPDATE + versión.
type NopLocker struct{}

// Acquire implementa Locker.
func (NopLocker) Acquire(context.Context, string) (func(), error) {
	return func() {}, nil
}

// LockKey clave del lock de un ajuste.
func LockKey(adjustmentID string) string {
	return "lock:adjustment:" + adjustmentID
}
