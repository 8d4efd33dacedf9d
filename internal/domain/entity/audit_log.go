package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Acciones registradas en la bitácora de auditoría.
const (
	AuditActionCreate = "create"
	AuditActionIngest = "ingest"
	AuditActionReview = "review"
	AuditActionReopen = "reopen"
	AuditActionDelete = "delete"
	AuditActionForce  = "force_include"
	AuditActionUpdate = "update"
)

// AuditChange cambio de estado/monto que produjo la acción.
type AuditChange struct {
	FromStatus AdjustmentStatus `json:"from_status,omitempty"`
	ToStatus   AdjustmentStatus `json:"to_status,omitempty"`
	FromAmount *decimal.Decimal `json:"from_amount,omitempty"`
	ToAmount   *decimal.Decimal `json:"to_amount,omitempty"`
}

// AuditLog entrada inmutable de la bitácora de un proyecto.
type AuditLog struct {
	ID         string
	ProjectID  string
	UserID     string
	Action     string
	EntityType string // "adjustment"
	EntityID   string
	Change     AuditChange
	Notes      string
	CreatedAt  time.Time
}
