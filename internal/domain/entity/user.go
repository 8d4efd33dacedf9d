package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleReviewer = "reviewer"
	RoleAnalyst  = "analyst"
)

// User representa un usuario del sistema (pertenece a una Firm).
type User struct {
	ID           string
	FirmID       string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, reviewer, analyst
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
