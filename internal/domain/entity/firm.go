package entity

import "time"

// Firm representa la firma de asesoría (tenant) dueña de proyectos y usuarios.
type Firm struct {
	ID        string
	Name      string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
