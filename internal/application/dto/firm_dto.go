package dto

import "time"

// CreateFirmRequest entrada para crear una firma.
type CreateFirmRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=200"`
	Email string `json:"email" validate:"omitempty,email"`
}

// FirmResponse salida de una firma.
type FirmResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FirmListResponse lista paginada de firmas.
type FirmListResponse struct {
	Items []FirmResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
