package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
)

// ValidationError registro de ajuste (o entrada) malformado; Field indica el campo ofensivo.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validación: %s: %s", e.Field, e.Reason)
}

// Is permite errors.Is(err, ErrInvalidInput) sobre un ValidationError.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NewValidationError atajo para construir un *ValidationError.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// InvalidTransitionError la transición pedida no es legal desde el estado actual
// (en la UI se muestra como "ya revisado").
type InvalidTransitionError struct {
	AdjustmentID string
	From         string
	Action       string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("ajuste %s: acción %q no permitida en estado %q", e.AdjustmentID, e.Action, e.From)
}

// NotReadyItem condición requerida que falta para generar el reporte.
type NotReadyItem struct {
	ID          string
	Description string
	Status      string
}

// NotReadyError la generación de reportes está bloqueada; Items lista lo pendiente.
type NotReadyError struct {
	ProjectID string
	Items     []NotReadyItem
}

func (e *NotReadyError) Error() string {
	descs := make([]string, 0, len(e.Items))
	for _, it := range e.Items {
		descs = append(descs, it.Description)
	}
	return fmt.Sprintf("proyecto %s no está listo para reporte: %s", e.ProjectID, strings.Join(descs, "; "))
}
