package adjustment

import (
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/statekit"
	"github.com/jhoicas/qoe-review-api/internal/domain"
	"github.com/jhoicas/qoe-review-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Decision resultado de una revisión humana.
type Decision string

const (
	DecisionAccept Decision = "accept"
	DecisionReject Decision = "reject"
	DecisionModify Decision = "modify"
)

// Valid indica si d es una decisión conocida.
func (d Decision) Valid() bool {
	return d == DecisionAccept || d == DecisionReject || d == DecisionModify
}

// Estados y eventos de la máquina como constantes sin tipo (compatibles con statekit.StateID
// y statekit.EventType). Deben coincidir con entity.AdjustmentStatus y Decision.
const (
	stateSuggested     = "suggested"
	statePendingReview = "pending_review"
	stateAccepted      = "accepted"
	stateRejected      = "rejected"
	stateModified      = "modified"

	eventAccept = "accept"
	eventReject = "reject"
	eventModify = "modify"
	eventReopen = "reopen"
)

func init() {
	states := map[string]entity.AdjustmentStatus{
		stateSuggested:     entity.StatusSuggested,
		statePendingReview: entity.StatusPendingReview,
		stateAccepted:      entity.StatusAccepted,
		stateRejected:      entity.StatusRejected,
		stateModified:      entity.StatusModified,
	}
	for s, status := range states {
		if s != string(status) {
			panic(fmt.Sprintf("estado %q de la máquina no coincide con AdjustmentStatus %q", s, status))
		}
	}
	events := map[string]Decision{eventAccept: DecisionAccept, eventReject: DecisionReject, eventModify: DecisionModify}
	for e, d := range events {
		if e != string(d) {
			panic(fmt.Sprintf("evento %q de la máquina no coincide con Decision %q", e, d))
		}
	}
}

type reviewContext struct {
	AdjustmentID string
}

// newReviewMachine construye el intérprete de la máquina de revisión posicionado en from.
//
//	suggested ──accept/reject/modify──▶ accepted | rejected | modified
//	pending_review ──accept/reject/modify──▶ accepted | rejected | modified
//	accepted | rejected | modified ──reopen──▶ pending_review
func newReviewMachine(from entity.AdjustmentStatus, adjustmentID string) (*statekit.Interpreter[reviewContext], error) {
	builder := statekit.NewMachine[reviewContext]("adjustment-review").
		WithInitial(statekit.StateID(from)).
		WithContext(reviewContext{AdjustmentID: adjustmentID})

	builder.State(stateSuggested).
		On(eventAccept).Target(stateAccepted).
		On(eventReject).Target(stateRejected).
		On(eventModify).Target(stateModified).
		Done()

	builder.State(statePendingReview).
		On(eventAccept).Target(stateAccepted).
		On(eventReject).Target(stateRejected).
		On(eventModify).Target(stateModified).
		Done()

	builder.State(stateAccepted).
		On(eventReopen).Target(statePendingReview).
		Done()

	builder.State(stateRejected).
		On(eventReopen).Target(statePendingReview).
		Done()

	builder.State(stateModified).
		On(eventReopen).Target(statePendingReview).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("construir máquina de revisión: %w", err)
	}
	interp := statekit.NewInterpreter(machine)
	interp.Start()
	return interp, nil
}

// transition dispara event desde el estado actual de a. Sin cambio de estado = transición ilegal.
func transition(a *entity.Adjustment, event string) (entity.AdjustmentStatus, error) {
	if !a.Status.Valid() {
		return "", &domain.InvalidTransitionError{AdjustmentID: a.ID, From: string(a.Status), Action: event}
	}
	interp, err := newReviewMachine(a.Status, a.ID)
	if err != nil {
		return "", err
	}
	before := interp.State().Value
	interp.Send(statekit.Event{Type: statekit.EventType(event)})
	after := interp.State().Value
	if before == after {
		return "", &domain.InvalidTransitionError{AdjustmentID: a.ID, From: string(a.Status), Action: event}
	}
	return entity.AdjustmentStatus(after), nil
}

// ReviewInput datos de una revisión.
type ReviewInput struct {
	Decision  Decision
	Reviewer  string
	Notes     string
	NewAmount *decimal.Decimal // requerido solo con DecisionModify
	Now       time.Time
}

// Review aplica una decisión de revisión y devuelve el ajuste resultante.
// El ajuste recibido nunca se modifica: ante error el llamador conserva el registro intacto.
// Un ajuste ya finalizado (accepted, rejected, modified) devuelve *domain.InvalidTransitionError,
// incluso si la llamada repite exactamente la revisión anterior.
func Review(a *entity.Adjustment, in ReviewInput) (*entity.Adjustment, error) {
	if a == nil {
		return nil, domain.NewValidationError("adjustment", "registro nulo")
	}
	if !in.Decision.Valid() {
		return nil, domain.NewValidationError("decision", "debe ser accept, reject o modify")
	}
	if strings.TrimSpace(in.Reviewer) == "" {
		return nil, domain.NewValidationError("reviewed_by", "requerido")
	}
	to, err := transition(a, string(in.Decision))
	if err != nil {
		return nil, err
	}
	if in.Decision == DecisionModify {
		if in.NewAmount == nil {
			return nil, domain.NewValidationError("new_amount", "requerido para modify")
		}
		if err := ValidateAmount("new_amount", *in.NewAmount); err != nil {
			return nil, err
		}
		if in.NewAmount.Equal(a.Amount) {
			return nil, domain.NewValidationError("new_amount", "debe ser distinto del monto actual")
		}
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	out := a.Clone()
	reviewer := in.Reviewer
	notes := in.Notes
	out.Status = to
	out.ReviewedBy = &reviewer
	out.ReviewNotes = &notes
	out.ReviewedAt = &now
	out.UpdatedAt = now

	if in.Decision == DecisionModify {
		original := a.Amount
		out.OriginalAmount = &original
		out.Amount = *in.NewAmount
		out.OverrideReason = in.Notes
	}
	return out, nil
}

// Reopen devuelve un ajuste finalizado a pending_review para un nuevo ciclo de revisión.
// Limpia los campos de revisión; si estaba modified restaura el monto original.
func Reopen(a *entity.Adjustment, now time.Time) (*entity.Adjustment, error) {
	if a == nil {
		return nil, domain.NewValidationError("adjustment", "registro nulo")
	}
	to, err := transition(a, eventReopen)
	if err != nil {
		return nil, err
	}
	if now.IsZero() {
		now = time.Now()
	}
	out := a.Clone()
	out.Status = to
	out.ReviewedBy = nil
	out.ReviewNotes = nil
	out.ReviewedAt = nil
	if out.OriginalAmount != nil {
		out.Amount = *out.OriginalAmount
		out.OriginalAmount = nil
		out.OverrideReason = ""
	}
	out.UpdatedAt = now
	return out, nil
}
