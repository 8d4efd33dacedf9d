package adjustment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/qoe-review-api/internal/application/dto"
	"github.com/jhoicas/qoe-review-api/internal/domain"
	"github.com/jhoicas/qoe-review-api/internal/domain/adjustment"
	"github.com/jhoicas/qoe-review-api/internal/domain/entity"
	"github.com/jhoicas/qoe-review-api/internal/domain/repository"
	"github.com/jhoicas/qoe-review-api/pkg/logger"
)

// AdjustmentUseCase flujo de revisión de ajustes: alta manual, ingesta de sugerencias,
// revisión, reapertura y borrado. Toda mutación corre en una tx con la fila bloqueada
// (SELECT FOR UPDATE) y se guarda con control de versión.
type AdjustmentUseCase struct {
	txRunner    TxRunner
	adjRepo     repository.AdjustmentRepository
	projectRepo repository.ProjectRepository
	locker      Locker
	log         *logger.Logger
	now         func() time.Time
}

// NewAdjustmentUseCase construye el caso de uso. locker nil = NopLocker.
func NewAdjustmentUseCase(
	txRunner TxRunner,
	adjRepo repository.AdjustmentRepository,
	projectRepo repository.ProjectRepository,
	locker Locker,
	log *logger.Logger,
) *AdjustmentUseCase {
	if locker == nil {
		locker = NopLocker{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &AdjustmentUseCase{
		txRunner:    txRunner,
		adjRepo:     adjRepo,
		projectRepo: projectRepo,
		locker:      locker,
		log:         log.Named("adjustments"),
		now:         time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *AdjustmentUseCase) WithClock(now func() time.Time) *AdjustmentUseCase {
	uc.now = now
	return uc
}

// CreateManual registra un ajuste ingresado por un analista. Se crea accepted (default) o pending_review;
// si nace accepted queda sellado como revisado por su autor.
func (uc *AdjustmentUseCase) CreateManual(ctx context.Context, firmID, userID, projectID string, in dto.CreateManualAdjustmentRequest) (*dto.AdjustmentResponse, error) {
	if _, err := uc.loadProject(ctx, firmID, projectID); err != nil {
		return nil, err
	}
	if in.Amount == nil {
		return nil, domain.NewValidationError("amount", "requerido")
	}
	status := entity.StatusAccepted
	if in.Status != "" {
		status = entity.AdjustmentStatus(in.Status)
	}
	now := uc.now()
	a := &entity.Adjustment{
		ID:                uuid.New().String(),
		ProjectID:         projectID,
		SourceDocumentID:  in.SourceDocumentID,
		CreatedBy:         userID,
		Type:              entity.AdjustmentType(in.AdjustmentType),
		Title:             strings.TrimSpace(in.Title),
		Description:       in.Description,
		Amount:            *in.Amount,
		CalculationMethod: in.CalculationMethod,
		SourceData:        sourceDataFromDTO(in.SourceData),
		IsManual:          true,
		ForceInclude:      in.ForceInclude,
		Status:            status,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if status == entity.StatusAccepted {
		reviewer := userID
		notes := ""
		reviewedAt := now
		a.ReviewedBy = &reviewer
		a.ReviewNotes = &notes
		a.ReviewedAt = &reviewedAt
	}
	if err := adjustment.ValidateNew(a); err != nil {
		return nil, err
	}

	err := uc.txRunner.RunAdjustments(ctx, func(adjRepo repository.AdjustmentRepository, auditRepo repository.AuditLogRepository) error {
		if err := adjRepo.Create(ctx, a); err != nil {
			return err
		}
		amount := a.Amount
		return auditRepo.Create(ctx, uc.auditEntry(a, userID, entity.AuditActionCreate, entity.AuditChange{
			ToStatus: a.Status,
			ToAmount: &amount,
		}, "", now))
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("adjustment_id", a.ID).
		Str("project_id", projectID).
		Str("status", string(a.Status)).
		Msg("ajuste manual creado")
	return ToResponse(a), nil
}

// IngestSuggestions persiste un lote de candidatos del servicio de ingesta en estado suggested.
// El lote es atómico: un candidato inválido rechaza el lote completo.
func (uc *AdjustmentUseCase) IngestSuggestions(ctx context.Context, firmID, userID, projectID string, in dto.IngestSuggestionsRequest) (*dto.IngestSuggestionsResponse, error) {
	if _, err := uc.loadProject(ctx, firmID, projectID); err != nil {
		return nil, err
	}
	if len(in.Candidates) == 0 {
		return nil, domain.NewValidationError("candidates", "lote vacío")
	}
	now := uc.now()
	created := make([]*entity.Adjustment, 0, len(in.Candidates))
	for i, c := range in.Candidates {
		amount, err := adjustment.AmountFromFloat(c.Amount)
		if err != nil {
			return nil, candidateError(i, err)
		}
		a := &entity.Adjustment{
			ID:                uuid.New().String(),
			ProjectID:         projectID,
			SourceDocumentID:  c.SourceDocumentID,
			CreatedBy:         userID,
			Type:              entity.AdjustmentType(c.AdjustmentType),
			Title:             strings.TrimSpace(c.Title),
			Description:       c.Description,
			Amount:            amount,
			AINarrative:       c.AINarrative,
			CalculationMethod: c.CalculationMethod,
			ConfidenceScore:   c.ConfidenceScore,
			PrecisionScore:    c.PrecisionScore,
			SourceData:        sourceDataFromDTO(c.SourceData),
			Status:            entity.StatusSuggested,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if a.ConfidenceScore == nil {
			return nil, candidateError(i, domain.NewValidationError("confidence_score", "requerido en sugerencias"))
		}
		if err := adjustment.ValidateNew(a); err != nil {
			return nil, candidateError(i, err)
		}
		created = append(created, a)
	}

	err := uc.txRunner.RunAdjustments(ctx, func(adjRepo repository.AdjustmentRepository, auditRepo repository.AuditLogRepository) error {
		for _, a := range created {
			if err := adjRepo.Create(ctx, a); err != nil {
				return err
			}
			amount := a.Amount
			entry := uc.auditEntry(a, userID, entity.AuditActionIngest, entity.AuditChange{ToStatus: a.Status, ToAmount: &amount}, "", now)
			if err := auditRepo.Create(ctx, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("project_id", projectID).
		Int("count", len(created)).
		Msg("sugerencias ingresadas")
	return &dto.IngestSuggestionsResponse{Created: ToResponses(created)}, nil
}

// List ajustes de un proyecto. status vacío = todos; cualquier otro valor debe ser un estado conocido.
func (uc *AdjustmentUseCase) List(ctx context.Context, firmID, projectID, status string) (*dto.AdjustmentListResponse, error) {
	if _, err := uc.loadProject(ctx, firmID, projectID); err != nil {
		return nil, err
	}
	var filter repository.AdjustmentFilter
	if status != "" {
		st := entity.AdjustmentStatus(status)
		if !st.Valid() {
			return nil, domain.NewValidationError("status", "estado desconocido: "+status)
		}
		filter.Status = &st
	}
	list, err := uc.adjRepo.ListByProject(ctx, projectID, filter)
	if err != nil {
		return nil, err
	}
	items := ToResponses(list)
	return &dto.AdjustmentListResponse{Items: items, Total: len(items)}, nil
}

// Get obtiene un ajuste de la firma.
func (uc *AdjustmentUseCase) Get(ctx context.Context, firmID, id string) (*dto.AdjustmentResponse, error) {
	a, err := uc.adjRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	if _, err := uc.loadProject(ctx, firmID, a.ProjectID); err != nil {
		return nil, err
	}
	return ToResponse(a), nil
}

// History bitácora de auditoría de un ajuste existente.
func (uc *AdjustmentUseCase) History(ctx context.Context, firmID, id string) (*dto.AdjustmentHistoryResponse, error) {
	if _, err := uc.Get(ctx, firmID, id); err != nil {
		return nil, err
	}
	var logs []*entity.AuditLog
	err := uc.txRunner.RunAdjustments(ctx, func(_ repository.AdjustmentRepository, auditRepo repository.AuditLogRepository) error {
		var err error
		logs, err = auditRepo.ListByEntity(ctx, "adjustment", id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dto.AdjustmentHistoryResponse{AdjustmentID: id, Items: AuditToResponses(logs)}, nil
}

// Review aplica una decisión (accept, reject, modify) sobre un ajuste suggested o pending_review.
// Un ajuste ya revisado devuelve *domain.InvalidTransitionError y no se modifica.
func (uc *AdjustmentUseCase) Review(ctx context.Context, firmID, userID, id string, in dto.ReviewAdjustmentRequest) (*dto.AdjustmentResponse, error) {
	out, err := uc.mutate(ctx, firmID, userID, id, in.Notes, func(cur *entity.Adjustment, now time.Time) (*entity.Adjustment, string, error) {
		next, err := adjustment.Review(cur, adjustment.ReviewInput{
			Decision:  adjustment.Decision(in.Decision),
			Reviewer:  userID,
			Notes:     in.Notes,
			NewAmount: in.NewAmount,
			Now:       now,
		})
		return next, entity.AuditActionReview, err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("adjustment_id", id).
		Str("decision", in.Decision).
		Str("reviewer", userID).
		Str("status", string(out.Status)).
		Msg("ajuste revisado")
	return ToResponse(out), nil
}

// Reopen devuelve un ajuste revisado a pending_review.
func (uc *AdjustmentUseCase) Reopen(ctx context.Context, firmID, userID, id string) (*dto.AdjustmentResponse, error) {
	out, err := uc.mutate(ctx, firmID, userID, id, "", func(cur *entity.Adjustment, now time.Time) (*entity.Adjustment, string, error) {
		next, err := adjustment.Reopen(cur, now)
		return next, entity.AuditActionReopen, err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("adjustment_id", id).Str("user_id", userID).Msg("ajuste reabierto")
	return ToResponse(out), nil
}

// Update edita el contenido de un ajuste todavía sin revisar. Un ajuste revisado
// devuelve *domain.InvalidTransitionError hasta que se reabra.
func (uc *AdjustmentUseCase) Update(ctx context.Context, firmID, userID, id string, in dto.UpdateAdjustmentRequest) (*dto.AdjustmentResponse, error) {
	edit := adjustment.Edit{
		Title:             in.Title,
		Description:       in.Description,
		CalculationMethod: in.CalculationMethod,
		SourceData:        sourceDataFromDTO(in.SourceData),
		Amount:            in.Amount,
	}
	if in.AdjustmentType != nil {
		t := entity.AdjustmentType(*in.AdjustmentType)
		edit.Type = &t
	}
	out, err := uc.mutate(ctx, firmID, userID, id, "", func(cur *entity.Adjustment, now time.Time) (*entity.Adjustment, string, error) {
		edit.Now = now
		next, err := adjustment.ApplyEdit(cur, edit)
		return next, entity.AuditActionUpdate, err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("adjustment_id", id).Str("user_id", userID).Msg("ajuste editado")
	return ToResponse(out), nil
}

// SetForceInclude marca o desmarca la inclusión forzada en reportes. No cambia el estado de revisión.
func (uc *AdjustmentUseCase) SetForceInclude(ctx context.Context, firmID, userID, id string, force bool) (*dto.AdjustmentResponse, error) {
	out, err := uc.mutate(ctx, firmID, userID, id, fmt.Sprintf("force_include=%t", force), func(cur *entity.Adjustment, now time.Time) (*entity.Adjustment, string, error) {
		next := cur.Clone()
		next.ForceInclude = force
		next.UpdatedAt = now
		return next, entity.AuditActionForce, nil
	})
	if err != nil {
		return nil, err
	}
	return ToResponse(out), nil
}

// Delete elimina un ajuste. La entrada de auditoría sobrevive al registro.
func (uc *AdjustmentUseCase) Delete(ctx context.Context, firmID, userID, id string) error {
	release, err := uc.locker.Acquire(ctx, LockKey(id))
	if err != nil {
		return err
	}
	defer release()

	now := uc.now()
	err = uc.txRunner.RunAdjustments(ctx, func(adjRepo repository.AdjustmentRepository, auditRepo repository.AuditLogRepository) error {
		cur, err := adjRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return domain.ErrNotFound
		}
		if _, err := uc.loadProject(ctx, firmID, cur.ProjectID); err != nil {
			return err
		}
		if err := adjRepo.Delete(ctx, id); err != nil {
			return err
		}
		amount := cur.Amount
		return auditRepo.Create(ctx, uc.auditEntry(cur, userID, entity.AuditActionDelete, entity.AuditChange{
			FromStatus: cur.Status,
			FromAmount: &amount,
		}, "", now))
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("adjustment_id", id).Str("user_id", userID).Msg("ajuste eliminado")
	return nil
}

type mutation func(cur *entity.Adjustment, now time.Time) (next *entity.Adjustment, action string, err error)

// mutate toma el lock del ajuste, abre la tx, bloquea la fila y guarda el resultado de fn con CAS de versión.
func (uc *AdjustmentUseCase) mutate(ctx context.Context, firmID, userID, id, notes string, fn mutation) (*entity.Adjustment, error) {
	release, err := uc.locker.Acquire(ctx, LockKey(id))
	if err != nil {
		return nil, err
	}
	defer release()

	now := uc.now()
	var out *entity.Adjustment
	err = uc.txRunner.RunAdjustments(ctx, func(adjRepo repository.AdjustmentRepository, auditRepo repository.AuditLogRepository) error {
		cur, err := adjRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return domain.ErrNotFound
		}
		if _, err := uc.loadProject(ctx, firmID, cur.ProjectID); err != nil {
			return err
		}
		next, action, err := fn(cur, now)
		if err != nil {
			return err
		}
		if err := adjustment.Validate(next); err != nil {
			return err
		}
		if err := adjRepo.Update(ctx, next, cur.Version); err != nil {
			return err
		}
		fromAmount, toAmount := cur.Amount, next.Amount
		change := entity.AuditChange{
			FromStatus: cur.Status,
			ToStatus:   next.Status,
			FromAmount: &fromAmount,
			ToAmount:   &toAmount,
		}
		if err := auditRepo.Create(ctx, uc.auditEntry(next, userID, action, change, notes, now)); err != nil {
			return err
		}
		out = next
		return nil
	})
	if err != nil {
		var invalid *domain.InvalidTransitionError
		if errors.As(err, &invalid) {
			uc.log.Warn().Str("adjustment_id", id).Str("from", invalid.From).Str("action", invalid.Action).Msg("transición rechazada")
		}
		return nil, err
	}
	return out, nil
}

// loadProject obtiene el proyecto y verifica que pertenezca a la firma del usuario.
func (uc *AdjustmentUseCase) loadProject(ctx context.Context, firmID, projectID string) (*entity.Project, error) {
	p, err := uc.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if p.FirmID != firmID {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

func (uc *AdjustmentUseCase) auditEntry(a *entity.Adjustment, userID, action string, change entity.AuditChange, notes string, now time.Time) *entity.AuditLog {
	return &entity.AuditLog{
		ID:         uuid.New().String(),
		ProjectID:  a.ProjectID,
		UserID:     userID,
		Action:     action,
		EntityType: "adjustment",
		EntityID:   a.ID,
		Change:     change,
		Notes:      notes,
		CreatedAt:  now,
	}
}

// candidateError antepone el índice del candidato al campo inválido.
func candidateError(i int, err error) error {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return domain.NewValidationError(fmt.Sprintf("candidates[%d].%s", i, vErr.Field), vErr.Reason)
	}
	return err
}
