package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/qoe-review-api/internal/domain"
	"github.com/jhoicas/qoe-review-api/internal/domain/entity"
	"github.com/jhoicas/qoe-review-api/internal/domain/repository"
)

var _ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)

// AdjustmentRepo implementación del puerto AdjustmentRepository sobre PostgreSQL (usable con pool o tx).
type AdjustmentRepo struct {
	q Querier
}

// NewAdjustmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAdjustmentRepository(q Querier) *AdjustmentRepo {
	return &AdjustmentRepo{q: q}
}

const adjustmentColumns = `
	id, project_id, COALESCE(source_document_id, ''), COALESCE(created_by, ''), adjustment_type,
	title, description, amount, ai_narrative, calculation_method, confidence_score, precision_score,
	source_data, is_manual, force_include, status, reviewed_by, review_notes, reviewed_at,
	original_amount, override_reason, version, created_at, updated_at`

func scanAdjustment(row pgx.Row) (*entity.Adjustment, error) {
	var a entity.Adjustment
	err := row.Scan(
		&a.ID, &a.ProjectID, &a.SourceDocumentID, &a.CreatedBy, &a.Type,
		&a.Title, &a.Description, &a.Amount, &a.AINarrative, &a.CalculationMethod, &a.ConfidenceScore, &a.PrecisionScore,
		&a.SourceData, &a.IsManual, &a.ForceInclude, &a.Status, &a.ReviewedBy, &a.ReviewNotes, &a.ReviewedAt,
		&a.OriginalAmount, &a.OverrideReason, &a.Version, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create persiste un nuevo ajuste con versión 1.
func (r *AdjustmentRepo) Create(ctx context.Context, a *entity.Adjustment) error {
	query := `
		INSERT INTO adjustments (
			id, project_id, source_document_id, created_by, adjustment_type, title, description, amount,
			ai_narrative, calculation_method, confidence_score, precision_score, source_data, is_manual,
			force_include, status, reviewed_by, review_notes, reviewed_at, original_amount, override_reason,
			version, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, 1, $22, $23)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.ProjectID, a.SourceDocumentID, a.CreatedBy, string(a.Type), a.Title, a.Description, a.Amount,
		a.AINarrative, a.CalculationMethod, a.ConfidenceScore, a.PrecisionScore, a.SourceData, a.IsManual,
		a.ForceInclude, string(a.Status), a.ReviewedBy, a.ReviewNotes, a.ReviewedAt, a.OriginalAmount, a.OverrideReason,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert adjustment: %w", err)
	}
	a.Version = 1
	return nil
}

// GetByID obtiene un ajuste por ID.
func (r *AdjustmentRepo) GetByID(ctx context.Context, id string) (*entity.Adjustment, error) {
	a, err := scanAdjustment(r.q.QueryRow(ctx, `SELECT `+adjustmentColumns+` FROM adjustments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get adjustment: %w", err)
	}
	return a, nil
}

// GetForUpdate obtiene el ajuste bloqueando la fila hasta el fin de la tx.
func (r *AdjustmentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Adjustment, error) {
	a, err := scanAdjustment(r.q.QueryRow(ctx, `SELECT `+adjustmentColumns+` FROM adjustments WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get adjustment for update: %w", err)
	}
	return a, nil
}

// Update guarda el ajuste solo si la versión almacenada es expectedVersion (compare-and-swap).
func (r *AdjustmentRepo) Update(ctx context.Context, a *entity.Adjustment, expectedVersion int) error {
	query := `
		UPDATE adjustments SET
			adjustment_type = $3, title = $4, description = $5, amount = $6, ai_narrative = $7,
			calculation_method = $8, confidence_score = $9, precision_score = $10, source_data = $11,
			force_include = $12, status = $13, reviewed_by = $14, review_notes = $15, reviewed_at = $16,
			original_amount = $17, override_reason = $18, updated_at = $19, version = version + 1
		WHERE id = $1 AND version = $2`
	tag, err := r.q.Exec(ctx, query,
		a.ID, expectedVersion,
		string(a.Type), a.Title, a.Description, a.Amount, a.AINarrative,
		a.CalculationMethod, a.ConfidenceScore, a.PrecisionScore, a.SourceData,
		a.ForceInclude, string(a.Status), a.ReviewedBy, a.ReviewNotes, a.ReviewedAt,
		a.OriginalAmount, a.OverrideReason, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update adjustment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	a.Version = expectedVersion + 1
	return nil
}

// ListByProject lista los ajustes de un proyecto en orden de creación. filter.Status nil = todos.
func (r *AdjustmentRepo) ListByProject(ctx context.Context, projectID string, filter repository.AdjustmentFilter) ([]*entity.Adjustment, error) {
	var status *string
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}
	query := `SELECT ` + adjustmentColumns + `
		FROM adjustments
		WHERE project_id = $1 AND ($2::text IS NULL OR status = $2)
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, projectID, status)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Adjustment
	for rows.Next() {
		a, err := scanAdjustment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Delete elimina un ajuste por ID.
func (r *AdjustmentRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM adjustments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete adjustment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
