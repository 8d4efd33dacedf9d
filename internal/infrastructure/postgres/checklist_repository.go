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

var _ repository.ChecklistRepository = (*ChecklistRepo)(nil)

// ChecklistRepo checklist de QA sobre PostgreSQL.
type ChecklistRepo struct {
	q Querier
}

// NewChecklistRepository construye el adaptador. Pasar pool o tx (Querier).
func NewChecklistRepository(q Querier) *ChecklistRepo {
	return &ChecklistRepo{q: q}
}

// CreateBatch inserta los ítems en un solo round-trip.
func (r *ChecklistRepo) CreateBatch(ctx context.Context, items []entity.ChecklistItem) error {
	if len(items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(`
			INSERT INTO qa_checklist_items (id, project_id, item_key, description, required, status, position, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			it.ID, it.ProjectID, it.Key, it.Description, it.Required, it.Status, it.Position, it.UpdatedAt)
	}
	res := r.q.SendBatch(ctx, batch)
	defer res.Close()
	for range items {
		if _, err := res.Exec(); err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("insert checklist item: %w", err)
		}
	}
	return nil
}

// ListByProject ítems del proyecto en orden de presentación.
func (r *ChecklistRepo) ListByProject(ctx context.Context, projectID string) ([]entity.ChecklistItem, error) {
	query := `
		SELECT id, project_id, item_key, description, required, status, position, updated_at
		FROM qa_checklist_items WHERE project_id = $1 ORDER BY position, id`
	rows, err := r.q.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list checklist: %w", err)
	}
	defer rows.Close()
	var list []entity.ChecklistItem
	for rows.Next() {
		var it entity.ChecklistItem
		if err := rows.Scan(&it.ID, &it.ProjectID, &it.Key, &it.Description, &it.Required, &it.Status, &it.Position, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan checklist item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// GetByID ítem del proyecto; nil si no existe o pertenece a otro proyecto.
func (r *ChecklistRepo) GetByID(ctx context.Context, projectID, itemID string) (*entity.ChecklistItem, error) {
	query := `
		SELECT id, project_id, item_key, description, required, status, position, updated_at
		FROM qa_checklist_items WHERE project_id = $1 AND id = $2`
	var it entity.ChecklistItem
	err := r.q.QueryRow(ctx, query, projectID, itemID).Scan(
		&it.ID, &it.ProjectID, &it.Key, &it.Description, &it.Required, &it.Status, &it.Position, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get checklist item: %w", err)
	}
	return &it, nil
}

// UpdateStatus cambia el estado de un ítem.
func (r *ChecklistRepo) UpdateStatus(ctx context.Context, projectID, itemID, status string) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE qa_checklist_items SET status = $3, updated_at = NOW()
		WHERE project_id = $1 AND id = $2`, projectID, itemID, status)
	if err != nil {
		return fmt.Errorf("update checklist item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
