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

var _ repository.FirmRepository = (*FirmRepo)(nil)

// FirmRepo implementación del puerto FirmRepository sobre PostgreSQL.
type FirmRepo struct {
	q Querier
}

// NewFirmRepository construye el adaptador de persistencia para firmas.
func NewFirmRepository(q Querier) *FirmRepo {
	return &FirmRepo{q: q}
}

// Create persiste una nueva firma.
func (r *FirmRepo) Create(ctx context.Context, f *entity.Firm) error {
	query := `
		INSERT INTO firms (id, name, email, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, f.ID, f.Name, f.Email, f.Status, f.CreatedAt, f.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert firm: %w", err)
	}
	return nil
}

// GetByID obtiene una firma por ID.
func (r *FirmRepo) GetByID(ctx context.Context, id string) (*entity.Firm, error) {
	query := `SELECT id, name, email, status, created_at, updated_at FROM firms WHERE id = $1`
	var f entity.Firm
	err := r.q.QueryRow(ctx, query, id).Scan(&f.ID, &f.Name, &f.Email, &f.Status, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get firm: %w", err)
	}
	return &f, nil
}

// List lista firmas con paginación.
func (r *FirmRepo) List(ctx context.Context, limit, offset int) ([]*entity.Firm, error) {
	query := `
		SELECT id, name, email, status, created_at, updated_at
		FROM firms ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list firms: %w", err)
	}
	defer rows.Close()
	var list []*entity.Firm
	for rows.Next() {
		var f entity.Firm
		if err := rows.Scan(&f.ID, &f.Name, &f.Email, &f.Status, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan firm: %w", err)
		}
		list = append(list, &f)
	}
	return list, rows.Err()
}
