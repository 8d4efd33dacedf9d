package repository

import (
	"context"

	"github.com/jhoicas/qoe-review-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByEmailAndFirm(ctx context.Context, email, firmID string) (*entity.User, error)
	ListByFirm(ctx context.Context, firmID string, limit, offset int) ([]*entity.User, error)
}
