package users

import (
	"context"

	"github.com/polawatHuang/mangaara-backend/internal/server/models"
)

// UserUpdate carries the optional fields of a partial user update.
// Nil fields are left unchanged.
type UserUpdate struct {
	Email       *string
	DisplayName *string
	Role        *string
	IsActive    *bool
}

// Repository abstracts user persistence.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, userID int64) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, userID int64, upd *UserUpdate) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	UpdateLastLogin(ctx context.Context, userID int64) error
	Delete(ctx context.Context, userID int64) error
}
