package tags

import (
	"context"

	"github.com/polawatHuang/mangaara-backend/internal/server/models"
)

// Repository abstracts tag persistence.
type Repository interface {
	Create(ctx context.Context, name string) (int64, error)
	List(ctx context.Context) ([]*models.Tag, error)
	Rename(ctx context.Context, tagID int64, name string) error
	Delete(ctx context.Context, tagID int64) error
}
