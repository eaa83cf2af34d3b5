package comments

import (
	"context"

	"github.com/polawatHuang/mangaara-backend/internal/server/models"
)

// Filter narrows comment listings. Zero values mean "any".
type Filter struct {
	MangaID int64
	Episode int
	Status  string
}

// Repository abstracts comment persistence and moderation.
type Repository interface {
	Create(ctx context.Context, c *models.Comment) (int64, error)
	List(ctx context.Context, f Filter) ([]*models.Comment, error)
	SetStatus(ctx context.Context, commentID int64, status string) error
	Delete(ctx context.Context, commentID int64) error
}
