package manga

import (
	"context"

	"github.com/polawatHuang/mangaara-backend/internal/server/models"
)

// MangaUpdate carries optional fields for a partial catalog update.
type MangaUpdate struct {
	Name  *string
	Disc  *string
	BgImg *string
	Slug  *string
	TagID *int64
}

// Repository abstracts catalog persistence for manga rows.
type Repository interface {
	Create(ctx context.Context, m *models.Manga) (int64, error)
	GetByID(ctx context.Context, mangaID int64) (*models.Manga, error)
	List(ctx context.Context) ([]*models.Manga, error)
	Update(ctx context.Context, mangaID int64, upd *MangaUpdate) error
	Delete(ctx context.Context, mangaID int64) error
}
