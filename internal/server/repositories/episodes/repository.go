package episodes

import (
	"context"

	"github.com/polawatHuang/mangaara-backend/internal/server/models"
)

// EpisodeUpdate carries optional fields for a partial episode update.
type EpisodeUpdate struct {
	Name       *string
	TotalPages *int
}

// Repository abstracts persistence for episode metadata and page images.
type Repository interface {
	Create(ctx context.Context, e *models.Episode) (int64, error)
	GetByID(ctx context.Context, episodeID int64) (*models.Episode, error)
	GetByNumber(ctx context.Context, mangaID int64, episode int) (*models.Episode, error)
	ListForManga(ctx context.Context, mangaID int64) ([]*models.Episode, error)
	ListLatest(ctx context.Context, limit int) ([]*models.LatestEpisode, error)
	Update(ctx context.Context, episodeID int64, upd *EpisodeUpdate) error
	Delete(ctx context.Context, episodeID int64) error
	IncrementView(ctx context.Context, episodeID int64) error

	InsertPage(ctx context.Context, p *models.EpisodePage) error
	ListPages(ctx context.Context, mangaID int64, episode int) ([]*models.EpisodePage, error)
	ListPagesBySlug(ctx context.Context, slug string, episode int) ([]*models.EpisodePage, error)
	DeletePages(ctx context.Context, mangaID int64, episode int) error
	SetTotalPages(ctx context.Context, mangaID int64, episode, total int) error
}
