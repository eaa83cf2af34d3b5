package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/polawatHuang/mangaara-backend/internal/common"
	"github.com/polawatHuang/mangaara-backend/internal/dbx"
	"github.com/polawatHuang/mangaara-backend/internal/server/models"
	"github.com/polawatHuang/mangaara-backend/internal/server/repositories/comments"
	"github.com/polawatHuang/mangaara-backend/internal/server/repositories/manga"
	"github.com/polawatHuang/mangaara-backend/internal/server/repositories/repomanager"
)

// MangaDetail is a catalog entry together with how many readers favorited it.
type MangaDetail struct {
	*models.Manga
	Favorites int64 `json:"favorites"`
}

// CatalogService covers the reading-catalog surface: manga entries, tags,
// per-user favorites, and moderated episode comments.
type CatalogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	obs         dbx.QueryObserver
}

// NewCatalogService constructs a CatalogService. obs may be nil.
func NewCatalogService(db *sql.DB, m repomanager.RepositoryManager, obs dbx.QueryObserver) *CatalogService {
	return &CatalogService{db: db, repomanager: m, obs: obs}
}

func (s *CatalogService) h() dbx.DBTX {
	return dbx.Instrument(s.db, s.obs)
}

// CreateManga validates and stores a new catalog entry, returning its id.
func (s *CatalogService) CreateManga(ctx context.Context, m *models.Manga) (int64, error) {
	if strings.TrimSpace(m.Name) == "" {
		return 0, fmt.Errorf("%w: manga_name is required", common.ErrorValidation)
	}
	if strings.TrimSpace(m.Slug) == "" {
		return 0, fmt.Errorf("%w: manga_slug is required", common.ErrorValidation)
	}
	id, err := s.repomanager.Manga(s.h()).Create(ctx, m)
	if err != nil {
		return 0, sanitizeErr(err)
	}
	return id, nil
}

// GetManga returns one entry with its favorite count.
func (s *CatalogService) GetManga(ctx context.Context, mangaID int64) (*MangaDetail, error) {
	m, err := s.repomanager.Manga(s.h()).GetByID(ctx, mangaID)
	if err != nil {
		return nil, sanitizeErr(err)
	}
	count, err := s.repomanager.Favorites(s.h()).CountForManga(ctx, mangaID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &MangaDetail{Manga: m, Favorites: count}, nil
}

// ListManga returns the full catalog, newest first.
func (s *CatalogService) ListManga(ctx context.Context) ([]*models.Manga, error) {
	list, err := s.repomanager.Manga(s.h()).List(ctx)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return list, nil
}

// UpdateManga applies a partial catalog update.
func (s *CatalogService) UpdateManga(ctx context.Context, mangaID int64, upd *manga.MangaUpdate) error {
	return sanitizeErr(s.repomanager.Manga(s.h()).Update(ctx, mangaID, upd))
}

// DeleteManga removes an entry; comments and favorites follow via cascades.
func (s *CatalogService) DeleteManga(ctx context.Context, mangaID int64) error {
	return sanitizeErr(s.repomanager.Manga(s.h()).Delete(ctx, mangaID))
}

// CreateTag stores a new tag, returning its id.
func (s *CatalogService) CreateTag(ctx context.Context, name string) (int64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, fmt.Errorf("%w: tag_name is required", common.ErrorValidation)
	}
	id, err := s.repomanager.Tags(s.h()).Create(ctx, name)
	if err != nil {
		return 0, sanitizeErr(err)
	}
	return id, nil
}

// ListTags returns every tag.
func (s *CatalogService) ListTags(ctx context.Context) ([]*models.Tag, error) {
	list, err := s.repomanager.Tags(s.h()).List(ctx)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return list, nil
}

// RenameTag changes a tag's name.
func (s *CatalogService) RenameTag(ctx context.Context, tagID int64, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: tag_name is required", common.ErrorValidation)
	}
	return sanitizeErr(s.repomanager.Tags(s.h()).Rename(ctx, tagID, name))
}

// DeleteTag removes a tag; mangas referencing it fall back to NULL.
func (s *CatalogService) DeleteTag(ctx context.Context, tagID int64) error {
	return sanitizeErr(s.repomanager.Tags(s.h()).Delete(ctx, tagID))
}

// AddFavorite marks a manga as a favorite of the user. Favoriting the same
// manga twice yields ErrorConflict.
func (s *CatalogService) AddFavorite(ctx context.Context, userID, mangaID int64) error {
	return sanitizeErr(s.repomanager.Favorites(s.h()).Add(ctx, userID, mangaID))
}

// ListFavorites returns the user's favorites joined with catalog data.
func (s *CatalogService) ListFavorites(ctx context.Context, userID int64) ([]*models.FavoriteManga, error) {
	list, err := s.repomanager.Favorites(s.h()).ListForUser(ctx, userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return list, nil
}

// RemoveFavorite unmarks a favorite. Removing an absent one is ErrorNotFound.
func (s *CatalogService) RemoveFavorite(ctx context.Context, userID, mangaID int64) error {
	return sanitizeErr(s.repomanager.Favorites(s.h()).Remove(ctx, userID, mangaID))
}

// CreateComment stores a reader comment. Comments always enter moderation in
// the pending state regardless of what the caller sent.
func (s *CatalogService) CreateComment(ctx context.Context, c *models.Comment) (int64, error) {
	if c.MangaID <= 0 {
		return 0, fmt.Errorf("%w: manga_id is required", common.ErrorValidation)
	}
	if c.Episode <= 0 {
		return 0, fmt.Errorf("%w: episode is required", common.ErrorValidation)
	}
	if strings.TrimSpace(c.Commenter) == "" {
		return 0, fmt.Errorf("%w: commenter is required", common.ErrorValidation)
	}
	if strings.TrimSpace(c.Comment) == "" {
		return 0, fmt.Errorf("%w: comment is required", common.ErrorValidation)
	}
	c.Status = models.CommentPending
	id, err := s.repomanager.Comments(s.h()).Create(ctx, c)
	if err != nil {
		return 0, sanitizeErr(err)
	}
	return id, nil
}

// ListComments returns comments matching the filter, newest first.
func (s *CatalogService) ListComments(ctx context.Context, f comments.Filter) ([]*models.Comment, error) {
	list, err := s.repomanager.Comments(s.h()).List(ctx, f)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return list, nil
}

// SetCommentStatus moves a comment through moderation.
func (s *CatalogService) SetCommentStatus(ctx context.Context, commentID int64, status string) error {
	switch status {
	case models.CommentPending, models.CommentPublished, models.CommentRejected:
	default:
		return fmt.Errorf("%w: unknown status %q", common.ErrorValidation, status)
	}
	return sanitizeErr(s.repomanager.Comments(s.h()).SetStatus(ctx, commentID, status))
}

// DeleteComment removes a comment outright.
func (s *CatalogService) DeleteComment(ctx context.Context, commentID int64) error {
	return sanitizeErr(s.repomanager.Comments(s.h()).Delete(ctx, commentID))
}
