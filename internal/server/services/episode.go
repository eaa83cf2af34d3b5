package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/polawatHuang/mangaara-backend/internal/common"
	"github.com/polawatHuang/mangaara-backend/internal/dbx"
	"github.com/polawatHuang/mangaara-backend/internal/server/models"
	"github.com/polawatHuang/mangaara-backend/internal/server/repositories/episodes"
	"github.com/polawatHuang/mangaara-backend/internal/server/repositories/repomanager"
)

const (
	defaultLatestLimit = 20
	maxLatestLimit     = 100
)

// PageImage is one uploaded page handed to ReplacePages after the HTTP
// layer stored the file. Page numbers follow slice order.
type PageImage struct {
	Filename string
	URL      string
}

// EpisodeService covers episode metadata and the page images behind each
// episode.
type EpisodeService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	obs         dbx.QueryObserver
}

// NewEpisodeService constructs an EpisodeService. obs may be nil.
func NewEpisodeService(db *sql.DB, m repomanager.RepositoryManager, obs dbx.QueryObserver) *EpisodeService {
	return &EpisodeService{db: db, repomanager: m, obs: obs}
}

func (s *EpisodeService) h() dbx.DBTX {
	return dbx.Instrument(s.db, s.obs)
}

// CreateEpisode validates and stores episode metadata, returning its id.
// The manga must exist; an unnamed episode gets "Episode N".
func (s *EpisodeService) CreateEpisode(ctx context.Context, e *models.Episode) (int64, error) {
	if e.MangaID <= 0 {
		return 0, fmt.Errorf("%w: manga_id is required", common.ErrorValidation)
	}
	if e.Episode <= 0 {
		return 0, fmt.Errorf("%w: episode must be a positive number", common.ErrorValidation)
	}
	if _, err := s.repomanager.Manga(s.h()).GetByID(ctx, e.MangaID); err != nil {
		return 0, sanitizeErr(err)
	}
	if e.Name == nil || strings.TrimSpace(*e.Name) == "" {
		name := fmt.Sprintf("Episode %d", e.Episode)
		e.Name = &name
	}
	id, err := s.repomanager.Episodes(s.h()).Create(ctx, e)
	if err != nil {
		return 0, sanitizeErr(err)
	}
	return id, nil
}

// GetEpisode returns one episode's metadata by id.
func (s *EpisodeService) GetEpisode(ctx context.Context, episodeID int64) (*models.Episode, error) {
	e, err := s.repomanager.Episodes(s.h()).GetByID(ctx, episodeID)
	if err != nil {
		return nil, sanitizeErr(err)
	}
	return e, nil
}

// GetEpisodeByNumber returns one episode addressed by manga and number.
func (s *EpisodeService) GetEpisodeByNumber(ctx context.Context, mangaID int64, episode int) (*models.Episode, error) {
	e, err := s.repomanager.Episodes(s.h()).GetByNumber(ctx, mangaID, episode)
	if err != nil {
		return nil, sanitizeErr(err)
	}
	return e, nil
}

// ListEpisodes returns a manga's episodes in reading order.
func (s *EpisodeService) ListEpisodes(ctx context.Context, mangaID int64) ([]*models.Episode, error) {
	list, err := s.repomanager.Episodes(s.h()).ListForManga(ctx, mangaID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return list, nil
}

// LatestEpisodes returns the newest episodes across the catalog. A
// non-positive limit falls back to the default; oversized limits are capped.
func (s *EpisodeService) LatestEpisodes(ctx context.Context, limit int) ([]*models.LatestEpisode, error) {
	if limit <= 0 {
		limit = defaultLatestLimit
	}
	if limit > maxLatestLimit {
		limit = maxLatestLimit
	}
	list, err := s.repomanager.Episodes(s.h()).ListLatest(ctx, limit)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return list, nil
}

// UpdateEpisode applies a partial metadata update.
func (s *EpisodeService) UpdateEpisode(ctx context.Context, episodeID int64, upd *episodes.EpisodeUpdate) error {
	return sanitizeErr(s.repomanager.Episodes(s.h()).Update(ctx, episodeID, upd))
}

// DeleteEpisode removes the metadata row and its page rows in one
// transaction. Files on disk are left for the operator.
func (s *EpisodeService) DeleteEpisode(ctx context.Context, episodeID int64) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Episodes(dbx.Instrument(tx, s.obs))
		e, err := repo.GetByID(ctx, episodeID)
		if err != nil {
			return err
		}
		if err := repo.DeletePages(ctx, e.MangaID, e.Episode); err != nil {
			return err
		}
		return repo.Delete(ctx, episodeID)
	})
	return sanitizeErr(err)
}

// IncrementView bumps an episode's read counter.
func (s *EpisodeService) IncrementView(ctx context.Context, episodeID int64) error {
	return sanitizeErr(s.repomanager.Episodes(s.h()).IncrementView(ctx, episodeID))
}

// ReplacePages swaps an episode's page rows for the uploaded set and records
// the new page count, all in one transaction. Page numbers follow upload
// order starting at 1.
func (s *EpisodeService) ReplacePages(ctx context.Context, mangaID int64, slug string, episode int, images []PageImage) (int, error) {
	if mangaID <= 0 || strings.TrimSpace(slug) == "" {
		return 0, fmt.Errorf("%w: manga_id and manga_slug are required", common.ErrorValidation)
	}
	if episode <= 0 {
		return 0, fmt.Errorf("%w: episode must be a positive number", common.ErrorValidation)
	}
	if len(images) == 0 {
		return 0, fmt.Errorf("%w: at least one image is required", common.ErrorValidation)
	}

	if _, err := s.repomanager.Episodes(s.h()).GetByNumber(ctx, mangaID, episode); err != nil {
		return 0, sanitizeErr(err)
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Episodes(dbx.Instrument(tx, s.obs))
		if err := repo.DeletePages(ctx, mangaID, episode); err != nil {
			return err
		}
		for i, img := range images {
			page := &models.EpisodePage{
				MangaID:       mangaID,
				MangaSlug:     slug,
				Episode:       episode,
				PageNumber:    i + 1,
				ImageURL:      img.URL,
				ImageFilename: img.Filename,
			}
			if err := repo.InsertPage(ctx, page); err != nil {
				return err
			}
		}
		return repo.SetTotalPages(ctx, mangaID, episode, len(images))
	})
	if err != nil {
		return 0, sanitizeErr(err)
	}
	return len(images), nil
}

// ListPages returns an episode's pages in page order.
func (s *EpisodeService) ListPages(ctx context.Context, mangaID int64, episode int) ([]*models.EpisodePage, error) {
	list, err := s.repomanager.Episodes(s.h()).ListPages(ctx, mangaID, episode)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return list, nil
}

// ListPagesBySlug returns an episode's pages addressed by manga slug.
func (s *EpisodeService) ListPagesBySlug(ctx context.Context, slug string, episode int) ([]*models.EpisodePage, error) {
	list, err := s.repomanager.Episodes(s.h()).ListPagesBySlug(ctx, slug, episode)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return list, nil
}

// DeletePages removes an episode's page rows and zeroes its page count.
func (s *EpisodeService) DeletePages(ctx context.Context, mangaID int64, episode int) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Episodes(dbx.Instrument(tx, s.obs))
		if err := repo.DeletePages(ctx, mangaID, episode); err != nil {
			return err
		}
		return repo.SetTotalPages(ctx, mangaID, episode, 0)
	})
	return sanitizeErr(err)
}
