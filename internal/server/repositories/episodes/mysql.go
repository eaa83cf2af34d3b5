// Package episodes provides a MariaDB-backed repository for episode metadata
// (manga_episodes) and the page images behind each episode (episodes).
package episodes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/polawatHuang/mangaara-backend/internal/common"
	"github.com/polawatHuang/mangaara-backend/internal/dbx"
	"github.com/polawatHuang/mangaara-backend/internal/server/models"
)

const mysqlDuplicateEntry = 1062

type MySQLRepository struct {
	db dbx.DBTX
}

func NewMySQLRepository(db dbx.DBTX) *MySQLRepository {
	return &MySQLRepository{db: db}
}

// Create inserts episode metadata and returns its id. A second episode with
// the same number for the same manga yields common.ErrorConflict.
func (r *MySQLRepository) Create(ctx context.Context, e *models.Episode) (int64, error) {
	query := `
		INSERT INTO manga_episodes (manga_id, episode, episode_name, total_pages, view_count)
		VALUES (?, ?, ?, ?, ?)
	`
	res, err := r.db.ExecContext(ctx, query, e.MangaID, e.Episode, e.Name, e.TotalPages, e.Views)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return 0, common.ErrorConflict
		}
		return 0, fmt.Errorf("db error: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

const episodeColumns = `episode_id, manga_id, episode, episode_name, total_pages, view_count, created_date, updated_date`

func (r *MySQLRepository) scanEpisode(row *sql.Row) (*models.Episode, error) {
	e := &models.Episode{}
	err := row.Scan(&e.EpisodeID, &e.MangaID, &e.Episode, &e.Name,
		&e.TotalPages, &e.Views, &e.CreatedDate, &e.UpdatedDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *MySQLRepository) GetByID(ctx context.Context, episodeID int64) (*models.Episode, error) {
	query := `SELECT ` + episodeColumns + ` FROM manga_episodes WHERE episode_id = ?`
	return r.scanEpisode(r.db.QueryRowContext(ctx, query, episodeID))
}

func (r *MySQLRepository) GetByNumber(ctx context.Context, mangaID int64, episode int) (*models.Episode, error) {
	query := `SELECT ` + episodeColumns + ` FROM manga_episodes WHERE manga_id = ? AND episode = ?`
	return r.scanEpisode(r.db.QueryRowContext(ctx, query, mangaID, episode))
}

// ListForManga returns a manga's episodes in reading order.
func (r *MySQLRepository) ListForManga(ctx context.Context, mangaID int64) ([]*models.Episode, error) {
	query := `SELECT ` + episodeColumns + ` FROM manga_episodes WHERE manga_id = ? ORDER BY episode ASC`
	rows, err := r.db.QueryContext(ctx, query, mangaID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Episode
	for rows.Next() {
		e := &models.Episode{}
		if err := rows.Scan(&e.EpisodeID, &e.MangaID, &e.Episode, &e.Name,
			&e.TotalPages, &e.Views, &e.CreatedDate, &e.UpdatedDate); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// ListLatest returns the newest episodes across the catalog joined with
// their manga.
func (r *MySQLRepository) ListLatest(ctx context.Context, limit int) ([]*models.LatestEpisode, error) {
	query := `
		SELECT me.episode_id, me.manga_id, me.episode, me.episode_name, me.view_count, me.created_date,
		       m.manga_name, m.manga_slug, m.manga_bg_img
		FROM manga_episodes me
		JOIN mangas m ON me.manga_id = m.manga_id
		ORDER BY me.created_date DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.LatestEpisode
	for rows.Next() {
		e := &models.LatestEpisode{}
		if err := rows.Scan(&e.EpisodeID, &e.MangaID, &e.Episode, &e.Name, &e.Views, &e.CreatedDate,
			&e.MangaName, &e.MangaSlug, &e.MangaBgImg); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *MySQLRepository) Update(ctx context.Context, episodeID int64, upd *EpisodeUpdate) error {
	var fields []string
	var args []any

	if upd.Name != nil {
		fields = append(fields, "episode_name = ?")
		args = append(args, *upd.Name)
	}
	if upd.TotalPages != nil {
		fields = append(fields, "total_pages = ?")
		args = append(args, *upd.TotalPages)
	}

	if len(fields) == 0 {
		return common.ErrorValidation
	}

	args = append(args, episodeID)
	query := `UPDATE manga_episodes SET ` + strings.Join(fields, ", ") + ` WHERE episode_id = ?`

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *MySQLRepository) Delete(ctx context.Context, episodeID int64) error {
	query := `DELETE FROM manga_episodes WHERE episode_id = ?`
	res, err := r.db.ExecContext(ctx, query, episodeID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// IncrementView bumps the episode's read counter.
func (r *MySQLRepository) IncrementView(ctx context.Context, episodeID int64) error {
	query := `UPDATE manga_episodes SET view_count = view_count + 1 WHERE episode_id = ?`
	res, err := r.db.ExecContext(ctx, query, episodeID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *MySQLRepository) InsertPage(ctx context.Context, p *models.EpisodePage) error {
	query := `
		INSERT INTO episodes (manga_id, manga_slug, episode, page_number, image_url, image_filename)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.MangaID, p.MangaSlug, p.Episode, p.PageNumber, p.ImageURL, p.ImageFilename)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const pageColumns = `page_id, manga_id, manga_slug, episode, page_number, image_url, image_filename`

func (r *MySQLRepository) listPages(ctx context.Context, query string, args ...any) ([]*models.EpisodePage, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.EpisodePage
	for rows.Next() {
		p := &models.EpisodePage{}
		if err := rows.Scan(&p.PageID, &p.MangaID, &p.MangaSlug, &p.Episode,
			&p.PageNumber, &p.ImageURL, &p.ImageFilename); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *MySQLRepository) ListPages(ctx context.Context, mangaID int64, episode int) ([]*models.EpisodePage, error) {
	query := `SELECT ` + pageColumns + ` FROM episodes WHERE manga_id = ? AND episode = ? ORDER BY page_number ASC`
	return r.listPages(ctx, query, mangaID, episode)
}

func (r *MySQLRepository) ListPagesBySlug(ctx context.Context, slug string, episode int) ([]*models.EpisodePage, error) {
	query := `SELECT ` + pageColumns + ` FROM episodes WHERE manga_slug = ? AND episode = ? ORDER BY page_number ASC`
	return r.listPages(ctx, query, slug, episode)
}

// DeletePages removes every page row of an episode. Deleting an episode with
// no pages is not an error.
func (r *MySQLRepository) DeletePages(ctx context.Context, mangaID int64, episode int) error {
	query := `DELETE FROM episodes WHERE manga_id = ? AND episode = ?`
	if _, err := r.db.ExecContext(ctx, query, mangaID, episode); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// SetTotalPages records the page count on the episode metadata row.
func (r *MySQLRepository) SetTotalPages(ctx context.Context, mangaID int64, episode, total int) error {
	query := `UPDATE manga_episodes SET total_pages = ? WHERE manga_id = ? AND episode = ?`
	res, err := r.db.ExecContext(ctx, query, total, mangaID, episode)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
