// Package manga provides a MariaDB-backed repository for the manga catalog.
package manga

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

// Create inserts a catalog entry and returns its id. A duplicate slug
// yields common.ErrorConflict.
func (r *MySQLRepository) Create(ctx context.Context, m *models.Manga) (int64, error) {
	query := `
		INSERT INTO mangas (manga_name, manga_disc, manga_bg_img, manga_slug, tag_id)
		VALUES (?, ?, ?, ?, ?)
	`
	res, err := r.db.ExecContext(ctx, query, m.Name, m.Disc, m.BgImg, m.Slug, m.TagID)
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

const mangaColumns = `manga_id, manga_name, manga_disc, manga_bg_img, manga_slug, tag_id, created_at`

func (r *MySQLRepository) GetByID(ctx context.Context, mangaID int64) (*models.Manga, error) {
	query := `SELECT ` + mangaColumns + ` FROM mangas WHERE manga_id = ?`
	m := &models.Manga{}
	err := r.db.QueryRowContext(ctx, query, mangaID).Scan(
		&m.MangaID, &m.Name, &m.Disc, &m.BgImg, &m.Slug, &m.TagID, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

func (r *MySQLRepository) List(ctx context.Context) ([]*models.Manga, error) {
	query := `SELECT ` + mangaColumns + ` FROM mangas ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Manga
	for rows.Next() {
		m := &models.Manga{}
		if err := rows.Scan(&m.MangaID, &m.Name, &m.Disc, &m.BgImg, &m.Slug, &m.TagID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *MySQLRepository) Update(ctx context.Context, mangaID int64, upd *MangaUpdate) error {
	var fields []string
	var args []any

	if upd.Name != nil {
		fields = append(fields, "manga_name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Disc != nil {
		fields = append(fields, "manga_disc = ?")
		args = append(args, *upd.Disc)
	}
	if upd.BgImg != nil {
		fields = append(fields, "manga_bg_img = ?")
		args = append(args, *upd.BgImg)
	}
	if upd.Slug != nil {
		fields = append(fields, "manga_slug = ?")
		args = append(args, *upd.Slug)
	}
	if upd.TagID != nil {
		fields = append(fields, "tag_id = ?")
		args = append(args, *upd.TagID)
	}

	if len(fields) == 0 {
		return common.ErrorValidation
	}

	args = append(args, mangaID)
	query := `UPDATE mangas SET ` + strings.Join(fields, ", ") + ` WHERE manga_id = ?`

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return common.ErrorConflict
		}
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *MySQLRepository) Delete(ctx context.Context, mangaID int64) error {
	query := `DELETE FROM mangas WHERE manga_id = ?`
	res, err := r.db.ExecContext(ctx, query, mangaID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
