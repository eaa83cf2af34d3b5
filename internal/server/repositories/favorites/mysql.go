// Package favorites provides a MariaDB-backed repository for user favorites.
package favorites

import (
	"context"
	"errors"
	"fmt"

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

// Add links userID to mangaID. Favoriting twice yields common.ErrorConflict.
func (r *MySQLRepository) Add(ctx context.Context, userID, mangaID int64) error {
	query := `INSERT INTO favorite_manga (user_id, manga_id) VALUES (?, ?)`
	if _, err := r.db.ExecContext(ctx, query, userID, mangaID); err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return common.ErrorConflict
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ListForUser returns the user's favorites joined with catalog data,
// newest favorite first.
func (r *MySQLRepository) ListForUser(ctx context.Context, userID int64) ([]*models.FavoriteManga, error) {
	query := `
		SELECT m.manga_id, m.manga_name, m.manga_slug, m.manga_bg_img, f.created_at
		FROM favorite_manga f
		JOIN mangas m ON f.manga_id = m.manga_id
		WHERE f.user_id = ?
		ORDER BY f.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.FavoriteManga
	for rows.Next() {
		fm := &models.FavoriteManga{}
		if err := rows.Scan(&fm.MangaID, &fm.Name, &fm.Slug, &fm.BgImg, &fm.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, fm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *MySQLRepository) Remove(ctx context.Context, userID, mangaID int64) error {
	query := `DELETE FROM favorite_manga WHERE user_id = ? AND manga_id = ?`
	res, err := r.db.ExecContext(ctx, query, userID, mangaID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *MySQLRepository) CountForManga(ctx context.Context, mangaID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM favorite_manga WHERE manga_id = ?`
	var n int64
	if err := r.db.QueryRowContext(ctx, query, mangaID).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
