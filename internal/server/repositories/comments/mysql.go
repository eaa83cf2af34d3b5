// Package comments provides a MariaDB-backed repository for episode comments.
package comments

import (
	"context"
	"fmt"
	"strings"

	"github.com/polawatHuang/mangaara-backend/internal/common"
	"github.com/polawatHuang/mangaara-backend/internal/dbx"
	"github.com/polawatHuang/mangaara-backend/internal/server/models"
)

type MySQLRepository struct {
	db dbx.DBTX
}

func NewMySQLRepository(db dbx.DBTX) *MySQLRepository {
	return &MySQLRepository{db: db}
}

func (r *MySQLRepository) Create(ctx context.Context, c *models.Comment) (int64, error) {
	query := `
		INSERT INTO comment_on_episode (manga_id, episode, commenter, comment, status)
		VALUES (?, ?, ?, ?, ?)
	`
	res, err := r.db.ExecContext(ctx, query, c.MangaID, c.Episode, c.Commenter, c.Comment, c.Status)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

func (r *MySQLRepository) List(ctx context.Context, f Filter) ([]*models.Comment, error) {
	query := `SELECT comment_id, manga_id, episode, commenter, comment, status, created_date FROM comment_on_episode`

	var conds []string
	var args []any
	if f.MangaID != 0 {
		conds = append(conds, "manga_id = ?")
		args = append(args, f.MangaID)
	}
	if f.Episode != 0 {
		conds = append(conds, "episode = ?")
		args = append(args, f.Episode)
	}
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, f.Status)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_date DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Comment
	for rows.Next() {
		c := &models.Comment{}
		if err := rows.Scan(&c.CommentID, &c.MangaID, &c.Episode, &c.Commenter, &c.Comment, &c.Status, &c.CreatedDate); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *MySQLRepository) SetStatus(ctx context.Context, commentID int64, status string) error {
	query := `UPDATE comment_on_episode SET status = ? WHERE comment_id = ?`
	res, err := r.db.ExecContext(ctx, query, status, commentID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *MySQLRepository) Delete(ctx context.Context, commentID int64) error {
	query := `DELETE FROM comment_on_episode WHERE comment_id = ?`
	res, err := r.db.ExecContext(ctx, query, commentID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
