// Package tags provides a MariaDB-backed repository for catalog tags.
package tags

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

// Create inserts a tag. A duplicate name yields common.ErrorConflict.
func (r *MySQLRepository) Create(ctx context.Context, name string) (int64, error) {
	query := `INSERT INTO tags (tag_name) VALUES (?)`
	res, err := r.db.ExecContext(ctx, query, name)
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

func (r *MySQLRepository) List(ctx context.Context) ([]*models.Tag, error) {
	query := `SELECT tag_id, tag_name, created_at FROM tags ORDER BY tag_id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Tag
	for rows.Next() {
		tag := &models.Tag{}
		if err := rows.Scan(&tag.TagID, &tag.Name, &tag.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *MySQLRepository) Rename(ctx context.Context, tagID int64, name string) error {
	query := `UPDATE tags SET tag_name = ? WHERE tag_id = ?`
	res, err := r.db.ExecContext(ctx, query, name, tagID)
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

func (r *MySQLRepository) Delete(ctx context.Context, tagID int64) error {
	query := `DELETE FROM tags WHERE tag_id = ?`
	res, err := r.db.ExecContext(ctx, query, tagID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
