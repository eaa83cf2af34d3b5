// Package users provides a MariaDB-backed repository for user identity rows.
package users

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

// mysqlDuplicateEntry is the server error code for unique-key violations.
const mysqlDuplicateEntry = 1062

// MySQLRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type MySQLRepository struct {
	db dbx.DBTX
}

// NewMySQLRepository constructs a repository bound to the given DBTX.
func NewMySQLRepository(db dbx.DBTX) *MySQLRepository {
	return &MySQLRepository{db: db}
}

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// Create inserts a new user. A duplicate email yields common.ErrorConflict.
func (r *MySQLRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (email, password_hash, display_name, role, is_active)
		VALUES (?, ?, ?, ?, ?)
	`
	res, err := r.db.ExecContext(ctx, query,
		user.Email, user.PasswordHash, user.DisplayName, user.Role, user.IsActive)
	if err != nil {
		if isDuplicate(err) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	user.UserID = id
	return user, nil
}

const userColumns = `user_id, email, password_hash, display_name, role, is_active, last_login, created_at`

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.UserID, &user.Email, &user.PasswordHash,
		&user.DisplayName, &user.Role, &user.IsActive, &user.LastLogin, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

// GetByEmail returns the user with the given email or common.ErrorNotFound.
func (r *MySQLRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

// GetByID returns the user with the given id or common.ErrorNotFound.
func (r *MySQLRepository) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = ?`
	return scanUser(r.db.QueryRowContext(ctx, query, userID))
}

// List returns all users, newest first.
func (r *MySQLRepository) List(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.UserID, &user.Email, &user.PasswordHash,
			&user.DisplayName, &user.Role, &user.IsActive, &user.LastLogin, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// Update applies the non-nil fields of upd. With no fields set it returns
// common.ErrorValidation; an unknown id yields common.ErrorNotFound.
func (r *MySQLRepository) Update(ctx context.Context, userID int64, upd *UserUpdate) error {
	var fields []string
	var args []any

	if upd.Email != nil {
		fields = append(fields, "email = ?")
		args = append(args, *upd.Email)
	}
	if upd.DisplayName != nil {
		fields = append(fields, "display_name = ?")
		args = append(args, *upd.DisplayName)
	}
	if upd.Role != nil {
		fields = append(fields, "role = ?")
		args = append(args, *upd.Role)
	}
	if upd.IsActive != nil {
		fields = append(fields, "is_active = ?")
		args = append(args, *upd.IsActive)
	}

	if len(fields) == 0 {
		return common.ErrorValidation
	}

	args = append(args, userID)
	query := `UPDATE users SET ` + strings.Join(fields, ", ") + ` WHERE user_id = ?`

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isDuplicate(err) {
			return common.ErrorConflict
		}
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// UpdatePassword replaces the stored password hash.
func (r *MySQLRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	query := `UPDATE users SET password_hash = ? WHERE user_id = ?`
	if _, err := r.db.ExecContext(ctx, query, passwordHash, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// UpdateLastLogin stamps last_login with the current time.
func (r *MySQLRepository) UpdateLastLogin(ctx context.Context, userID int64) error {
	query := `UPDATE users SET last_login = NOW() WHERE user_id = ?`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Delete removes the user row. Sessions cascade at the schema level.
func (r *MySQLRepository) Delete(ctx context.Context, userID int64) error {
	query := `DELETE FROM users WHERE user_id = ?`
	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
