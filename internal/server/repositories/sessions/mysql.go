// Package sessions provides a MariaDB-backed repository for login sessions,
// the persistent mapping from opaque tokens to users.
package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/polawatHuang/mangaara-backend/internal/common"
	"github.com/polawatHuang/mangaara-backend/internal/dbx"
	"github.com/polawatHuang/mangaara-backend/internal/server/models"
)

// MySQLRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type MySQLRepository struct {
	db dbx.DBTX
}

// NewMySQLRepository constructs a repository bound to the given DBTX.
func NewMySQLRepository(db dbx.DBTX) *MySQLRepository {
	return &MySQLRepository{db: db}
}

// Create inserts a new session row for userID.
func (r *MySQLRepository) Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	query := `
		INSERT INTO sessions (user_id, token, expires_at)
		VALUES (?, ?, ?)
	`
	if _, err := r.db.ExecContext(ctx, query, userID, token, expiresAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Resolve joins the session to its owning user.
// If no row matches, it returns common.ErrorNotFound.
func (r *MySQLRepository) Resolve(ctx context.Context, token string) (*models.SessionView, error) {
	query := `
		SELECT s.session_id, s.expires_at, u.user_id, u.email, u.display_name, u.role, u.is_active
		FROM sessions s
		JOIN users u ON s.user_id = u.user_id
		WHERE s.token = ?
	`
	view := &models.SessionView{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&view.SessionID, &view.ExpiresAt, &view.UserID,
		&view.Email, &view.DisplayName, &view.Role, &view.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return view, nil
}

// Delete removes a session by its token. Deleting an absent token is not an
// error at this layer.
func (r *MySQLRepository) Delete(ctx context.Context, token string) error {
	query := `DELETE FROM sessions WHERE token = ?`
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// DeleteAllForUser removes every session owned by userID.
func (r *MySQLRepository) DeleteAllForUser(ctx context.Context, userID int64) error {
	query := `DELETE FROM sessions WHERE user_id = ?`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// DeleteExpired removes all sessions past their expiry and reports how many
// rows were deleted.
func (r *MySQLRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM sessions WHERE expires_at < NOW()`
	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
