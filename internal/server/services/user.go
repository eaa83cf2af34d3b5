// Package services contains server-side business logic. This file implements
// UserService: registration, session-token login/logout/verification, and
// account management.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/polawatHuang/mangaara-backend/internal/common"
	"github.com/polawatHuang/mangaara-backend/internal/dbx"
	"github.com/polawatHuang/mangaara-backend/internal/server/auth"
	"github.com/polawatHuang/mangaara-backend/internal/server/config"
	"github.com/polawatHuang/mangaara-backend/internal/server/models"
	"github.com/polawatHuang/mangaara-backend/internal/server/repositories/repomanager"
	"github.com/polawatHuang/mangaara-backend/internal/server/repositories/users"
)

const minPasswordLength = 6

// LoginResult bundles the opaque session token with the sanitized user it
// belongs to.
type LoginResult struct {
	Token string
	User  *models.UserView
}

// UserService provides authentication and account operations:
// - Register: create accounts
// - Login: verify credentials and open a session
// - Verify: resolve a token to its user, expiring lazily
// - ChangePassword: rotate the hash and revoke every session
type UserService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	obs             dbx.QueryObserver
	sessionValidity time.Duration
}

// NewUserService constructs a UserService using repositories and server
// config. obs may be nil; when set, every statement the service issues is
// timed through it.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, obs dbx.QueryObserver) *UserService {
	return &UserService{
		db:              db,
		repomanager:     m,
		obs:             obs,
		sessionValidity: cfg.SessionValidity,
	}
}

// Register creates a new account with the default reader role.
func (s *UserService) Register(ctx context.Context, email, password string, displayName *string) (*models.UserView, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", common.ErrorValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, minPasswordLength)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  displayName,
		Role:         models.RoleUser,
		IsActive:     true,
	}
	repo := s.repomanager.Users(dbx.Instrument(s.db, s.obs))
	created, err := repo.Create(ctx, user)
	if err != nil {
		return nil, sanitizeErr(err)
	}
	return created.View(), nil
}

// Login verifies the credentials and, on success, opens a 7-day session and
// stamps last_login. A wrong email and a wrong password are indistinguishable
// to the caller; a deactivated account is reported as such only after the
// password checked out.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	repo := s.repomanager.Users(dbx.Instrument(s.db, s.obs))
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}
	if !user.IsActive {
		return nil, common.ErrAccountDeactivated
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	expiresAt := time.Now().Add(s.sessionValidity)

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		itx := dbx.Instrument(tx, s.obs)
		if err := s.repomanager.Sessions(itx).Create(ctx, user.UserID, token, expiresAt); err != nil {
			return fmt.Errorf("error creating session: %v", err)
		}
		if err := s.repomanager.Users(itx).UpdateLastLogin(ctx, user.UserID); err != nil {
			return fmt.Errorf("error stamping last login: %v", err)
		}
		return nil
	}); err != nil {
		return nil, common.ErrorInternal
	}

	return &LoginResult{Token: token, User: user.View()}, nil
}

// Logout revokes the session holding the given token. Unknown tokens are not
// an error; logout is idempotent.
func (s *UserService) Logout(ctx context.Context, token string) error {
	repo := s.repomanager.Sessions(dbx.Instrument(s.db, s.obs))
	if err := repo.Delete(ctx, token); err != nil {
		return common.ErrorInternal
	}
	return nil
}

// Verify resolves a session token to its user. Expired sessions are deleted
// on this path (lazy expiry) and reported as ErrTokenExpired. A deactivated
// owner yields ErrAccountDeactivated but the session row is kept, so
// reactivating the account restores access without a new login.
func (s *UserService) Verify(ctx context.Context, token string) (*models.UserView, error) {
	repo := s.repomanager.Sessions(dbx.Instrument(s.db, s.obs))
	view, err := repo.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if !view.ExpiresAt.After(time.Now()) {
		_ = repo.Delete(ctx, token)
		return nil, common.ErrTokenExpired
	}
	if !view.IsActive {
		return nil, common.ErrAccountDeactivated
	}
	return view.UserView(), nil
}

// ChangePassword verifies the old password, stores the new hash, and revokes
// every session of the user in the same transaction.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, minPasswordLength)
	}

	repo := s.repomanager.Users(dbx.Instrument(s.db, s.obs))
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return sanitizeErr(err)
	}
	if !auth.CheckPassword(oldPassword, user.PasswordHash) {
		return common.ErrInvalidOldPassword
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return common.ErrorInternal
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		itx := dbx.Instrument(tx, s.obs)
		if err := s.repomanager.Users(itx).UpdatePassword(ctx, userID, hash); err != nil {
			return fmt.Errorf("error updating password: %v", err)
		}
		if err := s.repomanager.Sessions(itx).DeleteAllForUser(ctx, userID); err != nil {
			return fmt.Errorf("error revoking sessions: %v", err)
		}
		return nil
	}); err != nil {
		return common.ErrorInternal
	}
	return nil
}

// Get returns one account by id.
func (s *UserService) Get(ctx context.Context, userID int64) (*models.User, error) {
	repo := s.repomanager.Users(dbx.Instrument(s.db, s.obs))
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return nil, sanitizeErr(err)
	}
	return user, nil
}

// List returns every account, newest first.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	repo := s.repomanager.Users(dbx.Instrument(s.db, s.obs))
	list, err := repo.List(ctx)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return list, nil
}

// Update applies a partial account update. Deactivating an account does not
// touch its sessions; Verify refuses them while is_active is false.
func (s *UserService) Update(ctx context.Context, userID int64, upd *users.UserUpdate) error {
	repo := s.repomanager.Users(dbx.Instrument(s.db, s.obs))
	return sanitizeErr(repo.Update(ctx, userID, upd))
}

// Delete removes the account; sessions go with it via the FK cascade.
func (s *UserService) Delete(ctx context.Context, userID int64) error {
	repo := s.repomanager.Users(dbx.Instrument(s.db, s.obs))
	return sanitizeErr(repo.Delete(ctx, userID))
}

// CleanupSessions purges every expired session and returns how many rows
// were removed. Expiry is otherwise lazy, so this is the only bulk reaper.
func (s *UserService) CleanupSessions(ctx context.Context) (int64, error) {
	repo := s.repomanager.Sessions(dbx.Instrument(s.db, s.obs))
	n, err := repo.DeleteExpired(ctx)
	if err != nil {
		return 0, common.ErrorInternal
	}
	return n, nil
}
