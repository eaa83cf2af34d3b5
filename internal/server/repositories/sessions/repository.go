package sessions

import (
	"context"
	"time"

	"github.com/polawatHuang/mangaara-backend/internal/server/models"
)

// Repository abstracts session persistence. Tokens are opaque lookup keys;
// uniqueness is enforced by the schema.
type Repository interface {
	Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	Resolve(ctx context.Context, token string) (*models.SessionView, error)
	Delete(ctx context.Context, token string) error
	DeleteAllForUser(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context) (int64, error)
}
