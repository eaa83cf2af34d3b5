package favorites

import (
	"context"

	"github.com/polawatHuang/mangaara-backend/internal/server/models"
)

// Repository abstracts the user → manga favorites relation.
type Repository interface {
	Add(ctx context.Context, userID, mangaID int64) error
	ListForUser(ctx context.Context, userID int64) ([]*models.FavoriteManga, error)
	Remove(ctx context.Context, userID, mangaID int64) error
	CountForManga(ctx context.Context, mangaID int64) (int64, error)
}
