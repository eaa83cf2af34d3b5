package repomanager

import (
	"context"
	"database/sql"

	"github.com/polawatHuang/mangaara-backend/internal/dbx"
	"github.com/polawatHuang/mangaara-backend/internal/server/repositories/comments"
	"github.com/polawatHuang/mangaara-backend/internal/server/repositories/episodes"
	"github.com/polawatHuang/mangaara-backend/internal/server/repositories/favorites"
	"github.com/polawatHuang/mangaara-backend/internal/server/repositories/manga"
	"github.com/polawatHuang/mangaara-backend/internal/server/repositories/sessions"
	"github.com/polawatHuang/mangaara-backend/internal/server/repositories/tags"
	"github.com/polawatHuang/mangaara-backend/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a DBTX and
// exposes a schema migration hook.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Manga(db dbx.DBTX) manga.Repository
	Episodes(db dbx.DBTX) episodes.Repository
	Tags(db dbx.DBTX) tags.Repository
	Comments(db dbx.DBTX) comments.Repository
	Favorites(db dbx.DBTX) favorites.Repository
}
