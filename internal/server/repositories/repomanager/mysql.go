// Package repomanager provides a concrete RepositoryManager for MariaDB,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
	"github.com/pressly/goose/v3"

	"github.com/polawatHuang/mangaara-backend/internal/dbx"
	"github.com/polawatHuang/mangaara-backend/internal/server/migrations"
	"github.com/polawatHuang/mangaara-backend/internal/server/repositories/comments"
	"github.com/polawatHuang/mangaara-backend/internal/server/repositories/episodes"
	"github.com/polawatHuang/mangaara-backend/internal/server/repositories/favorites"
	"github.com/polawatHuang/mangaara-backend/internal/server/repositories/manga"
	"github.com/polawatHuang/mangaara-backend/internal/server/repositories/sessions"
	"github.com/polawatHuang/mangaara-backend/internal/server/repositories/tags"
	"github.com/polawatHuang/mangaara-backend/internal/server/repositories/users"
)

// MySQLRepositoryManager vends MariaDB-backed repository implementations.
type MySQLRepositoryManager struct{}

// NewMySQLRepositoryManager constructs a MariaDB-backed RepositoryManager.
func NewMySQLRepositoryManager() RepositoryManager {
	return &MySQLRepositoryManager{}
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *MySQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewMySQLRepository(db)
}

// Sessions returns a sessions.Repository bound to the provided DBTX.
func (m *MySQLRepositoryManager) Sessions(db dbx.DBTX) sessions.Repository {
	return sessions.NewMySQLRepository(db)
}

// Manga returns a manga.Repository bound to the provided DBTX.
func (m *MySQLRepositoryManager) Manga(db dbx.DBTX) manga.Repository {
	return manga.NewMySQLRepository(db)
}

// Episodes returns an episodes.Repository bound to the provided DBTX.
func (m *MySQLRepositoryManager) Episodes(db dbx.DBTX) episodes.Repository {
	return episodes.NewMySQLRepository(db)
}

// Tags returns a tags.Repository bound to the provided DBTX.
func (m *MySQLRepositoryManager) Tags(db dbx.DBTX) tags.Repository {
	return tags.NewMySQLRepository(db)
}

// Comments returns a comments.Repository bound to the provided DBTX.
func (m *MySQLRepositoryManager) Comments(db dbx.DBTX) comments.Repository {
	return comments.NewMySQLRepository(db)
}

// Favorites returns a favorites.Repository bound to the provided DBTX.
func (m *MySQLRepositoryManager) Favorites(db dbx.DBTX) favorites.Repository {
	return favorites.NewMySQLRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *MySQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("mysql"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}
