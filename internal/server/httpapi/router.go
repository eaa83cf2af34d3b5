// Package httpapi is the REST surface of the platform: a gin engine with the
// recovery/request-id/CORS/rate-limit/metrics middleware chain, the session
// guards, and the route handlers. Handlers translate terminal sentinels into
// status codes; internal error text never reaches a response body.
package httpapi

import (
	"context"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polawatHuang/mangaara-backend/internal/logging"
	"github.com/polawatHuang/mangaara-backend/internal/server/config"
	"github.com/polawatHuang/mangaara-backend/internal/server/metrics"
	"github.com/polawatHuang/mangaara-backend/internal/server/models"
	"github.com/polawatHuang/mangaara-backend/internal/server/repositories/comments"
	"github.com/polawatHuang/mangaara-backend/internal/server/repositories/episodes"
	"github.com/polawatHuang/mangaara-backend/internal/server/repositories/manga"
	"github.com/polawatHuang/mangaara-backend/internal/server/repositories/users"
	"github.com/polawatHuang/mangaara-backend/internal/server/services"
	"github.com/polawatHuang/mangaara-backend/internal/server/status"
)

// UserService is the slice of services.UserService the handlers use.
type UserService interface {
	Register(ctx context.Context, email, password string, displayName *string) (*models.UserView, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	Logout(ctx context.Context, token string) error
	Verify(ctx context.Context, token string) (*models.UserView, error)
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error
	Get(ctx context.Context, userID int64) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, userID int64, upd *users.UserUpdate) error
	Delete(ctx context.Context, userID int64) error
	CleanupSessions(ctx context.Context) (int64, error)
}

// CatalogService is the slice of services.CatalogService the handlers use.
type CatalogService interface {
	CreateManga(ctx context.Context, m *models.Manga) (int64, error)
	GetManga(ctx context.Context, mangaID int64) (*services.MangaDetail, error)
	ListManga(ctx context.Context) ([]*models.Manga, error)
	UpdateManga(ctx context.Context, mangaID int64, upd *manga.MangaUpdate) error
	DeleteManga(ctx context.Context, mangaID int64) error
	CreateTag(ctx context.Context, name string) (int64, error)
	ListTags(ctx context.Context) ([]*models.Tag, error)
	RenameTag(ctx context.Context, tagID int64, name string) error
	DeleteTag(ctx context.Context, tagID int64) error
	AddFavorite(ctx context.Context, userID, mangaID int64) error
	ListFavorites(ctx context.Context, userID int64) ([]*models.FavoriteManga, error)
	RemoveFavorite(ctx context.Context, userID, mangaID int64) error
	CreateComment(ctx context.Context, c *models.Comment) (int64, error)
	ListComments(ctx context.Context, f comments.Filter) ([]*models.Comment, error)
	SetCommentStatus(ctx context.Context, commentID int64, status string) error
	DeleteComment(ctx context.Context, commentID int64) error
}

// EpisodeService is the slice of services.EpisodeService the handlers use.
type EpisodeService interface {
	CreateEpisode(ctx context.Context, e *models.Episode) (int64, error)
	GetEpisode(ctx context.Context, episodeID int64) (*models.Episode, error)
	GetEpisodeByNumber(ctx context.Context, mangaID int64, episode int) (*models.Episode, error)
	ListEpisodes(ctx context.Context, mangaID int64) ([]*models.Episode, error)
	LatestEpisodes(ctx context.Context, limit int) ([]*models.LatestEpisode, error)
	UpdateEpisode(ctx context.Context, episodeID int64, upd *episodes.EpisodeUpdate) error
	DeleteEpisode(ctx context.Context, episodeID int64) error
	IncrementView(ctx context.Context, episodeID int64) error
	ReplacePages(ctx context.Context, mangaID int64, slug string, episode int, images []services.PageImage) (int, error)
	ListPages(ctx context.Context, mangaID int64, episode int) ([]*models.EpisodePage, error)
	ListPagesBySlug(ctx context.Context, slug string, episode int) ([]*models.EpisodePage, error)
	DeletePages(ctx context.Context, mangaID int64, episode int) error
}

// Recorder is the slice of metrics.Recorder the middleware and admin
// endpoints use.
type Recorder interface {
	RecordRequest(method, path string, status int, d time.Duration)
	RecordError(method, path string, status int, message string)
	Reset()
}

// Reporter is the slice of status.Reporter the status endpoints use.
type Reporter interface {
	Report(ctx context.Context, detailed bool) *status.Report
	CheckDatabase(ctx context.Context) status.Check
	CheckStorage() status.Check
}

// Router owns the gin engine and its dependencies.
type Router struct {
	cfg      *config.Config
	logg     logging.Logger
	users    UserService
	catalog  CatalogService
	episodes EpisodeService
	rec      Recorder
	reporter Reporter
	limiter  *rateLimiter

	engine *gin.Engine
}

// New builds the router with the full middleware chain and route table.
func New(cfg *config.Config, logg logging.Logger, us UserService, cs CatalogService, es EpisodeService, rec Recorder, rep Reporter) *Router {
	rt := &Router{
		cfg:      cfg,
		logg:     logg,
		users:    us,
		catalog:  cs,
		episodes: es,
		rec:      rec,
		reporter: rep,
		limiter:  newRateLimiter(),
	}
	rt.engine = rt.buildEngine()
	return rt
}

// Engine returns the configured gin engine.
func (rt *Router) Engine() *gin.Engine { return rt.engine }

// RouteTable lists the registered routes as "METHOD /path", sorted. The
// status reporter serves this as the route inventory.
func (rt *Router) RouteTable() []string {
	routes := rt.engine.Routes()
	out := make([]string, 0, len(routes))
	for _, r := range routes {
		out = append(out, r.Method+" "+r.Path)
	}
	sort.Strings(out)
	return out
}

func (rt *Router) buildEngine() *gin.Engine {
	if rt.cfg.Environment == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	} else if rt.cfg.Environment == config.EnvTest {
		gin.SetMode(gin.TestMode)
	}

	e := gin.New()
	e.Use(rt.recovery(), rt.requestID(), rt.corsMiddleware(), rt.rateLimit(), rt.metricsMiddleware())

	api := e.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", rt.handleRegister)
	authGroup.POST("/login", rt.handleLogin)
	authGroup.POST("/logout", rt.handleLogout)
	authGroup.POST("/verify", rt.handleVerify)

	api.GET("/status", rt.handleStatus)
	api.GET("/status/database", rt.requireAdmin(), rt.handleStatusDatabase)
	api.GET("/status/storage", rt.requireAdmin(), rt.handleStatusStorage)

	usersGroup := api.Group("/users")
	usersGroup.GET("", rt.requireAdmin(), rt.handleListUsers)
	usersGroup.POST("/sessions/cleanup", rt.requireAdmin(), rt.handleCleanupSessions)
	usersGroup.GET("/:id", rt.requireAuth(), rt.requireSelfOrAdmin(), rt.handleGetUser)
	usersGroup.PUT("/:id", rt.requireAuth(), rt.requireSelfOrAdmin(), rt.handleUpdateUser)
	usersGroup.DELETE("/:id", rt.requireAuth(), rt.requireSelfOrAdmin(), rt.handleDeleteUser)
	usersGroup.POST("/:id/change-password", rt.requireAuth(), rt.requireSelfOrAdmin(), rt.handleChangePassword)

	api.POST("/metrics/reset", rt.requireAdmin(), rt.handleMetricsReset)

	mangaGroup := api.Group("/manga")
	mangaGroup.GET("", rt.handleListManga)
	mangaGroup.GET("/:id", rt.handleGetManga)
	mangaGroup.POST("", rt.requireAdmin(), rt.handleCreateManga)
	mangaGroup.PUT("/:id", rt.requireAdmin(), rt.handleUpdateManga)
	mangaGroup.DELETE("/:id", rt.requireAdmin(), rt.handleDeleteManga)

	epGroup := api.Group("/episodes")
	epGroup.GET("/latest/all", rt.handleLatestEpisodes)
	epGroup.GET("/manga/:manga_id", rt.handleListEpisodes)
	epGroup.GET("/manga/:manga_id/episode/:episode", rt.handleGetEpisodeByNumber)
	epGroup.GET("/pages/manga/:manga_id/episode/:episode", rt.handleListEpisodePages)
	epGroup.GET("/pages/slug/:manga_slug/episode/:episode", rt.handleListEpisodePagesBySlug)
	epGroup.POST("/pages/upload", rt.requireAdmin(), rt.handleUploadEpisodePages)
	epGroup.DELETE("/pages/manga/:manga_id/episode/:episode", rt.requireAdmin(), rt.handleDeleteEpisodePages)
	epGroup.POST("", rt.requireAdmin(), rt.handleCreateEpisode)
	epGroup.GET("/:id", rt.handleGetEpisode)
	epGroup.PUT("/:id", rt.requireAdmin(), rt.handleUpdateEpisode)
	epGroup.DELETE("/:id", rt.requireAdmin(), rt.handleDeleteEpisode)
	epGroup.POST("/:id/view", rt.handleEpisodeView)

	tagsGroup := api.Group("/tags")
	tagsGroup.GET("", rt.handleListTags)
	tagsGroup.POST("", rt.requireAdmin(), rt.handleCreateTag)
	tagsGroup.PUT("/:id", rt.requireAdmin(), rt.handleRenameTag)
	tagsGroup.DELETE("/:id", rt.requireAdmin(), rt.handleDeleteTag)

	favGroup := api.Group("/favorites", rt.requireAuth())
	favGroup.GET("", rt.handleListFavorites)
	favGroup.POST("", rt.handleAddFavorite)
	favGroup.DELETE("/:manga_id", rt.handleRemoveFavorite)

	commentsGroup := api.Group("/comments")
	commentsGroup.GET("", rt.handleListComments)
	commentsGroup.GET("/moderation", rt.requireAdmin(), rt.handleModerationQueue)
	commentsGroup.POST("", rt.requireAuth(), rt.handleCreateComment)
	commentsGroup.PATCH("/:id/status", rt.requireAdmin(), rt.handleSetCommentStatus)
	commentsGroup.DELETE("/:id", rt.requireAdmin(), rt.handleDeleteComment)

	api.POST("/upload", rt.requireAdmin(), rt.handleUpload)

	return e
}

var _ Recorder = (*metrics.Recorder)(nil)
