// Package server initializes and runs the platform backend: it opens the
// MariaDB pool, runs migrations, wires the services, metrics recorder and
// status reporter into the REST router, and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/polawatHuang/mangaara-backend/internal/logging"
	"github.com/polawatHuang/mangaara-backend/internal/server/config"
	"github.com/polawatHuang/mangaara-backend/internal/server/httpapi"
	"github.com/polawatHuang/mangaara-backend/internal/server/metrics"
	"github.com/polawatHuang/mangaara-backend/internal/server/repositories/repomanager"
	"github.com/polawatHuang/mangaara-backend/internal/server/services"
	"github.com/polawatHuang/mangaara-backend/internal/server/status"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	recorder *metrics.Recorder
	router   *httpapi.Router
}

// NewApp opens the database, runs migrations, and wires every component.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout)

	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	db.SetMaxOpenConns(cfg.DBConnectionLimit)
	db.SetMaxIdleConns(cfg.DBConnectionLimit)
	db.SetConnMaxLifetime(5 * time.Minute)

	rm := repomanager.NewMySQLRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	recorder := metrics.NewRecorder()
	userSvc := services.NewUserService(db, rm, cfg, recorder)
	catalogSvc := services.NewCatalogService(db, rm, recorder)
	episodeSvc := services.NewEpisodeService(db, rm, recorder)

	// reporter and router reference each other: the reporter serves the
	// router's table, so wire it through a late-bound closure.
	var router *httpapi.Router
	reporter := status.NewReporter(db, cfg, recorder, func() []string {
		if router == nil {
			return nil
		}
		return router.RouteTable()
	})
	router = httpapi.New(cfg, logger, userSvc, catalogSvc, episodeSvc, recorder, reporter)

	return &App{
		config:   cfg,
		logger:   logger,
		db:       db,
		recorder: recorder,
		router:   router,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves HTTP until the context is cancelled or a termination signal
// arrives, then drains in-flight requests and closes the pool.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", app.config.Port),
		Handler: app.router.Engine(),
	}

	errCh := make(chan error, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.logger.Info(ctx, "starting server",
			"port", app.config.Port,
			"env", app.config.Environment,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			cancelFunc()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "shutdown error", "error", err.Error())
	}
	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "db close error", "error", err.Error())
	}

	select {
	case err := <-errCh:
		return err
	default:
	}
	app.logger.Info(context.Background(), "server stopped")
	return nil
}
