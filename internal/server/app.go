// Package server initializes and runs the document management server.
// It opens the database, runs migrations, selects the payload storage
// backend, seeds default accounts, and serves the HTTP API until a
// termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/ShrinivasInamdar/Hackathon-2025/internal/logging"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/blob"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/config"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/extract"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/httpapi"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/repositories/repomanager"
	"github.com/ShrinivasInamdar/Hackathon-2025/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
	users  *services.UserService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	blobs, err := newBlobStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	us := services.NewUserService(db, rm, cfg, logger)
	ds := services.NewDocumentService(db, rm, blobs, extract.NewTypeExtractor(), logger)
	ws := services.NewWorkflowService(db, rm, logger)
	as := services.NewAuditService(db, rm)

	srv := httpapi.NewServer(cfg, logger, us, ds, ws, as)

	return &App{config: cfg, logger: logger, db: db, server: srv, users: us}, nil
}

func newBlobStore(ctx context.Context, cfg *config.Config) (blob.Store, error) {
	switch cfg.StorageBackend {
	case config.StorageS3:
		return blob.NewS3Store(ctx, blob.S3Options{
			Region:       cfg.S3Region,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			Bucket:       cfg.S3Bucket,
			BaseEndpoint: cfg.S3BaseEndpoint,
		})
	case config.StorageLocal:
		return blob.NewLocalStore(cfg.UploadDir)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.StorageBackend)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	if err := app.users.Bootstrap(ctx); err != nil {
		app.logger.Error(ctx, "bootstrap error", "error", err.Error())
		return
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
