// Package server wires the store, services and both listeners together and
// runs them until the process is asked to stop.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/secretsanta/internal/logging"
	"github.com/dmitrijs2005/secretsanta/internal/server/archive"
	"github.com/dmitrijs2005/secretsanta/internal/server/config"
	"github.com/dmitrijs2005/secretsanta/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/secretsanta/internal/server/rest"
	"github.com/dmitrijs2005/secretsanta/internal/server/rest/middleware"
	"github.com/dmitrijs2005/secretsanta/internal/server/services"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/secretsanta/internal/server/grpc"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config       *config.Config
	logger       logging.Logger
	store        repomanager.RepositoryManager
	redis        *redis.Client
	httpHandler  http.Handler
	adminService *services.AdminService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(c.LogFormat, os.Stdout)

	store, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := store.RunMigrations(ctx); err != nil {
		_ = store.Close(ctx)
		return nil, fmt.Errorf("db migrations error: %w", err)
	}

	var arch archive.Archiver = archive.Nop{}
	if c.ArchiveEnabled() {
		s3, err := archive.NewS3Archiver(ctx, archive.S3Config{
			Region:       c.S3Region,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
			Bucket:       c.S3Bucket,
			BaseEndpoint: c.S3BaseEndpoint,
		})
		if err != nil {
			_ = store.Close(ctx)
			return nil, fmt.Errorf("archive init error: %w", err)
		}
		arch = s3
	}

	var (
		rdb     *redis.Client
		limiter *middleware.RateLimiter
	)
	if c.RedisURL != "" {
		opt, err := redis.ParseURL(c.RedisURL)
		if err != nil {
			_ = store.Close(ctx)
			return nil, fmt.Errorf("redis url: %w", err)
		}
		rdb = redis.NewClient(opt)
		limiter = middleware.NewRateLimiter(middleware.NewRedisCounter(rdb), logger, c.RateLimitWhitelist)
	} else {
		logger.Warn(ctx, "REDIS_URL not set, rate limiting disabled")
	}

	admin := services.NewAdminService(store, arch, logger.With("module", "admin"))

	handler := rest.NewRouter(rest.Services{
		Users:       services.NewUserService(store, c),
		Assignments: services.NewAssignmentService(store),
		Messages:    services.NewMessageService(store),
		Admin:       admin,
		Store:       store,
	}, rest.Options{
		JWTSecret:          []byte(c.SecretKey),
		AdminToken:         c.AdminToken,
		CORSAllowedOrigins: c.CORSAllowedOrigins,
		RateLimiter:        limiter,
		Redis:              rdb,
		Logger:             logger.With("module", "http"),
	})

	if c.AdminToken == "" {
		logger.Warn(ctx, "ADMIN_TOKEN not set, admin API disabled")
	}

	return &App{
		config:       c,
		logger:       logger,
		store:        store,
		redis:        rdb,
		httpHandler:  handler,
		adminService: admin,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.adminService, app.config.AdminToken)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	srv := &http.Server{
		Addr:              app.config.EndpointAddrHTTP,
		Handler:           app.httpHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "HTTP shutdown", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", srv.Addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves REST and admin RPC until ctx is cancelled, a signal arrives or
// either listener fails, then releases the store.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close()
}

func (app *App) close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.store.Close(ctx); err != nil {
		app.logger.Error(ctx, "close store", "error", err)
	}
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error(ctx, "close redis", "error", err)
		}
	}
	app.logger.Info(ctx, "App stopped")
}
