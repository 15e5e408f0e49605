package server

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"FinCast/internal/domain/repository"
	"FinCast/pkg/config"
	xhttp "FinCast/pkg/http"
	applogger "FinCast/pkg/logger"
	"FinCast/pkg/trace"

	"github.com/redis/go-redis/v9"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	httpServer *xhttp.Server
	events     repository.EventPublisher
	tracer     *trace.Tracer
	rdb        *redis.Client
	logger     *applogger.Logger
}

// New creates a new App instance with all dependencies. rdb may be nil.
func New(
	cfg *config.Config,
	httpServer *xhttp.Server,
	events repository.EventPublisher,
	tracer *trace.Tracer,
	rdb *redis.Client,
	l *applogger.Logger,
) *App {
	if l == nil {
		l = applogger.NewNop()
	}
	return &App{
		cfg:        cfg,
		httpServer: httpServer,
		events:     events,
		tracer:     tracer,
		rdb:        rdb,
		logger:     l,
	}
}

// Run starts the HTTP server and blocks until ctx is done or the process is
// interrupted, then shuts everything down.
func (a *App) Run(ctx context.Context) error {
	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("fincast started",
		applogger.String("env", a.cfg.Environment),
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("tokens", strings.Join(repository.SupportedTokens(), ",")),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-sigCh:
		a.logger.Info("shutdown signal received")
	case <-ctx.Done():
	}
	return a.shutdown(context.Background())
}

// shutdown gracefully stops all services. Requests drain before the event
// pipeline closes so late events still reach the broker.
func (a *App) shutdown(ctx context.Context) error {
	a.logger.Info("shutting down...")

	var firstErr error
	if err := a.httpServer.Stop(ctx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
		firstErr = err
	}

	// the collector ships through the same producer the events use
	a.logger.RemoveCollector()
	if a.events != nil {
		if err := a.events.Close(); err != nil {
			a.logger.Warn("event publisher close error", applogger.Error(err))
		}
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			a.logger.Warn("tracer shutdown error", applogger.Error(err))
		}
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Warn("redis close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return firstErr
}
