// Package app assembles the store, providers, pipeline and scheduler from
// configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"

	"contentpilot/internal/api"
	"contentpilot/internal/content"
	"contentpilot/internal/credentials"
	"contentpilot/internal/notify"
	"contentpilot/internal/pipeline"
	"contentpilot/internal/scheduler"
	"contentpilot/internal/store"
	"contentpilot/internal/telemetry"
	"contentpilot/pkg/config"
)

type App struct {
	cfg       *config.Config
	store     *store.Store
	creds     credentials.Resolver
	generator *content.Generator
	pipeline  *pipeline.Pipeline
	scheduler *scheduler.Scheduler
	notifier  notify.Notifier
	telegram  *notify.Telegram
	mediaDir  string

	closers           []func() error
	shutdownTelemetry telemetry.Shutdown
}

func (a *App) Config() *config.Config            { return a.cfg }
func (a *App) Store() *store.Store               { return a.store }
func (a *App) Credentials() credentials.Resolver { return a.creds }
func (a *App) Pipeline() *pipeline.Pipeline      { return a.pipeline }
func (a *App) Scheduler() *scheduler.Scheduler   { return a.scheduler }
func (a *App) Notifier() notify.Notifier         { return a.notifier }

// Telegram is nil when no bot token is configured.
func (a *App) Telegram() *notify.Telegram { return a.telegram }

// Migrate brings the schema up to date and converts legacy single-medium plans.
func (a *App) Migrate(ctx context.Context) error {
	if err := a.store.AutoMigrate(); err != nil {
		return err
	}
	n, err := a.store.MigrateLegacyChannels(ctx)
	if err != nil {
		return fmt.Errorf("migrate legacy channels: %w", err)
	}
	if n > 0 {
		slog.Info("Migrated legacy content plans", "count", n)
	}
	return nil
}

func (a *App) Router() *gin.Engine {
	if a.cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	return api.NewRouter(api.Dependencies{
		Plans:     a.store,
		Keys:      a.store,
		Templates: a.store,
		Generator: a.generator,
		Processor: a.pipeline,
	}, api.Options{
		MediaDir:    a.mediaDir,
		Swagger:     a.cfg.Server.Swagger,
		Tracing:     a.cfg.Telemetry.OTLPEndpoint != "",
		ServiceName: a.cfg.Telemetry.ServiceName,
		MaxUploadMB: int(a.cfg.Server.MaxUploadMB),
	})
}

// Close releases clients and flushes telemetry.
func (a *App) Close(ctx context.Context) error {
	err := closeAll(a.closers)
	a.closers = nil
	if a.shutdownTelemetry != nil {
		err = errors.Join(err, a.shutdownTelemetry(ctx))
		a.shutdownTelemetry = nil
	}
	return err
}
