// Package app wires configuration, storage, services and transports into
// one runnable unit shared by the CLI and the HTTP server.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/sitebook/internal/api"
	"github.com/alexanderramin/sitebook/internal/config"
	"github.com/alexanderramin/sitebook/internal/db"
	"github.com/alexanderramin/sitebook/internal/live"
	"github.com/alexanderramin/sitebook/internal/metrics"
	"github.com/alexanderramin/sitebook/internal/repository"
	"github.com/alexanderramin/sitebook/internal/service"
	"github.com/alexanderramin/sitebook/internal/telemetry"
)

// Version is stamped at build time with -ldflags "-X ...app.Version=...".
var Version = "dev"

// App holds the wired services. Close releases everything New opened.
type App struct {
	Config  config.Config
	Logger  *slog.Logger
	DB      *sql.DB
	Hub     *live.Hub
	Metrics *metrics.Metrics

	Projects service.ProjectService
	Tasks    service.TaskService
	Imports  service.ImportService
	Daily    service.DailyWorkService
	Monthly  service.MonthlyPlanService

	shutdownTracing telemetry.Shutdown
}

// New opens the database and builds every service. Committed changes are
// broadcast through the live hub.
func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	shutdownTracing, err := telemetry.Init(cfg.Tracing, Version, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		_ = shutdownTracing(context.Background())
		return nil, fmt.Errorf("opening database: %w", err)
	}

	a := &App{
		Config:          cfg,
		Logger:          logger,
		DB:              database,
		Hub:             live.NewHub(logger.With("component", "live")),
		Metrics:         metrics.New(),
		shutdownTracing: shutdownTracing,
	}
	a.Metrics.TrackLiveClients(a.Hub.ClientCount)
	a.wire(service.NewLogUseCaseObserver(logger), a.Metrics)
	return a, nil
}

func (a *App) wire(observers ...service.UseCaseObserver) {
	projects := repository.NewSQLiteProjectRepo(a.DB)
	tasks := repository.NewSQLiteTaskRepo(a.DB)
	daily := repository.NewSQLiteDailyWorkRepo(a.DB)
	monthly := repository.NewSQLiteMonthlyPlanRepo(a.DB)
	writer := db.NewProjectWriter(db.NewSQLiteUnitOfWork(a.DB), db.NewProjectLocks())

	a.Projects = service.NewProjectService(projects, a.Hub, observers...)
	a.Tasks = service.NewTaskService(tasks, writer, a.Hub, observers...)
	a.Imports = service.NewImportService(writer, a.Hub, observers...)
	a.Daily = service.NewDailyWorkService(daily, writer, a.Hub, observers...)
	a.Monthly = service.NewMonthlyPlanService(tasks, monthly, writer, a.Hub, observers...)
}

// Server builds the HTTP server over the wired services.
func (a *App) Server() *api.Server {
	return api.NewServer(api.Deps{
		Projects:     a.Projects,
		Tasks:        a.Tasks,
		Imports:      a.Imports,
		Daily:        a.Daily,
		Monthly:      a.Monthly,
		Live:         a.Hub.ServeWS,
		Metrics:      a.Metrics,
		Logger:       a.Logger.With("component", "http"),
		RequireRoles: a.Config.RequireRoles,
	})
}

// Serve runs the HTTP server until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	return a.Server().ListenAndServe(ctx, a.Config.Addr, a.Config.ShutdownTimeout)
}

// Close disconnects live clients, flushes traces and closes the database.
func (a *App) Close(ctx context.Context) error {
	a.Hub.Close()
	var errs []error
	if err := a.shutdownTracing(ctx); err != nil {
		errs = append(errs, fmt.Errorf("flushing traces: %w", err))
	}
	if err := a.DB.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing database: %w", err))
	}
	return errors.Join(errs...)
}
