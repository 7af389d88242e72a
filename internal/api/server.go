// Package api exposes the schedule services over HTTP with gin.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexanderramin/sitebook/internal/metrics"
	"github.com/alexanderramin/sitebook/internal/service"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Deps are the collaborators the HTTP layer dispatches to.
type Deps struct {
	Projects service.ProjectService
	Tasks    service.TaskService
	Imports  service.ImportService
	Daily    service.DailyWorkService
	Monthly  service.MonthlyPlanService

	// Live serves the /ws upgrade; nil disables the route.
	Live    http.HandlerFunc
	Metrics *metrics.Metrics
	Logger  *slog.Logger

	// RequireRoles enables the X-User-Role admin guard. When false every
	// caller is treated as admin.
	RequireRoles bool
}

// Server owns the gin router.
type Server struct {
	router *gin.Engine
	logger *slog.Logger
}

// NewServer builds the router and registers every route.
func NewServer(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	registerValidators()

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestID(),
		otelgin.Middleware("sitebook"),
		accessLog(deps.Logger),
		roles(deps.RequireRoles),
	)
	if deps.Metrics != nil {
		router.Use(observeHTTP(deps.Metrics))
	}

	h := &handler{deps: deps}
	setupRoutes(router, h)

	return &Server{router: router, logger: deps.Logger}
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then drains
// in-flight requests for at most shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type handler struct {
	deps Deps
}
