package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/alexanderramin/sitebook/internal/contract"
	"github.com/alexanderramin/sitebook/internal/domain"
	"github.com/alexanderramin/sitebook/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

const (
	// RoleHeader carries the caller's role from the upstream auth gateway.
	RoleHeader      = "X-User-Role"
	requestIDHeader = "X-Request-ID"

	adminKey     = "sitebook_is_admin"
	requestIDKey = "sitebook_request_id"
)

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func accessLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetString(requestIDKey),
		}
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			attrs = append(attrs, "trace_id", sc.TraceID().String())
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.String())
		}
		switch {
		case status >= http.StatusInternalServerError:
			logger.ErrorContext(c.Request.Context(), "http_request", attrs...)
		case status >= http.StatusBadRequest:
			logger.WarnContext(c.Request.Context(), "http_request", attrs...)
		default:
			logger.InfoContext(c.Request.Context(), "http_request", attrs...)
		}
	}
}

func observeHTTP(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// roles resolves whether the caller is an admin. Authentication happens
// upstream; only the forwarded role is trusted here.
func roles(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(adminKey, !required || domain.Role(c.GetHeader(RoleHeader)).IsAdmin())
		c.Next()
	}
}

func isAdmin(c *gin.Context) bool {
	return c.GetBool(adminKey)
}

func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isAdmin(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, contract.ErrorResponse{
				Error: "admin role required",
				Code:  contract.CodeForbidden,
			})
			return
		}
		c.Next()
	}
}

// projectAccess hides archived projects, and everything under them, from
// non-admin callers.
func (h *handler) projectAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := h.deps.Projects.GetByID(c.Request.Context(), c.Param("projectID"))
		if err != nil {
			h.fail(c, err)
			c.Abort()
			return
		}
		if p.IsArchived() && !isAdmin(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, contract.ErrorResponse{
				Error: "project is archived",
				Code:  contract.CodeForbidden,
			})
			return
		}
		c.Set(projectKey, p)
		c.Next()
	}
}
