// Package health serves the unauthenticated liveness endpoints.
package health

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	ServiceName = "ChoibenAssist AI Backend"
	Version     = "1.0.0"

	StatusConfigured    = "configured"
	StatusNotConfigured = "not_configured"
	StatusConnected     = "connected"
	StatusUnreachable   = "unreachable"
)

// Probe reports the state of one dependency. It must not block longer than ctx allows.
type Probe func(ctx context.Context) string

// Configured returns a probe that only reports whether a setting is present.
func Configured(ok bool) Probe {
	return func(context.Context) string {
		if ok {
			return StatusConfigured
		}
		return StatusNotConfigured
	}
}

// Pinger is satisfied by clients with a cheap round-trip check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping returns a probe that round-trips p.
func Ping(p Pinger) Probe {
	return func(ctx context.Context) string {
		if err := p.Ping(ctx); err != nil {
			return StatusUnreachable
		}
		return StatusConnected
	}
}

type Handler struct {
	env    string
	probes map[string]Probe
	now    func() time.Time
}

func NewHandler(env string, probes map[string]Probe) *Handler {
	return &Handler{env: env, probes: probes, now: time.Now}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.root)
	r.GET("/api/health", h.basic)
	r.GET("/api/health/detailed", h.detailed)
}

func (h *Handler) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": ServiceName,
		"version": Version,
		"status":  "running",
	})
}

func (h *Handler) basic(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"service":     ServiceName,
		"environment": h.env,
		"timestamp":   h.now().Unix(),
	})
}

func (h *Handler) detailed(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.probes))
	for name := range h.probes {
		names = append(names, name)
	}
	sort.Strings(names)

	deps := make(map[string]string, len(names))
	status := "healthy"
	for _, name := range names {
		s := h.probes[name](ctx)
		deps[name] = s
		if s == StatusUnreachable {
			status = "degraded"
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":       status,
		"service":      ServiceName,
		"environment":  h.env,
		"timestamp":    h.now().Unix(),
		"dependencies": deps,
	})
}
