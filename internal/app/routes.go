package app

import (
	"net/http"
	"sort"

	"github.com/choiben-assist/ai-backend/internal/middleware"
	"github.com/choiben-assist/ai-backend/internal/modules/health"
	"github.com/choiben-assist/ai-backend/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

const apiPrefix = "/api/v1/ai"

type routeInfo struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

func (a *App) registerRoutes() {
	r := a.router

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	health.NewHandler(a.cfg.Env, a.probes()).RegisterRoutes(r)

	// Rate limiting runs before auth so failed logins count too.
	ai := r.Group(apiPrefix, middleware.RateLimit(a.limiter, a.logger), middleware.Auth(a.cfg.APISecretKey))
	a.assistHandler().RegisterRoutes(ai)

	if a.cfg.Debug {
		r.GET("/docs", func(c *gin.Context) {
			routes := r.Routes()
			out := make([]routeInfo, 0, len(routes))
			for _, rt := range routes {
				out = append(out, routeInfo{Method: rt.Method, Path: rt.Path})
			}
			sort.Slice(out, func(i, j int) bool {
				if out[i].Path != out[j].Path {
					return out[i].Path < out[j].Path
				}
				return out[i].Method < out[j].Method
			})
			c.JSON(http.StatusOK, gin.H{"routes": out})
		})
	}
}
