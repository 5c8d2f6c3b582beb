package app

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/choiben-assist/ai-backend/internal/config"
	"github.com/choiben-assist/ai-backend/internal/middleware"
	"github.com/choiben-assist/ai-backend/internal/modules/assist"
	"github.com/choiben-assist/ai-backend/internal/modules/datastore"
	"github.com/choiben-assist/ai-backend/internal/modules/health"
	"github.com/choiben-assist/ai-backend/internal/modules/llm"
	"github.com/choiben-assist/ai-backend/internal/modules/notes"
	"github.com/choiben-assist/ai-backend/internal/modules/records"
	pkgredis "github.com/choiben-assist/ai-backend/internal/pkg/redis"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// App holds all application dependencies.
type App struct {
	cfg      *config.AppConfig
	router   *gin.Engine
	logger   *zap.Logger
	redis    *pkgredis.Client
	limiter  middleware.Limiter
	provider *llm.Provider
	notes    *notes.Client
	store    *datastore.Client
}

// New wires clients, services and routes. Nothing here dials out except the
// optional Redis connection.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	a := &App{cfg: cfg, logger: logger}

	if cfg.RedisURL != "" {
		rc, err := pkgredis.Connect(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		a.redis = rc
		a.limiter = middleware.NewRedisLimiter(rc, cfg.RateLimitPerMinute)
	} else {
		a.limiter = middleware.NewMemoryLimiter(cfg.RateLimitPerMinute)
	}

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	// Rate limiting keys on ClientIP, so forwarded headers count only from listed proxies.
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		if a.redis != nil {
			_ = a.redis.Close()
		}
		return nil, fmt.Errorf("trusted_proxies: %w", err)
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))
	a.router = router

	a.provider = llm.NewProvider(cfg.LLM, logger)
	a.notes = notes.New(cfg.Notes, logger)
	a.store = datastore.New(cfg.DataStore, logger)

	if !a.provider.Configured() {
		logger.Warn("llm api key is empty, generation endpoints will fail", zap.String("provider", a.provider.Name()))
	}
	if cfg.APISecretKey == "" {
		logger.Warn("api_secret_key is empty, every authenticated request will be rejected")
	}

	a.registerRoutes()
	return a, nil
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{"Content-Length", "Retry-After", middleware.HeaderRequestID},
	}
	for _, o := range origins {
		if strings.TrimSpace(o) == "*" {
			c.AllowOriginFunc = func(string) bool { return true }
			return c
		}
	}
	c.AllowCredentials = true
	c.AllowOriginFunc = func(origin string) bool {
		host := extractOriginHost(origin)
		for _, pattern := range origins {
			if matchOriginPattern(extractOriginHost(pattern), host) {
				return true
			}
		}
		return false
	}
	return c
}

func (a *App) assistHandler() *assist.Handler {
	orch := records.NewOrchestrator(a.notes, a.provider, a.store, a.cfg.Notes, a.logger)
	svc := assist.NewService(a.provider, orch, a.store, a.logger)
	return assist.NewHandler(svc, a.provider, a.logger)
}

func (a *App) probes() map[string]health.Probe {
	p := map[string]health.Probe{
		"gemini_api": health.Configured(a.provider.Configured()),
		"supabase":   health.Configured(a.store.Configured()),
		"scrapbox":   health.Configured(a.cfg.Notes.BaseURL != ""),
	}
	if a.redis != nil {
		p["redis"] = health.Ping(a.redis)
	}
	return p
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown releases the Redis connection, if any.
func (a *App) Shutdown() error {
	if a.redis == nil {
		return nil
	}
	return a.redis.Close()
}
