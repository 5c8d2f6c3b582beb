package llm

import (
	"context"
	"strings"
	"sync"

	"github.com/choiben-assist/ai-backend/internal/config"
	"go.uber.org/zap"
)

// Generator is the one-method contract handlers and the records orchestrator depend on.
type Generator interface {
	Generate(ctx context.Context, userText, systemText string) (string, error)
}

// BackendFactory builds a backend from configuration.
type BackendFactory func(ctx context.Context, cfg config.LLMConfig) (Backend, error)

// NewBackend builds the backend named by cfg.Provider.
func NewBackend(ctx context.Context, cfg config.LLMConfig) (Backend, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, newConfigurationError(msgMissingAPIKey, nil)
	}
	var (
		b   Backend
		err error
	)
	switch cfg.Provider {
	case "", "gemini":
		b, err = newGeminiBackend(ctx, cfg.APIKey, cfg.Model, DefaultPolicy)
	default:
		b, err = newJetifyBackend(cfg.Provider, cfg.APIKey, cfg.Model, cfg.Endpoint, DefaultPolicy)
	}
	if err != nil {
		return nil, newConfigurationError("failed to initialise "+cfg.Provider+" backend", err)
	}
	return b, nil
}

// Provider builds the Gateway on first use and keeps it for the process
// lifetime. A failed build is not cached, so the next call tries again.
type Provider struct {
	cfg     config.LLMConfig
	factory BackendFactory
	log     *zap.Logger

	mu      sync.Mutex
	gateway *Gateway
}

func NewProvider(cfg config.LLMConfig, log *zap.Logger) *Provider {
	return NewProviderWithFactory(cfg, NewBackend, log)
}

func NewProviderWithFactory(cfg config.LLMConfig, factory BackendFactory, log *zap.Logger) *Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &Provider{cfg: cfg, factory: factory, log: log}
}

// Gateway returns the shared gateway, building it if needed.
func (p *Provider) Gateway(ctx context.Context) (*Gateway, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gateway != nil {
		return p.gateway, nil
	}
	backend, err := p.factory(ctx, p.cfg)
	if err != nil {
		p.log.Error("llm backend unavailable", zap.String("provider", p.cfg.Provider), zap.Error(err))
		return nil, Classify(err)
	}
	p.gateway = NewGateway(backend, p.log)
	p.gateway.timeout = p.cfg.Timeout
	p.log.Info("llm backend ready", zap.String("provider", backend.Name()), zap.String("model", backend.Model()))
	return p.gateway, nil
}

func (p *Provider) Generate(ctx context.Context, userText, systemText string) (string, error) {
	gw, err := p.Gateway(ctx)
	if err != nil {
		return "", err
	}
	return gw.Generate(ctx, userText, systemText)
}

// Configured reports whether a credential is present, without building anything.
func (p *Provider) Configured() bool {
	return strings.TrimSpace(p.cfg.APIKey) != ""
}

// Name is the configured provider name.
func (p *Provider) Name() string {
	if p.cfg.Provider == "" {
		return "gemini"
	}
	return p.cfg.Provider
}
