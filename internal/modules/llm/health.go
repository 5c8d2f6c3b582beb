package llm

import (
	"context"
	"errors"
)

const healthPrompt = "テスト"

type HealthStatus string

const (
	StatusHealthy     HealthStatus = "healthy"
	StatusRateLimited HealthStatus = "rate_limited"
	StatusUnhealthy   HealthStatus = "unhealthy"
)

type Health struct {
	Status             HealthStatus `json:"status"`
	Service            string       `json:"service"`
	Model              string       `json:"model,omitempty"`
	TestResponseLength int          `json:"test_response_length,omitempty"`
	RetryAfterSeconds  *int         `json:"retry_after_seconds,omitempty"`
	Message            string       `json:"message,omitempty"`
	Error              string       `json:"error,omitempty"`
}

// HealthCheck sends a tiny prompt through the provider. It never returns an error.
func (p *Provider) HealthCheck(ctx context.Context) Health {
	gw, err := p.Gateway(ctx)
	if err != nil {
		return p.healthFromError(err)
	}
	text, err := gw.Generate(ctx, healthPrompt, "")
	if err != nil {
		h := p.healthFromError(err)
		h.Model = gw.Model()
		return h
	}
	return Health{
		Status:             StatusHealthy,
		Service:            p.Name(),
		Model:              gw.Model(),
		TestResponseLength: len([]rune(text)),
	}
}

func (p *Provider) healthFromError(err error) Health {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindRateLimited {
		return Health{Status: StatusRateLimited, Service: p.Name(), RetryAfterSeconds: e.RetryAfterSeconds, Message: e.Message}
	}
	return Health{Status: StatusUnhealthy, Service: p.Name(), Error: err.Error()}
}
