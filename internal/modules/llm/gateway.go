package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Backend performs one raw text-generation call against a remote model.
type Backend interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Name() string
	Model() string
}

// GenerationPolicy is the fixed sampling and safety policy applied to every call.
type GenerationPolicy struct {
	Temperature     float32
	TopP            float32
	TopK            float32
	MaxOutputTokens int32
}

// DefaultPolicy favours short, fast answers over creative ones.
var DefaultPolicy = GenerationPolicy{
	Temperature:     0.7,
	TopP:            0.8,
	TopK:            40,
	MaxOutputTokens: 1024,
}

// Gateway wraps a Backend with prompt assembly, result validation and error classification.
type Gateway struct {
	backend Backend
	log     *zap.Logger
	timeout time.Duration
}

// NewGateway wraps an already-built backend.
func NewGateway(backend Backend, log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{backend: backend, log: log.Named("llm")}
}

// BuildPrompt joins system and user text with a blank line; an empty system text is omitted.
func BuildPrompt(systemText, userText string) string {
	if systemText != "" {
		return systemText + "\n\n" + userText
	}
	return userText
}

// Generate sends one prompt to the backend. Every failure is returned as *Error.
func (g *Gateway) Generate(ctx context.Context, userText, systemText string) (string, error) {
	prompt := BuildPrompt(systemText, userText)
	g.log.Debug("generating text",
		zap.String("backend", g.backend.Name()),
		zap.Int("prompt_len", len([]rune(prompt))),
	)

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	raw, err := g.backend.GenerateContent(ctx, prompt)
	if err != nil {
		classified := Classify(err)
		g.logFailure(classified)
		return "", classified
	}

	text := strings.TrimSpace(raw)
	if text == "" {
		e := &Error{Kind: KindEmptyResponse, Message: msgEmptyResponse, cause: errors.New("empty response from " + g.backend.Name())}
		g.logFailure(e)
		return "", e
	}

	g.log.Info("text generated", zap.String("model", g.backend.Model()), zap.Int("len", len([]rune(text))))
	return text, nil
}

func (g *Gateway) logFailure(e *Error) {
	if e.Kind == KindRateLimited {
		fields := []zap.Field{zap.Bool("free_tier", e.FreeTier)}
		if e.RetryAfterSeconds != nil {
			fields = append(fields, zap.Int("retry_after_seconds", *e.RetryAfterSeconds))
		}
		g.log.Warn("rate limit reached", fields...)
		return
	}
	g.log.Error("failed to generate text", zap.String("error", e.Detail()))
}

// Model returns the backend model identifier.
func (g *Gateway) Model() string { return g.backend.Model() }

// Backend returns the backend name.
func (g *Gateway) Backend() string { return g.backend.Name() }
