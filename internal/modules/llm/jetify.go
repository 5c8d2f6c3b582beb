package llm

import (
	"context"
	"errors"
	neturl "net/url"
	"strings"

	anthropicclient "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
	jetai "go.jetify.com/ai"
	jetapi "go.jetify.com/ai/api"
	jetanthropic "go.jetify.com/ai/provider/anthropic"
	jetopenai "go.jetify.com/ai/provider/openai"
)

const (
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultAnthropicModel = "claude-haiku-4-5-20251001"
)

// jetifyBackend drives OpenAI and Anthropic models through the jetify SDK.
// The system/user split is folded into a single user message so every
// provider sees the same prompt text.
type jetifyBackend struct {
	name     string
	modelID  string
	model    jetapi.LanguageModel
	sampling sampling
}

// sampling is the part of GenerationPolicy a provider accepts. Zero fields are not sent.
type sampling struct {
	Temperature float64
	TopP        float64
	TopK        int
	MaxTokens   int
}

// samplingFor maps the policy onto what each provider's API takes. OpenAI has
// no top-k. Current Claude models reject temperature and top-p together, so
// Anthropic gets temperature and top-k.
func samplingFor(provider string, policy GenerationPolicy) sampling {
	s := sampling{
		Temperature: float64(policy.Temperature),
		MaxTokens:   int(policy.MaxOutputTokens),
	}
	switch provider {
	case "openai":
		s.TopP = float64(policy.TopP)
	case "anthropic":
		s.TopK = int(policy.TopK)
	}
	return s
}

func (s sampling) options() []jetai.GenerateOption {
	opts := []jetai.GenerateOption{jetai.WithTemperature(s.Temperature)}
	if s.MaxTokens > 0 {
		opts = append(opts, jetai.WithMaxOutputTokens(s.MaxTokens))
	}
	if s.TopP > 0 {
		opts = append(opts, jetai.WithTopP(s.TopP))
	}
	if s.TopK > 0 {
		opts = append(opts, jetai.WithTopK(s.TopK))
	}
	return opts
}

func newJetifyBackend(provider, apiKey, modelID, endpoint string, policy GenerationPolicy) (*jetifyBackend, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("api key is empty")
	}
	modelID = strings.TrimSpace(modelID)
	endpoint = strings.TrimSpace(endpoint)

	b := &jetifyBackend{name: provider, sampling: samplingFor(provider, policy)}
	switch provider {
	case "anthropic":
		if modelID == "" {
			modelID = defaultAnthropicModel
		}
		opts := []anthropicoption.RequestOption{
			anthropicoption.WithAPIKey(apiKey),
			anthropicoption.WithMaxRetries(0),
		}
		if endpoint != "" {
			opts = append(opts, anthropicoption.WithBaseURL(strings.TrimRight(endpoint, "/")))
		}
		client := anthropicclient.NewClient(opts...)
		b.model = jetanthropic.NewLanguageModel(modelID, jetanthropic.WithClient(client))
	case "openai":
		if modelID == "" {
			modelID = defaultOpenAIModel
		}
		opts := []openaioption.RequestOption{
			openaioption.WithAPIKey(apiKey),
			openaioption.WithMaxRetries(0),
		}
		if base := openAIBaseURL(endpoint); base != "" {
			opts = append(opts, openaioption.WithBaseURL(base))
		}
		client := openaiclient.NewClient(opts...)
		b.model = jetopenai.NewLanguageModel(modelID, jetopenai.WithClient(client))
	default:
		return nil, errors.New("unsupported provider " + provider)
	}
	b.modelID = modelID
	return b, nil
}

func (b *jetifyBackend) GenerateContent(ctx context.Context, prompt string) (string, error) {
	opts := append([]jetai.GenerateOption{jetai.WithModel(b.model)}, b.sampling.options()...)
	resp, err := jetai.GenerateText(
		ctx,
		[]jetapi.Message{&jetapi.UserMessage{Content: jetapi.ContentFromText(prompt)}},
		opts...,
	)
	if err != nil {
		return "", err
	}
	return responseText(resp), nil
}

func (b *jetifyBackend) Name() string  { return b.name }
func (b *jetifyBackend) Model() string { return b.modelID }

func responseText(resp *jetapi.Response) string {
	if resp == nil {
		return ""
	}
	var full strings.Builder
	for _, block := range resp.Content {
		if tb, ok := block.(*jetapi.TextBlock); ok {
			full.WriteString(tb.Text)
		}
	}
	return full.String()
}

// openAIBaseURL appends /v1 to bare hosts.
func openAIBaseURL(raw string) string {
	if raw == "" {
		return ""
	}
	parsed, err := neturl.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimRight(raw, "/")
	}
	path := strings.TrimRight(parsed.Path, "/")
	if !strings.HasSuffix(path, "/v1") {
		path += "/v1"
	}
	parsed.Path = path
	return strings.TrimRight(parsed.String(), "/")
}
