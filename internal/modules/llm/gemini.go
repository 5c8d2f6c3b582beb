package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash-exp"

var blockedHarmCategories = []genai.HarmCategory{
	genai.HarmCategoryHarassment,
	genai.HarmCategoryHateSpeech,
	genai.HarmCategorySexuallyExplicit,
	genai.HarmCategoryDangerousContent,
}

type geminiBackend struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

func newGeminiBackend(ctx context.Context, apiKey, model string, policy GenerationPolicy) (*geminiBackend, error) {
	if model == "" {
		model = defaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &geminiBackend{client: client, model: model, config: geminiConfig(policy)}, nil
}

func geminiConfig(policy GenerationPolicy) *genai.GenerateContentConfig {
	safety := make([]*genai.SafetySetting, 0, len(blockedHarmCategories))
	for _, cat := range blockedHarmCategories {
		safety = append(safety, &genai.SafetySetting{
			Category:  cat,
			Threshold: genai.HarmBlockThresholdBlockMediumAndAbove,
		})
	}
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(policy.Temperature),
		TopP:            genai.Ptr(policy.TopP),
		TopK:            genai.Ptr(policy.TopK),
		MaxOutputTokens: policy.MaxOutputTokens,
		SafetySettings:  safety,
	}
}

func (b *geminiBackend) GenerateContent(ctx context.Context, prompt string) (string, error) {
	resp, err := b.client.Models.GenerateContent(ctx, b.model, genai.Text(prompt), b.config)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

func (b *geminiBackend) Name() string  { return "gemini" }
func (b *geminiBackend) Model() string { return b.model }
