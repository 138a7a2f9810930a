// Package gemini provides the Gemini text generation client used by the
// classifier and reply engine. This is part of the platform layer and
// contains no business logic.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"estatepilot_backend/platform/config"

	"google.golang.org/genai"
)

// Result holds the outcome of a single generation call.
type Result struct {
	Text string
	// SafetyBlocked is set when the model stopped for safety reasons
	// instead of producing usable text.
	SafetyBlocked bool
}

// Options tune a single generation call. Zero values fall back to the
// client defaults.
type Options struct {
	Temperature     float32
	MaxOutputTokens int32
	SystemPrompt    string
}

// Generator is the seam the domain services depend on. The real client
// talks to the Gemini API; tests substitute a fake.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts Options) (Result, error)
}

const (
	defaultTemperature = 0.3
	defaultMaxTokens   = 250
	defaultTopP        = 0.95
	defaultTopK        = 40
)

// Client wraps the genai SDK for single-turn text generation.
type Client struct {
	client *genai.Client
	model  string
}

// New creates a Gemini client from configuration.
func New(ctx context.Context, cfg config.GeminiConfig) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GetGeminiAPIKey(),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{client: client, model: cfg.GetGeminiModel()}, nil
}

// Generate performs a single-turn generation with conservative safety
// settings. A safety-stopped response is reported via Result.SafetyBlocked
// rather than an error so callers can fall back to a template.
func (c *Client) Generate(ctx context.Context, prompt string, opts Options) (Result, error) {
	temperature := opts.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}
	maxTokens := opts.MaxOutputTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](temperature),
		TopP:            genai.Ptr[float32](defaultTopP),
		TopK:            genai.Ptr[float32](defaultTopK),
		MaxOutputTokens: maxTokens,
		SafetySettings:  safetySettings(),
	}
	if opts.SystemPrompt != "" {
		genCfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(opts.SystemPrompt)},
		}
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), genCfg)
	if err != nil {
		return Result{}, fmt.Errorf("gemini generate: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return Result{SafetyBlocked: true}, nil
	}
	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return Result{SafetyBlocked: true}, nil
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return Result{SafetyBlocked: true}, nil
	}
	return Result{Text: text}, nil
}

func safetySettings() []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, category := range categories {
		settings = append(settings, &genai.SafetySetting{
			Category:  category,
			Threshold: genai.HarmBlockThresholdBlockMediumAndAbove,
		})
	}
	return settings
}
