package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is the generative model used for forecasts
const DefaultModel = "gemini-2.5-pro"

var (
	errMissingGeminiKey = errors.New("missing Gemini API key")
	errEmptyForecast    = errors.New("empty forecast")
)

// GeminiForecaster generates forecasts using the Gemini API
type GeminiForecaster struct {
	client *genai.Client
	model  string
}

type GeminiOption func(c *geminiConfig)

type geminiConfig struct {
	model   string
	baseURL string
}

// WithModel specifies the Gemini model. Defaults to DefaultModel
func WithModel(model string) GeminiOption {
	return func(c *geminiConfig) {
		if model != "" {
			c.model = model
		}
	}
}

// WithGeminiBaseURL overrides the Gemini API endpoint
func WithGeminiBaseURL(url string) GeminiOption {
	return func(c *geminiConfig) {
		c.baseURL = url
	}
}

// NewGeminiForecaster creates a new Gemini-backed forecaster
func NewGeminiForecaster(ctx context.Context, apiKey string, opts ...GeminiOption) (*GeminiForecaster, error) {
	if apiKey == "" {
		return nil, errMissingGeminiKey
	}

	cfg := &geminiConfig{
		model: DefaultModel,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	if cfg.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{
			BaseURL: cfg.baseURL,
		}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("unable to create Gemini client: %w", err)
	}

	return &GeminiForecaster{
		client: client,
		model:  cfg.model,
	}, nil
}

func (g *GeminiForecaster) Forecast(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("unable to generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errEmptyForecast
	}

	return text, nil
}
