package judge

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/DjordjeVuckovic/mcqa-filter/internal/verdict"
	"github.com/DjordjeVuckovic/mcqa-filter/pkg/schema"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-pro"

type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

type geminiJudge struct {
	client         *genai.Client
	cfg            GeminiConfig
	responseSchema map[string]any
}

// ResponseSchema is the JSON Schema of the verdict payload requested from
// models that support structured output.
func ResponseSchema() (map[string]any, error) {
	s, err := schema.NewGenerator().Generate(reflect.TypeOf(verdict.Record{}))
	if err != nil {
		return nil, fmt.Errorf("build response schema: %w", err)
	}
	// Drop root metadata, the API rejects $schema.
	s.Schema, s.ID = "", ""
	return s.Map()
}

// NewGemini creates a judge backed by the Gemini API.
func NewGemini(ctx context.Context, cfg GeminiConfig) (Judge, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}
	if cfg.Model == "" {
		cfg.Model = defaultGeminiModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	responseSchema, err := ResponseSchema()
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &geminiJudge{client: client, cfg: cfg, responseSchema: responseSchema}, nil
}

func (g *geminiJudge) Judge(ctx context.Context, q Question) (string, error) {
	prompt, err := BuildPrompt(q)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	temperature := g.cfg.Temperature
	result, err := g.client.Models.GenerateContent(ctx, g.cfg.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:        &temperature,
		ResponseMIMEType:   "application/json",
		ResponseJsonSchema: g.responseSchema,
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return result.Text(), nil
}
