package judge

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

type Provider string

const (
	ProviderReplay Provider = "replay"
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

type Config struct {
	Provider Provider
	OpenAI   *OpenAIConfig
	Gemini   *GeminiConfig
}

// LoadEnv reads the judge configuration. JUDGE_PROVIDER defaults to replay.
func LoadEnv() (*Config, error) {
	provider := Provider(os.Getenv("JUDGE_PROVIDER"))
	if provider == "" {
		provider = ProviderReplay
	}

	timeout := defaultTimeout
	if v := os.Getenv("JUDGE_TIMEOUT_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("invalid JUDGE_TIMEOUT_SECONDS value: %q", v)
		}
		timeout = time.Duration(secs) * time.Second
	}

	cfg := &Config{Provider: provider}
	switch provider {
	case ProviderReplay:
	case ProviderOpenAI:
		cfg.OpenAI = &OpenAIConfig{
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			Model:   os.Getenv("OPENAI_MODEL"),
			Timeout: timeout,
		}
	case ProviderGemini:
		temperature := float32(0)
		if v := os.Getenv("GEMINI_TEMPERATURE"); v != "" {
			f, err := strconv.ParseFloat(v, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid GEMINI_TEMPERATURE value: %q", v)
			}
			temperature = float32(f)
		}
		cfg.Gemini = &GeminiConfig{
			APIKey:      os.Getenv("GEMINI_API_KEY"),
			Model:       os.Getenv("GEMINI_MODEL"),
			Temperature: temperature,
			Timeout:     timeout,
		}
	default:
		slog.Error("Invalid JUDGE_PROVIDER environment variable value", "value", provider)
		return nil, fmt.Errorf(
			"invalid JUDGE_PROVIDER value: %s, expected one of %v",
			provider,
			[]Provider{ProviderReplay, ProviderOpenAI, ProviderGemini})
	}
	return cfg, nil
}

func New(ctx context.Context, cfg *Config) (Judge, error) {
	switch cfg.Provider {
	case ProviderReplay, "":
		return NewReplay(), nil
	case ProviderOpenAI:
		if cfg.OpenAI == nil {
			return nil, fmt.Errorf("openai judge requires configuration")
		}
		return NewOpenAI(*cfg.OpenAI)
	case ProviderGemini:
		if cfg.Gemini == nil {
			return nil, fmt.Errorf("gemini judge requires configuration")
		}
		return NewGemini(ctx, *cfg.Gemini)
	default:
		return nil, fmt.Errorf("unsupported judge provider: %s", cfg.Provider)
	}
}
