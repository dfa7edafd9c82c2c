package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/DjordjeVuckovic/mcqa-filter/internal/aggregate"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/batch"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/judge"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/storage/factory"
	"github.com/DjordjeVuckovic/mcqa-filter/pkg/config/env"
)

const defaultEnvPath = "cmd/mcqa_filter/.env"

type cliConfig struct {
	Name            string
	InputPath       string
	OutputPath      string
	StartLine       int
	RulesPath       string
	Preset          string
	Concurrency     int
	CheckpointEvery int
	ScorePath       string
	ReportJSON      string
	RunID           string
}

// parseFlags reads the command line. -name derives <name>.csv and
// <name>_filtered.csv; -input and -output override them.
func parseFlags(args []string, stderr io.Writer) (cliConfig, error) {
	cfg := cliConfig{}

	fs := flag.NewFlagSet("mcqa_filter", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.Name, "name", "", "Dataset name, reads <name>.csv and appends to <name>_filtered.csv")
	fs.StringVar(&cfg.InputPath, "input", "", "Input CSV path (overrides -name)")
	fs.StringVar(&cfg.OutputPath, "output", "", "Output CSV path for admitted questions (overrides -name)")
	fs.IntVar(&cfg.StartLine, "start-line", 1, "1-based data row to start from")
	fs.StringVar(&cfg.RulesPath, "rules", "", "Path to a rule set YAML file")
	fs.StringVar(&cfg.Preset, "preset", "default", "Built-in rule preset: default or legacy")
	fs.IntVar(&cfg.Concurrency, "concurrency", batch.DefaultConcurrency, "Maximum judge calls in flight")
	fs.IntVar(&cfg.CheckpointEvery, "checkpoint-every", batch.DefaultCheckpointEvery, "Rows between checkpoints")
	fs.StringVar(&cfg.ScorePath, "score-path", aggregate.DefaultPath, "Score aggregate JSON path")
	fs.StringVar(&cfg.ReportJSON, "report-json", "", "Optional path for a JSON run report")
	fs.StringVar(&cfg.RunID, "run-id", "", "Run identifier for audit entries (random by default)")

	if err := fs.Parse(args); err != nil {
		return cliConfig{}, err
	}
	if err := cfg.resolvePaths(); err != nil {
		return cliConfig{}, err
	}
	return cfg, nil
}

func (c *cliConfig) resolvePaths() error {
	name := strings.TrimSuffix(c.Name, ".csv")
	if c.InputPath == "" {
		if name == "" {
			return errors.New("either -name or -input is required")
		}
		c.InputPath = name + ".csv"
	}
	if c.OutputPath == "" {
		base := name
		if base == "" {
			base = strings.TrimSuffix(c.InputPath, ".csv")
		}
		c.OutputPath = base + "_filtered.csv"
	}
	if c.StartLine < 1 {
		return fmt.Errorf("-start-line must be at least 1, got %d", c.StartLine)
	}
	return nil
}

type appConfig struct {
	Judge   *judge.Config
	Storage *factory.StorageConfig
}

func loadAppConfig() (*appConfig, error) {
	if err := env.LoadDotEnv(os.Getenv("ENV"), defaultEnvPath); err != nil {
		slog.Info("Skipping .env environment variables...", "error", err)
	}
	slog.SetLogLoggerLevel(env.LogLevel())

	judgeCfg, err := judge.LoadEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load judge configuration: %w", err)
	}
	storageCfg, err := factory.LoadEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load storage configuration: %w", err)
	}
	return &appConfig{Judge: judgeCfg, Storage: storageCfg}, nil
}
