package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/DjordjeVuckovic/mcqa-filter/internal/rules"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/verdict"
	"github.com/DjordjeVuckovic/mcqa-filter/pkg/fileutil"
	"github.com/DjordjeVuckovic/mcqa-filter/pkg/schema"
	"gopkg.in/yaml.v3"
)

const idBase = "https://schemas.mcqa-filter.dev"

func main() {
	outputDir := flag.String("output", "api", "Output directory for generated schemas")
	flag.Parse()

	if err := generate(*outputDir); err != nil {
		slog.Error("Schema generation failed", "error", err)
		os.Exit(1)
	}
}

// generate writes the rule file schema, the judge payload schema and an
// example rule file holding the default rule set.
func generate(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rulesSchema, err := schema.NewGenerator(schema.WithTagKey("yaml"), schema.WithIDBase(idBase)).
		GenerateJSON(rules.RuleSet{})
	if err != nil {
		return fmt.Errorf("failed to generate rule set schema: %w", err)
	}
	if err := write(filepath.Join(dir, "ruleset-v1.json"), rulesSchema); err != nil {
		return err
	}

	verdictSchema, err := schema.NewGenerator(schema.WithIDBase(idBase)).GenerateJSON(verdict.Record{})
	if err != nil {
		return fmt.Errorf("failed to generate verdict schema: %w", err)
	}
	if err := write(filepath.Join(dir, "verdict-v1.json"), verdictSchema); err != nil {
		return err
	}

	example, err := yaml.Marshal(rules.Default())
	if err != nil {
		return fmt.Errorf("failed to render example rule set: %w", err)
	}
	header := []byte("# Default rule set. Copy and pass with -rules to customise.\n")
	return write(filepath.Join(dir, "ruleset-example.yaml"), append(header, example...))
}

func write(path string, data []byte) error {
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Printf("Generated %s\n", path)
	return nil
}
