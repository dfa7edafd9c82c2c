package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/DjordjeVuckovic/mcqa-filter/internal/admission"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/aggregate"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/batch"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/ingest/reader"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/ingest/writer"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/judge"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/report"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/rules"
	"github.com/DjordjeVuckovic/mcqa-filter/internal/storage/factory"
)

func main() {
	os.Exit(run())
}

func run() int {
	cli, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		slog.Error("Invalid arguments", "error", err)
		return 2
	}

	cfg, err := loadAppConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rs, err := rules.Resolve(cli.RulesPath, cli.Preset)
	if err != nil {
		slog.Error("Failed to load rule set", "error", err)
		return 1
	}
	slog.Info("Rule set loaded", "name", rs.Name, "excluded_kinds", rs.ExcludedKinds)

	in, err := os.Open(cli.InputPath)
	if err != nil {
		slog.Error("Failed to open input", "path", cli.InputPath, "error", err)
		return 1
	}
	defer in.Close()

	src, err := reader.NewCSVReader(in)
	if err != nil {
		slog.Error("Failed to read input", "path", cli.InputPath, "error", err)
		return 1
	}

	out, err := writer.OpenCSVWriter(cli.OutputPath, src.Headers())
	if err != nil {
		slog.Error("Failed to open output", "path", cli.OutputPath, "error", err)
		return 1
	}
	defer func() {
		if err := out.Close(); err != nil {
			slog.Error("Failed to close output", "path", cli.OutputPath, "error", err)
		}
	}()

	j, err := judge.New(ctx, cfg.Judge)
	if err != nil {
		slog.Error("Failed to create judge", "provider", cfg.Judge.Provider, "error", err)
		return 1
	}

	audit, err := factory.NewAuditStore(ctx, *cfg.Storage)
	if err != nil {
		slog.Error("Failed to create audit store", "type", cfg.Storage.Type, "error", err)
		return 1
	}
	defer audit.Close()

	controller := batch.New(
		j,
		admission.NewEngine(rs),
		out,
		audit,
		aggregate.NewFileStore(cli.ScorePath),
		batch.WithConcurrency(cli.Concurrency),
		batch.WithStartLine(cli.StartLine),
		batch.WithCheckpointEvery(cli.CheckpointEvery),
		batch.WithRunID(cli.RunID),
	)

	summary, runErr := controller.Run(ctx, src)

	r := report.Build(summary)
	report.WriteTable(r, os.Stdout)
	if cli.ReportJSON != "" {
		if err := report.WriteJSON(r, cli.ReportJSON); err != nil {
			slog.Error("Failed to write JSON report", "path", cli.ReportJSON, "error", err)
		}
	}

	switch {
	case runErr == nil:
		return 0
	case summary.Canceled:
		fmt.Fprintf(os.Stderr, "interrupted, resume with -start-line %d\n", summary.NextLine)
		return 0
	default:
		slog.Error("Filter run stopped", "error", runErr, "next_line", summary.NextLine)
		return 1
	}
}
