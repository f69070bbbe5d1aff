package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cutplan/internal/accuracy"
	"cutplan/internal/async"
	"cutplan/internal/common"
	"cutplan/internal/core"
	"cutplan/internal/entity"
	"cutplan/internal/export"
	"cutplan/internal/match"
	repo "cutplan/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		in       = flag.String("in", "", "cutlist text file to parse (required)")
		out      = flag.String("out", "", "output XLSX file path (optional, defaults next to input)")
		provider = flag.String("provider", "", "provider label recorded on the accuracy sample")
		accept   = flag.Bool("accept", false, "finalize the session with the parsed parts accepted as-is")
	)
	flag.Parse()

	if *in == "" {
		printError("Error: --in is required\n")
		os.Exit(1)
	}
	if *out == "" {
		base := strings.TrimSuffix(filepath.Base(*in), filepath.Ext(*in))
		*out = filepath.Join(filepath.Dir(*in), base+".xlsx")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, pool, dialect, err := repo.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer repo.Close(db, pool, logger)

	samplesRepo, err := repo.NewSampleRepository(ctx, db, dialect, logger)
	if err != nil {
		logger.Error("failed to prepare sample repository", "error", err)
		os.Exit(1)
	}

	queue := async.NewSampleQueue(samplesRepo, logger,
		async.WithWorkers(cfg.Queue.Workers),
		async.WithQueueSize(cfg.Queue.Size),
		async.WithPersistTimeout(cfg.Queue.Timeout),
	)
	defer queue.Shutdown(context.Background())

	matcher := match.New(match.FromCommon(cfg.Matcher))
	tracker := accuracy.NewTracker(matcher, logger)
	processor := core.NewProcessor(logger, cfg.Parser, nil, tracker, queue)

	raw, err := os.ReadFile(*in)
	if err != nil {
		logger.Error("failed to read input", "path", *in, "error", err)
		os.Exit(1)
	}

	outcome, err := processor.ParseDocument(ctx, core.DocumentRequest{
		Text:         string(raw),
		FilenameHint: filepath.Base(*in),
		FolderHint:   filepath.Dir(*in),
		Provider:     *provider,
	})
	if err != nil {
		logger.Error("failed to parse document", "error", err)
		os.Exit(1)
	}
	logger.Info("parse complete",
		"session_id", outcome.SessionID,
		"parts", len(outcome.Parts),
		"needs_review", outcome.NeedsReview,
	)

	parts := make([]entity.CutPart, len(outcome.Parts))
	for i := range outcome.Parts {
		parts[i] = outcome.Parts[i].Part
	}

	exportSvc := export.NewService(logger)
	xlsxBytes, err := exportSvc.ExportCutlistXLSX(filepath.Base(*in), parts)
	if err != nil {
		logger.Error("failed to export cutlist", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsxBytes, 0644); err != nil {
		logger.Error("failed to write output file", "error", err)
		os.Exit(1)
	}

	if *accept {
		sample, err := processor.CompleteReview(ctx, outcome.SessionID, nil)
		if err != nil {
			logger.Error("failed to finalize session", "error", err)
			os.Exit(1)
		}
		logger.Info("session finalized", "session_id", outcome.SessionID, "accuracy", sample.Accuracy)
	} else {
		if err := processor.DiscardReview(outcome.SessionID); err != nil {
			logger.Error("failed to discard session", "error", err)
		}
	}

	fmt.Printf("Parse complete!\n")
	fmt.Printf("- Parts parsed: %d\n", len(parts))
	fmt.Printf("- Needs review: %t\n", outcome.NeedsReview)
	fmt.Printf("- Output: %s\n", *out)
}
