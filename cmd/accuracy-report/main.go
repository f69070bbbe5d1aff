package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"cutplan/internal/accuracy"
	"cutplan/internal/export"
	"cutplan/internal/repository"
)

func main() {
	var (
		days   = flag.Int("days", 30, "sample window in days")
		out    = flag.String("out", "accuracy.xlsx", "output XLSX file path")
		sqlite = flag.String("sqlite", "", "SQLite database path (overrides SQLITE_PATH)")
	)
	flag.Parse()

	// Logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	log := logger.Sugar()

	path := *sqlite
	if path == "" {
		path = os.Getenv("SQLITE_PATH")
	}
	if path == "" {
		path = "./cutplan.db"
	}

	ctx := context.Background()

	db, err := repository.OpenSQLite(path)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	samplesRepo, err := repository.NewSampleRepository(ctx, db, repository.DialectSQLite, nil)
	if err != nil {
		log.Fatalf("preparing sample repository: %v", err)
	}

	since := time.Now().UTC().AddDate(0, 0, -*days)
	samples, err := samplesRepo.ListSince(ctx, since)
	if err != nil {
		log.Fatalf("loading samples: %v", err)
	}
	log.Infow("samples loaded", "count", len(samples), "since", since.Format(time.DateOnly))

	report := accuracy.Aggregate(samples)

	xlsxBytes, err := export.NewService(nil).ExportAccuracyXLSX(report)
	if err != nil {
		log.Fatalf("exporting report: %v", err)
	}
	if err := os.WriteFile(*out, xlsxBytes, 0644); err != nil {
		log.Fatalf("writing output: %v", err)
	}

	fmt.Printf("Accuracy report (%d days, %d samples)\n", *days, report.Summary.TotalSamples)
	fmt.Printf("- Mean accuracy: %.3f\n", report.Summary.MeanAccuracy)
	fmt.Printf("- Trend: %s\n", report.Summary.Trend)
	if report.Summary.WeakestField != "" {
		fmt.Printf("- Weakest field: %s\n", report.Summary.WeakestField)
	}
	for _, area := range report.WeakAreas {
		fmt.Printf("- Weak area %s (%.3f):\n", area.Field, area.Accuracy)
		for _, s := range area.Suggestions {
			fmt.Printf("    * %s\n", s)
		}
	}
	fmt.Printf("- Output: %s\n", *out)
}
