package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"

	"tmcrawl/internal/app"
	"tmcrawl/internal/config"
	"tmcrawl/internal/logging"
	"tmcrawl/internal/sink"
)

func main() {
	_ = godotenv.Load()

	cutoffFlag := flag.String("cutoff", "2025-01-01", "exclude articles published before this date (YYYY-MM-DD)")
	outFlag := flag.String("o", "", "write records to this file instead of stdout")
	flag.Parse()

	cutoff, err := time.Parse("2006-01-02", *cutoffFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid cutoff %q (expected YYYY-MM-DD)\n", *cutoffFlag)
		os.Exit(2)
	}

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	var out io.Writer = os.Stdout
	if *outFlag != "" {
		f, err := os.Create(*outFlag)
		if err != nil {
			logger.Error("cannot create output file", "path", *outFlag, "error", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	ctx := context.Background()
	if err := application.CrawlTo(ctx, cutoff, sink.NewJSONL(out)); err != nil {
		logger.Error("crawl run failed", "error", err)
		os.Exit(1)
	}
}
