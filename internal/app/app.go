package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tmcrawl/internal/config"
	"tmcrawl/internal/crawl"
	"tmcrawl/internal/domain"
	"tmcrawl/internal/fetch"
	"tmcrawl/internal/ledger"
	"tmcrawl/internal/logging"
	"tmcrawl/internal/ports"
	"tmcrawl/internal/sink"
)

// Application wires config to the crawl collaborators. The ledger and the
// fetcher are opened once and reused across runs.
type Application struct {
	cfg     config.Config
	logger  *slog.Logger
	ledger  *ledger.SQLiteLedger
	fetcher ports.Fetcher
}

// New opens the seen ledger and builds the fetcher.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	led, err := ledger.Open(cfg.State.Dir)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	fetcher, err := fetch.NewColly(cfg.Site, cfg.Crawl)
	if err != nil {
		_ = led.Close()
		return nil, fmt.Errorf("build fetcher: %w", err)
	}

	return &Application{
		cfg:     cfg,
		logger:  baseLogger,
		ledger:  led,
		fetcher: fetcher,
	}, nil
}

// CrawlTo executes one crawl run, streaming records into the given sink.
func (a *Application) CrawlTo(ctx context.Context, cutoff time.Time, out ports.RecordSink) error {
	controller := crawl.New(crawl.Deps{
		Fetcher:    a.fetcher,
		Ledger:     a.ledger,
		Sink:       out,
		Site:       a.cfg.Site,
		SectionCap: a.cfg.Crawl.SectionCap,
		Logger:     a.logger.With("component", "crawl"),
	})
	return controller.Run(ctx, cutoff)
}

// Crawl executes one run and returns the emitted records in emission order.
func (a *Application) Crawl(ctx context.Context, cutoff time.Time) ([]domain.ArticleRecord, error) {
	mem := sink.NewMemory()
	if err := a.CrawlTo(ctx, cutoff, mem); err != nil {
		return nil, err
	}
	return mem.Records(), nil
}

// Close releases the ledger's backing store.
func (a *Application) Close() error {
	return a.ledger.Close()
}
