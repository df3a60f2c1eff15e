package ports

import (
	"context"

	"tmcrawl/internal/domain"
)

// Fetcher retrieves the raw body of a page. Robots policy, politeness delay,
// user agent and timeouts all live behind this interface.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) ([]byte, error)
}

// SeenLedger is the durable set of article URLs already processed in past runs.
type SeenLedger interface {
	Has(ctx context.Context, url string) (bool, error)
	Add(ctx context.Context, url string) error
	Close() error
}

// RecordSink receives each emitted article record exactly once.
type RecordSink interface {
	Emit(record domain.ArticleRecord) error
}
