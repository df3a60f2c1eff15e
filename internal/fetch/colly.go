package fetch

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gocolly/colly/v2"

	"tmcrawl/internal/config"
	"tmcrawl/internal/ports"
)

const resultKey = "fetch_result"

type fetchResult struct {
	body []byte
	err  error
}

// Colly adapts a colly collector to the Fetcher port. Robots rules, the
// politeness delay, the user agent and the request timeout are enforced here,
// outside the traversal logic. URL-level dedup is the ledger's job, so
// revisits are allowed.
type Colly struct {
	collector *colly.Collector
}

var _ ports.Fetcher = (*Colly)(nil)

// NewColly builds the collector from site and crawl settings.
func NewColly(site config.SiteConfig, crawlCfg config.CrawlConfig) (*Colly, error) {
	c := colly.NewCollector(
		colly.AllowedDomains(site.Domains...),
		colly.UserAgent(crawlCfg.UserAgent),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(crawlCfg.RequestTimeout)

	if err := c.Limit(&colly.LimitRule{DomainGlob: "*", Delay: crawlCfg.Delay}); err != nil {
		return nil, fmt.Errorf("set rate limit: %w", err)
	}

	c.OnResponse(func(r *colly.Response) {
		if ch, ok := r.Request.Ctx.GetAny(resultKey).(chan fetchResult); ok {
			ch <- fetchResult{body: r.Body}
		}
	})
	c.OnError(func(r *colly.Response, err error) {
		if r == nil || r.Request == nil {
			return
		}
		if ch, ok := r.Request.Ctx.GetAny(resultKey).(chan fetchResult); ok {
			ch <- fetchResult{err: err}
		}
	})

	return &Colly{collector: c}, nil
}

// Fetch retrieves one page synchronously.
func (f *Colly) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ch := make(chan fetchResult, 1)
	cctx := colly.NewContext()
	cctx.Put(resultKey, ch)

	if err := f.collector.Request(http.MethodGet, pageURL, nil, cctx, nil); err != nil {
		return nil, fmt.Errorf("request %s: %w", pageURL, err)
	}
	f.collector.Wait()

	select {
	case res := <-ch:
		if res.err != nil {
			return nil, fmt.Errorf("fetch %s: %w", pageURL, res.err)
		}
		return res.body, nil
	default:
		return nil, fmt.Errorf("no response for %s", pageURL)
	}
}
