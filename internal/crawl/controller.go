// Package crawl drives the bounded site traversal: homepage → sections →
// paginated listings → articles, with a per-section admission cap, cross-run
// dedup via the seen ledger and a publication-date cutoff gate.
package crawl

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"tmcrawl/internal/config"
	"tmcrawl/internal/dates"
	"tmcrawl/internal/domain"
	"tmcrawl/internal/extract"
	"tmcrawl/internal/language"
	"tmcrawl/internal/links"
	"tmcrawl/internal/ports"
	"tmcrawl/internal/text"
)

const defaultSectionCap = 5

type taskKind int

const (
	taskSections taskKind = iota
	taskListing
	taskArticle
)

// task is a plain-data continuation: the page to fetch plus the traversal
// state that must travel with it. admitted counts article fetches dispatched
// for the section so far, regardless of their outcome.
type task struct {
	kind     taskKind
	url      string
	section  string
	admitted int
}

// Deps wires the collaborators into the controller.
type Deps struct {
	Fetcher    ports.Fetcher
	Ledger     ports.SeenLedger
	Sink       ports.RecordSink
	Site       config.SiteConfig
	SectionCap int
	Logger     *slog.Logger
}

// Controller owns the traversal state machine for one run.
type Controller struct {
	fetcher    ports.Fetcher
	ledger     ports.SeenLedger
	sink       ports.RecordSink
	site       config.SiteConfig
	sectionCap int
	logger     *slog.Logger
}

// New constructs a controller; the section cap defaults to 5.
func New(deps Deps) *Controller {
	sectionCap := deps.SectionCap
	if sectionCap <= 0 {
		sectionCap = defaultSectionCap
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		fetcher:    deps.Fetcher,
		ledger:     deps.Ledger,
		sink:       deps.Sink,
		site:       deps.Site,
		sectionCap: sectionCap,
		logger:     logger,
	}
}

// Run seeds the homepage task and drains the queue until every section's
// traversal has stopped and every dispatched article fetch has resolved.
// A fetch failure drops that branch; a ledger or sink failure aborts the run.
func (c *Controller) Run(ctx context.Context, cutoff time.Time) error {
	queue := []task{{kind: taskSections, url: c.site.BaseURL}}

	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]

		doc, ok := c.fetchDocument(ctx, t.url)
		if !ok {
			continue
		}

		var (
			next []task
			err  error
		)
		switch t.kind {
		case taskSections:
			next = c.handleSections(doc, t.url)
		case taskListing:
			next, err = c.handleListing(ctx, doc, t)
		case taskArticle:
			err = c.handleArticle(ctx, doc, t, cutoff)
		}
		if err != nil {
			return err
		}
		queue = append(queue, next...)
	}

	return nil
}

func (c *Controller) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, bool) {
	body, err := c.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		c.logger.Warn("fetch failed", "url", pageURL, "error", err)
		return nil, false
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		c.logger.Warn("parse failed", "url", pageURL, "error", err)
		return nil, false
	}
	return doc, true
}

// handleSections extracts section links from the homepage. The secondary
// selector is consulted only when the primary matches no links at all; the
// section path filter runs afterwards, so a primary that matches only
// off-section links still ends discovery. Sections are processed in
// ascending lexicographic URL order.
func (c *Controller) handleSections(doc *goquery.Document, baseURL string) []task {
	var hrefs []string
	for _, sel := range c.site.Selectors.Sections {
		hrefs = extract.Hrefs(doc.Selection, sel)
		if len(hrefs) > 0 {
			break
		}
	}

	dedup := map[string]struct{}{}
	var sections []string
	for _, href := range hrefs {
		if !strings.Contains(href, c.site.SectionPath) {
			continue
		}
		abs, ok := links.Absolutize(baseURL, href)
		if !ok {
			continue
		}
		if _, seen := dedup[abs]; seen {
			continue
		}
		dedup[abs] = struct{}{}
		sections = append(sections, abs)
	}

	if len(sections) == 0 {
		c.logger.Warn("no section links found on homepage; check selectors", "url", baseURL)
		return nil
	}

	sort.Strings(sections)
	tasks := make([]task, 0, len(sections))
	for _, u := range sections {
		tasks = append(tasks, task{kind: taskListing, url: u, section: u})
	}
	return tasks
}

// handleListing admits up to the remaining cap of previously unseen article
// links, in ascending lexicographic order of resolved URL, then paginates
// only while the cap is not reached.
func (c *Controller) handleListing(ctx context.Context, doc *goquery.Document, t task) ([]task, error) {
	candidates := map[string]struct{}{}
	for _, sel := range c.site.Selectors.Listing {
		for _, href := range extract.Hrefs(doc.Selection, sel) {
			if !strings.Contains(href, c.site.ArticlePath) {
				continue
			}
			if abs, ok := links.Absolutize(t.url, href); ok {
				candidates[abs] = struct{}{}
			}
		}
	}

	var fresh []string
	for u := range candidates {
		seen, err := c.ledger.Has(ctx, u)
		if err != nil {
			return nil, fmt.Errorf("ledger lookup %s: %w", u, err)
		}
		if !seen {
			fresh = append(fresh, u)
		}
	}
	sort.Strings(fresh)

	admitted := t.admitted
	remaining := c.sectionCap - admitted
	if remaining < 0 {
		remaining = 0
	}
	if remaining > len(fresh) {
		remaining = len(fresh)
	}

	out := make([]task, 0, remaining+1)
	for _, u := range fresh[:remaining] {
		out = append(out, task{kind: taskArticle, url: u, section: t.section})
		admitted++
	}

	c.logger.Debug("listing processed",
		"section", t.section, "page", t.url,
		"candidates", len(candidates), "new", len(fresh), "admitted", admitted)

	if admitted >= c.sectionCap {
		return out, nil
	}

	if next := extract.FirstHref(doc, c.site.Selectors.NextPage); next != "" {
		if abs, ok := links.Absolutize(t.url, next); ok {
			out = append(out, task{kind: taskListing, url: abs, section: t.section, admitted: admitted})
		}
	}
	return out, nil
}

// handleArticle builds and emits one record, or nothing when the article
// predates the cutoff.
func (c *Controller) handleArticle(ctx context.Context, doc *goquery.Document, t task, cutoff time.Time) error {
	sel := c.site.Selectors

	title := extract.FirstText(doc, sel.Title)
	rawDate := extract.Text(doc, sel.Date)

	var dateISO string
	if parsed, ok := dates.Parse(rawDate); ok {
		if parsed.Before(cutoff) {
			// Not recorded in the ledger, so a later run with a relaxed
			// cutoff can still admit this article.
			c.logger.Debug("skip old article",
				"url", t.url, "published", parsed.Format("2006-01-02"))
			return nil
		}
		dateISO = parsed.Format("2006-01-02")
	}

	company := strings.Join(extract.Texts(doc, sel.Company), ", ")

	bodyRoot, bodyHTML := extract.Body(doc, sel.Body, sel.LooseBody)
	plain := text.Normalize(bodyHTML)

	tags := extract.Texts(doc, sel.Tags)

	var internal []string
	linkDedup := map[string]struct{}{}
	for _, href := range extract.Hrefs(bodyRoot, "a[href]") {
		abs, ok := links.Absolutize(t.url, href)
		if !ok || !links.Internal(abs, c.site.Domains) {
			continue
		}
		if _, dup := linkDedup[abs]; dup {
			continue
		}
		linkDedup[abs] = struct{}{}
		internal = append(internal, abs)
	}

	lang, _ := language.Detect(plain)

	if err := c.ledger.Add(ctx, t.url); err != nil {
		return fmt.Errorf("ledger add %s: %w", t.url, err)
	}

	record := domain.ArticleRecord{
		URL:           t.url,
		Section:       t.section,
		Title:         title,
		Date:          rawDate,
		DateISO:       dateISO,
		Company:       company,
		Text:          plain,
		Language:      lang,
		Tags:          tags,
		InternalLinks: internal,
	}
	if err := c.sink.Emit(record); err != nil {
		return fmt.Errorf("emit record %s: %w", t.url, err)
	}
	return nil
}
