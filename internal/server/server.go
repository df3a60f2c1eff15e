// Package server exposes the HTTP surface: the crawl trigger plus the
// profanity and stock-quote utility endpoints.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	goaway "github.com/TwiN/go-away"
	"github.com/gin-gonic/gin"

	"tmcrawl/internal/domain"
	"tmcrawl/internal/stocks"
)

const (
	defaultCutoff = "2025-01-01"
	cutoffLayout  = "2006-01-02"

	// maxDetailLen bounds the diagnostic text returned for a failed run.
	maxDetailLen = 4000
)

// CrawlRunner executes one crawl run and returns the emitted records.
type CrawlRunner interface {
	Crawl(ctx context.Context, cutoff time.Time) ([]domain.ArticleRecord, error)
}

// Server handles the HTTP endpoints. Crawl runs are mutually exclusive
// process-wide: a second request while one is in flight is rejected, not
// queued.
type Server struct {
	runner    CrawlRunner
	quotes    *stocks.Client
	symbolMap string
	logger    *slog.Logger

	crawlMu sync.Mutex
}

// New wires the handlers.
func New(runner CrawlRunner, quotes *stocks.Client, symbolMap string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		runner:    runner,
		quotes:    quotes,
		symbolMap: symbolMap,
		logger:    logger,
	}
}

// Router builds the gin engine with all routes attached.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/scrape", s.handleScrape)
	router.POST("/profanity", s.handleProfanity)
	router.GET("/stocks", s.handleStocks)

	return router
}

func (s *Server) handleScrape(c *gin.Context) {
	raw := c.DefaultQuery("cutoff", defaultCutoff)
	cutoff, err := time.Parse(cutoffLayout, raw)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Invalid cutoff (expected YYYY-MM-DD)"})
		return
	}

	if !s.crawlMu.TryLock() {
		c.JSON(http.StatusConflict, gin.H{"detail": "Crawler is already running"})
		return
	}
	defer s.crawlMu.Unlock()

	records, err := s.runner.Crawl(c.Request.Context(), cutoff)
	if err != nil {
		s.logger.Error("crawl run failed", "cutoff", raw, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Crawl failed: " + truncate(err.Error(), maxDetailLen)})
		return
	}

	if records == nil {
		records = []domain.ArticleRecord{}
	}
	c.JSON(http.StatusOK, records)
}

type profanityRequest struct {
	Text string `json:"text" binding:"required"`
	URL  string `json:"url" binding:"required"`
}

func (s *Server) handleProfanity(c *gin.Context) {
	var req profanityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"text": goaway.Censor(req.Text), "url": req.URL})
}

func (s *Server) handleStocks(c *gin.Context) {
	var symbols map[string]string
	if err := json.Unmarshal([]byte(s.symbolMap), &symbols); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Invalid SYMBOL_MAP configuration in environment"})
		return
	}

	var quotes []stocks.Quote
	if s.quotes != nil {
		quotes = s.quotes.Collect(c.Request.Context(), symbols)
	}

	out := make([]gin.H, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, gin.H{"output": q})
	}
	c.JSON(http.StatusOK, out)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
