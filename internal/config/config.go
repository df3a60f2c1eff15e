package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "TMCRAWL_CONFIG"
	stateDirEnv   = "TM_STATE_DIR"
	baseURLEnv    = "TMCRAWL_BASE_URL"
	addrEnv       = "TMCRAWL_ADDR"
	logLevelEnv   = "TMCRAWL_LOG_LEVEL"
	alphaKeyEnv   = "ALPHAVANTAGE_API_KEY"
	symbolMapEnv  = "SYMBOL_MAP"
)

// Config holds all settings required across the application.
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Crawl   CrawlConfig   `yaml:"crawl"`
	State   StateConfig   `yaml:"state"`
	Server  ServerConfig  `yaml:"server"`
	Stocks  StocksConfig  `yaml:"stocks"`
	Logging LoggingConfig `yaml:"logging"`
}

// SiteConfig pins the crawl to one site: its entry point, its domain suffixes
// and the CSS selectors its pages answer to. Selectors are configuration, not
// core logic.
type SiteConfig struct {
	BaseURL     string         `yaml:"baseUrl"`
	Domains     []string       `yaml:"domains"`
	SectionPath string         `yaml:"sectionPath"`
	ArticlePath string         `yaml:"articlePath"`
	Selectors   SelectorConfig `yaml:"selectors"`
}

// SelectorConfig lists the extraction selectors in fallback priority order.
type SelectorConfig struct {
	Sections  []string `yaml:"sections"`
	Listing   []string `yaml:"listing"`
	NextPage  []string `yaml:"nextPage"`
	Title     []string `yaml:"title"`
	Date      string   `yaml:"date"`
	Company   string   `yaml:"company"`
	Body      []string `yaml:"body"`
	LooseBody string   `yaml:"looseBody"`
	Tags      string   `yaml:"tags"`
}

// CrawlConfig tunes the traversal and the fetcher behind it.
type CrawlConfig struct {
	SectionCap     int           `yaml:"sectionCap"`
	Delay          time.Duration `yaml:"delay"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
	UserAgent      string        `yaml:"userAgent"`
}

// StateConfig locates durable artifacts kept between runs.
type StateConfig struct {
	Dir string `yaml:"dir"`
}

// ServerConfig describes the HTTP service surface.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// StocksConfig wires the Alphavantage quote lookups.
type StocksConfig struct {
	Endpoint  string `yaml:"endpoint"`
	APIKey    string `yaml:"apiKey"`
	SymbolMap string `yaml:"symbolMap"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(stateDirEnv); v != "" {
		c.State.Dir = v
	}
	if v := os.Getenv(baseURLEnv); v != "" {
		c.Site.BaseURL = v
	}
	if v := os.Getenv(addrEnv); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(alphaKeyEnv); v != "" {
		c.Stocks.APIKey = v
	}
	if v := os.Getenv(symbolMapEnv); v != "" {
		c.Stocks.SymbolMap = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Site.BaseURL != "" {
		base.Site.BaseURL = override.Site.BaseURL
	}
	if len(override.Site.Domains) > 0 {
		base.Site.Domains = override.Site.Domains
	}
	if override.Site.SectionPath != "" {
		base.Site.SectionPath = override.Site.SectionPath
	}
	if override.Site.ArticlePath != "" {
		base.Site.ArticlePath = override.Site.ArticlePath
	}
	base.Site.Selectors = mergeSelectors(base.Site.Selectors, override.Site.Selectors)

	if override.Crawl.SectionCap > 0 {
		base.Crawl.SectionCap = override.Crawl.SectionCap
	}
	if override.Crawl.Delay > 0 {
		base.Crawl.Delay = override.Crawl.Delay
	}
	if override.Crawl.RequestTimeout > 0 {
		base.Crawl.RequestTimeout = override.Crawl.RequestTimeout
	}
	if override.Crawl.UserAgent != "" {
		base.Crawl.UserAgent = override.Crawl.UserAgent
	}

	if override.State.Dir != "" {
		base.State.Dir = override.State.Dir
	}
	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}

	if override.Stocks.Endpoint != "" {
		base.Stocks.Endpoint = override.Stocks.Endpoint
	}
	if override.Stocks.APIKey != "" {
		base.Stocks.APIKey = override.Stocks.APIKey
	}
	if override.Stocks.SymbolMap != "" {
		base.Stocks.SymbolMap = override.Stocks.SymbolMap
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func mergeSelectors(base, override SelectorConfig) SelectorConfig {
	if len(override.Sections) > 0 {
		base.Sections = override.Sections
	}
	if len(override.Listing) > 0 {
		base.Listing = override.Listing
	}
	if len(override.NextPage) > 0 {
		base.NextPage = override.NextPage
	}
	if len(override.Title) > 0 {
		base.Title = override.Title
	}
	if override.Date != "" {
		base.Date = override.Date
	}
	if override.Company != "" {
		base.Company = override.Company
	}
	if len(override.Body) > 0 {
		base.Body = override.Body
	}
	if override.LooseBody != "" {
		base.LooseBody = override.LooseBody
	}
	if override.Tags != "" {
		base.Tags = override.Tags
	}
	return base
}

func defaultConfig() Config {
	return Config{
		Site: SiteConfig{
			BaseURL:     "https://www.themanufacturer.com/",
			Domains:     []string{"themanufacturer.com", "www.themanufacturer.com"},
			SectionPath: "/channel/",
			ArticlePath: "/articles/",
			Selectors: SelectorConfig{
				Sections:  []string{"#menu-channels a", "header a[href*='/channel/']"},
				Listing:   []string{"h3.item-title a", "div.item-excerpt a", "a[href*='/articles/']"},
				NextPage:  []string{"a.next.page-numbers", "a.next", "link[rel='next']"},
				Title:     []string{"h1.page-title span", "h1.page-title"},
				Date:      "#single-article-date",
				Company:   "div.article-company a",
				Body:      []string{"div.single-article-content", "div.entry-content", "div.article-content", "article"},
				LooseBody: "p, li, h2, h3",
				Tags:      "div.post-terms ul.post-tags a",
			},
		},
		Crawl: CrawlConfig{
			SectionCap:     5,
			Delay:          500 * time.Millisecond,
			RequestTimeout: 20 * time.Second,
			UserAgent:      "Mozilla/5.0 (compatible; TMResearchBot/1.0; +https://example.org/contact)",
		},
		State:  StateConfig{Dir: ".state"},
		Server: ServerConfig{Addr: ":8080"},
		Stocks: StocksConfig{
			Endpoint:  "https://www.alphavantage.co/query",
			SymbolMap: "{}",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}
