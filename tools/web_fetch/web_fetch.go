package web_fetch

import (
	"context"
	"errors"
	"time"

	"github.com/mohammad-safakhou/compscout/config"
	"github.com/mohammad-safakhou/compscout/internal/httpx"
	cdp "github.com/mohammad-safakhou/compscout/tools/web_fetch/chromedp"
	"github.com/mohammad-safakhou/compscout/tools/web_fetch/firecrawl"
	"github.com/mohammad-safakhou/compscout/tools/web_fetch/models"
)

// Fetcher retrieves one page and returns its content plus metadata.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (models.Result, error)
}

type FetcherType string

const (
	FirecrawlFetcherType FetcherType = "firecrawl"
	ChromedpFetcherType  FetcherType = "chromedp"
)

var ErrUnsupportedFetcher = errors.New("unsupported fetcher type")

// NewFetcher builds the configured crawl provider client.
func NewFetcher(cfg config.CrawlConfig) (Fetcher, error) {
	switch FetcherType(cfg.Provider) {
	case FirecrawlFetcherType, "":
		httpc := httpx.NewClient(cfg.Timeout, cfg.MaxRetries, 500*time.Millisecond)
		return &firecrawl.Scraper{ApiKey: cfg.APIKey, BaseURL: cfg.BaseURL, WaitMS: cfg.WaitMS, HTTP: httpc}, nil
	case ChromedpFetcherType:
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		maxChars := cfg.MaxChars
		if maxChars <= 0 {
			maxChars = 20000
		}
		return cdp.Fetch{Timeout: timeout, MaxChars: maxChars}, nil
	default:
		return nil, ErrUnsupportedFetcher
	}
}
