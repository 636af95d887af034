package web_search

import (
	"context"
	"errors"
	"time"

	"github.com/mohammad-safakhou/compscout/config"
	"github.com/mohammad-safakhou/compscout/internal/httpx"
	"github.com/mohammad-safakhou/compscout/tools/web_search/brave"
	"github.com/mohammad-safakhou/compscout/tools/web_search/exa"
	"github.com/mohammad-safakhou/compscout/tools/web_search/models"
	"github.com/mohammad-safakhou/compscout/tools/web_search/serper"
)

// KeywordSearcher performs a plain keyword web search.
type KeywordSearcher interface {
	SearchText(ctx context.Context, q string, max int) ([]models.Result, error)
}

// SemanticSearcher finds pages by similarity to a URL or a free-form query.
type SemanticSearcher interface {
	FindSimilar(ctx context.Context, url string, k int, excludeDomains []string) ([]models.Result, error)
	Search(ctx context.Context, query string, k int, excludeDomains []string) ([]models.Result, error)
}

type Provider string

const (
	BraveProvider  Provider = "brave"
	SerperProvider Provider = "serper"
)

var ErrUnsupportedProvider = errors.New("unsupported search provider")

// NewKeywordSearcher builds the configured keyword search client.
func NewKeywordSearcher(cfg config.KeywordSearchConfig) (KeywordSearcher, error) {
	httpc := httpx.NewClient(cfg.Timeout, cfg.MaxRetries, 300*time.Millisecond)
	switch Provider(cfg.Provider) {
	case BraveProvider, "":
		return brave.Search{ApiKey: cfg.APIKey, HTTP: httpc}, nil
	case SerperProvider:
		return serper.Search{ApiKey: cfg.APIKey, HTTP: httpc}, nil
	default:
		return nil, ErrUnsupportedProvider
	}
}

// NewSemanticSearcher builds the similarity search client. A missing API key
// yields a nil searcher; discovery treats that source as unavailable.
func NewSemanticSearcher(cfg config.SemanticSearchConfig) (SemanticSearcher, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}
	httpc := httpx.NewClient(cfg.Timeout, cfg.MaxRetries, 300*time.Millisecond)
	return &exa.Search{ApiKey: cfg.APIKey, BaseURL: cfg.BaseURL, HTTP: httpc}, nil
}
