package firecrawl

import (
	"context"
	"fmt"
	"strings"

	"github.com/mohammad-safakhou/compscout/internal/httpx"
	"github.com/mohammad-safakhou/compscout/tools/web_fetch/models"
)

const defaultBaseURL = "https://api.firecrawl.dev"

// Scraper fetches pages through the Firecrawl scrape API.
type Scraper struct {
	ApiKey  string
	BaseURL string
	WaitMS  int
	HTTP    *httpx.Client
}

type scrapeResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Markdown string `json:"markdown"`
		HTML     string `json:"html"`
		Metadata struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Keywords    string `json:"keywords"`
		} `json:"metadata"`
	} `json:"data"`
	Error string `json:"error"`
}

func (s *Scraper) Fetch(ctx context.Context, url string) (models.Result, error) {
	if strings.TrimSpace(url) == "" {
		return models.Result{}, fmt.Errorf("invalid url")
	}
	wait := s.WaitMS
	if wait <= 0 {
		wait = 3000
	}
	payload := map[string]any{
		"url":             url,
		"formats":         []string{"markdown", "html"},
		"includeTags":     []string{"title", "meta", "h1", "h2", "h3", "p", "div"},
		"onlyMainContent": true,
		"waitFor":         wait,
	}
	base := s.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	headers := map[string]string{"Authorization": "Bearer " + s.ApiKey}

	var resp scrapeResponse
	if err := s.HTTP.DoJSON(ctx, "POST", strings.TrimRight(base, "/")+"/v1/scrape", headers, payload, &resp); err != nil {
		return models.Result{}, fmt.Errorf("firecrawl error for %s: %w", url, err)
	}
	if !resp.Success {
		return models.Result{}, fmt.Errorf("firecrawl error for %s: %s", url, resp.Error)
	}

	return models.Result{
		Markdown: resp.Data.Markdown,
		HTML:     resp.Data.HTML,
		Metadata: models.Metadata{
			Title:       resp.Data.Metadata.Title,
			Description: resp.Data.Metadata.Description,
			Keywords:    splitKeywords(resp.Data.Metadata.Keywords),
		},
	}, nil
}

func splitKeywords(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
