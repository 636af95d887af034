package exa

import (
	"context"
	"strings"

	"github.com/mohammad-safakhou/compscout/internal/httpx"
	"github.com/mohammad-safakhou/compscout/tools/web_search/models"
)

const defaultBaseURL = "https://api.exa.ai"

// Search is a client for the Exa neural search API.
type Search struct {
	ApiKey  string
	BaseURL string
	HTTP    *httpx.Client
}

type rawResponse struct {
	Results []struct {
		Title string `json:"title"`
		URL   string `json:"url"`
		Text  string `json:"text"`
	} `json:"results"`
}

// FindSimilar returns pages similar to the given URL.
func (s *Search) FindSimilar(ctx context.Context, url string, k int, excludeDomains []string) ([]models.Result, error) {
	payload := map[string]any{
		"url":            url,
		"numResults":     k,
		"excludeDomains": excludeDomains,
		"contents":       map[string]any{"text": true},
	}
	return s.call(ctx, "/findSimilar", payload, k)
}

// Search returns pages matching a free-form semantic query.
func (s *Search) Search(ctx context.Context, query string, k int, excludeDomains []string) ([]models.Result, error) {
	payload := map[string]any{
		"query":          query,
		"numResults":     k,
		"excludeDomains": excludeDomains,
		"contents":       map[string]any{"text": true},
	}
	return s.call(ctx, "/search", payload, k)
}

func (s *Search) call(ctx context.Context, path string, payload map[string]any, k int) ([]models.Result, error) {
	base := s.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	headers := map[string]string{"x-api-key": s.ApiKey}
	var raw rawResponse
	if err := s.HTTP.DoJSON(ctx, "POST", strings.TrimRight(base, "/")+path, headers, payload, &raw); err != nil {
		return nil, err
	}
	var out []models.Result
	for i, r := range raw.Results {
		if i >= k {
			break
		}
		out = append(out, models.Result{Title: r.Title, URL: r.URL, Snippet: r.Text})
	}
	return out, nil
}
