package brave

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mohammad-safakhou/compscout/internal/httpx"
	"github.com/mohammad-safakhou/compscout/tools/web_search/models"
)

type Search struct {
	ApiKey string
	HTTP   *httpx.Client
}

func (s Search) SearchText(ctx context.Context, q string, max int) ([]models.Result, error) {
	// https://api.search.brave.com/app/documentation/web-search
	endpoint := fmt.Sprintf("https://api.search.brave.com/res/v1/web/search?q=%s&count=%d", url.QueryEscape(q), max)
	headers := map[string]string{
		"Accept":               "application/json",
		"X-Subscription-Token": s.ApiKey,
	}
	var raw struct {
		Web struct {
			Results []struct {
				Title   string `json:"title"`
				URL     string `json:"url"`
				Snippet string `json:"description"`
			} `json:"results"`
		} `json:"web"`
	}
	if err := s.HTTP.DoJSON(ctx, "GET", endpoint, headers, nil, &raw); err != nil {
		return nil, err
	}
	var out []models.Result
	for i, r := range raw.Web.Results {
		if i >= max {
			break
		}
		out = append(out, models.Result{Title: r.Title, URL: r.URL, Snippet: r.Snippet})
	}
	return out, nil
}
