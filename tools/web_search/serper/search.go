package serper

import (
	"context"

	"github.com/mohammad-safakhou/compscout/internal/httpx"
	"github.com/mohammad-safakhou/compscout/tools/web_search/models"
)

type Search struct {
	ApiKey string
	HTTP   *httpx.Client
}

func (s Search) SearchText(ctx context.Context, q string, max int) ([]models.Result, error) {
	// https://serper.dev/ docs
	payload := map[string]any{"q": q, "num": max}
	headers := map[string]string{"X-API-KEY": s.ApiKey}
	var raw struct {
		Organic []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"organic"`
	}
	if err := s.HTTP.DoJSON(ctx, "POST", "https://google.serper.dev/search", headers, payload, &raw); err != nil {
		return nil, err
	}
	var out []models.Result
	for i, r := range raw.Organic {
		if i >= max {
			break
		}
		out = append(out, models.Result{Title: r.Title, URL: r.Link, Snippet: r.Snippet})
	}
	return out, nil
}
