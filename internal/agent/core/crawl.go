package core

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mohammad-safakhou/compscout/config"
	"github.com/mohammad-safakhou/compscout/internal/agent/telemetry"
	"github.com/mohammad-safakhou/compscout/tools/web_fetch"
)

// CrawlAgent fetches a batch of pages and derives structured signals from
// each. URLs are crawled strictly one after another; a failed URL is recorded
// and the batch keeps going.
type CrawlAgent struct {
	fetcher   web_fetch.Fetcher
	timeout   time.Duration
	logger    *log.Logger
	telemetry *telemetry.Telemetry
}

func NewCrawlAgent(cfg config.CrawlConfig, fetcher web_fetch.Fetcher, tel *telemetry.Telemetry) *CrawlAgent {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CrawlAgent{
		fetcher:   fetcher,
		timeout:   timeout,
		logger:    log.New(os.Stdout, "[CRAWL-AGENT] ", log.LstdFlags),
		telemetry: tel,
	}
}

func (a *CrawlAgent) Name() string { return "crawl" }

// Execute crawls params["urls"]. Results keep the order of the input list and
// there is exactly one CrawlResult per requested URL.
func (a *CrawlAgent) Execute(ctx context.Context, params map[string]interface{}) (map[string]interface{}, error) {
	urls := toStringSlice(params["urls"])
	if len(urls) == 0 {
		return nil, fmt.Errorf("urls are required for crawling")
	}

	results := make([]CrawlResult, 0, len(urls))
	successful := 0
	for _, url := range urls {
		result := a.crawlOne(ctx, url)
		if result.Success {
			successful++
			a.telemetry.RecordCrawlPage("success")
		} else {
			a.telemetry.RecordCrawlPage("failure")
		}
		results = append(results, result)
	}
	a.logger.Printf("crawled %d/%d urls successfully", successful, len(urls))

	return map[string]interface{}{
		"crawl_results":     results,
		"total_urls":        len(urls),
		"successful_crawls": successful,
	}, nil
}

func (a *CrawlAgent) crawlOne(ctx context.Context, url string) CrawlResult {
	fetchCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	page, err := a.fetcher.Fetch(fetchCtx, url)
	if err != nil {
		a.logger.Printf("crawl failed for %s: %v", url, err)
		return CrawlResult{URL: url, Success: false, Error: err.Error()}
	}

	data := &PageData{
		Content:    page.Markdown,
		HTML:       page.HTML,
		Metadata:   page.Metadata,
		Structured: ExtractStructured(page.Markdown, page.Metadata),
	}
	return CrawlResult{URL: url, Success: true, Data: data}
}

// toStringSlice accepts the shapes "urls" shows up in: typed through public
// service calls, or []interface{} after a round trip through JSON.
func toStringSlice(v interface{}) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []interface{}:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
