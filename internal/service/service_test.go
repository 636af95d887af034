package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/mohammad-safakhou/compscout/internal/agent/core"
	fetchmodels "github.com/mohammad-safakhou/compscout/tools/web_fetch/models"
)

type stubAgent struct {
	name    string
	execute func(ctx context.Context, params map[string]interface{}) (map[string]interface{}, error)
}

func (s stubAgent) Name() string { return s.name }
func (s stubAgent) Execute(ctx context.Context, params map[string]interface{}) (map[string]interface{}, error) {
	return s.execute(ctx, params)
}

func crawlStub(results []core.CrawlResult) stubAgent {
	return stubAgent{name: "crawl", execute: func(ctx context.Context, params map[string]interface{}) (map[string]interface{}, error) {
		return map[string]interface{}{
			"crawl_results":     results,
			"total_urls":        len(results),
			"successful_crawls": len(results),
		}, nil
	}}
}

func page(url string) core.CrawlResult {
	return core.CrawlResult{
		URL:     url,
		Success: true,
		Data:    &core.PageData{Content: "content", Metadata: fetchmodels.Metadata{Title: url}},
	}
}

func TestAnalyzeCompetitorsMapsResultsAndFailures(t *testing.T) {
	t.Parallel()

	orch := core.NewOrchestrator(nil)
	orch.Register(crawlStub([]core.CrawlResult{
		page("https://good.test"),
		{URL: "https://down.test", Success: false, Error: "timeout"},
	}))
	orch.Register(stubAgent{name: "analysis", execute: func(ctx context.Context, params map[string]interface{}) (map[string]interface{}, error) {
		crawlData := params["crawl_data"].([]core.CrawlResult)
		if len(crawlData) != 2 {
			return nil, fmt.Errorf("expected crawl data to be forwarded")
		}
		return map[string]interface{}{
			"competitor_analyses": []core.CompetitorAnalysis{
				{URL: "https://good.test", Success: true, Analysis: map[string]interface{}{"company_name": "Good Co"}},
			},
			"summary":        "one company analyzed",
			"total_analyzed": 1,
		}, nil
	}})

	resp, err := New(orch).AnalyzeCompetitors(context.Background(), []string{"https://good.test", "https://down.test"})
	if err != nil {
		t.Fatalf("AnalyzeCompetitors returned error: %v", err)
	}
	if len(resp.Reports) != 2 {
		t.Fatalf("got %d reports, want one per url", len(resp.Reports))
	}
	if resp.Reports[0].Company.Name != "Good Co" {
		t.Fatalf("first report = %+v", resp.Reports[0])
	}
	if resp.Reports[1].Error == "" {
		t.Fatalf("second report should carry the crawl failure: %+v", resp.Reports[1])
	}
	if resp.Summary != "one company analyzed" {
		t.Fatalf("summary = %q", resp.Summary)
	}
}

func TestAnalyzeCompetitorsCrawlAgentFailure(t *testing.T) {
	t.Parallel()

	orch := core.NewOrchestrator(nil)
	orch.Register(stubAgent{name: "crawl", execute: func(context.Context, map[string]interface{}) (map[string]interface{}, error) {
		return nil, fmt.Errorf("urls are required for crawling")
	}})

	_, err := New(orch).AnalyzeCompetitors(context.Background(), nil)
	if err == nil {
		t.Fatalf("expected error when crawl agent fails")
	}
}

func TestCompareCompetitorsRequiresBothCrawls(t *testing.T) {
	t.Parallel()

	orch := core.NewOrchestrator(nil)
	orch.Register(crawlStub([]core.CrawlResult{
		page("https://a.test"),
		{URL: "https://b.test", Success: false, Error: "refused"},
	}))

	_, err := New(orch).CompareCompetitors(context.Background(), "https://a.test", "https://b.test")
	if err == nil {
		t.Fatalf("expected error when one side fails to crawl")
	}
}

func TestCompareCompetitorsBuildsReport(t *testing.T) {
	t.Parallel()

	orch := core.NewOrchestrator(nil)
	orch.Register(crawlStub([]core.CrawlResult{page("https://a.test"), page("https://b.test")}))
	orch.Register(stubAgent{name: "comparison", execute: func(ctx context.Context, params map[string]interface{}) (map[string]interface{}, error) {
		a := params["company_a_data"].(core.CrawlResult)
		b := params["company_b_data"].(core.CrawlResult)
		if a.URL != "https://a.test" || b.URL != "https://b.test" {
			return nil, fmt.Errorf("crawl results matched to the wrong sides")
		}
		return map[string]interface{}{
			"comparison": map[string]interface{}{
				"company_a":          map[string]interface{}{"name": "A Co"},
				"company_b":          map[string]interface{}{"name": "B Co"},
				"overall_assessment": "tie",
			},
			"success": true,
		}, nil
	}})

	rep, err := New(orch).CompareCompetitors(context.Background(), "https://a.test", "https://b.test")
	if err != nil {
		t.Fatalf("CompareCompetitors returned error: %v", err)
	}
	if rep.CompanyA.Name != "A Co" || rep.CompanyA.URL != "https://a.test" {
		t.Fatalf("company_a = %+v", rep.CompanyA)
	}
	if rep.OverallAssessment != "tie" {
		t.Fatalf("overall_assessment = %q", rep.OverallAssessment)
	}
}
