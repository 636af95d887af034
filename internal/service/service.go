// Package service composes agents into the crawl→analyze and crawl→compare
// workflows behind the API handlers.
package service

import (
	"context"
	"fmt"

	"github.com/mohammad-safakhou/compscout/internal/agent/core"
	"github.com/mohammad-safakhou/compscout/internal/report"
)

// Service runs multi-agent workflows through the orchestrator.
type Service struct {
	orch *core.Orchestrator
}

func New(orch *core.Orchestrator) *Service {
	return &Service{orch: orch}
}

// AnalyzeCompetitors crawls the given URLs and produces per-competitor
// analysis reports plus a summary. A URL that fails to crawl or analyze is
// reported with an inline error instead of dropping out of the result.
func (s *Service) AnalyzeCompetitors(ctx context.Context, urls []string) (report.AnalysisResponse, error) {
	results, err := s.orch.Run(ctx, []core.WorkflowStep{
		{Agent: "crawl", Action: "crawl competitor sites", Params: map[string]interface{}{"urls": urls}},
	})
	if err != nil {
		return report.AnalysisResponse{}, err
	}
	crawlResults, err := crawlResultsFrom(results["crawl"])
	if err != nil {
		return report.AnalysisResponse{}, err
	}

	results, err = s.orch.Run(ctx, []core.WorkflowStep{
		{Agent: "analysis", Action: "analyze crawled sites", Params: map[string]interface{}{"crawl_data": crawlResults}},
	})
	if err != nil {
		return report.AnalysisResponse{}, err
	}
	analysisResult := results["analysis"]
	if msg, ok := analysisResult["error"].(string); ok {
		return report.AnalysisResponse{}, fmt.Errorf("analysis failed: %s", msg)
	}

	entries := make([]report.AnalysisEntry, 0, len(crawlResults))
	analyses, _ := analysisResult["competitor_analyses"].([]core.CompetitorAnalysis)
	byURL := make(map[string]core.CompetitorAnalysis, len(analyses))
	for _, a := range analyses {
		byURL[a.URL] = a
	}
	for _, cr := range crawlResults {
		if !cr.Success {
			entries = append(entries, report.AnalysisEntry{URL: cr.URL, Error: fmt.Sprintf("crawl failed: %s", cr.Error)})
			continue
		}
		a, ok := byURL[cr.URL]
		if !ok {
			entries = append(entries, report.AnalysisEntry{URL: cr.URL, Error: "analysis not produced"})
			continue
		}
		if !a.Success {
			entries = append(entries, report.AnalysisEntry{URL: cr.URL, Error: a.Error})
			continue
		}
		entries = append(entries, report.AnalysisEntry{URL: cr.URL, Analysis: a.Analysis})
	}

	summary, _ := analysisResult["summary"].(string)
	return report.BuildAnalysisResponse(entries, summary), nil
}

// CompareCompetitors crawls both URLs and produces a head-to-head report.
// Unlike analysis, comparison needs both sides: a failed crawl on either URL
// fails the whole operation.
func (s *Service) CompareCompetitors(ctx context.Context, urlA, urlB string) (report.ComparisonReport, error) {
	results, err := s.orch.Run(ctx, []core.WorkflowStep{
		{Agent: "crawl", Action: "crawl both competitor sites", Params: map[string]interface{}{"urls": []string{urlA, urlB}}},
	})
	if err != nil {
		return report.ComparisonReport{}, err
	}
	crawlResults, err := crawlResultsFrom(results["crawl"])
	if err != nil {
		return report.ComparisonReport{}, err
	}

	var companyA, companyB *core.CrawlResult
	for i := range crawlResults {
		switch crawlResults[i].URL {
		case urlA:
			companyA = &crawlResults[i]
		case urlB:
			companyB = &crawlResults[i]
		}
	}
	if companyA == nil || !companyA.Success {
		return report.ComparisonReport{}, fmt.Errorf("failed to crawl %s", urlA)
	}
	if companyB == nil || !companyB.Success {
		return report.ComparisonReport{}, fmt.Errorf("failed to crawl %s", urlB)
	}

	results, err = s.orch.Run(ctx, []core.WorkflowStep{
		{Agent: "comparison", Action: "compare competitors", Params: map[string]interface{}{
			"company_a_data": *companyA,
			"company_b_data": *companyB,
		}},
	})
	if err != nil {
		return report.ComparisonReport{}, err
	}
	comparisonResult := results["comparison"]
	if msg, ok := comparisonResult["error"].(string); ok {
		return report.ComparisonReport{}, fmt.Errorf("comparison failed: %s", msg)
	}
	payload, ok := comparisonResult["comparison"].(map[string]interface{})
	if !ok {
		return report.ComparisonReport{}, fmt.Errorf("comparison produced no payload")
	}
	return report.BuildComparisonReport(payload, urlA, urlB), nil
}

func crawlResultsFrom(result map[string]interface{}) ([]core.CrawlResult, error) {
	if msg, ok := result["error"].(string); ok {
		return nil, fmt.Errorf("crawl failed: %s", msg)
	}
	crawlResults, ok := result["crawl_results"].([]core.CrawlResult)
	if !ok {
		return nil, fmt.Errorf("crawl produced no results")
	}
	return crawlResults, nil
}
