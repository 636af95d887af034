package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/mohammad-safakhou/compscout/config"
	"github.com/mohammad-safakhou/compscout/internal/agent/telemetry"
	"github.com/mohammad-safakhou/compscout/provider"
)

const (
	maxContentChars    = 4000
	maxStructuredChars = 2000
)

// AnalysisAgent turns crawl results into per-competitor analysis payloads
// plus a cross-competitor summary. One LLM call per successful crawl result,
// one more for the summary; a failed analysis is recorded inline and never
// stops the batch.
type AnalysisAgent struct {
	llm       provider.LLM
	cfg       config.LLMConfig
	logger    *log.Logger
	telemetry *telemetry.Telemetry
}

func NewAnalysisAgent(cfg config.LLMConfig, llm provider.LLM, tel *telemetry.Telemetry) *AnalysisAgent {
	return &AnalysisAgent{
		llm:       llm,
		cfg:       cfg,
		logger:    log.New(os.Stdout, "[ANALYSIS-AGENT] ", log.LstdFlags),
		telemetry: tel,
	}
}

func (a *AnalysisAgent) Name() string { return "analysis" }

func (a *AnalysisAgent) Execute(ctx context.Context, params map[string]interface{}) (map[string]interface{}, error) {
	crawlResults, ok := params["crawl_data"].([]CrawlResult)
	if !ok {
		return nil, fmt.Errorf("crawl_data is required for analysis")
	}

	analyses := make([]CompetitorAnalysis, 0, len(crawlResults))
	successes := 0
	for _, cr := range crawlResults {
		if !cr.Success || cr.Data == nil {
			continue
		}
		analysis, err := a.analyzeOne(ctx, cr)
		if err != nil {
			a.logger.Printf("analysis failed for %s: %v", cr.URL, err)
			analyses = append(analyses, CompetitorAnalysis{URL: cr.URL, Error: err.Error(), Success: false})
			continue
		}
		analyses = append(analyses, CompetitorAnalysis{URL: cr.URL, Analysis: analysis, Success: true})
		successes++
	}

	summary := a.summarize(ctx, analyses)

	return map[string]interface{}{
		"competitor_analyses": analyses,
		"summary":             summary,
		"total_analyzed":      successes,
	}, nil
}

func (a *AnalysisAgent) analyzeOne(ctx context.Context, cr CrawlResult) (map[string]interface{}, error) {
	prompt := a.buildAnalysisPrompt(cr)
	raw, tokens, err := a.llm.GenerateWithTokens(ctx, prompt)
	a.telemetry.RecordLLMUsage("analysis", tokens, float64(tokens)/1000*a.cfg.CostPer1K)
	if err != nil {
		return nil, err
	}
	return NormalizeAnalysis(raw), nil
}

func (a *AnalysisAgent) buildAnalysisPrompt(cr CrawlResult) string {
	content := truncate(cr.Data.Content, maxContentChars)
	structured, _ := json.Marshal(cr.Data.Structured)

	var b strings.Builder
	b.WriteString("Analyze this competitor website data and provide a structured analysis.\n\n")
	fmt.Fprintf(&b, "URL: %s\n", cr.URL)
	fmt.Fprintf(&b, "Title: %s\n", cr.Data.Metadata.Title)
	fmt.Fprintf(&b, "Description: %s\n\n", cr.Data.Metadata.Description)
	fmt.Fprintf(&b, "Content:\n%s\n\n", content)
	fmt.Fprintf(&b, "Structured data:\n%s\n\n", truncate(string(structured), maxStructuredChars))
	b.WriteString(`Respond with a JSON object only, using exactly these fields:
{
  "company_name": "...",
  "industry": "...",
  "strengths": ["..."],
  "weaknesses": ["..."],
  "pricing_strategy": {"model": "...", "positioning": "...", "transparency": "..."},
  "market_position": "...",
  "key_differentiators": ["..."],
  "growth_opportunities": ["..."],
  "market_gaps": ["..."]
}`)
	return b.String()
}

func (a *AnalysisAgent) summarize(ctx context.Context, analyses []CompetitorAnalysis) string {
	successful := make([]CompetitorAnalysis, 0, len(analyses))
	for _, an := range analyses {
		if an.Success {
			successful = append(successful, an)
		}
	}
	if len(successful) == 0 {
		return "No successful analyses to summarize."
	}

	var b strings.Builder
	b.WriteString("Summarize the competitive landscape based on these competitor analyses. ")
	b.WriteString("Highlight common strengths, shared weaknesses and open market gaps in a few paragraphs of plain text.\n\n")
	for _, an := range successful {
		payload, _ := json.Marshal(an.Analysis)
		fmt.Fprintf(&b, "Competitor %s:\n%s\n\n", an.URL, truncate(string(payload), maxStructuredChars))
	}

	summary, tokens, err := a.llm.GenerateWithTokens(ctx, b.String())
	a.telemetry.RecordLLMUsage("summary", tokens, float64(tokens)/1000*a.cfg.CostPer1K)
	if err != nil {
		a.logger.Printf("summary generation failed: %v", err)
		return fmt.Sprintf("Failed to generate summary analysis: %v", err)
	}
	return summary
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
