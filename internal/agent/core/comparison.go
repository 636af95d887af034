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

// ComparisonAgent produces a head-to-head comparison of two crawled
// competitor sites in a single LLM call.
type ComparisonAgent struct {
	llm       provider.LLM
	cfg       config.LLMConfig
	logger    *log.Logger
	telemetry *telemetry.Telemetry
}

func NewComparisonAgent(cfg config.LLMConfig, llm provider.LLM, tel *telemetry.Telemetry) *ComparisonAgent {
	return &ComparisonAgent{
		llm:       llm,
		cfg:       cfg,
		logger:    log.New(os.Stdout, "[COMPARISON-AGENT] ", log.LstdFlags),
		telemetry: tel,
	}
}

func (a *ComparisonAgent) Name() string { return "comparison" }

// Execute compares company_a_data against company_b_data. An LLM failure is
// reported in the result payload rather than as an execution error so the
// caller still receives the URLs involved.
func (a *ComparisonAgent) Execute(ctx context.Context, params map[string]interface{}) (map[string]interface{}, error) {
	companyA, okA := params["company_a_data"].(CrawlResult)
	companyB, okB := params["company_b_data"].(CrawlResult)
	if !okA || !okB {
		return nil, fmt.Errorf("company_a_data and company_b_data are required for comparison")
	}

	prompt := a.buildComparisonPrompt(companyA, companyB)
	raw, tokens, err := a.llm.GenerateWithTokens(ctx, prompt)
	a.telemetry.RecordLLMUsage("comparison", tokens, float64(tokens)/1000*a.cfg.CostPer1K)
	if err != nil {
		a.logger.Printf("comparison failed for %s vs %s: %v", companyA.URL, companyB.URL, err)
		return map[string]interface{}{"error": err.Error(), "success": false}, nil
	}

	return map[string]interface{}{
		"comparison": NormalizeComparison(raw),
		"success":    true,
	}, nil
}

func (a *ComparisonAgent) buildComparisonPrompt(companyA, companyB CrawlResult) string {
	var b strings.Builder
	b.WriteString("Compare these two competitor websites head to head.\n\n")
	writeCompanySection(&b, "Company A", companyA)
	writeCompanySection(&b, "Company B", companyB)
	b.WriteString(`Respond with a JSON object only, using exactly these fields:
{
  "company_a": {"name": "...", "url": "...", "industry": "...", "description": "..."},
  "company_b": {"name": "...", "url": "...", "industry": "...", "description": "..."},
  "feature_comparison": [{"category": "...", "feature": "...", "company_a_value": "...", "company_b_value": "...", "advantage": "company_a|company_b|tie", "explanation": "..."}],
  "strengths_comparison": {"company_a_strengths": ["..."], "company_b_strengths": ["..."], "unique_to_a": ["..."], "unique_to_b": ["..."]},
  "weaknesses_comparison": {"company_a_weaknesses": ["..."], "company_b_weaknesses": ["..."], "common_weaknesses": ["..."]},
  "pricing_comparison": {"company_a_pricing": {"model": "...", "positioning": "...", "transparency": "..."}, "company_b_pricing": {"model": "...", "positioning": "...", "transparency": "..."}, "pricing_advantage": "company_a|company_b|tie", "pricing_analysis": "..."},
  "market_positioning": {"company_a_position": "...", "company_b_position": "...", "positioning_analysis": "..."},
  "competitive_dynamics": {"direct_competitors": true, "competition_level": "high|medium|low", "competitive_overlap": "..."},
  "overall_assessment": "...",
  "recommendations": {"for_company_a": ["..."], "for_company_b": ["..."], "market_opportunities": ["..."]}
}`)
	return b.String()
}

func writeCompanySection(b *strings.Builder, label string, cr CrawlResult) {
	fmt.Fprintf(b, "%s (%s):\n", label, cr.URL)
	if cr.Data == nil {
		b.WriteString("no data available\n\n")
		return
	}
	fmt.Fprintf(b, "Title: %s\n", cr.Data.Metadata.Title)
	fmt.Fprintf(b, "Content:\n%s\n", truncate(cr.Data.Content, maxStructuredChars))
	structured, _ := json.Marshal(cr.Data.Structured)
	fmt.Fprintf(b, "Structured data:\n%s\n\n", truncate(string(structured), maxStructuredChars))
}
