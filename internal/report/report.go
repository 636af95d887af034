// Package report maps normalized LLM payloads into the typed response
// structures served by the API and consumed by export. Mapping is lossy by
// design: unexpected payload shapes degrade to empty fields, never errors.
package report

import (
	"time"
)

// CompetitorInfo identifies one analyzed or compared company.
type CompetitorInfo struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	Industry    string `json:"industry,omitempty"`
	Size        string `json:"size,omitempty"`
	Founded     string `json:"founded,omitempty"`
}

// PricingStrategy summarizes a company's pricing posture.
type PricingStrategy struct {
	Model        string `json:"model"`
	Positioning  string `json:"positioning"`
	Transparency string `json:"transparency"`
}

// AnalysisReport is the per-competitor analysis served to clients.
type AnalysisReport struct {
	Company             CompetitorInfo  `json:"company"`
	Strengths           []string        `json:"strengths"`
	Weaknesses          []string        `json:"weaknesses"`
	Pricing             PricingStrategy `json:"pricing"`
	MarketPosition      string          `json:"market_position"`
	KeyDifferentiators  []string        `json:"key_differentiators"`
	GrowthOpportunities []string        `json:"growth_opportunities"`
	MarketGaps          []string        `json:"market_gaps"`
	Error               string          `json:"error,omitempty"`
}

// ComparisonItem is one row of a head-to-head feature comparison.
type ComparisonItem struct {
	Feature   string `json:"feature"`
	CompanyA  string `json:"company_a"`
	CompanyB  string `json:"company_b"`
	Advantage string `json:"advantage"`
}

// ComparisonReport is the head-to-head comparison served to clients.
type ComparisonReport struct {
	CompanyA          CompetitorInfo   `json:"company_a"`
	CompanyB          CompetitorInfo   `json:"company_b"`
	Comparisons       []ComparisonItem `json:"comparisons"`
	OverallAssessment string           `json:"overall_assessment"`
	Recommendations   []string         `json:"recommendations"`
}

// DiscoveryResponse is the API payload for a discovery request.
type DiscoveryResponse struct {
	Competitors interface{} `json:"competitors"`
	TotalFound  int         `json:"total_found"`
	Timestamp   time.Time   `json:"timestamp"`
}

// AnalysisResponse is the API payload for an analysis request.
type AnalysisResponse struct {
	Reports   []AnalysisReport `json:"reports"`
	Summary   string           `json:"summary"`
	Timestamp time.Time        `json:"timestamp"`
	ReportID  string           `json:"report_id,omitempty"`
}

// ComparisonResponse is the API payload for a comparison request.
type ComparisonResponse struct {
	Report    ComparisonReport `json:"report"`
	Timestamp time.Time        `json:"timestamp"`
	ReportID  string           `json:"report_id,omitempty"`
}

// AnalysisEntry pairs a competitor URL with its normalized analysis payload,
// or a failure message when the analysis did not run.
type AnalysisEntry struct {
	URL      string
	Analysis map[string]interface{}
	Error    string
}

// BuildAnalysisResponse assembles the typed analysis response from
// per-competitor entries.
func BuildAnalysisResponse(entries []AnalysisEntry, summary string) AnalysisResponse {
	reports := make([]AnalysisReport, 0, len(entries))
	for _, e := range entries {
		reports = append(reports, buildAnalysisReport(e))
	}
	return AnalysisResponse{
		Reports:   reports,
		Summary:   summary,
		Timestamp: time.Now().UTC(),
	}
}

func buildAnalysisReport(e AnalysisEntry) AnalysisReport {
	if e.Error != "" {
		return AnalysisReport{
			Company: CompetitorInfo{Name: "Unknown", URL: e.URL},
			Error:   e.Error,
		}
	}
	pricing := Obj(e.Analysis, "pricing_strategy")
	return AnalysisReport{
		Company: CompetitorInfo{
			Name:     Str(e.Analysis, "company_name"),
			URL:      e.URL,
			Industry: Str(e.Analysis, "industry"),
		},
		Strengths:  StrList(e.Analysis, "strengths"),
		Weaknesses: StrList(e.Analysis, "weaknesses"),
		Pricing: PricingStrategy{
			Model:        Str(pricing, "model"),
			Positioning:  Str(pricing, "positioning"),
			Transparency: Str(pricing, "transparency"),
		},
		MarketPosition:      Str(e.Analysis, "market_position"),
		KeyDifferentiators:  StrList(e.Analysis, "key_differentiators"),
		GrowthOpportunities: StrList(e.Analysis, "growth_opportunities"),
		MarketGaps:          StrList(e.Analysis, "market_gaps"),
	}
}

// BuildComparisonReport assembles the typed comparison report from the
// normalized comparison payload. Feature rows are labelled
// "<category>: <feature>" and kept in the order the payload lists them.
func BuildComparisonReport(payload map[string]interface{}, aURL, bURL string) ComparisonReport {
	companyA := Obj(payload, "company_a")
	companyB := Obj(payload, "company_b")

	report := ComparisonReport{
		CompanyA: CompetitorInfo{
			Name:        Str(companyA, "name"),
			URL:         aURL,
			Description: Str(companyA, "description"),
			Industry:    Str(companyA, "industry"),
		},
		CompanyB: CompetitorInfo{
			Name:        Str(companyB, "name"),
			URL:         bURL,
			Description: Str(companyB, "description"),
			Industry:    Str(companyB, "industry"),
		},
		OverallAssessment: Str(payload, "overall_assessment"),
	}

	features, _ := payload["feature_comparison"].([]interface{})
	for _, row := range features {
		item, ok := row.(map[string]interface{})
		if !ok {
			continue
		}
		advantage := Str(item, "advantage")
		if advantage == "" {
			advantage = "tie"
		}
		report.Comparisons = append(report.Comparisons, ComparisonItem{
			Feature:   Str(item, "category") + ": " + Str(item, "feature"),
			CompanyA:  Str(item, "company_a_value"),
			CompanyB:  Str(item, "company_b_value"),
			Advantage: advantage,
		})
	}

	recs := Obj(payload, "recommendations")
	report.Recommendations = append(report.Recommendations, StrList(recs, "for_company_a")...)
	report.Recommendations = append(report.Recommendations, StrList(recs, "for_company_b")...)
	report.Recommendations = append(report.Recommendations, StrList(recs, "market_opportunities")...)

	return report
}
