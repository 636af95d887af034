// Package export renders analysis and comparison reports as downloadable
// CSV or JSON documents.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mohammad-safakhou/compscout/internal/report"
)

const (
	FormatCSV  = "csv"
	FormatJSON = "json"

	TypeAnalysis   = "analysis"
	TypeComparison = "comparison"
)

// Export renders the given report payload in the requested format and
// returns the document together with its content type.
func Export(format, dataType string, data json.RawMessage) ([]byte, string, error) {
	switch format {
	case FormatJSON:
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return nil, "", fmt.Errorf("invalid export data: %w", err)
		}
		return buf.Bytes(), "application/json", nil
	case FormatCSV:
		doc, err := exportCSV(dataType, data)
		if err != nil {
			return nil, "", err
		}
		return doc, "text/csv", nil
	default:
		return nil, "", fmt.Errorf("unsupported export format: %q", format)
	}
}

func exportCSV(dataType string, data json.RawMessage) ([]byte, error) {
	switch dataType {
	case TypeAnalysis:
		var resp report.AnalysisResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, fmt.Errorf("invalid analysis export data: %w", err)
		}
		return analysisCSV(resp.Reports)
	case TypeComparison:
		var rep report.ComparisonReport
		if err := json.Unmarshal(data, &rep); err != nil {
			return nil, fmt.Errorf("invalid comparison export data: %w", err)
		}
		return comparisonCSV(rep)
	default:
		return nil, fmt.Errorf("unsupported export data type: %q", dataType)
	}
}

func analysisCSV(reports []report.AnalysisReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"Company Name", "URL", "Industry", "Market Position",
		"Strengths", "Weaknesses", "Key Differentiators",
		"Growth Opportunities", "Market Gaps",
		"Pricing Model", "Pricing Positioning", "Pricing Transparency",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, r := range reports {
		row := []string{
			r.Company.Name,
			r.Company.URL,
			r.Company.Industry,
			r.MarketPosition,
			joinList(r.Strengths),
			joinList(r.Weaknesses),
			joinList(r.KeyDifferentiators),
			joinList(r.GrowthOpportunities),
			joinList(r.MarketGaps),
			r.Pricing.Model,
			r.Pricing.Positioning,
			r.Pricing.Transparency,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

func comparisonCSV(rep report.ComparisonReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Metric", "Company A", "Company B", "Advantage"}); err != nil {
		return nil, err
	}
	if err := w.Write([]string{
		"Company Information",
		companyLabel(rep.CompanyA),
		companyLabel(rep.CompanyB),
		"N/A",
	}); err != nil {
		return nil, err
	}

	for _, item := range rep.Comparisons {
		if err := w.Write([]string{item.Feature, item.CompanyA, item.CompanyB, item.Advantage}); err != nil {
			return nil, err
		}
	}
	if rep.OverallAssessment != "" {
		if err := w.Write([]string{"Overall Assessment", rep.OverallAssessment, "", "N/A"}); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

func companyLabel(c report.CompetitorInfo) string {
	if c.Industry == "" {
		return c.Name
	}
	return fmt.Sprintf("%s (%s)", c.Name, c.Industry)
}

func joinList(items []string) string {
	return strings.Join(items, "; ")
}
