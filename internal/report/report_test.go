package report

import (
	"reflect"
	"testing"
)

func TestBuildAnalysisResponse(t *testing.T) {
	t.Parallel()

	entries := []AnalysisEntry{
		{
			URL: "https://good.test",
			Analysis: map[string]interface{}{
				"company_name":    "Good Co",
				"industry":        "Widgets",
				"strengths":       []interface{}{"fast", "cheap"},
				"market_position": "leader",
				"pricing_strategy": map[string]interface{}{
					"model": "subscription", "positioning": "premium", "transparency": "high",
				},
			},
		},
		{URL: "https://bad.test", Error: "crawl failed: timeout"},
	}

	resp := BuildAnalysisResponse(entries, "two companies")

	if resp.Summary != "two companies" {
		t.Fatalf("summary = %q", resp.Summary)
	}
	if len(resp.Reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(resp.Reports))
	}

	good := resp.Reports[0]
	if good.Company.Name != "Good Co" || good.Company.URL != "https://good.test" || good.Company.Industry != "Widgets" {
		t.Fatalf("company = %+v", good.Company)
	}
	if !reflect.DeepEqual(good.Strengths, []string{"fast", "cheap"}) {
		t.Fatalf("strengths = %v", good.Strengths)
	}
	if good.Pricing.Model != "subscription" || good.Pricing.Transparency != "high" {
		t.Fatalf("pricing = %+v", good.Pricing)
	}
	if good.Error != "" {
		t.Fatalf("unexpected error on good report: %q", good.Error)
	}

	bad := resp.Reports[1]
	if bad.Error != "crawl failed: timeout" || bad.Company.Name != "Unknown" {
		t.Fatalf("bad report = %+v", bad)
	}
	if resp.Timestamp.IsZero() {
		t.Fatalf("timestamp not set")
	}
}

func TestBuildAnalysisReportToleratesWrongShapes(t *testing.T) {
	t.Parallel()

	entries := []AnalysisEntry{{
		URL: "https://odd.test",
		Analysis: map[string]interface{}{
			"company_name": 42,
			"strengths":    "not a list",
			"pricing_strategy": "not an object",
		},
	}}
	resp := BuildAnalysisResponse(entries, "")

	r := resp.Reports[0]
	if r.Company.Name != "" || r.Strengths != nil || r.Pricing.Model != "" {
		t.Fatalf("wrong shapes should degrade to zero values: %+v", r)
	}
}

func TestBuildComparisonReport(t *testing.T) {
	t.Parallel()

	payload := map[string]interface{}{
		"company_a": map[string]interface{}{"name": "A Co", "industry": "widgets"},
		"company_b": map[string]interface{}{"name": "B Co", "industry": "gadgets"},
		"feature_comparison": []interface{}{
			map[string]interface{}{
				"category": "pricing", "feature": "free tier",
				"company_a_value": "yes", "company_b_value": "no", "advantage": "company_a",
			},
			map[string]interface{}{
				"category": "features", "feature": "api",
				"company_a_value": "rest", "company_b_value": "graphql",
			},
		},
		"overall_assessment": "close race",
		"recommendations": map[string]interface{}{
			"for_company_a":        []interface{}{"add graphql"},
			"for_company_b":        []interface{}{"add free tier"},
			"market_opportunities": []interface{}{"enterprise"},
		},
	}

	rep := BuildComparisonReport(payload, "https://a.test", "https://b.test")

	if rep.CompanyA.Name != "A Co" || rep.CompanyA.URL != "https://a.test" {
		t.Fatalf("company_a = %+v", rep.CompanyA)
	}
	if rep.CompanyB.Industry != "gadgets" {
		t.Fatalf("company_b = %+v", rep.CompanyB)
	}
	if len(rep.Comparisons) != 2 {
		t.Fatalf("got %d comparison rows, want 2", len(rep.Comparisons))
	}
	// rows keep the payload's order
	if rep.Comparisons[0].Feature != "pricing: free tier" || rep.Comparisons[0].CompanyA != "yes" || rep.Comparisons[0].Advantage != "company_a" {
		t.Fatalf("first row = %+v", rep.Comparisons[0])
	}
	if rep.Comparisons[1].Feature != "features: api" || rep.Comparisons[1].CompanyB != "graphql" {
		t.Fatalf("second row = %+v", rep.Comparisons[1])
	}
	if rep.Comparisons[1].Advantage != "tie" {
		t.Fatalf("missing advantage should default to tie: %+v", rep.Comparisons[1])
	}
	want := []string{"add graphql", "add free tier", "enterprise"}
	if !reflect.DeepEqual(rep.Recommendations, want) {
		t.Fatalf("recommendations = %v, want %v", rep.Recommendations, want)
	}
	if rep.OverallAssessment != "close race" {
		t.Fatalf("overall_assessment = %q", rep.OverallAssessment)
	}
}

func TestBuildComparisonReportEmptyPayload(t *testing.T) {
	t.Parallel()

	rep := BuildComparisonReport(map[string]interface{}{}, "https://a.test", "https://b.test")
	if rep.CompanyA.URL != "https://a.test" || rep.CompanyB.URL != "https://b.test" {
		t.Fatalf("urls should come from the request: %+v", rep)
	}
	if len(rep.Comparisons) != 0 || len(rep.Recommendations) != 0 {
		t.Fatalf("empty payload should yield empty rows: %+v", rep)
	}
}
