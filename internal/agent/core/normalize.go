package core

import (
	"encoding/json"
	"strings"
)

// schemaField describes one expected field of an LLM response payload.
// backfill fills the field when the model returned valid JSON but left it
// out; fallback supplies the value for the synthetic payload built when the
// response is not parseable at all.
type schemaField struct {
	name     string
	backfill func() interface{}
	fallback func() interface{}
}

func strField(name, backfill, fallback string) schemaField {
	return schemaField{
		name:     name,
		backfill: func() interface{} { return backfill },
		fallback: func() interface{} { return fallback },
	}
}

func listField(name string, fallback ...string) schemaField {
	return schemaField{
		name:     name,
		backfill: func() interface{} { return []interface{}{} },
		fallback: func() interface{} {
			out := make([]interface{}, 0, len(fallback))
			for _, v := range fallback {
				out = append(out, v)
			}
			return out
		},
	}
}

func unknownPricing() interface{} {
	return map[string]interface{}{"model": "unknown", "positioning": "unknown", "transparency": "unknown"}
}

var analysisFields = []schemaField{
	strField("company_name", "Not available", "Unknown"),
	strField("industry", "Not available", "Not identified"),
	listField("strengths", "Analysis failed"),
	listField("weaknesses", "Unable to determine"),
	{
		name: "pricing_strategy",
		backfill: func() interface{} {
			return map[string]interface{}{"model": "Not available", "positioning": "Not available", "transparency": "Not available"}
		},
		fallback: unknownPricing,
	},
	strField("market_position", "Not available", "unknown"),
	listField("key_differentiators", "Unable to analyze"),
	listField("growth_opportunities", "Analysis incomplete"),
	listField("market_gaps", "Analysis incomplete"),
}

func defaultCompany(name string) func() interface{} {
	return func() interface{} {
		return map[string]interface{}{"name": name, "url": "", "industry": "Unknown", "description": ""}
	}
}

func emptyRecommendations() interface{} {
	return map[string]interface{}{
		"for_company_a":        []interface{}{},
		"for_company_b":        []interface{}{},
		"market_opportunities": []interface{}{},
	}
}

// feature_comparison is a sequence of per-feature rows, kept in the order
// the model produced them.
var comparisonFields = []schemaField{
	{name: "company_a", backfill: defaultCompany("Company A"), fallback: defaultCompany("Company A")},
	{name: "company_b", backfill: defaultCompany("Company B"), fallback: defaultCompany("Company B")},
	{
		name:     "feature_comparison",
		backfill: func() interface{} { return []interface{}{} },
		fallback: func() interface{} { return []interface{}{} },
	},
	strField("overall_assessment", "Comparison analysis unavailable", "Comparison failed"),
	{name: "recommendations", backfill: emptyRecommendations, fallback: func() interface{} {
		return map[string]interface{}{
			"for_company_a":        []interface{}{"Analysis incomplete"},
			"for_company_b":        []interface{}{"Analysis incomplete"},
			"market_opportunities": []interface{}{"Analysis incomplete"},
		}
	}},
}

// comparisonFallbackExtras extends the synthetic comparison payload with the
// sections readers expect even though missing ones are never backfilled on a
// successful parse.
func comparisonFallbackExtras() map[string]interface{} {
	return map[string]interface{}{
		"strengths_comparison": map[string]interface{}{
			"company_a_strengths": []interface{}{},
			"company_b_strengths": []interface{}{},
			"unique_to_a":         []interface{}{},
			"unique_to_b":         []interface{}{},
		},
		"weaknesses_comparison": map[string]interface{}{
			"company_a_weaknesses": []interface{}{},
			"company_b_weaknesses": []interface{}{},
			"common_weaknesses":    []interface{}{},
		},
		"pricing_comparison": map[string]interface{}{
			"company_a_pricing": unknownPricing(),
			"company_b_pricing": unknownPricing(),
			"pricing_advantage": "tie",
			"pricing_analysis":  "Unable to analyze pricing",
		},
		"market_positioning": map[string]interface{}{
			"company_a_position":   "unknown",
			"company_b_position":   "unknown",
			"positioning_analysis": "Unable to analyze positioning",
		},
		"competitive_dynamics": map[string]interface{}{
			"direct_competitors":  false,
			"competition_level":   "unknown",
			"competitive_overlap": "Unable to determine",
		},
	}
}

// parseJSONPayload decodes an LLM response into a JSON object, tolerating a
// markdown code fence around the document.
func parseJSONPayload(raw string) (map[string]interface{}, error) {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = cleaned[7:]
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = cleaned[3:]
	}
	if strings.HasSuffix(cleaned, "```") {
		cleaned = cleaned[:len(cleaned)-3]
	}
	cleaned = strings.TrimSpace(cleaned)

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func normalize(raw string, fields []schemaField, extras func() map[string]interface{}) map[string]interface{} {
	payload, err := parseJSONPayload(raw)
	if err != nil {
		fallback := map[string]interface{}{}
		for _, f := range fields {
			fallback[f.name] = f.fallback()
		}
		if extras != nil {
			for k, v := range extras() {
				fallback[k] = v
			}
		}
		fallback["error"] = "Failed to parse response: " + err.Error()
		return fallback
	}

	for _, f := range fields {
		if _, present := payload[f.name]; !present {
			payload[f.name] = f.backfill()
		}
	}
	return payload
}

// NormalizeAnalysis turns a raw analysis response into a payload guaranteed
// to carry every expected field. It never fails: an unparseable response
// yields a complete fallback payload with the parse error under "error".
func NormalizeAnalysis(raw string) map[string]interface{} {
	return normalize(raw, analysisFields, nil)
}

// NormalizeComparison is the comparison-schema counterpart of
// NormalizeAnalysis.
func NormalizeComparison(raw string) map[string]interface{} {
	return normalize(raw, comparisonFields, comparisonFallbackExtras)
}
