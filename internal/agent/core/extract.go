package core

import (
	"strings"

	fetchmodels "github.com/mohammad-safakhou/compscout/tools/web_fetch/models"
)

var productKeywords = []string{"products", "services", "solutions", "offerings"}

// ExtractStructured derives structured company signals from raw page content
// using keyword scans. It is fully deterministic and never fails; fields that
// cannot be found stay at their zero values. Line rules are case-insensitive
// and each rule family claims at most one match per line.
func ExtractStructured(content string, meta fetchmodels.Metadata) StructuredPageData {
	structured := StructuredPageData{
		Title:       meta.Title,
		Description: meta.Description,
		Keywords:    meta.Keywords,
	}

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		lower := strings.ToLower(line)
		trimmed := strings.TrimSpace(line)

		// Company facts. Later lines overwrite earlier ones, so the last
		// matching line in the document wins.
		switch {
		case strings.Contains(lower, "about us") || strings.Contains(lower, "about") || strings.Contains(lower, "company"):
			structured.CompanyInfo.About = trimmed
		case strings.Contains(lower, "industry") || strings.Contains(lower, "sector"):
			structured.CompanyInfo.Industry = trimmed
		case strings.Contains(lower, "founded") || strings.Contains(lower, "established"):
			structured.CompanyInfo.Founded = trimmed
		}

		for _, kw := range productKeywords {
			if strings.Contains(lower, kw) && len(structured.ProductsServices) < 10 {
				structured.ProductsServices = append(structured.ProductsServices, trimmed)
				break
			}
		}

		// Contact details. The first line that looks like an email wins;
		// phone and address keep overwriting like the company facts above.
		switch {
		case strings.Contains(line, "@") && strings.Contains(line, "."):
			if structured.ContactInfo.Email == "" {
				structured.ContactInfo.Email = trimmed
			}
		case strings.Contains(lower, "phone") || strings.Contains(lower, "tel") || strings.Contains(lower, "call"):
			structured.ContactInfo.Phone = trimmed
		case strings.Contains(lower, "address") || strings.Contains(lower, "location"):
			structured.ContactInfo.Address = trimmed
		}
	}

	structured.PricingInfo = extractPricing(content)
	return structured
}

// extractPricing classifies pricing over the whole document, not per line:
// the model comes from the first matching keyword group in a fixed priority
// order, so "subscription" anywhere wins over "one-time" anywhere.
func extractPricing(content string) PricingInfo {
	pricing := PricingInfo{}
	lower := strings.ToLower(content)

	if strings.Contains(lower, "pricing") || strings.Contains(lower, "price") || strings.Contains(lower, "cost") ||
		strings.ContainsAny(content, "$€£") {
		pricing.HasPricing = true
		switch {
		case strings.Contains(lower, "subscription") || strings.Contains(lower, "monthly"):
			pricing.PricingModel = "subscription"
		case strings.Contains(lower, "one-time") || strings.Contains(lower, "purchase"):
			pricing.PricingModel = "one-time"
		case strings.Contains(lower, "freemium") || strings.Contains(lower, "free trial"):
			pricing.PricingModel = "freemium"
		}
	}
	return pricing
}
