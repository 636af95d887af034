package core

import (
	"strings"
	"testing"

	fetchmodels "github.com/mohammad-safakhou/compscout/tools/web_fetch/models"
)

func TestExtractStructuredCompanyInfoLastLineWins(t *testing.T) {
	t.Parallel()

	content := strings.Join([]string{
		"About us: we started small",
		"Industry: logistics",
		"About the company: now we are big",
		"Founded in 2012",
	}, "\n")

	got := ExtractStructured(content, fetchmodels.Metadata{})

	if got.CompanyInfo.About != "About the company: now we are big" {
		t.Fatalf("about = %q, want the later line", got.CompanyInfo.About)
	}
	if got.CompanyInfo.Industry != "Industry: logistics" {
		t.Fatalf("industry = %q", got.CompanyInfo.Industry)
	}
	if got.CompanyInfo.Founded != "Founded in 2012" {
		t.Fatalf("founded = %q", got.CompanyInfo.Founded)
	}
}

func TestExtractStructuredCompanyRulesAreExclusivePerLine(t *testing.T) {
	t.Parallel()

	// "about" outranks "industry" on the same line
	got := ExtractStructured("About our industry leadership", fetchmodels.Metadata{})

	if got.CompanyInfo.About == "" {
		t.Fatalf("about should claim the line")
	}
	if got.CompanyInfo.Industry != "" {
		t.Fatalf("industry should stay empty, got %q", got.CompanyInfo.Industry)
	}
}

func TestExtractStructuredProductKeywords(t *testing.T) {
	t.Parallel()

	content := strings.Join([]string{
		"Our offerings include widgets",
		"Solutions for every team",
		"Great platform for teams",
		"A mighty tool",
		"Professional services on request",
	}, "\n")

	got := ExtractStructured(content, fetchmodels.Metadata{})

	want := []string{
		"Our offerings include widgets",
		"Solutions for every team",
		"Professional services on request",
	}
	if len(got.ProductsServices) != len(want) {
		t.Fatalf("products = %v, want %v", got.ProductsServices, want)
	}
	for i := range want {
		if got.ProductsServices[i] != want[i] {
			t.Fatalf("products[%d] = %q, want %q", i, got.ProductsServices[i], want[i])
		}
	}
}

func TestExtractStructuredProductsCappedAtTen(t *testing.T) {
	t.Parallel()

	lines := make([]string, 15)
	for i := range lines {
		lines[i] = "Our services do many things"
	}
	got := ExtractStructured(strings.Join(lines, "\n"), fetchmodels.Metadata{})

	if len(got.ProductsServices) != 10 {
		t.Fatalf("products = %d entries, want 10", len(got.ProductsServices))
	}
}

func TestExtractStructuredPricing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		content    string
		hasPricing bool
		model      string
	}{
		{"currency only", "Plans from $9", true, ""},
		{"euro", "ab €10", true, ""},
		{"subscription beats one-time", "pricing: monthly subscription or one-time purchase", true, "subscription"},
		{"one-time", "price: one-time purchase", true, "one-time"},
		{"freemium", "cost: free trial available", true, "freemium"},
		{"no pricing signal", "we love our users", false, ""},
		{"subscription wins across lines", "price: one-time purchase\nmonthly subscription available", true, "subscription"},
		{"subscription wins regardless of order", "subscription plans\nalso a one-time purchase\npricing below", true, "subscription"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ExtractStructured(tt.content, fetchmodels.Metadata{})
			if got.PricingInfo.HasPricing != tt.hasPricing {
				t.Fatalf("has_pricing = %v, want %v", got.PricingInfo.HasPricing, tt.hasPricing)
			}
			if got.PricingInfo.PricingModel != tt.model {
				t.Fatalf("pricing_model = %q, want %q", got.PricingInfo.PricingModel, tt.model)
			}
		})
	}
}

func TestExtractStructuredContact(t *testing.T) {
	t.Parallel()

	content := strings.Join([]string{
		"reach us at hello@acme.test",
		"or sales@acme.test",
		"Phone: 555-0100",
		"Call: 555-0199",
		"Address: 1 Main St",
	}, "\n")

	got := ExtractStructured(content, fetchmodels.Metadata{})

	// first email wins, later phone lines overwrite
	if got.ContactInfo.Email != "reach us at hello@acme.test" {
		t.Fatalf("email = %q, want the first email line", got.ContactInfo.Email)
	}
	if got.ContactInfo.Phone != "Call: 555-0199" {
		t.Fatalf("phone = %q, want the later phone line", got.ContactInfo.Phone)
	}
	if got.ContactInfo.Address != "Address: 1 Main St" {
		t.Fatalf("address = %q", got.ContactInfo.Address)
	}
}

func TestExtractStructuredCarriesMetadata(t *testing.T) {
	t.Parallel()

	meta := fetchmodels.Metadata{Title: "Acme", Description: "widgets", Keywords: []string{"widgets", "acme"}}
	got := ExtractStructured("", meta)

	if got.Title != "Acme" || got.Description != "widgets" || len(got.Keywords) != 2 {
		t.Fatalf("metadata not carried: %+v", got)
	}
}
