package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/mohammad-safakhou/compscout/internal/discovery"
	"github.com/mohammad-safakhou/compscout/internal/report"
)

type stubDiscoverer struct {
	competitors []discovery.Competitor
	err         error
}

func (s stubDiscoverer) Discover(ctx context.Context, inputType, value string) ([]discovery.Competitor, error) {
	if inputType != "url" && inputType != "description" {
		return nil, fmt.Errorf("%w: %q", discovery.ErrInvalidInputType, inputType)
	}
	return s.competitors, s.err
}

type stubWorkflows struct {
	analysis   report.AnalysisResponse
	comparison report.ComparisonReport
	err        error
}

func (s stubWorkflows) AnalyzeCompetitors(ctx context.Context, urls []string) (report.AnalysisResponse, error) {
	return s.analysis, s.err
}

func (s stubWorkflows) CompareCompetitors(ctx context.Context, urlA, urlB string) (report.ComparisonReport, error) {
	return s.comparison, s.err
}

func newTestServer(h *Handlers) *echo.Echo {
	e := echo.New()
	h.Register(e.Group("/api/v1"))
	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestDiscoverHandler(t *testing.T) {
	t.Parallel()

	h := &Handlers{Discoverer: stubDiscoverer{competitors: []discovery.Competitor{
		{Name: "Rival", URL: "https://rival.test", Source: "keyword"},
	}}}
	e := newTestServer(h)

	rec := doJSON(e, http.MethodPost, "/api/v1/discover", `{"input_type": "url", "input_value": "https://acme.test"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp report.DiscoveryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.TotalFound != 1 {
		t.Fatalf("total_found = %d, want 1", resp.TotalFound)
	}
}

func TestDiscoverHandlerValidation(t *testing.T) {
	t.Parallel()

	h := &Handlers{Discoverer: stubDiscoverer{}}
	e := newTestServer(h)

	tests := []struct {
		name string
		body string
	}{
		{"empty value", `{"input_type": "url", "input_value": ""}`},
		{"bad input type", `{"input_type": "sitemap", "input_value": "https://acme.test"}`},
		{"malformed body", `{`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := doJSON(e, http.MethodPost, "/api/v1/discover", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400; body = %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestAnalyzeHandler(t *testing.T) {
	t.Parallel()

	h := &Handlers{Workflows: stubWorkflows{analysis: report.AnalysisResponse{
		Reports: []report.AnalysisReport{{Company: report.CompetitorInfo{Name: "Acme"}}},
		Summary: "one company",
	}}}
	e := newTestServer(h)

	rec := doJSON(e, http.MethodPost, "/api/v1/analyze", `{"urls": ["https://acme.test"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp report.AnalysisResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Summary != "one company" || len(resp.Reports) != 1 {
		t.Fatalf("response = %+v", resp)
	}
}

func TestAnalyzeHandlerRequiresURLs(t *testing.T) {
	t.Parallel()

	h := &Handlers{Workflows: stubWorkflows{}}
	e := newTestServer(h)

	rec := doJSON(e, http.MethodPost, "/api/v1/analyze", `{"urls": []}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAnalyzeHandlerWorkflowFailure(t *testing.T) {
	t.Parallel()

	h := &Handlers{Workflows: stubWorkflows{err: fmt.Errorf("crawl failed: all urls down")}}
	e := newTestServer(h)

	rec := doJSON(e, http.MethodPost, "/api/v1/analyze", `{"urls": ["https://down.test"]}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestCompareHandlerValidation(t *testing.T) {
	t.Parallel()

	h := &Handlers{Workflows: stubWorkflows{}}
	e := newTestServer(h)

	rec := doJSON(e, http.MethodPost, "/api/v1/compare", `{"company_a_url": "https://a.test"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCompareHandler(t *testing.T) {
	t.Parallel()

	h := &Handlers{Workflows: stubWorkflows{comparison: report.ComparisonReport{
		CompanyA: report.CompetitorInfo{Name: "A Co", URL: "https://a.test"},
		CompanyB: report.CompetitorInfo{Name: "B Co", URL: "https://b.test"},
	}}}
	e := newTestServer(h)

	rec := doJSON(e, http.MethodPost, "/api/v1/compare", `{"company_a_url": "https://a.test", "company_b_url": "https://b.test"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp report.ComparisonResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Report.CompanyA.Name != "A Co" {
		t.Fatalf("response = %+v", resp)
	}
}

func TestExportHandler(t *testing.T) {
	t.Parallel()

	h := &Handlers{}
	e := newTestServer(h)

	body := `{"format": "csv", "data_type": "analysis", "data": {"reports": [], "summary": ""}}`
	rec := doJSON(e, http.MethodPost, "/api/v1/export", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content type = %q", ct)
	}
	if cd := rec.Header().Get(echo.HeaderContentDisposition); !strings.Contains(cd, "analysis_export.csv") {
		t.Fatalf("content disposition = %q", cd)
	}
	if !strings.Contains(rec.Body.String(), "Company Name") {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestExportHandlerRejectsUnknownFormat(t *testing.T) {
	t.Parallel()

	h := &Handlers{}
	e := newTestServer(h)

	rec := doJSON(e, http.MethodPost, "/api/v1/export", `{"format": "xlsx", "data_type": "analysis", "data": {}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetReportWithoutArchive(t *testing.T) {
	t.Parallel()

	h := &Handlers{}
	e := newTestServer(h)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/some-id", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestCostsHandler(t *testing.T) {
	t.Parallel()

	h := &Handlers{}
	e := newTestServer(h)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/costs", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp["total_cost"] != float64(0) {
		t.Fatalf("total_cost = %v, want 0", resp["total_cost"])
	}
}
