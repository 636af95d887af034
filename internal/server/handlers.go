package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mohammad-safakhou/compscout/internal/agent/telemetry"
	"github.com/mohammad-safakhou/compscout/internal/discovery"
	"github.com/mohammad-safakhou/compscout/internal/export"
	"github.com/mohammad-safakhou/compscout/internal/report"
	"github.com/mohammad-safakhou/compscout/internal/store"
)

// Discoverer finds competitors for a URL or description.
type Discoverer interface {
	Discover(ctx context.Context, inputType, value string) ([]discovery.Competitor, error)
}

// WorkflowRunner runs the crawl→analyze and crawl→compare workflows.
type WorkflowRunner interface {
	AnalyzeCompetitors(ctx context.Context, urls []string) (report.AnalysisResponse, error)
	CompareCompetitors(ctx context.Context, urlA, urlB string) (report.ComparisonReport, error)
}

// Handlers carries the API dependencies. Archive may be nil; report
// persistence is then skipped and report lookups return 404.
type Handlers struct {
	Discoverer Discoverer
	Workflows  WorkflowRunner
	Archive    *store.Store
	Telemetry  *telemetry.Telemetry
}

func (h *Handlers) Register(g *echo.Group) {
	g.POST("/discover", h.discover)
	g.POST("/analyze", h.analyze)
	g.POST("/compare", h.compare)
	g.POST("/export", h.export)
	g.GET("/reports/:id", h.getReport)
	g.GET("/costs", h.costs)
}

type discoverRequest struct {
	InputType string `json:"input_type"`
	Value     string `json:"input_value"`
}

func (h *Handlers) discover(c echo.Context) error {
	var req discoverRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Value) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "input_value is required")
	}
	competitors, err := h.Discoverer.Discover(c.Request().Context(), req.InputType, req.Value)
	if err != nil {
		if errors.Is(err, discovery.ErrInvalidInputType) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}
	return c.JSON(http.StatusOK, report.DiscoveryResponse{
		Competitors: competitors,
		TotalFound:  len(competitors),
		Timestamp:   time.Now().UTC(),
	})
}

type analyzeRequest struct {
	URLs []string `json:"urls"`
}

func (h *Handlers) analyze(c echo.Context) error {
	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.URLs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "urls are required")
	}
	resp, err := h.Workflows.AnalyzeCompetitors(c.Request().Context(), req.URLs)
	if err != nil {
		return err
	}
	resp.ReportID = h.archiveReport(c.Request().Context(), "analysis", resp)
	return c.JSON(http.StatusOK, resp)
}

type compareRequest struct {
	CompanyAURL string `json:"company_a_url"`
	CompanyBURL string `json:"company_b_url"`
}

func (h *Handlers) compare(c echo.Context) error {
	var req compareRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.CompanyAURL == "" || req.CompanyBURL == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "company_a_url and company_b_url are required")
	}
	rep, err := h.Workflows.CompareCompetitors(c.Request().Context(), req.CompanyAURL, req.CompanyBURL)
	if err != nil {
		return err
	}
	resp := report.ComparisonResponse{Report: rep, Timestamp: time.Now().UTC()}
	resp.ReportID = h.archiveReport(c.Request().Context(), "comparison", resp)
	return c.JSON(http.StatusOK, resp)
}

type exportRequest struct {
	Format   string          `json:"format"`
	DataType string          `json:"data_type"`
	Data     json.RawMessage `json:"data"`
}

func (h *Handlers) export(c echo.Context) error {
	var req exportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.Data) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "data is required")
	}
	doc, contentType, err := export.Export(req.Format, req.DataType, req.Data)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	filename := fmt.Sprintf("%s_export.%s", req.DataType, req.Format)
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, contentType, doc)
}

func (h *Handlers) getReport(c echo.Context) error {
	if h.Archive == nil {
		return echo.NewHTTPError(http.StatusNotFound, "report archive not configured")
	}
	rep, err := h.Archive.GetReport(c.Request().Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "report not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rep)
}

func (h *Handlers) costs(c echo.Context) error {
	total, tokens, perOperation := h.Telemetry.CostSummary()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"total_cost":      total,
		"total_tokens":    tokens,
		"operation_costs": perOperation,
	})
}

// archiveReport persists a report best-effort and returns its id, or ""
// when archiving is disabled or fails. An archive failure never fails the
// request that produced the report.
func (h *Handlers) archiveReport(ctx context.Context, kind string, payload interface{}) string {
	if h.Archive == nil {
		return ""
	}
	id, err := h.Archive.SaveReport(ctx, kind, payload)
	if err != nil {
		return ""
	}
	return id
}
