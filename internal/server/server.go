package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mohammad-safakhou/compscout/config"
	"github.com/mohammad-safakhou/compscout/internal/agent/core"
	"github.com/mohammad-safakhou/compscout/internal/agent/telemetry"
	"github.com/mohammad-safakhou/compscout/internal/cache"
	"github.com/mohammad-safakhou/compscout/internal/discovery"
	"github.com/mohammad-safakhou/compscout/internal/service"
	"github.com/mohammad-safakhou/compscout/internal/store"
	"github.com/mohammad-safakhou/compscout/provider"
	"github.com/mohammad-safakhou/compscout/tools/web_fetch"
	"github.com/mohammad-safakhou/compscout/tools/web_search"
)

// Run wires all dependencies from config and serves the HTTP API until the
// listener fails.
func Run(cfg *config.Config) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	// Unified HTTP error handler with structured JSON and logging
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	ctx := context.Background()

	tele := telemetry.NewTelemetry(cfg.Telemetry)

	fetcher, err := web_fetch.NewFetcher(cfg.Crawl)
	if err != nil {
		return err
	}
	llm, err := provider.NewLLM(cfg.LLM)
	if err != nil {
		return err
	}
	keyword, err := web_search.NewKeywordSearcher(cfg.Search.Keyword)
	if err != nil {
		return err
	}
	semantic, err := web_search.NewSemanticSearcher(cfg.Search.Semantic)
	if err != nil {
		return err
	}

	orch := core.NewOrchestrator(tele)
	orch.Register(core.NewCrawlAgent(cfg.Crawl, fetcher, tele))
	orch.Register(core.NewAnalysisAgent(cfg.LLM, llm, tele))
	orch.Register(core.NewComparisonAgent(cfg.LLM, llm, tele))
	svc := service.New(orch)

	var discoveryCache discovery.Cache
	if cfg.Storage.Redis.Enabled() {
		dc, err := cache.NewDiscoveryCache(ctx, cfg.Storage.Redis, cfg.Discovery.CacheTTL)
		if err != nil {
			return err
		}
		discoveryCache = dc
	}
	disc := discovery.NewService(*cfg, semantic, keyword, discoveryCache, tele)

	var archive *store.Store
	if cfg.Storage.Postgres.Enabled() {
		if err := store.Migrate("file://migrations", cfg.Storage.Postgres.URL, "up", 0); err != nil {
			return err
		}
		archive, err = store.New(ctx, cfg.Storage.Postgres.URL)
		if err != nil {
			return err
		}
	}

	h := &Handlers{
		Discoverer: disc,
		Workflows:  svc,
		Archive:    archive,
		Telemetry:  tele,
	}
	h.Register(e.Group("/api/v1"))

	return e.Start(cfg.Server.Address)
}
