package telemetry

import (
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mohammad-safakhou/compscout/config"
)

// Telemetry provides monitoring and cost tracking for agent executions,
// discovery calls and LLM usage. Prometheus collectors are registered on the
// default registry and exposed by the server on /metrics.
type Telemetry struct {
	config      config.TelemetryConfig
	logger      *log.Logger
	costTracker *CostTracker

	agentExecutions *prometheus.CounterVec
	agentFailures   *prometheus.CounterVec
	agentDuration   *prometheus.HistogramVec
	discoveryTotal  *prometheus.CounterVec
	crawlPages      *prometheus.CounterVec
	llmTokens       prometheus.Counter
}

// CostTracker tracks LLM spend across operations.
type CostTracker struct {
	mu             sync.RWMutex
	OperationCosts map[string]float64
	TotalCost      float64
	TotalTokens    int64
}

// NewTelemetry creates telemetry with collectors registered once per process.
func NewTelemetry(cfg config.TelemetryConfig) *Telemetry {
	ns := cfg.Namespace
	if ns == "" {
		ns = "compscout"
	}
	t := &Telemetry{
		config:      cfg,
		logger:      log.New(log.Writer(), "[TELEMETRY] ", log.LstdFlags),
		costTracker: &CostTracker{OperationCosts: make(map[string]float64)},
		agentExecutions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "agent_executions_total",
			Help: "Agent executions by agent name.",
		}, []string{"agent"}),
		agentFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "agent_failures_total",
			Help: "Agent executions that returned an error, by agent name.",
		}, []string{"agent"}),
		agentDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns, Name: "agent_duration_seconds",
			Help:    "Agent execution duration.",
			Buckets: prometheus.DefBuckets,
		}, []string{"agent"}),
		discoveryTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "discovery_requests_total",
			Help: "Discovery requests by input type.",
		}, []string{"input_type"}),
		crawlPages: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "crawl_pages_total",
			Help: "Crawled pages by outcome.",
		}, []string{"outcome"}),
		llmTokens: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Name: "llm_tokens_total",
			Help: "Total LLM tokens consumed.",
		}),
	}
	return t
}

// RecordAgentExecution records one agent run.
func (t *Telemetry) RecordAgentExecution(agent string, d time.Duration, err error) {
	if t == nil || !t.config.Enabled {
		return
	}
	t.agentExecutions.WithLabelValues(agent).Inc()
	t.agentDuration.WithLabelValues(agent).Observe(d.Seconds())
	if err != nil {
		t.agentFailures.WithLabelValues(agent).Inc()
	}
}

// RecordDiscovery records one discovery request.
func (t *Telemetry) RecordDiscovery(inputType string) {
	if t == nil || !t.config.Enabled {
		return
	}
	t.discoveryTotal.WithLabelValues(inputType).Inc()
}

// RecordCrawlPage records a crawled page outcome ("success" or "failure").
func (t *Telemetry) RecordCrawlPage(outcome string) {
	if t == nil || !t.config.Enabled {
		return
	}
	t.crawlPages.WithLabelValues(outcome).Inc()
}

// RecordLLMUsage records token usage and cost for a named operation.
func (t *Telemetry) RecordLLMUsage(operation string, tokens int64, cost float64) {
	if t == nil || !t.config.Enabled {
		return
	}
	t.llmTokens.Add(float64(tokens))
	if !t.config.CostTracking {
		return
	}
	t.costTracker.mu.Lock()
	t.costTracker.OperationCosts[operation] += cost
	t.costTracker.TotalCost += cost
	t.costTracker.TotalTokens += tokens
	t.costTracker.mu.Unlock()
}

// CostSummary returns a snapshot of accumulated LLM spend.
func (t *Telemetry) CostSummary() (total float64, tokens int64, perOperation map[string]float64) {
	if t == nil {
		return 0, 0, map[string]float64{}
	}
	t.costTracker.mu.RLock()
	defer t.costTracker.mu.RUnlock()
	perOperation = make(map[string]float64, len(t.costTracker.OperationCosts))
	for k, v := range t.costTracker.OperationCosts {
		perOperation[k] = v
	}
	return t.costTracker.TotalCost, t.costTracker.TotalTokens, perOperation
}
