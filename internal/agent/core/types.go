package core

import (
	"context"

	fetchmodels "github.com/mohammad-safakhou/compscout/tools/web_fetch/models"
)

// Agent is the contract for all task units in the system. An agent is
// constructed once at service start, owns its own external-service client,
// and is stateless across invocations.
type Agent interface {
	// Name returns the agent's registry identity.
	Name() string

	// Execute performs the agent's main task.
	Execute(ctx context.Context, params map[string]interface{}) (map[string]interface{}, error)
}

// WorkflowStep is one entry in an ordered workflow describing which agent to
// invoke with which inputs. Parallel is accepted for compatibility but steps
// always run strictly sequentially; see Orchestrator.Run.
type WorkflowStep struct {
	Agent    string                 `json:"agent"`
	Action   string                 `json:"action"`
	Params   map[string]interface{} `json:"params"`
	Parallel bool                   `json:"parallel"`
}

// CrawlResult is the per-URL outcome of a crawl invocation. Failure is
// encoded as data: Success=false with Error set, never a missing record.
type CrawlResult struct {
	URL     string    `json:"url"`
	Success bool      `json:"success"`
	Data    *PageData `json:"data,omitempty"`
	Error   string    `json:"error,omitempty"`
}

// PageData holds the fetched page content plus derived structured signals.
type PageData struct {
	Content    string              `json:"content"`
	HTML       string              `json:"html"`
	Metadata   fetchmodels.Metadata `json:"metadata"`
	Structured StructuredPageData  `json:"structured_data"`
}

// StructuredPageData is derived deterministically from page content by the
// line-oriented keyword extractor. It has no identity of its own and is
// always embedded in a CrawlResult.
type StructuredPageData struct {
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	Keywords         []string    `json:"keywords"`
	CompanyInfo      CompanyInfo `json:"company_info"`
	ProductsServices []string    `json:"products_services"`
	PricingInfo      PricingInfo `json:"pricing_info"`
	ContactInfo      ContactInfo `json:"contact_info"`
}

// CompanyInfo carries company facts scanned from page lines.
type CompanyInfo struct {
	About    string `json:"about"`
	Industry string `json:"industry"`
	Size     string `json:"size"`
	Founded  string `json:"founded"`
}

// PricingInfo carries the pricing signal scanned from page content.
type PricingInfo struct {
	HasPricing   bool     `json:"has_pricing"`
	PricingModel string   `json:"pricing_model"`
	Plans        []string `json:"plans"`
}

// ContactInfo carries contact details scanned from page lines.
type ContactInfo struct {
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// CompetitorAnalysis is the per-competitor outcome of the analysis agent.
type CompetitorAnalysis struct {
	URL      string                 `json:"url"`
	Analysis map[string]interface{} `json:"analysis,omitempty"`
	Error    string                 `json:"error,omitempty"`
	Success  bool                   `json:"success"`
}
