package discovery

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"

	"github.com/mohammad-safakhou/compscout/config"
	"github.com/mohammad-safakhou/compscout/internal/agent/telemetry"
	"github.com/mohammad-safakhou/compscout/tools/web_search"
)

// ErrInvalidInputType is returned when a discovery request carries an input
// type other than "url" or "description".
var ErrInvalidInputType = errors.New("input_type must be url or description")

const keywordScanLimit = 8

// semanticExcludeDomains keeps directory and encyclopedia sites out of the
// similarity results. The keyword source uses the configured exclude list
// instead, which additionally filters social networks.
var semanticExcludeDomains = []string{"wikipedia.org", "linkedin.com", "crunchbase.com"}

// Competitor is one discovered company.
type Competitor struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Source      string `json:"source"`
}

// Cache is an optional read-through cache for discovery results.
type Cache interface {
	Get(ctx context.Context, inputType, value string) ([]Competitor, bool)
	Set(ctx context.Context, inputType, value string, competitors []Competitor)
}

// Service aggregates competitors from a semantic similarity source and a
// keyword web search, deduplicates them by domain and caps the result list.
// Either source may be unavailable or failing; discovery degrades to the
// other one rather than erroring out.
type Service struct {
	semantic    web_search.SemanticSearcher
	keyword     web_search.KeywordSearcher
	cache       Cache
	cfg         config.DiscoveryConfig
	semanticMax int
	keywordMax  int
	logger      *log.Logger
	telemetry   *telemetry.Telemetry
}

func NewService(cfg config.Config, semantic web_search.SemanticSearcher, keyword web_search.KeywordSearcher, cache Cache, tel *telemetry.Telemetry) *Service {
	semanticMax := cfg.Search.Semantic.MaxResults
	if semanticMax <= 0 {
		semanticMax = 5
	}
	keywordMax := cfg.Search.Keyword.MaxResults
	if keywordMax <= 0 {
		keywordMax = 10
	}
	return &Service{
		semantic:    semantic,
		keyword:     keyword,
		cache:       cache,
		cfg:         cfg.Discovery.Normalize(),
		semanticMax: semanticMax,
		keywordMax:  keywordMax,
		logger:      log.New(os.Stdout, "[DISCOVERY] ", log.LstdFlags),
		telemetry:   tel,
	}
}

// Discover finds competitors for either a company URL or a free-form company
// description, depending on inputType.
func (s *Service) Discover(ctx context.Context, inputType, value string) ([]Competitor, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("discovery input value is required")
	}

	if s.cache != nil {
		if competitors, ok := s.cache.Get(ctx, inputType, value); ok {
			s.logger.Printf("cache hit for %s %q", inputType, value)
			return competitors, nil
		}
	}

	var competitors []Competitor
	switch inputType {
	case "url":
		competitors = s.discoverByURL(ctx, value)
	case "description":
		competitors = s.discoverByDescription(ctx, value)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidInputType, inputType)
	}
	s.telemetry.RecordDiscovery(inputType)

	competitors = dedupeByDomain(competitors)
	if len(competitors) > s.cfg.MaxCompetitors {
		competitors = competitors[:s.cfg.MaxCompetitors]
	}

	if s.cache != nil {
		s.cache.Set(ctx, inputType, value, competitors)
	}
	return competitors, nil
}

func (s *Service) discoverByURL(ctx context.Context, companyURL string) []Competitor {
	competitors := s.findSimilar(ctx, companyURL)

	token := domainToken(companyURL)
	query := fmt.Sprintf("%s competitors alternatives", token)
	competitors = append(competitors, s.keywordSearch(ctx, query)...)
	return competitors
}

func (s *Service) discoverByDescription(ctx context.Context, description string) []Competitor {
	var competitors []Competitor
	if s.semantic != nil {
		results, err := s.semantic.Search(ctx, "companies that "+description, s.semanticMax, semanticExcludeDomains)
		if err != nil {
			s.logger.Printf("semantic search failed: %v", err)
		}
		for _, r := range results {
			competitors = append(competitors, Competitor{
				Name:        CleanCompanyName(r.Title),
				URL:         r.URL,
				Description: r.Snippet,
				Source:      "semantic",
			})
		}
	}

	query := fmt.Sprintf("%s companies startups software", description)
	competitors = append(competitors, s.keywordSearch(ctx, query)...)
	return competitors
}

func (s *Service) findSimilar(ctx context.Context, companyURL string) []Competitor {
	if s.semantic == nil {
		return nil
	}
	results, err := s.semantic.FindSimilar(ctx, companyURL, s.semanticMax, semanticExcludeDomains)
	if err != nil {
		s.logger.Printf("similarity search failed for %s: %v", companyURL, err)
		return nil
	}
	competitors := make([]Competitor, 0, len(results))
	for _, r := range results {
		competitors = append(competitors, Competitor{
			Name:        CleanCompanyName(r.Title),
			URL:         r.URL,
			Description: r.Snippet,
			Source:      "semantic",
		})
	}
	return competitors
}

// keywordSearch runs the keyword source and filters out directory and social
// domains. Only the first few hits are considered; keyword results degrade
// quickly in quality.
func (s *Service) keywordSearch(ctx context.Context, query string) []Competitor {
	results, err := s.keyword.SearchText(ctx, query, s.keywordMax)
	if err != nil {
		s.logger.Printf("keyword search failed for %q: %v", query, err)
		return nil
	}
	if len(results) > keywordScanLimit {
		results = results[:keywordScanLimit]
	}

	var competitors []Competitor
	for _, r := range results {
		if s.excluded(r.URL) {
			continue
		}
		competitors = append(competitors, Competitor{
			Name:        CleanCompanyName(r.Title),
			URL:         r.URL,
			Description: r.Snippet,
			Source:      "keyword",
		})
	}
	return competitors
}

func (s *Service) excluded(rawURL string) bool {
	host := hostOf(rawURL)
	for _, domain := range s.cfg.ExcludeDomains {
		if strings.Contains(host, domain) {
			return true
		}
	}
	return false
}

// legalSuffixes is ordered longest first so "Inc." is stripped before "Inc".
var legalSuffixes = []string{"Corporation", "Company", "Corp", "Inc.", "Inc", "Ltd.", "Ltd", "LLC", "Co."}

// CleanCompanyName reduces a page title to a plausible company name: cut at
// the first dash, pipe or bullet whether or not it is padded with spaces,
// take the part before a colon, then strip legal suffixes.
func CleanCompanyName(title string) string {
	name := title
	for _, sep := range []string{"-", "|", "•"} {
		if idx := strings.Index(name, sep); idx >= 0 {
			name = name[:idx]
		}
	}
	if idx := strings.Index(name, ":"); idx >= 0 {
		name = name[:idx]
	}
	for _, suffix := range legalSuffixes {
		name = strings.ReplaceAll(name, suffix, "")
	}
	return strings.TrimSpace(name)
}

func dedupeByDomain(competitors []Competitor) []Competitor {
	seen := map[string]bool{}
	out := make([]Competitor, 0, len(competitors))
	for _, c := range competitors {
		host := hostOf(c.URL)
		if host == "" || seen[host] {
			continue
		}
		seen[host] = true
		out = append(out, c)
	}
	return out
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.ToLower(u.Host)
	return strings.TrimPrefix(host, "www.")
}

// domainToken extracts the first label of a URL's host, the most likely
// company token for a keyword query ("stripe" from https://stripe.com).
func domainToken(rawURL string) string {
	host := hostOf(rawURL)
	if host == "" {
		return rawURL
	}
	if idx := strings.Index(host, "."); idx > 0 {
		return host[:idx]
	}
	return host
}
