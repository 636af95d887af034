package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the competitor intelligence service
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Server    ServerConfig    `mapstructure:"server"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Crawl     CrawlConfig     `mapstructure:"crawl"`
	Search    SearchConfig    `mapstructure:"search"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug          bool          `mapstructure:"debug"`
	LogLevel       string        `mapstructure:"log_level"`
	DefaultTimeout time.Duration `mapstructure:"default_timeout"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address        string   `mapstructure:"address"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LLMConfig contains the text-generation provider configuration
type LLMConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxRetries  int           `mapstructure:"max_retries"`
	// CostPer1K is the estimated USD cost per 1000 tokens, used for the
	// per-operation cost summary.
	CostPer1K float64 `mapstructure:"cost_per_1k"`
}

func (c LLMConfig) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("llm.api_key is required")
	}
	return nil
}

// CrawlConfig contains crawl provider settings. Provider is either
// "firecrawl" (remote scrape API) or "chromedp" (local headless fetch).
type CrawlConfig struct {
	Provider   string        `mapstructure:"provider"`
	APIKey     string        `mapstructure:"api_key"`
	BaseURL    string        `mapstructure:"base_url"`
	WaitMS     int           `mapstructure:"wait_ms"`
	MaxChars   int           `mapstructure:"max_chars"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
}

func (c CrawlConfig) Validate() error {
	switch c.Provider {
	case "", "firecrawl":
		if strings.TrimSpace(c.APIKey) == "" {
			return fmt.Errorf("crawl.api_key is required for the firecrawl provider")
		}
	case "chromedp":
	default:
		return fmt.Errorf("crawl.provider must be firecrawl or chromedp, got %q", c.Provider)
	}
	return nil
}

// SearchConfig holds the two discovery search sources.
type SearchConfig struct {
	Semantic SemanticSearchConfig `mapstructure:"semantic"`
	Keyword  KeywordSearchConfig  `mapstructure:"keyword"`
}

// SemanticSearchConfig configures the similarity search source.
type SemanticSearchConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	BaseURL    string        `mapstructure:"base_url"`
	MaxResults int           `mapstructure:"max_results"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
}

// KeywordSearchConfig configures the keyword web search source.
type KeywordSearchConfig struct {
	Provider   string        `mapstructure:"provider"` // brave or serper
	APIKey     string        `mapstructure:"api_key"`
	MaxResults int           `mapstructure:"max_results"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
}

func (c KeywordSearchConfig) Validate() error {
	switch c.Provider {
	case "", "brave", "serper":
		return nil
	default:
		return fmt.Errorf("search.keyword.provider must be brave or serper, got %q", c.Provider)
	}
}

// DiscoveryConfig controls competitor discovery aggregation.
type DiscoveryConfig struct {
	MaxCompetitors int           `mapstructure:"max_competitors"`
	ExcludeDomains []string      `mapstructure:"exclude_domains"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
}

// Normalize applies defaults for unset discovery values.
func (c DiscoveryConfig) Normalize() DiscoveryConfig {
	if c.MaxCompetitors <= 0 {
		c.MaxCompetitors = 10
	}
	if len(c.ExcludeDomains) == 0 {
		c.ExcludeDomains = []string{"wikipedia.org", "linkedin.com", "facebook.com", "twitter.com"}
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = 15 * time.Minute
	}
	return c
}

// StorageConfig contains optional report archive and cache backends.
type StorageConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// PostgresConfig contains the report archive connection settings.
type PostgresConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Enabled reports whether the report archive is configured.
func (p PostgresConfig) Enabled() bool { return strings.TrimSpace(p.URL) != "" }

// RedisConfig contains the discovery cache connection settings.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Enabled reports whether the discovery cache is configured.
func (r RedisConfig) Enabled() bool { return strings.TrimSpace(r.Host) != "" }

// TelemetryConfig contains metrics settings
type TelemetryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Namespace    string `mapstructure:"namespace"`
	CostTracking bool   `mapstructure:"cost_tracking"`
}

// LoadConfig loads config from file with COMPSCOUT_* environment overrides.
func LoadConfig(path string) *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("json")

	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("general.default_timeout", "60s")
	viper.SetDefault("server.address", ":10010")
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://127.0.0.1:3000"})
	viper.SetDefault("llm.model", "gpt-4o-mini")
	viper.SetDefault("llm.temperature", 0.2)
	viper.SetDefault("llm.max_tokens", 4096)
	viper.SetDefault("llm.timeout", "60s")
	viper.SetDefault("llm.max_retries", 2)
	viper.SetDefault("llm.cost_per_1k", 0.0006)
	viper.SetDefault("crawl.provider", "firecrawl")
	viper.SetDefault("crawl.wait_ms", 3000)
	viper.SetDefault("crawl.max_chars", 20000)
	viper.SetDefault("crawl.timeout", "30s")
	viper.SetDefault("crawl.max_retries", 2)
	viper.SetDefault("search.semantic.max_results", 5)
	viper.SetDefault("search.semantic.timeout", "15s")
	viper.SetDefault("search.semantic.max_retries", 2)
	viper.SetDefault("search.keyword.provider", "brave")
	viper.SetDefault("search.keyword.max_results", 10)
	viper.SetDefault("search.keyword.timeout", "15s")
	viper.SetDefault("search.keyword.max_retries", 2)
	viper.SetDefault("discovery.max_competitors", 10)
	viper.SetDefault("discovery.cache_ttl", "15m")
	viper.SetDefault("telemetry.enabled", true)
	viper.SetDefault("telemetry.namespace", "compscout")
	viper.SetDefault("telemetry.cost_tracking", true)

	if path == "" {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
		exe, _ := os.Executable()
		exeDir := filepath.Dir(exe)
		viper.AddConfigPath(exeDir)
		viper.AddConfigPath(filepath.Join(exeDir, ".."))
		viper.AddConfigPath(filepath.Join(exeDir, "..", "config"))
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("COMPSCOUT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}
	config.Discovery = config.Discovery.Normalize()

	if err := config.LLM.Validate(); err != nil {
		panic(err)
	}
	if err := config.Crawl.Validate(); err != nil {
		panic(err)
	}
	if err := config.Search.Keyword.Validate(); err != nil {
		panic(err)
	}
	return &config
}
