package common

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string           `toml:"environment" validate:"oneof=development production test"`
	Server      ServerConfig     `toml:"server"`
	Logging     LoggingConfig    `toml:"logging"`
	LLM         LLMConfig        `toml:"llm"`
	OpenAI      OpenAIConfig     `toml:"openai"`
	Claude      ClaudeConfig     `toml:"claude"`
	Gemini      GeminiConfig     `toml:"gemini"`
	Search      SearchConfig     `toml:"search"`
	MarketData  MarketDataConfig `toml:"market_data"`
	Agents      AgentsConfig     `toml:"agents"`
	Scoring     ScoringConfig    `toml:"scoring"`
	Documents   DocumentsConfig  `toml:"documents"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"min=1,max=65535"`
	Host string `toml:"host" validate:"required"`
}

type LoggingConfig struct {
	Level      string   `toml:"level" validate:"oneof=trace debug info warn error"` // "debug", "info", "warn", "error"
	Format     string   `toml:"format"`                                             // "json" or "text"
	Output     []string `toml:"output"`                                             // "stdout", "file"
	TimeFormat string   `toml:"time_format"`                                        // Time format for logs (default: "15:04:05")
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderOpenAI uses the OpenAI chat completions API
	LLMProviderOpenAI LLMProvider = "openai"
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig contains provider-independent narrative generation settings.
// Each role gets its own model; the provider is detected from the model name.
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider" validate:"oneof=openai gemini claude"`
	RouterModel     string      `toml:"router_model" validate:"required"`    // Query classification (cheap, fast)
	AnalysisModel   string      `toml:"analysis_model" validate:"required"`  // Insight agents
	SummaryModel    string      `toml:"summary_model" validate:"required"`   // Scorecard summary
	SummaryTokens   int         `toml:"summary_max_tokens" validate:"min=0"` // Output cap for the summary (default: 512, 0 = provider default)
	Temperature     float32     `toml:"temperature" validate:"min=0,max=2"`
	Timeout         string      `toml:"timeout"` // Per-call timeout (default: "2m")
	MaxRetries      int         `toml:"max_retries" validate:"min=0,max=10"`
	InitialBackoff  string      `toml:"initial_backoff"` // Backoff before first retry on rate limits (default: "5s")
	MaxBackoff      string      `toml:"max_backoff"`     // Upper bound on retry backoff (default: "60s")
}

// OpenAIConfig contains OpenAI API configuration
type OpenAIConfig struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`        // Optional; for OpenAI-compatible endpoints
	Model          string `toml:"model"`           // Fallback model (default: "gpt-4")
	EmbeddingModel string `toml:"embedding_model"` // Default: "text-embedding-3-small"
	MaxTokens      int    `toml:"max_tokens"`      // 0 leaves the provider default
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey    string `toml:"api_key"`
	Model     string `toml:"model"`      // Fallback model (default: "claude-sonnet-4-20250514")
	MaxTokens int    `toml:"max_tokens"` // Maximum tokens in response (default: 4096)
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`           // Fallback model (default: "gemini-2.5-flash")
	EmbeddingModel string `toml:"embedding_model"` // Default: "gemini-embedding-001"
	EmbeddingDims  int32  `toml:"embedding_dims"`  // Output dimensionality (default: 768)
}

// SearchConfig contains web search and page fetch configuration
type SearchConfig struct {
	APIKey          string `toml:"api_key"`
	BaseURL         string `toml:"base_url" validate:"required,url"`
	MaxResults      int    `toml:"max_results" validate:"min=1,max=20"`
	SearchDepth     string `toml:"search_depth" validate:"oneof=basic advanced"`
	RateLimit       string `toml:"rate_limit"`      // Minimum interval between search calls (default: "500ms")
	RequestTimeout  string `toml:"request_timeout"` // Page fetch timeout (default: "10s")
	UserAgent       string `toml:"user_agent"`
	MaxBodyBytes    int64  `toml:"max_body_bytes" validate:"min=1024"`
	MaxContentChars int    `toml:"max_content_chars" validate:"min=100"` // Truncation applied to fetched text (default: 10000)
}

// MarketDataConfig contains EODHD market data configuration
type MarketDataConfig struct {
	APIKey          string `toml:"api_key"`
	BaseURL         string `toml:"base_url" validate:"required,url"`
	DefaultExchange string `toml:"default_exchange" validate:"required"` // Exchange for tickers without a prefix (default: "NSE")
	RateLimit       int    `toml:"rate_limit" validate:"min=1"`          // Requests per second
	Timeout         string `toml:"timeout"`
	Periods         int    `toml:"periods" validate:"min=1"` // Statement periods passed to prompts (default: 2)
}

// AgentsConfig contains insight agent settings
type AgentsConfig struct {
	Parallel     bool                `toml:"parallel"`      // Run selected agents concurrently
	TemplatesDir string              `toml:"templates_dir"` // Optional directory with prompt template overrides
	Forensic     ForensicAgentConfig `toml:"forensic"`
}

// ForensicAgentConfig selects between single-pass analysis and the bounded action loop
type ForensicAgentConfig struct {
	Mode          string `toml:"mode" validate:"oneof=single react"`
	MaxIterations int    `toml:"max_iterations" validate:"min=1,max=50"`
	LoopTimeout   string `toml:"loop_timeout"`
}

// ScoringConfig contains the sub-score weights
type ScoringConfig struct {
	ForensicWeight float64 `toml:"forensic_weight" validate:"min=0,max=1"`
	RatioWeight    float64 `toml:"ratio_weight" validate:"min=0,max=1"`
	ConcallWeight  float64 `toml:"concall_weight" validate:"min=0,max=1"`
}

// DocumentsConfig contains document Q&A settings
type DocumentsConfig struct {
	Embedder     LLMProvider `toml:"embedder" validate:"oneof=openai gemini"`
	ChunkSize    int         `toml:"chunk_size" validate:"min=50"`
	ChunkOverlap int         `toml:"chunk_overlap" validate:"min=0,ltfield=ChunkSize"`
	TopK         int         `toml:"top_k" validate:"min=1,max=20"`
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8085,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05",
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderOpenAI,
			RouterModel:     "gpt-4.1-nano",
			AnalysisModel:   "gpt-4",
			SummaryModel:    "gpt-4",
			SummaryTokens:   512,
			Temperature:     0, // Deterministic output for parsing
			Timeout:         "2m",
			MaxRetries:      3,
			InitialBackoff:  "5s",
			MaxBackoff:      "60s",
		},
		OpenAI: OpenAIConfig{
			Model:          "gpt-4",
			EmbeddingModel: "text-embedding-3-small",
		},
		Claude: ClaudeConfig{
			Model:     "claude-sonnet-4-20250514",
			MaxTokens: 4096,
		},
		Gemini: GeminiConfig{
			Model:          "gemini-2.5-flash",
			EmbeddingModel: "gemini-embedding-001",
			EmbeddingDims:  768,
		},
		Search: SearchConfig{
			BaseURL:         "https://api.tavily.com",
			MaxResults:      5,
			SearchDepth:     "basic",
			RateLimit:       "500ms",
			RequestTimeout:  "10s",
			UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			MaxBodyBytes:    5 * 1024 * 1024, // 5MB
			MaxContentChars: 10000,
		},
		MarketData: MarketDataConfig{
			BaseURL:         "https://eodhd.com/api",
			DefaultExchange: "NSE",
			RateLimit:       10,
			Timeout:         "30s",
			Periods:         2,
		},
		Agents: AgentsConfig{
			Parallel: false,
			Forensic: ForensicAgentConfig{
				Mode:          "single",
				MaxIterations: 6,
				LoopTimeout:   "2m",
			},
		},
		Scoring: ScoringConfig{
			ForensicWeight: 0.4,
			RatioWeight:    0.3,
			ConcallWeight:  0.3,
		},
		Documents: DocumentsConfig{
			Embedder:     LLMProviderOpenAI,
			ChunkSize:    500,
			ChunkOverlap: 50,
			TopK:         3,
		},
	}
}

// EnvLookup resolves an environment value by name
type EnvLookup func(key string) (string, bool)

// NewEnvLookup returns a lookup that checks the process environment first and
// then the given .env files (earlier files win). Missing .env files are skipped.
// The process environment is never modified.
func NewEnvLookup(dotenvPaths ...string) (EnvLookup, error) {
	merged := make(map[string]string)
	for _, path := range dotenvPaths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		values, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
		}
		for k, v := range values {
			if _, exists := merged[k]; !exists {
				merged[k] = v
			}
		}
	}

	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := merged[key]
		return v, ok
	}, nil
}

// LoadFromFiles loads configuration from multiple files with priority: default -> file1 -> file2 -> ... -> env -> CLI
// Later files override earlier files. A nil lookup reads the process environment only.
func LoadFromFiles(lookup EnvLookup, paths ...string) (*Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	// Start with defaults
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier files)
	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		// Unmarshal into config (merges with existing values, later values override)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	// Apply environment variables (overrides all file configs)
	applyEnvOverrides(config, lookup)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config, lookup EnvLookup) {
	get := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := lookup(k); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
		return ""
	}

	if env := get("FUNDALYST_ENV", "GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := get("FUNDALYST_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := get("FUNDALYST_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Logging configuration
	if level := get("FUNDALYST_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := get("FUNDALYST_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// LLM configuration
	if provider := get("FUNDALYST_LLM_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(strings.ToLower(provider))
	}
	if model := get("FUNDALYST_ROUTER_MODEL"); model != "" {
		config.LLM.RouterModel = model
	}
	if model := get("FUNDALYST_ANALYSIS_MODEL"); model != "" {
		config.LLM.AnalysisModel = model
	}
	if model := get("FUNDALYST_SUMMARY_MODEL"); model != "" {
		config.LLM.SummaryModel = model
	}

	// Credentials (standard provider names first, then prefixed aliases)
	if key := get("OPENAI_API_KEY", "FUNDALYST_OPENAI_API_KEY"); key != "" {
		config.OpenAI.APIKey = key
	}
	if key := get("ANTHROPIC_API_KEY", "FUNDALYST_CLAUDE_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}
	if key := get("GEMINI_API_KEY", "GOOGLE_API_KEY", "FUNDALYST_GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
	if key := get("TAVILY_API_KEY", "FUNDALYST_SEARCH_API_KEY"); key != "" {
		config.Search.APIKey = key
	}
	if key := get("EODHD_API_KEY", "FUNDALYST_EODHD_API_KEY"); key != "" {
		config.MarketData.APIKey = key
	}

	// Market data
	if exchange := get("FUNDALYST_DEFAULT_EXCHANGE"); exchange != "" {
		config.MarketData.DefaultExchange = strings.ToUpper(exchange)
	}

	// Agents
	if parallel := get("FUNDALYST_AGENTS_PARALLEL"); parallel != "" {
		if p, err := strconv.ParseBool(parallel); err == nil {
			config.Agents.Parallel = p
		}
	}
	if mode := get("FUNDALYST_FORENSIC_MODE"); mode != "" {
		config.Agents.Forensic.Mode = strings.ToLower(mode)
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// ConfigError is a fatal configuration problem
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

var validate = validator.New()

// Validate checks value ranges and enumerations. Credentials are checked
// separately by RequireCredentials because not every command needs all of them.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return &ConfigError{
				Field:  first.Namespace(),
				Reason: fmt.Sprintf("failed '%s' validation (value: %v)", first.Tag(), first.Value()),
			}
		}
		return err
	}

	if _, err := ParseDuration(c.LLM.Timeout, 0); err != nil {
		return &ConfigError{Field: "llm.timeout", Reason: err.Error()}
	}
	if _, err := ParseDuration(c.Agents.Forensic.LoopTimeout, 0); err != nil {
		return &ConfigError{Field: "agents.forensic.loop_timeout", Reason: err.Error()}
	}
	if _, ok := ExchangeToSuffix[strings.ToUpper(c.MarketData.DefaultExchange)]; !ok {
		return &ConfigError{Field: "market_data.default_exchange", Reason: fmt.Sprintf("unsupported exchange %q", c.MarketData.DefaultExchange)}
	}

	return nil
}

// APIKey returns the configured key for an LLM provider
func (c *Config) APIKey(provider LLMProvider) string {
	switch provider {
	case LLMProviderOpenAI:
		return c.OpenAI.APIKey
	case LLMProviderClaude:
		return c.Claude.APIKey
	case LLMProviderGemini:
		return c.Gemini.APIKey
	}
	return ""
}

// RequireCredentials returns a ConfigError when a key needed by the given
// providers, or the search key, is missing.
func (c *Config) RequireCredentials(providers []LLMProvider, needSearch bool) error {
	for _, p := range providers {
		if c.APIKey(p) == "" {
			return &ConfigError{
				Field:  string(p) + ".api_key",
				Reason: fmt.Sprintf("missing %s credential (set %s or %s.api_key in config)", p, providerEnvName(p), p),
			}
		}
	}
	if needSearch && c.Search.APIKey == "" {
		return &ConfigError{
			Field:  "search.api_key",
			Reason: "missing search credential (set TAVILY_API_KEY or search.api_key in config)",
		}
	}
	return nil
}

func providerEnvName(p LLMProvider) string {
	switch p {
	case LLMProviderClaude:
		return "ANTHROPIC_API_KEY"
	case LLMProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}

// ParseDuration parses a duration string, returning def for an empty string
func ParseDuration(s string, def time.Duration) (time.Duration, error) {
	if strings.TrimSpace(s) == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration '%s': %w", s, err)
	}
	return d, nil
}

// MustDuration parses a duration string that has already passed Validate
func MustDuration(s string, def time.Duration) time.Duration {
	d, err := ParseDuration(s, def)
	if err != nil {
		return def
	}
	return d
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
