package types

import "time"

// HTTPConfig holds shared HTTP settings used by providers that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP client timeout for a single upstream request.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "civic-search/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// LogConfig selects the logger level and encoding.
type LogConfig struct {
	// Level is the minimum logging level (debug, info, warn, error).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Development switches to the human-readable console encoder.
	Development bool `json:"development" yaml:"development" mapstructure:"development"`
}

// ServerConfig holds settings for the HTTP surface.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// StoreConfig locates the SQLite entity store backing the internal provider.
type StoreConfig struct {
	// Path is the database file (default "data/civic.db").
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// Enabled controls whether the internal entity providers use the store.
	// When false they serve synthetic fallback content only.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
}

// SearchConfig holds settings for the facade and aggregator.
type SearchConfig struct {
	// DefaultPageSize replaces missing or invalid page sizes (default 10).
	DefaultPageSize int `json:"default_page_size" yaml:"default_page_size" mapstructure:"default_page_size"`

	// MaxPageSize caps the page size (default 50).
	MaxPageSize int `json:"max_page_size" yaml:"max_page_size" mapstructure:"max_page_size"`

	// MaxQueryLength rejects longer queries (default 200).
	MaxQueryLength int `json:"max_query_length" yaml:"max_query_length" mapstructure:"max_query_length"`

	// ProviderTimeout is the independent deadline of each provider call (default 5s).
	ProviderTimeout time.Duration `json:"provider_timeout" yaml:"provider_timeout" mapstructure:"provider_timeout"`

	// SuggestionsPerSource caps each suggestion source (default 5).
	SuggestionsPerSource int `json:"suggestions_per_source" yaml:"suggestions_per_source" mapstructure:"suggestions_per_source"`

	// Language is the default content language sent to providers (default "pt").
	Language string `json:"language" yaml:"language" mapstructure:"language"`
}

// RegionConfig drives region inference and regional prioritization.
type RegionConfig struct {
	// Default is the local default region name. Requests for any other
	// region bypass the regional prioritizer (default "local").
	Default string `json:"default" yaml:"default" mapstructure:"default"`

	// LocaleQualifier is appended to external queries for local requests
	// (default "Brasil").
	LocaleQualifier string `json:"locale_qualifier" yaml:"locale_qualifier" mapstructure:"locale_qualifier"`

	// CountryCode is the ISO region code passed to providers that support it
	// (default "BR").
	CountryCode string `json:"country_code" yaml:"country_code" mapstructure:"country_code"`

	// LocalIndicators are keywords, domains and channel identifiers of the
	// local market.
	LocalIndicators []string `json:"local_indicators" yaml:"local_indicators" mapstructure:"local_indicators"`

	// RegionalIndicators mark near-region content.
	RegionalIndicators []string `json:"regional_indicators" yaml:"regional_indicators" mapstructure:"regional_indicators"`

	// TrustedSources are source names or domains whose local items go into
	// the priority bucket.
	TrustedSources []string `json:"trusted_sources" yaml:"trusted_sources" mapstructure:"trusted_sources"`
}

// ProviderConfig holds the settings shared by external content providers.
type ProviderConfig struct {
	// Enabled turns the provider on. A disabled provider serves synthetic
	// fallback content.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// BaseURL is the upstream API root.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// APIKey authenticates with the upstream. Missing keys force fallback.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// MaxRetries bounds retries on HTTP 429/503 (default 2).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// BreakerFailures is the consecutive-failure count that opens the
	// provider's circuit breaker (default 5).
	BreakerFailures uint32 `json:"breaker_failures" yaml:"breaker_failures" mapstructure:"breaker_failures"`

	// BreakerCooldown is how long an open breaker waits before probing (default 30s).
	BreakerCooldown time.Duration `json:"breaker_cooldown" yaml:"breaker_cooldown" mapstructure:"breaker_cooldown"`
}

// SyntheticConfig controls the fallback content generator.
type SyntheticConfig struct {
	// Seed fixes the random generator. Zero seeds from the clock.
	Seed int64 `json:"seed" yaml:"seed" mapstructure:"seed"`

	// Deterministic switches to the template generator, which produces the
	// same items for the same query.
	Deterministic bool `json:"deterministic" yaml:"deterministic" mapstructure:"deterministic"`
}

// Config groups all settings. It is built once at startup and passed
// explicitly into every component constructor.
type Config struct {
	HTTP      HTTPConfig      `json:"http" yaml:"http" mapstructure:"http"`
	Log       LogConfig       `json:"log" yaml:"log" mapstructure:"log"`
	Server    ServerConfig    `json:"server" yaml:"server" mapstructure:"server"`
	Store     StoreConfig     `json:"store" yaml:"store" mapstructure:"store"`
	Search    SearchConfig    `json:"search" yaml:"search" mapstructure:"search"`
	Region    RegionConfig    `json:"region" yaml:"region" mapstructure:"region"`
	News      ProviderConfig  `json:"news" yaml:"news" mapstructure:"news"`
	Video     ProviderConfig  `json:"video" yaml:"video" mapstructure:"video"`
	Synthetic SyntheticConfig `json:"synthetic" yaml:"synthetic" mapstructure:"synthetic"`
}

// DefaultConfig returns the configuration used when no file or environment
// override is present.
func DefaultConfig() Config {
	return Config{
		HTTP: HTTPConfig{
			Timeout:   10 * time.Second,
			UserAgent: "civic-search/0.1",
		},
		Log: LogConfig{Level: "info"},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Path:    "data/civic.db",
			Enabled: true,
		},
		Search: SearchConfig{
			DefaultPageSize:      10,
			MaxPageSize:          50,
			MaxQueryLength:       200,
			ProviderTimeout:      5 * time.Second,
			SuggestionsPerSource: 5,
			Language:             "pt",
		},
		Region: RegionConfig{
			Default:         "local",
			LocaleQualifier: "Brasil",
			CountryCode:     "BR",
			LocalIndicators: []string{
				"brasil", "brasileiro", "brasileira", "brasília", "são paulo",
				"rio de janeiro", "congresso nacional", "stf", "senado federal",
				"câmara dos deputados", "planalto", ".br", "sus",
			},
			RegionalIndicators: []string{
				"américa latina", "latin america", "mercosul", "argentina",
				"uruguai", "paraguai", "chile", "bolívia", "colômbia", "peru",
				"venezuela", ".ar", ".uy", ".cl",
			},
			TrustedSources: []string{
				"agência brasil", "agenciabrasil.ebc.com.br", "g1", "g1.globo.com",
				"folha de s.paulo", "folha.uol.com.br", "estadão", "estadao.com.br",
				"tv câmara", "tv senado",
			},
		},
		News: ProviderConfig{
			BaseURL:         "https://newsapi.org/v2",
			MaxRetries:      2,
			BreakerFailures: 5,
			BreakerCooldown: 30 * time.Second,
		},
		Video: ProviderConfig{
			BaseURL:         "https://www.googleapis.com/youtube/v3",
			MaxRetries:      2,
			BreakerFailures: 5,
			BreakerCooldown: 30 * time.Second,
		},
	}
}
