package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pricelens/backend/internal/domain"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Fetch     FetchConfig
	Search    SearchConfig
	Cache     CacheConfig
	Pricing   domain.PricePolicy
	Sites     []domain.MerchantSite
	RateLimit RateLimitConfig
	Debug     bool
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// FetchConfig holds settings for outbound shop page requests
type FetchConfig struct {
	Timeout           time.Duration `mapstructure:"timeout"`
	UserAgent         string        `mapstructure:"user_agent"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	MaxRetries        int           `mapstructure:"max_retries"`
	Concurrency       int           `mapstructure:"concurrency"`
}

// SearchConfig holds web search settings for the snippet fallback
type SearchConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	MaxSnippets int    `mapstructure:"max_snippets"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type            string        `mapstructure:"type"` // only "memory" is supported
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RateLimitConfig holds inbound rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/pricelens/")

	// Environment variable settings
	v.SetEnvPrefix("PRICELENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile reads ./.env into the process environment if present.
// Variables that are already set keep their values.
func loadEnvFile() error {
	err := godotenv.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err == nil {
		log.Printf("[CONFIG] Loaded environment from .env")
	}
	return err
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"chrome-extension://*"})

	// Fetch defaults
	v.SetDefault("fetch.timeout", "5s")
	v.SetDefault("fetch.user_agent", "") // empty selects the fetch client default
	v.SetDefault("fetch.requests_per_second", 1.0)
	v.SetDefault("fetch.burst", 1)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.concurrency", 1)

	// Search defaults
	v.SetDefault("search.base_url", "https://html.duckduckgo.com/html/")
	v.SetDefault("search.max_snippets", 10)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "30m")
	v.SetDefault("cache.cleanup_interval", "5m")

	// Pricing defaults
	policy := domain.DefaultPricePolicy()
	v.SetDefault("pricing.min_amount", policy.MinAmount)
	v.SetDefault("pricing.max_amount", policy.MaxAmount)
	v.SetDefault("pricing.duplicate_threshold", policy.DuplicateThreshold)
	v.SetDefault("pricing.snippet_limit", policy.SnippetLimit)
	v.SetDefault("pricing.product_limit", policy.ProductLimit)
	v.SetDefault("pricing.display_rows", policy.DisplayRows)
	v.SetDefault("pricing.verify_rows", policy.VerifyRows)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 60)

	v.SetDefault("debug", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Cache.Type != "memory" {
		return fmt.Errorf("cache type must be 'memory', got: %s", config.Cache.Type)
	}

	p := config.Pricing
	if p.MinAmount <= 0 || p.MaxAmount < p.MinAmount {
		return fmt.Errorf("pricing bounds must satisfy 0 < min_amount <= max_amount, got %d..%d", p.MinAmount, p.MaxAmount)
	}
	if p.DuplicateThreshold <= 0 || p.DuplicateThreshold >= 1 {
		return fmt.Errorf("pricing duplicate_threshold must be between 0 and 1, got: %v", p.DuplicateThreshold)
	}
	if p.SnippetLimit <= 0 || p.ProductLimit <= 0 || p.DisplayRows <= 0 || p.VerifyRows <= 0 {
		return fmt.Errorf("pricing limits and row counts must be positive")
	}

	if config.Fetch.Concurrency <= 0 {
		return fmt.Errorf("fetch concurrency must be positive, got: %d", config.Fetch.Concurrency)
	}
	if config.Fetch.RequestsPerSecond <= 0 {
		return fmt.Errorf("fetch requests_per_second must be positive, got: %v", config.Fetch.RequestsPerSecond)
	}

	for _, site := range config.Sites {
		if site.Name == "" || site.SearchURL == "" {
			return fmt.Errorf("every site needs a name and a search_url")
		}
	}

	return nil
}
