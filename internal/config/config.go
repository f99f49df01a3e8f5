// Package config handles application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Default scrape targets: Amazon best-seller categories searched by the actor.
var DefaultCategoryURLs = []string{
	"https://www.amazon.com/Best-Sellers-Electronics-Headphones/zgbs/electronics/172541",
	"https://www.amazon.com/Best-Sellers-Electronics/zgbs/electronics",
}

const (
	DefaultOpenAIModel    = "gpt-3.5-turbo-instruct"
	DefaultApifyBaseURL   = "https://api.apify.com"
	DefaultApifyActor     = "junglee~amazon-bestsellers"
	DefaultMaxResults     = 10
	DefaultPollAttempts   = 10
	DefaultPollInterval   = 5 * time.Second
	DefaultConfigFileName = "scraper.yaml"
)

// Config holds all application configuration.
// It is built once at startup and passed by reference into each component.
type Config struct {
	// Server settings
	Port               int      `validate:"gte=1,lte=65535"`
	BaseURL            string   `validate:"omitempty,url"`
	CORSOrigins        []string
	RateLimitPerMinute int           `validate:"gte=0"` // 0 disables the per-IP limit
	RequestTimeout     time.Duration `validate:"gt=0"`  // Deadline for a whole search request

	// Language model
	OpenAIAPIKey  string `validate:"required"`
	OpenAIBaseURL string `validate:"omitempty,url"` // Override for proxies and tests
	OpenAIModel   string `validate:"required"`

	// Scraping service
	ApifyAPIKey  string        `validate:"required"`
	ApifyBaseURL string        `validate:"required,url"`
	HTTPTimeout  time.Duration `validate:"gt=0"` // Per-call timeout for scraping service requests

	Scrape ScrapeTargets
	Poll   PollSettings

	// Optional YAML file overriding Scrape and Poll
	ConfigFile string
}

// ScrapeTargets are the fixed parameters sent with every scrape job.
type ScrapeTargets struct {
	Actor        string   `yaml:"actor" validate:"required"`
	MaxResults   int      `yaml:"max_results" validate:"gte=1"`
	CategoryURLs []string `yaml:"category_urls" validate:"min=1,dive,url"`
}

// PollSettings bound how long a search waits for a scrape job.
type PollSettings struct {
	MaxAttempts int           `yaml:"max_attempts" validate:"gte=1"`
	Interval    time.Duration `yaml:"interval" validate:"gt=0"`
}

// Defaults returns a configuration with every non-secret field set.
func Defaults() *Config {
	return &Config{
		Port:               8080,
		BaseURL:            "http://localhost:8080",
		CORSOrigins:        []string{"http://localhost:3000"},
		RateLimitPerMinute: 30,
		RequestTimeout:     2 * time.Minute,
		OpenAIModel:        DefaultOpenAIModel,
		ApifyBaseURL:       DefaultApifyBaseURL,
		HTTPTimeout:        30 * time.Second,
		Scrape: ScrapeTargets{
			Actor:        DefaultApifyActor,
			MaxResults:   DefaultMaxResults,
			CategoryURLs: append([]string(nil), DefaultCategoryURLs...),
		},
		Poll: PollSettings{
			MaxAttempts: DefaultPollAttempts,
			Interval:    DefaultPollInterval,
		},
		ConfigFile: DefaultConfigFileName,
	}
}

// Load reads configuration from defaults, the optional YAML file and
// environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	cfg := Defaults()

	cfg.ConfigFile = getEnv("SCRAPER_CONFIG_FILE", cfg.ConfigFile)
	file, err := LoadFile(cfg.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", cfg.ConfigFile, err)
	}
	file.applyTo(cfg)

	cfg.Port = getEnvInt("PORT", cfg.Port)
	cfg.BaseURL = getEnv("BASE_URL", cfg.BaseURL)
	cfg.CORSOrigins = getEnvSlice("CORS_ORIGINS", cfg.CORSOrigins)
	cfg.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", cfg.RateLimitPerMinute)
	cfg.RequestTimeout = getEnvDuration("REQUEST_TIMEOUT", cfg.RequestTimeout)

	cfg.OpenAIAPIKey = getEnv("OPENAI_API_KEY", "")
	cfg.OpenAIBaseURL = getEnv("OPENAI_BASE_URL", "")
	cfg.OpenAIModel = getEnv("OPENAI_MODEL", cfg.OpenAIModel)

	cfg.ApifyAPIKey = getEnv("APIFY_API_KEY", "")
	cfg.ApifyBaseURL = getEnv("APIFY_BASE_URL", cfg.ApifyBaseURL)
	cfg.HTTPTimeout = getEnvDuration("HTTP_TIMEOUT", cfg.HTTPTimeout)

	cfg.Scrape.Actor = getEnv("APIFY_ACTOR", cfg.Scrape.Actor)
	cfg.Scrape.MaxResults = getEnvInt("SCRAPE_MAX_RESULTS", cfg.Scrape.MaxResults)
	cfg.Scrape.CategoryURLs = getEnvSlice("SCRAPE_CATEGORY_URLS", cfg.Scrape.CategoryURLs)

	cfg.Poll.MaxAttempts = getEnvInt("POLL_MAX_ATTEMPTS", cfg.Poll.MaxAttempts)
	cfg.Poll.Interval = getEnvDuration("POLL_INTERVAL", cfg.Poll.Interval)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks required secrets and value ranges.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return defaultValue
}
