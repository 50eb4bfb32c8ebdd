package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the site. Values come from the
// process environment, optionally seeded from a .env file.
type Config struct {
	Port     string
	LogLevel string
	BaseURL  string

	DefaultLocale string
	Locales       []string

	DatabaseURL string
	CMSCacheTTL time.Duration

	TelemetryEnabled bool
	TraceSampleRatio float64
	MetricInterval   time.Duration

	AdminJWTSecret string

	LLMEndpoint string
	LLMAPIKey   string
	LLMModel    string
	LLMTimeout  time.Duration

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// LoadDotEnv loads environment variables from path (".env" when empty) if
// the file exists. Existing process environment variables are not overridden.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	err := godotenv.Load(path)
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load %s: %w", path, err)
}

// Load reads the configuration from the environment, applying defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		BaseURL:  strings.TrimRight(getEnv("BASE_URL", "http://localhost:8080"), "/"),

		DefaultLocale: strings.ToLower(getEnv("DEFAULT_LOCALE", "en")),
		Locales:       splitLocales(getEnv("LOCALES", "en,de,es")),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		LLMEndpoint: getEnv("LLM_ENDPOINT", "https://api.openai.com/v1/chat/completions"),
		LLMAPIKey:   getEnv("LLM_API_KEY", ""),
		LLMModel:    getEnv("LLM_MODEL", "gpt-4o-mini"),
	}

	var errs []error
	cfg.TelemetryEnabled, errs = parseBool("TELEMETRY_ENABLED", false, errs)
	cfg.TraceSampleRatio, errs = parseFloat("TRACE_SAMPLE_RATIO", 1, errs)
	cfg.MetricInterval, errs = parseDuration("METRIC_INTERVAL", 15*time.Second, errs)
	cfg.CMSCacheTTL, errs = parseDuration("CMS_CACHE_TTL", time.Minute, errs)
	cfg.LLMTimeout, errs = parseDuration("LLM_TIMEOUT", 30*time.Second, errs)
	cfg.ReadTimeout, errs = parseDuration("HTTP_READ_TIMEOUT", 15*time.Second, errs)
	cfg.WriteTimeout, errs = parseDuration("HTTP_WRITE_TIMEOUT", 60*time.Second, errs)
	cfg.IdleTimeout, errs = parseDuration("HTTP_IDLE_TIMEOUT", 60*time.Second, errs)
	cfg.ShutdownTimeout, errs = parseDuration("SHUTDOWN_TIMEOUT", 5*time.Second, errs)
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings that cannot work together.
func (c *Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("PORT must not be empty"))
	}
	if len(c.Locales) == 0 {
		errs = append(errs, errors.New("LOCALES must name at least one locale"))
	}
	if !c.HasLocale(c.DefaultLocale) {
		errs = append(errs, fmt.Errorf("DEFAULT_LOCALE %q is not listed in LOCALES", c.DefaultLocale))
	}
	if c.TraceSampleRatio < 0 || c.TraceSampleRatio > 1 {
		errs = append(errs, fmt.Errorf("TRACE_SAMPLE_RATIO must be within [0,1], got %v", c.TraceSampleRatio))
	}
	for name, d := range map[string]time.Duration{
		"CMS_CACHE_TTL":      c.CMSCacheTTL,
		"LLM_TIMEOUT":        c.LLMTimeout,
		"HTTP_READ_TIMEOUT":  c.ReadTimeout,
		"HTTP_WRITE_TIMEOUT": c.WriteTimeout,
		"HTTP_IDLE_TIMEOUT":  c.IdleTimeout,
		"SHUTDOWN_TIMEOUT":   c.ShutdownTimeout,
	} {
		if d < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative", name))
		}
	}
	if c.WriteTimeout > 0 && c.LLMTimeout >= c.WriteTimeout {
		errs = append(errs, fmt.Errorf("LLM_TIMEOUT (%s) must be shorter than HTTP_WRITE_TIMEOUT (%s)", c.LLMTimeout, c.WriteTimeout))
	}
	return errors.Join(errs...)
}

// HasLocale reports whether locale is one of the served locales.
func (c *Config) HasLocale(locale string) bool {
	for _, l := range c.Locales {
		if l == locale {
			return true
		}
	}
	return false
}

// AdminEnabled reports whether the admin API can authenticate anyone.
func (c *Config) AdminEnabled() bool { return c.AdminJWTSecret != "" }

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string { return ":" + c.Port }

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(value)
	}
	return fallback
}

func splitLocales(s string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, part := range strings.Split(s, ",") {
		l := strings.ToLower(strings.TrimSpace(part))
		if l == "" {
			continue
		}
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

func parseBool(key string, fallback bool, errs []error) (bool, []error) {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback, errs
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return fallback, append(errs, fmt.Errorf("%s: %w", key, err))
	}
	return v, errs
}

func parseFloat(key string, fallback float64, errs []error) (float64, []error) {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback, errs
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fallback, append(errs, fmt.Errorf("%s: %w", key, err))
	}
	return v, errs
}

func parseDuration(key string, fallback time.Duration, errs []error) (time.Duration, []error) {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback, errs
	}
	v, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return fallback, append(errs, fmt.Errorf("%s: %w", key, err))
	}
	return v, errs
}
