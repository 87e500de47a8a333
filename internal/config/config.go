// Package config loads server configuration from environment variables.
//
// Every knob has a default except the Gemini API key — the server refuses to
// start without one, since every generation request would fail anyway. A .env
// file (loaded in main via godotenv) can supply these during development;
// production deployments set real environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment names. Development mode attaches internal error details to 500
// responses; production never does.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds all server configuration.
type Config struct {
	Port         int    // PORT, default 5000
	Env          string // APP_ENV, development|production, default production
	DBPath       string // DB_PATH, default data/copilot.db
	GeminiAPIKey string // GEMINI_API_KEY, required
	GeminiModel  string // GEMINI_MODEL, empty means the provider default

	// AllowedOrigins is the CORS allow-list. ALLOWED_ORIGINS is comma-separated;
	// the default covers the local Vite dev server, the server itself, and the
	// deployed frontend.
	AllowedOrigins []string

	// Sliding-window rate limit for the generate endpoint, per client IP.
	RateLimitRequests int           // RATE_LIMIT_REQUESTS, default 20
	RateLimitWindow   time.Duration // RATE_LIMIT_WINDOW, default 1m
}

// Load reads configuration from the environment, applying defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:   5000,
		Env:    EnvProduction,
		DBPath: "data/copilot.db",
		AllowedOrigins: []string{
			"http://localhost:5173",
			"http://localhost:5000",
			"https://copilot-tan.vercel.app",
		},
		RateLimitRequests: 20,
		RateLimitWindow:   time.Minute,
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config: invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}

	if v := os.Getenv("APP_ENV"); v != "" {
		switch v {
		case EnvDevelopment, EnvProduction:
			cfg.Env = v
		default:
			return nil, fmt.Errorf("config: invalid APP_ENV %q (want %s or %s)",
				v, EnvDevelopment, EnvProduction)
		}
	}

	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}

	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("config: GEMINI_API_KEY is required")
	}
	cfg.GeminiModel = os.Getenv("GEMINI_MODEL")

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		origins := make([]string, 0, 4)
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) == 0 {
			return nil, fmt.Errorf("config: ALLOWED_ORIGINS is set but empty")
		}
		cfg.AllowedOrigins = origins
	}

	if v := os.Getenv("RATE_LIMIT_REQUESTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("config: invalid RATE_LIMIT_REQUESTS %q", v)
		}
		cfg.RateLimitRequests = n
	}

	if v := os.Getenv("RATE_LIMIT_WINDOW"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("config: invalid RATE_LIMIT_WINDOW %q", v)
		}
		cfg.RateLimitWindow = d
	}

	return cfg, nil
}

// Development reports whether the server runs in development mode.
func (c *Config) Development() bool {
	return c.Env == EnvDevelopment
}
