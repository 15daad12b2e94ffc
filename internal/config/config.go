package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	Env        string
	ListenAddr string

	// DATABASE_URL is optional: when unset the in-memory store backs the
	// cache and rate limiter (single-instance deployments).
	DatabaseURL string

	LogLevel  string
	LogPretty bool

	AllowedOrigins []string
	DefaultOrigin  string

	HIBPAPIKey         string
	SafeBrowsingAPIKey string
	HIBPBreachURL      string
	HIBPRangeURL       string
	SafeBrowsingURL    string

	BreachRateLimit  int
	BreachRateWindow time.Duration
	ScanRateLimit    int
	ScanRateWindow   time.Duration
	PwnedRateLimit   int
	PwnedRateWindow  time.Duration

	BreachCacheTTL time.Duration
	ScanCacheTTL   time.Duration

	SweepInterval time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var out int
		if _, err := fmt.Sscanf(v, "%d", &out); err == nil {
			return out
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getenvList(key string, def []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return def
}

func Load() (Config, error) {
	cfg := Config{
		Env:        getenv("APP_ENV", "development"),
		ListenAddr: getenv("LISTEN_ADDR", ":8080"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogPretty: getenv("LOG_PRETTY", "") == "true",

		AllowedOrigins: getenvList("ALLOWED_ORIGINS", []string{
			"https://protetordigital.com",
			"https://www.protetordigital.com",
			"http://localhost:4321",
			"http://localhost:3000",
		}),
		DefaultOrigin: getenv("DEFAULT_ORIGIN", "https://protetordigital.com"),

		HIBPAPIKey:         os.Getenv("HIBP_API_KEY"),
		SafeBrowsingAPIKey: os.Getenv("SAFE_BROWSING_API_KEY"),
		HIBPBreachURL:      getenv("HIBP_BREACH_URL", "https://haveibeenpwned.com/api/v3"),
		HIBPRangeURL:       getenv("HIBP_RANGE_URL", "https://api.pwnedpasswords.com/range"),
		SafeBrowsingURL:    getenv("SAFE_BROWSING_URL", "https://safebrowsing.googleapis.com/v4/threatMatches:find"),

		// Breach lookups burn a metered upstream quota; keep them far
		// tighter than prefix lookups, which identify nobody.
		BreachRateLimit:  getenvInt("BREACH_RATE_LIMIT", 10),
		BreachRateWindow: getenvDuration("BREACH_RATE_WINDOW", time.Hour),
		ScanRateLimit:    getenvInt("SCAN_RATE_LIMIT", 30),
		ScanRateWindow:   getenvDuration("SCAN_RATE_WINDOW", time.Minute),
		PwnedRateLimit:   getenvInt("PWNED_RATE_LIMIT", 60),
		PwnedRateWindow:  getenvDuration("PWNED_RATE_WINDOW", time.Minute),

		BreachCacheTTL: getenvDuration("BREACH_CACHE_TTL", 24*time.Hour),
		ScanCacheTTL:   getenvDuration("SCAN_CACHE_TTL", time.Hour),

		SweepInterval: getenvDuration("SWEEP_INTERVAL", 5*time.Minute),
	}
	if cfg.HIBPAPIKey == "" {
		// Not fatal; the breach endpoint answers 500 until the key is set.
		return cfg, fmt.Errorf("HIBP_API_KEY not set")
	}
	return cfg, nil
}
