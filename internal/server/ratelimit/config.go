package ratelimit

import "time"

// Rule limits requests to one route for one method.
type Rule struct {
	Path   string        // Route path; a trailing "/" makes it a prefix
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	// IdleTTL is how long an unused bucket is kept.
	IdleTTL time.Duration
	Rules   []Rule
}

// DefaultConfig guards the routes that render or print.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Rules:           DefaultRules(),
	}
}

// DefaultRules returns the per-route limits. PDF printing drives a headless browser and
// gets the strictest one.
func DefaultRules() []Rule {
	return []Rule{
		{Path: "/export/pdf", Method: "GET", Limit: 20, Window: time.Minute, Burst: 3},
		{Path: "/export/", Method: "GET", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/print", Method: "GET", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/preview/", Method: "GET", Limit: 300, Window: time.Minute, Burst: 30},
		{Path: "/preview", Method: "GET", Limit: 300, Window: time.Minute, Burst: 30},
		{Path: "/api/document/import", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/api/photo", Method: "PUT", Limit: 30, Window: time.Minute, Burst: 5},
	}
}
