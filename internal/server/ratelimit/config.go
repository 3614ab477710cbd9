package ratelimit

import (
	"net/http"
	"time"
)

// Rule is a token bucket setting: Limit requests per Window, with up to
// Burst requests at once. Burst defaults to Limit. A Limit of zero means
// unlimited.
type Rule struct {
	Limit  int           `mapstructure:"limit"`
	Window time.Duration `mapstructure:"window"`
	Burst  int           `mapstructure:"burst"`
}

func (r Rule) capacity() int {
	if r.Burst > 0 {
		return r.Burst
	}
	return r.Limit
}

// Config holds rate limiting configuration
type Config struct {
	Enabled bool `mapstructure:"enabled"`
	// Optimize covers both optimize endpoints, which share one bucket per client
	Optimize Rule `mapstructure:"optimize"`
	Score    Rule `mapstructure:"score"`
	// Default applies to every other endpoint except the health check
	Default         Rule          `mapstructure:"default"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	// Allowlist holds client IPs that are never limited
	Allowlist []string `mapstructure:"allowlist"`
}

// DefaultConfig returns limits sized for LLM-backed optimization runs
func DefaultConfig() Config {
	return Config{
		Enabled:         true,
		Optimize:        Rule{Limit: 10, Window: time.Hour, Burst: 2},
		Score:           Rule{Limit: 60, Window: time.Minute, Burst: 10},
		Default:         Rule{Limit: 300, Window: time.Minute},
		CleanupInterval: 5 * time.Minute,
	}
}

// endpoint maps a route to the bucket group it draws from
type endpoint struct {
	method string
	path   string
	group  string
}

var endpoints = []endpoint{
	{http.MethodPost, "/optimize", "optimize"},
	{http.MethodPost, "/optimize/stream", "optimize"},
	{http.MethodPost, "/score", "score"},
}

// ruleFor returns the bucket group and rule for a request. The health check
// is never limited.
func (c *Config) ruleFor(method, path string) (string, Rule) {
	if method == http.MethodGet && path == "/health" {
		return "health", Rule{}
	}
	for _, e := range endpoints {
		if e.method != method || e.path != path {
			continue
		}
		if e.group == "optimize" {
			return e.group, c.Optimize
		}
		return e.group, c.Score
	}
	return "default", c.Default
}
