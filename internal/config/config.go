// Package config loads and validates runtime configuration from a YAML or
// JSON file, RESUME_AGENT_* environment variables and defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jonathan/resume-optimizer/internal/rewriting"
	"github.com/jonathan/resume-optimizer/internal/scoring"
	"github.com/jonathan/resume-optimizer/internal/server/ratelimit"
)

// EnvPrefix is prepended to every environment variable override
const EnvPrefix = "RESUME_AGENT"

// Config is the full runtime configuration
type Config struct {
	Optimizer   OptimizerConfig `mapstructure:"optimizer"`
	Scoring     ScoringConfig   `mapstructure:"scoring"`
	LLM         LLMConfig       `mapstructure:"llm"`
	Log         LogConfig       `mapstructure:"log"`
	Server      ServerConfig    `mapstructure:"server"`
	Fetch       FetchConfig     `mapstructure:"fetch"`
	DatabaseURL string          `mapstructure:"database_url"`
}

// OptimizerConfig controls one optimization pass
type OptimizerConfig struct {
	MaxExperiences       int           `mapstructure:"max_experiences"`
	OveruseThreshold     int           `mapstructure:"overuse_threshold"`
	MetricsTarget        float64       `mapstructure:"metrics_target"`
	RewriteTimeout       time.Duration `mapstructure:"rewrite_timeout"`
	Paraphrase           bool          `mapstructure:"paraphrase"`
	MaxKeywordsPerBullet int           `mapstructure:"max_keywords_per_bullet"`
}

// ScoringConfig controls the resume scorer
type ScoringConfig struct {
	QuantificationTarget float64               `mapstructure:"quantification_target"`
	MinDistinctVerbs     int                   `mapstructure:"min_distinct_verbs"`
	Grades               []scoring.GradeCutoff `mapstructure:"grades"`
}

// LLMConfig selects and configures the bullet rewriter
type LLMConfig struct {
	Rewriter string            `mapstructure:"rewriter"`
	APIKey   string            `mapstructure:"api_key"`
	Models   map[string]string `mapstructure:"models"`
}

// LogConfig controls the zap logger
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// ServerConfig controls the HTTP server
type ServerConfig struct {
	Port      int              `mapstructure:"port"`
	RateLimit ratelimit.Config `mapstructure:"rate_limit"`
}

// FetchConfig controls how job posting URLs are fetched
type FetchConfig struct {
	UseBrowser     bool          `mapstructure:"use_browser"`
	BrowserTimeout time.Duration `mapstructure:"browser_timeout"`
}

// Default returns the configuration used when nothing overrides it
func Default() Config {
	return Config{
		Optimizer: DefaultOptimizer(),
		Scoring: ScoringConfig{
			QuantificationTarget: scoring.DefaultQuantificationTarget,
			MinDistinctVerbs:     scoring.DefaultMinDistinctVerbs,
			Grades:               scoring.DefaultGrades(),
		},
		LLM:    LLMConfig{Rewriter: string(rewriting.ModeAuto)},
		Server: ServerConfig{Port: 8080, RateLimit: ratelimit.DefaultConfig()},
		Fetch:  FetchConfig{BrowserTimeout: 30 * time.Second},
	}
}

// DefaultOptimizer returns the default optimizer settings
func DefaultOptimizer() OptimizerConfig {
	return OptimizerConfig{
		MaxExperiences:       3,
		OveruseThreshold:     3,
		MetricsTarget:        0.85,
		RewriteTimeout:       20 * time.Second,
		MaxKeywordsPerBullet: 1,
	}
}

// Load reads configuration from path (optional) into a fresh viper instance
func Load(path string) (*Config, error) {
	return LoadWith(viper.New(), path)
}

// LoadWith reads configuration using v, so callers can bind command-line
// flags before loading. An empty path skips the config file.
func LoadWith(v *viper.Viper, path string) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("llm.api_key", EnvPrefix+"_LLM_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind API key environment: %w", err)
	}
	if err := v.BindEnv("database_url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind database environment: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("optimizer.max_experiences", d.Optimizer.MaxExperiences)
	v.SetDefault("optimizer.overuse_threshold", d.Optimizer.OveruseThreshold)
	v.SetDefault("optimizer.metrics_target", d.Optimizer.MetricsTarget)
	v.SetDefault("optimizer.rewrite_timeout", d.Optimizer.RewriteTimeout)
	v.SetDefault("optimizer.paraphrase", d.Optimizer.Paraphrase)
	v.SetDefault("optimizer.max_keywords_per_bullet", d.Optimizer.MaxKeywordsPerBullet)
	v.SetDefault("scoring.quantification_target", d.Scoring.QuantificationTarget)
	v.SetDefault("scoring.min_distinct_verbs", d.Scoring.MinDistinctVerbs)
	v.SetDefault("scoring.grades", d.Scoring.Grades)
	v.SetDefault("llm.rewriter", d.LLM.Rewriter)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
	v.SetDefault("server.port", d.Server.Port)
	rl := d.Server.RateLimit
	v.SetDefault("server.rate_limit.enabled", rl.Enabled)
	for name, rule := range rateLimitRules(rl) {
		v.SetDefault("server.rate_limit."+name+".limit", rule.Limit)
		v.SetDefault("server.rate_limit."+name+".window", rule.Window)
		v.SetDefault("server.rate_limit."+name+".burst", rule.Burst)
	}
	v.SetDefault("server.rate_limit.cleanup_interval", rl.CleanupInterval)
	v.SetDefault("fetch.use_browser", d.Fetch.UseBrowser)
	v.SetDefault("fetch.browser_timeout", d.Fetch.BrowserTimeout)
	v.SetDefault("database_url", "")
}

// Validate checks every setting. The first problem found is returned as a
// *ConfigurationError.
func (c *Config) Validate() error {
	if err := c.Optimizer.Validate(); err != nil {
		return err
	}
	if c.Scoring.QuantificationTarget < 0 || c.Scoring.QuantificationTarget > 1 {
		return &ConfigurationError{Field: "scoring.quantification_target", Message: "must be between 0 and 1"}
	}
	if c.Scoring.MinDistinctVerbs < 1 {
		return &ConfigurationError{Field: "scoring.min_distinct_verbs", Message: "must be at least 1"}
	}
	if err := scoring.ValidateGrades(c.Scoring.Grades); err != nil {
		return &ConfigurationError{Field: "scoring.grades", Message: "invalid grade table", Cause: err}
	}
	if _, err := rewriting.ParseMode(c.LLM.Rewriter); err != nil {
		return &ConfigurationError{Field: "llm.rewriter", Message: "unsupported mode", Cause: err}
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return &ConfigurationError{Field: "server.port", Message: "must be between 0 and 65535"}
	}
	for name, rule := range rateLimitRules(c.Server.RateLimit) {
		if rule.Limit < 0 || rule.Burst < 0 {
			return &ConfigurationError{Field: "server.rate_limit." + name, Message: "limit and burst must not be negative"}
		}
		if rule.Limit > 0 && rule.Window <= 0 {
			return &ConfigurationError{Field: "server.rate_limit." + name + ".window", Message: "must be positive"}
		}
	}
	if c.Fetch.UseBrowser && c.Fetch.BrowserTimeout <= 0 {
		return &ConfigurationError{Field: "fetch.browser_timeout", Message: "must be positive when use_browser is set"}
	}
	return nil
}

// Validate checks the optimizer settings
func (o OptimizerConfig) Validate() error {
	switch {
	case o.OveruseThreshold < 1:
		return &ConfigurationError{Field: "optimizer.overuse_threshold", Message: "must be at least 1"}
	case o.MetricsTarget < 0 || o.MetricsTarget > 1:
		return &ConfigurationError{Field: "optimizer.metrics_target", Message: "must be between 0 and 1"}
	case o.MaxExperiences < 1:
		return &ConfigurationError{Field: "optimizer.max_experiences", Message: "must be at least 1"}
	case o.RewriteTimeout <= 0:
		return &ConfigurationError{Field: "optimizer.rewrite_timeout", Message: "must be positive"}
	case o.MaxKeywordsPerBullet < 0:
		return &ConfigurationError{Field: "optimizer.max_keywords_per_bullet", Message: "must be non-negative"}
	}
	return nil
}

// rateLimitRules names each rule by its config key
func rateLimitRules(rl ratelimit.Config) map[string]ratelimit.Rule {
	return map[string]ratelimit.Rule{"optimize": rl.Optimize, "score": rl.Score, "default": rl.Default}
}
