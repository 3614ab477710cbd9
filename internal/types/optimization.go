// Package types provides type definitions for structured data used throughout the resume-optimizer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Change kinds recorded per bullet
const (
	ChangeVerbReplaced  = "verb_replaced"
	ChangeMetricAdded   = "metric_added"
	ChangeKeywordAdded  = "keyword_added"
	ChangeParaphrased   = "paraphrased"
	ChangeFallback      = "fallback"
	FallbackUnavailable = "skipped due to unavailable optimizer"
)

// OptimizationSummary is the change log of one optimization pass
type OptimizationSummary struct {
	BulletsTotal         int                `json:"bullets_total"`
	BulletsTouched       int                `json:"bullets_touched"`
	KeywordsAdded        int                `json:"keywords_added"`
	VerbsVaried          int                `json:"verbs_varied"`
	MetricsAdded         int                `json:"metrics_added"`
	FallbackCount        int                `json:"fallback_count"`
	VerbFallbacks        int                `json:"verb_fallbacks"`
	MetricsCoverageStart float64            `json:"metrics_coverage_before"`
	MetricsCoverage      float64            `json:"metrics_coverage"`
	SkippedCount         int                `json:"skipped_count"`
	Skipped              []SkippedEntry     `json:"skipped,omitempty"`
	Rejected             []RejectedEntry    `json:"rejected,omitempty"`
	Experiences          []ExperienceChange `json:"experiences"`
	TopVerbs             []VerbUsage        `json:"top_verbs,omitempty"`
}

// ExperienceChange is the per-experience breakdown of the change log
type ExperienceChange struct {
	ExperienceID string         `json:"experience_id"`
	Company      string         `json:"company"`
	Role         string         `json:"role"`
	Bullets      []BulletChange `json:"bullets"`
}

// BulletChange records what happened to one bullet
type BulletChange struct {
	BulletID       string   `json:"bullet_id"`
	Original       string   `json:"original"`
	Final          string   `json:"final"`
	Changes        []string `json:"changes,omitempty"`
	VerbFrom       string   `json:"verb_from,omitempty"`
	VerbTo         string   `json:"verb_to,omitempty"`
	KeywordAdded   string   `json:"keyword_added,omitempty"`
	FallbackReason string   `json:"fallback_reason,omitempty"`
}

// Touched reports whether the bullet text differs from the original
func (c BulletChange) Touched() bool {
	return c.Original != c.Final
}

// SkippedEntry identifies an experience that was outside the recency window
type SkippedEntry struct {
	ExperienceID string `json:"experience_id"`
	Company      string `json:"company"`
	Role         string `json:"role"`
}

// RejectedEntry identifies a malformed experience excluded at the load boundary
type RejectedEntry struct {
	Index   int    `json:"index"`
	Company string `json:"company,omitempty"`
	Role    string `json:"role,omitempty"`
	Reason  string `json:"reason"`
}

// VerbUsage is a ledger snapshot row
type VerbUsage struct {
	Verb     string `json:"verb"`
	Category string `json:"category"`
	Count    int    `json:"count"`
	Flagged  bool   `json:"flagged,omitempty"`
}
