// Package types provides type definitions for structured data used throughout the resume-optimizer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Category ceilings of the 100-point score
const (
	MaxContentQuality      = 50.0
	MaxFormatATS           = 20.0
	MaxKeywordOptimization = 20.0
	MaxTechnicalDepth      = 10.0
)

// ScoreBreakdown is the weighted 100-point quality score of a rendered document
type ScoreBreakdown struct {
	ContentQuality      float64      `json:"content_quality"`
	FormatATS           float64      `json:"format_ats"`
	KeywordOptimization float64      `json:"keyword_optimization"`
	TechnicalDepth      float64      `json:"technical_depth"`
	Total               float64      `json:"total"`
	Grade               string       `json:"grade"`
	Content             ContentScore `json:"content"`
	Details             ScoreDetails `json:"details"`
	Recommendations     []string     `json:"recommendations,omitempty"`
}

// ContentScore splits the content quality category into its components
type ContentScore struct {
	Quantification       float64 `json:"quantification"`
	VerbDiversity        float64 `json:"verb_diversity"`
	SectionBalance       float64 `json:"section_balance"`
	ProfessionalLanguage float64 `json:"professional_language"`
	NoFluff              float64 `json:"no_fluff"`
}

// ScoreDetails carries the raw counters behind the score
type ScoreDetails struct {
	Format                string         `json:"format"`
	BulletsAnalyzed       int            `json:"bullets_analyzed"`
	BulletsWithMetrics    int            `json:"bullets_with_metrics"`
	MetricsCoverage       float64        `json:"metrics_coverage"`
	DistinctVerbs         int            `json:"distinct_verbs"`
	VerbCategories        []string       `json:"verb_categories,omitempty"`
	ExperienceWordShare   float64        `json:"experience_word_share"`
	PronounCount          int            `json:"pronoun_count"`
	PassiveCount          int            `json:"passive_count"`
	FluffWords            []string       `json:"fluff_words,omitempty"`
	SectionsFound         []string       `json:"sections_found,omitempty"`
	SectionsMissing       []string       `json:"sections_missing,omitempty"`
	ATSIssues             []string       `json:"ats_issues,omitempty"`
	KeywordCounts         map[string]int `json:"keyword_counts,omitempty"`
	TechnologiesMentioned []string       `json:"technologies_mentioned,omitempty"`
	ScaleIndicators       int            `json:"scale_indicators"`
	OptimizerFallbacks    int            `json:"optimizer_fallbacks"`
}

// RunResult is the full structured output of one optimization run
type RunResult struct {
	RunID       string              `json:"run_id"`
	Role        string              `json:"role"`
	Profile     KeywordProfile      `json:"profile"`
	Experiences []Experience        `json:"experiences"`
	Summary     OptimizationSummary `json:"summary"`
	Score       ScoreBreakdown      `json:"score"`
	Document    string              `json:"document,omitempty"`
}
