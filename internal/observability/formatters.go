// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, ending in "..." when cut
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintProfile outputs the keyword profile grouped by tier.
func (p *Printer) PrintProfile(profile *types.KeywordProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Role:     %s\n", profile.Role))
	sb.WriteString(fmt.Sprintf("Template: %s", profile.Template))
	if profile.Fallback {
		sb.WriteString(" (fallback)")
	}
	sb.WriteString("\n\n")

	for _, tier := range []struct {
		label string
		level int
	}{
		{"Primary", types.TierPrimary},
		{"Secondary", types.TierSecondary},
	} {
		keywords := profile.Tier(tier.level)
		if len(keywords) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s (%d):\n", tier.label, len(keywords)))
		count := min(len(keywords), maxItemsToShow)
		for i := 0; i < count; i++ {
			kw := keywords[i]
			sb.WriteString(fmt.Sprintf("  • %s  %d-%d  w=%.1f\n", kw.Name, kw.MinOccurrences, kw.MaxOccurrences, kw.Weight))
		}
		if len(keywords) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(keywords)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	p.printBox("KEYWORD PROFILE", strings.TrimSuffix(sb.String(), "\n\n"))
}

// PrintSummary outputs the optimization change log counters and the most
// used verbs.
func (p *Printer) PrintSummary(summary *types.OptimizationSummary) {
	if summary == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Bullets touched:  %d / %d\n", summary.BulletsTouched, summary.BulletsTotal))
	sb.WriteString(fmt.Sprintf("Keywords added:   %d\n", summary.KeywordsAdded))
	sb.WriteString(fmt.Sprintf("Verbs varied:     %d\n", summary.VerbsVaried))
	sb.WriteString(fmt.Sprintf("Metrics added:    %d\n", summary.MetricsAdded))
	sb.WriteString(fmt.Sprintf("Metric coverage:  %.0f%% -> %.0f%%\n", summary.MetricsCoverageStart*100, summary.MetricsCoverage*100))
	if summary.FallbackCount > 0 {
		sb.WriteString(fmt.Sprintf("Fallbacks:        %d\n", summary.FallbackCount))
	}
	if summary.SkippedCount > 0 {
		sb.WriteString(fmt.Sprintf("Skipped:          %d experiences\n", summary.SkippedCount))
	}

	if len(summary.TopVerbs) > 0 {
		sb.WriteString("\nTop verbs:\n")
		count := min(len(summary.TopVerbs), maxItemsToShow)
		for i := 0; i < count; i++ {
			v := summary.TopVerbs[i]
			sb.WriteString(fmt.Sprintf("  • %s ×%d (%s)", v.Verb, v.Count, v.Category))
			if v.Flagged {
				sb.WriteString(" ⚠")
			}
			sb.WriteString("\n")
		}
	}

	p.printBox("OPTIMIZATION SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintBulletChanges outputs the bullets that changed with change indicators.
func (p *Printer) PrintBulletChanges(summary *types.OptimizationSummary) {
	if summary == nil {
		return
	}

	var changed []types.BulletChange
	for _, exp := range summary.Experiences {
		for _, b := range exp.Bullets {
			if b.Touched() || b.FallbackReason != "" {
				changed = append(changed, b)
			}
		}
	}
	if len(changed) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Changed %d bullets:\n\n", len(changed)))

	count := min(len(changed), maxItemsToShow)
	for i := 0; i < count; i++ {
		b := changed[i]
		sb.WriteString(fmt.Sprintf("• %s\n", truncate(b.Final, 50)))

		checks := []string{}
		for _, c := range b.Changes {
			switch c {
			case types.ChangeVerbReplaced:
				checks = append(checks, fmt.Sprintf("✓verb %s→%s", b.VerbFrom, b.VerbTo))
			case types.ChangeMetricAdded:
				checks = append(checks, "✓metrics")
			case types.ChangeKeywordAdded:
				checks = append(checks, "✓"+b.KeywordAdded)
			case types.ChangeFallback:
				checks = append(checks, "⚠fallback")
			}
		}
		if len(checks) > 0 {
			sb.WriteString(fmt.Sprintf("  [%s]\n", strings.Join(checks, " ")))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(changed) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more bullets", len(changed)-maxItemsToShow))
	}

	p.printBox("REWRITTEN BULLETS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintScore outputs the category scores, grade and top recommendations.
func (p *Printer) PrintScore(score *types.ScoreBreakdown) {
	if score == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total:    %.1f / 100  (%s)\n\n", score.Total, score.Grade))
	sb.WriteString(fmt.Sprintf("Content quality:      %4.1f / %.0f\n", score.ContentQuality, types.MaxContentQuality))
	sb.WriteString(fmt.Sprintf("Format & ATS:         %4.1f / %.0f\n", score.FormatATS, types.MaxFormatATS))
	sb.WriteString(fmt.Sprintf("Keyword optimization: %4.1f / %.0f\n", score.KeywordOptimization, types.MaxKeywordOptimization))
	sb.WriteString(fmt.Sprintf("Technical depth:      %4.1f / %.0f\n", score.TechnicalDepth, types.MaxTechnicalDepth))

	if len(score.Details.KeywordCounts) > 0 {
		names := make([]string, 0, len(score.Details.KeywordCounts))
		for name := range score.Details.KeywordCounts {
			names = append(names, name)
		}
		sort.Strings(names)
		var parts []string
		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s=%d", name, score.Details.KeywordCounts[name]))
		}
		sb.WriteString(fmt.Sprintf("\nKeywords: %s\n", strings.Join(parts, " ")))
	}

	if len(score.Recommendations) > 0 {
		sb.WriteString("\nRecommendations:\n")
		count := min(len(score.Recommendations), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", score.Recommendations[i]))
		}
		if len(score.Recommendations) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(score.Recommendations)-maxItemsToShow))
		}
	}

	p.printBox("RESUME SCORE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRejected outputs experiences excluded at the load boundary.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintRejected(rejected []types.RejectedEntry) {
	if len(rejected) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ ALL EXPERIENCES LOADED")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Rejected %d experiences:\n\n", len(rejected)))

	for i, r := range rejected {
		label := fmt.Sprintf("#%d", r.Index)
		if r.Company != "" || r.Role != "" {
			label = fmt.Sprintf("#%d %s %s", r.Index, r.Company, r.Role)
		}
		sb.WriteString(fmt.Sprintf("⚠ %s\n", strings.TrimSpace(label)))
		sb.WriteString(fmt.Sprintf("  %s\n", truncate(r.Reason, 45)))
		if i < len(rejected)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("REJECTED EXPERIENCES", strings.TrimSuffix(sb.String(), "\n"))
}
