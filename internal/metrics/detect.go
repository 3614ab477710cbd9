// Package metrics recognizes quantification patterns (percentages, magnitudes,
// multipliers, sizes, counts and before/after phrases) in bullet text.
package metrics

import (
	"regexp"
	"sort"

	"github.com/jonathan/resume-optimizer/internal/types"
)

// Metric span types
const (
	TypeReduction  = "reduction"
	TypeDelta      = "delta"
	TypePercentage = "percentage"
	TypeMultiplier = "multiplier"
	TypeSize       = "size"
	TypeMagnitude  = "magnitude"
	TypeCurrency   = "currency"
	TypeCountPlus  = "count_plus"
	TypeCount      = "count"
)

const unitSuffix = `(?:\s?(?:%|[kmb]\b|ms\b|s\b|sec(?:onds)?\b|min(?:utes)?\b|hours?\b|days?\b|weeks?\b))?`

var patterns = []struct {
	kind string
	re   *regexp.Regexp
}{
	{TypeReduction, regexp.MustCompile(`(?i)\bfrom\s+\$?\d+(?:[.,]\d+)*` + unitSuffix + `\s+to\s+\$?\d+(?:[.,]\d+)*` + unitSuffix)},
	{TypeDelta, regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s?%\s+(?:faster|fewer|less|lower|higher|more|smaller|cheaper|reduction|increase|improvement|decrease|growth|savings)\b`)},
	{TypePercentage, regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s?%`)},
	{TypeMultiplier, regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?x\b`)},
	{TypeSize, regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s?(?:kb|mb|gb|tb|pb)\b`)},
	{TypeCurrency, regexp.MustCompile(`(?i)\$\d+(?:[.,]\d+)*(?:\s?(?:[kmb]\b|million\b|billion\b))?\+?`)},
	{TypeMagnitude, regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?[kmb]\b\+?`)},
	{TypeCountPlus, regexp.MustCompile(`(?i)\b\d+(?:,\d{3})*\+(?:\s+[a-z]+)?`)},
	{TypeCount, regexp.MustCompile(`(?i)\b\d+(?:,\d{3})*(?:\.\d+)?\s+(?:users|customers|clients|requests|transactions|records|rows|tables|events|reports|pipelines|services|microservices|hours|minutes|days|weeks|engineers|developers|members|teams|servers|nodes|clusters|queries|jobs|models|dashboards|datasets|applications|apis|countries|regions|stores|partners)\b`)},
	{TypeCount, regexp.MustCompile(`\b\d{1,3}(?:,\d{3})+\b`)},
}

var numberPattern = regexp.MustCompile(`\d+(?:[.,]\d+)*`)

// Detection is the result of scanning one text for metrics
type Detection struct {
	Spans     []types.MetricSpan `json:"spans"`
	HasMetric bool               `json:"has_metric"`
}

// Detect returns every non-overlapping metric span in text, ordered by position.
// When two matches overlap the longer one wins; ties go to the earlier pattern family.
func Detect(text string) Detection {
	var candidates []candidate
	for order, p := range patterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			candidates = append(candidates, candidate{
				span:  types.MetricSpan{Text: text[loc[0]:loc[1]], Type: p.kind, Start: loc[0], End: loc[1]},
				order: order,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		li := candidates[i].span.End - candidates[i].span.Start
		lj := candidates[j].span.End - candidates[j].span.Start
		if li != lj {
			return li > lj
		}
		if candidates[i].span.Start != candidates[j].span.Start {
			return candidates[i].span.Start < candidates[j].span.Start
		}
		return candidates[i].order < candidates[j].order
	})

	var kept []types.MetricSpan
	for _, c := range candidates {
		if overlapsAny(c.span, kept) {
			continue
		}
		kept = append(kept, c.span)
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i].Start < kept[j].Start })

	return Detection{Spans: kept, HasMetric: len(kept) > 0}
}

// HasMetric reports whether text contains at least one metric pattern
func HasMetric(text string) bool {
	for _, p := range patterns {
		if p.re.MatchString(text) {
			return true
		}
	}
	return false
}

// Numbers returns every numeric token in text in order of appearance
func Numbers(text string) []string {
	return numberPattern.FindAllString(text, -1)
}

// Coverage returns the share of texts that carry a metric; zero texts yields 0
func Coverage(texts []string) float64 {
	if len(texts) == 0 {
		return 0
	}
	with := 0
	for _, t := range texts {
		if HasMetric(t) {
			with++
		}
	}
	return float64(with) / float64(len(texts))
}

type candidate struct {
	span  types.MetricSpan
	order int
}

func overlapsAny(span types.MetricSpan, kept []types.MetricSpan) bool {
	for _, k := range kept {
		if span.Start < k.End && k.Start < span.End {
			return true
		}
	}
	return false
}
