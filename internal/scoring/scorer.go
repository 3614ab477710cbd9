// Package scoring computes the weighted 100-point quality score of a rendered
// resume: content quality, format and ATS compliance, keyword optimization
// and technical depth. Scoring is pure; the same inputs always give the same
// breakdown.
package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/keywords"
	"github.com/jonathan/resume-optimizer/internal/metrics"
	"github.com/jonathan/resume-optimizer/internal/types"
	"github.com/jonathan/resume-optimizer/internal/verbs"
)

// Options configures a Scorer
type Options struct {
	QuantificationTarget float64
	MinDistinctVerbs     int
	Grades               []GradeCutoff
}

// DefaultOptions returns the standard targets and grade table
func DefaultOptions() Options {
	return Options{
		QuantificationTarget: DefaultQuantificationTarget,
		MinDistinctVerbs:     DefaultMinDistinctVerbs,
		Grades:               DefaultGrades(),
	}
}

// Scorer scores rendered documents. It holds only immutable settings and is
// safe for concurrent use.
type Scorer struct {
	opts   Options
	grades GradeTable
}

// NewScorer validates opts and returns a Scorer
func NewScorer(opts Options) (*Scorer, error) {
	if opts.QuantificationTarget < 0 || opts.QuantificationTarget > 1 {
		return nil, fmt.Errorf("quantification target %.2f is outside [0,1]", opts.QuantificationTarget)
	}
	if opts.MinDistinctVerbs < 1 {
		return nil, fmt.Errorf("minimum distinct verbs must be at least 1, got %d", opts.MinDistinctVerbs)
	}
	if err := ValidateGrades(opts.Grades); err != nil {
		return nil, err
	}
	grades := append(GradeTable(nil), opts.Grades...)
	return &Scorer{opts: opts, grades: grades}, nil
}

// Score parses document and scores it. experiences supply the bullets when
// the document has none of its own; profile drives keyword optimization and
// summary, when present, contributes the optimizer fallback count.
func (s *Scorer) Score(document string, experiences []types.Experience, profile *types.KeywordProfile, summary *types.OptimizationSummary) (types.ScoreBreakdown, error) {
	doc, err := ParseDocument(document)
	if err != nil {
		return types.ScoreBreakdown{}, fmt.Errorf("failed to parse document: %w", err)
	}
	return s.ScoreDocument(doc, experiences, profile, summary), nil
}

// ScoreDocument scores an already parsed document
func (s *Scorer) ScoreDocument(doc *Document, experiences []types.Experience, profile *types.KeywordProfile, summary *types.OptimizationSummary) types.ScoreBreakdown {
	bullets := doc.Bullets
	if len(bullets) == 0 {
		for _, exp := range experiences {
			for _, b := range exp.Bullets {
				bullets = append(bullets, b.Text)
			}
		}
	}

	details := types.ScoreDetails{
		Format:          doc.Format,
		SectionsFound:   doc.SectionNames(),
		SectionsMissing: doc.MissingSections(),
	}
	if summary != nil {
		details.OptimizerFallbacks = summary.FallbackCount
	}

	content := s.ContentQuality(doc, bullets, &details)
	out := types.ScoreBreakdown{
		Content:             content,
		ContentQuality:      round1(sumContent(content)),
		FormatATS:           round1(FormatATS(doc, &details)),
		KeywordOptimization: round1(KeywordOptimization(doc.Text, profile, &details)),
		TechnicalDepth:      round1(TechnicalDepth(doc.Text, &details)),
	}
	out.Total = round1(out.ContentQuality + out.FormatATS + out.KeywordOptimization + out.TechnicalDepth)
	out.Grade = s.grades.Letter(out.Total)
	out.Details = details
	out.Recommendations = s.recommendations(profile, &details)
	return out
}

// ContentQuality scores quantification, verb diversity, section balance,
// professional language and buzzword avoidance.
func (s *Scorer) ContentQuality(doc *Document, bullets []string, d *types.ScoreDetails) types.ContentScore {
	var c types.ContentScore

	d.BulletsAnalyzed = len(bullets)
	for _, b := range bullets {
		if metrics.HasMetric(b) {
			d.BulletsWithMetrics++
		}
	}
	d.MetricsCoverage = metrics.Coverage(bullets)
	switch {
	case len(bullets) == 0:
	case s.opts.QuantificationTarget == 0 || d.MetricsCoverage >= s.opts.QuantificationTarget:
		c.Quantification = pointsQuantification
	default:
		c.Quantification = pointsQuantification * d.MetricsCoverage / s.opts.QuantificationTarget
	}

	distinct := make(map[string]bool)
	categories := make(map[string]bool)
	for _, b := range bullets {
		if v, ok := verbs.ExtractLeadingVerb(b); ok {
			distinct[v.Base] = true
			categories[string(v.Category)] = true
		}
	}
	d.DistinctVerbs = len(distinct)
	d.VerbCategories = sortedKeys(categories)
	c.VerbDiversity = pointsVerbDiversity * math.Min(1, float64(d.DistinctVerbs)/float64(s.opts.MinDistinctVerbs))

	c.SectionBalance = sectionBalance(doc, d)

	lower := strings.ToLower(doc.Text)
	d.PronounCount = len(pronounPattern.FindAllString(doc.Text, -1))
	for _, p := range passivePhrases {
		d.PassiveCount += strings.Count(lower, p)
	}
	c.ProfessionalLanguage = math.Max(0, pointsProfessionalLanguage-
		math.Min(3, float64(d.PronounCount)/2)-
		math.Min(2, float64(d.PassiveCount)))

	for _, w := range fluffWords {
		if keywords.CountOccurrences(doc.Text, w) > 0 {
			d.FluffWords = append(d.FluffWords, w)
		}
	}
	c.NoFluff = math.Max(0, pointsNoFluff-float64(len(d.FluffWords)))

	c.Quantification = round1(c.Quantification)
	c.VerbDiversity = round1(c.VerbDiversity)
	c.SectionBalance = round1(c.SectionBalance)
	c.ProfessionalLanguage = round1(c.ProfessionalLanguage)
	c.NoFluff = round1(c.NoFluff)
	return c
}

// sectionBalance rewards an experience section holding 40 to 50 percent of
// the words under section headings.
func sectionBalance(doc *Document, d *types.ScoreDetails) float64 {
	total, experience := 0, 0
	for _, s := range doc.Sections {
		total += s.Words
		if s.Name == SectionExperience {
			experience += s.Words
		}
	}
	if total == 0 {
		return pointsSectionBalance / 2
	}
	share := float64(experience) / float64(total)
	d.ExperienceWordShare = round2(share)
	switch {
	case share >= 0.40 && share <= 0.50:
		return pointsSectionBalance
	case share >= 0.35 && share <= 0.55:
		return pointsSectionBalance - 2
	default:
		return pointsSectionBalance - 4
	}
}

func sumContent(c types.ContentScore) float64 {
	return math.Min(types.MaxContentQuality,
		c.Quantification+c.VerbDiversity+c.SectionBalance+c.ProfessionalLanguage+c.NoFluff)
}

// FormatATS starts from full credit and deducts for ATS-hostile constructs,
// missing required sections, extra layout tables and malformed markup.
func FormatATS(doc *Document, d *types.ScoreDetails) float64 {
	score := types.MaxFormatATS
	score -= penaltyATSKiller * float64(len(doc.ATSIssues))
	score -= penaltyMissingSection * float64(len(doc.MissingSections()))
	score -= penaltyStructure * float64(len(doc.StructureIssues))

	d.ATSIssues = append(d.ATSIssues, doc.ATSIssues...)
	d.ATSIssues = append(d.ATSIssues, doc.StructureIssues...)
	if doc.Tables > 1 {
		score -= penaltyExtraTable * float64(doc.Tables-1)
		d.ATSIssues = append(d.ATSIssues, fmt.Sprintf("Layout tables: %d", doc.Tables))
	}
	return math.Max(0, score)
}

// KeywordOptimization credits each tier-1 and tier-2 keyword by how much of
// its target range the text covers. Counts below the minimum earn partial
// credit, counts in range earn the keyword's full weight and counts above the
// maximum earn half of it, so stuffing never beats staying in range.
func KeywordOptimization(text string, profile *types.KeywordProfile, d *types.ScoreDetails) float64 {
	if profile == nil || len(profile.Keywords) == 0 {
		return 0
	}
	d.KeywordCounts = make(map[string]int, len(profile.Keywords))

	possible, earned := 0.0, 0.0
	for _, kw := range profile.Keywords {
		count := keywords.CountOccurrences(text, kw.Name)
		d.KeywordCounts[kw.Name] = count
		possible += kw.Weight
		earned += keywordCredit(kw, count)
	}
	if possible == 0 {
		return 0
	}
	return types.MaxKeywordOptimization * earned / possible
}

func keywordCredit(kw types.Keyword, count int) float64 {
	switch {
	case count == 0:
		return 0
	case count > kw.MaxOccurrences && kw.MaxOccurrences > 0:
		return kw.Weight * overshootCredit
	case count >= kw.MinOccurrences:
		return kw.Weight
	default:
		return kw.Weight * float64(count) / float64(kw.MinOccurrences)
	}
}

// TechnicalDepth credits named technologies, architecture vocabulary and
// large-scale numbers.
func TechnicalDepth(text string, d *types.ScoreDetails) float64 {
	d.TechnologiesMentioned = keywords.MentionedTechnologies([]string{text})
	score := math.Min(pointsTechnologies, float64(len(d.TechnologiesMentioned))/2)

	arch := 0
	for _, w := range architectureWords {
		if keywords.CountOccurrences(text, w) > 0 {
			arch++
		}
	}
	score += math.Min(pointsArchitecture, float64(arch)/2)

	d.ScaleIndicators = len(scalePattern.FindAllString(text, -1))
	score += math.Min(pointsScale, 1.5*float64(d.ScaleIndicators))
	return math.Min(types.MaxTechnicalDepth, score)
}

// recommendations lists the most useful fixes, most impactful first
func (s *Scorer) recommendations(profile *types.KeywordProfile, d *types.ScoreDetails) []string {
	var recs []string

	if d.BulletsAnalyzed > 0 && d.MetricsCoverage < s.opts.QuantificationTarget {
		needed := int(math.Ceil(s.opts.QuantificationTarget*float64(d.BulletsAnalyzed))) - d.BulletsWithMetrics
		if needed > 0 {
			recs = append(recs, fmt.Sprintf("Add metrics to %d more bullet points", needed))
		}
	}
	if d.DistinctVerbs < s.opts.MinDistinctVerbs {
		recs = append(recs, fmt.Sprintf("Use %d more distinct action verbs", s.opts.MinDistinctVerbs-d.DistinctVerbs))
	}
	used := make(map[string]bool, len(d.VerbCategories))
	for _, c := range d.VerbCategories {
		used[c] = true
	}
	for _, c := range verbs.Categories {
		if !used[string(c)] {
			example := verbs.InCategory(c)[0]
			recs = append(recs, fmt.Sprintf("Add a %s verb such as %q", c, example.Past))
		}
	}
	if len(d.SectionsMissing) > 0 {
		recs = append(recs, fmt.Sprintf("Add missing sections: %s", strings.Join(d.SectionsMissing, ", ")))
	}
	for _, issue := range d.ATSIssues {
		recs = append(recs, "Fix format issue: "+issue)
	}
	if profile != nil {
		for _, kw := range profile.Tier(types.TierPrimary) {
			if n := d.KeywordCounts[kw.Name]; n < kw.MinOccurrences {
				recs = append(recs, fmt.Sprintf("Mention %s %d more time(s)", kw.Name, kw.MinOccurrences-n))
			}
		}
	}
	if d.PronounCount > 0 {
		recs = append(recs, fmt.Sprintf("Remove first-person pronouns (%d found)", d.PronounCount))
	}
	if d.PassiveCount > 0 {
		recs = append(recs, fmt.Sprintf("Rewrite %d passive phrase(s) with action verbs", d.PassiveCount))
	}
	if len(d.FluffWords) > 0 {
		recs = append(recs, fmt.Sprintf("Replace buzzwords: %s", strings.Join(d.FluffWords, ", ")))
	}
	if d.OptimizerFallbacks > 0 {
		recs = append(recs, fmt.Sprintf("%d bullet(s) kept their original text because the rewriter was unavailable", d.OptimizerFallbacks))
	}

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
