// Package optimizer rewrites the bullets of the most recent experiences to
// vary leading verbs, reach a metrics-coverage target and place under-used
// tier-1 keywords. One Optimize call is a single run with its own verb ledger.
package optimizer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/resume-optimizer/internal/config"
	"github.com/jonathan/resume-optimizer/internal/experience"
	"github.com/jonathan/resume-optimizer/internal/keywords"
	"github.com/jonathan/resume-optimizer/internal/logger"
	"github.com/jonathan/resume-optimizer/internal/metrics"
	"github.com/jonathan/resume-optimizer/internal/rewriting"
	"github.com/jonathan/resume-optimizer/internal/types"
	"github.com/jonathan/resume-optimizer/internal/verbs"
)

// Options configures an Optimizer
type Options struct {
	config.OptimizerConfig

	// Rewriter is the text-transform collaborator. Nil means the offline template rewriter.
	Rewriter rewriting.Rewriter
	Logger   *zap.Logger
}

// Optimizer runs optimization passes. It holds no per-run state, so one
// instance may serve sequential runs.
type Optimizer struct {
	opts     Options
	rewriter rewriting.Rewriter
	log      *zap.Logger
}

// Result is the output of one pass. Experiences holds the optimized recent
// experiences followed by the untouched skipped ones, in recency order.
type Result struct {
	Experiences []types.Experience
	Summary     types.OptimizationSummary
}

// New validates opts and returns an Optimizer. Invalid settings return a
// *config.ConfigurationError.
func New(opts Options) (*Optimizer, error) {
	if err := opts.OptimizerConfig.Validate(); err != nil {
		return nil, err
	}
	rw := opts.Rewriter
	if rw == nil {
		rw = rewriting.TemplateRewriter{}
	}
	return &Optimizer{
		opts:     opts,
		rewriter: rw,
		log:      logger.OrNop(opts.Logger),
	}, nil
}

// run is the mutable state of a single Optimize call
type run struct {
	*Optimizer
	ctx          context.Context
	ledger       *verbs.Ledger
	profile      *types.KeywordProfile
	tier1        []types.Keyword
	keywordCount map[string]int
	processed    int
	withMetric   int
	summary      *types.OptimizationSummary
}

// Optimize runs one pass over exps for profile. The input slice and its
// bullets are never modified. Collaborator failures fall back per bullet and
// never fail the pass; an error is returned only for a nil profile or a
// context that is already done.
func (o *Optimizer) Optimize(ctx context.Context, exps []types.Experience, profile *types.KeywordProfile) (*Result, error) {
	if profile == nil {
		return nil, fmt.Errorf("keyword profile is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("optimization cancelled: %w", err)
	}

	recent, skipped := experience.Partition(exps, o.opts.MaxExperiences)

	r := &run{
		Optimizer:    o,
		ctx:          ctx,
		ledger:       verbs.NewLedger(o.opts.OveruseThreshold),
		profile:      profile,
		tier1:        profile.Tier(types.TierPrimary),
		keywordCount: make(map[string]int),
		summary:      &types.OptimizationSummary{Experiences: []types.ExperienceChange{}},
	}
	r.initKeywordCounts(exps)

	var originals []string
	for _, exp := range recent {
		for _, b := range exp.Bullets {
			originals = append(originals, b.Text)
		}
	}
	r.summary.MetricsCoverageStart = metrics.Coverage(originals)

	out := make([]types.Experience, 0, len(exps))
	var finals []string
	for _, exp := range recent {
		optimized, change := r.optimizeExperience(exp.Clone())
		out = append(out, optimized)
		r.summary.Experiences = append(r.summary.Experiences, change)
		for _, b := range optimized.Bullets {
			finals = append(finals, b.Text)
		}
	}
	for _, exp := range skipped {
		out = append(out, exp.Clone())
		r.summary.Skipped = append(r.summary.Skipped, types.SkippedEntry{
			ExperienceID: exp.ID,
			Company:      exp.Company,
			Role:         exp.Role,
		})
	}

	r.summary.SkippedCount = len(skipped)
	r.summary.MetricsCoverage = metrics.Coverage(finals)
	r.summary.TopVerbs = r.ledger.Snapshot()

	o.log.Info("optimization pass complete",
		zap.String(logger.FieldRole, profile.Role),
		zap.Int("bullets", r.summary.BulletsTotal),
		zap.Int("touched", r.summary.BulletsTouched),
		zap.Int("fallbacks", r.summary.FallbackCount),
		zap.Float64("coverage_before", r.summary.MetricsCoverageStart),
		zap.Float64("coverage_after", r.summary.MetricsCoverage),
		zap.Int("skipped", r.summary.SkippedCount))

	return &Result{Experiences: out, Summary: *r.summary}, nil
}

// initKeywordCounts seeds document-wide tier-1 counts from every original bullet
func (r *run) initKeywordCounts(exps []types.Experience) {
	for _, kw := range r.tier1 {
		n := 0
		for _, exp := range exps {
			for _, b := range exp.Bullets {
				n += keywords.CountOccurrences(b.Text, kw.Name)
			}
		}
		r.keywordCount[kw.Name] = n
	}
}

func (r *run) optimizeExperience(exp types.Experience) (types.Experience, types.ExperienceChange) {
	change := types.ExperienceChange{
		ExperienceID: exp.ID,
		Company:      exp.Company,
		Role:         exp.Role,
		Bullets:      make([]types.BulletChange, 0, len(exp.Bullets)),
	}

	texts := make([]string, len(exp.Bullets))
	for i, b := range exp.Bullets {
		texts[i] = b.Text
	}
	domains := keywords.ContextDomains(exp.Technologies, texts)

	for i := range exp.Bullets {
		bc := r.optimizeBullet(&exp, i, domains)
		change.Bullets = append(change.Bullets, bc)
		r.summary.BulletsTotal++
		if bc.Touched() {
			r.summary.BulletsTouched++
		}
	}
	return exp, change
}
