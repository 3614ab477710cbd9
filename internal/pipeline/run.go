// Package pipeline orchestrates one optimization run: keyword profile,
// optimization pass, rendering, scoring and optional persistence.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-optimizer/internal/config"
	"github.com/jonathan/resume-optimizer/internal/db"
	"github.com/jonathan/resume-optimizer/internal/experience"
	"github.com/jonathan/resume-optimizer/internal/keywords"
	"github.com/jonathan/resume-optimizer/internal/logger"
	"github.com/jonathan/resume-optimizer/internal/optimizer"
	"github.com/jonathan/resume-optimizer/internal/rendering"
	"github.com/jonathan/resume-optimizer/internal/rewriting"
	"github.com/jonathan/resume-optimizer/internal/schemas"
	"github.com/jonathan/resume-optimizer/internal/scoring"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// Output formats
const (
	FormatLaTeX    = "latex"
	FormatMarkdown = "markdown"
)

// Progress steps
const (
	StepProfile  = "profile"
	StepOptimize = "optimize"
	StepRender   = "render"
	StepScore    = "score"
	StepPersist  = "persist"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step    string `json:"step"`
	Role    string `json:"role"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Store persists runs. *db.DB implements it.
type Store interface {
	CreateRun(ctx context.Context, runID uuid.UUID, role string) error
	CompleteRun(ctx context.Context, runID uuid.UUID, status string) error
	SaveResult(ctx context.Context, result *types.RunResult) error
}

// Options configures a Runner
type Options struct {
	Optimizer config.OptimizerConfig
	Scoring   config.ScoringConfig

	// Rewriter is the text-transform collaborator. Nil means the template rewriter.
	Rewriter rewriting.Rewriter
	// Store is optional; persistence failures are logged and never fail a run.
	Store  Store
	Logger *zap.Logger

	Format         string
	TemplatePath   string
	JobDescription string
	OnProgress     ProgressCallback
}

// OptionsFromConfig copies the optimizer and scoring sections of cfg
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Optimizer: cfg.Optimizer,
		Scoring:   cfg.Scoring,
		Format:    FormatLaTeX,
	}
}

// Runner executes runs. The optimizer keeps per-run state inside each
// Optimize call, so one Runner serves concurrent runs.
type Runner struct {
	opts      Options
	optimizer *optimizer.Optimizer
	scorer    *scoring.Scorer
	log       *zap.Logger
}

// NewRunner validates opts and builds the optimizer and scorer
func NewRunner(opts Options) (*Runner, error) {
	switch opts.Format {
	case "":
		opts.Format = FormatLaTeX
	case FormatLaTeX, FormatMarkdown:
	default:
		return nil, &config.ConfigurationError{Field: "format", Message: fmt.Sprintf("unsupported output format %q", opts.Format)}
	}

	log := logger.OrNop(opts.Logger)
	opt, err := optimizer.New(optimizer.Options{
		OptimizerConfig: opts.Optimizer,
		Rewriter:        opts.Rewriter,
		Logger:          log,
	})
	if err != nil {
		return nil, err
	}
	scorer, err := scoring.NewScorer(scoring.Options{
		QuantificationTarget: opts.Scoring.QuantificationTarget,
		MinDistinctVerbs:     opts.Scoring.MinDistinctVerbs,
		Grades:               opts.Scoring.Grades,
	})
	if err != nil {
		return nil, &config.ConfigurationError{Field: "scoring", Message: "invalid scoring settings", Cause: err}
	}

	return &Runner{opts: opts, optimizer: opt, scorer: scorer, log: log}, nil
}

// Scorer returns the runner's scorer
func (r *Runner) Scorer() *scoring.Scorer {
	return r.scorer
}

// emitProgress calls the progress callback if configured
func (r *Runner) emitProgress(runID, role, step, message string, content any) {
	if r.opts.OnProgress != nil {
		r.opts.OnProgress(ProgressEvent{
			Step:    step,
			Role:    role,
			Message: message,
			RunID:   runID,
			Content: content,
		})
	}
}

// Run optimizes the loaded portfolio for role, renders it, scores it and
// persists the result when a store is configured.
func (r *Runner) Run(ctx context.Context, load *experience.Load, role string) (*types.RunResult, error) {
	if load == nil || load.Portfolio == nil {
		return nil, fmt.Errorf("portfolio is required")
	}
	if strings.TrimSpace(role) == "" {
		return nil, fmt.Errorf("target role is required")
	}

	runID := uuid.New()
	id := runID.String()
	log := r.log.With(zap.String(logger.FieldRunID, id), zap.String(logger.FieldRole, role))
	r.createRun(ctx, runID, role, log)

	result, err := r.execute(ctx, load, role, id, log)
	if err != nil {
		r.completeRun(ctx, runID, db.RunStatusFailed, log)
		return nil, err
	}

	r.persist(ctx, runID, result, log)
	return result, nil
}

func (r *Runner) execute(ctx context.Context, load *experience.Load, role, runID string, log *zap.Logger) (*types.RunResult, error) {
	profile := keywords.BuildProfileWithDescription(role, r.opts.JobDescription)
	if profile.Fallback {
		log.Warn("unknown role, using generic keyword profile", zap.String("template", profile.Template))
	}
	r.emitProgress(runID, role, StepProfile,
		fmt.Sprintf("Built %d keywords from template %s", len(profile.Keywords), profile.Template), profile)

	optimized, err := r.optimizer.Optimize(ctx, load.Portfolio.Experiences, profile)
	if err != nil {
		return nil, fmt.Errorf("optimization failed: %w", err)
	}
	summary := optimized.Summary
	summary.Rejected = load.Rejected
	r.emitProgress(runID, role, StepOptimize,
		fmt.Sprintf("Touched %d of %d bullets", summary.BulletsTouched, summary.BulletsTotal), summary)

	document, err := r.render(load.Portfolio, optimized.Experiences)
	if err != nil {
		return nil, fmt.Errorf("rendering failed: %w", err)
	}
	r.emitProgress(runID, role, StepRender, fmt.Sprintf("Rendered %s document", r.opts.Format), nil)

	score, err := r.scorer.Score(document, optimized.Experiences, profile, &summary)
	if err != nil {
		return nil, fmt.Errorf("scoring failed: %w", err)
	}
	r.emitProgress(runID, role, StepScore, fmt.Sprintf("Scored %.1f (%s)", score.Total, score.Grade), score)

	result := &types.RunResult{
		RunID:       runID,
		Role:        role,
		Profile:     *profile,
		Experiences: optimized.Experiences,
		Summary:     summary,
		Score:       score,
		Document:    document,
	}
	if err := ValidateRunResult(result); err != nil {
		return nil, err
	}

	log.Info("run complete",
		zap.Float64("total", score.Total),
		zap.String("grade", score.Grade),
		zap.Int("fallbacks", summary.FallbackCount))
	return result, nil
}

func (r *Runner) render(portfolio *types.Portfolio, experiences []types.Experience) (string, error) {
	switch {
	case r.opts.Format == FormatMarkdown:
		return rendering.RenderMarkdown(portfolio, experiences)
	case r.opts.TemplatePath != "":
		return rendering.RenderLaTeXWithTemplate(r.opts.TemplatePath, portfolio, experiences)
	default:
		return rendering.RenderLaTeX(portfolio, experiences)
	}
}

// ValidateRunResult checks the serialized result against the run result schema
func ValidateRunResult(result *types.RunResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal run result: %w", err)
	}
	if err := schemas.ValidateRunResult(data); err != nil {
		return fmt.Errorf("run result failed schema validation: %w", err)
	}
	return nil
}

func (r *Runner) createRun(ctx context.Context, runID uuid.UUID, role string, log *zap.Logger) {
	if r.opts.Store == nil {
		return
	}
	if err := r.opts.Store.CreateRun(ctx, runID, role); err != nil {
		log.Warn("failed to record run, continuing without persistence", zap.Error(err))
	}
}

func (r *Runner) completeRun(ctx context.Context, runID uuid.UUID, status string, log *zap.Logger) {
	if r.opts.Store == nil {
		return
	}
	if err := r.opts.Store.CompleteRun(ctx, runID, status); err != nil {
		log.Warn("failed to complete run", zap.Error(err))
	}
}

func (r *Runner) persist(ctx context.Context, runID uuid.UUID, result *types.RunResult, log *zap.Logger) {
	if r.opts.Store == nil {
		return
	}
	status := db.RunStatusCompleted
	if err := r.opts.Store.SaveResult(ctx, result); err != nil {
		log.Warn("failed to save run result", zap.Error(err))
		status = db.RunStatusFailed
	} else {
		r.emitProgress(result.RunID, result.Role, StepPersist, "Saved run result", nil)
	}
	r.completeRun(ctx, runID, status, log)
}

// RunBatch runs every role concurrently against the same portfolio. Each run
// has its own ledger and profile. Results keep the order of roles; the first
// failure cancels the remaining runs.
func (r *Runner) RunBatch(ctx context.Context, load *experience.Load, roles []string) ([]*types.RunResult, error) {
	results := make([]*types.RunResult, len(roles))
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	for i, role := range roles {
		g.Go(func() error {
			result, err := r.Run(gCtx, load, role)
			if err != nil {
				return fmt.Errorf("run for role %q failed: %w", role, err)
			}
			mu.Lock()
			results[i] = result
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
