package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-optimizer/internal/config"
	"github.com/jonathan/resume-optimizer/internal/db"
	"github.com/jonathan/resume-optimizer/internal/experience"
	"github.com/jonathan/resume-optimizer/internal/rewriting"
	"github.com/jonathan/resume-optimizer/internal/types"
)

const portfolioYAML = `
name: Jane Doe
email: jane@example.com
summary: Data engineer focused on streaming systems.
skills:
  Languages: [Python, SQL]
experience:
  - company: Acme
    role: Senior Data Engineer
    start_date: Jan 2023
    end_date: Present
    technologies: [Kafka, Airflow]
    bullets:
      - Architected a streaming platform
      - Architected a metadata catalog
      - Architected a feature store
  - company: Globex
    role: Data Engineer
    start_date: Mar 2020
    end_date: Dec 2022
    bullets:
      - Built batch pipelines processing 2TB daily
  - company: Broken Co
    role: Engineer
    start_date: sometime
    bullets: [Did things]
education:
  - institution: State University
    degree: BS Computer Science
projects:
  - name: Side Project
    bullets: [Shipped a CLI]
`

func loadPortfolio(t *testing.T) *experience.Load {
	t.Helper()
	load, err := experience.ParsePortfolio([]byte(portfolioYAML))
	require.NoError(t, err)
	return load
}

func newRunner(t *testing.T, mutate func(*Options)) *Runner {
	t.Helper()
	opts := OptionsFromConfig(&config.Config{
		Optimizer: config.DefaultOptimizer(),
		Scoring:   config.Default().Scoring,
	})
	if mutate != nil {
		mutate(&opts)
	}
	r, err := NewRunner(opts)
	require.NoError(t, err)
	return r
}

type fakeStore struct {
	mu        sync.Mutex
	created   []string
	completed map[uuid.UUID]string
	saved     []*types.RunResult
	saveErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{completed: make(map[uuid.UUID]string)}
}

func (s *fakeStore) CreateRun(_ context.Context, runID uuid.UUID, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, role)
	return nil
}

func (s *fakeStore) CompleteRun(_ context.Context, runID uuid.UUID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed[runID] = status
	return nil
}

func (s *fakeStore) SaveResult(_ context.Context, result *types.RunResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, result)
	return nil
}

func TestNewRunner_RejectsInvalidOptions(t *testing.T) {
	base := OptionsFromConfig(&config.Config{Optimizer: config.DefaultOptimizer(), Scoring: config.Default().Scoring})

	badFormat := base
	badFormat.Format = "docx"
	_, err := NewRunner(badFormat)
	var cfgErr *config.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)

	badThreshold := base
	badThreshold.Optimizer.OveruseThreshold = 0
	_, err = NewRunner(badThreshold)
	assert.ErrorAs(t, err, &cfgErr)

	badGrades := base
	badGrades.Scoring.Grades = nil
	_, err = NewRunner(badGrades)
	assert.ErrorAs(t, err, &cfgErr)
}

func TestRun_EndToEnd(t *testing.T) {
	var events []ProgressEvent
	r := newRunner(t, func(o *Options) {
		o.OnProgress = func(e ProgressEvent) { events = append(events, e) }
	})
	load := loadPortfolio(t)

	result, err := r.Run(context.Background(), load, "Data Engineer")
	require.NoError(t, err)

	_, err = uuid.Parse(result.RunID)
	assert.NoError(t, err)
	assert.Equal(t, "Data Engineer", result.Role)
	assert.False(t, result.Profile.Fallback)
	assert.Contains(t, result.Document, `\section{Experience}`)
	assert.Contains(t, result.Document, "Acme")
	assert.NotEmpty(t, result.Score.Grade)
	assert.Greater(t, result.Score.Total, 0.0)
	assert.LessOrEqual(t, result.Score.Total, 100.0)
	assert.GreaterOrEqual(t, result.Summary.MetricsCoverage, result.Summary.MetricsCoverageStart)
	assert.Equal(t, load.Rejected, result.Summary.Rejected)
	assert.NotEmpty(t, result.Summary.Rejected)

	var steps []string
	for _, e := range events {
		steps = append(steps, e.Step)
		assert.Equal(t, result.RunID, e.RunID)
	}
	assert.Equal(t, []string{StepProfile, StepOptimize, StepRender, StepScore}, steps)
}

func TestRun_DoesNotMutatePortfolio(t *testing.T) {
	r := newRunner(t, nil)
	load := loadPortfolio(t)
	before := load.Portfolio.Experiences[0].Bullets[2].Text

	_, err := r.Run(context.Background(), load, "data engineer")
	require.NoError(t, err)
	assert.Equal(t, before, load.Portfolio.Experiences[0].Bullets[2].Text)
}

func TestRun_Deterministic(t *testing.T) {
	r := newRunner(t, func(o *Options) { o.Rewriter = rewriting.TemplateRewriter{} })

	first, err := r.Run(context.Background(), loadPortfolio(t), "data engineer")
	require.NoError(t, err)
	second, err := r.Run(context.Background(), loadPortfolio(t), "data engineer")
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, first.Document, second.Document)
	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.Summary, second.Summary)
}

func TestRun_UnknownRoleFallsBack(t *testing.T) {
	r := newRunner(t, nil)

	result, err := r.Run(context.Background(), loadPortfolio(t), "Underwater Basket Weaving")
	require.NoError(t, err)
	assert.True(t, result.Profile.Fallback)
	assert.NotEmpty(t, result.Profile.Keywords)
}

func TestRun_MarkdownFormat(t *testing.T) {
	r := newRunner(t, func(o *Options) { o.Format = FormatMarkdown })

	result, err := r.Run(context.Background(), loadPortfolio(t), "data engineer")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.Document, "# Jane Doe"))
	assert.Contains(t, result.Document, "## Experience")
	assert.Equal(t, "markdown", result.Score.Details.Format)
}

func TestRun_InputErrors(t *testing.T) {
	r := newRunner(t, nil)

	_, err := r.Run(context.Background(), nil, "data engineer")
	assert.Error(t, err)

	_, err = r.Run(context.Background(), loadPortfolio(t), "   ")
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Run(ctx, loadPortfolio(t), "data engineer")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_PersistsToStore(t *testing.T) {
	store := newFakeStore()
	var events []ProgressEvent
	r := newRunner(t, func(o *Options) {
		o.Store = store
		o.OnProgress = func(e ProgressEvent) { events = append(events, e) }
	})

	result, err := r.Run(context.Background(), loadPortfolio(t), "data engineer")
	require.NoError(t, err)

	assert.Equal(t, []string{"data engineer"}, store.created)
	require.Len(t, store.saved, 1)
	assert.Equal(t, result.RunID, store.saved[0].RunID)
	assert.Equal(t, db.RunStatusCompleted, store.completed[uuid.MustParse(result.RunID)])
	assert.Equal(t, StepPersist, events[len(events)-1].Step)
}

func TestRun_StoreFailureDoesNotFailRun(t *testing.T) {
	store := newFakeStore()
	store.saveErr = errors.New("connection reset")
	r := newRunner(t, func(o *Options) { o.Store = store })

	result, err := r.Run(context.Background(), loadPortfolio(t), "data engineer")
	require.NoError(t, err)
	assert.Equal(t, db.RunStatusFailed, store.completed[uuid.MustParse(result.RunID)])
}

func TestRun_FailedRunIsMarkedFailed(t *testing.T) {
	store := newFakeStore()
	r := newRunner(t, func(o *Options) {
		o.Store = store
		o.TemplatePath = "/nonexistent/template.tex"
	})

	_, err := r.Run(context.Background(), loadPortfolio(t), "data engineer")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rendering failed")
	require.Len(t, store.completed, 1)
	for _, status := range store.completed {
		assert.Equal(t, db.RunStatusFailed, status)
	}
	assert.Empty(t, store.saved)
}

func TestRunBatch_KeepsRoleOrder(t *testing.T) {
	r := newRunner(t, nil)
	roles := []string{"data engineer", "software engineer", "Underwater Basket Weaving"}

	results, err := r.RunBatch(context.Background(), loadPortfolio(t), roles)
	require.NoError(t, err)
	require.Len(t, results, len(roles))
	for i, role := range roles {
		assert.Equal(t, role, results[i].Role)
	}
	assert.True(t, results[2].Profile.Fallback)
	assert.NotEqual(t, results[0].RunID, results[1].RunID)
}

func TestRunBatch_FailureReturnsError(t *testing.T) {
	r := newRunner(t, nil)

	_, err := r.RunBatch(context.Background(), loadPortfolio(t), []string{"data engineer", ""})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `run for role ""`)
}

func TestValidateRunResult(t *testing.T) {
	valid := &types.RunResult{
		Role:    "data engineer",
		Profile: types.KeywordProfile{Role: "data_engineer"},
		Score:   types.ScoreBreakdown{Total: 75, Grade: "B"},
	}
	assert.NoError(t, ValidateRunResult(valid))

	invalid := *valid
	invalid.Score.Total = 140
	assert.Error(t, ValidateRunResult(&invalid))
}

func TestNewRewriter_Modes(t *testing.T) {
	ctx := context.Background()

	rw, closeFn, err := NewRewriter(ctx, config.LLMConfig{Rewriter: "identity"}, nil)
	require.NoError(t, err)
	assert.IsType(t, rewriting.IdentityRewriter{}, rw)
	assert.NoError(t, closeFn())

	rw, _, err = NewRewriter(ctx, config.LLMConfig{Rewriter: "auto"}, nil)
	require.NoError(t, err)
	assert.IsType(t, rewriting.TemplateRewriter{}, rw)

	_, _, err = NewRewriter(ctx, config.LLMConfig{Rewriter: "gemini"}, nil)
	assert.Error(t, err)

	_, _, err = NewRewriter(ctx, config.LLMConfig{Rewriter: "gpt"}, nil)
	assert.Error(t, err)

	_, _, err = NewRewriter(ctx, config.LLMConfig{Rewriter: "auto", APIKey: "key", Models: map[string]string{"huge": "x"}}, nil)
	assert.Error(t, err)
}
