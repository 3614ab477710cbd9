package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/resume-optimizer/internal/config"
	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/logger"
	"github.com/jonathan/resume-optimizer/internal/rewriting"
)

// NewRewriter builds the rewriter selected by cfg. The returned close
// function releases the LLM client, if one was created, and is never nil.
// In auto mode a missing API key or a client that cannot be created falls
// back to the offline template rewriter.
func NewRewriter(ctx context.Context, cfg config.LLMConfig, log *zap.Logger) (rewriting.Rewriter, func() error, error) {
	log = logger.OrNop(log)
	noop := func() error { return nil }

	mode, err := rewriting.ParseMode(cfg.Rewriter)
	if err != nil {
		return nil, noop, err
	}
	if mode == rewriting.ModeTemplate || mode == rewriting.ModeIdentity {
		rw, err := rewriting.New(mode, nil)
		return rw, noop, err
	}

	if cfg.APIKey == "" {
		if mode == rewriting.ModeGemini {
			return nil, noop, fmt.Errorf("rewriter mode %s requires llm.api_key or GEMINI_API_KEY", mode)
		}
		log.Info("no LLM API key configured, using template rewriter")
		return rewriting.TemplateRewriter{}, noop, nil
	}

	llmCfg, err := llm.DefaultConfig().WithModels(cfg.Models)
	if err != nil {
		return nil, noop, fmt.Errorf("invalid llm.models: %w", err)
	}
	client, err := llm.NewClient(ctx, llmCfg, cfg.APIKey)
	if err != nil {
		if mode == rewriting.ModeGemini {
			return nil, noop, fmt.Errorf("failed to create LLM client: %w", err)
		}
		log.Warn("LLM client unavailable, using template rewriter", zap.Error(err))
		return rewriting.TemplateRewriter{}, noop, nil
	}

	rw, err := rewriting.New(mode, client)
	if err != nil {
		_ = client.Close()
		return nil, noop, err
	}
	return rw, client.Close, nil
}
