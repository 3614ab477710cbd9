// Package rewriting provides the bullet rewriting collaborator used by the
// optimizer: an LLM-backed implementation, a deterministic template
// implementation and an identity implementation.
package rewriting

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/llm"
)

// Intent names what a rewrite is asked to do
type Intent string

const (
	// IntentParaphrase rephrases a bullet without changing its facts
	IntentParaphrase Intent = "paraphrase"
	// IntentMetric adds a quantified outcome to a bullet
	IntentMetric Intent = "metric"
)

// Request is one rewrite call
type Request struct {
	Text         string
	Intent       Intent
	Company      string
	Role         string
	Technologies []string
	Keywords     []string
	AvoidVerbs   []string
}

// Rewriter rewrites a single bullet. Implementations must honor ctx cancellation.
type Rewriter interface {
	Rewrite(ctx context.Context, req Request) (string, error)
}

// Mode selects a Rewriter implementation
type Mode string

// Rewriter modes
const (
	ModeAuto     Mode = "auto"
	ModeGemini   Mode = "gemini"
	ModeTemplate Mode = "template"
	ModeIdentity Mode = "identity"
)

// ParseMode validates a mode name. An empty name means auto.
func ParseMode(name string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(name))); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeGemini, ModeTemplate, ModeIdentity:
		return m, nil
	default:
		return "", fmt.Errorf("unknown rewriter mode %q", name)
	}
}

// New returns the Rewriter for mode. Auto uses the LLM when a client is
// available and the template rewriter otherwise.
func New(mode Mode, client llm.Client) (Rewriter, error) {
	switch mode {
	case ModeAuto, "":
		if client != nil {
			return NewLLMRewriter(client, llm.TierStandard), nil
		}
		return TemplateRewriter{}, nil
	case ModeGemini:
		if client == nil {
			return nil, fmt.Errorf("rewriter mode %s requires an LLM client", mode)
		}
		return NewLLMRewriter(client, llm.TierStandard), nil
	case ModeTemplate:
		return TemplateRewriter{}, nil
	case ModeIdentity:
		return IdentityRewriter{}, nil
	default:
		return nil, fmt.Errorf("unknown rewriter mode %q", mode)
	}
}

// IdentityRewriter returns every bullet unchanged
type IdentityRewriter struct{}

// Rewrite implements Rewriter
func (IdentityRewriter) Rewrite(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &UnavailableError{Intent: req.Intent, Message: "context done", Cause: err}
	}
	return req.Text, nil
}
