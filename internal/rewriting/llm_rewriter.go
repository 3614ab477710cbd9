package rewriting

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/llm"
	"github.com/jonathan/resume-optimizer/internal/prompts"
)

var promptKeys = map[Intent]string{
	IntentParaphrase: "paraphrase-bullet",
	IntentMetric:     "inject-metric",
}

// LLMRewriter rewrites bullets with a language model
type LLMRewriter struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewLLMRewriter creates a rewriter backed by client
func NewLLMRewriter(client llm.Client, tier llm.ModelTier) *LLMRewriter {
	return &LLMRewriter{client: client, tier: tier}
}

// Rewrite implements Rewriter
func (r *LLMRewriter) Rewrite(ctx context.Context, req Request) (string, error) {
	prompt, err := BuildPrompt(req)
	if err != nil {
		return "", &UnavailableError{Intent: req.Intent, Message: "failed to build prompt", Cause: err}
	}

	responseText, err := r.client.GenerateContent(ctx, prompt, r.tier)
	if err != nil {
		return "", &UnavailableError{Intent: req.Intent, Message: "failed to generate content", Cause: err}
	}

	text := CleanOutput(ParseResponse(responseText))
	if text == "" {
		return "", &UnavailableError{Intent: req.Intent, Message: "empty response"}
	}
	return text, nil
}

// BuildPrompt renders the prompt for req
func BuildPrompt(req Request) (string, error) {
	key, ok := promptKeys[req.Intent]
	if !ok {
		return "", &RejectedError{Intent: req.Intent, Reason: "unsupported intent"}
	}

	avoid := "none"
	if len(req.AvoidVerbs) > 0 {
		avoid = strings.Join(req.AvoidVerbs, ", ")
	}
	rules, err := prompts.Render(prompts.RewritingFile, "rules", map[string]string{"AvoidVerbs": avoid})
	if err != nil {
		return "", err
	}

	return prompts.Render(prompts.RewritingFile, key, map[string]string{
		"Role":         orDefault(req.Role, "software professional"),
		"Company":      orDefault(req.Company, "their company"),
		"Technologies": orDefault(strings.Join(req.Technologies, ", "), "not listed"),
		"Keywords":     orDefault(strings.Join(req.Keywords, ", "), "none"),
		"Text":         req.Text,
		"Rules":        rules,
	})
}

// ParseResponse extracts bullet text from a raw model response. Code fences
// and a {"text": ...} JSON wrapper are removed when present.
func ParseResponse(responseText string) string {
	text := llm.CleanJSONBlock(responseText)

	var jsonResp struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(text), &jsonResp); err == nil && jsonResp.Text != "" {
		return strings.TrimSpace(jsonResp.Text)
	}
	return text
}

var emphasis = strings.NewReplacer("**", "", "__", "", "`", "")

// CleanOutput normalizes model output into a single bullet line: list
// markers, emphasis and wrapping quotes are removed, whitespace is collapsed
// and only the first sentence is kept when more than two are returned.
func CleanOutput(text string) string {
	text = strings.Join(strings.Fields(emphasis.Replace(text)), " ")
	text = trimListMarker(text)
	text = strings.Trim(text, `"'“”`)

	if sentences := splitSentences(text); len(sentences) > 2 {
		text = sentences[0]
	}
	return strings.TrimSpace(text)
}

func trimListMarker(text string) string {
	for _, marker := range []string{"- ", "* ", "• ", "+ "} {
		if strings.HasPrefix(text, marker) {
			return strings.TrimSpace(text[len(marker):])
		}
	}
	// numbered: "1. " or "1) "
	i := 0
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		i++
	}
	if i > 0 && i+1 < len(text) && (text[i] == '.' || text[i] == ')') && text[i+1] == ' ' {
		return strings.TrimSpace(text[i+2:])
	}
	return text
}

// splitSentences splits on terminal punctuation followed by a space and an
// uppercase letter, so decimals like 2.5x stay intact.
func splitSentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i+2 < len(text); i++ {
		c := text[i]
		if (c == '.' || c == '!' || c == '?') && text[i+1] == ' ' && text[i+2] >= 'A' && text[i+2] <= 'Z' {
			out = append(out, strings.TrimSpace(text[start:i+1]))
			start = i + 2
		}
	}
	if rest := strings.TrimSpace(text[start:]); rest != "" {
		out = append(out, rest)
	}
	return out
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
