package rewriting

import (
	"context"
	"hash/fnv"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/metrics"
	"github.com/jonathan/resume-optimizer/internal/verbs"
)

// outcomePhrases are appended by TemplateRewriter, keyed by the category of
// the bullet's leading verb. Every phrase carries a detectable metric.
var outcomePhrases = map[verbs.Category][]string{
	verbs.Leadership: {
		"improving team delivery velocity by 25%",
		"raising on-time delivery to 95%",
	},
	verbs.Technical: {
		"reducing processing latency by 40%",
		"supporting 3x higher daily throughput",
	},
	verbs.Optimization: {
		"cutting infrastructure costs by 30%",
		"improving throughput by 2x",
	},
	verbs.Scale: {
		"serving 10M+ requests per day",
		"absorbing 5x growth in data volume",
	},
	verbs.Delivery: {
		"shortening release cycles by 50%",
		"reducing deployment time by 60%",
	},
}

var defaultPhrases = []string{
	"improving team efficiency by 20%",
	"saving 10+ hours per week",
}

// TemplateRewriter is a deterministic offline rewriter. Metric requests get a
// category-appropriate outcome clause; paraphrase requests return the text
// unchanged.
type TemplateRewriter struct{}

// Rewrite implements Rewriter
func (TemplateRewriter) Rewrite(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &UnavailableError{Intent: req.Intent, Message: "context done", Cause: err}
	}
	if req.Intent != IntentMetric || metrics.HasMetric(req.Text) {
		return req.Text, nil
	}

	phrases := defaultPhrases
	if v, ok := verbs.ExtractLeadingVerb(req.Text); ok {
		phrases = outcomePhrases[v.Category]
	}
	return AppendClause(req.Text, phrases[pick(req.Text, len(phrases))]), nil
}

// AppendClause adds ", clause" to the end of a sentence, before any final period.
func AppendClause(text, clause string) string {
	body := strings.TrimSpace(text)
	period := strings.HasSuffix(body, ".")
	body = strings.TrimSuffix(body, ".")
	out := body + ", " + clause
	if period {
		out += "."
	}
	return out
}

func pick(text string, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(text))
	return int(h.Sum32() % uint32(n))
}
