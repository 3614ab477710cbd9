package optimizer

import (
	"context"

	"go.uber.org/zap"

	"github.com/jonathan/resume-optimizer/internal/keywords"
	"github.com/jonathan/resume-optimizer/internal/logger"
	"github.com/jonathan/resume-optimizer/internal/metrics"
	"github.com/jonathan/resume-optimizer/internal/rewriting"
	"github.com/jonathan/resume-optimizer/internal/types"
	"github.com/jonathan/resume-optimizer/internal/verbs"
)

// optimizeBullet applies, in order: optional paraphrase, verb variation,
// metric injection and keyword weaving to exp.Bullets[i].
func (r *run) optimizeBullet(exp *types.Experience, i int, domains map[string]bool) types.BulletChange {
	b := &exp.Bullets[i]
	bc := types.BulletChange{BulletID: b.ID, Original: b.Text}
	log := r.log.With(zap.String(logger.FieldExperienceID, exp.ID), zap.String(logger.FieldBulletID, b.ID))

	text := b.Text
	failed := false
	fallback := func(intent rewriting.Intent, err error) {
		failed = true
		log.Warn("rewrite failed, keeping text",
			zap.String(logger.FieldIntent, string(intent)),
			zap.Error(err))
	}

	leading, hasVerb := verbs.ExtractLeadingVerb(text)
	var keep *verbs.Verb
	if hasVerb {
		keep = &leading
	}

	if r.opts.Paraphrase {
		out, err := r.rewrite(exp, text, rewriting.IntentParaphrase, keep)
		if err != nil {
			fallback(rewriting.IntentParaphrase, err)
		} else if out != text {
			r.recountKeywords(text, out)
			text = out
			bc.Changes = append(bc.Changes, types.ChangeParaphrased)
		}
	}

	if hasVerb {
		committed := r.checkVerb(leading, &bc, log)
		if committed.Base != leading.Base {
			text = verbs.ReplaceLeadingVerb(text, committed)
		}
		keep = &committed
		b.LeadingVerb = committed.Base
	}

	if metrics.HasMetric(text) {
		r.withMetric++
	} else if r.needsMetric() {
		out, err := r.rewrite(exp, text, rewriting.IntentMetric, keep)
		if err != nil {
			fallback(rewriting.IntentMetric, err)
		} else {
			r.recountKeywords(text, out)
			text = out
			r.withMetric++
			r.summary.MetricsAdded++
			bc.Changes = append(bc.Changes, types.ChangeMetricAdded)
			log.Debug("metric added", zap.String("text", logger.Truncate(text, 120)))
		}
	}
	r.processed++

	for n := 0; n < r.opts.MaxKeywordsPerBullet; n++ {
		kw, ok := r.pickKeyword(exp, i, text, domains)
		if !ok {
			break
		}
		text = weaveKeyword(text, kw.Name)
		r.keywordCount[kw.Name]++
		r.summary.KeywordsAdded++
		b.KeywordsAdded = append(b.KeywordsAdded, kw.Name)
		bc.KeywordAdded = kw.Name
		bc.Changes = append(bc.Changes, types.ChangeKeywordAdded)
		log.Debug("keyword added", zap.String("keyword", kw.Name))
	}

	if failed {
		r.summary.FallbackCount++
		bc.FallbackReason = types.FallbackUnavailable
		bc.Changes = append(bc.Changes, types.ChangeFallback)
	}

	b.Text = text
	b.Metrics = metrics.Detect(text).Spans
	bc.Final = text
	return bc
}

// checkVerb records v in the ledger and returns the verb the bullet should
// lead with. The occurrence that reaches the threshold is itself replaced.
func (r *run) checkVerb(v verbs.Verb, bc *types.BulletChange, log *zap.Logger) verbs.Verb {
	check := r.ledger.RecordAndCheck(v.Base)
	if !check.IsOverused {
		return v
	}

	s := r.ledger.SuggestAlternative(v.Base, v.Category)
	if s.Exhausted {
		r.ledger.Flag(v.Base)
		r.summary.VerbFallbacks++
		log.Debug("verb overused but no alternative left", zap.String("verb", v.Base))
		return v
	}

	r.ledger.Replace(v.Base, s.Verb.Base)
	r.summary.VerbsVaried++
	bc.VerbFrom = v.Past
	bc.VerbTo = s.Verb.Past
	bc.Changes = append(bc.Changes, types.ChangeVerbReplaced)
	log.Debug("verb replaced",
		zap.String("from", v.Base),
		zap.String("to", s.Verb.Base),
		zap.Int("count", check.CountAfter),
		zap.Bool("cross_category", s.CrossCategory))
	return s.Verb
}

// needsMetric reports whether the running coverage, counting the current
// bullet as unquantified, would fall below the target.
func (r *run) needsMetric() bool {
	return float64(r.withMetric)/float64(r.processed+1) < r.opts.MetricsTarget
}

// rewrite calls the collaborator under the per-call timeout, checks the
// output and restores the committed leading verb.
func (r *run) rewrite(exp *types.Experience, text string, intent rewriting.Intent, keep *verbs.Verb) (string, error) {
	ctx, cancel := context.WithTimeout(r.ctx, r.opts.RewriteTimeout)
	defer cancel()

	out, err := r.rewriter.Rewrite(ctx, rewriting.Request{
		Text:         text,
		Intent:       intent,
		Company:      exp.Company,
		Role:         exp.Role,
		Technologies: exp.Technologies,
		Keywords:     r.openKeywords(),
		AvoidVerbs:   r.avoidVerbs(),
	})
	if err != nil {
		return "", err
	}
	if ctx.Err() != nil {
		return "", &rewriting.UnavailableError{Intent: intent, Message: "rewrite exceeded timeout", Cause: ctx.Err()}
	}

	if keep != nil {
		if _, ok := verbs.ExtractLeadingVerb(out); !ok {
			return "", &rewriting.RejectedError{Intent: intent, Reason: "leading verb removed"}
		}
		out = verbs.ReplaceLeadingVerb(out, *keep)
	}
	if err := rewriting.ValidateRewrite(text, out, intent); err != nil {
		return "", err
	}
	return out, nil
}

// avoidVerbs lists the past forms of verbs flagged so far in this run
func (r *run) avoidVerbs() []string {
	var out []string
	for _, usage := range r.ledger.Snapshot() {
		if !usage.Flagged {
			continue
		}
		if v, ok := verbs.Lookup(usage.Verb); ok {
			out = append(out, v.Past)
		}
	}
	return out
}

// openKeywords lists tier-1 keywords still under their minimum
func (r *run) openKeywords() []string {
	var out []string
	for _, kw := range r.tier1 {
		if r.keywordCount[kw.Name] < kw.MinOccurrences {
			out = append(out, kw.Name)
		}
	}
	return out
}

// recountKeywords applies the tier-1 occurrences a rewrite added or removed
// to the document-wide counts
func (r *run) recountKeywords(before, after string) {
	for _, kw := range r.tier1 {
		delta := keywords.CountOccurrences(after, kw.Name) - keywords.CountOccurrences(before, kw.Name)
		if delta == 0 {
			continue
		}
		r.keywordCount[kw.Name] = max(r.keywordCount[kw.Name]+delta, 0)
	}
}
