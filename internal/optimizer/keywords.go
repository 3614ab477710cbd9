package optimizer

import (
	"strings"

	"github.com/jonathan/resume-optimizer/internal/keywords"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// pickKeyword returns the first tier-1 keyword, in profile order, that is
// below its minimum document count, absent from the experience and
// compatible with its technology context. current is the in-progress text of
// bullet i.
func (r *run) pickKeyword(exp *types.Experience, i int, current string, domains map[string]bool) (types.Keyword, bool) {
	texts := make([]string, len(exp.Bullets))
	for j, b := range exp.Bullets {
		texts[j] = b.Text
	}
	texts[i] = current

	for _, kw := range r.tier1 {
		if r.keywordCount[kw.Name] >= kw.MinOccurrences {
			continue
		}
		if keywords.Contains(texts, kw.Name) {
			continue
		}
		if !keywords.Compatible(kw.Domain, domains) {
			continue
		}
		return kw, true
	}
	return types.Keyword{}, false
}

// weaveKeyword adds "using <keyword>" after the main clause of text
func weaveKeyword(text, keyword string) string {
	connector := " using "
	lower := strings.ToLower(text)
	if strings.Contains(lower, " using ") {
		connector = " with "
		if strings.Contains(lower, " with ") {
			connector = " alongside "
		}
	}
	phrase := connector + keyword

	if idx := strings.Index(text, ", "); idx > 0 {
		return text[:idx] + phrase + text[idx:]
	}
	trimmed := strings.TrimSpace(text)
	if strings.HasSuffix(trimmed, ".") {
		return strings.TrimSuffix(trimmed, ".") + phrase + "."
	}
	return trimmed + phrase
}
