package verbs

import (
	"sort"

	"github.com/jonathan/resume-optimizer/internal/types"
)

// DefaultOveruseThreshold is the count at which a verb is considered overused
const DefaultOveruseThreshold = 3

// Ledger counts leading-verb usage for a single run. It is not safe for
// concurrent use; each optimizer owns its own ledger.
type Ledger struct {
	threshold int
	counts    map[string]int
	flagged   map[string]bool
}

// CheckResult is returned by RecordAndCheck
type CheckResult struct {
	CountAfter int
	IsOverused bool
}

// Suggestion is the outcome of SuggestAlternative
type Suggestion struct {
	Verb Verb
	// CrossCategory is set when the verb's own category had no usable verb left.
	CrossCategory bool
	// Exhausted is set when no verb at all was usable and the current verb is kept.
	Exhausted bool
}

// NewLedger creates an empty ledger with the given overuse threshold
func NewLedger(threshold int) *Ledger {
	return &Ledger{
		threshold: threshold,
		counts:    make(map[string]int),
		flagged:   make(map[string]bool),
	}
}

// Threshold returns the overuse threshold
func (l *Ledger) Threshold() int {
	return l.threshold
}

// Count returns the current count for a verb's base form
func (l *Ledger) Count(base string) int {
	return l.counts[base]
}

// IsFlagged reports whether the verb crossed the threshold earlier in the run
func (l *Ledger) IsFlagged(base string) bool {
	return l.flagged[base]
}

// Record increments the count for a verb without checking overuse
func (l *Ledger) Record(base string) int {
	l.counts[base]++
	return l.counts[base]
}

// RecordAndCheck increments the count for a verb and reports whether the
// post-increment count reached the threshold. A verb flagged earlier in the
// run stays overused even if its count was later released.
func (l *Ledger) RecordAndCheck(base string) CheckResult {
	n := l.Record(base)
	overused := n >= l.threshold || l.flagged[base]
	return CheckResult{CountAfter: n, IsOverused: overused}
}

// Replace moves one use from a flagged verb to its replacement. The old verb
// stays flagged for the rest of the run.
func (l *Ledger) Replace(from, to string) {
	if l.counts[from] > 0 {
		l.counts[from]--
	}
	l.flagged[from] = true
	if to != "" {
		l.counts[to]++
	}
}

// Flag marks a verb as overused without changing its count
func (l *Ledger) Flag(base string) {
	l.flagged[base] = true
}

// usable reports whether the verb is unflagged and still below the threshold
func (l *Ledger) usable(base string) bool {
	return !l.flagged[base] && l.counts[base] < l.threshold
}

// SuggestAlternative returns the least-used usable verb of the category,
// excluding current. Ties break lexicographically. When the category has no
// usable verb the least-used usable verb of any category is returned; when
// nothing is usable the current verb is returned with Exhausted set.
func (l *Ledger) SuggestAlternative(current string, category Category) Suggestion {
	if v, ok := l.leastUsed(InCategory(category), current); ok {
		return Suggestion{Verb: v}
	}
	if v, ok := l.leastUsed(All(), current); ok {
		return Suggestion{Verb: v, CrossCategory: true}
	}
	cur, ok := byBase[current]
	if !ok {
		cur = Verb{Base: current, Category: category}
	}
	return Suggestion{Verb: cur, Exhausted: true}
}

func (l *Ledger) leastUsed(candidates []Verb, exclude string) (Verb, bool) {
	var best Verb
	found := false
	for _, v := range candidates {
		if v.Base == exclude || !l.usable(v.Base) {
			continue
		}
		if !found || l.counts[v.Base] < l.counts[best.Base] ||
			(l.counts[v.Base] == l.counts[best.Base] && v.Base < best.Base) {
			best = v
			found = true
		}
	}
	return best, found
}

// Snapshot returns the non-zero and flagged entries sorted by count desc, then verb
func (l *Ledger) Snapshot() []types.VerbUsage {
	seen := make(map[string]bool)
	var out []types.VerbUsage
	add := func(base string) {
		if seen[base] {
			return
		}
		seen[base] = true
		usage := types.VerbUsage{Verb: base, Count: l.counts[base], Flagged: l.flagged[base]}
		if v, ok := byBase[base]; ok {
			usage.Category = string(v.Category)
		}
		out = append(out, usage)
	}
	for base, n := range l.counts {
		if n > 0 {
			add(base)
		}
	}
	for base := range l.flagged {
		add(base)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Verb < out[j].Verb
	})
	return out
}
