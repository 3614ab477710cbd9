package experience

import (
	"sort"

	"github.com/jonathan/resume-optimizer/internal/types"
)

// DefaultMaxExperiences is the size of the recency window eligible for optimization
const DefaultMaxExperiences = 3

// SortByRecency returns a copy of exps ordered most recent first: open-ended
// positions, then by end date descending, then by start date descending.
// Remaining ties keep input order.
func SortByRecency(exps []types.Experience) []types.Experience {
	out := append([]types.Experience(nil), exps...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.End == nil && b.End != nil:
			return true
		case a.End != nil && b.End == nil:
			return false
		case a.End != nil && b.End != nil && !a.End.Equal(*b.End):
			return a.End.After(*b.End)
		}
		return a.Start.After(b.Start)
	})
	return out
}

// Partition splits exps into the most recent max entries and the rest, both
// in recency order.
func Partition(exps []types.Experience, max int) (recent, skipped []types.Experience) {
	ordered := SortByRecency(exps)
	if max >= len(ordered) {
		return ordered, nil
	}
	if max < 0 {
		max = 0
	}
	return ordered[:max], ordered[max:]
}
