package scoring

import "fmt"

// Scoring defaults
const (
	DefaultQuantificationTarget = 0.85
	DefaultMinDistinctVerbs     = 10
)

// GradeCutoff maps a minimum total score to a letter grade
type GradeCutoff struct {
	Letter string  `mapstructure:"letter" json:"letter"`
	Min    float64 `mapstructure:"min" json:"min"`
}

// GradeTable is an ordered list of cutoffs, highest minimum first
type GradeTable []GradeCutoff

// DefaultGrades returns the standard A+ to F table
func DefaultGrades() []GradeCutoff {
	return []GradeCutoff{
		{Letter: "A+", Min: 95},
		{Letter: "A", Min: 90},
		{Letter: "A-", Min: 85},
		{Letter: "B+", Min: 80},
		{Letter: "B", Min: 75},
		{Letter: "B-", Min: 70},
		{Letter: "C", Min: 60},
		{Letter: "F", Min: 0},
	}
}

// ValidateGrades rejects empty tables, cutoffs outside [0,100], blank letters
// and minimums that are not strictly descending.
func ValidateGrades(grades []GradeCutoff) error {
	if len(grades) == 0 {
		return &GradeTableError{Message: "at least one cutoff is required"}
	}
	for i, g := range grades {
		if g.Letter == "" {
			return &GradeTableError{Message: fmt.Sprintf("cutoff %d has no letter", i)}
		}
		if g.Min < 0 || g.Min > 100 {
			return &GradeTableError{Message: fmt.Sprintf("cutoff %q minimum %.1f is outside [0,100]", g.Letter, g.Min)}
		}
		if i > 0 && g.Min >= grades[i-1].Min {
			return &GradeTableError{Message: fmt.Sprintf("cutoff %q is not below %q", g.Letter, grades[i-1].Letter)}
		}
	}
	return nil
}

// Letter returns the letter of the first cutoff total reaches. Totals below
// every cutoff get the last letter.
func (t GradeTable) Letter(total float64) string {
	for _, g := range t {
		if total >= g.Min {
			return g.Letter
		}
	}
	if len(t) == 0 {
		return ""
	}
	return t[len(t)-1].Letter
}
