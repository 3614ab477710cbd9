// Package types provides type definitions for structured data used throughout the resume-optimizer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Keyword tiers
const (
	TierPrimary   = 1
	TierSecondary = 2
)

// KeywordProfile is the role-specific keyword set with per-keyword occurrence targets.
// It is built once per run and never mutated afterwards.
type KeywordProfile struct {
	Role     string    `json:"role"`
	Template string    `json:"template"`
	Fallback bool      `json:"fallback"`
	Keywords []Keyword `json:"keywords"`
}

// Keyword is a single keyword target
type Keyword struct {
	Name           string  `json:"name"`
	Tier           int     `json:"tier"`
	Weight         float64 `json:"weight"`
	MinOccurrences int     `json:"min_occurrences"`
	MaxOccurrences int     `json:"max_occurrences"`
	Domain         string  `json:"domain"`
	Source         string  `json:"source"`
}

// Tier returns the keywords of one tier in profile order
func (p *KeywordProfile) Tier(tier int) []Keyword {
	var out []Keyword
	for _, kw := range p.Keywords {
		if kw.Tier == tier {
			out = append(out, kw)
		}
	}
	return out
}

// Get returns the keyword with the given name, if present
func (p *KeywordProfile) Get(name string) (Keyword, bool) {
	for _, kw := range p.Keywords {
		if kw.Name == name {
			return kw, true
		}
	}
	return Keyword{}, false
}
