// Package types provides type definitions for structured data used throughout the resume-optimizer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// Portfolio is the candidate's full work history plus the supporting resume sections
type Portfolio struct {
	Name        string       `json:"name"`
	Email       string       `json:"email,omitempty"`
	Phone       string       `json:"phone,omitempty"`
	Location    string       `json:"location,omitempty"`
	LinkedIn    string       `json:"linkedin,omitempty"`
	GitHub      string       `json:"github,omitempty"`
	Summary     string       `json:"summary,omitempty"`
	Skills      []SkillGroup `json:"skills,omitempty"`
	Experiences []Experience `json:"experiences"`
	Education   []Education  `json:"education,omitempty"`
	Projects    []Project    `json:"projects,omitempty"`
}

// SkillGroup is one labelled line of the skills section
type SkillGroup struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

// Education represents a degree entry
type Education struct {
	Institution string   `json:"institution"`
	Degree      string   `json:"degree"`
	Location    string   `json:"location,omitempty"`
	StartDate   string   `json:"start_date,omitempty"`
	EndDate     string   `json:"end_date,omitempty"`
	Details     []string `json:"details,omitempty"`
}

// Project represents a side project or portfolio project
type Project struct {
	Name         string   `json:"name"`
	Technologies []string `json:"technologies,omitempty"`
	Bullets      []string `json:"bullets,omitempty"`
}

// Experience is one position in the work history with an ordered list of bullets
type Experience struct {
	ID           string   `json:"id"`
	Company      string   `json:"company"`
	Role         string   `json:"role"`
	Location     string   `json:"location,omitempty"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	Technologies []string `json:"technologies,omitempty"`
	Bullets      []Bullet `json:"bullets"`

	// Parsed dates are filled by the loader and used for recency ordering.
	Start time.Time  `json:"-"`
	End   *time.Time `json:"-"` // nil means open-ended ("Present")
}

// IsCurrent reports whether the position has no end date
func (e *Experience) IsCurrent() bool {
	return e.End == nil
}

// Clone returns a deep copy so the optimizer can mutate bullets without touching the input
func (e Experience) Clone() Experience {
	out := e
	out.Technologies = append([]string(nil), e.Technologies...)
	out.Bullets = make([]Bullet, len(e.Bullets))
	for i, b := range e.Bullets {
		out.Bullets[i] = b.Clone()
	}
	if e.End != nil {
		end := *e.End
		out.End = &end
	}
	return out
}

// Bullet represents a single achievement line under an experience
type Bullet struct {
	ID            string       `json:"id"`
	ExperienceID  string       `json:"experience_id"`
	Text          string       `json:"text"`
	LeadingVerb   string       `json:"leading_verb,omitempty"`
	Metrics       []MetricSpan `json:"metrics,omitempty"`
	KeywordsAdded []string     `json:"keywords_added,omitempty"`
}

// Clone returns a deep copy of the bullet
func (b Bullet) Clone() Bullet {
	out := b
	out.Metrics = append([]MetricSpan(nil), b.Metrics...)
	out.KeywordsAdded = append([]string(nil), b.KeywordsAdded...)
	return out
}

// MetricSpan is one quantification match inside a bullet's text.
// Start and End are byte offsets into the text.
type MetricSpan struct {
	Text  string `json:"text"`
	Type  string `json:"type"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}
