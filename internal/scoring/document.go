package scoring

import (
	"strings"
)

// Document formats
const (
	FormatLaTeX    = "latex"
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

// Canonical section names
const (
	SectionSummary        = "summary"
	SectionSkills         = "skills"
	SectionExperience     = "experience"
	SectionEducation      = "education"
	SectionProjects       = "projects"
	SectionCertifications = "certifications"
)

// RequiredSections must all be present for full format credit
var RequiredSections = []string{SectionSummary, SectionSkills, SectionExperience, SectionEducation, SectionProjects}

var sectionAliases = []struct {
	name    string
	aliases []string
}{
	{SectionSummary, []string{"summary", "objective", "profile", "about"}},
	{SectionSkills, []string{"skills", "core competencies", "technologies"}},
	{SectionExperience, []string{"experience", "employment", "work history"}},
	{SectionEducation, []string{"education"}},
	{SectionProjects, []string{"projects"}},
	{SectionCertifications, []string{"certifications", "publications"}},
}

// Section is one headed region of a document
type Section struct {
	Name    string `json:"name"`
	Heading string `json:"heading"`
	Words   int    `json:"words"`
}

// Document is the format-independent view of a rendered resume
type Document struct {
	Format   string
	Text     string
	Sections []Section
	Bullets  []string
	// ATSIssues are constructs that ATS parsers mishandle.
	ATSIssues []string
	// StructureIssues are well-formedness problems in the markup itself.
	StructureIssues []string
	// Tables counts layout tables.
	Tables int
}

// ParseDocument detects the format of raw and extracts its text, sections,
// bullets and layout issues.
func ParseDocument(raw string) (*Document, error) {
	switch DetectFormat(raw) {
	case FormatLaTeX:
		return parseLaTeX(raw), nil
	case FormatHTML:
		return parseHTML(raw)
	default:
		return parseMarkdown(raw), nil
	}
}

// DetectFormat guesses the markup of raw. Anything that is neither LaTeX nor
// HTML is read as Markdown or plain text.
func DetectFormat(raw string) string {
	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(raw, `\documentclass`), strings.Contains(raw, `\section{`),
		strings.Contains(raw, `\resumeItem{`), strings.Contains(raw, `\begin{itemize}`):
		return FormatLaTeX
	case strings.Contains(lower, "<html"), strings.Contains(lower, "<body"),
		strings.HasPrefix(strings.TrimSpace(lower), "<!doctype"),
		strings.Contains(lower, "<ul") && strings.Contains(lower, "<li"):
		return FormatHTML
	default:
		return FormatMarkdown
	}
}

// Has reports whether the document contains the canonical section
func (d *Document) Has(name string) bool {
	for _, s := range d.Sections {
		if s.Name == name {
			return true
		}
	}
	return false
}

// SectionNames returns the distinct canonical section names in document order
func (d *Document) SectionNames() []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range d.Sections {
		if !seen[s.Name] {
			seen[s.Name] = true
			out = append(out, s.Name)
		}
	}
	return out
}

// MissingSections returns the required sections the document lacks
func (d *Document) MissingSections() []string {
	var out []string
	for _, name := range RequiredSections {
		if !d.Has(name) {
			out = append(out, name)
		}
	}
	return out
}

// canonicalSection maps a heading to a canonical section name. Unknown
// headings keep their lowercased text.
func canonicalSection(heading string) string {
	lower := strings.ToLower(strings.TrimSpace(heading))
	for _, s := range sectionAliases {
		for _, alias := range s.aliases {
			if strings.Contains(lower, alias) {
				return s.name
			}
		}
	}
	return lower
}

func newSection(heading, body string) Section {
	return Section{
		Name:    canonicalSection(heading),
		Heading: strings.TrimSpace(heading),
		Words:   len(strings.Fields(body)),
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
