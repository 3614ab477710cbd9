package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-optimizer/internal/keywords"
	"github.com/jonathan/resume-optimizer/internal/types"
)

const latexResume = `\documentclass[letterpaper,11pt]{article}
\usepackage{enumitem}
\newcommand{\resumeItem}[1]{\item\small{{#1 \vspace{-2pt}}}}
% comment with 100% noise
\begin{document}
\begin{center}
  \textbf{\Huge Jane Doe} \\ jane@example.com
\end{center}
\section{Summary}
Data engineer building streaming platforms.
\section{Technical Skills}
\begin{itemize}[leftmargin=0.15in, label={}]
  \item \textbf{Languages:} Python, SQL
\end{itemize}
\section{Experience}
\begin{itemize}
  \resumeItem{Architected a streaming platform using Kafka, reducing latency by 40\%}
  \resumeItem{Built \textbf{Airflow} pipelines serving 10M+ requests per day}
  \resumeItem{Led the data platform team}
\end{itemize}
\section{Projects}
\begin{itemize}
  \resumeItem{Designed an open-source dbt package}
\end{itemize}
\section{Education}
State University, B.S. Computer Science
\end{document}
`

const markdownResume = `# Jane Doe

## Summary
Data engineer who ships.

## Experience
- Reduced warehouse costs by **30%**
- Led the [platform](https://example.com) team

## Education
State University
`

const htmlResume = `<html><head><style>.cols { column-count: 2; }</style></head><body>
<h1>Jane Doe</h1>
<h2>Experience</h2>
<ul><li>Scaled ingestion to 5TB per day</li><li>Mentored three engineers</li></ul>
<img src="photo.png">
<h2>Education</h2><p>State University</p>
<table><tr><td>a</td></tr></table><table><tr><td>b</td></tr></table>
</body></html>`

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()
	s, err := NewScorer(DefaultOptions())
	require.NoError(t, err)
	return s
}

func TestValidateGrades(t *testing.T) {
	tests := []struct {
		name    string
		grades  []GradeCutoff
		wantErr bool
	}{
		{"default table", DefaultGrades(), false},
		{"single cutoff", []GradeCutoff{{Letter: "Pass", Min: 0}}, false},
		{"empty", nil, true},
		{"not descending", []GradeCutoff{{Letter: "B", Min: 80}, {Letter: "A", Min: 90}}, true},
		{"duplicate minimum", []GradeCutoff{{Letter: "A", Min: 90}, {Letter: "B", Min: 90}}, true},
		{"above 100", []GradeCutoff{{Letter: "A", Min: 101}}, true},
		{"negative", []GradeCutoff{{Letter: "A", Min: 50}, {Letter: "F", Min: -1}}, true},
		{"blank letter", []GradeCutoff{{Letter: "", Min: 50}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGrades(tt.grades)
			if tt.wantErr {
				var gradeErr *GradeTableError
				assert.ErrorAs(t, err, &gradeErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGradeTable_Letter(t *testing.T) {
	table := GradeTable(DefaultGrades())
	assert.Equal(t, "A+", table.Letter(100))
	assert.Equal(t, "A+", table.Letter(95))
	assert.Equal(t, "A", table.Letter(94.9))
	assert.Equal(t, "B-", table.Letter(70))
	assert.Equal(t, "C", table.Letter(60))
	assert.Equal(t, "F", table.Letter(12))

	custom := GradeTable{{Letter: "Pass", Min: 50}, {Letter: "Borderline", Min: 40}}
	assert.Equal(t, "Pass", custom.Letter(75))
	assert.Equal(t, "Borderline", custom.Letter(45))
	assert.Equal(t, "Borderline", custom.Letter(10), "below every cutoff gets the last letter")
}

func TestNewScorer_RejectsInvalidOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.QuantificationTarget = 1.5
	_, err := NewScorer(opts)
	assert.Error(t, err)

	opts = DefaultOptions()
	opts.MinDistinctVerbs = 0
	_, err = NewScorer(opts)
	assert.Error(t, err)

	opts = DefaultOptions()
	opts.Grades = nil
	_, err = NewScorer(opts)
	assert.Error(t, err)
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatLaTeX, DetectFormat(latexResume))
	assert.Equal(t, FormatLaTeX, DetectFormat(`\section{Experience}`))
	assert.Equal(t, FormatHTML, DetectFormat(htmlResume))
	assert.Equal(t, FormatHTML, DetectFormat("<ul><li>Built it</li></ul>"))
	assert.Equal(t, FormatMarkdown, DetectFormat(markdownResume))
	assert.Equal(t, FormatMarkdown, DetectFormat("plain text resume"))
}

func TestParseDocument_LaTeX(t *testing.T) {
	doc, err := ParseDocument(latexResume)
	require.NoError(t, err)

	assert.Equal(t, FormatLaTeX, doc.Format)
	assert.Equal(t, []string{
		"Architected a streaming platform using Kafka, reducing latency by 40%",
		"Built Airflow pipelines serving 10M+ requests per day",
		"Led the data platform team",
		"Designed an open-source dbt package",
	}, doc.Bullets)
	assert.Equal(t, []string{SectionSummary, SectionSkills, SectionExperience, SectionProjects, SectionEducation}, doc.SectionNames())
	assert.Empty(t, doc.MissingSections())
	assert.Empty(t, doc.ATSIssues)
	assert.Empty(t, doc.StructureIssues)
	assert.Equal(t, 0, doc.Tables)
	assert.Contains(t, doc.Text, "Jane Doe")
	assert.NotContains(t, doc.Text, "noise", "comments are stripped")
	assert.NotContains(t, doc.Text, `\textbf`)
}

func TestParseDocument_LaTeXIssues(t *testing.T) {
	src := `\documentclass{article}
\begin{document}
\includegraphics{photo.png}
\begin{multicols}{2}
\section{Experience}
\item Built things {unclosed
\end{multicols}
\begin{tabular}{ll} a & b \end{tabular}
\begin{tabular}{ll} c & d \end{tabular}
\end{document}`

	doc, err := ParseDocument(src)
	require.NoError(t, err)
	assert.Contains(t, doc.ATSIssues, "ATS killer: Images/Graphics")
	assert.Contains(t, doc.ATSIssues, "ATS killer: Multi-column layout")
	assert.Contains(t, doc.StructureIssues, "Unbalanced braces")
	assert.Equal(t, 2, doc.Tables)
	assert.Equal(t, []string{"Built things unclosed"}, doc.Bullets)
}

func TestParseDocument_Markdown(t *testing.T) {
	doc, err := ParseDocument(markdownResume)
	require.NoError(t, err)

	assert.Equal(t, FormatMarkdown, doc.Format)
	assert.Equal(t, []string{"Reduced warehouse costs by 30%", "Led the platform team"}, doc.Bullets)
	assert.True(t, doc.Has(SectionExperience))
	assert.Equal(t, []string{SectionSkills, SectionProjects}, doc.MissingSections())
	assert.Empty(t, doc.ATSIssues)
	assert.Empty(t, doc.StructureIssues)
}

func TestParseDocument_MarkdownIssues(t *testing.T) {
	doc, err := ParseDocument("![me](photo.png)\n\n```\nunclosed\n")
	require.NoError(t, err)
	assert.Contains(t, doc.ATSIssues, "ATS killer: Images/Graphics")
	assert.Contains(t, doc.StructureIssues, "Unclosed code fence")
	assert.Contains(t, doc.StructureIssues, "No section headings")
}

func TestParseDocument_HTML(t *testing.T) {
	doc, err := ParseDocument(htmlResume)
	require.NoError(t, err)

	assert.Equal(t, FormatHTML, doc.Format)
	assert.Equal(t, []string{"Scaled ingestion to 5TB per day", "Mentored three engineers"}, doc.Bullets)
	assert.True(t, doc.Has(SectionExperience))
	assert.True(t, doc.Has(SectionEducation))
	assert.Contains(t, doc.ATSIssues, "ATS killer: Images/Graphics")
	assert.Contains(t, doc.ATSIssues, "ATS killer: Multi-column layout")
	assert.Equal(t, 2, doc.Tables)
	assert.NotContains(t, doc.Text, "column-count")
}

func TestScore_LaTeXBreakdown(t *testing.T) {
	s := newTestScorer(t)
	profile := keywords.BuildProfile("Data Engineer")
	summary := &types.OptimizationSummary{FallbackCount: 2}

	got, err := s.Score(latexResume, nil, profile, summary)
	require.NoError(t, err)

	assert.Equal(t, FormatLaTeX, got.Details.Format)
	assert.Equal(t, 4, got.Details.BulletsAnalyzed)
	assert.Equal(t, 2, got.Details.BulletsWithMetrics)
	assert.Equal(t, 0.5, got.Details.MetricsCoverage)
	assert.Equal(t, 8.8, got.Content.Quantification, "linear below the 85% target")
	assert.Equal(t, 4, got.Details.DistinctVerbs)
	assert.Equal(t, 4.0, got.Content.VerbDiversity)
	assert.Equal(t, 20.0, got.FormatATS)
	assert.Equal(t, 1, got.Details.KeywordCounts["Kafka"])
	assert.Equal(t, 2, got.Details.OptimizerFallbacks)
	assert.Contains(t, got.Details.TechnologiesMentioned, "Kafka")
	assert.Equal(t, 1, got.Details.ScaleIndicators)

	assert.LessOrEqual(t, got.ContentQuality, types.MaxContentQuality)
	assert.LessOrEqual(t, got.KeywordOptimization, types.MaxKeywordOptimization)
	assert.LessOrEqual(t, got.TechnicalDepth, types.MaxTechnicalDepth)
	assert.InDelta(t, got.ContentQuality+got.FormatATS+got.KeywordOptimization+got.TechnicalDepth, got.Total, 0.11)
	assert.Equal(t, GradeTable(DefaultGrades()).Letter(got.Total), got.Grade)

	assert.Contains(t, got.Recommendations, "Add metrics to 2 more bullet points")
	assert.Contains(t, got.Recommendations, "Use 6 more distinct action verbs")
}

func TestScore_IsPure(t *testing.T) {
	s := newTestScorer(t)
	profile := keywords.BuildProfile("Software Engineer")

	first, err := s.Score(markdownResume, nil, profile, nil)
	require.NoError(t, err)
	second, err := s.Score(markdownResume, nil, profile, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestScore_FormatPenalties(t *testing.T) {
	s := newTestScorer(t)
	got, err := s.Score(htmlResume, nil, nil, nil)
	require.NoError(t, err)

	// two ATS killers, three missing sections, one extra table
	assert.Equal(t, 20.0-4-6-0.5, got.FormatATS)
	assert.Contains(t, got.Details.ATSIssues, "Layout tables: 2")
	assert.Equal(t, 0.0, got.KeywordOptimization, "no profile means no keyword credit")
	assert.Contains(t, got.Recommendations, "Add missing sections: summary, skills, projects")
}

func TestScore_FallsBackToExperienceBullets(t *testing.T) {
	s := newTestScorer(t)
	exps := []types.Experience{{
		ID: "exp-1",
		Bullets: []types.Bullet{
			{Text: "Reduced costs by 30%"},
			{Text: "Cut build time from 20 min to 5 min"},
		},
	}}

	got, err := s.Score("Plain text with no bullets", exps, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Details.BulletsAnalyzed)
	assert.Equal(t, 15.0, got.Content.Quantification)
}

func TestContentQuality_LanguageChecks(t *testing.T) {
	s := newTestScorer(t)
	doc := &Document{Text: "I was responsible for a world-class platform. My team leveraged synergy. It was built by us."}
	var d types.ScoreDetails

	c := s.ContentQuality(doc, nil, &d)
	assert.Equal(t, 3, d.PronounCount)
	assert.Equal(t, 2, d.PassiveCount)
	assert.Equal(t, []string{"synergy", "leveraged", "world-class"}, d.FluffWords)
	assert.Equal(t, 6.5, c.ProfessionalLanguage)
	assert.Equal(t, 2.0, c.NoFluff)
	assert.Equal(t, 5.0, c.SectionBalance, "no sections gives half credit")
	assert.Equal(t, 0.0, c.Quantification)
}

func TestKeywordCredit_CapsOvershoot(t *testing.T) {
	kw := types.Keyword{Name: "Spark", Weight: 3, MinOccurrences: 2, MaxOccurrences: 3}

	assert.Equal(t, 0.0, keywordCredit(kw, 0))
	assert.Equal(t, 1.5, keywordCredit(kw, 1))
	assert.Equal(t, 3.0, keywordCredit(kw, 2))
	assert.Equal(t, 3.0, keywordCredit(kw, 3))
	assert.Equal(t, 1.5, keywordCredit(kw, 8))
	assert.Less(t, keywordCredit(kw, 8), keywordCredit(kw, 3), "stuffing never beats staying in range")
}

func TestKeywordOptimization_FullCoverage(t *testing.T) {
	profile := &types.KeywordProfile{Keywords: []types.Keyword{
		{Name: "Spark", Tier: 1, Weight: 3, MinOccurrences: 2, MaxOccurrences: 3},
		{Name: "AWS", Tier: 2, Weight: 1.5, MinOccurrences: 1, MaxOccurrences: 5},
	}}
	var d types.ScoreDetails

	score := KeywordOptimization("Spark jobs on AWS. Tuned Spark.", profile, &d)
	assert.Equal(t, types.MaxKeywordOptimization, score)
	assert.Equal(t, map[string]int{"Spark": 2, "AWS": 1}, d.KeywordCounts)
}
