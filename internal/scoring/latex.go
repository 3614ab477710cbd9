package scoring

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/rendering"
)

var (
	latexSection   = regexp.MustCompile(`\\section\*?\{([^}]*)\}`)
	latexEnv       = regexp.MustCompile(`\\(?:begin|end)\{[^}]*\}(?:\{[^}]*\}|\[[^\]]*\])*`)
	latexLineBreak = regexp.MustCompile(`\\\\(?:\[[^\]]*\])?`)
	latexCommand   = regexp.MustCompile(`\\[a-zA-Z@]+\*?(?:\[[^\]]*\])?(?:\{\})?`)
	latexBegin     = regexp.MustCompile(`\\begin\{([^}]*)\}`)
	latexEnd       = regexp.MustCompile(`\\end\{([^}]*)\}`)
)

// latexATSKillers are constructs that break ATS text extraction
var latexATSKillers = []struct {
	pattern *regexp.Regexp
	name    string
}{
	{regexp.MustCompile(`\\includegraphics`), "Images/Graphics"},
	{regexp.MustCompile(`\\begin\{figure\}`), "Figure environments"},
	{regexp.MustCompile(`\\begin\{multicols\}`), "Multi-column layout"},
	{regexp.MustCompile(`\\twocolumn`), "Two-column layout"},
	{regexp.MustCompile(`\\fontspec`), "Custom fonts"},
	{regexp.MustCompile(`\\begin\{wrapfigure\}`), "Text wrapping around images"},
}

// keptCommands survive markup stripping so UnescapeLaTeX can restore them
var keptCommands = []string{`\textbackslash{}`, `\textasciicircum{}`, `\textasciitilde{}`}

func keptCommandAt(s string) string {
	for _, k := range keptCommands {
		if strings.HasPrefix(s, k) {
			return k
		}
	}
	return ""
}

func parseLaTeX(raw string) *Document {
	src := stripLaTeXComments(raw)
	doc := &Document{Format: FormatLaTeX}

	for _, k := range latexATSKillers {
		if k.pattern.MatchString(src) {
			doc.ATSIssues = append(doc.ATSIssues, "ATS killer: "+k.name)
		}
	}
	doc.Tables = strings.Count(src, `\begin{tabular}`)
	doc.StructureIssues = latexStructure(src)

	body := src
	if start := strings.Index(src, `\begin{document}`); start >= 0 {
		body = src[start+len(`\begin{document}`):]
		if end := strings.Index(body, `\end{document}`); end >= 0 {
			body = body[:end]
		}
	}

	doc.Text = latexToText(body)

	matches := latexSection.FindAllStringSubmatchIndex(body, -1)
	for i, m := range matches {
		end := len(body)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		heading := latexToText(body[m[2]:m[3]])
		doc.Sections = append(doc.Sections, newSection(heading, latexToText(body[m[1]:end])))
	}

	for _, item := range braceArguments(body, `\resumeItem{`) {
		if text := latexToText(item); text != "" {
			doc.Bullets = append(doc.Bullets, text)
		}
	}
	if len(doc.Bullets) == 0 {
		for _, line := range strings.Split(body, "\n") {
			trimmed := strings.TrimSpace(line)
			if !strings.HasPrefix(trimmed, `\item `) {
				continue
			}
			if text := latexToText(strings.TrimPrefix(trimmed, `\item `)); text != "" {
				doc.Bullets = append(doc.Bullets, text)
			}
		}
	}
	return doc
}

// latexStructure reports unbalanced braces, environments and a missing
// document body.
func latexStructure(src string) []string {
	var issues []string

	depth := 0
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
		}
		if depth < 0 {
			break
		}
	}
	if depth != 0 {
		issues = append(issues, "Unbalanced braces")
	}

	open := make(map[string]int)
	for _, m := range latexBegin.FindAllStringSubmatch(src, -1) {
		open[m[1]]++
	}
	for _, m := range latexEnd.FindAllStringSubmatch(src, -1) {
		open[m[1]]--
	}
	for _, env := range sortedKeys(open) {
		if open[env] != 0 {
			issues = append(issues, fmt.Sprintf("Unclosed environment: %s", env))
		}
	}

	if strings.Contains(src, `\documentclass`) && !strings.Contains(src, `\begin{document}`) {
		issues = append(issues, "Missing document body")
	}
	return issues
}

// stripLaTeXComments drops everything after an unescaped % on each line
func stripLaTeXComments(src string) string {
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		for j := 0; j < len(line); j++ {
			if line[j] == '\\' {
				j++
				continue
			}
			if line[j] == '%' {
				lines[i] = line[:j]
				break
			}
		}
	}
	return strings.Join(lines, "\n")
}

// braceArguments returns the brace-balanced argument following every
// occurrence of prefix, which must end with the opening brace.
func braceArguments(src, prefix string) []string {
	var out []string
	offset := 0
	for {
		idx := strings.Index(src[offset:], prefix)
		if idx < 0 {
			return out
		}
		start := offset + idx + len(prefix)
		depth := 1
		end := start
		for end < len(src) && depth > 0 {
			switch src[end] {
			case '\\':
				end++
			case '{':
				depth++
			case '}':
				depth--
			}
			end++
		}
		if depth != 0 {
			return out
		}
		out = append(out, src[start:end-1])
		offset = end
	}
}

// latexToText strips markup from a LaTeX fragment and collapses whitespace
func latexToText(src string) string {
	s := latexLineBreak.ReplaceAllString(src, " ")
	s = latexEnv.ReplaceAllString(s, " ")
	s = latexCommand.ReplaceAllStringFunc(s, func(cmd string) string {
		if keptCommandAt(cmd) == cmd {
			return cmd
		}
		return " "
	})

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if k := keptCommandAt(s[i:]); k != "" {
			b.WriteString(k)
			i += len(k) - 1
			continue
		}
		switch {
		case c == '\\' && i+1 < len(s):
			b.WriteByte(c)
			b.WriteByte(s[i+1])
			i++
		case c == '{' || c == '}' || c == '$':
		case c == '~' || c == '&':
			b.WriteByte(' ')
		default:
			b.WriteByte(c)
		}
	}
	return collapseSpace(rendering.UnescapeLaTeX(b.String()))
}
