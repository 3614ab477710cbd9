// Package rendering renders optimized portfolios as LaTeX or Markdown documents.
package rendering

import "strings"

// latexSpecials pairs each special character with its escaped form
var latexSpecials = []string{
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`%`, `\%`,
	`#`, `\#`,
	`^`, `\textasciicircum{}`,
	`_`, `\_`,
	`~`, `\textasciitilde{}`,
}

var (
	escaper   = strings.NewReplacer(latexSpecials...)
	unescaper = strings.NewReplacer(reversePairs(latexSpecials)...)
)

func reversePairs(pairs []string) []string {
	out := make([]string, 0, len(pairs))
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, pairs[i+1], pairs[i])
	}
	return out
}

// EscapeLaTeX escapes the LaTeX special characters \ { } $ & % # ^ _ ~ in
// text. The replacement is single pass, so escaped output is never escaped
// again.
func EscapeLaTeX(text string) string {
	return escaper.Replace(strings.TrimSpace(text))
}

// UnescapeLaTeX reverses EscapeLaTeX
func UnescapeLaTeX(text string) string {
	return unescaper.Replace(text)
}
