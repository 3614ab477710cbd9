package jobdesc

import (
	"regexp"
	"strings"
)

var (
	innerSpace  = regexp.MustCompile(`[ \t\f\v]+`)
	blankLines  = regexp.MustCompile(`\n{3,}`)
	lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")
)

// Clean normalizes line endings, collapses runs of spaces inside lines,
// trims each line and keeps at most one blank line between paragraphs.
func Clean(content string) string {
	content = lineEndings.Replace(content)

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = innerSpace.ReplaceAllString(strings.TrimSpace(line), " ")
	}

	out := strings.Join(lines, "\n")
	out = blankLines.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
