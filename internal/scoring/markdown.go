package scoring

import (
	"regexp"
	"strings"
)

var (
	mdHeading   = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*#*$`)
	mdBullet    = regexp.MustCompile(`^\s*(?:[-*+]|\d+[.)])\s+(.+)$`)
	mdImage     = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)|<img\b`)
	mdTableSep  = regexp.MustCompile(`^\s*\|?\s*:?-{3,}:?\s*(?:\|\s*:?-{3,}:?\s*)+\|?\s*$`)
	mdLink      = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	mdEmphasis  = strings.NewReplacer("**", "", "__", "", "`", "")
	mdRule      = regexp.MustCompile(`^\s*(?:-{3,}|\*{3,}|_{3,})\s*$`)
)

func parseMarkdown(raw string) *Document {
	doc := &Document{Format: FormatMarkdown}
	if mdImage.MatchString(raw) {
		doc.ATSIssues = append(doc.ATSIssues, "ATS killer: Images/Graphics")
	}

	var (
		text    []string
		heading string
		body    []string
		inFence bool
		fences  int
		open    bool
	)
	flush := func() {
		if open {
			doc.Sections = append(doc.Sections, newSection(heading, strings.Join(body, " ")))
		}
		body = nil
	}

	for _, line := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			fences++
			continue
		}
		if inFence || trimmed == "" || mdRule.MatchString(trimmed) {
			continue
		}
		if mdTableSep.MatchString(trimmed) {
			doc.Tables++
			continue
		}
		m := mdHeading.FindStringSubmatch(trimmed)
		if m != nil && len(m[1]) <= 2 {
			flush()
			heading, open = markdownText(m[2]), true
			text = append(text, heading)
			continue
		}
		if m != nil {
			// deeper headings belong to the enclosing section
			trimmed = m[2]
		}

		plain := trimmed
		if m := mdBullet.FindStringSubmatch(line); m != nil {
			plain = markdownText(m[1])
			doc.Bullets = append(doc.Bullets, plain)
		} else {
			plain = markdownText(plain)
		}
		text = append(text, plain)
		body = append(body, plain)
	}
	flush()

	if fences%2 != 0 {
		doc.StructureIssues = append(doc.StructureIssues, "Unclosed code fence")
	}
	if len(doc.Sections) == 0 {
		doc.StructureIssues = append(doc.StructureIssues, "No section headings")
	}
	doc.Text = collapseSpace(strings.Join(text, "\n"))
	return doc
}

// markdownText removes link syntax, emphasis markers and table pipes
func markdownText(s string) string {
	s = mdLink.ReplaceAllString(s, "$1")
	s = mdEmphasis.Replace(s)
	s = strings.ReplaceAll(s, "|", " ")
	return collapseSpace(s)
}
