package keywords

import (
	"sort"
	"strings"
)

// CountOccurrences counts case-insensitive occurrences of term in text.
// A match must not be glued to letters or digits on either side, so "ML"
// does not match inside "MLflow" and "Go" does not match inside "Google".
func CountOccurrences(text, term string) int {
	if term == "" || text == "" {
		return 0
	}
	haystack := strings.ToLower(text)
	needle := strings.ToLower(term)

	count := 0
	offset := 0
	for {
		idx := strings.Index(haystack[offset:], needle)
		if idx < 0 {
			return count
		}
		start := offset + idx
		end := start + len(needle)
		if boundaryBefore(haystack, start) && boundaryAfter(haystack, end) {
			count++
		}
		offset = start + 1
	}
}

// Contains reports whether term occurs in any of texts
func Contains(texts []string, term string) bool {
	for _, t := range texts {
		if CountOccurrences(t, term) > 0 {
			return true
		}
	}
	return false
}

// MentionedTechnologies returns the canonical names of known technologies
// that appear in texts, sorted by name.
func MentionedTechnologies(texts []string) []string {
	seen := make(map[string]bool)
	for key, tech := range technologies {
		if seen[tech.name] {
			continue
		}
		if Contains(texts, key) {
			seen[tech.name] = true
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func boundaryBefore(s string, i int) bool {
	return i == 0 || !isAlnum(s[i-1])
}

func boundaryAfter(s string, i int) bool {
	return i >= len(s) || !isAlnum(s[i])
}

func isAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
