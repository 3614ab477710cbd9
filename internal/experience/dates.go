package experience

import (
	"fmt"
	"strings"
	"time"
)

var dateLayouts = []string{
	"Jan 2006",
	"January 2006",
	"Jan. 2006",
	"Jan, 2006",
	"2006-01",
	"2006-01-02",
	"01/2006",
	"1/2006",
	"2006/01",
	"2006",
}

var openEnded = map[string]bool{
	"":        true,
	"present": true,
	"current": true,
	"now":     true,
	"ongoing": true,
	"today":   true,
}

// ParseDate parses a resume date such as "Jan 2024", "2024-01" or "2024".
func ParseDate(value string) (time.Time, error) {
	v := strings.Join(strings.Fields(value), " ")
	if v == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	if strings.EqualFold(v, "sept") || strings.HasPrefix(strings.ToLower(v), "sept ") {
		v = "Sep" + v[4:]
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
		// time.Parse is case-sensitive for month names
		if t, err := time.Parse(layout, titleMonth(v)); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// ParseEndDate parses an end date. It returns nil for open-ended values such as "Present".
func ParseEndDate(value string) (*time.Time, error) {
	if openEnded[strings.ToLower(strings.TrimSpace(value))] {
		return nil, nil
	}
	t, err := ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func titleMonth(v string) string {
	if v == "" {
		return v
	}
	return strings.ToUpper(v[:1]) + strings.ToLower(v[1:])
}
