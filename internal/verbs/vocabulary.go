// Package verbs tracks leading action verbs across a document, flags overuse
// and suggests same-category replacements.
package verbs

import (
	"sort"
	"strings"
)

// Category groups action verbs by the kind of impact they describe
type Category string

// Verb categories
const (
	Leadership   Category = "leadership"
	Technical    Category = "technical"
	Optimization Category = "optimization"
	Scale        Category = "scale"
	Delivery     Category = "delivery"
)

// Categories lists every category in display order
var Categories = []Category{Leadership, Technical, Optimization, Scale, Delivery}

// Verb is one vocabulary entry. Base is the lemma used as the ledger key;
// Past is the form written into bullets.
type Verb struct {
	Base     string
	Past     string
	Category Category
}

var vocabulary = []Verb{
	{"champion", "Championed", Leadership},
	{"direct", "Directed", Leadership},
	{"drive", "Drove", Leadership},
	{"lead", "Led", Leadership},
	{"mentor", "Mentored", Leadership},
	{"orchestrate", "Orchestrated", Leadership},
	{"spearhead", "Spearheaded", Leadership},

	{"architect", "Architected", Technical},
	{"automate", "Automated", Technical},
	{"build", "Built", Technical},
	{"design", "Designed", Technical},
	{"develop", "Developed", Technical},
	{"engineer", "Engineered", Technical},
	{"implement", "Implemented", Technical},

	{"accelerate", "Accelerated", Optimization},
	{"enhance", "Enhanced", Optimization},
	{"improve", "Improved", Optimization},
	{"optimize", "Optimized", Optimization},
	{"reduce", "Reduced", Optimization},
	{"refine", "Refined", Optimization},
	{"streamline", "Streamlined", Optimization},

	{"consolidate", "Consolidated", Scale},
	{"expand", "Expanded", Scale},
	{"migrate", "Migrated", Scale},
	{"modernize", "Modernized", Scale},
	{"scale", "Scaled", Scale},
	{"transform", "Transformed", Scale},

	{"deliver", "Delivered", Delivery},
	{"deploy", "Deployed", Delivery},
	{"execute", "Executed", Delivery},
	{"launch", "Launched", Delivery},
	{"release", "Released", Delivery},
	{"ship", "Shipped", Delivery},
}

// irregular inflections that the suffix rules below would not produce
var irregular = map[string]string{
	"led":      "lead",
	"leading":  "lead",
	"leads":    "lead",
	"drove":    "drive",
	"driven":   "drive",
	"built":    "build",
	"shipped":  "ship",
	"shipping": "ship",
}

var (
	byBase  = make(map[string]Verb, len(vocabulary))
	byForm  = make(map[string]string)
	byGroup = make(map[Category][]Verb)
)

func init() {
	for _, v := range vocabulary {
		byBase[v.Base] = v
		byGroup[v.Category] = append(byGroup[v.Category], v)
		for _, form := range inflections(v) {
			byForm[form] = v.Base
		}
	}
	for form, base := range irregular {
		byForm[form] = base
	}
	for c := range byGroup {
		group := byGroup[c]
		sort.Slice(group, func(i, j int) bool { return group[i].Base < group[j].Base })
	}
}

func inflections(v Verb) []string {
	stem := strings.TrimSuffix(v.Base, "e")
	forms := []string{
		v.Base,
		strings.ToLower(v.Past),
		stem + "ing",
	}
	switch {
	case strings.HasSuffix(v.Base, "sh"), strings.HasSuffix(v.Base, "ch"):
		forms = append(forms, v.Base+"es")
	default:
		forms = append(forms, v.Base+"s")
	}
	return forms
}

// Lookup returns the vocabulary entry for any inflection of a verb
func Lookup(word string) (Verb, bool) {
	base, ok := byForm[strings.ToLower(strings.TrimSpace(word))]
	if !ok {
		return Verb{}, false
	}
	return byBase[base], true
}

// InCategory returns the verbs of one category sorted by base form
func InCategory(c Category) []Verb {
	return append([]Verb(nil), byGroup[c]...)
}

// All returns every vocabulary verb sorted by base form
func All() []Verb {
	out := append([]Verb(nil), vocabulary...)
	sort.Slice(out, func(i, j int) bool { return out[i].Base < out[j].Base })
	return out
}

// ExtractLeadingVerb returns the vocabulary verb that opens text, if any
func ExtractLeadingVerb(text string) (Verb, bool) {
	word, _, _ := splitLeadingWord(text)
	if word == "" {
		return Verb{}, false
	}
	return Lookup(word)
}

// ReplaceLeadingVerb swaps the first word of text for the past form of v,
// keeping any leading whitespace and the rest of the sentence intact.
func ReplaceLeadingVerb(text string, v Verb) string {
	word, start, end := splitLeadingWord(text)
	if word == "" {
		return text
	}
	return text[:start] + v.Past + text[end:]
}

// splitLeadingWord finds the first alphabetic word of text and its byte offsets
func splitLeadingWord(text string) (string, int, int) {
	start := 0
	for start < len(text) && !isLetter(text[start]) {
		if text[start] != ' ' && text[start] != '\t' && text[start] != '-' && text[start] != '*' {
			return "", 0, 0
		}
		start++
	}
	end := start
	for end < len(text) && isLetter(text[end]) {
		end++
	}
	if end == start {
		return "", 0, 0
	}
	return text[start:end], start, end
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
