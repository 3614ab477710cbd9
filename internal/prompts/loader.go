// Package prompts holds the embedded LLM prompt templates used to rewrite
// resume bullets. Each JSON file maps a prompt key to its template text.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// RewritingFile holds the bullet rewriting prompts
const RewritingFile = "rewriting.json"

//go:embed *.json
var promptFiles embed.FS

// Set is the parsed contents of one prompt file
type Set struct {
	file      string
	templates map[string]string
}

var (
	sets   = map[string]*Set{}
	setsMu sync.Mutex
)

// Load returns the prompt set for filename, parsing it on first use.
func Load(filename string) (*Set, error) {
	setsMu.Lock()
	defer setsMu.Unlock()

	if set, ok := sets[filename]; ok {
		return set, nil
	}

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}
	templates := map[string]string{}
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	set := &Set{file: filename, templates: templates}
	sets[filename] = set
	return set, nil
}

// Template returns the raw template stored under key.
func (s *Set) Template(key string) (string, error) {
	tmpl, ok := s.templates[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, s.file)
	}
	return tmpl, nil
}

// Keys lists the prompt keys in the set, sorted.
func (s *Set) Keys() []string {
	keys := make([]string, 0, len(s.templates))
	for key := range s.templates {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Render fills the template under key with data
func (s *Set) Render(key string, data map[string]string) (string, error) {
	tmpl, err := s.Template(key)
	if err != nil {
		return "", err
	}
	return Fill(tmpl, data), nil
}

// Render loads filename and renders key in one step.
func Render(filename, key string, data map[string]string) (string, error) {
	set, err := Load(filename)
	if err != nil {
		return "", err
	}
	return set.Render(key, data)
}

// Fill replaces {{.Key}} placeholders with values from data. Placeholders
// without a value stay in place.
func Fill(tmpl string, data map[string]string) string {
	if len(data) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, len(data)*2)
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
