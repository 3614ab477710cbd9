package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RewritingPrompts(t *testing.T) {
	set, err := Load(RewritingFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"inject-metric", "paraphrase-bullet", "rules"}, set.Keys())

	tmpl, err := set.Template("inject-metric")
	require.NoError(t, err)
	assert.Contains(t, tmpl, "quantified outcome")
	assert.Contains(t, tmpl, "{{.Text}}")
}

func TestLoad_ReturnsSameSet(t *testing.T) {
	first, err := Load(RewritingFile)
	require.NoError(t, err)
	second, err := Load(RewritingFile)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("nonexistent.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestTemplate_UnknownKey(t *testing.T) {
	set, err := Load(RewritingFile)
	require.NoError(t, err)

	_, err = set.Template("nonexistent-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found in rewriting.json")
}

func TestFill(t *testing.T) {
	tests := []struct {
		name     string
		tmpl     string
		data     map[string]string
		expected string
	}{
		{"replaces all", "{{.Role}} at {{.Company}}", map[string]string{"Role": "Engineer", "Company": "Acme"}, "Engineer at Acme"},
		{"repeated key", "{{.A}} and {{.A}}", map[string]string{"A": "x"}, "x and x"},
		{"missing key kept", "{{.A}} {{.B}}", map[string]string{"A": "x"}, "x {{.B}}"},
		{"no data", "plain {{.A}}", nil, "plain {{.A}}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Fill(tt.tmpl, tt.data))
		})
	}
}

func TestRender(t *testing.T) {
	out, err := Render(RewritingFile, "paraphrase-bullet", map[string]string{
		"Role":    "Data Engineer",
		"Company": "Acme",
		"Text":    "Built pipelines",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Data Engineer at Acme")
	assert.Contains(t, out, "Built pipelines")
}
