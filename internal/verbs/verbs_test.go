package verbs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVocabulary_CategoriesHaveAtLeastSixVerbs(t *testing.T) {
	for _, c := range Categories {
		assert.GreaterOrEqual(t, len(InCategory(c)), 6, c)
	}
}

func TestLookup_Inflections(t *testing.T) {
	tests := []struct {
		word string
		base string
	}{
		{"Architected", "architect"},
		{"architecting", "architect"},
		{"Led", "lead"},
		{"leads", "lead"},
		{"Drove", "drive"},
		{"driving", "drive"},
		{"BUILT", "build"},
		{"Shipped", "ship"},
		{"streamlines", "streamline"},
		{"  Optimized ", "optimize"},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			v, ok := Lookup(tt.word)
			require.True(t, ok)
			assert.Equal(t, tt.base, v.Base)
		})
	}

	_, ok := Lookup("Created")
	assert.False(t, ok)
}

func TestExtractLeadingVerb(t *testing.T) {
	v, ok := ExtractLeadingVerb("Architected a streaming platform")
	require.True(t, ok)
	assert.Equal(t, "architect", v.Base)
	assert.Equal(t, Technical, v.Category)

	v, ok = ExtractLeadingVerb("- Led, mentored and grew a team")
	require.True(t, ok)
	assert.Equal(t, "lead", v.Base)

	_, ok = ExtractLeadingVerb("Responsible for pipelines")
	assert.False(t, ok)

	_, ok = ExtractLeadingVerb("")
	assert.False(t, ok)

	_, ok = ExtractLeadingVerb("40% faster builds")
	assert.False(t, ok)
}

func TestReplaceLeadingVerb_PreservesSentence(t *testing.T) {
	engineer, _ := Lookup("engineer")
	got := ReplaceLeadingVerb("Architected event-driven ingestion, cutting lag 30%.", engineer)
	assert.Equal(t, "Engineered event-driven ingestion, cutting lag 30%.", got)

	got = ReplaceLeadingVerb("  Built APIs", engineer)
	assert.Equal(t, "  Engineered APIs", got)

	assert.Equal(t, "", ReplaceLeadingVerb("", engineer))
}

func TestLedger_RecordAndCheck(t *testing.T) {
	l := NewLedger(3)

	assert.Equal(t, CheckResult{CountAfter: 1, IsOverused: false}, l.RecordAndCheck("architect"))
	assert.Equal(t, CheckResult{CountAfter: 2, IsOverused: false}, l.RecordAndCheck("architect"))
	assert.Equal(t, CheckResult{CountAfter: 3, IsOverused: true}, l.RecordAndCheck("architect"))
	assert.Equal(t, 3, l.Count("architect"))
}

func TestLedger_ReplaceKeepsVerbFlagged(t *testing.T) {
	l := NewLedger(3)
	l.Record("architect")
	l.Record("architect")
	require.True(t, l.RecordAndCheck("architect").IsOverused)

	l.Replace("architect", "automate")

	assert.Equal(t, 2, l.Count("architect"))
	assert.Equal(t, 1, l.Count("automate"))
	assert.True(t, l.IsFlagged("architect"))
	assert.True(t, l.RecordAndCheck("architect").IsOverused, "flagged verb stays overused")
}

func TestLedger_SuggestAlternative_LeastUsedThenLexicographic(t *testing.T) {
	l := NewLedger(3)
	l.Record("automate")
	l.Record("build")

	s := l.SuggestAlternative("architect", Technical)
	assert.False(t, s.CrossCategory)
	assert.False(t, s.Exhausted)
	assert.Equal(t, "design", s.Verb.Base, "unused verbs first, alphabetical among equals")
	assert.Equal(t, "Designed", s.Verb.Past)
}

func TestLedger_SuggestAlternative_SkipsVerbsAtThreshold(t *testing.T) {
	l := NewLedger(3)
	for _, v := range InCategory(Technical) {
		if v.Base == "implement" {
			continue
		}
		for i := 0; i < 3; i++ {
			l.Record(v.Base)
		}
	}

	s := l.SuggestAlternative("architect", Technical)
	assert.Equal(t, "implement", s.Verb.Base)
	assert.False(t, s.CrossCategory)
}

func TestLedger_SuggestAlternative_AcceptsVerbsBelowThreshold(t *testing.T) {
	l := NewLedger(2)
	for _, v := range InCategory(Leadership) {
		l.Record(v.Base)
	}
	require.True(t, l.RecordAndCheck("lead").IsOverused)

	s := l.SuggestAlternative("lead", Leadership)
	assert.False(t, s.CrossCategory)
	assert.False(t, s.Exhausted)
	assert.Equal(t, "champion", s.Verb.Base)
}

func TestLedger_SuggestAlternative_ThresholdOne(t *testing.T) {
	l := NewLedger(1)
	require.True(t, l.RecordAndCheck("lead").IsOverused)

	s := l.SuggestAlternative("lead", Leadership)
	assert.False(t, s.Exhausted)
	assert.Equal(t, "champion", s.Verb.Base)

	l.Replace("lead", s.Verb.Base)
	next := l.SuggestAlternative("lead", Leadership)
	assert.Equal(t, "direct", next.Verb.Base, "a verb at the threshold is skipped")
}

func TestLedger_SuggestAlternative_Deterministic(t *testing.T) {
	build := func() *Ledger {
		l := NewLedger(3)
		l.Record("design")
		l.Record("build")
		l.Record("build")
		return l
	}
	first := build().SuggestAlternative("architect", Technical)
	second := build().SuggestAlternative("architect", Technical)
	assert.Equal(t, first, second)
}

func TestLedger_SuggestAlternative_CrossCategoryFallback(t *testing.T) {
	l := NewLedger(3)
	for _, v := range InCategory(Scale) {
		l.Flag(v.Base)
	}

	s := l.SuggestAlternative("scale", Scale)
	assert.True(t, s.CrossCategory)
	assert.False(t, s.Exhausted)
	assert.Equal(t, "accelerate", s.Verb.Base, "alphabetically first unused verb overall")
}

func TestLedger_SuggestAlternative_ExhaustedKeepsCurrent(t *testing.T) {
	l := NewLedger(3)
	for _, v := range All() {
		l.Flag(v.Base)
	}

	s := l.SuggestAlternative("lead", Leadership)
	assert.True(t, s.Exhausted)
	assert.Equal(t, "lead", s.Verb.Base)
}

func TestLedger_Snapshot(t *testing.T) {
	l := NewLedger(3)
	l.Record("build")
	l.Record("build")
	l.Record("lead")
	l.Flag("ship")

	snap := l.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "build", snap[0].Verb)
	assert.Equal(t, 2, snap[0].Count)
	assert.Equal(t, "technical", snap[0].Category)
	assert.Equal(t, "lead", snap[1].Verb)
	assert.Equal(t, "ship", snap[2].Verb)
	assert.True(t, snap[2].Flagged)
	assert.Equal(t, 0, snap[2].Count)
}
