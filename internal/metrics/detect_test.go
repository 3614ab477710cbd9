package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect_PatternFamilies(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantText string
		wantType string
	}{
		{"percentage", "Cut costs by 35%", "35%", TypePercentage},
		{"decimal percentage", "Reached 99.9% uptime", "99.9%", TypePercentage},
		{"magnitude", "Processed 2M records daily", "2M", TypeMagnitude},
		{"magnitude with plus", "Served 10K+ tenants", "10K+", TypeMagnitude},
		{"lowercase magnitude", "handled 5b events", "5b", TypeMagnitude},
		{"multiplier", "Made builds 3x quicker", "3x", TypeMultiplier},
		{"size", "Migrated 40TB warehouse", "40TB", TypeSize},
		{"size with space", "Compressed 12 GB nightly", "12 GB", TypeSize},
		{"count plus", "Onboarded 500+ users", "500+ users", TypeCountPlus},
		{"count with unit", "Maintained 120 tables in Redshift", "120 tables", TypeCount},
		{"thousands separator", "Indexed 1,250,000 documents", "1,250,000", TypeCount},
		{"currency", "Saved $2M per year", "$2M", TypeCurrency},
		{"delta", "Queries ran 40% faster", "40% faster", TypeDelta},
		{"from to", "Cut deploys from 2 hours to 15 minutes", "from 2 hours to 15 minutes", TypeReduction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			det := Detect(tt.text)
			require.True(t, det.HasMetric)
			require.Len(t, det.Spans, 1)
			assert.Equal(t, tt.wantText, det.Spans[0].Text)
			assert.Equal(t, tt.wantType, det.Spans[0].Type)
			assert.Equal(t, tt.wantText, tt.text[det.Spans[0].Start:det.Spans[0].End])
		})
	}
}

func TestDetect_NoMetric(t *testing.T) {
	for _, text := range []string{
		"Architected a streaming platform",
		"Led the migration to Kubernetes",
		"",
		"Worked on Web3 features",
	} {
		det := Detect(text)
		assert.False(t, det.HasMetric, text)
		assert.Empty(t, det.Spans, text)
		assert.False(t, HasMetric(text), text)
	}
}

func TestDetect_MultipleSpansOrderedByPosition(t *testing.T) {
	det := Detect("Scaled ingestion 4x to 10M+ events while cutting spend 25%")

	require.Len(t, det.Spans, 3)
	assert.Equal(t, "4x", det.Spans[0].Text)
	assert.Equal(t, "10M+", det.Spans[1].Text)
	assert.Equal(t, "25%", det.Spans[2].Text)
	assert.Less(t, det.Spans[0].Start, det.Spans[1].Start)
	assert.Less(t, det.Spans[1].Start, det.Spans[2].Start)
}

func TestDetect_OverlapKeepsLongest(t *testing.T) {
	det := Detect("Reduced p99 latency from 800ms to 120ms, 85% lower")

	require.Len(t, det.Spans, 2)
	assert.Equal(t, TypeReduction, det.Spans[0].Type)
	assert.Equal(t, "from 800ms to 120ms", det.Spans[0].Text)
	assert.Equal(t, "85% lower", det.Spans[1].Text)
}

func TestDetect_CaseInsensitive(t *testing.T) {
	upper := Detect("GREW REVENUE 20% FASTER")
	lower := Detect("grew revenue 20% faster")

	require.Len(t, upper.Spans, 1)
	require.Len(t, lower.Spans, 1)
	assert.Equal(t, upper.Spans[0].Type, lower.Spans[0].Type)
	assert.Equal(t, TypeDelta, lower.Spans[0].Type)
}

func TestNumbers(t *testing.T) {
	assert.Equal(t, []string{"40", "1,200", "3.5"}, Numbers("Cut 40% of 1,200 jobs in 3.5 weeks"))
	assert.Empty(t, Numbers("no digits here"))
}

func TestCoverage(t *testing.T) {
	assert.Equal(t, 0.0, Coverage(nil))
	assert.Equal(t, 0.5, Coverage([]string{"Cut costs 10%", "Led the team"}))
	assert.Equal(t, 1.0, Coverage([]string{"Served 5K users", "Built 3 services"}))
}
