package experience

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonathan/resume-optimizer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePortfolio = `
name: Jane Doe
email: jane@example.com
summary: Data engineer focused on streaming systems.
skills:
  Languages: [Python, SQL, Go]
  Platforms: AWS, Kubernetes
experience:
  - company: Acme
    position: Senior Data Engineer
    location: Remote
    start_date: Jan 2023
    end_date: Present
    technologies: [Spark, Kafka]
    achievements:
      - Architected a streaming platform
      - Reduced costs by 30%
  - company: Globex
    role: Data Engineer
    start_date: "2020-03"
    end_date: Dec 2022
    bullets:
      - Built batch pipelines
  - company: Broken Co
    role: Engineer
    start_date: sometime
    bullets: [Did things]
  - company: Empty Inc
    role: Engineer
    start_date: Jan 2019
    end_date: Jan 2020
education:
  - institution: State University
    degree: BS Computer Science
projects:
  - name: Side Project
    description: [Shipped a CLI]
`

func writePortfolio(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portfolio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadPortfolio_ValidAndMalformedEntries(t *testing.T) {
	load, err := LoadPortfolio(writePortfolio(t, samplePortfolio))
	require.NoError(t, err)

	p := load.Portfolio
	assert.Equal(t, "Jane Doe", p.Name)
	require.Len(t, p.Skills, 2)
	assert.Equal(t, "Languages", p.Skills[0].Category)
	assert.Equal(t, []string{"Python", "SQL", "Go"}, p.Skills[0].Items)
	assert.Equal(t, []string{"AWS", "Kubernetes"}, p.Skills[1].Items)
	require.Len(t, p.Education, 1)
	require.Len(t, p.Projects, 1)
	assert.Equal(t, []string{"Shipped a CLI"}, p.Projects[0].Bullets)

	require.Len(t, p.Experiences, 2)
	acme := p.Experiences[0]
	assert.Equal(t, "exp-1", acme.ID)
	assert.Equal(t, "Senior Data Engineer", acme.Role)
	assert.Equal(t, "Present", acme.EndDate)
	assert.True(t, acme.IsCurrent())
	require.Len(t, acme.Bullets, 2)
	assert.Equal(t, "exp-1-b1", acme.Bullets[0].ID)
	assert.Equal(t, "exp-1", acme.Bullets[0].ExperienceID)

	globex := p.Experiences[1]
	require.NotNil(t, globex.End)
	assert.Equal(t, time.December, globex.End.Month())

	require.Len(t, load.Rejected, 2)
	assert.Equal(t, 2, load.Rejected[0].Index)
	assert.Equal(t, "Broken Co", load.Rejected[0].Company)
	assert.Contains(t, load.Rejected[0].Reason, "start date")
	assert.Equal(t, 3, load.Rejected[1].Index)
	assert.Contains(t, load.Rejected[1].Reason, "missing required fields")
}

func TestParsePortfolio_JSON(t *testing.T) {
	content := `{"name": "J", "experiences": [{"company": "A", "role": "R", "start_date": "2021", "bullets": ["Led things"]}]}`

	load, err := ParsePortfolio([]byte(content))
	require.NoError(t, err)
	require.Len(t, load.Portfolio.Experiences, 1)
	assert.Empty(t, load.Rejected)
}

func TestLoadPortfolio_FileErrors(t *testing.T) {
	_, err := LoadPortfolio(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	var loadErr *LoadError
	assert.ErrorAs(t, err, &loadErr)

	_, err = LoadPortfolio(writePortfolio(t, "experience: [unclosed"))
	require.Error(t, err)
	assert.ErrorAs(t, err, &loadErr)

	_, err = LoadPortfolio(writePortfolio(t, "- just\n- a list\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema")
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in    string
		year  int
		month time.Month
	}{
		{"Jan 2024", 2024, time.January},
		{"january 2024", 2024, time.January},
		{"SEPT 2021", 2021, time.September},
		{"2023-07", 2023, time.July},
		{"07/2023", 2023, time.July},
		{"2019", 2019, time.January},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.year, got.Year())
			assert.Equal(t, tt.month, got.Month())
		})
	}

	_, err := ParseDate("someday")
	assert.Error(t, err)

	end, err := ParseEndDate("Present")
	require.NoError(t, err)
	assert.Nil(t, end)
}

func exp(id, start, end string) types.Experience {
	s, _ := ParseDate(start)
	e, _ := ParseEndDate(end)
	return types.Experience{ID: id, Start: s, End: e}
}

func TestPartition_RecencyOrder(t *testing.T) {
	exps := []types.Experience{
		exp("old", "Jan 2012", "Jan 2014"),
		exp("mid", "Jan 2016", "Jan 2019"),
		exp("current", "Jan 2022", "Present"),
		exp("recent", "Jan 2019", "Dec 2021"),
		exp("oldest", "Jan 2008", "Jan 2010"),
	}

	recent, skipped := Partition(exps, 3)

	require.Len(t, recent, 3)
	require.Len(t, skipped, 2)
	assert.Equal(t, "current", recent[0].ID)
	assert.Equal(t, "recent", recent[1].ID)
	assert.Equal(t, "mid", recent[2].ID)
	assert.Equal(t, "old", skipped[0].ID)
	assert.Equal(t, "oldest", skipped[1].ID)
	assert.Equal(t, "old", exps[0].ID, "input slice is not reordered")
}

func TestPartition_TiesBreakByStartThenInputOrder(t *testing.T) {
	exps := []types.Experience{
		exp("a", "Jan 2020", "Present"),
		exp("b", "Jan 2021", "Present"),
		exp("c", "Jan 2021", "Present"),
	}
	recent, skipped := Partition(exps, 5)
	assert.Empty(t, skipped)
	assert.Equal(t, []string{"b", "c", "a"}, []string{recent[0].ID, recent[1].ID, recent[2].ID})
}
