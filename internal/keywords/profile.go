// Package keywords builds role-specific keyword profiles with tiered weights and
// target occurrence ranges, and counts keyword occurrences in resume text.
package keywords

import (
	"sort"
	"strings"

	"github.com/jonathan/resume-optimizer/internal/types"
)

const (
	// Tier weights and occurrence ranges
	weightPrimary   = 3.0
	weightSecondary = 1.5
	primaryMin      = 2
	primaryMax      = 3
	secondaryMin    = 1
	secondaryMax    = 5

	// Source constants
	sourceTemplate       = "template"
	sourceJobDescription = "job_description"
)

// KnownRoles returns the display names of all non-generic role templates
func KnownRoles() []string {
	return []string{
		templates[TemplateDataEngineer].displayName,
		templates[TemplateMLEngineer].displayName,
		templates[TemplateSoftwareEngineer].displayName,
	}
}

// BuildProfile resolves role to a template and returns its keyword profile.
// Unknown roles resolve to the generic template with Fallback set.
func BuildProfile(role string) *types.KeywordProfile {
	key, matched := NormalizeRole(role)
	tmpl := templates[key]

	keywordMap := make(map[string]*types.Keyword)
	for _, t := range tmpl.primary {
		addOrUpdateKeyword(keywordMap, primaryKeyword(t, sourceTemplate))
	}
	for _, t := range tmpl.secondary {
		addOrUpdateKeyword(keywordMap, secondaryKeyword(t, sourceTemplate))
	}

	return &types.KeywordProfile{
		Role:     strings.TrimSpace(role),
		Template: tmpl.key,
		Fallback: !matched,
		Keywords: sortedKeywords(keywordMap),
	}
}

// BuildProfileWithDescription builds the role profile and adds every known
// technology mentioned in the job description as a tier-2 keyword.
func BuildProfileWithDescription(role, description string) *types.KeywordProfile {
	profile := BuildProfile(role)
	if strings.TrimSpace(description) == "" {
		return profile
	}

	keywordMap := make(map[string]*types.Keyword, len(profile.Keywords))
	for i := range profile.Keywords {
		kw := profile.Keywords[i]
		keywordMap[kw.Name] = &kw
	}

	for _, name := range MentionedTechnologies([]string{description}) {
		domain, _ := TechnologyDomain(name)
		addOrUpdateKeyword(keywordMap, secondaryKeyword(term{name: name, domain: domain}, sourceJobDescription))
	}

	profile.Keywords = sortedKeywords(keywordMap)
	return profile
}

func primaryKeyword(t term, source string) types.Keyword {
	return types.Keyword{
		Name:           t.name,
		Tier:           types.TierPrimary,
		Weight:         weightPrimary,
		MinOccurrences: primaryMin,
		MaxOccurrences: primaryMax,
		Domain:         t.domain,
		Source:         source,
	}
}

func secondaryKeyword(t term, source string) types.Keyword {
	return types.Keyword{
		Name:           t.name,
		Tier:           types.TierSecondary,
		Weight:         weightSecondary,
		MinOccurrences: secondaryMin,
		MaxOccurrences: secondaryMax,
		Domain:         t.domain,
		Source:         source,
	}
}

// addOrUpdateKeyword adds a keyword or, for duplicates, keeps the higher-priority tier
func addOrUpdateKeyword(keywordMap map[string]*types.Keyword, kw types.Keyword) {
	kw.Name = NormalizeSkillName(kw.Name)
	if kw.Name == "" {
		return
	}
	existing, exists := keywordMap[kw.Name]
	if !exists {
		keywordMap[kw.Name] = &kw
		return
	}
	if kw.Weight > existing.Weight {
		*existing = kw
	}
}

// sortedKeywords orders keywords by tier, then weight descending, then name
func sortedKeywords(keywordMap map[string]*types.Keyword) []types.Keyword {
	out := make([]types.Keyword, 0, len(keywordMap))
	for _, kw := range keywordMap {
		out = append(out, *kw)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Tier != out[j].Tier {
			return out[i].Tier < out[j].Tier
		}
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}
