package keywords

import (
	"strings"
)

// skillNormalizations maps common skill name variants to canonical names
var skillNormalizations = map[string]string{
	"golang":                "Go",
	"go lang":               "Go",
	"javascript":            "JavaScript",
	"js":                    "JavaScript",
	"typescript":            "TypeScript",
	"ts":                    "TypeScript",
	"k8s":                   "Kubernetes",
	"kubernetes":            "Kubernetes",
	"react.js":              "React",
	"reactjs":               "React",
	"vue.js":                "Vue",
	"vuejs":                 "Vue",
	"node.js":               "Node.js",
	"nodejs":                "Node.js",
	"node":                  "Node.js",
	"postgres":              "PostgreSQL",
	"apache kafka":          "Kafka",
	"apache spark":          "Spark",
	"apache airflow":        "Airflow",
	"sklearn":               "Scikit-learn",
	"amazon web services":   "AWS",
	"google cloud":          "GCP",
	"gen ai":                "GenAI",
	"generative ai":         "GenAI",
	"large language models": "LLM",
	"llms":                  "LLM",
	"rest":                  "REST APIs",
	"rest api":              "REST APIs",
	"restful apis":          "REST APIs",
	"cicd":                  "CI/CD",
	"ci cd":                 "CI/CD",
}

// NormalizeSkillName normalizes a skill name to its canonical form
func NormalizeSkillName(skillName string) string {
	normalized := strings.Join(strings.Fields(skillName), " ")
	if normalized == "" {
		return ""
	}

	lower := strings.ToLower(normalized)
	if canonical, ok := skillNormalizations[lower]; ok {
		return canonical
	}
	if tech, ok := technologies[lower]; ok {
		return tech.name
	}

	// Mixed case is assumed intentional (e.g. "PyTorch")
	if normalized != strings.ToUpper(normalized) && normalized != strings.ToLower(normalized) {
		return normalized
	}

	// Single lowercase word: capitalize the first letter
	if normalized == lower && !strings.Contains(normalized, " ") {
		return strings.ToUpper(normalized[:1]) + normalized[1:]
	}

	return normalized
}

// NormalizeRole maps a free-form role title to a template key.
// The boolean is false when no template matched.
func NormalizeRole(role string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(role))
	if lower == "" {
		return TemplateGeneric, false
	}
	tokens := strings.FieldsFunc(lower, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '/' || r == ','
	})
	has := func(words ...string) bool {
		for _, tok := range tokens {
			for _, w := range words {
				if tok == w {
					return true
				}
			}
		}
		return false
	}

	switch {
	case has("data") && has("engineer", "engineering"):
		return TemplateDataEngineer, true
	case strings.Contains(lower, "machine learning") || has("ml", "mlops", "ai"):
		return TemplateMLEngineer, true
	case has("software", "backend", "frontend", "fullstack", "swe", "developer") ||
		strings.Contains(lower, "full stack") || strings.Contains(lower, "back end"):
		return TemplateSoftwareEngineer, true
	}
	return TemplateGeneric, false
}

// TechnologyDomain returns the domain of a technology name
func TechnologyDomain(name string) (string, bool) {
	canonical := strings.ToLower(NormalizeSkillName(name))
	if tech, ok := technologies[canonical]; ok {
		return tech.domain, true
	}
	if tech, ok := technologies[strings.ToLower(strings.TrimSpace(name))]; ok {
		return tech.domain, true
	}
	return "", false
}

// Compatible reports whether a keyword of the given domain fits an experience
// whose technology context covers contextDomains.
func Compatible(keywordDomain string, contextDomains map[string]bool) bool {
	if keywordDomain == "" || keywordDomain == DomainGeneral {
		return true
	}
	if contextDomains[keywordDomain] {
		return true
	}
	for _, d := range related[keywordDomain] {
		if contextDomains[d] {
			return true
		}
	}
	return false
}

// ContextDomains derives the technology domains of an experience from its
// declared technologies and the technology names mentioned in its bullets.
func ContextDomains(technologiesUsed []string, texts []string) map[string]bool {
	domains := make(map[string]bool)
	for _, t := range technologiesUsed {
		if d, ok := TechnologyDomain(t); ok {
			domains[d] = true
		}
	}
	for _, tech := range MentionedTechnologies(texts) {
		if d, ok := TechnologyDomain(tech); ok {
			domains[d] = true
		}
	}
	return domains
}
