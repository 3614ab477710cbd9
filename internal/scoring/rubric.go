package scoring

import "regexp"

// Category point budgets inside content quality
const (
	pointsQuantification       = 15.0
	pointsVerbDiversity        = 10.0
	pointsSectionBalance       = 10.0
	pointsProfessionalLanguage = 10.0
	pointsNoFluff              = 5.0
)

// Format deductions
const (
	penaltyATSKiller      = 2.0
	penaltyMissingSection = 2.0
	penaltyStructure      = 2.0
	penaltyExtraTable     = 0.5
)

// Technical depth budgets
const (
	pointsTechnologies = 5.0
	pointsArchitecture = 2.0
	pointsScale        = 3.0
)

// Keyword credit when a count overshoots the target range
const overshootCredit = 0.5

const maxRecommendations = 10

var pronounPattern = regexp.MustCompile(`\bI\b|(?i:\b(?:me|my|mine|we|our|us)\b)`)

var passivePhrases = []string{
	"was built", "were built", "was created", "were created",
	"was developed", "were developed", "is managed", "was managed",
	"was implemented", "were implemented", "responsible for",
}

var fluffWords = []string{
	"synergy", "synergies", "leverage", "leveraged", "leveraging",
	"paradigm", "utilize", "utilized", "utilizing", "facilitate", "facilitated",
	"innovative", "cutting-edge", "best-in-class", "world-class",
	"results-driven", "detail-oriented", "go-getter", "team player",
	"think outside the box",
}

var architectureWords = []string{
	"architecture", "architected", "designed", "scalable", "distributed",
	"microservices", "event-driven", "fault-tolerant", "high availability",
}

var scalePattern = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s?(?:k|m|b|million|billion|tb|pb)\b\+?|\b\d{1,3}(?:,\d{3}){2,}\b`)
