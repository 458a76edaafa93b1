package analysis

import (
	"regexp"
	"strings"

	"clauselens-backend/models"
)

const (
	maxObligationsPerKind = 8
	minObligationChars    = 10
	maxObligationChars    = 200
)

var (
	mustDoPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:shall|must|required to|obligated to|agrees? to)\s+([^\.]{20,150})`),
		regexp.MustCompile(`(?i)(?:will|is to)\s+([^\.]{20,150})`),
	}
	mustNotDoPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:shall not|must not|may not|prohibited from|forbidden to)\s+([^\.]{20,150})`),
		regexp.MustCompile(`(?i)(?:will not|cannot|restrictions? on)\s+([^\.]{20,150})`),
	}
	rightsPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:has the right to|entitled to|may)\s+([^\.]{20,150})`),
		regexp.MustCompile(`(?i)(?:reserves? the right to)\s+([^\.]{20,150})`),
		regexp.MustCompile(`(?i)(?:grants?|granted)\s+([^\.]{20,150})`),
	}
	responsibilityPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:responsible for|responsibility to|in charge of)\s+([^\.]{20,150})`),
		regexp.MustCompile(`(?i)(?:duties include)\s+([^\.]{20,150})`),
	}

	obligationSpace = regexp.MustCompile(`\s+`)
)

// ExtractObligations finds what the parties must do, must not do, are
// entitled to, and are responsible for.
func ExtractObligations(text string) models.Obligations {
	return models.Obligations{
		MustDo:           collectObligations(text, mustDoPatterns),
		MustNotDo:        collectObligations(text, mustNotDoPatterns),
		Rights:           collectObligations(text, rightsPatterns),
		Responsibilities: collectObligations(text, responsibilityPatterns),
	}
}

func collectObligations(text string, patterns []*regexp.Regexp) []string {
	var results []string
	for _, pattern := range patterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			if len(results) >= maxObligationsPerKind {
				return results
			}
			obligation := strings.TrimSpace(obligationSpace.ReplaceAllString(match[1], " "))
			if len(obligation) > minObligationChars && len(obligation) < maxObligationChars {
				results = append(results, obligation)
			}
		}
	}
	return results
}
