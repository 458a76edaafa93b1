package analysis

import (
	"regexp"
	"strings"

	"clauselens-backend/models"
)

const (
	maxImportantDates = 10
	dateContextBefore = 20
	dateContextAfter  = 30
)

var datePatterns = []struct {
	re       *regexp.Regexp
	dateType string
}{
	{regexp.MustCompile(`(?i)(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`), "date"},
	{regexp.MustCompile(`(?i)((?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4})`), "date"},
	{regexp.MustCompile(`(?i)effective\s+(?:date|as of)\s*:?\s*([^,\.]+)`), "effective_date"},
	{regexp.MustCompile(`(?i)term of\s+(\d+\s+(?:day|week|month|year)s?)`), "term"},
	{regexp.MustCompile(`(?i)expir(?:e|ation|y)\s+(?:date|on)?\s*:?\s*([^,\.]+)`), "expiration"},
	{regexp.MustCompile(`(?i)renew(?:al|s)?\s+(?:date|on|term)?\s*:?\s*([^,\.]+)`), "renewal"},
	{regexp.MustCompile(`(?i)deadline\s*:?\s*([^,\.]+)`), "deadline"},
}

// ExtractImportantDates finds dates, terms, and deadlines in the
// contract, each with a short snippet of surrounding context.
func ExtractImportantDates(text string) []models.ContractDate {
	var dates []models.ContractDate
	for _, pattern := range datePatterns {
		for _, loc := range pattern.re.FindAllStringSubmatchIndex(text, -1) {
			if len(dates) >= maxImportantDates {
				return dates
			}
			start := loc[0] - dateContextBefore
			if start < 0 {
				start = 0
			}
			start = runeBoundary(text, start)
			end := runeBoundary(text, loc[1]+dateContextAfter)
			context := strings.ReplaceAll(text[start:end], "\n", " ")
			dates = append(dates, models.ContractDate{
				Date:    strings.TrimSpace(text[loc[2]:loc[3]]),
				Type:    pattern.dateType,
				Context: strings.TrimSpace(context),
			})
		}
	}
	return dates
}
