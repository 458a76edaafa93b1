package analysis

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"clauselens-backend/models"
)

const (
	maxDefinedTerms      = 15
	maxFrequentTerms     = 10
	maxMonetaryAmounts   = 10
	maxImportantEntities = 10
	maxTimePeriods       = 10
	maxKeyConcepts       = 12
)

var (
	definedTermPattern = regexp.MustCompile(`"([A-Z][^"]+)"\s+(?:means?|refers? to|is defined as)`)
	capitalizedPattern = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,3})\b`)
	monetaryPattern    = regexp.MustCompile(`\$\s*([0-9]{1,3}(?:,?[0-9]{3})*(?:\.[0-9]{2})?)\s*(?:per|for|to|as)?\s*([a-zA-Z\s]{0,30})`)
	entityPattern      = regexp.MustCompile(`\b([A-Z][A-Za-z\s&]+(?:LLC|Inc|Corp|Ltd|LLP|L\.L\.C\.|Corporation)\.?)\b`)
)

var timePeriodPatterns = []struct {
	re         *regexp.Regexp
	periodType string
}{
	{regexp.MustCompile(`(?i)(\d+)\s*(day|week|month|year)s?`), "duration"},
	{regexp.MustCompile(`(?i)(within|after|before)\s+(\d+)\s+(day|week|month|year)s?`), "relative_time"},
	{regexp.MustCompile(`(?i)(annual|monthly|weekly|daily|quarterly)`), "frequency"},
}

// keyConcepts are common contract concepts reported with their
// occurrence counts when present.
var keyConcepts = []string{
	"confidentiality", "indemnification", "termination", "liability",
	"intellectual property", "non-compete", "non-solicitation",
	"arbitration", "jurisdiction", "force majeure", "warranties",
	"representations", "governing law", "severability", "amendment",
}

// ExtractKeyTerms pulls defined terms, monetary amounts, named
// entities, time periods, and recurring legal concepts out of the
// contract text.
func ExtractKeyTerms(text string) models.KeyTerms {
	return models.KeyTerms{
		DefinedTerms:      extractDefinedTerms(text),
		MonetaryAmounts:   extractMonetaryAmounts(text),
		ImportantEntities: extractEntities(text),
		TimePeriods:       extractTimePeriods(text),
		KeyConcepts:       extractKeyConcepts(text),
	}
}

func extractDefinedTerms(text string) []models.DefinedTerm {
	var terms []models.DefinedTerm
	seen := make(map[string]bool)

	for _, loc := range definedTermPattern.FindAllStringSubmatchIndex(text, -1) {
		term := text[loc[2]:loc[3]]
		if seen[term] {
			continue
		}
		seen[term] = true

		// The definition is the remainder of the sentence that follows.
		start := loc[1]
		end := runeBoundary(text, start+100)
		definition := text[start:end]
		if idx := strings.Index(definition, "."); idx >= 0 {
			definition = definition[:idx]
		}
		terms = append(terms, models.DefinedTerm{
			Term:       term,
			Definition: strings.TrimSpace(definition),
		})
	}

	// Capitalized phrases repeated throughout the contract count as
	// de facto defined terms even without a formal definition.
	counts := make(map[string]int)
	var order []string
	for _, match := range capitalizedPattern.FindAllStringSubmatch(text, -1) {
		term := match[1]
		if counts[term] == 0 {
			order = append(order, term)
		}
		counts[term]++
	}
	frequent := 0
	for _, term := range order {
		if frequent >= maxFrequentTerms {
			break
		}
		if counts[term] < 3 || seen[term] {
			continue
		}
		terms = append(terms, models.DefinedTerm{
			Term:       term,
			Definition: "Frequent term in contract",
		})
		frequent++
	}

	if len(terms) > maxDefinedTerms {
		terms = terms[:maxDefinedTerms]
	}
	return terms
}

func extractMonetaryAmounts(text string) []models.MonetaryAmount {
	var amounts []models.MonetaryAmount
	for _, match := range monetaryPattern.FindAllStringSubmatch(text, -1) {
		if len(amounts) >= maxMonetaryAmounts {
			break
		}
		context := strings.TrimSpace(match[2])
		if context == "" {
			context = "Not specified"
		}
		amounts = append(amounts, models.MonetaryAmount{
			Amount:  "$" + match[1],
			Context: context,
		})
	}
	return amounts
}

func extractEntities(text string) []string {
	var entities []string
	seen := make(map[string]bool)
	for _, match := range entityPattern.FindAllStringSubmatch(text, -1) {
		if len(entities) >= maxImportantEntities {
			break
		}
		entity := strings.TrimSpace(match[1])
		if seen[entity] {
			continue
		}
		seen[entity] = true
		entities = append(entities, entity)
	}
	return entities
}

func extractTimePeriods(text string) []models.TimePeriod {
	var periods []models.TimePeriod
	for _, pattern := range timePeriodPatterns {
		for _, match := range pattern.re.FindAllString(text, -1) {
			if len(periods) >= maxTimePeriods {
				return periods
			}
			periods = append(periods, models.TimePeriod{
				Text: match,
				Type: pattern.periodType,
			})
		}
	}
	return periods
}

func extractKeyConcepts(text string) []string {
	lower := strings.ToLower(text)
	var concepts []string
	for _, concept := range keyConcepts {
		if len(concepts) >= maxKeyConcepts {
			break
		}
		count := strings.Count(lower, concept)
		if count == 0 {
			continue
		}
		concepts = append(concepts, fmt.Sprintf("%s (%dx)", titleCase(concept), count))
	}
	return concepts
}

// titleCase upper-cases the first letter of every word, treating any
// non-letter as a word boundary.
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) && !prevLetter {
			b.WriteRune(unicode.ToUpper(r))
		} else {
			b.WriteRune(r)
		}
		prevLetter = unicode.IsLetter(r)
	}
	return b.String()
}

// runeBoundary clamps a byte offset to the text length and walks it
// back to the start of a rune so slicing never splits a character.
func runeBoundary(text string, offset int) int {
	if offset >= len(text) {
		return len(text)
	}
	for offset > 0 && !utf8.RuneStart(text[offset]) {
		offset--
	}
	return offset
}
