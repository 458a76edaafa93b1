package analysis

import (
	"regexp"
	"strings"
	"unicode"
)

// DefaultMinClauseLength is the minimum character count for a segmented
// unit to count as a clause.
const DefaultMinClauseLength = 50

// sectionMarker matches enumerated section markers at the start of a
// line: "1.", "2.1", "a)", "iv)", "(i)", "(b)". Each marker begins a new
// clause that runs until the next marker or the end of the text.
var sectionMarker = regexp.MustCompile(`(?im)^(?:\d+\.(?:\d+\.?)?|[a-z]\)|[ivx]+\)|\([ivx]+\)|\([a-z]\))\s+`)

// paragraphBreak matches runs of two or more line breaks.
var paragraphBreak = regexp.MustCompile(`\n{2,}`)

// Segment splits contract text into clause-sized units.
//
// Structural segmentation by numbered section markers is attempted
// first. When the text has no usable section structure (fewer than two
// markers), it falls back to paragraph splitting. Both paths then drop
// units shorter than minLength and units that look like bare section
// headers. Empty input yields an empty result, as does input with
// nothing left after filtering.
func Segment(text string, minLength int) []string {
	clauses := splitByNumberedSections(text)
	if len(clauses) <= 1 {
		clauses = splitByParagraphs(text)
	}

	cleaned := make([]string, 0, len(clauses))
	for _, clause := range clauses {
		clause = strings.TrimSpace(clause)
		if len(clause) < minLength {
			continue
		}
		if isLikelyHeader(clause) {
			continue
		}
		cleaned = append(cleaned, clause)
	}
	return cleaned
}

// splitByNumberedSections cuts the text at each section marker. The
// marker stays attached to the clause it opens. Returns the whole text
// as a single unit when no markers are found.
func splitByNumberedSections(text string) []string {
	positions := sectionMarker.FindAllStringIndex(text, -1)
	if len(positions) == 0 {
		return []string{text}
	}

	clauses := make([]string, 0, len(positions))
	for i, pos := range positions {
		start := pos[0]
		end := len(text)
		if i+1 < len(positions) {
			end = positions[i+1][0]
		}
		clauses = append(clauses, text[start:end])
	}
	return clauses
}

func splitByParagraphs(text string) []string {
	parts := paragraphBreak.Split(text, -1)
	paragraphs := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// isLikelyHeader reports whether a unit looks like a bare section
// header rather than clause content: short and entirely upper-case, or
// short, single-line, and not ending in a period.
func isLikelyHeader(text string) bool {
	text = strings.TrimSpace(text)

	if len(text) < 100 && isAllUpper(text) {
		return true
	}
	if len(text) < 80 && !strings.Contains(text, "\n") && !strings.HasSuffix(text, ".") {
		return true
	}
	return false
}

// isAllUpper reports whether the text contains at least one letter and
// no lower-case letters.
func isAllUpper(text string) bool {
	hasLetter := false
	for _, r := range text {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

// MergeShort greedily concatenates each clause with the next while the
// accumulated text is still below minLength, preserving order. The last
// accumulated unit is always emitted, even if it is still short.
func MergeShort(clauses []string, minLength int) []string {
	if len(clauses) == 0 {
		return nil
	}

	merged := make([]string, 0, len(clauses))
	current := clauses[0]
	for _, clause := range clauses[1:] {
		if len(current) < minLength {
			current = current + " " + clause
		} else {
			merged = append(merged, current)
			current = clause
		}
	}
	merged = append(merged, current)
	return merged
}
