package service

import (
	"fmt"
	"strings"

	"clauselens-backend/index"
	"clauselens-backend/models"
)

// NoResultsAnswer is returned whenever retrieval comes back empty. A
// question with no matching clauses is a designed terminal state, not
// an error.
const NoResultsAnswer = "I couldn't find relevant clauses to answer your question. Try rephrasing or ask about specific topics like termination, liability, or payment."

// closingTip ends every deterministic answer.
const closingTip = "Tip: For contracts with significant obligations or high-risk clauses, always consult with a qualified attorney before signing."

const snippetLength = 200

// maxFallbackResults bounds how many retrieved results are shown when
// none of them match the selected topic's signals.
const maxFallbackResults = 3

// topicBucket describes one answer category. Triggers are matched
// against the query, signals against retrieved clause text; clause
// types are an alternative signal. The final bucket has no triggers and
// catches everything.
type topicBucket struct {
	title         string
	triggers      []string
	signals       []string
	types         []models.ClauseType
	showRiskLevel bool
}

// topicBuckets is ordered: the first bucket whose trigger appears in
// the query wins.
var topicBuckets = []topicBucket{
	{
		title:    "Obligations and Responsibilities",
		triggers: []string{"obligation", "responsibilit", "duties", "duty", "required to", "have to"},
		signals:  []string{"shall", "must", "agrees to", "responsible", "obligation"},
	},
	{
		title:    "Payment Terms",
		triggers: []string{"payment", "pay", "salary", "compensation", "fee", "invoice", "money", "cost"},
		signals:  []string{"payment", "pay", "fee", "salary", "compensation", "invoice", "$"},
		types:    []models.ClauseType{models.ClausePayment},
	},
	{
		title:    "Termination Provisions",
		triggers: []string{"termination", "terminate", "cancel", "end the", "quit", "leave"},
		signals:  []string{"terminat", "cancel", "notice", "expir"},
		types:    []models.ClauseType{models.ClauseTermination},
	},
	{
		title:         "Liability and Indemnification",
		triggers:      []string{"liability", "liable", "indemn", "damages", "sue", "lawsuit"},
		signals:       []string{"liabilit", "liable", "indemn", "damages", "harmless"},
		types:         []models.ClauseType{models.ClauseLiability},
		showRiskLevel: true,
	},
	{
		title:    "Dates and Deadlines",
		triggers: []string{"date", "deadline", "when", "how long", "duration", "period"},
		signals:  []string{"day", "month", "year", "date", "within", "period", "deadline"},
	},
	{
		title:    "Intellectual Property",
		triggers: []string{"intellectual property", "copyright", "patent", "invention", "who owns", "ownership"},
		signals:  []string{"intellectual property", "copyright", "patent", "invention", "ownership", "work product"},
		types:    []models.ClauseType{models.ClauseIP},
	},
	{
		title: "Relevant Contract Provisions",
	},
}

// ComposeAnswer deterministically renders an answer for a query from
// retrieved results. It never fails: empty retrieval yields
// NoResultsAnswer, and the catch-all topic guarantees a bucket match.
func ComposeAnswer(query string, results []index.Result) string {
	if len(results) == 0 {
		return NoResultsAnswer
	}

	bucket := selectBucket(query)
	selected := selectResults(bucket, results)

	var b strings.Builder
	b.WriteString(bucket.title + "\n\n")
	for i, result := range selected {
		b.WriteString(fmt.Sprintf("%d. [%s] %s", i+1, result.Metadata.ClauseType, truncateText(result.Text, snippetLength)))
		if bucket.showRiskLevel {
			b.WriteString(fmt.Sprintf(" (risk: %s)", result.Metadata.RiskLevel))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n" + closingTip)
	return b.String()
}

// selectBucket returns the first bucket with a trigger present in the
// lower-cased query. The final catch-all bucket always matches.
func selectBucket(query string) *topicBucket {
	lower := strings.ToLower(query)
	for i := range topicBuckets {
		bucket := &topicBuckets[i]
		if len(bucket.triggers) == 0 {
			return bucket
		}
		for _, trigger := range bucket.triggers {
			if strings.Contains(lower, trigger) {
				return bucket
			}
		}
	}
	return &topicBuckets[len(topicBuckets)-1]
}

// selectResults keeps the retrieved results that carry the bucket's
// signals or clause types, preserving rank order. When nothing
// matches, the first few retrieved results are used instead, so the
// answer always cites something.
func selectResults(bucket *topicBucket, results []index.Result) []index.Result {
	matched := make([]index.Result, 0, len(results))
	for _, result := range results {
		if bucketMatches(bucket, &result) {
			matched = append(matched, result)
		}
	}
	if len(matched) > 0 {
		return matched
	}
	if len(results) > maxFallbackResults {
		return results[:maxFallbackResults]
	}
	return results
}

func bucketMatches(bucket *topicBucket, result *index.Result) bool {
	for _, t := range bucket.types {
		if result.Metadata.ClauseType == t {
			return true
		}
	}
	lower := strings.ToLower(result.Text)
	for _, signal := range bucket.signals {
		if strings.Contains(lower, signal) {
			return true
		}
	}
	return false
}

// truncateText shortens to limit runes, not bytes, so multi-byte
// characters are never split.
func truncateText(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
