package analysis

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"clauselens-backend/llm"
	"clauselens-backend/models"

	"go.uber.org/zap"
)

// typePatterns pairs a clause type with its keyword patterns. The table
// is iterated in declaration order, which also resolves score ties:
// the first type to reach the maximum wins.
type typePatterns struct {
	clauseType models.ClauseType
	patterns   []*regexp.Regexp
}

var clausePatterns = []typePatterns{
	{models.ClauseTermination, compileAll(
		`\btermination\b`,
		`\bterminate\b`,
		`\bexpir(?:e|ation)\b`,
		`\bend(?:ing)?\s+(?:of|this)\s+agreement\b`,
		`\bnotice\s+(?:of|to)\s+terminate\b`,
		`\bcancellation\b`,
	)},
	{models.ClauseLiability, compileAll(
		`\bliability\b`,
		`\bliable\b`,
		`\bindemnif(?:y|ication)\b`,
		`\bhold\s+harmless\b`,
		`\bdamages\b`,
		`\blosses\b`,
		`\blimitation\s+of\s+liability\b`,
		`\bexculpation\b`,
	)},
	{models.ClausePayment, compileAll(
		`\bpayment\b`,
		`\bpay\b`,
		`\bcompensation\b`,
		`\bfee(?:s)?\b`,
		`\bsalary\b`,
		`\bwage(?:s)?\b`,
		`\bremuneration\b`,
		`\binvoice\b`,
		`\$\d+`,
		`\bamount\s+(?:of|due)\b`,
	)},
	{models.ClauseConfidentiality, compileAll(
		`\bconfidential(?:ity)?\b`,
		`\bnon-disclosure\b`,
		`\bproprietary\s+information\b`,
		`\btrade\s+secret(?:s)?\b`,
		`\bdisclosure\b`,
		`\bsecrecy\b`,
	)},
	{models.ClauseIP, compileAll(
		`\bintellectual\s+property\b`,
		`\bcopyright(?:s)?\b`,
		`\bpatent(?:s)?\b`,
		`\btrademark(?:s)?\b`,
		`\bownership\s+of\s+work\b`,
		`\binvention(?:s)?\b`,
		`\bwork\s+product\b`,
	)},
	{models.ClauseNonCompete, compileAll(
		`\bnon-compete\b`,
		`\bnon\s+compete\b`,
		`\bcompete\b`,
		`\brestrictive\s+covenant\b`,
		`\bnon-solicitation\b`,
		`\bsolicitation\b`,
	)},
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

// Classify assigns a clause type by keyword pattern scoring. Each type
// scores the total number of pattern match occurrences in the
// lower-cased text; the strictly highest total wins and a zero maximum
// yields ClauseMisc.
func Classify(text string) models.ClauseType {
	lower := strings.ToLower(text)

	best := models.ClauseMisc
	bestScore := 0
	for _, tp := range clausePatterns {
		score := 0
		for _, pattern := range tp.patterns {
			score += len(pattern.FindAllStringIndex(lower, -1))
		}
		if score > bestScore {
			bestScore = score
			best = tp.clauseType
		}
	}
	return best
}

// ClassifyWithClient runs rule-based classification and, when the
// result is ambiguous (misc or unsure), escalates to the completion
// client. Escalation failures are swallowed: classification never
// fails, the rule-based result stands.
func ClassifyWithClient(ctx context.Context, text string, client llm.Client, logger *zap.Logger) models.ClauseType {
	clauseType := Classify(text)
	if client == nil {
		return clauseType
	}
	if clauseType != models.ClauseMisc && clauseType != models.ClauseUnsure {
		return clauseType
	}

	refined, err := classifyWithLLM(ctx, text, client)
	if err != nil {
		if logger != nil && !errors.Is(err, llm.ErrDisabled) {
			logger.Warn("llm classification failed, keeping rule-based result", zap.Error(err))
		}
		return clauseType
	}
	return refined
}

// classifyWithLLM asks the completion client for a category and parses
// the label out of the reply by scanning for each canonical type string
// in canonical order.
func classifyWithLLM(ctx context.Context, text string, client llm.Client) (models.ClauseType, error) {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: llm.SystemDocumentAnalyzer},
		{Role: llm.RoleUser, Content: llm.ClassificationPrompt(text)},
	}

	response, err := client.Complete(ctx, messages, 0.0, 200)
	if err != nil {
		return models.ClauseMisc, err
	}

	lower := strings.ToLower(response)
	for _, clauseType := range models.ClauseTypes {
		if strings.Contains(lower, string(clauseType)) {
			return clauseType, nil
		}
	}
	return models.ClauseMisc, nil
}
