package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"clauselens-backend/llm"
	"clauselens-backend/models"

	"go.uber.org/zap"
)

const maxSuggestions = 5

var suggestionsByType = map[models.ClauseType][]string{
	models.ClauseLiability: {
		"Request a cap on total liability (e.g., contract value or specific amount)",
		"Exclude indirect, consequential, or punitive damages",
		"Add mutual indemnification provisions",
		"Clarify what events trigger indemnification",
		"Request right to defend claims with own counsel",
	},
	models.ClauseTermination: {
		"Negotiate longer notice period (30-90 days)",
		"Request termination only 'for cause' with defined reasons",
		"Add severance or termination payment provisions",
		"Include dispute resolution before termination",
		"Clarify obligations upon termination",
	},
	models.ClauseNonCompete: {
		"Reduce duration to 6-12 months maximum",
		"Narrow geographic scope to specific regions",
		"Define 'competing business' more narrowly",
		"Add exceptions for existing commitments",
		"Include compensation for non-compete period",
	},
	models.ClauseIP: {
		"Exclude pre-existing intellectual property",
		"Limit assignment to work created during employment",
		"Add carve-out for personal projects",
		"Clarify ownership of derivative works",
		"Request license-back for your contributions",
	},
	models.ClauseConfidentiality: {
		"Define 'confidential information' more clearly",
		"Add exceptions for public information",
		"Limit duration of confidentiality obligations",
		"Exclude information already known",
		"Allow disclosure when legally required",
	},
	models.ClausePayment: {
		"Specify exact payment amounts and schedule",
		"Add late payment penalties or interest",
		"Include expense reimbursement terms",
		"Clarify payment method and currency",
		"Add cost-of-living or performance adjustments",
	},
}

var genericSuggestions = []string{
	"Request clearer definitions of key terms",
	"Add specific performance metrics or criteria",
	"Include dispute resolution procedures",
}

// SuggestNegotiationPoints produces at most five unique negotiation
// suggestions for a clause. Rule-based suggestions come from a fixed
// table per clause type; when a completion client is supplied and the
// clause risk is medium or high, the client is asked for additional
// points. Augmentation failures are skipped silently. Duplicates are
// removed case-insensitively, first occurrence wins.
func SuggestNegotiationPoints(ctx context.Context, clause *models.Clause, client llm.Client, logger *zap.Logger) []string {
	suggestions := ruleBasedSuggestions(clause.ClauseType)

	if client != nil && clause.RiskLevel != nil &&
		(*clause.RiskLevel == models.RiskMedium || *clause.RiskLevel == models.RiskHigh) {
		extra, err := llmSuggestions(ctx, clause, client)
		if err != nil {
			if logger != nil && !errors.Is(err, llm.ErrDisabled) {
				logger.Warn("llm suggestion generation failed", zap.Error(err))
			}
		} else {
			suggestions = append(suggestions, extra...)
		}
	}

	seen := make(map[string]bool, len(suggestions))
	unique := make([]string, 0, maxSuggestions)
	for _, s := range suggestions {
		key := strings.ToLower(s)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, s)
	}
	if len(unique) > maxSuggestions {
		unique = unique[:maxSuggestions]
	}
	return unique
}

func ruleBasedSuggestions(clauseType models.ClauseType) []string {
	table := genericSuggestions
	if s, ok := suggestionsByType[clauseType]; ok {
		table = s
	}
	out := make([]string, len(table))
	copy(out, table)
	return out
}

// llmSuggestions asks the completion client for additional negotiation
// points. The reply may be a bare JSON array or an object with a
// "suggestions" key; anything else counts as no suggestions.
func llmSuggestions(ctx context.Context, clause *models.Clause, client llm.Client) ([]string, error) {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: llm.SystemNegotiationExpert},
		{Role: llm.RoleUser, Content: llm.NegotiationPrompt(
			string(clause.ClauseType), clause.RiskLevelLabel(), clause.Text)},
	}

	raw, err := client.CompleteStructured(ctx, messages)
	if err != nil {
		return nil, err
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var wrapped struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		return wrapped.Suggestions, nil
	}
	return nil, nil
}
