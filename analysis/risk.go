package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"clauselens-backend/llm"
	"clauselens-backend/models"

	"go.uber.org/zap"
)

// Risk tuning parameters. Base scores and the LLM blend weights are
// heuristic constants, not derived from any model; adjust with care and
// keep the score→level boundaries in ScoreToLevel untouched.
const (
	llmScoreWeight  = 0.7
	ruleScoreWeight = 0.3
)

var baseRiskByType = map[models.ClauseType]float64{
	models.ClauseLiability:       0.6,
	models.ClauseNonCompete:      0.5,
	models.ClauseTermination:     0.4,
	models.ClauseIP:              0.4,
	models.ClauseConfidentiality: 0.3,
	models.ClausePayment:         0.2,
	models.ClauseMisc:            0.1,
	models.ClauseUnsure:          0.2,
}

var (
	reUnlimited       = regexp.MustCompile(`\bunlimited\b`)
	reIndemnification = regexp.MustCompile(`\bindemnif(?:y|ication)\b`)
	reHoldHarmless    = regexp.MustCompile(`\bhold\s+harmless\b`)
	reLimitation      = regexp.MustCompile(`\blimit(?:ed|ation)\b`)
	reNoticePeriod    = regexp.MustCompile(`(\d+)\s*(?:day|hour)`)
	reImmediate       = regexp.MustCompile(`\bimmediate(?:ly)?\b`)
	reWithoutCause    = regexp.MustCompile(`\bwithout\s+cause\b`)
	reDuration        = regexp.MustCompile(`(\d+)\s*(?:year|month)`)
	reGlobalScope     = regexp.MustCompile(`\bglobal(?:ly)?\b|\bworldwide\b`)
	reBroadAssignment = regexp.MustCompile(`\ball\s+(?:work|invention|creation)`)
	rePreExisting     = regexp.MustCompile(`\bpre-existing\b`)
	reNoPay           = regexp.MustCompile(`\bno\s+(?:pay|compensation|salary)\b`)
	reAtWill          = regexp.MustCompile(`\bat\s+will\b`)
	reIrrevocable     = regexp.MustCompile(`\birrevocable\b`)
	rePerpetual       = regexp.MustCompile(`\bperpetual\b`)
	reWaive           = regexp.MustCompile(`\bwaive\b`)
)

// ScoreRisk computes the rule-based risk score and its reasons for a
// clause. Pure function of the clause text and type: calling it twice
// on an unchanged clause returns identical results.
func ScoreRisk(clause *models.Clause) (float64, []string) {
	lower := strings.ToLower(clause.Text)
	score := 0.2
	if base, ok := baseRiskByType[clause.ClauseType]; ok {
		score = base
	}
	var reasons []string

	switch clause.ClauseType {
	case models.ClauseLiability:
		if reUnlimited.MatchString(lower) {
			score += 0.2
			reasons = append(reasons, "Contains 'unlimited' liability")
		}
		if reIndemnification.MatchString(lower) {
			score += 0.15
			reasons = append(reasons, "Includes indemnification obligations")
		}
		if reHoldHarmless.MatchString(lower) {
			score += 0.1
			reasons = append(reasons, "Contains hold harmless clause")
		}
		if !reLimitation.MatchString(lower) {
			score += 0.1
			reasons = append(reasons, "No liability limitation mentioned")
		}

	case models.ClauseTermination:
		if m := reNoticePeriod.FindStringSubmatch(lower); m != nil {
			days, err := strconv.Atoi(m[1])
			if err == nil {
				if days < 7 {
					score += 0.25
					reasons = append(reasons, fmt.Sprintf("Very short notice period (%d days)", days))
				} else if days < 30 {
					score += 0.1
					reasons = append(reasons, fmt.Sprintf("Short notice period (%d days)", days))
				}
			}
		}
		if reImmediate.MatchString(lower) {
			score += 0.2
			reasons = append(reasons, "Allows immediate termination")
		}
		if reWithoutCause.MatchString(lower) {
			score += 0.15
			reasons = append(reasons, "Allows termination without cause")
		}

	case models.ClauseNonCompete:
		if m := reDuration.FindStringSubmatch(lower); m != nil {
			value, err := strconv.Atoi(m[1])
			if err == nil {
				months := value
				if strings.Contains(lower, "year") {
					months = value * 12
				}
				if months > 24 {
					score += 0.3
					reasons = append(reasons, fmt.Sprintf("Very long non-compete duration (%d months)", months))
				} else if months > 12 {
					score += 0.15
					reasons = append(reasons, fmt.Sprintf("Long non-compete duration (%d months)", months))
				}
			}
		}
		if reGlobalScope.MatchString(lower) {
			score += 0.2
			reasons = append(reasons, "Global or worldwide scope")
		}

	case models.ClauseIP:
		if reBroadAssignment.MatchString(lower) {
			score += 0.15
			reasons = append(reasons, "Broad IP assignment clause")
		}
		if !rePreExisting.MatchString(lower) {
			score += 0.1
			reasons = append(reasons, "No mention of pre-existing IP")
		}

	case models.ClausePayment:
		if reNoPay.MatchString(lower) {
			score += 0.4
			reasons = append(reasons, "Unpaid or volunteer position")
		}
		if reAtWill.MatchString(lower) {
			score += 0.1
			reasons = append(reasons, "At-will payment terms")
		}
	}

	// Red flags regardless of clause type.
	if reIrrevocable.MatchString(lower) {
		score += 0.1
		reasons = append(reasons, "Contains irrevocable terms")
	}
	if rePerpetual.MatchString(lower) {
		score += 0.15
		reasons = append(reasons, "Perpetual/indefinite terms")
	}
	if reWaive.MatchString(lower) {
		score += 0.1
		reasons = append(reasons, "Contains rights waiver")
	}

	if score > 1.0 {
		score = 1.0
	}

	if len(reasons) == 0 {
		reasons = append(reasons, fmt.Sprintf("Standard %s clause", clause.ClauseType))
	}
	return score, reasons
}

// ScoreRiskWithClient computes the rule-based assessment and, when a
// completion client is supplied, blends in an LLM score
// (llmScoreWeight*llm + ruleScoreWeight*rule) with the LLM reasons
// appended. Any enhancement failure leaves the rule-only result in
// place; risk scoring never fails.
func ScoreRiskWithClient(ctx context.Context, clause *models.Clause, client llm.Client, logger *zap.Logger) (float64, []string) {
	score, reasons := ScoreRisk(clause)
	if client == nil {
		return score, reasons
	}

	llmScore, llmReasons, err := scoreRiskWithLLM(ctx, clause, client)
	if err != nil {
		if logger != nil && !errors.Is(err, llm.ErrDisabled) {
			logger.Warn("llm risk scoring failed, using rule-based score", zap.Error(err))
		}
		return score, reasons
	}

	blended := llmScoreWeight*llmScore + ruleScoreWeight*score
	if blended > 1.0 {
		blended = 1.0
	}
	if blended < 0.0 {
		blended = 0.0
	}
	return blended, append(reasons, llmReasons...)
}

func scoreRiskWithLLM(ctx context.Context, clause *models.Clause, client llm.Client) (float64, []string, error) {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: llm.SystemRiskAnalyst},
		{Role: llm.RoleUser, Content: llm.RiskScoringPrompt(string(clause.ClauseType), clause.Text)},
	}

	raw, err := client.CompleteStructured(ctx, messages)
	if err != nil {
		return 0, nil, err
	}

	var result struct {
		Score   float64  `json:"score"`
		Reasons []string `json:"reasons"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return 0, nil, fmt.Errorf("failed to parse llm risk response: %w", err)
	}
	return result.Score, result.Reasons, nil
}

// ScoreToLevel maps a numeric risk score onto the three risk levels.
// The boundaries are part of the contract with persisted data: a score
// below 0.33 is low, below 0.66 medium, anything else high.
func ScoreToLevel(score float64) models.RiskLevel {
	switch {
	case score < 0.33:
		return models.RiskLow
	case score < 0.66:
		return models.RiskMedium
	default:
		return models.RiskHigh
	}
}
