package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"clauselens-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clauseOf(clauseType models.ClauseType, text string) *models.Clause {
	return &models.Clause{
		ID:         "c1",
		ContractID: "contract1",
		Text:       text,
		ClauseType: clauseType,
	}
}

func TestScoreRisk_LiabilityWorstCase(t *testing.T) {
	clause := clauseOf(models.ClauseLiability,
		"The Contractor assumes unlimited liability and shall indemnify and hold harmless the Company against all claims.")

	score, reasons := ScoreRisk(clause)

	// 0.6 base + 0.2 unlimited + 0.15 indemnification + 0.1 hold
	// harmless + 0.1 no limitation language.
	assert.InDelta(t, 1.0, score, 1e-9)
	assert.Contains(t, reasons, "Contains 'unlimited' liability")
	assert.Contains(t, reasons, "Includes indemnification obligations")
	assert.Contains(t, reasons, "Contains hold harmless clause")
	assert.Contains(t, reasons, "No liability limitation mentioned")
	assert.Equal(t, models.RiskHigh, ScoreToLevel(score))
}

func TestScoreRisk_LiabilityWithCap(t *testing.T) {
	clause := clauseOf(models.ClauseLiability,
		"Liability under this agreement is limited to the total fees paid in the preceding twelve months.")

	score, reasons := ScoreRisk(clause)
	assert.InDelta(t, 0.6, score, 1e-9)
	assert.NotContains(t, reasons, "No liability limitation mentioned")
}

func TestScoreRisk_TerminationImmediateWithoutCause(t *testing.T) {
	clause := clauseOf(models.ClauseTermination,
		"The Company may terminate this agreement immediately and without cause upon 3 days notice.")

	score, reasons := ScoreRisk(clause)

	// 0.4 base + 0.25 very short notice + 0.2 immediate + 0.15 without cause.
	assert.InDelta(t, 1.0, score, 1e-9)
	assert.Contains(t, reasons, "Very short notice period (3 days)")
	assert.Contains(t, reasons, "Allows immediate termination")
	assert.Contains(t, reasons, "Allows termination without cause")
}

func TestScoreRisk_TerminationShortNotice(t *testing.T) {
	clause := clauseOf(models.ClauseTermination,
		"Either party may terminate this agreement upon 14 days written notice.")

	score, reasons := ScoreRisk(clause)
	assert.InDelta(t, 0.5, score, 1e-9)
	assert.Contains(t, reasons, "Short notice period (14 days)")
}

func TestScoreRisk_NonCompeteYearsConvertToMonths(t *testing.T) {
	clause := clauseOf(models.ClauseNonCompete,
		"The Employee shall not compete worldwide for a period of 3 years following termination of employment.")

	score, reasons := ScoreRisk(clause)

	// 0.5 base + 0.3 long duration + 0.2 global scope.
	assert.InDelta(t, 1.0, score, 1e-9)
	assert.Contains(t, reasons, "Very long non-compete duration (36 months)")
	assert.Contains(t, reasons, "Global or worldwide scope")
}

func TestScoreRisk_PaymentUnpaid(t *testing.T) {
	clause := clauseOf(models.ClausePayment,
		"The Intern acknowledges that this is a volunteer position with no compensation of any kind.")

	score, reasons := ScoreRisk(clause)
	assert.InDelta(t, 0.6, score, 1e-9)
	assert.Contains(t, reasons, "Unpaid or volunteer position")
	assert.Equal(t, models.RiskMedium, ScoreToLevel(score))
}

func TestScoreRisk_RedFlagsApplyToAnyType(t *testing.T) {
	clause := clauseOf(models.ClauseMisc,
		"The Employee grants a perpetual, irrevocable license and agrees to waive any moral rights in the materials.")

	score, reasons := ScoreRisk(clause)

	// 0.1 base + 0.1 irrevocable + 0.15 perpetual + 0.1 waiver.
	assert.InDelta(t, 0.45, score, 1e-9)
	assert.Contains(t, reasons, "Contains irrevocable terms")
	assert.Contains(t, reasons, "Perpetual/indefinite terms")
	assert.Contains(t, reasons, "Contains rights waiver")
}

func TestScoreRisk_StandardClauseReason(t *testing.T) {
	clause := clauseOf(models.ClauseConfidentiality,
		"Each party shall protect the other party's confidential information with reasonable care.")

	score, reasons := ScoreRisk(clause)
	assert.InDelta(t, 0.3, score, 1e-9)
	require.Len(t, reasons, 1)
	assert.Equal(t, "Standard confidentiality clause", reasons[0])
}

func TestScoreRisk_Deterministic(t *testing.T) {
	clause := clauseOf(models.ClauseLiability,
		"The Contractor shall indemnify the Company against third party claims without limitation of liability.")

	score1, reasons1 := ScoreRisk(clause)
	score2, reasons2 := ScoreRisk(clause)
	assert.Equal(t, score1, score2)
	assert.Equal(t, reasons1, reasons2)
}

func TestScoreToLevel_Boundaries(t *testing.T) {
	assert.Equal(t, models.RiskLow, ScoreToLevel(0.0))
	assert.Equal(t, models.RiskLow, ScoreToLevel(0.32))
	assert.Equal(t, models.RiskMedium, ScoreToLevel(0.33))
	assert.Equal(t, models.RiskMedium, ScoreToLevel(0.65))
	assert.Equal(t, models.RiskHigh, ScoreToLevel(0.66))
	assert.Equal(t, models.RiskHigh, ScoreToLevel(1.0))
}

func TestScoreRiskWithClient_BlendsScores(t *testing.T) {
	clause := clauseOf(models.ClauseConfidentiality,
		"Each party shall protect the other party's confidential information with reasonable care.")
	client := &stubClient{structured: json.RawMessage(`{"score": 0.9, "reasons": ["One-sided obligations"]}`)}

	score, reasons := ScoreRiskWithClient(context.Background(), clause, client, nil)

	// 0.7*0.9 + 0.3*0.3 = 0.72.
	assert.InDelta(t, 0.72, score, 1e-9)
	assert.Contains(t, reasons, "Standard confidentiality clause")
	assert.Contains(t, reasons, "One-sided obligations")
}

func TestScoreRiskWithClient_FailureFallsBack(t *testing.T) {
	clause := clauseOf(models.ClauseConfidentiality,
		"Each party shall protect the other party's confidential information with reasonable care.")
	client := &stubClient{err: errors.New("upstream unavailable")}

	score, reasons := ScoreRiskWithClient(context.Background(), clause, client, nil)
	assert.InDelta(t, 0.3, score, 1e-9)
	assert.Equal(t, []string{"Standard confidentiality clause"}, reasons)
}

func TestScoreRiskWithClient_NilClient(t *testing.T) {
	clause := clauseOf(models.ClausePayment,
		"Invoices are payable within thirty days of receipt by bank transfer.")

	withClient, _ := ScoreRiskWithClient(context.Background(), clause, nil, nil)
	ruleOnly, _ := ScoreRisk(clause)
	assert.Equal(t, ruleOnly, withClient)
}
