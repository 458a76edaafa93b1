package models

// RiskLevel represents the categorical risk of a clause
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ClauseRisk is the full risk assessment for a single clause. It is
// computed on demand from the clause text and type; only score and level
// are persisted on the clause itself.
type ClauseRisk struct {
	ClauseID        string    `json:"clause_id"`
	Score           float64   `json:"score"`
	Level           RiskLevel `json:"level"`
	Reasons         []string  `json:"reasons"`
	Recommendations []string  `json:"recommendations"`
}
