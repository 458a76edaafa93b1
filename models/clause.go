package models

// ClauseType represents the classification of a contract clause
type ClauseType string

const (
	ClauseTermination     ClauseType = "termination"
	ClauseLiability       ClauseType = "liability"
	ClausePayment         ClauseType = "payment"
	ClauseConfidentiality ClauseType = "confidentiality"
	ClauseIP              ClauseType = "ip"
	ClauseNonCompete      ClauseType = "non_compete"
	ClauseMisc            ClauseType = "misc"
	ClauseUnsure          ClauseType = "unsure"
)

// ClauseTypes lists every known clause type in canonical order.
// Ordering matters: the classifier and the type parser both iterate
// this slice, so ties and substring matches resolve the same way on
// every run.
var ClauseTypes = []ClauseType{
	ClauseTermination,
	ClauseLiability,
	ClausePayment,
	ClauseConfidentiality,
	ClauseIP,
	ClauseNonCompete,
	ClauseMisc,
	ClauseUnsure,
}

// NormalizeClauseType maps an externally supplied label to a canonical
// ClauseType. Unknown or empty labels normalize to ClauseUnsure. This is
// the only place labels from storage or request payloads are coerced;
// everything downstream works with the canonical values.
func NormalizeClauseType(label string) ClauseType {
	switch ClauseType(label) {
	case ClauseTermination, ClauseLiability, ClausePayment, ClauseConfidentiality,
		ClauseIP, ClauseNonCompete, ClauseMisc, ClauseUnsure:
		return ClauseType(label)
	}
	switch label {
	case "intellectual_property", "intellectual-property":
		return ClauseIP
	case "non-compete", "noncompete":
		return ClauseNonCompete
	case "miscellaneous":
		return ClauseMisc
	}
	return ClauseUnsure
}

// Clause represents a single clause in a contract
type Clause struct {
	ID          string     `json:"id"`
	ContractID  string     `json:"contract_id"`
	Index       int        `json:"index"`
	Text        string     `json:"text"`
	ClauseType  ClauseType `json:"clause_type"`
	RiskScore   *float64   `json:"risk_score,omitempty"`
	RiskLevel   *RiskLevel `json:"risk_level,omitempty"`
	EmbeddingID string     `json:"embedding_id,omitempty"`
}

// RiskLevelLabel returns the clause's risk level as a string, or
// "unknown" when the clause has not been scored yet.
func (c *Clause) RiskLevelLabel() string {
	if c.RiskLevel == nil {
		return "unknown"
	}
	return string(*c.RiskLevel)
}
