package models

// ClauseSummary is a trimmed view of a retrieved clause returned
// alongside a chat answer.
type ClauseSummary struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	Type      ClauseType `json:"type"`
	RiskLevel string     `json:"risk_level"`
}

// ChatAnswer is the result of answering a question about a contract.
type ChatAnswer struct {
	Answer          string          `json:"answer"`
	RelevantClauses []ClauseSummary `json:"relevant_clauses"`
}
