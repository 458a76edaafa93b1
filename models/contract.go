package models

import (
	"time"
)

// Contract represents an uploaded legal contract document
type Contract struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	UploadedAt       time.Time `json:"uploaded_at"`
	OriginalFilename string    `json:"original_filename"`
	Text             string    `json:"text"`
	Clauses          []Clause  `json:"clauses"`
}

// ContractMetadata is a lightweight view of a contract used in listings
type ContractMetadata struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	UploadedAt       time.Time `json:"uploaded_at"`
	OriginalFilename string    `json:"original_filename"`
	ClauseCount      int       `json:"clause_count"`
	HighRiskCount    int       `json:"high_risk_count"`
	MediumRiskCount  int       `json:"medium_risk_count"`
	LowRiskCount     int       `json:"low_risk_count"`
}

// Metadata builds the listing view for a contract, counting clauses per
// risk level.
func (c *Contract) Metadata() ContractMetadata {
	meta := ContractMetadata{
		ID:               c.ID,
		Title:            c.Title,
		UploadedAt:       c.UploadedAt,
		OriginalFilename: c.OriginalFilename,
		ClauseCount:      len(c.Clauses),
	}
	for i := range c.Clauses {
		if c.Clauses[i].RiskLevel == nil {
			continue
		}
		switch *c.Clauses[i].RiskLevel {
		case RiskHigh:
			meta.HighRiskCount++
		case RiskMedium:
			meta.MediumRiskCount++
		case RiskLow:
			meta.LowRiskCount++
		}
	}
	return meta
}

// FindClause returns the clause with the given id, or nil if the
// contract has no such clause.
func (c *Contract) FindClause(clauseID string) *Clause {
	for i := range c.Clauses {
		if c.Clauses[i].ID == clauseID {
			return &c.Clauses[i]
		}
	}
	return nil
}
