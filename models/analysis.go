package models

// DefinedTerm is a term the contract defines, with the definition text
// that follows it.
type DefinedTerm struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// MonetaryAmount is a dollar amount with its surrounding context.
type MonetaryAmount struct {
	Amount  string `json:"amount"`
	Context string `json:"context"`
}

// TimePeriod is a duration, relative time, or frequency mention.
type TimePeriod struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

// KeyTerms groups the term-level extraction results for a contract.
type KeyTerms struct {
	DefinedTerms      []DefinedTerm    `json:"defined_terms"`
	MonetaryAmounts   []MonetaryAmount `json:"monetary_amounts"`
	ImportantEntities []string         `json:"important_entities"`
	TimePeriods       []TimePeriod     `json:"time_periods"`
	KeyConcepts       []string         `json:"key_concepts"`
}

// ContractParty is a party to the contract with its inferred role.
type ContractParty struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// ContractDate is a date or deadline mention with its context.
type ContractDate struct {
	Date    string `json:"date"`
	Type    string `json:"type"`
	Context string `json:"context"`
}

// Obligations groups requirements, prohibitions, rights, and
// responsibilities found in the contract.
type Obligations struct {
	MustDo           []string `json:"must_do"`
	MustNotDo        []string `json:"must_not_do"`
	Rights           []string `json:"rights"`
	Responsibilities []string `json:"responsibilities"`
}

// ContractAnalysis is the comprehensive rule-based analysis of a
// contract: key terms, parties, important dates, and obligations.
type ContractAnalysis struct {
	KeyTerms       KeyTerms        `json:"key_terms"`
	Parties        []ContractParty `json:"parties"`
	ImportantDates []ContractDate  `json:"important_dates"`
	Obligations    Obligations     `json:"obligations"`
}
