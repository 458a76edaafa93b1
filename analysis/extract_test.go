package analysis

import (
	"testing"

	"clauselens-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const servicesContract = `SERVICES AGREEMENT

This agreement is entered into between Acme Widgets LLC and John Smith, referred to as "Consultant".

"Confidential Information" means any non-public business information disclosed by either party.

The Company shall pay the Consultant $5,000 per month for the services rendered.

Effective date: January 15, 2024. The agreement has a term of 12 months and shall expire on 01/15/2025.

The Consultant shall deliver monthly written reports describing the work performed during each period.

The Consultant shall maintain strict confidentiality and shall not disclose any Confidential Information to third parties without prior written consent.

The Company reserves the right to audit the records of the Consultant upon reasonable notice.

The Consultant is responsible for maintaining accurate records of all billable hours and expenses.`

func TestExtractKeyTerms(t *testing.T) {
	terms := ExtractKeyTerms(servicesContract)

	require.NotEmpty(t, terms.DefinedTerms)
	assert.Equal(t, "Confidential Information", terms.DefinedTerms[0].Term)
	assert.Contains(t, terms.DefinedTerms[0].Definition, "non-public")

	require.NotEmpty(t, terms.MonetaryAmounts)
	assert.Equal(t, "$5,000", terms.MonetaryAmounts[0].Amount)
	assert.Contains(t, terms.MonetaryAmounts[0].Context, "month")

	require.NotEmpty(t, terms.ImportantEntities)
	assert.True(t, len(terms.ImportantEntities) <= maxImportantEntities)

	assert.Contains(t, terms.TimePeriods, models.TimePeriod{Text: "12 months", Type: "duration"})
	assert.Contains(t, terms.TimePeriods, models.TimePeriod{Text: "monthly", Type: "frequency"})

	assert.Contains(t, terms.KeyConcepts, "Confidentiality (1x)")
}

func TestExtractKeyTerms_FrequentTerms(t *testing.T) {
	terms := ExtractKeyTerms(servicesContract)

	var frequent []string
	for _, term := range terms.DefinedTerms {
		if term.Definition == "Frequent term in contract" {
			frequent = append(frequent, term.Term)
		}
	}
	assert.Contains(t, frequent, "The Consultant")
}

func TestExtractKeyTerms_MonetaryWithoutContext(t *testing.T) {
	terms := ExtractKeyTerms("A one-time fee of $250.00.")

	require.NotEmpty(t, terms.MonetaryAmounts)
	assert.Equal(t, "$250.00", terms.MonetaryAmounts[0].Amount)
	assert.Equal(t, "Not specified", terms.MonetaryAmounts[0].Context)
}

func TestIdentifyParties(t *testing.T) {
	parties := IdentifyParties(servicesContract)

	require.GreaterOrEqual(t, len(parties), 2)
	assert.Equal(t, models.ContractParty{Name: "Acme Widgets LLC", Role: "Party 1"}, parties[0])
	assert.Equal(t, models.ContractParty{Name: "John Smith", Role: "Party 2"}, parties[1])
	assert.LessOrEqual(t, len(parties), maxParties)
}

func TestDeterminePartyRole(t *testing.T) {
	text := `This agreement is made between Globex Corporation, the employer, and Jane Doe.`

	assert.Equal(t, "Employer/Company", determinePartyRole(text, "Globex Corporation"))
	assert.Equal(t, "Party", determinePartyRole(text, "Jane Doe"))
}

func TestExtractImportantDates(t *testing.T) {
	dates := ExtractImportantDates(servicesContract)
	require.NotEmpty(t, dates)
	assert.LessOrEqual(t, len(dates), maxImportantDates)

	byType := make(map[string][]models.ContractDate)
	for _, d := range dates {
		byType[d.Type] = append(byType[d.Type], d)
	}

	require.NotEmpty(t, byType["date"])
	assert.Equal(t, "01/15/2025", byType["date"][0].Date)
	assert.Contains(t, byType["date"][0].Context, "expire")

	require.NotEmpty(t, byType["effective_date"])
	assert.Equal(t, "January 15", byType["effective_date"][0].Date)

	require.NotEmpty(t, byType["term"])
	assert.Equal(t, "12 months", byType["term"][0].Date)
}

func TestExtractObligations(t *testing.T) {
	obligations := ExtractObligations(servicesContract)

	require.NotEmpty(t, obligations.MustDo)
	assert.Contains(t, obligations.MustDo[0], "pay the Consultant")

	require.NotEmpty(t, obligations.MustNotDo)
	assert.Contains(t, obligations.MustNotDo[0], "disclose")

	require.NotEmpty(t, obligations.Rights)
	assert.Contains(t, obligations.Rights[0], "audit the records")

	require.NotEmpty(t, obligations.Responsibilities)
	assert.Contains(t, obligations.Responsibilities[0], "maintaining accurate records")
}

func TestExtractObligations_LengthFilter(t *testing.T) {
	// Captures shorter than the minimum are dropped entirely.
	obligations := ExtractObligations("The vendor shall pay on time.")
	assert.Empty(t, obligations.MustDo)
}
