package llm

import "fmt"

// Prompt builders for the analysis pipeline. Each returns a complete
// user-role prompt; the matching system message lives next to it.

const (
	SystemDocumentAnalyzer  = "You are a legal document analyzer."
	SystemRiskAnalyst       = "You are a legal risk analyst."
	SystemNegotiationExpert = "You are a contract negotiation expert."
	SystemContractAssistant = "You are a legal contract assistant. Answer questions accurately based on the provided contract clauses."
)

// ClassificationPrompt asks the model to place a clause into one of the
// known categories. The category names must stay in sync with
// models.ClauseTypes: the response is parsed by scanning for them.
func ClassificationPrompt(clauseText string) string {
	return fmt.Sprintf(`Analyze the following contract clause and classify it into one of these categories:
- termination (clauses about ending the agreement)
- liability (clauses about legal responsibility, indemnification, damages)
- payment (clauses about compensation, fees, salary)
- confidentiality (clauses about non-disclosure, trade secrets)
- ip (intellectual property ownership, copyright, patents)
- non_compete (non-compete, non-solicitation agreements)
- misc (miscellaneous or general clauses)

Clause text:
%s

Respond with just the category name (lowercase, use underscores).
`, clauseText)
}

// RiskScoringPrompt asks for an independent risk assessment of a clause
// as a JSON object with a score and a list of reasons.
func RiskScoringPrompt(clauseType, clauseText string) string {
	return fmt.Sprintf(`Analyze this contract clause and assign a risk score from 0.0 (no risk) to 1.0 (high risk).

Clause type: %s
Clause text:
%s

Consider:
- Unfavorable terms
- Lack of protections
- Ambiguous language
- Potential for disputes
- One-sided obligations

Respond with a JSON object:
{
    "score": <float between 0.0 and 1.0>,
    "reasons": [<list of reasons for this score>]
}
`, clauseType, clauseText)
}

// NegotiationPrompt asks for additional negotiation points as a JSON
// array of strings.
func NegotiationPrompt(clauseType, riskLevel, clauseText string) string {
	return fmt.Sprintf(`You are a contract negotiation advisor. Review this clause and suggest specific negotiation points.

Clause type: %s
Risk level: %s
Clause text:
%s

Provide 3-5 specific, actionable negotiation suggestions that could reduce risk or improve terms.
Format as a JSON array of strings.
`, clauseType, riskLevel, clauseText)
}

// ContractQAPrompt builds the retrieval-augmented question-answering
// prompt from a context block of retrieved clauses and the user query.
func ContractQAPrompt(contextBlock, question string) string {
	return fmt.Sprintf(`You are a legal contract assistant. Answer the user's question about their contract based on the relevant clauses provided.

Relevant clauses:
%s

User question: %s

Provide a clear, accurate answer. If the answer isn't in the provided context, say so.
Be specific and cite relevant clause details when possible.
`, contextBlock, question)
}
