package service

import (
	"context"
	"testing"

	"clauselens-backend/embedding"
	"clauselens-backend/index"
	"clauselens-backend/llm"
	"clauselens-backend/models"
	"clauselens-backend/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleContract = `EMPLOYMENT AGREEMENT

1. The Company shall pay the Employee a salary of $5,000 per month, payable on the last business day of each month.

2. The Company may terminate this agreement immediately and without cause upon 3 days notice to the Employee.

3. The Employee assumes unlimited liability and shall indemnify and hold harmless the Company against all claims and damages.

4. The Employee shall keep all proprietary information and trade secrets strictly confidential during and after employment.`

type serviceFixture struct {
	analysisService *AnalysisService
	chatService     *ChatService
	repo            *repository.ContractRepository
	idx             index.Index
}

func newFixture(t *testing.T, client llm.Client) *serviceFixture {
	t.Helper()

	repo, err := repository.NewContractRepository(t.TempDir())
	require.NoError(t, err)

	idx := index.NewMemory(embedding.NewLocalEmbedder(0))

	analysisService := NewAnalysisService(
		WithContractRepository(repo),
		WithIndex(idx),
		WithLLMClient(client),
	)
	chatService := NewChatService(
		ChatWithContractRepository(repo),
		ChatWithIndex(idx),
		ChatWithLLMClient(client),
	)

	return &serviceFixture{
		analysisService: analysisService,
		chatService:     chatService,
		repo:            repo,
		idx:             idx,
	}
}

func TestProcessUpload_FullPipeline(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	contract, risks, err := f.analysisService.ProcessUpload(ctx, "Employment Agreement", "employment.txt", sampleContract)
	require.NoError(t, err)
	require.Len(t, contract.Clauses, 4)
	require.Len(t, risks, 4)

	types := make([]models.ClauseType, 0, 4)
	for _, clause := range contract.Clauses {
		types = append(types, clause.ClauseType)
		require.NotNil(t, clause.RiskScore)
		require.NotNil(t, clause.RiskLevel)
		assert.Equal(t, clause.ID, clause.EmbeddingID)
	}
	assert.Equal(t, []models.ClauseType{
		models.ClausePayment,
		models.ClauseTermination,
		models.ClauseLiability,
		models.ClauseConfidentiality,
	}, types)

	// The liability clause stacks every adjustment and lands high.
	assert.Equal(t, models.RiskHigh, risks[2].Level)
	assert.NotEmpty(t, risks[2].Recommendations)

	// Persisted and indexed.
	stored, err := f.repo.Load(contract.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Len(t, stored.Clauses, 4)

	entry, err := f.idx.GetByID(ctx, contract.Clauses[0].ID)
	require.NoError(t, err)
	require.NotNil(t, entry)
}

func TestProcessUpload_EmptyText(t *testing.T) {
	f := newFixture(t, nil)

	contract, risks, err := f.analysisService.ProcessUpload(context.Background(), "Empty", "empty.txt", "")
	require.NoError(t, err)
	assert.Empty(t, contract.Clauses)
	assert.Empty(t, risks)
}

func TestProcessUpload_Deterministic(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	first, firstRisks, err := f.analysisService.ProcessUpload(ctx, "A", "a.txt", sampleContract)
	require.NoError(t, err)
	second, secondRisks, err := f.analysisService.ProcessUpload(ctx, "A", "a.txt", sampleContract)
	require.NoError(t, err)

	require.Len(t, secondRisks, len(firstRisks))
	for i := range firstRisks {
		assert.Equal(t, firstRisks[i].Score, secondRisks[i].Score)
		assert.Equal(t, firstRisks[i].Reasons, secondRisks[i].Reasons)
		assert.Equal(t, first.Clauses[i].ClauseType, second.Clauses[i].ClauseType)
	}
}

func TestReanalyzeClause(t *testing.T) {
	f := newFixture(t, llm.NewNoneClient())
	ctx := context.Background()

	contract, _, err := f.analysisService.ProcessUpload(ctx, "A", "a.txt", sampleContract)
	require.NoError(t, err)

	target := contract.Clauses[1]
	newText := "Either party may terminate this agreement upon 90 days written notice for cause."

	updated, err := f.analysisService.ReanalyzeClause(ctx, contract.ID, target.ID, newText)
	require.NoError(t, err)
	assert.Equal(t, newText, updated.Text)
	assert.Equal(t, models.ClauseTermination, updated.ClauseType)
	require.NotNil(t, updated.RiskScore)
	assert.Less(t, *updated.RiskScore, *target.RiskScore)

	// The stored contract reflects the change.
	stored, err := f.repo.Load(contract.ID)
	require.NoError(t, err)
	assert.Equal(t, newText, stored.FindClause(target.ID).Text)
}

func TestReanalyzeClause_NotFound(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.analysisService.ReanalyzeClause(ctx, "missing", "whatever", "text")
	assert.ErrorIs(t, err, ErrContractNotFound)

	contract, _, err := f.analysisService.ProcessUpload(ctx, "A", "a.txt", sampleContract)
	require.NoError(t, err)

	_, err = f.analysisService.ReanalyzeClause(ctx, contract.ID, "missing", "text")
	assert.ErrorIs(t, err, ErrClauseNotFound)
}

func TestDeleteContract(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	contract, _, err := f.analysisService.ProcessUpload(ctx, "A", "a.txt", sampleContract)
	require.NoError(t, err)

	deleted, err := f.analysisService.DeleteContract(ctx, contract.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	stored, err := f.repo.Load(contract.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)

	results, err := f.idx.Search(ctx, contract.ID, "termination", 5)
	require.NoError(t, err)
	assert.Empty(t, results)

	deleted, err = f.analysisService.DeleteContract(ctx, contract.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestRiskSummary(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	contract, uploadRisks, err := f.analysisService.ProcessUpload(ctx, "A", "a.txt", sampleContract)
	require.NoError(t, err)

	stored, risks, err := f.analysisService.RiskSummary(ctx, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, contract.ID, stored.ID)
	require.Len(t, risks, len(uploadRisks))

	for i := range risks {
		assert.Equal(t, uploadRisks[i].Score, risks[i].Score)
		assert.Equal(t, uploadRisks[i].Level, risks[i].Level)
		assert.Equal(t, uploadRisks[i].Reasons, risks[i].Reasons)
	}
}

func TestRiskSummary_NotFound(t *testing.T) {
	f := newFixture(t, nil)

	_, _, err := f.analysisService.RiskSummary(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrContractNotFound)
}

func TestComprehensiveAnalysis(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	contract, _, err := f.analysisService.ProcessUpload(ctx, "A", "a.txt", sampleContract)
	require.NoError(t, err)

	result, err := f.analysisService.ComprehensiveAnalysis(ctx, contract.ID)
	require.NoError(t, err)

	require.NotEmpty(t, result.KeyTerms.MonetaryAmounts)
	assert.Equal(t, "$5,000", result.KeyTerms.MonetaryAmounts[0].Amount)
	assert.Contains(t, result.KeyTerms.KeyConcepts, "Liability (1x)")

	require.NotEmpty(t, result.Obligations.MustDo)
	assert.Contains(t, result.Obligations.MustDo[0], "pay the Employee")
	require.NotEmpty(t, result.Obligations.Rights)

	assert.Contains(t, result.KeyTerms.TimePeriods,
		models.TimePeriod{Text: "3 days", Type: "duration"})
}

func TestComprehensiveAnalysis_NotFound(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.analysisService.ComprehensiveAnalysis(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrContractNotFound)
}
