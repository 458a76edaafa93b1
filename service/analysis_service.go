package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clauselens-backend/analysis"
	"clauselens-backend/index"
	"clauselens-backend/llm"
	"clauselens-backend/models"
	"clauselens-backend/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrContractNotFound = errors.New("contract not found")
	ErrClauseNotFound   = errors.New("clause not found")
)

// AnalysisService runs the clause pipeline: segmentation,
// classification, risk scoring, negotiation suggestions, and semantic
// indexing.
type AnalysisService struct {
	contractRepo    *repository.ContractRepository
	idx             index.Index
	llmClient       llm.Client
	logger          *zap.Logger
	minClauseLength int
	llmEnhanced     bool
}

// AnalysisServiceOption is a functional option for AnalysisService
type AnalysisServiceOption func(*AnalysisService)

// WithContractRepository sets the contract repository
func WithContractRepository(repo *repository.ContractRepository) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.contractRepo = repo
	}
}

// WithIndex sets the semantic index
func WithIndex(idx index.Index) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.idx = idx
	}
}

// WithLLMClient sets the completion client
func WithLLMClient(client llm.Client) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.llmClient = client
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.logger = logger
	}
}

// WithMinClauseLength overrides the minimum clause length used during
// segmentation
func WithMinClauseLength(n int) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.minClauseLength = n
	}
}

// WithLLMEnhancement enables LLM escalation during bulk upload
// processing. Re-analysis of a single clause always uses the client
// when one is configured.
func WithLLMEnhancement(enabled bool) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.llmEnhanced = enabled
	}
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(opts ...AnalysisServiceOption) *AnalysisService {
	s := &AnalysisService{
		logger:          zap.NewNop(),
		minClauseLength: analysis.DefaultMinClauseLength,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// uploadClient returns the completion client for bulk processing, or
// nil when enhancement is off: bulk uploads stay deterministic unless
// explicitly enabled.
func (s *AnalysisService) uploadClient() llm.Client {
	if !s.llmEnhanced {
		return nil
	}
	return s.llmClient
}

// ProcessUpload runs the full pipeline over cleaned contract text and
// persists the result. Returns the stored contract and the computed
// per-clause risk assessments (recommendations populated for medium
// and high risk). A contract with zero clauses is a valid outcome; the
// caller decides how to surface it.
func (s *AnalysisService) ProcessUpload(ctx context.Context, title, filename, text string) (*models.Contract, []models.ClauseRisk, error) {
	if s.contractRepo == nil {
		return nil, nil, errors.New("contract repository not set")
	}
	if s.idx == nil {
		return nil, nil, errors.New("semantic index not set")
	}

	contractID := uuid.New().String()
	contract := &models.Contract{
		ID:               contractID,
		Title:            title,
		UploadedAt:       time.Now().UTC(),
		OriginalFilename: filename,
		Text:             text,
	}

	clauseTexts := analysis.Segment(text, s.minClauseLength)
	s.logger.Info("segmented contract",
		zap.String("contract_id", contractID),
		zap.Int("clauses", len(clauseTexts)))

	client := s.uploadClient()
	risks := make([]models.ClauseRisk, 0, len(clauseTexts))
	for i, clauseText := range clauseTexts {
		clause := models.Clause{
			ID:         fmt.Sprintf("%s_clause_%d", contractID, i),
			ContractID: contractID,
			Index:      i,
			Text:       clauseText,
		}
		clause.ClauseType = analysis.ClassifyWithClient(ctx, clauseText, client, s.logger)

		risk := s.assessClause(ctx, &clause, client)
		risks = append(risks, risk)

		clause.EmbeddingID = clause.ID
		contract.Clauses = append(contract.Clauses, clause)
	}

	if err := s.idx.Upsert(ctx, contractID, contract.Clauses); err != nil {
		return nil, nil, fmt.Errorf("failed to index clauses: %w", err)
	}
	if err := s.contractRepo.Save(contract); err != nil {
		return nil, nil, fmt.Errorf("failed to save contract: %w", err)
	}

	s.logger.Info("processed contract upload",
		zap.String("contract_id", contractID),
		zap.Int("clauses", len(contract.Clauses)))
	return contract, risks, nil
}

// assessClause scores a clause in place and builds its ClauseRisk,
// asking for negotiation suggestions when the risk is medium or high.
func (s *AnalysisService) assessClause(ctx context.Context, clause *models.Clause, client llm.Client) models.ClauseRisk {
	score, reasons := analysis.ScoreRiskWithClient(ctx, clause, client, s.logger)
	level := analysis.ScoreToLevel(score)
	clause.RiskScore = &score
	clause.RiskLevel = &level

	risk := models.ClauseRisk{
		ClauseID: clause.ID,
		Score:    score,
		Level:    level,
		Reasons:  reasons,
	}
	if level == models.RiskMedium || level == models.RiskHigh {
		risk.Recommendations = analysis.SuggestNegotiationPoints(ctx, clause, client, s.logger)
	}
	return risk
}

// ReanalyzeClause replaces a clause's text and reruns classification,
// scoring, and indexing for that one clause. Unknown contract or
// clause ids are contract breaches by the caller and fail loudly.
func (s *AnalysisService) ReanalyzeClause(ctx context.Context, contractID, clauseID, newText string) (*models.Clause, error) {
	if s.contractRepo == nil {
		return nil, errors.New("contract repository not set")
	}
	if s.idx == nil {
		return nil, errors.New("semantic index not set")
	}

	contract, err := s.contractRepo.Load(contractID)
	if err != nil {
		return nil, fmt.Errorf("failed to load contract: %w", err)
	}
	if contract == nil {
		return nil, ErrContractNotFound
	}

	clause := contract.FindClause(clauseID)
	if clause == nil {
		return nil, ErrClauseNotFound
	}

	clause.Text = newText
	clause.ClauseType = analysis.ClassifyWithClient(ctx, newText, s.llmClient, s.logger)
	s.assessClause(ctx, clause, s.llmClient)

	if err := s.idx.Upsert(ctx, contractID, []models.Clause{*clause}); err != nil {
		return nil, fmt.Errorf("failed to reindex clause: %w", err)
	}
	if err := s.contractRepo.Save(contract); err != nil {
		return nil, fmt.Errorf("failed to save contract: %w", err)
	}

	s.logger.Info("reanalyzed clause",
		zap.String("contract_id", contractID),
		zap.String("clause_id", clauseID),
		zap.String("clause_type", string(clause.ClauseType)))

	updated := *clause
	return &updated, nil
}

// DeleteContract removes a contract and all of its index entries.
// Returns false when the contract did not exist.
func (s *AnalysisService) DeleteContract(ctx context.Context, contractID string) (bool, error) {
	if s.contractRepo == nil {
		return false, errors.New("contract repository not set")
	}

	deleted, err := s.contractRepo.Delete(contractID)
	if err != nil {
		return false, err
	}
	if !deleted {
		return false, nil
	}
	if s.idx != nil {
		if err := s.idx.DeleteContract(ctx, contractID); err != nil {
			// The contract file is gone; stale vectors only waste
			// space and are overwritten on re-upload.
			s.logger.Warn("failed to delete contract embeddings",
				zap.String("contract_id", contractID), zap.Error(err))
		}
	}
	return true, nil
}

// RiskSummary rebuilds the per-clause risk assessments for a stored
// contract. Scores and levels come from the stored clauses; reasons are
// recomputed with the deterministic scorer, and recommendations are
// generated for medium and high risk clauses.
func (s *AnalysisService) RiskSummary(ctx context.Context, contractID string) (*models.Contract, []models.ClauseRisk, error) {
	if s.contractRepo == nil {
		return nil, nil, errors.New("contract repository not set")
	}

	contract, err := s.contractRepo.Load(contractID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load contract: %w", err)
	}
	if contract == nil {
		return nil, nil, ErrContractNotFound
	}

	risks := make([]models.ClauseRisk, 0, len(contract.Clauses))
	for i := range contract.Clauses {
		clause := &contract.Clauses[i]

		score, reasons := analysis.ScoreRisk(clause)
		level := analysis.ScoreToLevel(score)
		if clause.RiskScore != nil {
			score = *clause.RiskScore
		}
		if clause.RiskLevel != nil {
			level = *clause.RiskLevel
		}

		risk := models.ClauseRisk{
			ClauseID: clause.ID,
			Score:    score,
			Level:    level,
			Reasons:  reasons,
		}
		if level == models.RiskMedium || level == models.RiskHigh {
			risk.Recommendations = analysis.SuggestNegotiationPoints(ctx, clause, nil, s.logger)
		}
		risks = append(risks, risk)
	}
	return contract, risks, nil
}

// ComprehensiveAnalysis runs the rule-based extractors over the full
// contract text: key terms, parties, important dates, and obligations.
func (s *AnalysisService) ComprehensiveAnalysis(ctx context.Context, contractID string) (*models.ContractAnalysis, error) {
	if s.contractRepo == nil {
		return nil, errors.New("contract repository not set")
	}

	contract, err := s.contractRepo.Load(contractID)
	if err != nil {
		return nil, fmt.Errorf("failed to load contract: %w", err)
	}
	if contract == nil {
		return nil, ErrContractNotFound
	}

	return &models.ContractAnalysis{
		KeyTerms:       analysis.ExtractKeyTerms(contract.Text),
		Parties:        analysis.IdentifyParties(contract.Text),
		ImportantDates: analysis.ExtractImportantDates(contract.Text),
		Obligations:    analysis.ExtractObligations(contract.Text),
	}, nil
}
