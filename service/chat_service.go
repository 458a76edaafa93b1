package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clauselens-backend/index"
	"clauselens-backend/llm"
	"clauselens-backend/models"
	"clauselens-backend/repository"

	"go.uber.org/zap"
)

const defaultTopK = 5

// ChatService answers natural-language questions about a contract by
// retrieving the most similar clauses and composing an answer from
// them.
type ChatService struct {
	contractRepo *repository.ContractRepository
	idx          index.Index
	llmClient    llm.Client
	logger       *zap.Logger
	topK         int
}

// ChatServiceOption is a functional option for ChatService
type ChatServiceOption func(*ChatService)

// ChatWithContractRepository sets the contract repository
func ChatWithContractRepository(repo *repository.ContractRepository) ChatServiceOption {
	return func(s *ChatService) {
		s.contractRepo = repo
	}
}

// ChatWithIndex sets the semantic index
func ChatWithIndex(idx index.Index) ChatServiceOption {
	return func(s *ChatService) {
		s.idx = idx
	}
}

// ChatWithLLMClient sets the completion client used for enhanced
// answers
func ChatWithLLMClient(client llm.Client) ChatServiceOption {
	return func(s *ChatService) {
		s.llmClient = client
	}
}

// ChatWithLogger sets the logger
func ChatWithLogger(logger *zap.Logger) ChatServiceOption {
	return func(s *ChatService) {
		s.logger = logger
	}
}

// ChatWithTopK overrides how many clauses are retrieved per question
func ChatWithTopK(k int) ChatServiceOption {
	return func(s *ChatService) {
		s.topK = k
	}
}

// NewChatService creates a new chat service
func NewChatService(opts ...ChatServiceOption) *ChatService {
	s := &ChatService{
		logger: zap.NewNop(),
		topK:   defaultTopK,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnswerQuery retrieves the clauses most similar to the query within
// one contract and composes an answer. When a completion client is
// configured the answer goes through the LLM with the retrieved
// clauses as context; any failure there falls back to the
// deterministic composer, invisibly to the caller.
func (s *ChatService) AnswerQuery(ctx context.Context, contractID, query string) (*models.ChatAnswer, error) {
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

	results, err := s.idx.Search(ctx, contractID, query, s.topK)
	if err != nil {
		return nil, fmt.Errorf("failed to search clauses: %w", err)
	}

	if len(results) == 0 {
		return &models.ChatAnswer{
			Answer:          NoResultsAnswer,
			RelevantClauses: []models.ClauseSummary{},
		}, nil
	}

	answer := s.composeWithFallback(ctx, query, results)

	summaries := make([]models.ClauseSummary, 0, len(results))
	for _, result := range results {
		summaries = append(summaries, models.ClauseSummary{
			ID:        result.ID,
			Text:      truncateText(result.Text, snippetLength),
			Type:      result.Metadata.ClauseType,
			RiskLevel: result.Metadata.RiskLevel,
		})
	}

	return &models.ChatAnswer{Answer: answer, RelevantClauses: summaries}, nil
}

// composeWithFallback tries the LLM-enhanced path and falls back to the
// deterministic composer on any failure.
func (s *ChatService) composeWithFallback(ctx context.Context, query string, results []index.Result) string {
	if s.llmClient == nil {
		return ComposeAnswer(query, results)
	}

	answer, err := s.composeWithLLM(ctx, query, results)
	if err != nil {
		if !errors.Is(err, llm.ErrDisabled) {
			s.logger.Warn("llm answer generation failed, using deterministic answer", zap.Error(err))
		}
		return ComposeAnswer(query, results)
	}
	return answer
}

// composeWithLLM builds a numbered context block from the retrieved
// clauses in rank order and asks the completion client for an answer.
func (s *ChatService) composeWithLLM(ctx context.Context, query string, results []index.Result) (string, error) {
	var contextBlock strings.Builder
	for i, result := range results {
		contextBlock.WriteString(fmt.Sprintf("Clause %d [%s]:\n%s\n\n", i+1, result.Metadata.ClauseType, result.Text))
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: llm.SystemContractAssistant},
		{Role: llm.RoleUser, Content: llm.ContractQAPrompt(contextBlock.String(), query)},
	}

	answer, err := s.llmClient.Complete(ctx, messages, 0.5, 500)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(answer) == "" {
		return "", errors.New("llm returned an empty answer")
	}
	return answer, nil
}
