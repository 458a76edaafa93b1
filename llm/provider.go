package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Provider identifies a completion backend. The set is closed: every
// supported backend is resolved here, once, at startup, and the rest of
// the code depends only on the Client interface.
type Provider string

const (
	ProviderNone   Provider = "none"
	ProviderGemini Provider = "gemini"
	ProviderOllama Provider = "ollama"
)

// NewClientFromEnv resolves the configured completion provider.
//
// LLM_PROVIDER selects the backend ("none", "gemini", "ollama");
// unset or unknown values disable the LLM rather than failing, so the
// deterministic pipeline keeps working without any provider setup.
func NewClientFromEnv(ctx context.Context, logger *zap.Logger) (Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	provider := Provider(os.Getenv("LLM_PROVIDER"))
	switch provider {
	case ProviderNone, "":
		logger.Info("llm disabled, rule-based fallbacks only")
		return NewNoneClient(), nil

	case ProviderGemini:
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
		}
		client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize gemini client: %w", err)
		}
		model := os.Getenv("GEMINI_MODEL")
		logger.Info("using gemini llm", zap.String("model", model))
		return NewGeminiClient(client, model), nil

	case ProviderOllama:
		model := os.Getenv("OLLAMA_MODEL")
		if model == "" {
			model = "llama3.2"
		}
		baseURL := os.Getenv("OLLAMA_BASE_URL")
		logger.Info("using ollama llm", zap.String("model", model))
		return NewOllamaClient(baseURL, model), nil

	default:
		logger.Warn("unknown llm provider, disabling llm", zap.String("provider", string(provider)))
		return NewNoneClient(), nil
	}
}
