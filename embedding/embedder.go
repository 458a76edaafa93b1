package embedding

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Embedder converts text into fixed-length vectors. A process uses one
// backend for the lifetime of a collection: vectors from different
// backends must never be mixed in the same index.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Provider identifies an embedding backend.
type Provider string

const (
	ProviderLocal  Provider = "local"
	ProviderGemini Provider = "gemini"
)

// NewEmbedderFromEnv resolves the configured embedding backend.
//
// EMBEDDING_PROVIDER selects "local" (default, pure and deterministic,
// no external model) or "gemini". EMBEDDING_DIMENSION overrides the
// local backend's vector size.
func NewEmbedderFromEnv(ctx context.Context, logger *zap.Logger) (Embedder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	provider := Provider(os.Getenv("EMBEDDING_PROVIDER"))
	switch provider {
	case ProviderLocal, "":
		dimension := DefaultLocalDimension
		if v := os.Getenv("EMBEDDING_DIMENSION"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("invalid EMBEDDING_DIMENSION: %q", v)
			}
			dimension = n
		}
		logger.Info("using local embedder", zap.Int("dimension", dimension))
		return NewLocalEmbedder(dimension), nil

	case ProviderGemini:
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for the gemini embedding provider")
		}
		client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize gemini client: %w", err)
		}
		model := os.Getenv("EMBEDDING_MODEL")
		logger.Info("using gemini embedder", zap.String("model", model))
		return NewGeminiEmbedder(client, model), nil

	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", provider)
	}
}
