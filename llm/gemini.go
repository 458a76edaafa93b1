package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
)

// DefaultGeminiModel is used when GEMINI_MODEL is not set.
const DefaultGeminiModel = "gemini-1.5-flash"

// GeminiClient implements Client on top of the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient wraps an initialized genai client. An empty model
// name falls back to DefaultGeminiModel.
func NewGeminiClient(client *genai.Client, model string) *GeminiClient {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiClient{client: client, model: model}
}

// Complete sends the messages as a single flattened prompt. Gemini has
// no native system role in this API surface, so roles are rendered as
// labeled sections, matching how the rest of the pipeline was prompted
// historically.
func (c *GeminiClient) Complete(ctx context.Context, messages []Message, temperature float32, maxTokens int) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(temperature)
	if maxTokens > 0 {
		model.SetMaxOutputTokens(int32(maxTokens))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(messagesToPrompt(messages)))
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	var out strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				out.WriteString(string(text))
			}
		}
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("gemini returned no text candidates")
	}
	return out.String(), nil
}

// CompleteStructured asks for JSON in-prompt and validates the reply.
// A reply that does not parse as JSON is reported as an error so the
// caller can fall back.
func (c *GeminiClient) CompleteStructured(ctx context.Context, messages []Message) (json.RawMessage, error) {
	msgs := make([]Message, len(messages))
	copy(msgs, messages)
	if len(msgs) > 0 {
		msgs[len(msgs)-1].Content += "\n\nRespond with valid JSON only."
	}

	raw, err := c.Complete(ctx, msgs, 0.3, 1200)
	if err != nil {
		return nil, err
	}

	cleaned := stripCodeFences(raw)
	if !json.Valid([]byte(cleaned)) {
		return nil, fmt.Errorf("gemini structured response is not valid JSON")
	}
	return json.RawMessage(cleaned), nil
}

// messagesToPrompt renders role-tagged messages as labeled text blocks
// ending with an assistant cue.
func messagesToPrompt(messages []Message) string {
	parts := make([]string, 0, len(messages)+1)
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			parts = append(parts, "System: "+m.Content)
		case RoleAssistant:
			parts = append(parts, "Assistant: "+m.Content)
		default:
			parts = append(parts, "User: "+m.Content)
		}
	}
	parts = append(parts, "Assistant:")
	return strings.Join(parts, "\n\n")
}

// stripCodeFences removes a surrounding markdown code fence, which
// models frequently wrap JSON replies in despite instructions.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
