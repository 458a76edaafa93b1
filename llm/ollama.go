package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultOllamaBaseURL points at a local Ollama daemon.
const DefaultOllamaBaseURL = "http://localhost:11434"

// OllamaClient implements Client against the Ollama chat API. It keeps
// the whole pipeline runnable with a free local model.
type OllamaClient struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOllamaClient creates an Ollama-backed client.
func NewOllamaClient(baseURL, model string) *OllamaClient {
	if baseURL == "" {
		baseURL = DefaultOllamaBaseURL
	}
	return &OllamaClient{
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string                 `json:"model"`
	Messages []ollamaMessage        `json:"messages"`
	Stream   bool                   `json:"stream"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Error   string        `json:"error,omitempty"`
}

func (c *OllamaClient) Complete(ctx context.Context, messages []Message, temperature float32, maxTokens int) (string, error) {
	msgs := make([]ollamaMessage, 0, len(messages))
	for _, m := range messages {
		msgs = append(msgs, ollamaMessage{Role: m.Role, Content: m.Content})
	}

	reqBody := ollamaChatRequest{
		Model:    c.model,
		Messages: msgs,
		Stream:   false,
		Options: map[string]interface{}{
			"temperature": temperature,
		},
	}
	if maxTokens > 0 {
		reqBody.Options["num_predict"] = maxTokens
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/chat", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama API error: %d - %s", resp.StatusCode, string(bodyBytes))
	}

	var apiResp ollamaChatResponse
	if err := json.Unmarshal(bodyBytes, &apiResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if apiResp.Error != "" {
		return "", fmt.Errorf("ollama API error: %s", apiResp.Error)
	}
	if apiResp.Message.Content == "" {
		return "", fmt.Errorf("ollama returned empty content")
	}
	return apiResp.Message.Content, nil
}

func (c *OllamaClient) CompleteStructured(ctx context.Context, messages []Message) (json.RawMessage, error) {
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
		return nil, fmt.Errorf("ollama structured response is not valid JSON")
	}
	return json.RawMessage(cleaned), nil
}
