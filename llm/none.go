package llm

import (
	"context"
	"encoding/json"
)

// NoneClient is the client used when no LLM is configured. Every call
// fails with ErrDisabled, which sends callers down their rule-based
// path.
type NoneClient struct{}

// NewNoneClient creates a client that always reports the LLM as
// disabled.
func NewNoneClient() *NoneClient {
	return &NoneClient{}
}

func (c *NoneClient) Complete(ctx context.Context, messages []Message, temperature float32, maxTokens int) (string, error) {
	return "", ErrDisabled
}

func (c *NoneClient) CompleteStructured(ctx context.Context, messages []Message) (json.RawMessage, error) {
	return nil, ErrDisabled
}
