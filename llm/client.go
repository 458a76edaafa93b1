package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Message roles understood by every provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single role-tagged chat message.
type Message struct {
	Role    string
	Content string
}

// ErrDisabled is returned by the none provider. Callers treat it like
// any other completion failure and take their rule-based path.
var ErrDisabled = errors.New("llm is disabled")

// Client is the free-text completion capability consumed by the
// analysis pipeline. Implementations must be safe for concurrent use.
//
// CompleteStructured is Complete with the added expectation of a JSON
// payload: implementations ask the model for JSON and return the raw
// bytes once they validate as JSON, or an error when the output is
// malformed. Callers unmarshal into their own types.
type Client interface {
	Complete(ctx context.Context, messages []Message, temperature float32, maxTokens int) (string, error)
	CompleteStructured(ctx context.Context, messages []Message) (json.RawMessage, error)
}
