// Package model provides types for chat-model operations.
package model

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn in a conversation. Order within a slice is
// chronological; a well-formed sequence has at most one system message,
// always at position 0.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// CopyMessages returns a fresh slice sharing no backing array with msgs.
// Callers hand histories across component boundaries; nobody may mutate
// the original.
func CopyMessages(msgs []Message) []Message {
	if msgs == nil {
		return nil
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}

// Request represents a chat completion request.
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Tools       []Tool    `json:"tools,omitempty"`
	Stream      bool      `json:"stream,omitempty"`
}

// Response represents a completed (non-streaming) model response.
type Response struct {
	Text       string     `json:"text"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	TokensUsed int        `json:"tokens_used"`
	Model      string     `json:"model"`
}

// Tool declares an invocable capability to the model.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// ToolCall is a model-issued request to invoke a named capability.
// Arguments is the raw JSON string exactly as the model produced it;
// parsing and trust decisions belong to the caller.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Chunk is one fragment of a streamed response. Exactly one of Content
// and ToolDelta is meaningful per chunk.
type Chunk struct {
	Content   string
	ToolDelta *ToolCallDelta
}

// ToolCallDelta is a partial tool call carried by one stream fragment.
// Fragments for the same Index must be concatenated in arrival order
// before Arguments can be parsed.
type ToolCallDelta struct {
	Index     int
	ID        string
	Name      string
	Arguments string
}
