// Package responder provides the capability responder contract and
// registry. A responder fully answers one class of user intent: it
// budgets the history, optionally extracts structured parameters from
// the query, consults its external collaborator, and produces a final
// answer, whole or streamed. Failures inside a responder degrade to
// fixed user-readable messages; nothing propagates past Handle except a
// genuinely unusable context.
package responder

import (
	"context"
	"sort"

	"github.com/footman-ai/footman/internal/model"
)

// Result is a capability's answer: either complete text or a lazy
// fragment stream that concatenates to the complete answer.
type Result struct {
	Text   string
	Stream *model.Stream
}

// Materialize drains a streaming result into Text. Already-complete
// results are returned unchanged. Merging multiple capability results
// requires materialized text, not lazy streams.
func (r *Result) Materialize(ctx context.Context) (string, error) {
	if r.Stream == nil {
		return r.Text, nil
	}
	content, _, err := model.Drain(r.Stream)
	if err != nil {
		return "", err
	}
	r.Text = content
	r.Stream = nil
	return content, nil
}

// Responder answers one class of user intent end-to-end.
type Responder interface {
	// Name returns the capability identifier used in tool dispatch.
	Name() string

	// Description tells the routing model when to pick this capability.
	Description() string

	// Handle answers the query against the given history snapshot.
	Handle(ctx context.Context, query string, history []model.Message) (*Result, error)
}

// Registry manages the available capability responders.
type Registry struct {
	responders map[string]Responder
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{responders: make(map[string]Responder)}
}

// Register adds a responder to the registry.
func (r *Registry) Register(res Responder) {
	r.responders[res.Name()] = res
}

// Get retrieves a responder by capability name.
func (r *Registry) Get(name string) (Responder, bool) {
	res, ok := r.responders[name]
	return res, ok
}

// Names returns all registered capability names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.responders))
	for name := range r.responders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tools declares every registered capability as an invocable tool. All
// capabilities share one argument schema: the user query plus the
// conversation history.
func (r *Registry) Tools() []model.Tool {
	tools := make([]model.Tool, 0, len(r.responders))
	for _, name := range r.Names() {
		res := r.responders[name]
		tools = append(tools, model.Tool{
			Name:        res.Name(),
			Description: res.Description(),
			Parameters:  toolParameters(),
		})
	}
	return tools
}

func toolParameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "사용자의 질문 원문",
			},
			"history": map[string]any{
				"type":        "array",
				"description": "이전 대화 기록",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"role":    map[string]any{"type": "string"},
						"content": map[string]any{"type": "string"},
					},
				},
			},
		},
		"required": []string{"query"},
	}
}
