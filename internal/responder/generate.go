// Package responder provides shared final-answer generation.
package responder

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/footman-ai/footman/internal/budget"
	"github.com/footman-ai/footman/internal/model"
	"github.com/footman-ai/footman/internal/token"
)

// generator holds the model dependencies every responder shares.
type generator struct {
	client  model.Client
	counter *token.Counter
}

// finalAnswer assembles the budgeted final prompt and requests a
// streaming answer: system prompt first (unless the history already
// carries one), the budgeted history tail, then the grounded query.
func (g *generator) finalAnswer(ctx context.Context, systemPrompt string, history []model.Message, groundedQuery string, ceiling int, temperature *float64) (*Result, error) {
	msgs := model.CopyMessages(history)
	if len(msgs) == 0 || msgs[0].Role != model.RoleSystem {
		msgs = append([]model.Message{{Role: model.RoleSystem, Content: systemPrompt}}, msgs...)
	}
	msgs = append(msgs, model.Message{Role: model.RoleUser, Content: groundedQuery})
	msgs = budget.Fit(g.counter, msgs, ceiling, budget.DefaultOptions())

	stream, err := g.client.Stream(ctx, &model.Request{
		Messages:    msgs,
		Temperature: temperature,
		Stream:      true,
	})
	if err != nil {
		return nil, err
	}
	return &Result{Stream: stream}, nil
}

// extractJSON runs one best-effort extraction sub-call and unmarshals
// the reply into out. The reply may arrive wrapped in code fences; the
// first {...} block is taken. Any failure returns false, never an error:
// extraction must not crash the turn.
func (g *generator) extractJSON(ctx context.Context, msgs []model.Message, ceiling int, out any) bool {
	msgs = budget.Fit(g.counter, msgs, ceiling, budget.DefaultOptions())

	temp := 0.0
	resp, err := g.client.Complete(ctx, &model.Request{
		Messages:    msgs,
		Temperature: &temp,
		MaxTokens:   500,
	})
	if err != nil {
		return false
	}

	raw := resp.Text
	if i := strings.Index(raw, "{"); i >= 0 {
		if j := strings.LastIndex(raw, "}"); j > i {
			raw = raw[i : j+1]
		}
	}
	return json.Unmarshal([]byte(raw), out) == nil
}

// extractText runs one best-effort extraction sub-call and returns the
// raw reply text. Any failure returns ok=false.
func (g *generator) extractText(ctx context.Context, msgs []model.Message, ceiling int) (string, bool) {
	msgs = budget.Fit(g.counter, msgs, ceiling, budget.DefaultOptions())

	temp := 0.0
	resp, err := g.client.Complete(ctx, &model.Request{
		Messages:    msgs,
		Temperature: &temp,
		MaxTokens:   500,
	})
	if err != nil {
		return "", false
	}
	return resp.Text, true
}

func temperature(v float64) *float64 {
	return &v
}
