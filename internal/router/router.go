// Package router dispatches user queries to capability responders. The
// primary strategy lets the model pick capabilities through tool calls
// on a streaming request; a classification strategy is kept as a
// fallback for models without reliable tool calling.
package router

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/footman-ai/footman/internal/budget"
	"github.com/footman-ai/footman/internal/errors"
	"github.com/footman-ai/footman/internal/model"
	"github.com/footman-ai/footman/internal/responder"
	"github.com/footman-ai/footman/internal/token"
)

// Config holds the router's token ceilings.
type Config struct {
	// RoutingCeiling bounds the history sent with the tool-choice call.
	RoutingCeiling int

	// SynthesisCeiling bounds the merge prompt when several
	// capabilities answered one turn.
	SynthesisCeiling int
}

// DefaultConfig returns the production ceilings.
func DefaultConfig() Config {
	return Config{RoutingCeiling: 3000, SynthesisCeiling: 4000}
}

// Router owns one turn: it asks the model which capabilities the query
// needs, runs them, and merges their answers.
type Router struct {
	client   model.Client
	registry *responder.Registry
	counter  *token.Counter
	cfg      Config
	retry    *errors.Policy
	log      *logrus.Entry
}

// New creates a router over the given registry.
func New(client model.Client, registry *responder.Registry, counter *token.Counter, cfg Config) *Router {
	return &Router{
		client:   client,
		registry: registry,
		counter:  counter,
		cfg:      cfg,
		retry:    errors.DefaultPolicy(),
		log:      logrus.WithField("component", "router"),
	}
}

// routed is the reassembled outcome of one tool-choice call.
type routed struct {
	content string
	calls   []model.ToolCall
}

// Route answers one user turn. The returned result is either complete
// text or a stream; a fixed message result never comes with an error.
// history is read only; the caller owns appending the turn afterwards.
func (r *Router) Route(ctx context.Context, query string, history []model.Message) (*responder.Result, error) {
	msgs := model.CopyMessages(history)
	if len(msgs) == 0 || msgs[0].Role != model.RoleSystem {
		msgs = append([]model.Message{{Role: model.RoleSystem, Content: routingSystemPrompt}}, msgs...)
	}
	msgs = append(msgs, model.Message{Role: model.RoleUser, Content: query})
	msgs = budget.Fit(r.counter, msgs, r.cfg.RoutingCeiling, budget.DefaultOptions())

	out, err := errors.DoWithResult(ctx, r.retry, func() (routed, error) {
		stream, err := r.client.Stream(ctx, &model.Request{
			Messages: msgs,
			Tools:    r.registry.Tools(),
			Stream:   true,
		})
		if err != nil {
			return routed{}, err
		}
		content, calls, err := model.Drain(stream)
		if err != nil {
			return routed{}, err
		}
		return routed{content: content, calls: calls}, nil
	})
	if err != nil {
		r.log.WithError(err).Error("routing call failed")
		return &responder.Result{Text: FatalMsg}, nil
	}

	switch len(out.calls) {
	case 0:
		if strings.TrimSpace(out.content) != "" {
			return &responder.Result{Text: out.content}, nil
		}
		return &responder.Result{Text: CannotAnswerMsg}, nil
	case 1:
		return r.dispatchOne(ctx, out.calls[0], query, history)
	default:
		return r.dispatchMany(ctx, out.calls, query, history)
	}
}

// dispatchOne runs a single selected capability. Its result, stream
// included, passes through unmerged. Only the tool NAME is trusted from
// the model; the responder always receives the original query and
// history, never model-echoed arguments.
func (r *Router) dispatchOne(ctx context.Context, call model.ToolCall, query string, history []model.Message) (*responder.Result, error) {
	if !validArguments(call.Arguments) {
		r.log.WithField("tool", call.Name).Warn("malformed tool arguments")
		return &responder.Result{Text: BadArgumentsMsg}, nil
	}
	res, ok := r.registry.Get(call.Name)
	if !ok {
		r.log.WithField("tool", call.Name).Warn("unknown capability selected")
		return &responder.Result{Text: UnknownCapabilityMsg}, nil
	}
	r.log.WithField("tool", call.Name).Debug("dispatching")
	return res.Handle(ctx, query, history)
}

// dispatchMany fans the query out to every selected capability, waits
// for all of them, and synthesizes one answer. A failing capability
// costs only its own slot.
func (r *Router) dispatchMany(ctx context.Context, calls []model.ToolCall, query string, history []model.Message) (*responder.Result, error) {
	parts := make([]string, len(calls))
	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func(i int, call model.ToolCall) {
			defer wg.Done()
			parts[i] = r.runPart(ctx, call, query, history)
		}(i, call)
	}
	wg.Wait()

	labeled := make([]string, len(parts))
	for i, part := range parts {
		labeled[i] = fmt.Sprintf("[%s]\n%s", calls[i].Name, part)
	}
	joined := strings.Join(labeled, "\n\n")

	merged, err := r.synthesize(ctx, query, joined)
	if err != nil {
		r.log.WithError(err).Warn("synthesis failed, concatenating")
		return &responder.Result{Text: joined}, nil
	}
	return merged, nil
}

// runPart runs one capability of a multi-dispatch turn and returns its
// materialized text, or the per-item failure placeholder.
func (r *Router) runPart(ctx context.Context, call model.ToolCall, query string, history []model.Message) string {
	if !validArguments(call.Arguments) {
		r.log.WithField("tool", call.Name).Warn("malformed tool arguments")
		return itemFailedMsg
	}
	res, ok := r.registry.Get(call.Name)
	if !ok {
		r.log.WithField("tool", call.Name).Warn("unknown capability selected")
		return itemFailedMsg
	}
	result, err := res.Handle(ctx, query, history)
	if err != nil {
		r.log.WithError(err).WithField("tool", call.Name).Warn("capability failed")
		return itemFailedMsg
	}
	text, err := result.Materialize(ctx)
	if err != nil {
		r.log.WithError(err).WithField("tool", call.Name).Warn("capability stream failed")
		return itemFailedMsg
	}
	return text
}

// synthesize merges the labeled partial answers into one streamed reply.
func (r *Router) synthesize(ctx context.Context, query, joined string) (*responder.Result, error) {
	prompt := fmt.Sprintf(`사용자 질문: %s

다음은 질문의 각 부분에 대한 답변들입니다:

%s

이 답변들을 하나의 자연스러운 답변으로 합쳐주세요.`, query, joined)

	msgs := []model.Message{
		{Role: model.RoleSystem, Content: synthesisSystemPrompt},
		{Role: model.RoleUser, Content: prompt},
	}
	msgs = budget.Fit(r.counter, msgs, r.cfg.SynthesisCeiling, budget.DefaultOptions())

	stream, err := r.client.Stream(ctx, &model.Request{Messages: msgs, Stream: true})
	if err != nil {
		return nil, err
	}
	return &responder.Result{Stream: stream}, nil
}

// validArguments accepts the model-echoed argument payload only when it
// parses as a JSON object. The payload itself is never used; a model
// that cannot produce valid JSON here cannot be trusted to have routed
// correctly either.
func validArguments(args string) bool {
	trimmed := strings.TrimSpace(args)
	if trimmed == "" {
		return true
	}
	var obj map[string]any
	return json.Unmarshal([]byte(trimmed), &obj) == nil
}
