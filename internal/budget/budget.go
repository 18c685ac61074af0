// Package budget trims message sequences to a token ceiling before they
// are sent to a language model.
//
// Trimming preserves conversation semantics: the system message (if any)
// survives unconditionally, the tail keeps the most recent turns, and the
// output is always a syntactically valid sequence. The one deliberate
// soft spot: a single non-system message that alone exceeds the ceiling
// is returned anyway rather than leaving the caller with no user turn;
// the transport layer owns that failure.
package budget

import (
	"github.com/footman-ai/footman/internal/model"
	"github.com/footman-ai/footman/internal/token"
)

// OverflowPlaceholder replaces the user turn in classification mode when
// even the single most recent message blows the ceiling. The classifier
// must always see exactly one user message.
const OverflowPlaceholder = "질문이 너무 길어 처리할 수 없습니다."

// truncation bounds for Clean. Head+marker+tail stays at or under
// cleanMaxRunes so Clean is idempotent.
const (
	cleanMaxRunes  = 1000
	cleanEdgeRunes = 494
	cleanMarker    = "...[요약됨]..."
)

// Options controls Fit behavior.
type Options struct {
	// PreserveSystem reserves a leading system message unconditionally.
	PreserveSystem bool

	// Classification keeps only the single most recent turn; intent
	// classification needs no further context.
	Classification bool
}

// DefaultOptions returns the options used on normal generation paths.
func DefaultOptions() Options {
	return Options{PreserveSystem: true}
}

// ClassificationOptions returns the options used for intent classification.
func ClassificationOptions() Options {
	return Options{PreserveSystem: true, Classification: true}
}

// Clean normalizes a history snapshot: drops messages with unknown roles
// and middle-truncates oversized content. The input is never mutated.
func Clean(msgs []model.Message) []model.Message {
	if len(msgs) == 0 {
		return nil
	}
	out := make([]model.Message, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case model.RoleSystem, model.RoleUser, model.RoleAssistant:
		default:
			continue
		}
		out = append(out, model.Message{Role: m.Role, Content: truncateMiddle(m.Content)})
	}
	return out
}

func truncateMiddle(content string) string {
	runes := []rune(content)
	if len(runes) <= cleanMaxRunes {
		return content
	}
	return string(runes[:cleanEdgeRunes]) + cleanMarker + string(runes[len(runes)-cleanEdgeRunes:])
}

// Fit returns a trimmed copy of msgs whose accounted cost fits maxTokens.
// The caller's slice is never mutated. See the package comment for the
// best-effort overflow exception.
func Fit(c *token.Counter, msgs []model.Message, maxTokens int, opts Options) []model.Message {
	if len(msgs) == 0 || maxTokens <= 0 {
		return nil
	}

	msgs = Clean(msgs)
	if len(msgs) == 0 {
		return nil
	}

	var reserved []model.Message
	reservedCost := 0
	tail := msgs

	if opts.PreserveSystem && msgs[0].Role == model.RoleSystem {
		reserved = msgs[:1]
		reservedCost = c.MessageCost(msgs[0])
		tail = msgs[1:]
	}

	if opts.Classification {
		// Classification output always ends in exactly one user message,
		// even when the history carries nothing trimmable.
		placeholder := model.Message{Role: model.RoleUser, Content: OverflowPlaceholder}
		if len(tail) == 0 {
			return append(model.CopyMessages(reserved), placeholder)
		}
		last := tail[len(tail)-1]
		if reservedCost+c.MessageCost(last) <= maxTokens {
			return append(model.CopyMessages(reserved), last)
		}
		return append(model.CopyMessages(reserved), placeholder)
	}

	// Strict recency truncation: walk newest to oldest and stop at the
	// first message that would exceed the remaining budget. No skipping
	// ahead to a smaller, older message.
	available := maxTokens - reservedCost
	accumulated := 0
	keepFrom := len(tail)
	for i := len(tail) - 1; i >= 0; i-- {
		cost := c.MessageCost(tail[i])
		if accumulated+cost > available {
			break
		}
		accumulated += cost
		keepFrom = i
	}

	kept := tail[keepFrom:]
	if len(kept) == 0 && len(tail) > 0 {
		// Best-effort overflow: never return an empty turn set when the
		// caller has at least one non-system message.
		kept = tail[len(tail)-1:]
	}

	out := model.CopyMessages(reserved)
	return append(out, kept...)
}
