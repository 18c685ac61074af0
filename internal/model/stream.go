// Package model provides streaming support for chat-model responses.
package model

import (
	"io"
	"strings"
)

// Stream delivers the fragments of one model response in delivery order.
// Recv returns io.EOF after the final fragment. Streams are not safe for
// concurrent Recv calls; one consumer drains one stream.
type Stream struct {
	next    func() (Chunk, error)
	close   func() error
	done    bool
	lastErr error
}

// NewStream wraps a fragment source. closeFn may be nil.
func NewStream(next func() (Chunk, error), closeFn func() error) *Stream {
	return &Stream{next: next, close: closeFn}
}

// ChunkStream returns a Stream that replays the given chunks. Used by
// tests and by responders that produce an already-known answer in
// streamable form.
func ChunkStream(chunks ...Chunk) *Stream {
	i := 0
	return NewStream(func() (Chunk, error) {
		if i >= len(chunks) {
			return Chunk{}, io.EOF
		}
		c := chunks[i]
		i++
		return c, nil
	}, nil)
}

// TextStream returns a Stream carrying a single content fragment.
func TextStream(text string) *Stream {
	return ChunkStream(Chunk{Content: text})
}

// Recv returns the next fragment, or io.EOF when the stream is finished.
func (s *Stream) Recv() (Chunk, error) {
	if s.done {
		if s.lastErr != nil {
			return Chunk{}, s.lastErr
		}
		return Chunk{}, io.EOF
	}
	c, err := s.next()
	if err != nil {
		s.done = true
		if err != io.EOF {
			s.lastErr = err
		}
		s.Close()
		return Chunk{}, err
	}
	return c, nil
}

// Close releases the underlying transport, if any.
func (s *Stream) Close() error {
	if s.close == nil {
		return nil
	}
	fn := s.close
	s.close = nil
	return fn()
}

// Accumulator reassembles a streamed response: content fragments in
// delivery order, and tool-call fragments keyed by index with argument
// strings concatenated in arrival order. Finalize by calling Calls only
// after the stream has terminated.
type Accumulator struct {
	content strings.Builder
	calls   []*toolCallBuilder
}

type toolCallBuilder struct {
	id   string
	name string
	args strings.Builder
}

// Add applies one fragment to the accumulator.
func (a *Accumulator) Add(c Chunk) {
	if c.Content != "" {
		a.content.WriteString(c.Content)
	}
	if d := c.ToolDelta; d != nil {
		// Index comes straight off the wire; a hostile or broken server
		// must not be able to crash the turn.
		if d.Index < 0 {
			return
		}
		for len(a.calls) <= d.Index {
			a.calls = append(a.calls, &toolCallBuilder{})
		}
		b := a.calls[d.Index]
		if d.ID != "" {
			b.id = d.ID
		}
		if d.Name != "" {
			b.name += d.Name
		}
		b.args.WriteString(d.Arguments)
	}
}

// Content returns the accumulated free-form content.
func (a *Accumulator) Content() string {
	return a.content.String()
}

// Calls returns the reassembled tool calls in index order.
func (a *Accumulator) Calls() []ToolCall {
	if len(a.calls) == 0 {
		return nil
	}
	out := make([]ToolCall, 0, len(a.calls))
	for _, b := range a.calls {
		out = append(out, ToolCall{ID: b.id, Name: b.name, Arguments: b.args.String()})
	}
	return out
}

// Drain consumes a stream to termination and returns the reassembled
// content and tool calls.
func Drain(s *Stream) (string, []ToolCall, error) {
	var acc Accumulator
	for {
		c, err := s.Recv()
		if err == io.EOF {
			return acc.Content(), acc.Calls(), nil
		}
		if err != nil {
			return acc.Content(), acc.Calls(), err
		}
		acc.Add(c)
	}
}
