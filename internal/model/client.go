// Package model provides the chat-model client interface.
package model

import "context"

// Client is the language-model call boundary. Every component that talks
// to a model does so through this interface, which keeps responders
// independently testable with a substitute client.
type Client interface {
	// Complete runs a request to completion and returns the full response.
	Complete(ctx context.Context, req *Request) (*Response, error)

	// Stream starts a request and returns the incremental fragment stream.
	Stream(ctx context.Context, req *Request) (*Stream, error)

	// Name returns the client's model identifier.
	Name() string
}
