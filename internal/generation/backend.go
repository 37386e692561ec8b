// Package generation produces post text and image captions through a
// language model backend and falls back to fixed local text when the
// backend is unavailable.
package generation

import "context"

// Request is one generation call.
type Request struct {
	System      string
	Prompt      string
	Image       []byte
	MIMEType    string
	MaxTokens   int32
	Temperature float32
}

// Backend turns a request into generated text. Implementations retry
// transient failures themselves.
type Backend interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Pinger is implemented by backends that can check their own availability.
type Pinger interface {
	Ping(ctx context.Context) error
}
