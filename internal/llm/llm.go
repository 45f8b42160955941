package llm

import (
	"context"
	"errors"
)

// Client abstracts the completion-generation collaborator: one text prompt
// in, one text response out. No streaming, no structured schema.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrNotConfigured is returned by the placeholder client when no provider
// credentials were supplied.
var ErrNotConfigured = errors.New("completion provider not configured")

// PlaceholderClient is the stand-in used in dev when no provider is wired.
type PlaceholderClient struct{}

// Generate returns ErrNotConfigured.
func (PlaceholderClient) Generate(ctx context.Context, prompt string) (string, error) {
	_ = ctx
	_ = prompt
	return "", ErrNotConfigured
}
