package llm

import "context"

// Client defines an interface for the remote language model: one prompt in,
// one block of free-form text out. This keeps the application logic
// decoupled from the specific model SDK.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
