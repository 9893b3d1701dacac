package embedding

import "context"

// Provider defines the interface for generating text embeddings. The
// advisor embeds each session's opening query exactly once.
type Provider interface {
	Generate(ctx context.Context, text string) ([]float32, error)
}
