// Package embedprovider defines the EmbeddingProvider contract of spec §6:
// an abstract batched text-to-vector function with a declared dimension.
// The concrete model is an external collaborator per spec §1 ("the
// embedding model itself (consumed via an abstract interface)"); this
// package also ships a deterministic mock implementation for tests,
// matching the teacher's internal/embed/mock.go pattern.
package embedprovider

import "context"

// Provider is the EmbeddingProvider contract of spec §6.
type Provider interface {
	// Initialize prepares the provider for use. Implementations that load a
	// model or spawn a subprocess do so here. Safe to call multiple times;
	// concurrent callers observe a single shared initialization (spec §5).
	Initialize(ctx context.Context) error

	// Embed converts texts into their vector representations, in order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery embeds a single query string.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// Dispose releases resources held by the provider.
	Dispose() error

	// ModelID returns the embedding model identifier.
	ModelID() string

	// Dimensions returns the declared output vector width.
	Dimensions() int
}
