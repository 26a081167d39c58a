package embedprovider

import (
	"context"
	"fmt"
	"sync"
)

// ErrDimensionMismatch is returned when a provider's declared dimension
// disagrees with a probe embedding's actual width (spec §7 DimensionMismatch,
// fatal at initialization).
var ErrDimensionMismatch = fmt.Errorf("embedding provider dimension mismatch")

// Lazy wraps a Provider so that Initialize runs at most once, guarded by a
// single shared sync.Once so concurrent callers wait on the same
// initialization rather than racing (spec §5, grounded on the teacher's
// internal/embed/factory.go sync.Once singleton).
type Lazy struct {
	inner Provider
	once  sync.Once
	err   error
}

// NewLazy wraps inner in a lazy, once-initializing singleton.
func NewLazy(inner Provider) *Lazy {
	return &Lazy{inner: inner}
}

// Initialize runs inner.Initialize at most once. It then sends a one-shot
// probe text through Embed and confirms the returned vector's length equals
// inner.Dimensions(), failing fast on mismatch (spec §6 EmbeddingProvider
// contract, §7 DimensionMismatch).
func (l *Lazy) Initialize(ctx context.Context) error {
	l.once.Do(func() {
		if err := l.inner.Initialize(ctx); err != nil {
			l.err = fmt.Errorf("failed to initialize embedding provider: %w", err)
			return
		}
		probe, err := l.inner.Embed(ctx, []string{"repo-knowledge dimension probe"})
		if err != nil {
			l.err = fmt.Errorf("failed to probe embedding dimension: %w", err)
			return
		}
		if len(probe) != 1 || len(probe[0]) != l.inner.Dimensions() {
			l.err = fmt.Errorf("%w: probe returned %d dims, declared %d", ErrDimensionMismatch, len(probe[0]), l.inner.Dimensions())
		}
	})
	return l.err
}

func (l *Lazy) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return l.inner.Embed(ctx, texts)
}

func (l *Lazy) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return l.inner.EmbedQuery(ctx, text)
}

func (l *Lazy) Dispose() error { return l.inner.Dispose() }
func (l *Lazy) ModelID() string { return l.inner.ModelID() }
func (l *Lazy) Dimensions() int { return l.inner.Dimensions() }
