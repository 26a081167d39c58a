package embedprovider

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"sync"
)

// MockProvider is a deterministic test implementation: embeddings are
// derived from a SHA-256 hash of the input text, so identical text always
// embeds to the identical vector (spec §8 "hash stability" analog for
// embeddings), matching the teacher's internal/embed.MockProvider.
type MockProvider struct {
	mu         sync.Mutex
	modelID    string
	dimensions int
	embedErr   error
	disposed   bool
}

// NewMockProvider returns a MockProvider producing vectors of dimensions
// width under modelID.
func NewMockProvider(modelID string, dimensions int) *MockProvider {
	return &MockProvider{modelID: modelID, dimensions: dimensions}
}

// SetEmbedError configures the mock to fail the next Embed/EmbedQuery calls,
// exercising spec §7 EmbeddingFailure handling in tests.
func (p *MockProvider) SetEmbedError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.embedErr = err
}

func (p *MockProvider) Initialize(ctx context.Context) error { return nil }

func (p *MockProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	p.mu.Lock()
	err := p.embedErr
	p.mu.Unlock()
	if err != nil {
		return nil, err
	}

	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = p.embedOne(t)
	}
	return out, nil
}

func (p *MockProvider) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vecs, err := p.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (p *MockProvider) embedOne(text string) []float32 {
	hash := sha256.Sum256([]byte(text))
	vec := make([]float32, p.dimensions)
	for j := 0; j < p.dimensions; j++ {
		offset := (j * 4) % len(hash)
		val := binary.BigEndian.Uint32(hash[offset : offset+4])
		vec[j] = (float32(val)/float32(1<<32))*2.0 - 1.0
	}
	return vec
}

func (p *MockProvider) Dispose() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disposed = true
	return nil
}

// Disposed reports whether Dispose has been called, for test assertions.
func (p *MockProvider) Disposed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.disposed
}

func (p *MockProvider) ModelID() string { return p.modelID }
func (p *MockProvider) Dimensions() int { return p.dimensions }
