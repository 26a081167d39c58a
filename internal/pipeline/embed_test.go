package pipeline

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/repo-knowledge/internal/config"
	"github.com/mvp-joe/repo-knowledge/internal/embedprovider"
	"github.com/mvp-joe/repo-knowledge/internal/storage"
)

func newEmbedTestPipeline(t *testing.T, dimensions int) (*Pipeline, *storage.VectorStore) {
	t.Helper()
	dir := t.TempDir()

	metadata, err := storage.Open(filepath.Join(dir, "metadata.db"))
	require.NoError(t, err)
	t.Cleanup(func() { metadata.Close() })

	vectors, err := storage.OpenVectorStore(filepath.Join(dir, "vectors.db"), dimensions)
	require.NoError(t, err)
	t.Cleanup(func() { vectors.Close() })

	cfg := config.Default(dir)
	cfg.EmbeddingDimensions = dimensions
	embedder := embedprovider.NewMockProvider("mock", dimensions)

	return New(cfg, metadata, vectors, nil, nil, nil, embedder), vectors
}

func TestEmbedAndStore_StoresVectorForEachChunk(t *testing.T) {
	t.Parallel()
	p, vectors := newEmbedTestPipeline(t, 8)

	pending := []pendingChunk{
		{ChunkID: 1, Content: "func A() {}", Language: "go"},
		{ChunkID: 2, Content: "func B() {}", Language: "go"},
	}

	err := p.embedAndStore(context.Background(), pending, nil)
	require.NoError(t, err)

	v1, err := vectors.Query(mustEmbed(t, p.embedder, "func A() {}"), 1, "")
	require.NoError(t, err)
	require.NotEmpty(t, v1)
	assert.Equal(t, int64(1), v1[0].ChunkID)
}

func TestEmbedAndStore_BatchesAcrossMultipleCallsWhenExceedingBatchSize(t *testing.T) {
	t.Parallel()
	p, vectors := newEmbedTestPipeline(t, 8)

	pending := make([]pendingChunk, embedBatchSize+3)
	for i := range pending {
		pending[i] = pendingChunk{ChunkID: int64(i + 1), Content: "content", Language: "go"}
	}

	var calls []int
	err := p.embedAndStore(context.Background(), pending, func(done, total int) {
		calls = append(calls, done)
	})
	require.NoError(t, err)
	require.Len(t, calls, 2)
	assert.Equal(t, embedBatchSize, calls[0])
	assert.Equal(t, embedBatchSize+3, calls[1])

	all, err := vectors.Query(mustEmbed(t, p.embedder, "content"), len(pending), "")
	require.NoError(t, err)
	assert.Len(t, all, len(pending))
}

func TestEmbedAndStore_DimensionMismatchErrorsBeforeEmbedding(t *testing.T) {
	t.Parallel()
	p, _ := newEmbedTestPipeline(t, 8)
	p.cfg.EmbeddingDimensions = 99

	err := p.embedAndStore(context.Background(), []pendingChunk{{ChunkID: 1, Content: "x", Language: "go"}}, nil)
	assert.Error(t, err)
}

func TestEmbedAndStore_EmptyPendingIsNoOp(t *testing.T) {
	t.Parallel()
	p, vectors := newEmbedTestPipeline(t, 8)

	err := p.embedAndStore(context.Background(), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 8, vectors.Dimension())
}

func mustEmbed(t *testing.T, embedder embedprovider.Provider, text string) []float32 {
	t.Helper()
	vec, err := embedder.EmbedQuery(context.Background(), text)
	require.NoError(t, err)
	return vec
}
