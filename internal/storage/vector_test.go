package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVectorStore(t *testing.T, dimension int) *VectorStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vectors.db")
	store, err := OpenVectorStore(path, dimension)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func vec(dim int, fill float32) []float32 {
	v := make([]float32, dim)
	for i := range v {
		v[i] = fill
	}
	return v
}

func TestVectorStore_UpsertAndQuery(t *testing.T) {
	t.Parallel()
	store := newTestVectorStore(t, 4)

	require.NoError(t, store.Upsert(1, vec(4, 1.0), "go"))
	require.NoError(t, store.Upsert(2, vec(4, -1.0), "go"))

	matches, err := store.Query(vec(4, 1.0), 2, "")
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, int64(1), matches[0].ChunkID)
}

func TestVectorStore_UpsertReplacesExisting(t *testing.T) {
	t.Parallel()
	store := newTestVectorStore(t, 4)

	require.NoError(t, store.Upsert(1, vec(4, 1.0), "go"))
	require.NoError(t, store.Upsert(1, vec(4, -1.0), "go"))

	matches, err := store.Query(vec(4, -1.0), 1, "")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, int64(1), matches[0].ChunkID)
	assert.InDelta(t, 0.0, matches[0].Distance, 1e-6)
}

func TestVectorStore_DimensionMismatch(t *testing.T) {
	t.Parallel()
	store := newTestVectorStore(t, 4)

	err := store.Upsert(1, vec(3, 1.0), "go")
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = store.Query(vec(8, 1.0), 1, "")
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestVectorStore_QueryLanguageFilter(t *testing.T) {
	t.Parallel()
	store := newTestVectorStore(t, 4)

	require.NoError(t, store.Upsert(1, vec(4, 1.0), "go"))
	require.NoError(t, store.Upsert(2, vec(4, 1.0), "python"))

	matches, err := store.Query(vec(4, 1.0), 10, "python")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, int64(2), matches[0].ChunkID)
}

func TestVectorStore_UpsertBatch(t *testing.T) {
	t.Parallel()
	store := newTestVectorStore(t, 4)

	ids := []int64{1, 2, 3}
	embeddings := [][]float32{vec(4, 0.1), vec(4, 0.2), vec(4, 0.3)}
	languages := []string{"go", "go", "go"}

	require.NoError(t, store.UpsertBatch(ids, embeddings, languages))

	matches, err := store.Query(vec(4, 0.3), 3, "")
	require.NoError(t, err)
	assert.Len(t, matches, 3)
}

func TestVectorStore_DeleteByChunkIDs(t *testing.T) {
	t.Parallel()
	store := newTestVectorStore(t, 4)

	require.NoError(t, store.Upsert(1, vec(4, 1.0), "go"))
	require.NoError(t, store.Upsert(2, vec(4, 1.0), "go"))

	require.NoError(t, store.DeleteByChunkIDs([]int64{1}))

	matches, err := store.Query(vec(4, 1.0), 10, "")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, int64(2), matches[0].ChunkID)
}

func TestVectorStore_Reset(t *testing.T) {
	t.Parallel()
	store := newTestVectorStore(t, 4)

	require.NoError(t, store.Upsert(1, vec(4, 1.0), "go"))
	require.NoError(t, store.Reset())

	matches, err := store.Query(vec(4, 1.0), 10, "")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestVectorStore_Dimension(t *testing.T) {
	t.Parallel()
	store := newTestVectorStore(t, 384)
	assert.Equal(t, 384, store.Dimension())
}
