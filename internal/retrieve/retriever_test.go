package retrieve

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/repo-knowledge/internal/embedprovider"
	"github.com/mvp-joe/repo-knowledge/internal/storage"
)

func newTestRetriever(t *testing.T) (*Retriever, *storage.MetadataStore, *storage.VectorStore) {
	t.Helper()
	dir := t.TempDir()

	metadata, err := storage.Open(filepath.Join(dir, "metadata.db"))
	require.NoError(t, err)
	t.Cleanup(func() { metadata.Close() })

	vectors, err := storage.OpenVectorStore(filepath.Join(dir, "vectors.db"), 8)
	require.NoError(t, err)
	t.Cleanup(func() { vectors.Close() })

	embedder := embedprovider.NewMockProvider("mock", 8)

	return New(metadata, vectors, embedder), metadata, vectors
}

func seedFileWithChunk(t *testing.T, metadata *storage.MetadataStore, vectors *storage.VectorStore, embedder *embedprovider.MockProvider, path, content string) (int64, int64) {
	t.Helper()
	fileID, err := metadata.UpsertFile(&storage.File{Path: path, Language: "go", ContentHash: "h-" + path, LastIndexed: "t"})
	require.NoError(t, err)

	chunkIDs, err := metadata.InsertChunks(fileID, []storage.Chunk{
		{ChunkIndex: 0, Content: content, ContentHash: "ch-" + path, StartLine: 1, EndLine: 3, SymbolNames: "Thing"},
	})
	require.NoError(t, err)
	require.NoError(t, metadata.RebuildFullText())

	vec, err := embedder.EmbedQuery(context.Background(), content)
	require.NoError(t, err)
	require.NoError(t, vectors.Upsert(chunkIDs[0], vec, "go"))

	return fileID, chunkIDs[0]
}

func TestRetriever_KeywordSearchFindsMatch(t *testing.T) {
	t.Parallel()
	r, metadata, vectors := newTestRetriever(t)
	embedder := embedprovider.NewMockProvider("mock", 8)
	seedFileWithChunk(t, metadata, vectors, embedder, "a.go", "func uniqueKeywordHere() {}")

	results, err := r.Search(context.Background(), "uniqueKeywordHere", Options{Mode: ModeKeyword, Limit: 10})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a.go", results[0].FilePath)
	assert.Equal(t, MatchKeyword, results[0].MatchType)
}

func TestRetriever_VectorSearchFindsClosestMatch(t *testing.T) {
	t.Parallel()
	r, metadata, vectors := newTestRetriever(t)
	embedder := embedprovider.NewMockProvider("mock", 8)
	seedFileWithChunk(t, metadata, vectors, embedder, "a.go", "vector search content")

	results, err := r.Search(context.Background(), "vector search content", Options{Mode: ModeVector, Limit: 10})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, MatchVector, results[0].MatchType)
}

func TestRetriever_SymbolSearchScoresByImportance(t *testing.T) {
	t.Parallel()
	r, metadata, _ := newTestRetriever(t)

	fileID, err := metadata.UpsertFile(&storage.File{Path: "a.go", Language: "go", ContentHash: "h", LastIndexed: "t"})
	require.NoError(t, err)
	ids, err := metadata.InsertSymbols(fileID, []storage.Symbol{{Name: "FindableSymbol", Kind: "function", StartLine: 1, EndLine: 2}})
	require.NoError(t, err)
	require.NoError(t, metadata.UpdateImportance(map[int64]float64{ids[0]: 0.5}))
	require.NoError(t, metadata.RebuildFullText())

	results, err := r.Search(context.Background(), "FindableSymbol", Options{Mode: ModeSymbol, Limit: 10})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.InDelta(t, 0.6, results[0].Score, 1e-9)
}

func TestRetriever_HybridSearchFusesAcrossSources(t *testing.T) {
	t.Parallel()
	r, metadata, vectors := newTestRetriever(t)
	embedder := embedprovider.NewMockProvider("mock", 8)
	seedFileWithChunk(t, metadata, vectors, embedder, "a.go", "hybrid search target content")

	results, err := r.Search(context.Background(), "hybrid search target content", Options{Mode: ModeHybrid, Limit: 10})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "a.go", results[0].FilePath)
}

func TestRetriever_RespectsLimit(t *testing.T) {
	t.Parallel()
	r, metadata, vectors := newTestRetriever(t)
	embedder := embedprovider.NewMockProvider("mock", 8)
	for i := 0; i < 5; i++ {
		seedFileWithChunk(t, metadata, vectors, embedder, "file"+string(rune('a'+i))+".go", "shared search term content")
	}

	results, err := r.Search(context.Background(), "shared search term content", Options{Mode: ModeKeyword, Limit: 2})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(results), 2)
}

func TestRetriever_FileFilter(t *testing.T) {
	t.Parallel()
	r, metadata, vectors := newTestRetriever(t)
	embedder := embedprovider.NewMockProvider("mock", 8)
	seedFileWithChunk(t, metadata, vectors, embedder, "src/a.go", "filterable content marker")
	seedFileWithChunk(t, metadata, vectors, embedder, "src/a.py", "filterable content marker")

	results, err := r.Search(context.Background(), "filterable content marker", Options{Mode: ModeKeyword, Limit: 10, FileFilter: "src/*.go"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "src/a.go", results[0].FilePath)
}

func TestRetriever_UnknownModeErrors(t *testing.T) {
	t.Parallel()
	r, _, _ := newTestRetriever(t)

	_, err := r.Search(context.Background(), "q", Options{Mode: "bogus"})
	assert.Error(t, err)
}
