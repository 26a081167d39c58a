package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetadataStore(t *testing.T) *MetadataStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metadata.db")
	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpen_CreatesSchemaOnce(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "metadata.db")

	store1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store1.Close())

	// Reopening an existing store must not fail or recreate the schema.
	store2, err := Open(path)
	require.NoError(t, err)
	defer store2.Close()

	files, err := store2.AllFiles()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestUpsertFile_InsertThenUpdate(t *testing.T) {
	t.Parallel()
	store := newTestMetadataStore(t)

	id, err := store.UpsertFile(&File{
		Path:        "main.go",
		Language:    "go",
		ModulePath:  ".",
		SizeBytes:   100,
		ContentHash: "hash1",
		LastIndexed: "2026-01-01T00:00:00Z",
		LineCount:   10,
	})
	require.NoError(t, err)
	assert.NotZero(t, id)

	updatedID, err := store.UpsertFile(&File{
		Path:        "main.go",
		Language:    "go",
		ModulePath:  ".",
		SizeBytes:   200,
		ContentHash: "hash2",
		LastIndexed: "2026-01-02T00:00:00Z",
		LineCount:   20,
	})
	require.NoError(t, err)
	assert.Equal(t, id, updatedID)

	f, err := store.FileByID(id)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, "hash2", f.ContentHash)
	assert.Equal(t, int64(200), f.SizeBytes)
	assert.Equal(t, 20, f.LineCount)
}

func TestGetFileIDByPath_NotFound(t *testing.T) {
	t.Parallel()
	store := newTestMetadataStore(t)

	_, ok, err := store.GetFileIDByPath("missing.go")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteFile_CascadesSymbolsAndChunks(t *testing.T) {
	t.Parallel()
	store := newTestMetadataStore(t)

	fileID, err := store.UpsertFile(&File{Path: "a.go", Language: "go", ContentHash: "h", LastIndexed: "t"})
	require.NoError(t, err)

	_, err = store.InsertSymbols(fileID, []Symbol{{Name: "Foo", Kind: "function", StartLine: 1, EndLine: 2}})
	require.NoError(t, err)
	_, err = store.InsertChunks(fileID, []Chunk{{ChunkIndex: 0, Content: "c", ContentHash: "ch", StartLine: 1, EndLine: 2, SymbolNames: "Foo"}})
	require.NoError(t, err)

	require.NoError(t, store.DeleteFile("a.go"))

	_, ok, err := store.GetFileIDByPath("a.go")
	require.NoError(t, err)
	assert.False(t, ok)

	syms, err := store.SymbolsByFile(fileID)
	require.NoError(t, err)
	assert.Empty(t, syms)

	chunks, err := store.ChunksByFile(fileID)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestClearFileContents_KeepsFileRow(t *testing.T) {
	t.Parallel()
	store := newTestMetadataStore(t)

	fileID, err := store.UpsertFile(&File{Path: "a.go", Language: "go", ContentHash: "h", LastIndexed: "t"})
	require.NoError(t, err)
	_, err = store.InsertSymbols(fileID, []Symbol{{Name: "Foo", Kind: "function", StartLine: 1, EndLine: 2}})
	require.NoError(t, err)

	require.NoError(t, store.ClearFileContents(fileID))

	_, ok, err := store.GetFileIDByPath("a.go")
	require.NoError(t, err)
	assert.True(t, ok)

	syms, err := store.SymbolsByFile(fileID)
	require.NoError(t, err)
	assert.Empty(t, syms)
}

func TestInsertSymbolsAndResolveParents(t *testing.T) {
	t.Parallel()
	store := newTestMetadataStore(t)

	fileID, err := store.UpsertFile(&File{Path: "a.go", Language: "go", ContentHash: "h", LastIndexed: "t"})
	require.NoError(t, err)

	syms := []Symbol{
		{Name: "Outer", Kind: "class", StartLine: 1, EndLine: 10},
		{Name: "Inner", Kind: "method", StartLine: 2, EndLine: 3},
	}
	ids, err := store.InsertSymbols(fileID, syms)
	require.NoError(t, err)
	require.Len(t, ids, 2)

	require.NoError(t, store.ResolveParents(fileID, ids, []string{"", "Outer"}))

	inner, err := store.SymbolByID(ids[1])
	require.NoError(t, err)
	require.NotNil(t, inner.ParentID)
	assert.Equal(t, ids[0], *inner.ParentID)

	outer, err := store.SymbolByID(ids[0])
	require.NoError(t, err)
	assert.Nil(t, outer.ParentID)
}

func TestRebuildFullText_ReflectsCurrentRows(t *testing.T) {
	t.Parallel()
	store := newTestMetadataStore(t)

	fileID, err := store.UpsertFile(&File{Path: "a.go", Language: "go", ContentHash: "h", LastIndexed: "t"})
	require.NoError(t, err)
	_, err = store.InsertChunks(fileID, []Chunk{{ChunkIndex: 0, Content: "unique_marker_token", ContentHash: "ch", StartLine: 1, EndLine: 1}})
	require.NoError(t, err)

	require.NoError(t, store.RebuildFullText())

	matches, err := store.SearchChunksFTS("unique_marker_token", 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
}

func TestInsertGraphEdges_IgnoresDuplicates(t *testing.T) {
	t.Parallel()
	store := newTestMetadataStore(t)

	fileID, err := store.UpsertFile(&File{Path: "a.go", Language: "go", ContentHash: "h", LastIndexed: "t"})
	require.NoError(t, err)
	ids, err := store.InsertSymbols(fileID, []Symbol{{Name: "A", Kind: "function"}, {Name: "B", Kind: "function"}})
	require.NoError(t, err)

	edge := GraphEdge{SourceSymbolID: ids[0], TargetSymbolID: ids[1], EdgeType: EdgeCalls, Weight: 1, SourceFileID: fileID, TargetFileID: fileID}
	require.NoError(t, store.InsertGraphEdges([]GraphEdge{edge, edge}))

	edges, err := store.AllGraphEdges()
	require.NoError(t, err)
	assert.Len(t, edges, 1)
}

func TestUpdateImportanceAndSummaryAndState(t *testing.T) {
	t.Parallel()
	store := newTestMetadataStore(t)

	fileID, err := store.UpsertFile(&File{Path: "a.go", Language: "go", ContentHash: "h", LastIndexed: "t"})
	require.NoError(t, err)
	ids, err := store.InsertSymbols(fileID, []Symbol{{Name: "A", Kind: "function"}})
	require.NoError(t, err)

	require.NoError(t, store.UpdateImportance(map[int64]float64{ids[0]: 0.75}))
	sym, err := store.SymbolByID(ids[0])
	require.NoError(t, err)
	assert.Equal(t, 0.75, sym.Importance)

	require.NoError(t, store.UpsertSummary(&Summary{ScopeType: ScopeFile, ScopeID: "a.go", Content: "does things", TokenCount: 3}))
	require.NoError(t, store.UpsertSummary(&Summary{ScopeType: ScopeFile, ScopeID: "a.go", Content: "does other things", TokenCount: 4}))

	require.NoError(t, store.SetState(StateTotalFiles, "1"))
	val, ok, err := store.GetState(StateTotalFiles)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", val)

	_, ok, err = store.GetState("unknown-key")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFilesByIDs_Deduplicates(t *testing.T) {
	t.Parallel()
	store := newTestMetadataStore(t)

	id, err := store.UpsertFile(&File{Path: "a.go", Language: "go", ContentHash: "h", LastIndexed: "t"})
	require.NoError(t, err)

	files, err := store.FilesByIDs([]int64{id, id})
	require.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Equal(t, "a.go", files[id].Path)
}

func TestClearAll_EmptiesEveryTable(t *testing.T) {
	t.Parallel()
	store := newTestMetadataStore(t)

	fileID, err := store.UpsertFile(&File{Path: "a.go", Language: "go", ContentHash: "h", LastIndexed: "t"})
	require.NoError(t, err)
	_, err = store.InsertSymbols(fileID, []Symbol{{Name: "A", Kind: "function"}})
	require.NoError(t, err)

	require.NoError(t, store.ClearAll())

	files, err := store.AllFiles()
	require.NoError(t, err)
	assert.Empty(t, files)
}
