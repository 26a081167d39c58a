package graph

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/repo-knowledge/internal/storage"
)

func newTestStore(t *testing.T) *storage.MetadataStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metadata.db")
	store, err := storage.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRank_EmptyGraphNoOp(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	require.NoError(t, Rank(store))
}

func TestRank_HighlyReferencedSymbolScoresHighest(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	fileID, err := store.UpsertFile(&storage.File{Path: "a.go", Language: "go", ContentHash: "h", LastIndexed: "t"})
	require.NoError(t, err)

	// hub is called by two other symbols; leaf calls nothing.
	ids, err := store.InsertSymbols(fileID, []storage.Symbol{
		{Name: "hub", Kind: "function"},
		{Name: "callerA", Kind: "function"},
		{Name: "callerB", Kind: "function"},
		{Name: "leaf", Kind: "function"},
	})
	require.NoError(t, err)
	hub, callerA, callerB, leaf := ids[0], ids[1], ids[2], ids[3]

	edges := []storage.GraphEdge{
		{SourceSymbolID: callerA, TargetSymbolID: hub, EdgeType: storage.EdgeCalls, Weight: 1, SourceFileID: fileID, TargetFileID: fileID},
		{SourceSymbolID: callerB, TargetSymbolID: hub, EdgeType: storage.EdgeCalls, Weight: 1, SourceFileID: fileID, TargetFileID: fileID},
	}
	require.NoError(t, store.InsertGraphEdges(edges))

	require.NoError(t, Rank(store))

	hubSym, err := store.SymbolByID(hub)
	require.NoError(t, err)
	leafSym, err := store.SymbolByID(leaf)
	require.NoError(t, err)

	assert.Greater(t, hubSym.Importance, leafSym.Importance)
	assert.Equal(t, 1.0, hubSym.Importance, "max-normalization puts the top-scoring node at 1.0")
}

func TestRank_NoEdgesGivesEqualImportance(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	fileID, err := store.UpsertFile(&storage.File{Path: "a.go", Language: "go", ContentHash: "h", LastIndexed: "t"})
	require.NoError(t, err)

	ids, err := store.InsertSymbols(fileID, []storage.Symbol{{Name: "A", Kind: "function"}, {Name: "B", Kind: "function"}})
	require.NoError(t, err)

	require.NoError(t, Rank(store))

	a, err := store.SymbolByID(ids[0])
	require.NoError(t, err)
	b, err := store.SymbolByID(ids[1])
	require.NoError(t, err)
	assert.Equal(t, a.Importance, b.Importance)
}
