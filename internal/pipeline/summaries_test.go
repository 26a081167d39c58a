package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/repo-knowledge/internal/storage"
)

func TestGenerateSummaries_FileDirectoryAndProjectScopes(t *testing.T) {
	t.Parallel()
	p, metadata := newTestPipeline(t)

	fileID, err := metadata.UpsertFile(&storage.File{Path: "src/a.go", Language: "go", ModulePath: "src", ContentHash: "h", LastIndexed: "t"})
	require.NoError(t, err)
	_, err = metadata.InsertSymbols(fileID, []storage.Symbol{
		{Name: "Foo", Kind: "function", StartLine: 1, EndLine: 2},
		{Name: "Bar", Kind: "function", StartLine: 3, EndLine: 4},
	})
	require.NoError(t, err)

	require.NoError(t, p.generateSummaries())

	fileSummaries := summariesByScope(t, metadata, storage.ScopeFile)
	require.Len(t, fileSummaries, 1)
	assert.Equal(t, "src/a.go", fileSummaries[0].ScopeID)
	assert.Contains(t, fileSummaries[0].Content, "Foo")
	assert.Contains(t, fileSummaries[0].Content, "Bar")

	dirSummaries := summariesByScope(t, metadata, storage.ScopeDirectory)
	require.Len(t, dirSummaries, 1)
	assert.Equal(t, "src", dirSummaries[0].ScopeID)
	assert.Contains(t, dirSummaries[0].Content, "src/a.go")

	projectSummaries := summariesByScope(t, metadata, storage.ScopeProject)
	require.Len(t, projectSummaries, 1)
	assert.Equal(t, "root", projectSummaries[0].ScopeID)
	assert.Contains(t, projectSummaries[0].Content, "1 files")
	assert.Contains(t, projectSummaries[0].Content, "go: 1")
}

func summariesByScope(t *testing.T, metadata *storage.MetadataStore, scopeType string) []storage.Summary {
	t.Helper()
	rows, err := metadata.DB().Query("SELECT scope_type, scope_id, content, token_count FROM summaries WHERE scope_type = ?", scopeType)
	require.NoError(t, err)
	defer rows.Close()

	var out []storage.Summary
	for rows.Next() {
		var s storage.Summary
		require.NoError(t, rows.Scan(&s.ScopeType, &s.ScopeID, &s.Content, &s.TokenCount))
		out = append(out, s)
	}
	require.NoError(t, rows.Err())
	return out
}

func TestFileSummary_NoSymbolsReportsEmptyFile(t *testing.T) {
	t.Parallel()

	summary := fileSummary(storage.File{Path: "empty.go", Language: "go"}, nil)
	assert.Contains(t, summary, "no extracted symbols")
}

func TestFileSummary_GroupsByKindAndSkipsNestedSymbols(t *testing.T) {
	t.Parallel()

	parentID := int64(1)
	syms := []storage.Symbol{
		{Name: "Widget", Kind: "class"},
		{Name: "Render", Kind: "method", ParentID: &parentID},
		{Name: "New", Kind: "function"},
	}
	summary := fileSummary(storage.File{Path: "a.go", Language: "go"}, syms)
	assert.Contains(t, summary, "1 class (Widget)")
	assert.Contains(t, summary, "1 function (New)")
	assert.NotContains(t, summary, "Render")
}

func TestDirectorySummary_ListsSortedPaths(t *testing.T) {
	t.Parallel()

	summary := directorySummary("src", []storage.File{{Path: "src/b.go"}, {Path: "src/a.go"}})
	assert.Contains(t, summary, "src/a.go, src/b.go")
}

func TestDirectorySummary_RootDirectoryNamedExplicitly(t *testing.T) {
	t.Parallel()

	summary := directorySummary("", []storage.File{{Path: "main.go"}})
	assert.Contains(t, summary, "(root)")
}

func TestProjectSummary_SkipsEmptyLanguageKey(t *testing.T) {
	t.Parallel()

	summary := projectSummary(2, 5, map[string]int{"go": 2, "": 1})
	assert.Contains(t, summary, "go: 2")
	assert.NotContains(t, summary, ": 1")
}

func TestEstimateTokens_MatchesCeilLenOver3Point5(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, estimateTokens("abc"))
	assert.Equal(t, 2, estimateTokens("1234567"))
}

func TestPluralize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "function", pluralize("function", 1))
	assert.Equal(t, "functions", pluralize("function", 2))
}
