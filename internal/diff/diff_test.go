package diff

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashContent_Deterministic(t *testing.T) {
	t.Parallel()

	h1 := HashContent([]byte("hello"))
	h2 := HashContent([]byte("hello"))
	h3 := HashContent([]byte("world"))

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64)
}

func TestComputeDiff_Added(t *testing.T) {
	t.Parallel()

	discovered := []DiscoveredFile{{Path: "new.go", Size: 5}}
	contentCache := make(map[string]CachedContent)

	result, err := ComputeDiff(nil, discovered, map[string]string{}, map[string]int64{}, contentCache)
	require.NoError(t, err)

	assert.Equal(t, []string{"new.go"}, result.Added)
	assert.Empty(t, result.Modified)
	assert.Empty(t, result.Unchanged)
	assert.Empty(t, result.Removed)
	assert.Empty(t, contentCache)
}

func TestComputeDiff_ModifiedBySizeFastPath(t *testing.T) {
	t.Parallel()

	discovered := []DiscoveredFile{{Path: "existing.go", Size: 20}}
	existingHashes := map[string]string{"existing.go": "deadbeef"}
	existingSizes := map[string]int64{"existing.go": 10}
	contentCache := make(map[string]CachedContent)

	readFile := func(path string) ([]byte, error) {
		t.Fatalf("readFile should not be called on size fast path, got %s", path)
		return nil, nil
	}

	result, err := ComputeDiff(readFile, discovered, existingHashes, existingSizes, contentCache)
	require.NoError(t, err)

	assert.Equal(t, []string{"existing.go"}, result.Modified)
	assert.Empty(t, contentCache)
}

func TestComputeDiff_UnchangedBySameHash(t *testing.T) {
	t.Parallel()

	content := []byte("package main")
	hash := HashContent(content)

	discovered := []DiscoveredFile{{Path: "same.go", Size: int64(len(content))}}
	existingHashes := map[string]string{"same.go": hash}
	existingSizes := map[string]int64{"same.go": int64(len(content))}
	contentCache := make(map[string]CachedContent)

	readFile := func(path string) ([]byte, error) { return content, nil }

	result, err := ComputeDiff(readFile, discovered, existingHashes, existingSizes, contentCache)
	require.NoError(t, err)

	assert.Equal(t, []string{"same.go"}, result.Unchanged)
	assert.Equal(t, content, contentCache["same.go"].Content)
	assert.Equal(t, hash, contentCache["same.go"].Hash)
}

func TestComputeDiff_ModifiedByDifferentHashSameSize(t *testing.T) {
	t.Parallel()

	oldContent := []byte("aaaa")
	newContent := []byte("bbbb")

	discovered := []DiscoveredFile{{Path: "changed.go", Size: int64(len(newContent))}}
	existingHashes := map[string]string{"changed.go": HashContent(oldContent)}
	existingSizes := map[string]int64{"changed.go": int64(len(oldContent))}
	contentCache := make(map[string]CachedContent)

	readFile := func(path string) ([]byte, error) { return newContent, nil }

	result, err := ComputeDiff(readFile, discovered, existingHashes, existingSizes, contentCache)
	require.NoError(t, err)

	assert.Equal(t, []string{"changed.go"}, result.Modified)
}

func TestComputeDiff_Removed(t *testing.T) {
	t.Parallel()

	existingHashes := map[string]string{"gone.go": "abc123"}
	existingSizes := map[string]int64{"gone.go": 5}

	result, err := ComputeDiff(nil, nil, existingHashes, existingSizes, map[string]CachedContent{})
	require.NoError(t, err)

	assert.Equal(t, []string{"gone.go"}, result.Removed)
}

func TestComputeDiff_ReadError(t *testing.T) {
	t.Parallel()

	discovered := []DiscoveredFile{{Path: "broken.go", Size: 5}}
	existingHashes := map[string]string{"broken.go": "abc123"}
	existingSizes := map[string]int64{"broken.go": 5}

	wantErr := errors.New("boom")
	readFile := func(path string) ([]byte, error) { return nil, wantErr }

	_, err := ComputeDiff(readFile, discovered, existingHashes, existingSizes, map[string]CachedContent{})
	assert.ErrorIs(t, err, wantErr)
}
