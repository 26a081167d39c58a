package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestDiscover_FindsCodeFilesAndSkipsIgnored(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	writeFile(t, root, "main.go", "package main\n")
	writeFile(t, root, "vendor/dep.go", "package dep\n")
	writeFile(t, root, "node_modules/lib/index.js", "module.exports = {}\n")
	writeFile(t, root, "README.md", "# hello\n")
	writeFile(t, root, "empty.go", "")

	files, err := Discover(root, nil)
	require.NoError(t, err)

	var paths []string
	for _, f := range files {
		paths = append(paths, f.Path)
	}

	assert.Contains(t, paths, "main.go")
	assert.Contains(t, paths, "README.md")
	assert.NotContains(t, paths, "vendor/dep.go")
	assert.NotContains(t, paths, "node_modules/lib/index.js")
	assert.NotContains(t, paths, "empty.go")
}

func TestDiscover_HonorsGitignore(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	writeFile(t, root, ".gitignore", "ignored_dir/\n")
	writeFile(t, root, "ignored_dir/skip.go", "package skip\n")
	writeFile(t, root, "keep.go", "package keep\n")

	files, err := Discover(root, nil)
	require.NoError(t, err)

	var paths []string
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	assert.Contains(t, paths, "keep.go")
	assert.NotContains(t, paths, "ignored_dir/skip.go")
}

func TestDiscover_HonorsConfigIgnorePatterns(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	writeFile(t, root, "generated/gen.go", "package generated\n")
	writeFile(t, root, "keep.go", "package keep\n")

	files, err := Discover(root, []string{"generated/**"})
	require.NoError(t, err)

	var paths []string
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	assert.Contains(t, paths, "keep.go")
	assert.NotContains(t, paths, "generated/gen.go")
}

func TestDiscover_ResultsSortedByPath(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	writeFile(t, root, "zebra.go", "package z\n")
	writeFile(t, root, "alpha.go", "package a\n")

	files, err := Discover(root, nil)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "alpha.go", files[0].Path)
	assert.Equal(t, "zebra.go", files[1].Path)
}

func TestDiscover_SkipsOversizedFiles(t *testing.T) {
	t.Parallel()
	root := t.TempDir()

	big := make([]byte, maxFileBytes+1)
	for i := range big {
		big[i] = 'a'
	}
	writeFile(t, root, "huge.go", string(big))
	writeFile(t, root, "small.go", "package small\n")

	files, err := Discover(root, nil)
	require.NoError(t, err)

	var paths []string
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	assert.Contains(t, paths, "small.go")
	assert.NotContains(t, paths, "huge.go")
}
