package langdetect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	cases := map[string]Language{
		"main.go":               Go,
		"src/app.tsx":           TSX,
		"src/app.ts":            TypeScript,
		"lib/index.js":          JavaScript,
		"lib/index.mjs":         JavaScript,
		"scripts/run.py":        Python,
		"core/lib.rs":           Rust,
		"App.java":              Java,
		"styles/main.CSS":       CSS,
		"data.json":             JSON,
		"page.html":             HTML,
		"config.yaml":           YAML,
		"README.md":             Markdown,
		"Makefile":              None,
		".gitignore":            None,
		"archive.tar.gz":        None,
		"no_extension_at_all":   None,
	}

	for path, want := range cases {
		assert.Equal(t, want, Detect(path), "path %q", path)
	}
}

func TestIsCode(t *testing.T) {
	t.Parallel()

	for _, lang := range []Language{Go, Java, Python, Rust, TypeScript, TSX, JavaScript} {
		assert.True(t, IsCode(lang), "lang %q should be code", lang)
	}

	for _, lang := range []Language{CSS, JSON, HTML, YAML, Markdown, None} {
		assert.False(t, IsCode(lang), "lang %q should not be code", lang)
	}
}
