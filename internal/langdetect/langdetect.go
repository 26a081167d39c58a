// Package langdetect maps file extensions to language tags per spec §4.1.
package langdetect

import (
	"path/filepath"
	"strings"
)

// Language is a detected language tag.
type Language string

const (
	TypeScript Language = "typescript"
	TSX        Language = "tsx"
	JavaScript Language = "javascript"
	Python     Language = "python"
	Rust       Language = "rust"
	Go         Language = "go"
	Java       Language = "java"
	CSS        Language = "css"
	JSON       Language = "json"
	HTML       Language = "html"
	YAML       Language = "yaml"
	Markdown   Language = "markdown"
	None       Language = ""
)

// extensionTable is the fixed extension -> language mapping.
var extensionTable = map[string]Language{
	".ts":   TypeScript,
	".tsx":  TSX,
	".js":   JavaScript,
	".jsx":  JavaScript,
	".mjs":  JavaScript,
	".cjs":  JavaScript,
	".py":   Python,
	".pyw":  Python,
	".rs":   Rust,
	".go":   Go,
	".java": Java,
	".css":  CSS,
	".json": JSON,
	".html": HTML,
	".htm":  HTML,
	".yml":  YAML,
	".yaml": YAML,
	".md":   Markdown,
}

// codeLanguages is the subset eligible for symbol extraction.
var codeLanguages = map[Language]bool{
	TypeScript: true,
	TSX:        true,
	JavaScript: true,
	Python:     true,
	Rust:       true,
	Go:         true,
	Java:       true,
}

// Detect returns the language for a file path, or None if unrecognized.
//
// A dotfile with no further dot in its basename (e.g. ".gitignore") has no
// extension by this scheme and returns None.
func Detect(path string) Language {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") && strings.Count(base, ".") == 1 {
		return None
	}
	idx := strings.LastIndex(base, ".")
	if idx < 0 {
		return None
	}
	ext := strings.ToLower(base[idx:])
	lang, ok := extensionTable[ext]
	if !ok {
		return None
	}
	return lang
}

// IsCode reports whether lang is one of the seven symbol-extractable
// languages.
func IsCode(lang Language) bool {
	return codeLanguages[lang]
}
