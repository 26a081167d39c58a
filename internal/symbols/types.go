// Package symbols implements the SymbolExtractor of spec §4.2: a family of
// language-specific strategies behind a single interface (spec §9 "Dynamic
// language dispatch"). New languages add one strategy and one extension-
// table entry in internal/langdetect.
package symbols

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/repo-knowledge/internal/langdetect"
)

// Kind is a symbol kind, per spec §3.
type Kind string

const (
	KindFunction  Kind = "function"
	KindClass     Kind = "class"
	KindInterface Kind = "interface"
	KindType      Kind = "type"
	KindMethod    Kind = "method"
	KindProperty  Kind = "property"
	KindVariable  Kind = "variable"
	KindEnum      Kind = "enum"
	KindModule    Kind = "module"
)

// Range is an inclusive 1-indexed line range with 0-indexed columns,
// matching tree-sitter's row/column convention.
type Range struct {
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// Symbol is a named, locatable code entity extracted from an AST.
type Symbol struct {
	Name       string
	Kind       Kind
	Signature  string
	Range      Range
	ParentName string // empty if top-level
	Docstring  string
	Exported   bool
	Body       string
}

// Import is a single import/use/from-import declaration.
type Import struct {
	// Source is the raw import source text (e.g. "./util", "github.com/x/y").
	Source string
	// Names are the imported identifiers: the named and default imports of
	// TypeScript/JavaScript and the names of Python from-imports. Empty for
	// whole-module imports and for Go, Rust, and Java imports.
	Names []string
	Line  int
}

// FileSymbols is the result of extracting a single file's AST.
type FileSymbols struct {
	Symbols []Symbol
	Imports []Import
}

// Extractor produces symbols and imports from a parsed AST for one language.
type Extractor interface {
	// Language returns the language this extractor handles.
	Language() langdetect.Language

	// Extract walks root and returns the ordered symbols and imports found.
	// source is the original file bytes the AST was parsed from.
	Extract(root *sitter.Node, source []byte) FileSymbols
}

// rangeOf converts a node's span to a Range.
func rangeOf(n *sitter.Node) Range {
	start := n.StartPosition()
	end := n.EndPosition()
	return Range{
		StartLine: int(start.Row) + 1,
		StartCol:  int(start.Column),
		EndLine:   int(end.Row) + 1,
		EndCol:    int(end.Column),
	}
}
