// Package graph implements the GraphBuilder and Ranker of spec §4.5–§4.6:
// deriving file-to-file import edges and symbol-to-symbol call/import edges,
// then running PageRank over the symbol graph to score importance.
package graph

import "github.com/mvp-joe/repo-knowledge/internal/symbols"

// SymbolRef is one extracted-and-persisted symbol, carrying both its
// assigned metadata-store id and the extractor's view of it (name, range,
// body text) needed to resolve import/call edges (spec §4.5).
type SymbolRef struct {
	ID     int64
	FileID int64
	Symbol symbols.Symbol
}

// ParsedFile is one file's extraction result joined with its persisted ids,
// the unit the GraphBuilder consumes (spec §4.5 "the newly-parsed files").
type ParsedFile struct {
	FileID  int64
	Path    string
	Symbols []SymbolRef
	Imports []symbols.Import
}
