// Package chunk implements the symbol-boundary Chunker of spec §4.3.
package chunk

// Chunk is a bounded contiguous span of a source file with a context header
// (spec §3, §4.3).
type Chunk struct {
	Index       int
	Content     string
	StartLine   int
	EndLine     int
	SymbolNames []string
	TokenCount  int
}
