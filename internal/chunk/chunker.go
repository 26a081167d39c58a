package chunk

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/mvp-joe/repo-knowledge/internal/symbols"
)

// headerOverheadTokens is the estimated token cost of a chunk's context
// header, subtracted from the budget before a region is considered to fit
// (spec §4.3 step 4).
const headerOverheadTokens = 20

// DefaultMaxTokens is the per-chunk token budget used when none is
// configured (spec §4.3).
const DefaultMaxTokens = 512

// Chunker splits source text along symbol boundaries per spec §4.3.
type Chunker interface {
	Chunk(path, source string, syms []symbols.Symbol, maxTokens int) []Chunk
}

type chunker struct{}

// New returns the default symbol-boundary Chunker.
func New() Chunker { return &chunker{} }

// estimateTokens estimates token count as ceil(len(text)/3.5) (spec §4.3).
func estimateTokens(text string) int {
	return int(math.Ceil(float64(len(text)) / 3.5))
}

// header builds the `// File: <path> | Lines: <a>-<b> | Symbols: <names>`
// context header. The Symbols segment is omitted if empty (spec §4.3).
func header(path string, startLine, endLine int, names []string) string {
	h := fmt.Sprintf("// File: %s | Lines: %d-%d", path, startLine, endLine)
	if len(names) > 0 {
		h += " | Symbols: " + strings.Join(names, ", ")
	}
	return h
}

func (c *chunker) Chunk(path, source string, syms []symbols.Symbol, maxTokens int) []Chunk {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	// An empty source has nothing to cover and yields no chunks.
	if source == "" {
		return nil
	}
	lines := strings.Split(source, "\n")
	totalLines := len(lines)

	allNames := symbolNames(syms)

	// Step 1: whole file fits.
	if estimateTokens(source) <= maxTokens {
		content := header(path, 1, totalLines, allNames) + "\n" + source
		return []Chunk{{
			Index:       0,
			Content:     content,
			StartLine:   1,
			EndLine:     totalLines,
			SymbolNames: allNames,
			TokenCount:  estimateTokens(content),
		}}
	}

	// Step 2: select top-level symbols and classes, sorted by start line,
	// skipping any that overlap an already-consumed range.
	candidates := topLevelAndClasses(syms)
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Range.StartLine < candidates[j].Range.StartLine
	})

	var selected []symbols.Symbol
	lastConsumedEnd := 0
	for _, s := range candidates {
		if s.Range.StartLine <= lastConsumedEnd {
			continue
		}
		selected = append(selected, s)
		if s.Range.EndLine > lastConsumedEnd {
			lastConsumedEnd = s.Range.EndLine
		}
	}

	if len(selected) == 0 {
		// Step 5: no regions, fall back to pure line-sliced chunking.
		return lineSliceChunks(path, lines, maxTokens, 0)
	}

	// Step 3: build alternating gap/symbol regions.
	regions := buildRegions(totalLines, selected, syms)

	// Step 4: emit or split each region.
	var chunks []Chunk
	idx := 0
	for _, r := range regions {
		text := strings.Join(lines[r.startLine-1:r.endLine], "\n")
		if estimateTokens(text) <= maxTokens-headerOverheadTokens {
			content := header(path, r.startLine, r.endLine, r.names) + "\n" + text
			chunks = append(chunks, Chunk{
				Index:       idx,
				Content:     content,
				StartLine:   r.startLine,
				EndLine:     r.endLine,
				SymbolNames: r.names,
				TokenCount:  estimateTokens(content),
			})
			idx++
			continue
		}
		split := lineSliceChunks(path, lines[r.startLine-1:r.endLine], maxTokens, r.startLine-1)
		for _, s := range split {
			s.Index = idx
			s.SymbolNames = r.names
			chunks = append(chunks, s)
			idx++
		}
	}

	return chunks
}

// region is a gap (text between symbols) or symbol region (lines covered by
// one top-level symbol plus its children's names).
type region struct {
	startLine int
	endLine   int
	names     []string
}

// buildRegions alternates gap and symbol regions across the whole file.
func buildRegions(totalLines int, selected []symbols.Symbol, all []symbols.Symbol) []region {
	var regions []region
	cursor := 1
	for _, s := range selected {
		if s.Range.StartLine > cursor {
			regions = append(regions, region{startLine: cursor, endLine: s.Range.StartLine - 1})
		}
		names := append([]string{s.Name}, childNames(all, s.Name)...)
		regions = append(regions, region{startLine: s.Range.StartLine, endLine: s.Range.EndLine, names: names})
		cursor = s.Range.EndLine + 1
	}
	if cursor <= totalLines {
		regions = append(regions, region{startLine: cursor, endLine: totalLines})
	}
	// drop empty gap regions (startLine > endLine)
	var filtered []region
	for _, r := range regions {
		if r.startLine <= r.endLine {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// lineSliceChunks fills lines up to maxTokens greedily without splitting a
// line, offsetting reported line numbers by lineOffset (0-indexed lines
// before the slice).
func lineSliceChunks(path string, lines []string, maxTokens, lineOffset int) []Chunk {
	var chunks []Chunk
	idx := 0
	start := 0
	for start < len(lines) {
		end := start
		size := 0
		for end < len(lines) {
			lineTokens := estimateTokens(lines[end])
			if size > 0 && size+lineTokens > maxTokens-headerOverheadTokens {
				break
			}
			size += lineTokens
			end++
		}
		if end == start {
			end = start + 1 // always make progress even if one line exceeds budget
		}
		text := strings.Join(lines[start:end], "\n")
		startLine := lineOffset + start + 1
		endLine := lineOffset + end
		content := header(path, startLine, endLine, nil) + "\n" + text
		chunks = append(chunks, Chunk{
			Index:      idx,
			Content:    content,
			StartLine:  startLine,
			EndLine:    endLine,
			TokenCount: estimateTokens(content),
		})
		idx++
		start = end
	}
	return chunks
}

func symbolNames(syms []symbols.Symbol) []string {
	var names []string
	for _, s := range syms {
		if s.Name != "" {
			names = append(names, s.Name)
		}
	}
	return names
}

func topLevelAndClasses(syms []symbols.Symbol) []symbols.Symbol {
	var out []symbols.Symbol
	for _, s := range syms {
		if s.ParentName == "" || s.Kind == symbols.KindClass {
			out = append(out, s)
		}
	}
	return out
}

func childNames(all []symbols.Symbol, parent string) []string {
	var names []string
	for _, s := range all {
		if s.ParentName == parent {
			names = append(names, s.Name)
		}
	}
	return names
}
