package graph

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/mvp-joe/repo-knowledge/internal/storage"
)

// symbolLoc is one persisted symbol location used by the name-resolution
// map (spec §4.5 step 1).
type symbolLoc struct {
	ID     int64
	FileID int64
	Kind   string
}

// localImportExtensions is the ordered list of suffixes tried when resolving
// a relative import path to a file on disk (spec §4.5 step 2a).
var localImportExtensions = []string{".ts", ".tsx", ".js", ".jsx"}
var localIndexSuffixes = []string{"/index.ts", "/index.tsx", "/index.js", "/index.jsx"}
var localOtherExtensions = []string{".py", ".rs", ".go"}

// BuildGraph derives file-to-file import edges and symbol-to-symbol
// calls/imports edges for the given freshly-parsed files and persists them,
// per spec §4.5. store must already hold the persisted symbols and chunks
// for every file in parsed (and for every other file in the repository, so
// cross-file name resolution sees the whole symbol universe).
func BuildGraph(store *storage.MetadataStore, parsed []ParsedFile) error {
	allSymbols, err := store.AllSymbols()
	if err != nil {
		return fmt.Errorf("failed to load symbols for graph build: %w", err)
	}
	allFiles, err := store.AllFiles()
	if err != nil {
		return fmt.Errorf("failed to load files for graph build: %w", err)
	}

	// Step 1: name -> locations, path -> file id.
	byName := make(map[string][]symbolLoc)
	for _, s := range allSymbols {
		byName[s.Name] = append(byName[s.Name], symbolLoc{ID: s.ID, FileID: s.FileID, Kind: s.Kind})
	}
	pathToFileID := make(map[string]int64, len(allFiles))
	for _, f := range allFiles {
		pathToFileID[f.Path] = f.ID
	}

	var deps []storage.FileDependency
	var edges []storage.GraphEdge

	for _, pf := range parsed {
		// Step 2: import resolution.
		for _, imp := range pf.Imports {
			if targetFileID, ok := resolveLocalImport(pf.Path, imp.Source, pathToFileID); ok {
				deps = append(deps, storage.FileDependency{
					SourceFileID:   pf.FileID,
					TargetFileID:   targetFileID,
					DependencyType: "imports",
				})
			}

			for _, name := range imp.Names {
				targets := byName[name]
				if len(targets) == 0 {
					continue
				}
				sources := symbolsReferencing(pf.Symbols, name)
				if len(sources) == 0 && len(pf.Symbols) > 0 {
					sources = []SymbolRef{pf.Symbols[0]}
				}
				for _, src := range sources {
					for _, tgt := range targets {
						if tgt.ID == src.ID {
							continue
						}
						edges = append(edges, storage.GraphEdge{
							SourceSymbolID: src.ID,
							TargetSymbolID: tgt.ID,
							EdgeType:       storage.EdgeImports,
							Weight:         0.5,
							SourceFileID:   src.FileID,
							TargetFileID:   tgt.FileID,
						})
					}
				}
			}
		}
	}

	// Step 3: call-edge detection via pre-compiled patterns, one per known
	// symbol name of length >= 2 (spec §4.5 step 3).
	patterns := make(map[string]*regexp.Regexp)
	for name := range byName {
		if len(name) < 2 {
			continue
		}
		patterns[name] = regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\s*\(`)
	}

	for _, pf := range parsed {
		chunks, err := store.ChunksByFile(pf.FileID)
		if err != nil {
			return fmt.Errorf("failed to load chunks for %s: %w", pf.Path, err)
		}
		for name, pattern := range patterns {
			targets := byName[name]
			if len(targets) == 0 {
				continue
			}
			hasCrossFileTarget := false
			for _, t := range targets {
				if t.FileID != pf.FileID {
					hasCrossFileTarget = true
					break
				}
			}
			if !hasCrossFileTarget {
				continue
			}

			for _, c := range chunks {
				body := stripChunkHeader(c.Content)
				if !pattern.MatchString(body) {
					continue
				}

				sources := symbolsOverlapping(pf.Symbols, c.StartLine, c.EndLine)
				if len(sources) == 0 && len(pf.Symbols) > 0 {
					sources = []SymbolRef{pf.Symbols[0]}
				}
				for _, src := range sources {
					for _, tgt := range targets {
						if tgt.FileID == src.FileID {
							continue // intra-file calls skipped
						}
						if tgt.ID == src.ID {
							continue // no self-edges
						}
						edges = append(edges, storage.GraphEdge{
							SourceSymbolID: src.ID,
							TargetSymbolID: tgt.ID,
							EdgeType:       storage.EdgeCalls,
							Weight:         1.0,
							SourceFileID:   src.FileID,
							TargetFileID:   tgt.FileID,
						})
					}
				}
			}
		}
	}

	if err := store.InsertFileDependencies(deps); err != nil {
		return fmt.Errorf("failed to insert file dependencies: %w", err)
	}
	if err := store.InsertGraphEdges(edges); err != nil {
		return fmt.Errorf("failed to insert graph edges: %w", err)
	}
	return nil
}

// stripChunkHeader removes the `// File: ... | Lines: ... | Symbols: ...`
// context header line a chunk was given at persistence time (spec §4.5
// step 3 "after stripping chunk-header lines").
func stripChunkHeader(content string) string {
	if idx := strings.IndexByte(content, '\n'); idx >= 0 {
		return content[idx+1:]
	}
	return content
}

// symbolsReferencing returns the symbols in syms whose body text contains
// name as a whole word (spec §4.5 step 2b).
func symbolsReferencing(syms []SymbolRef, name string) []SymbolRef {
	var out []SymbolRef
	pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
	for _, s := range syms {
		if pattern.MatchString(s.Symbol.Body) {
			out = append(out, s)
		}
	}
	return out
}

// symbolsOverlapping returns the symbols in syms whose line range overlaps
// [startLine, endLine] (spec §4.5 step 3, §9 "accepted as an
// over-approximation" when a chunk spans several symbols).
func symbolsOverlapping(syms []SymbolRef, startLine, endLine int) []SymbolRef {
	var out []SymbolRef
	for _, s := range syms {
		if s.Symbol.Range.StartLine <= endLine && s.Symbol.Range.EndLine >= startLine {
			out = append(out, s)
		}
	}
	return out
}

// resolveLocalImport attempts to resolve an import source as a local path,
// per spec §4.5 step 2a. Only sources starting with "." or "/" are
// considered; anything else (package imports, bare module names) never
// resolves, by design (spec §9 "the import resolver does not consult any
// package resolution configuration").
func resolveLocalImport(fromPath, source string, known map[string]int64) (int64, bool) {
	if source == "" || (source[0] != '.' && source[0] != '/') {
		return 0, false
	}

	dir := path.Dir(fromPath)
	joined := path.Clean(path.Join(dir, source))
	joined = strings.ReplaceAll(joined, "\\", "/")

	candidates := []string{joined}
	for _, ext := range localImportExtensions {
		candidates = append(candidates, joined+ext)
	}
	for _, suf := range localIndexSuffixes {
		candidates = append(candidates, joined+suf)
	}
	for _, ext := range localOtherExtensions {
		candidates = append(candidates, joined+ext)
	}
	if strings.HasSuffix(joined, ".js") || strings.HasSuffix(joined, ".jsx") {
		stem := strings.TrimSuffix(strings.TrimSuffix(joined, ".jsx"), ".js")
		candidates = append(candidates,
			stem+".ts", stem+".tsx",
			stem+"/index.ts", stem+"/index.tsx",
		)
	}

	for _, c := range candidates {
		if id, ok := known[c]; ok {
			return id, true
		}
	}
	return 0, false
}
