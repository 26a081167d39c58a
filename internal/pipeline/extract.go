package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mvp-joe/repo-knowledge/internal/diff"
	"github.com/mvp-joe/repo-knowledge/internal/graph"
	"github.com/mvp-joe/repo-knowledge/internal/langdetect"
	"github.com/mvp-joe/repo-knowledge/internal/storage"
	"github.com/mvp-joe/repo-knowledge/internal/symbols"
)

// pendingChunk is one newly-persisted chunk awaiting an embedding (spec
// §4.8 steps 5-6).
type pendingChunk struct {
	ChunkID  int64
	Content  string
	Language string
}

// indexFiles runs steps 3-5 of spec §4.8 (parse/extract, chunk, persist
// metadata) for each path in paths, returning the graph builder's input and
// the chunks that still need embeddings.
func (p *Pipeline) indexFiles(paths []string, contentCache map[string]diff.CachedContent) ([]graph.ParsedFile, []pendingChunk, error) {
	if err := p.parser.Initialize(); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize parser: %w", err)
	}

	var parsedFiles []graph.ParsedFile
	var pending []pendingChunk

	for _, path := range paths {
		content, err := p.readContent(path, contentCache)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		lang := langdetect.Detect(path)
		var fsyms symbols.FileSymbols
		if langdetect.IsCode(lang) {
			// Grammar-unavailable or parse-failure degrades to a file with
			// no symbols: it is still chunked and embedded for full-text and
			// vector search (spec §7 GrammarUnavailable, ParseFailure).
			if tree, perr := p.parser.Parse(content, lang); perr == nil && tree != nil {
				if extractor := p.registry.For(lang); extractor != nil {
					fsyms = extractor.Extract(tree.Root, content)
				}
				tree.Close()
			}
		}

		fileID, err := p.persistFile(path, content, lang, fsyms)
		if err != nil {
			return nil, nil, err
		}

		symRefs, err := p.persistSymbols(fileID, fsyms.Symbols)
		if err != nil {
			return nil, nil, err
		}

		chunks, err := p.persistChunks(fileID, path, string(content), fsyms.Symbols)
		if err != nil {
			return nil, nil, err
		}
		for _, c := range chunks {
			pending = append(pending, pendingChunk{ChunkID: c.ID, Content: c.Content, Language: string(lang)})
		}

		parsedFiles = append(parsedFiles, graph.ParsedFile{
			FileID:  fileID,
			Path:    path,
			Symbols: symRefs,
			Imports: fsyms.Imports,
		})
	}

	return parsedFiles, pending, nil
}

func (p *Pipeline) readContent(path string, cache map[string]diff.CachedContent) ([]byte, error) {
	if c, ok := cache[path]; ok {
		return c.Content, nil
	}
	return os.ReadFile(filepath.Join(p.cfg.ProjectRoot, path))
}

// persistFile upserts the file record (spec §4.8 step 5). The line count is
// len(strings.Split(content, "\n")), minus one for files ending in a newline
// so the trailing empty element is not counted.
func (p *Pipeline) persistFile(path string, content []byte, lang langdetect.Language, fsyms symbols.FileSymbols) (int64, error) {
	text := string(content)
	lineCount := len(strings.Split(text, "\n"))
	if strings.HasSuffix(text, "\n") {
		lineCount--
	}

	f := &storage.File{
		Path:        path,
		Language:    string(lang),
		ModulePath:  filePathDir(path),
		SizeBytes:   int64(len(content)),
		ContentHash: diff.HashContent(content),
		LastIndexed: time.Now().UTC().Format(time.RFC3339),
		LineCount:   lineCount,
	}
	fileID, err := p.metadata.UpsertFile(f)
	if err != nil {
		return 0, fmt.Errorf("failed to persist file %s: %w", path, err)
	}
	return fileID, nil
}

// persistSymbols inserts fsyms.Symbols for fileID, resolves parent_id links,
// and returns them joined with their assigned ids for the graph builder.
func (p *Pipeline) persistSymbols(fileID int64, syms []symbols.Symbol) ([]graph.SymbolRef, error) {
	if len(syms) == 0 {
		return nil, nil
	}

	dbSyms := make([]storage.Symbol, len(syms))
	parentNames := make([]string, len(syms))
	for i, s := range syms {
		var sig, doc *string
		if s.Signature != "" {
			sig = &s.Signature
		}
		if s.Docstring != "" {
			doc = &s.Docstring
		}
		dbSyms[i] = storage.Symbol{
			FileID:    fileID,
			Name:      s.Name,
			Kind:      string(s.Kind),
			Signature: sig,
			StartLine: s.Range.StartLine,
			StartCol:  s.Range.StartCol,
			EndLine:   s.Range.EndLine,
			EndCol:    s.Range.EndCol,
			Docstring: doc,
			Exported:  s.Exported,
		}
		parentNames[i] = s.ParentName
	}

	ids, err := p.metadata.InsertSymbols(fileID, dbSyms)
	if err != nil {
		return nil, fmt.Errorf("failed to insert symbols for file %d: %w", fileID, err)
	}
	if err := p.metadata.ResolveParents(fileID, ids, parentNames); err != nil {
		return nil, fmt.Errorf("failed to resolve symbol parents for file %d: %w", fileID, err)
	}

	refs := make([]graph.SymbolRef, len(syms))
	for i, s := range syms {
		refs[i] = graph.SymbolRef{ID: ids[i], FileID: fileID, Symbol: s}
	}
	return refs, nil
}

// persistChunks chunks source along symbol boundaries and inserts the
// result, returning each chunk's assigned id alongside its content.
func (p *Pipeline) persistChunks(fileID int64, path, source string, syms []symbols.Symbol) ([]storage.Chunk, error) {
	chunks := p.chunker.Chunk(path, source, syms, p.cfg.ChunkMaxTokens)
	if len(chunks) == 0 {
		return nil, nil
	}

	dbChunks := make([]storage.Chunk, len(chunks))
	for i, c := range chunks {
		dbChunks[i] = storage.Chunk{
			FileID:      fileID,
			ChunkIndex:  c.Index,
			Content:     c.Content,
			ContentHash: diff.HashContent([]byte(c.Content)),
			StartLine:   c.StartLine,
			EndLine:     c.EndLine,
			SymbolNames: strings.Join(c.SymbolNames, " "),
			TokenCount:  c.TokenCount,
		}
	}

	ids, err := p.metadata.InsertChunks(fileID, dbChunks)
	if err != nil {
		return nil, fmt.Errorf("failed to insert chunks for file %d: %w", fileID, err)
	}
	for i := range dbChunks {
		dbChunks[i].ID = ids[i]
	}
	return dbChunks, nil
}

func filePathDir(path string) string {
	dir := filepath.ToSlash(filepath.Dir(path))
	if dir == "." {
		return ""
	}
	return dir
}
