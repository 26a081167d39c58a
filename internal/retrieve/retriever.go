package retrieve

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mvp-joe/repo-knowledge/internal/embedprovider"
	"github.com/mvp-joe/repo-knowledge/internal/storage"
)

// Retriever runs vector, lexical, and symbol queries against the dual store
// and fuses them per spec §4.7.
type Retriever struct {
	metadata *storage.MetadataStore
	vectors  *storage.VectorStore
	embedder embedprovider.Provider
}

// New returns a Retriever backed by the given stores and embedding
// provider.
func New(metadata *storage.MetadataStore, vectors *storage.VectorStore, embedder embedprovider.Provider) *Retriever {
	return &Retriever{metadata: metadata, vectors: vectors, embedder: embedder}
}

// Search runs query under opts, dispatching to the requested mode(s) and
// fusing, deduplicating, and limiting the result (spec §4.7). Token-budget
// enforcement is left to the caller that formats output, per spec §4.7.
func (r *Retriever) Search(ctx context.Context, query string, opts Options) ([]SearchResult, error) {
	opts = withDefaults(opts)
	fetch := fetchLimit(opts.Limit)

	var results []SearchResult
	var err error

	switch opts.Mode {
	case ModeVector:
		results, err = r.vectorSearch(ctx, query, fetch, opts.LanguageFilter)
	case ModeKeyword:
		results, err = r.keywordSearch(query, fetch)
	case ModeSymbol:
		results, err = r.symbolSearch(query, fetch)
	case ModeHybrid:
		results, err = r.hybridSearch(ctx, query, fetch, opts.LanguageFilter)
	default:
		return nil, fmt.Errorf("unknown search mode %q", opts.Mode)
	}
	if err != nil {
		return nil, err
	}

	results = filterByFile(results, opts.FileFilter)
	results = deduplicate(results)

	if len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results, nil
}

// hybridSearch runs vector, keyword, and symbol concurrently (spec §5) and
// fuses them with weights 0.5/0.3/0.2 (spec §4.7).
func (r *Retriever) hybridSearch(ctx context.Context, query string, fetch int, languageFilter string) ([]SearchResult, error) {
	var wg sync.WaitGroup
	var vecResults, kwResults, symResults []SearchResult
	var vecErr, kwErr, symErr error

	wg.Add(3)
	go func() {
		defer wg.Done()
		vecResults, vecErr = r.vectorSearch(ctx, query, fetch, languageFilter)
	}()
	go func() {
		defer wg.Done()
		kwResults, kwErr = r.keywordSearch(query, fetch)
	}()
	go func() {
		defer wg.Done()
		symResults, symErr = r.symbolSearch(query, fetch)
	}()
	wg.Wait()

	if vecErr != nil {
		return nil, vecErr
	}
	if kwErr != nil {
		return nil, kwErr
	}
	if symErr != nil {
		return nil, symErr
	}

	return fuse(
		weightedSource{results: vecResults, weight: 0.5},
		weightedSource{results: kwResults, weight: 0.3},
		weightedSource{results: symResults, weight: 0.2},
	), nil
}

// tokenizeQuery applies the shared full-text tokenization rule: replace
// FTS5/query-special characters with spaces, split on whitespace, and
// discard tokens shorter than 2 characters (spec §4.7 keyword/symbol
// search).
func tokenizeQuery(query string) []string {
	replacer := strings.NewReplacer(
		"'", " ", `"`, " ", "(", " ", ")", " ", "{", " ", "}", " ",
		"[", " ", "]", " ", "^", " ", "~", " ", "*", " ", "?", " ",
		":", " ", "\\", " ", "!", " ",
	)
	cleaned := replacer.Replace(query)
	var tokens []string
	for _, tok := range strings.Fields(cleaned) {
		if len(tok) >= 2 {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// ftsMatchExpr joins survivors with " OR ", or returns "" if none survive.
func ftsMatchExpr(query string) string {
	tokens := tokenizeQuery(query)
	if len(tokens) == 0 {
		return ""
	}
	return strings.Join(tokens, " OR ")
}

func splitSymbolNames(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}
