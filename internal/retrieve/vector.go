package retrieve

import (
	"context"
	"fmt"
	"regexp"
)

// disallowedLanguageChars matches anything outside [A-Za-z0-9_-], stripped
// before the language predicate is applied (spec §4.7: "sanitize by
// stripping characters outside [A-Za-z0-9_-]"). The vector store binds this
// value as a query parameter rather than interpolating it into raw SQL, so
// the quoting step spec §4.7 describes for a hand-built predicate has no
// counterpart here; the character-stripping half of the rule is preserved.
var disallowedLanguageChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

func sanitizeLanguage(language string) string {
	return disallowedLanguageChars.ReplaceAllString(language, "")
}

// vectorSearch embeds query and runs a nearest-neighbor search against the
// vector store, optionally restricted to languageFilter (spec §4.7).
func (r *Retriever) vectorSearch(ctx context.Context, query string, limit int, languageFilter string) ([]SearchResult, error) {
	embedding, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	matches, err := r.vectors.Query(embedding, limit, sanitizeLanguage(languageFilter))
	if err != nil {
		return nil, fmt.Errorf("failed to query vector store: %w", err)
	}

	var out []SearchResult
	for _, m := range matches {
		chunk, err := r.metadata.ChunkByID(m.ChunkID)
		if err != nil {
			return nil, err
		}
		if chunk == nil {
			continue // orphan vector row; metadata store is authoritative (spec §3)
		}
		file, err := r.metadata.FileByID(chunk.FileID)
		if err != nil {
			return nil, err
		}
		if file == nil {
			continue
		}

		score := 0.0
		if m.Distance >= 0 {
			score = 1.0 / (1.0 + m.Distance)
		}

		out = append(out, SearchResult{
			FilePath:  file.Path,
			StartLine: chunk.StartLine,
			EndLine:   chunk.EndLine,
			Content:   chunk.Content,
			Score:     score,
			MatchType: MatchVector,
			Symbols:   splitSymbolNames(chunk.SymbolNames),
			Language:  file.Language,
		})
	}
	return out, nil
}
