package retrieve

import "github.com/mvp-joe/repo-knowledge/internal/storage"

// keywordSearch queries the chunks full-text index (spec §4.7). Full-text
// syntax errors are swallowed, returning an empty result set per spec §7
// FullTextSyntaxError.
func (r *Retriever) keywordSearch(query string, limit int) ([]SearchResult, error) {
	expr := ftsMatchExpr(query)
	if expr == "" {
		return nil, nil
	}

	matches, err := r.metadata.SearchChunksFTS(expr, limit)
	if err != nil {
		return nil, nil
	}
	if len(matches) == 0 {
		return nil, nil
	}

	chunks := make(map[int64]*chunkWithFileID, len(matches))
	fileIDs := make([]int64, 0, len(matches))
	order := make([]int64, 0, len(matches))
	for _, m := range matches {
		chunk, err := r.metadata.ChunkByID(m.ChunkID)
		if err != nil {
			return nil, err
		}
		if chunk == nil {
			continue
		}
		chunks[m.ChunkID] = &chunkWithFileID{chunk: chunk, rank: m.Rank}
		fileIDs = append(fileIDs, chunk.FileID)
		order = append(order, m.ChunkID)
	}

	// Batch-load referenced files to avoid N+1 (spec §4.7).
	files, err := r.metadata.FilesByIDs(fileIDs)
	if err != nil {
		return nil, err
	}

	var out []SearchResult
	for _, chunkID := range order {
		cw := chunks[chunkID]
		file, ok := files[cw.chunk.FileID]
		if !ok {
			continue
		}
		out = append(out, SearchResult{
			FilePath:  file.Path,
			StartLine: cw.chunk.StartLine,
			EndLine:   cw.chunk.EndLine,
			Content:   cw.chunk.Content,
			Score:     1.0 / (1.0 + absFloat(cw.rank)),
			MatchType: MatchKeyword,
			Symbols:   splitSymbolNames(cw.chunk.SymbolNames),
			Language:  file.Language,
		})
	}
	return out, nil
}

type chunkWithFileID struct {
	chunk *storage.Chunk
	rank  float64
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
