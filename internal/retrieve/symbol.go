package retrieve

// symbolSearch queries the symbols full-text index, scoring by importance
// rather than rank (spec §4.7: "score = min(importance + 0.1, 1.0)"). Each
// result carries the symbol's own declared line range. Its content is the
// first chunk of the owning file that contains the symbol's start line; if
// none does, the content is the symbol's signature.
func (r *Retriever) symbolSearch(query string, limit int) ([]SearchResult, error) {
	expr := ftsMatchExpr(query)
	if expr == "" {
		return nil, nil
	}

	matches, err := r.metadata.SearchSymbolsFTS(expr, limit)
	if err != nil {
		return nil, nil
	}

	var out []SearchResult
	for _, m := range matches {
		sym, err := r.metadata.SymbolByID(m.SymbolID)
		if err != nil {
			return nil, err
		}
		if sym == nil {
			continue
		}
		file, err := r.metadata.FileByID(sym.FileID)
		if err != nil {
			return nil, err
		}
		if file == nil {
			continue
		}

		content := ""
		if sym.Signature != nil {
			content = *sym.Signature
		}
		chunks, err := r.metadata.ChunksByFile(sym.FileID)
		if err != nil {
			return nil, err
		}
		for _, c := range chunks {
			if sym.StartLine >= c.StartLine && sym.StartLine <= c.EndLine {
				content = c.Content
				break
			}
		}

		score := sym.Importance + 0.1
		if score > 1.0 {
			score = 1.0
		}

		out = append(out, SearchResult{
			FilePath:  file.Path,
			StartLine: sym.StartLine,
			EndLine:   sym.EndLine,
			Content:   content,
			Score:     score,
			MatchType: MatchSymbol,
			Symbols:   []string{sym.Name},
			Language:  file.Language,
		})
	}
	return out, nil
}
