package retrieve

import "math"

// overheadTokens is the per-result bookkeeping cost added on top of a
// result's own estimated token count (spec §4.7).
const overheadTokens = 20

// estimateTokens mirrors the chunker's token estimate (spec §4.3, §4.7):
// ceil(len(text)/3.5).
func estimateTokens(text string) int {
	return int(math.Ceil(float64(len(text)) / 3.5))
}

// ApplyTokenBudget enforces budget over results, in order, per spec §4.7.
// This is deliberately not part of Search: the spec assigns token-budget
// enforcement to "the caller that formats output, not the retriever
// itself".
func ApplyTokenBudget(results []SearchResult, budget int) []SearchResult {
	var out []SearchResult
	used := 0

	for _, r := range results {
		cost := estimateTokens(r.Content) + overheadTokens
		if used+cost <= budget {
			out = append(out, r)
			used += cost
			continue
		}

		remaining := budget - used
		if remaining > 100 {
			truncateLen := 3 * remaining
			content := r.Content
			if truncateLen < len(content) {
				content = content[:truncateLen] + "\n// ... (truncated)"
			}
			r.Content = content
			out = append(out, r)
		}
		break
	}
	return out
}
