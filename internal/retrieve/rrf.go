package retrieve

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// rrfK is the reciprocal-rank-fusion constant (spec §4.7, §8: "Fusion
// correctness").
const rrfK = 60

// weightedSource is one ranked result list and its fusion weight.
type weightedSource struct {
	results []SearchResult
	weight  float64
}

type fusedEntry struct {
	key   string
	score float64
	best  SearchResult
}

// fuse combines ranked result lists via reciprocal rank fusion: for each
// source, rank r (0-based) contributes weight/(k+r+1) to the key
// "<filePath>:<startLine>-<endLine>" (spec §4.7, §8). Duplicate keys across
// sources accumulate score and keep the longer-content representative.
// Results are returned sorted by fused score, descending.
func fuse(sources ...weightedSource) []SearchResult {
	index := make(map[string]int)
	var entries []*fusedEntry

	for _, src := range sources {
		for rank, result := range src.results {
			key := fusionKey(result)
			contribution := src.weight / float64(rrfK+rank+1)

			if i, ok := index[key]; ok {
				e := entries[i]
				e.score += contribution
				if len(result.Content) > len(e.best.Content) {
					e.best = result
				}
				continue
			}
			index[key] = len(entries)
			entries = append(entries, &fusedEntry{key: key, score: contribution, best: result})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].score > entries[j].score
	})

	out := make([]SearchResult, len(entries))
	for i, e := range entries {
		r := e.best
		r.Score = e.score
		out[i] = r
	}
	return out
}

func fusionKey(r SearchResult) string {
	return fmt.Sprintf("%s:%d-%d", r.FilePath, r.StartLine, r.EndLine)
}

// deduplicate iterates results in their given (score-sorted) order and
// drops any result whose (filePath, startLine..endLine) interval overlaps
// an interval already kept (spec §4.7, §8).
func deduplicate(results []SearchResult) []SearchResult {
	kept := make([]SearchResult, 0, len(results))
	keptByFile := make(map[string][][2]int)

	for _, r := range results {
		overlaps := false
		for _, iv := range keptByFile[r.FilePath] {
			if r.StartLine <= iv[1] && r.EndLine >= iv[0] {
				overlaps = true
				break
			}
		}
		if overlaps {
			continue
		}
		kept = append(kept, r)
		keptByFile[r.FilePath] = append(keptByFile[r.FilePath], [2]int{r.StartLine, r.EndLine})
	}
	return kept
}

// globToRegex converts a glob pattern to an anchored regex per spec §4.7:
// escape regex metacharacters, then replace "**" -> ".*", "*" -> "[^/]*",
// "?" -> "[^/]".
func globToRegex(glob string) (*regexp.Regexp, error) {
	escaped := regexp.QuoteMeta(glob)
	// QuoteMeta escapes '*' and '?' as \* and \?; undo that so the
	// placeholder substitution below operates on the original wildcards.
	escaped = strings.ReplaceAll(escaped, `\*`, "*")
	escaped = strings.ReplaceAll(escaped, `\?`, "?")

	const (
		doubleStarPlaceholder = "\x00DOUBLESTAR\x00"
	)
	pattern := strings.ReplaceAll(escaped, "**", doubleStarPlaceholder)
	pattern = strings.ReplaceAll(pattern, "*", "[^/]*")
	pattern = strings.ReplaceAll(pattern, "?", "[^/]")
	pattern = strings.ReplaceAll(pattern, doubleStarPlaceholder, ".*")

	return regexp.Compile("^" + pattern + "$")
}

// filterByFile filters results by full-match against filePath, after
// converting pattern to a regex. Invalid patterns silently pass through
// (spec §7 InvalidFileFilter).
func filterByFile(results []SearchResult, pattern string) []SearchResult {
	if pattern == "" {
		return results
	}
	re, err := globToRegex(pattern)
	if err != nil {
		return results
	}
	var out []SearchResult
	for _, r := range results {
		if re.MatchString(r.FilePath) {
			out = append(out, r)
		}
	}
	return out
}
