// Package retrieve implements the hybrid Retriever of spec §4.7: vector,
// lexical, and symbol queries fused by reciprocal-rank fusion, deduplicated,
// and token-budgeted.
package retrieve

// Mode selects which underlying source(s) a search consults.
type Mode string

const (
	ModeHybrid Mode = "hybrid"
	ModeVector Mode = "vector"
	ModeKeyword Mode = "keyword"
	ModeSymbol Mode = "symbol"
)

// MatchType records which source produced a SearchResult.
type MatchType string

const (
	MatchVector  MatchType = "vector"
	MatchKeyword MatchType = "keyword"
	MatchSymbol  MatchType = "symbol"
	MatchGraph   MatchType = "graph"
)

// Options configures a Search call (spec §4.7).
type Options struct {
	Mode           Mode
	Limit          int
	TokenBudget    int
	LanguageFilter string
	FileFilter     string
}

// DefaultOptions returns the spec-mandated defaults: mode=hybrid, limit=10,
// tokenBudget=4000.
func DefaultOptions() Options {
	return Options{Mode: ModeHybrid, Limit: 10, TokenBudget: 4000}
}

// withDefaults fills any zero-valued field of opts with its default.
func withDefaults(opts Options) Options {
	if opts.Mode == "" {
		opts.Mode = ModeHybrid
	}
	if opts.Limit <= 0 {
		opts.Limit = 10
	}
	if opts.TokenBudget <= 0 {
		opts.TokenBudget = 4000
	}
	return opts
}

// SearchResult is the Retriever's public result shape (spec §6).
type SearchResult struct {
	FilePath  string
	StartLine int
	EndLine   int
	Content   string
	Score     float64
	MatchType MatchType
	Symbols   []string
	Language  string
}

// fetchLimit is the per-underlying-source fetch count, leaving fusion room
// (spec §4.7: "max(3*limit, 30)").
func fetchLimit(limit int) int {
	if 3*limit > 30 {
		return 3 * limit
	}
	return 30
}
