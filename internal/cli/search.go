package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/repo-knowledge/internal/knowledge"
	"github.com/mvp-joe/repo-knowledge/internal/retrieve"
)

var (
	searchRoot      string
	searchMode      string
	searchLimit     int
	searchBudget    int
	searchLanguage  string
	searchFileGlob  string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search an indexed repository",
	Long: `Search runs a hybrid (vector + keyword + symbol) query by default, fuses
the results by reciprocal rank, deduplicates overlapping line ranges, and
prints the matches sized to --budget estimated tokens.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVar(&searchRoot, "path", ".", "repository root")
	searchCmd.Flags().StringVar(&searchMode, "mode", "hybrid", "search mode: hybrid, vector, keyword, symbol")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "maximum results")
	searchCmd.Flags().IntVar(&searchBudget, "budget", 0, "token budget (0 disables truncation)")
	searchCmd.Flags().StringVar(&searchLanguage, "language", "", "restrict vector search to one language")
	searchCmd.Flags().StringVar(&searchFileGlob, "file", "", "glob filter on result file paths")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	repo, err := knowledge.Open(searchRoot)
	if err != nil {
		return fmt.Errorf("failed to open repository at %s: %w", searchRoot, err)
	}
	defer repo.Close()

	mode, err := parseMode(searchMode)
	if err != nil {
		return err
	}

	results, err := repo.Search(context.Background(), query, retrieve.Options{
		Mode:           mode,
		Limit:          searchLimit,
		TokenBudget:    searchBudget,
		LanguageFilter: searchLanguage,
		FileFilter:     searchFileGlob,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchBudget > 0 {
		results = retrieve.ApplyTokenBudget(results, searchBudget)
	}

	for _, r := range results {
		fmt.Printf("%s:%d-%d  score=%.4f  %s\n", r.FilePath, r.StartLine, r.EndLine, r.Score, r.MatchType)
		fmt.Println(r.Content)
		fmt.Println("---")
	}
	return nil
}

func parseMode(s string) (retrieve.Mode, error) {
	switch s {
	case "hybrid", "":
		return retrieve.ModeHybrid, nil
	case "vector":
		return retrieve.ModeVector, nil
	case "keyword":
		return retrieve.ModeKeyword, nil
	case "symbol":
		return retrieve.ModeSymbol, nil
	default:
		return "", fmt.Errorf("unknown search mode %q", s)
	}
}
