package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/repo-knowledge/internal/config"
	"github.com/mvp-joe/repo-knowledge/internal/knowledge"
	"github.com/mvp-joe/repo-knowledge/internal/pipeline"
)

var (
	indexFull      bool
	indexSummaries bool
)

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Index a repository",
	Long: `Index walks the repository at path (default the current directory),
diffs it against the existing store, and persists files, symbols, chunks,
embeddings, and the symbol graph. The data directory is created on first run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().BoolVar(&indexFull, "full", false, "force a full re-index, clearing all stores first")
	indexCmd.Flags().BoolVar(&indexSummaries, "summaries", false, "generate file/directory/project summaries")
}

func runIndex(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	repo, err := knowledge.Open(root)
	if errors.Is(err, config.ErrNotInitialized) {
		repo, err = knowledge.Init(root, nil, false)
	}
	if err != nil {
		return fmt.Errorf("failed to open repository at %s: %w", root, err)
	}
	defer repo.Close()

	result, err := repo.Index(context.Background(), pipeline.Options{
		Full:      indexFull,
		Summaries: indexSummaries,
		OnEmbedProgress: func(done, total int) {
			fmt.Fprintf(os.Stderr, "\rembedding %d/%d", done, total)
			if done == total {
				fmt.Fprintln(os.Stderr)
			}
		},
	})
	if err != nil {
		return fmt.Errorf("index failed: %w", err)
	}

	fmt.Printf("run=%s added=%d modified=%d unchanged=%d removed=%d files=%d chunks=%d (%s)\n",
		result.RunID, result.Added, result.Modified, result.Unchanged, result.Removed,
		result.TotalFiles, result.TotalChunks, result.Duration)
	return nil
}
