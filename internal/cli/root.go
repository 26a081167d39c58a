// Package cli implements the thin repo-knowledge command surface: two
// verbs, `index` and `search`, over the internal/knowledge.Repository
// facade. Argument parsing is intentionally minimal per spec §1 ("CLI
// argument parsing surface" is out of scope); this package exists only
// because every teacher-style repo ships a runnable binary.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands,
// matching the teacher's internal/cli/root.go shape.
var rootCmd = &cobra.Command{
	Use:   "repo-knowledge",
	Short: "Index a repository and retrieve token-efficient code context",
	Long: `repo-knowledge indexes a source tree into a dual store (SQLite metadata
plus a sqlite-vec vector index) and serves hybrid vector/keyword/symbol
search results sized to a token budget.`,
}

// Execute adds all child commands to the root command and runs it. Called
// once by main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
