package pipeline

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/mvp-joe/repo-knowledge/internal/storage"
)

// generateSummaries builds file, directory, and project heuristic summaries
// (spec §3, §4.8 step 10). No learned model is involved: each summary is
// assembled from the symbols and files already on record.
func (p *Pipeline) generateSummaries() error {
	files, err := p.metadata.AllFiles()
	if err != nil {
		return err
	}

	byDir := make(map[string][]storage.File)
	languageCounts := make(map[string]int)
	totalSymbols := 0

	for _, f := range files {
		byDir[f.ModulePath] = append(byDir[f.ModulePath], f)
		languageCounts[f.Language]++

		syms, err := p.metadata.SymbolsByFile(f.ID)
		if err != nil {
			return err
		}
		totalSymbols += len(syms)

		summary := fileSummary(f, syms)
		if err := p.metadata.UpsertSummary(&storage.Summary{
			ScopeType:  storage.ScopeFile,
			ScopeID:    f.Path,
			Content:    summary,
			TokenCount: estimateTokens(summary),
		}); err != nil {
			return fmt.Errorf("failed to persist file summary for %s: %w", f.Path, err)
		}
	}

	for dir, dirFiles := range byDir {
		summary := directorySummary(dir, dirFiles)
		scopeID := dir
		if scopeID == "" {
			scopeID = "."
		}
		if err := p.metadata.UpsertSummary(&storage.Summary{
			ScopeType:  storage.ScopeDirectory,
			ScopeID:    scopeID,
			Content:    summary,
			TokenCount: estimateTokens(summary),
		}); err != nil {
			return fmt.Errorf("failed to persist directory summary for %s: %w", scopeID, err)
		}
	}

	projectSummary := projectSummary(len(files), totalSymbols, languageCounts)
	if err := p.metadata.UpsertSummary(&storage.Summary{
		ScopeType:  storage.ScopeProject,
		ScopeID:    "root",
		Content:    projectSummary,
		TokenCount: estimateTokens(projectSummary),
	}); err != nil {
		return fmt.Errorf("failed to persist project summary: %w", err)
	}

	return nil
}

// estimateTokens mirrors the chunker's ceil(len/3.5) estimate (spec §4.3).
func estimateTokens(text string) int {
	return int(math.Ceil(float64(len(text)) / 3.5))
}

func fileSummary(f storage.File, syms []storage.Symbol) string {
	byKind := make(map[string][]string)
	for _, s := range syms {
		if s.ParentID != nil {
			continue // only top-level symbols describe a file's surface
		}
		byKind[s.Kind] = append(byKind[s.Kind], s.Name)
	}

	kinds := make([]string, 0, len(byKind))
	for k := range byKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	var parts []string
	for _, k := range kinds {
		names := byKind[k]
		sort.Strings(names)
		parts = append(parts, fmt.Sprintf("%d %s (%s)", len(names), pluralize(k, len(names)), strings.Join(names, ", ")))
	}

	if len(parts) == 0 {
		return fmt.Sprintf("%s is a %s file with no extracted symbols.", f.Path, f.Language)
	}
	return fmt.Sprintf("%s (%s): %s.", f.Path, f.Language, strings.Join(parts, "; "))
}

func directorySummary(dir string, files []storage.File) string {
	name := dir
	if name == "" {
		name = "(root)"
	}
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	sort.Strings(paths)
	return fmt.Sprintf("%s contains %d file(s): %s.", name, len(files), strings.Join(paths, ", "))
}

func projectSummary(totalFiles, totalSymbols int, languageCounts map[string]int) string {
	langs := make([]string, 0, len(languageCounts))
	for l := range languageCounts {
		if l == "" {
			continue
		}
		langs = append(langs, l)
	}
	sort.Strings(langs)

	var breakdown []string
	for _, l := range langs {
		breakdown = append(breakdown, fmt.Sprintf("%s: %d", l, languageCounts[l]))
	}

	return fmt.Sprintf("Indexed %d files and %d symbols. Languages: %s.", totalFiles, totalSymbols, strings.Join(breakdown, ", "))
}

func pluralize(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
