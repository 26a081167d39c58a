package pipeline

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"
	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/mvp-joe/repo-knowledge/internal/config"
	"github.com/mvp-joe/repo-knowledge/internal/diff"
	"github.com/mvp-joe/repo-knowledge/internal/langdetect"
)

// maxFileBytes is the per-file size cap applied during discovery (spec
// §4.8 step 1: "a 1 MiB per-file cap").
const maxFileBytes = 1 << 20

// Discover walks root honoring the default ignore set, .gitignore if
// present, and config-supplied ignore patterns, applying the 1 MiB per-file
// cap and excluding zero-size files, then filtering to known extensions and
// sorting by path for determinism (spec §4.8 step 1).
func Discover(root string, ignorePatterns []string) ([]diff.DiscoveredFile, error) {
	patterns := append([]string(nil), config.DefaultIgnorePatterns...)
	patterns = append(patterns, ignorePatterns...)

	var globs []glob.Glob
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			continue // an invalid ignore pattern is skipped, not fatal
		}
		globs = append(globs, g)
	}

	var gi *gitignore.GitIgnore
	if _, err := os.Stat(filepath.Join(root, ".gitignore")); err == nil {
		gi, _ = gitignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	}

	var out []diff.DiscoveredFile

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		relPath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if matchesAny(globs, relPath+"/**") || matchesAny(globs, relPath) || (gi != nil && gi.MatchesPath(relPath)) {
				return fs.SkipDir
			}
			return nil
		}

		if matchesAny(globs, relPath) || (gi != nil && gi.MatchesPath(relPath)) {
			return nil
		}

		if langdetect.Detect(relPath) == langdetect.None {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		size := info.Size()
		if size == 0 || size > maxFileBytes {
			return nil
		}

		out = append(out, diff.DiscoveredFile{Path: relPath, Size: size})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func matchesAny(globs []glob.Glob, path string) bool {
	for _, g := range globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}

