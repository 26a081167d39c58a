// Package diff implements the content-addressed incremental diff (spec §4.4).
package diff

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashContent returns the SHA-256 hex digest of the given bytes.
func HashContent(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// DiscoveredFile is a file found on disk during discovery, before any
// content is read.
type DiscoveredFile struct {
	Path string
	Size int64
}

// CachedContent records bytes read while computing the diff, keyed by path,
// so the pipeline's parse phase does not re-read unchanged-or-modified files.
type CachedContent struct {
	Content []byte
	Hash    string
}

// Result partitions discovered files relative to what the metadata store
// already has on record.
type Result struct {
	Added     []string
	Modified  []string
	Unchanged []string
	Removed   []string
}

// ComputeDiff partitions discovered files into added/modified/unchanged and
// computes removed = existingHashes.keys \ discovered.paths.
//
// Fast path: if a discovered file's size differs from the persisted size, it
// is classified modified without reading its bytes. Otherwise the file is
// read, hashed, and the read content is recorded into contentCache so later
// pipeline phases avoid a second read.
func ComputeDiff(
	readFile func(path string) ([]byte, error),
	discovered []DiscoveredFile,
	existingHashes map[string]string,
	existingSizes map[string]int64,
	contentCache map[string]CachedContent,
) (Result, error) {
	var result Result
	seen := make(map[string]bool, len(discovered))

	for _, f := range discovered {
		seen[f.Path] = true
		oldHash, known := existingHashes[f.Path]
		if !known {
			result.Added = append(result.Added, f.Path)
			continue
		}

		if oldSize, ok := existingSizes[f.Path]; ok && oldSize != f.Size {
			result.Modified = append(result.Modified, f.Path)
			continue
		}

		content, err := readFile(f.Path)
		if err != nil {
			return Result{}, err
		}
		hash := HashContent(content)
		contentCache[f.Path] = CachedContent{Content: content, Hash: hash}

		if hash == oldHash {
			result.Unchanged = append(result.Unchanged, f.Path)
		} else {
			result.Modified = append(result.Modified, f.Path)
		}
	}

	for path := range existingHashes {
		if !seen[path] {
			result.Removed = append(result.Removed, path)
		}
	}

	return result, nil
}
