package knowledge

import (
	"errors"

	"github.com/mvp-joe/repo-knowledge/internal/config"
)

// Error taxonomy per spec §7. NotInitialized and AlreadyInitialized alias
// the config package's sentinels so a single error value works across both
// packages' call sites.
var (
	// ErrNotInitialized is returned when the data directory is missing.
	ErrNotInitialized = config.ErrNotInitialized

	// ErrAlreadyInitialized is returned when init runs without force and
	// the data directory already exists.
	ErrAlreadyInitialized = config.ErrAlreadyInitialized

	// ErrUnsupportedLanguage is non-fatal per file; symbol extraction is
	// skipped but the file is still chunked and embedded.
	ErrUnsupportedLanguage = errors.New("repo-knowledge: unsupported language")

	// ErrGrammarUnavailable is a warning-level condition: continue without
	// symbols for that file.
	ErrGrammarUnavailable = errors.New("repo-knowledge: tree-sitter grammar unavailable")

	// ErrParseFailure drops symbols and imports for a file but keeps its
	// text searchable.
	ErrParseFailure = errors.New("repo-knowledge: parse failure")

	// ErrEmbeddingFailure is reported with batch bounds and fails the
	// embedding phase of the current pipeline run.
	ErrEmbeddingFailure = errors.New("repo-knowledge: embedding batch failed")

	// ErrDimensionMismatch is fatal at initialization.
	ErrDimensionMismatch = errors.New("repo-knowledge: embedding dimension mismatch")

	// ErrFullTextSyntaxError is swallowed in retrieval; callers never see it.
	ErrFullTextSyntaxError = errors.New("repo-knowledge: full-text query syntax error")

	// ErrInvalidFileFilter is swallowed; the filter degrades to "no filter".
	ErrInvalidFileFilter = errors.New("repo-knowledge: invalid file filter")

	// ErrStoreFailure is propagated upward; the pipeline aborts.
	ErrStoreFailure = errors.New("repo-knowledge: store failure")
)
