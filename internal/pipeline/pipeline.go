// Package pipeline implements the indexing pipeline of spec §4.8: discover,
// diff, parse/extract, chunk, persist, embed, store vectors, build the graph,
// rank, summarize, and record state, as one sequence invoked by both `index`
// and any future watch mode.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/mvp-joe/repo-knowledge/internal/chunk"
	"github.com/mvp-joe/repo-knowledge/internal/config"
	"github.com/mvp-joe/repo-knowledge/internal/diff"
	"github.com/mvp-joe/repo-knowledge/internal/embedprovider"
	"github.com/mvp-joe/repo-knowledge/internal/graph"
	"github.com/mvp-joe/repo-knowledge/internal/parse"
	"github.com/mvp-joe/repo-knowledge/internal/storage"
	"github.com/mvp-joe/repo-knowledge/internal/symbols"
)

// embedBatchSize is the number of chunk texts sent to the embedding
// provider per call (spec §4.8 step 6: "batches of 16").
const embedBatchSize = 16

// ProgressFunc reports embedding progress as (completed, total) chunks.
type ProgressFunc func(done, total int)

// Options configures one pipeline run (spec §4.8).
type Options struct {
	// Full forces a full re-index: every store is cleared first and every
	// discovered file is treated as added (spec §4.8 step 2).
	Full bool
	// Summaries requests phase 10 (file/directory/project summaries), which
	// is otherwise skipped (spec §4.8 step 10: "only when requested").
	Summaries bool
	// OnEmbedProgress, if set, is called after each embedding batch.
	OnEmbedProgress ProgressFunc
}

// Result reports what one pipeline run did.
type Result struct {
	// RunID identifies this run for log correlation, generated the way the
	// teacher generates surrogate identifiers for its own graph tables
	// (internal/storage/graph_writer.go: uuid.New().String()).
	RunID       string
	Added       int
	Modified    int
	Unchanged   int
	Removed     int
	TotalFiles  int
	TotalChunks int
	Duration    time.Duration
}

// Pipeline wires the stores, parser, registry, chunker, and embedding
// provider needed to run spec §4.8's eleven-step indexing sequence.
type Pipeline struct {
	cfg      *config.Config
	metadata *storage.MetadataStore
	vectors  *storage.VectorStore
	parser   parse.Parser
	registry *symbols.Registry
	chunker  chunk.Chunker
	embedder embedprovider.Provider
}

// New returns a Pipeline over the given config, stores, and collaborators.
func New(cfg *config.Config, metadata *storage.MetadataStore, vectors *storage.VectorStore, parser parse.Parser, registry *symbols.Registry, chunker chunk.Chunker, embedder embedprovider.Provider) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		metadata: metadata,
		vectors:  vectors,
		parser:   parser,
		registry: registry,
		chunker:  chunker,
		embedder: embedder,
	}
}

// Run executes the full indexing sequence and returns a summary (spec §4.8).
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	runID := uuid.New().String()

	if opts.Full {
		if err := p.metadata.ClearAll(); err != nil {
			return nil, fmt.Errorf("failed to clear metadata store for full index: %w", err)
		}
		if err := p.vectors.Reset(); err != nil {
			return nil, fmt.Errorf("failed to reset vector store for full index: %w", err)
		}
	}

	// Step 1: discover.
	discovered, err := Discover(p.cfg.ProjectRoot, p.cfg.IgnorePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}

	// Step 2: diff. A full index runs the identical diff against the
	// now-empty store, which classifies every discovered file as added.
	existingHashes, err := p.metadata.ExistingFileHashes()
	if err != nil {
		return nil, err
	}
	existingSizes, err := p.metadata.ExistingFileSizes()
	if err != nil {
		return nil, err
	}
	contentCache := make(map[string]diff.CachedContent)
	readFile := func(path string) ([]byte, error) {
		return os.ReadFile(filepath.Join(p.cfg.ProjectRoot, path))
	}
	diffResult, err := diff.ComputeDiff(readFile, discovered, existingHashes, existingSizes, contentCache)
	if err != nil {
		return nil, fmt.Errorf("failed to compute diff: %w", err)
	}

	if err := p.retireFiles(diffResult.Removed, true); err != nil {
		return nil, err
	}
	if err := p.retireFiles(diffResult.Modified, false); err != nil {
		return nil, err
	}

	// Steps 3-5: parse/extract, chunk, and persist metadata, one file at a
	// time so a single bad file cannot lose the whole batch's progress.
	toIndex := append(append([]string(nil), diffResult.Added...), diffResult.Modified...)
	parsedFiles, pendingChunks, err := p.indexFiles(toIndex, contentCache)
	if err != nil {
		return nil, err
	}

	if err := p.metadata.RebuildFullText(); err != nil {
		return nil, fmt.Errorf("failed to rebuild full-text indexes: %w", err)
	}

	// Step 6-7: embed and store vectors.
	if len(pendingChunks) > 0 {
		if err := p.embedAndStore(ctx, pendingChunks, opts.OnEmbedProgress); err != nil {
			return nil, err
		}
	}

	// Step 8-9: graph and rank. Both are skipped when no file was added,
	// modified, or removed in this run.
	if len(parsedFiles) > 0 || len(diffResult.Removed) > 0 {
		if err := graph.BuildGraph(p.metadata, parsedFiles); err != nil {
			return nil, fmt.Errorf("failed to build graph: %w", err)
		}
		if err := graph.Rank(p.metadata); err != nil {
			return nil, fmt.Errorf("failed to rank symbols: %w", err)
		}
	}

	// Step 10: summaries, only when requested.
	if opts.Summaries {
		if err := p.generateSummaries(); err != nil {
			return nil, fmt.Errorf("failed to generate summaries: %w", err)
		}
	}

	// Step 11: state.
	allFiles, err := p.metadata.AllFiles()
	if err != nil {
		return nil, err
	}
	totalChunks := 0
	for _, f := range allFiles {
		chunks, err := p.metadata.ChunksByFile(f.ID)
		if err != nil {
			return nil, err
		}
		totalChunks += len(chunks)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if err := p.metadata.SetState(storage.StateLastIndexed, now); err != nil {
		return nil, err
	}
	if err := p.metadata.SetState(storage.StateEmbeddingModel, p.embedder.ModelID()); err != nil {
		return nil, err
	}
	if err := p.metadata.SetState(storage.StateTotalFiles, fmt.Sprint(len(allFiles))); err != nil {
		return nil, err
	}
	if err := p.metadata.SetState(storage.StateTotalChunks, fmt.Sprint(totalChunks)); err != nil {
		return nil, err
	}
	if opts.Full {
		if err := p.metadata.SetState(storage.StateLastFullIndex, now); err != nil {
			return nil, err
		}
	}

	return &Result{
		RunID:       runID,
		Added:       len(diffResult.Added),
		Modified:    len(diffResult.Modified),
		Unchanged:   len(diffResult.Unchanged),
		Removed:     len(diffResult.Removed),
		TotalFiles:  len(allFiles),
		TotalChunks: totalChunks,
		Duration:    time.Since(start),
	}, nil
}

// retireFiles invalidates a modified or removed file's prior chunks and
// their embeddings before re-indexing or dropping it (spec §4.8 step 2).
// deleteFile additionally removes the file row itself.
func (p *Pipeline) retireFiles(paths []string, deleteFile bool) error {
	for _, path := range paths {
		fileID, ok, err := p.metadata.GetFileIDByPath(path)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		chunks, err := p.metadata.ChunksByFile(fileID)
		if err != nil {
			return err
		}
		if len(chunks) > 0 {
			ids := make([]int64, len(chunks))
			for i, c := range chunks {
				ids[i] = c.ID
			}
			if err := p.vectors.DeleteByChunkIDs(ids); err != nil {
				return fmt.Errorf("failed to delete embeddings for %s: %w", path, err)
			}
		}
		if deleteFile {
			if err := p.metadata.DeleteFile(path); err != nil {
				return fmt.Errorf("failed to delete file %s: %w", path, err)
			}
		} else {
			if err := p.metadata.ClearFileContents(fileID); err != nil {
				return fmt.Errorf("failed to clear contents of %s: %w", path, err)
			}
		}
	}
	return nil
}
