// Package knowledge exposes the Repository facade (spec §6 expansion):
// config, both stores, the pipeline, and the retriever glued together the
// way the teacher's top-level internal/indexer.Indexer/Searcher facade
// wires its own collaborators.
package knowledge

import (
	"context"
	"fmt"

	"github.com/mvp-joe/repo-knowledge/internal/chunk"
	"github.com/mvp-joe/repo-knowledge/internal/config"
	"github.com/mvp-joe/repo-knowledge/internal/embedprovider"
	"github.com/mvp-joe/repo-knowledge/internal/parse"
	"github.com/mvp-joe/repo-knowledge/internal/pipeline"
	"github.com/mvp-joe/repo-knowledge/internal/retrieve"
	"github.com/mvp-joe/repo-knowledge/internal/storage"
	"github.com/mvp-joe/repo-knowledge/internal/symbols"
)

// Repository is the single entry point a CLI or agent-facing adaptor needs:
// it owns both stores for the lifetime of the process and exposes Index and
// Search.
type Repository struct {
	cfg      *config.Config
	metadata *storage.MetadataStore
	vectors  *storage.VectorStore
	embedder embedprovider.Provider
	pipe     *pipeline.Pipeline
	retr     *retrieve.Retriever
}

// Init creates a new data directory under projectRoot (spec §7
// AlreadyInitialized if one exists and force is false) and returns an open
// Repository.
func Init(projectRoot string, overrides *config.Config, force bool) (*Repository, error) {
	cfg, err := config.Init(projectRoot, overrides, force)
	if err != nil {
		return nil, err
	}
	return open(cfg)
}

// Open loads an existing data directory (spec §7 NotInitialized if absent).
func Open(projectRoot string) (*Repository, error) {
	cfg, err := config.NewLoader().Load(projectRoot)
	if err != nil {
		return nil, err
	}
	return open(cfg)
}

func open(cfg *config.Config) (*Repository, error) {
	metadata, err := storage.Open(cfg.MetadataDBPath())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}

	vectorPath := cfg.VectorsDir() + "/" + cfg.EmbeddingModel + ".db"
	vectors, err := storage.OpenVectorStore(vectorPath, cfg.EmbeddingDimensions)
	if err != nil {
		metadata.Close()
		return nil, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}

	embedder := embedprovider.NewProvider(cfg.EmbeddingModel, cfg.EmbeddingDimensions)
	parser := parse.NewParser()
	registry := symbols.NewRegistry()
	chunker := chunk.New()

	return &Repository{
		cfg:      cfg,
		metadata: metadata,
		vectors:  vectors,
		embedder: embedder,
		pipe:     pipeline.New(cfg, metadata, vectors, parser, registry, chunker, embedder),
		retr:     retrieve.New(metadata, vectors, embedder),
	}, nil
}

// Close releases both store connections and the embedding provider.
func (r *Repository) Close() error {
	var firstErr error
	if err := r.embedder.Dispose(); err != nil {
		firstErr = err
	}
	if err := r.vectors.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := r.metadata.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Index runs one pipeline pass (spec §4.8).
func (r *Repository) Index(ctx context.Context, opts pipeline.Options) (*pipeline.Result, error) {
	return r.pipe.Run(ctx, opts)
}

// Search runs a retrieval query (spec §4.7).
func (r *Repository) Search(ctx context.Context, query string, opts retrieve.Options) ([]retrieve.SearchResult, error) {
	return r.retr.Search(ctx, query, opts)
}

// Config returns the loaded configuration.
func (r *Repository) Config() *config.Config {
	return r.cfg
}
