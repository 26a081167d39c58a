package pipeline

import (
	"context"
	"fmt"
)

// embedAndStore runs spec §4.8 steps 6-7: embed pending chunk contents in
// batches of embedBatchSize, reporting progress, then upsert the resulting
// vectors.
func (p *Pipeline) embedAndStore(ctx context.Context, pending []pendingChunk, onProgress ProgressFunc) error {
	if err := p.embedder.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize embedding provider: %w", err)
	}
	if p.embedder.Dimensions() != p.cfg.EmbeddingDimensions {
		return fmt.Errorf("embedding provider produces %d-dimensional vectors, configured dimension is %d", p.embedder.Dimensions(), p.cfg.EmbeddingDimensions)
	}

	total := len(pending)
	done := 0

	for start := 0; start < total; start += embedBatchSize {
		end := start + embedBatchSize
		if end > total {
			end = total
		}
		batch := pending[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Content
		}

		vectors, err := p.embedder.Embed(ctx, texts)
		if err != nil {
			return fmt.Errorf("failed to embed chunks %d-%d: %w", start, end, err)
		}
		if len(vectors) != len(batch) {
			return fmt.Errorf("embedding provider returned %d vectors for %d texts", len(vectors), len(batch))
		}

		ids := make([]int64, len(batch))
		languages := make([]string, len(batch))
		for i, c := range batch {
			ids[i] = c.ChunkID
			languages[i] = c.Language
		}
		if err := p.vectors.UpsertBatch(ids, vectors, languages); err != nil {
			return fmt.Errorf("failed to store embeddings for chunks %d-%d: %w", start, end, err)
		}

		done += len(batch)
		if onProgress != nil {
			onProgress(done, total)
		}
	}

	return nil
}
