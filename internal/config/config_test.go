package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default("/repo")

	assert.Equal(t, "/repo", cfg.ProjectRoot)
	assert.Equal(t, "/repo/.repo-knowledge", cfg.DataDir)
	assert.Equal(t, DefaultEmbeddingModel, cfg.EmbeddingModel)
	assert.Equal(t, DefaultEmbeddingDimensions, cfg.EmbeddingDimensions)
	assert.Equal(t, DefaultChunkMaxTokens, cfg.ChunkMaxTokens)
	assert.Equal(t, CurrentSchemaVersion, cfg.Version)
	assert.Equal(t, DefaultIgnorePatterns, cfg.IgnorePatterns)
}

func TestDefault_IgnorePatternsAreACopy(t *testing.T) {
	t.Parallel()

	cfg := Default("/repo")
	cfg.IgnorePatterns[0] = "mutated"

	assert.Equal(t, ".git/**", DefaultIgnorePatterns[0])
}

func TestConfig_PathHelpers(t *testing.T) {
	t.Parallel()

	cfg := Default("/repo")

	assert.Equal(t, "/repo/.repo-knowledge/metadata.db", cfg.MetadataDBPath())
	assert.Equal(t, "/repo/.repo-knowledge/vectors", cfg.VectorsDir())
	assert.Equal(t, "/repo/.repo-knowledge/config.json", cfg.ConfigPath())
}
