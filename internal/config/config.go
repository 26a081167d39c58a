// Package config defines the repo-knowledge configuration and its on-disk
// representation under the data directory.
package config

import "path/filepath"

// DefaultDataDirName is the directory name created under the project root.
const DefaultDataDirName = ".repo-knowledge"

// DefaultEmbeddingModel is the model identifier used when none is configured.
const DefaultEmbeddingModel = "Xenova/all-MiniLM-L6-v2"

// DefaultEmbeddingDimensions is the vector width produced by DefaultEmbeddingModel.
const DefaultEmbeddingDimensions = 384

// DefaultChunkMaxTokens is the per-chunk token budget used by the chunker.
const DefaultChunkMaxTokens = 512

// CurrentSchemaVersion is written to config.json on init. Load reads the
// stored value back without comparing it to this constant.
const CurrentSchemaVersion = 1

// DefaultIgnorePatterns mirrors common VCS/build directories, same spirit as
// the teacher's PathsConfig.Ignore list.
var DefaultIgnorePatterns = []string{
	".git/**",
	"node_modules/**",
	"vendor/**",
	"dist/**",
	"build/**",
	"target/**",
	"__pycache__/**",
	".repo-knowledge/**",
}

// Config is the complete repo-knowledge configuration, serialized to
// config.json under the data directory (spec §6).
type Config struct {
	ProjectRoot         string   `json:"projectRoot" mapstructure:"projectRoot"`
	DataDir             string   `json:"dataDir" mapstructure:"dataDir"`
	EmbeddingModel      string   `json:"embeddingModel" mapstructure:"embeddingModel"`
	EmbeddingDimensions int      `json:"embeddingDimensions" mapstructure:"embeddingDimensions"`
	ChunkMaxTokens      int      `json:"chunkMaxTokens" mapstructure:"chunkMaxTokens"`
	IgnorePatterns      []string `json:"ignorePatterns" mapstructure:"ignorePatterns"`
	Version             int      `json:"version" mapstructure:"version"`
}

// Default returns a Config with sensible defaults rooted at projectRoot.
func Default(projectRoot string) *Config {
	return &Config{
		ProjectRoot:         projectRoot,
		DataDir:             filepath.Join(projectRoot, DefaultDataDirName),
		EmbeddingModel:      DefaultEmbeddingModel,
		EmbeddingDimensions: DefaultEmbeddingDimensions,
		ChunkMaxTokens:      DefaultChunkMaxTokens,
		IgnorePatterns:      append([]string(nil), DefaultIgnorePatterns...),
		Version:             CurrentSchemaVersion,
	}
}

// MetadataDBPath returns the path to the structured metadata store.
func (c *Config) MetadataDBPath() string {
	return filepath.Join(c.DataDir, "metadata.db")
}

// VectorsDir returns the path to the vector store directory.
func (c *Config) VectorsDir() string {
	return filepath.Join(c.DataDir, "vectors")
}

// ConfigPath returns the path to config.json.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.DataDir, "config.json")
}
