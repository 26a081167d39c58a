package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader loads configuration from the on-disk config.json, overridden by
// REPOKNOWLEDGE_* environment variables, following the teacher's
// defaults -> file -> env priority (internal/config/loader.go).
type Loader interface {
	// Load reads config.json under projectRoot/.repo-knowledge, applying
	// defaults for any field the file omits. Returns NotInitialized if the
	// data directory does not exist.
	Load(projectRoot string) (*Config, error)
}

type loader struct{}

// NewLoader creates a configuration loader.
func NewLoader() Loader {
	return &loader{}
}

func (l *loader) Load(projectRoot string) (*Config, error) {
	dataDir := filepath.Join(projectRoot, DefaultDataDirName)
	if _, err := os.Stat(dataDir); err != nil {
		return nil, fmt.Errorf("data directory %s: %w", dataDir, ErrNotInitialized)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(dataDir)

	v.SetEnvPrefix("REPOKNOWLEDGE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.BindEnv("embeddingModel")
	v.BindEnv("embeddingDimensions")
	v.BindEnv("chunkMaxTokens")

	def := Default(projectRoot)
	v.SetDefault("projectRoot", def.ProjectRoot)
	v.SetDefault("dataDir", def.DataDir)
	v.SetDefault("embeddingModel", def.EmbeddingModel)
	v.SetDefault("embeddingDimensions", def.EmbeddingDimensions)
	v.SetDefault("chunkMaxTokens", def.ChunkMaxTokens)
	v.SetDefault("ignorePatterns", def.IgnorePatterns)
	v.SetDefault("version", def.Version)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config.json: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// Init creates the data directory and writes config.json. Returns
// AlreadyInitialized if the data directory already exists and force is false.
func Init(projectRoot string, overrides *Config, force bool) (*Config, error) {
	dataDir := filepath.Join(projectRoot, DefaultDataDirName)
	if _, err := os.Stat(dataDir); err == nil && !force {
		return nil, fmt.Errorf("data directory %s: %w", dataDir, ErrAlreadyInitialized)
	}

	cfg := Default(projectRoot)
	if overrides != nil {
		if overrides.EmbeddingModel != "" {
			cfg.EmbeddingModel = overrides.EmbeddingModel
		}
		if overrides.EmbeddingDimensions != 0 {
			cfg.EmbeddingDimensions = overrides.EmbeddingDimensions
		}
		if overrides.ChunkMaxTokens != 0 {
			cfg.ChunkMaxTokens = overrides.ChunkMaxTokens
		}
		if len(overrides.IgnorePatterns) > 0 {
			cfg.IgnorePatterns = overrides.IgnorePatterns
		}
	}

	if err := os.MkdirAll(filepath.Join(dataDir, "vectors"), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := Save(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config back to config.json.
func Save(cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(cfg.ConfigPath(), data, 0o644); err != nil {
		return fmt.Errorf("failed to write config.json: %w", err)
	}
	return nil
}
