package main

import (
	"fmt"
	"os"

	"github.com/poiesic/lexingest/ai"
	"github.com/poiesic/lexingest/chunk"
	"gopkg.in/yaml.v3"
)

// fileConfig is the optional YAML configuration file. Every field is
// optional; zero values fall back to the built-in defaults.
type fileConfig struct {
	EmbeddingHost  string `yaml:"embedding_host"`
	VisionHost     string `yaml:"vision_host"`
	EmbeddingModel string `yaml:"embedding_model"`
	VisionModel    string `yaml:"vision_model"`

	PoolSize  int    `yaml:"pool_size"`
	CachePath string `yaml:"cache_path"`

	Chunking struct {
		SimilarityThreshold float64 `yaml:"similarity_threshold"`
		MinChunkSize        int     `yaml:"min_chunk_size"`
		MaxChunkSize        int     `yaml:"max_chunk_size"`
		ChunkOverlap        int     `yaml:"chunk_overlap"`
	} `yaml:"chunking"`
}

// loadConfig reads a YAML config file. An empty path returns an empty
// config, so flags and defaults still apply.
func loadConfig(path string) (*fileConfig, error) {
	cfg := &fileConfig{}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// aiConfig builds the provider configuration, overriding defaults with any
// non-empty file values.
func (fc *fileConfig) aiConfig() *ai.Config {
	var opts []ai.ConfigOption
	if fc.EmbeddingHost != "" {
		opts = append(opts, ai.WithEmbeddingHost(fc.EmbeddingHost))
	}
	if fc.VisionHost != "" {
		opts = append(opts, ai.WithVisionHost(fc.VisionHost))
	}
	if fc.EmbeddingModel != "" {
		opts = append(opts, ai.WithEmbeddingModel(fc.EmbeddingModel))
	}
	if fc.VisionModel != "" {
		opts = append(opts, ai.WithVisionModel(fc.VisionModel))
	}
	return ai.NewConfig(opts...)
}

// chunkConfig builds the chunking configuration, overriding defaults with
// any non-zero file values.
func (fc *fileConfig) chunkConfig() chunk.Config {
	cfg := chunk.DefaultConfig()
	if fc.Chunking.SimilarityThreshold != 0 {
		cfg.SimilarityThreshold = fc.Chunking.SimilarityThreshold
	}
	if fc.Chunking.MinChunkSize != 0 {
		cfg.MinChunkSize = fc.Chunking.MinChunkSize
	}
	if fc.Chunking.MaxChunkSize != 0 {
		cfg.MaxChunkSize = fc.Chunking.MaxChunkSize
	}
	if fc.Chunking.ChunkOverlap != 0 {
		cfg.ChunkOverlap = fc.Chunking.ChunkOverlap
	}
	return cfg
}
