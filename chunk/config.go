package chunk

import "fmt"

// Config holds the chunking parameters.
type Config struct {
	// SimilarityThreshold is the cosine similarity below which a sentence
	// starts a new chunk instead of joining the running one. Range [-1, 1].
	// Default: 0.75
	SimilarityThreshold float64

	// MinChunkSize is the minimum chunk length in characters; shorter chunks
	// are dropped after grouping. Default: 200
	MinChunkSize int

	// MaxChunkSize is the maximum chunk length in characters. A single
	// sentence longer than this still forms its own chunk. Default: 1000
	MaxChunkSize int

	// ChunkOverlap is the overlap between adjacent fixed-window chunks, used
	// only by the fixed-window fallback. Default: 100
	ChunkOverlap int
}

// DefaultConfig returns the chunking defaults.
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: 0.75,
		MinChunkSize:        200,
		MaxChunkSize:        1000,
		ChunkOverlap:        100,
	}
}

// Validate checks that the configuration is coherent. An invalid
// configuration is a programmer error and propagates to the caller.
func (c Config) Validate() error {
	if c.SimilarityThreshold < -1 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("%w: SimilarityThreshold must be in [-1, 1], got %v",
			ErrInvalidConfig, c.SimilarityThreshold)
	}
	if c.MinChunkSize < 0 {
		return fmt.Errorf("%w: MinChunkSize must be >= 0, got %d",
			ErrInvalidConfig, c.MinChunkSize)
	}
	if c.MaxChunkSize <= 0 {
		return fmt.Errorf("%w: MaxChunkSize must be > 0, got %d",
			ErrInvalidConfig, c.MaxChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.MaxChunkSize {
		return fmt.Errorf("%w: ChunkOverlap must be in [0, MaxChunkSize), got %d",
			ErrInvalidConfig, c.ChunkOverlap)
	}
	return nil
}
