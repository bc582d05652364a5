package chunk

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/poiesic/lexingest/ai"
	"github.com/poiesic/lexingest/ai/mock"
	"github.com/poiesic/lexingest/capability"
	"github.com/poiesic/lexingest/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legalText = "Termination requires 30 days notice. Either party may terminate for cause.\n\nIndemnification applies to third-party claims only."

// snapshotWith builds a capability snapshot exposing the given embedder.
func snapshotWith(t *testing.T, embedder ai.Embedder) *capability.Snapshot {
	t.Helper()
	registry := capability.NewRegistry(
		capability.WithEmbedder(func(ctx context.Context) (ai.Embedder, error) {
			if embedder == nil {
				return nil, errors.New("embedding model not loaded")
			}
			return embedder, nil
		}),
	)
	return registry.Probe(context.Background())
}

func testDoc(content string) *core.DocumentRecord {
	return &core.DocumentRecord{
		RawContent:    content,
		SourceLocator: "/docs/contract.pdf",
		Enhanced:      true,
		Metadata: core.Metadata{
			"file_type":         "pdf",
			"processing_method": "enhanced",
		},
	}
}

// directionalEmbedder maps sentences to fixed direction vectors so tests
// control pairwise similarity exactly.
func directionalEmbedder(directions map[string][]float32) *mock.Embedder {
	embedder := mock.NewEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i, text := range texts {
			vec, ok := directions[text]
			if !ok {
				return nil, errors.New("unexpected sentence: " + text)
			}
			out[i] = vec
		}
		return out, nil
	}
	return embedder
}

func TestSemanticGroupsSimilarSentences(t *testing.T) {
	embedder := directionalEmbedder(map[string][]float32{
		"Termination requires 30 days notice":                {1, 0},
		"Either party may terminate for cause":               {1, 0},
		"Indemnification applies to third-party claims only": {0, 1},
	})

	chunker := New(snapshotWith(t, embedder))
	cfg := Config{SimilarityThreshold: 0.75, MinChunkSize: 10, MaxChunkSize: 1000, ChunkOverlap: 100}

	chunks, err := chunker.Chunk(context.Background(), testDoc(legalText), cfg)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Contains(t, chunks[0].Content, "Termination requires 30 days notice")
	assert.Contains(t, chunks[0].Content, "Either party may terminate for cause")
	assert.Equal(t, "Indemnification applies to third-party claims only", chunks[1].Content)

	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Metadata["chunk_index"])
		assert.Equal(t, core.ChunkMethodSemantic, chunk.Metadata["chunking_method"])
		assert.Equal(t, 2, chunk.Metadata["total_chunks"])
		assert.Equal(t, 0.75, chunk.Metadata["similarity_threshold"])
		// Parent metadata is inherited.
		assert.Equal(t, "pdf", chunk.Metadata["file_type"])
	}
}

func TestSemanticIdempotentOnMinimalChunk(t *testing.T) {
	chunker := New(snapshotWith(t, mock.NewEmbedder()))
	cfg := Config{SimilarityThreshold: 0.75, MinChunkSize: 10, MaxChunkSize: 1000, ChunkOverlap: 100}

	input := "Indemnification applies to third-party claims only."
	chunks, err := chunker.Chunk(context.Background(), testDoc(input), cfg)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, input, chunks[0].Content)
	assert.Equal(t, 0, chunks[0].Metadata["chunk_index"])
	assert.Equal(t, 1, chunks[0].Metadata["total_chunks"])
}

func TestFixedWindowWhenEmbeddingUnavailable(t *testing.T) {
	chunker := New(snapshotWith(t, nil)) // probe fails, capability unavailable
	cfg := DefaultConfig()

	chunks, err := chunker.Chunk(context.Background(), testDoc(legalText), cfg)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	for _, chunk := range chunks {
		assert.Equal(t, core.ChunkMethodFixedWindow, chunk.Metadata["chunking_method"])
		assert.NotContains(t, chunk.Metadata, "similarity_threshold")
	}
}

func TestFixedWindowWhenEmbeddingFails(t *testing.T) {
	embedder := mock.NewEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("embedding service down")
	}

	chunker := New(snapshotWith(t, embedder), WithMaxRetries(1))
	chunks, err := chunker.Chunk(context.Background(), testDoc(legalText), DefaultConfig())
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	assert.Equal(t, core.ChunkMethodFixedWindow, chunks[0].Metadata["chunking_method"])
}

func TestFixedWindowWhenEmbeddingCountMismatch(t *testing.T) {
	embedder := mock.NewEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{1, 0}}, nil // fewer vectors than sentences
	}

	chunker := New(snapshotWith(t, embedder), WithMaxRetries(1))
	chunks, err := chunker.Chunk(context.Background(), testDoc(legalText), DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, core.ChunkMethodFixedWindow, chunks[0].Metadata["chunking_method"])
}

func TestMaxChunkSizeClosesRunningChunk(t *testing.T) {
	// All sentences identical direction: only the size bound can close chunks.
	sentence := strings.Repeat("x", 40)
	text := sentence + ". " + sentence + ". " + sentence + "."

	embedder := mock.NewEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i := range texts {
			out[i] = []float32{1, 0}
		}
		return out, nil
	}

	chunker := New(snapshotWith(t, embedder))
	cfg := Config{SimilarityThreshold: 0.75, MinChunkSize: 1, MaxChunkSize: 85, ChunkOverlap: 10}

	chunks, err := chunker.Chunk(context.Background(), testDoc(text), cfg)
	require.NoError(t, err)
	// The first two sentences join (40+1+40 fits in 85); appending the third
	// would exceed the max, so it starts a fresh chunk.
	require.Len(t, chunks, 2)
	assert.Equal(t, sentence+" "+sentence, chunks[0].Content)
	assert.Equal(t, sentence, chunks[1].Content)
}

func TestMaxChunkSizeNeverExceededByJoin(t *testing.T) {
	// Two same-direction sentences that each fit alone but not together must
	// yield two bounded chunks, not one oversized chunk.
	sentence := strings.Repeat("y", 600)
	text := sentence + ". " + sentence + "."

	embedder := mock.NewEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i := range texts {
			out[i] = []float32{1, 0}
		}
		return out, nil
	}

	chunker := New(snapshotWith(t, embedder))
	cfg := Config{SimilarityThreshold: 0.75, MinChunkSize: 1, MaxChunkSize: 1000, ChunkOverlap: 100}

	chunks, err := chunker.Chunk(context.Background(), testDoc(text), cfg)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk.Content), cfg.MaxChunkSize)
	}
}

func TestGroupingIgnoresVectorMagnitude(t *testing.T) {
	// Same-direction vectors of wildly different magnitude still group; only
	// direction matters once embeddings are normalized.
	embedder := directionalEmbedder(map[string][]float32{
		"Termination requires 30 days notice":                {10, 0},
		"Either party may terminate for cause":               {0.1, 0},
		"Indemnification applies to third-party claims only": {0, 5},
	})

	chunker := New(snapshotWith(t, embedder))
	cfg := Config{SimilarityThreshold: 0.75, MinChunkSize: 10, MaxChunkSize: 1000, ChunkOverlap: 100}

	chunks, err := chunker.Chunk(context.Background(), testDoc(legalText), cfg)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Contains(t, chunks[0].Content, "Either party may terminate for cause")
	assert.Equal(t, "Indemnification applies to third-party claims only", chunks[1].Content)
}

func TestMinChunkSizeDropsShortChunks(t *testing.T) {
	embedder := directionalEmbedder(map[string][]float32{
		"Short": {0, 1},
		"This clause survives termination of the agreement": {1, 0},
		"All notices must be delivered in writing":          {1, 0},
	})

	chunker := New(snapshotWith(t, embedder))
	cfg := Config{SimilarityThreshold: 0.75, MinChunkSize: 20, MaxChunkSize: 1000, ChunkOverlap: 100}

	text := "Short. This clause survives termination of the agreement. All notices must be delivered in writing."
	chunks, err := chunker.Chunk(context.Background(), testDoc(text), cfg)
	require.NoError(t, err)

	require.Len(t, chunks, 1)
	// chunk_index keeps the pre-filter position, total_chunks the pre-filter count.
	assert.Equal(t, 1, chunks[0].Metadata["chunk_index"])
	assert.Equal(t, 2, chunks[0].Metadata["total_chunks"])
}

func TestChunkValidation(t *testing.T) {
	chunker := New(snapshotWith(t, mock.NewEmbedder()))

	t.Run("invalid config", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.SimilarityThreshold = 2.0
		_, err := chunker.Chunk(context.Background(), testDoc("Some text."), cfg)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("nil document", func(t *testing.T) {
		_, err := chunker.Chunk(context.Background(), nil, DefaultConfig())
		assert.ErrorIs(t, err, core.ErrNilDocument)
	})

	t.Run("empty document", func(t *testing.T) {
		_, err := chunker.Chunk(context.Background(), testDoc("   \n"), DefaultConfig())
		assert.ErrorIs(t, err, core.ErrEmptyDocument)
	})

	t.Run("overlap must be below max size", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ChunkOverlap = cfg.MaxChunkSize
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "periods and newlines",
			text: legalText,
			want: []string{
				"Termination requires 30 days notice",
				"Either party may terminate for cause",
				"Indemnification applies to third-party claims only",
			},
		},
		{
			name: "mixed terminators",
			text: "Is this binding? Yes! Absolutely.",
			want: []string{"Is this binding", "Yes", "Absolutely"},
		},
		{
			name: "terminator runs collapse",
			text: "Wait... what?!",
			want: []string{"Wait", "what"},
		},
		{
			name: "no terminator",
			text: "single fragment",
			want: []string{"single fragment"},
		},
		{
			name: "empty",
			text: "  ",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSentences(tt.text))
		})
	}
}
