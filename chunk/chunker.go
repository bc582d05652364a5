// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package chunk

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/poiesic/lexingest/ai"
	"github.com/poiesic/lexingest/capability"
	"github.com/poiesic/lexingest/core"
)

// sentenceBoundary matches runs of sentence-terminating punctuation.
var sentenceBoundary = regexp.MustCompile(`[.!?]+`)

// Chunker splits a document's text into semantically coherent chunks using
// sentence embeddings, falling back to fixed-size windowing when embeddings
// are unavailable or grouping fails. Chunkers are stateless per document and
// safe for concurrent use.
type Chunker struct {
	embedder       ai.Embedder
	embeddingOK    bool
	unavailableWhy string
	maxRetries     int
	retryBaseDelay time.Duration
	logger         *slog.Logger
}

// Option configures a Chunker.
type Option func(*Chunker)

// WithMaxRetries sets the retry budget for embedding API calls.
// Default is 3.
func WithMaxRetries(n int) Option {
	return func(c *Chunker) {
		if n > 0 {
			c.maxRetries = n
		}
	}
}

// WithRetryBaseDelay sets the base delay for embedding retry backoff.
// Default is 200ms.
func WithRetryBaseDelay(d time.Duration) Option {
	return func(c *Chunker) {
		if d > 0 {
			c.retryBaseDelay = d
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chunker) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	}
}

// New creates a chunker borrowing the embedding handle from the capability
// snapshot. An unavailable embedding capability is not an error: every
// document then takes the fixed-window path.
func New(snapshot *capability.Snapshot, opts ...Option) *Chunker {
	c := &Chunker{
		maxRetries:     3,
		retryBaseDelay: 200 * time.Millisecond,
		logger:         slog.Default().With("component", "chunker"),
	}

	if snapshot != nil {
		c.embedder, c.embeddingOK = snapshot.Embedder()
		if !c.embeddingOK {
			c.unavailableWhy = snapshot.Embedding.Reason
		}
	} else {
		c.unavailableWhy = "no capability snapshot"
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Chunk splits the document's text into chunks. The semantic path groups
// sentences by cosine similarity against the running chunk's centroid; the
// fixed-window path splits into overlapping character windows. Which path was
// taken is recorded in each chunk's "chunking_method" metadata.
//
// Only programmer errors (invalid config, nil/empty document) return an
// error; embedding failures degrade to the fixed-window path.
func (c *Chunker) Chunk(ctx context.Context, doc *core.DocumentRecord, cfg Config) ([]core.ChunkRecord, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, core.ErrNilDocument
	}
	if strings.TrimSpace(doc.RawContent) == "" {
		return nil, core.ErrEmptyDocument
	}

	if !c.embeddingOK {
		c.logger.Info("embedding capability unavailable, using fixed-window chunking",
			"source", doc.SourceLocator, "reason", c.unavailableWhy)
		return c.fixedWindow(doc, cfg)
	}

	chunks, err := c.semantic(ctx, doc, cfg)
	if err != nil {
		c.logger.Warn("semantic chunking failed, falling back to fixed-window",
			"source", doc.SourceLocator, "err", err)
		return c.fixedWindow(doc, cfg)
	}
	return chunks, nil
}

// semantic performs embedding-guided grouping for one document.
func (c *Chunker) semantic(ctx context.Context, doc *core.DocumentRecord, cfg Config) ([]core.ChunkRecord, error) {
	text := doc.RawContent
	sentences := SplitSentences(text)

	if len(sentences) < 2 {
		// Too few sentences to group; the whole text is one chunk.
		return []core.ChunkRecord{
			semanticChunk(strings.TrimSpace(text), doc.Metadata, 0, 1, cfg.SimilarityThreshold),
		}, nil
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var embedErr error
		embeddings, embedErr = c.embedder.EmbedTexts(ctx, sentences)
		return embedErr
	}, c.maxRetries, c.retryBaseDelay)
	if err != nil {
		return nil, fmt.Errorf("embedding sentences: %w", err)
	}
	if len(embeddings) != len(sentences) {
		return nil, fmt.Errorf("%w: expected %d, got %d",
			ErrEmbeddingMismatch, len(sentences), len(embeddings))
	}

	// Unit-length vectors make every sentence count equally in the running
	// centroid, whatever magnitude the model emits.
	for i := range embeddings {
		embeddings[i] = NormalizeVector(embeddings[i])
	}

	grouped := groupSentences(sentences, embeddings, cfg)

	// chunk_index and total_chunks describe the pre-filter grouping; chunks
	// below the minimum size are dropped afterwards.
	records := make([]core.ChunkRecord, 0, len(grouped))
	for i, text := range grouped {
		if len(strings.TrimSpace(text)) < cfg.MinChunkSize {
			continue
		}
		records = append(records, semanticChunk(text, doc.Metadata, i, len(grouped), cfg.SimilarityThreshold))
	}

	c.logger.Debug("semantic chunking complete",
		"source", doc.SourceLocator,
		"sentences", len(sentences),
		"chunks", len(grouped),
		"kept", len(records))
	return records, nil
}

// groupSentences greedily groups sentences left to right. A sentence joins
// the running chunk unless its similarity to the chunk centroid falls below
// the threshold or joining would exceed the maximum chunk length.
func groupSentences(sentences []string, embeddings [][]float32, cfg Config) []string {
	var chunks []string
	var current []string
	var currentEmbeddings [][]float32

	for i, sentence := range sentences {
		if len(current) == 0 {
			current = append(current, sentence)
			currentEmbeddings = append(currentEmbeddings, embeddings[i])
			continue
		}

		centroid := Centroid(currentEmbeddings)
		similarity := CosineSimilarity(embeddings[i], centroid)

		joined := len(strings.Join(current, " "))
		startNew := similarity < cfg.SimilarityThreshold ||
			joined+1+len(sentence) > cfg.MaxChunkSize

		if startNew {
			chunks = append(chunks, strings.Join(current, " "))
			current = []string{sentence}
			currentEmbeddings = [][]float32{embeddings[i]}
		} else {
			current = append(current, sentence)
			currentEmbeddings = append(currentEmbeddings, embeddings[i])
		}
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}

	return chunks
}

// SplitSentences splits text into sentences at runs of '.', '!' and '?',
// trimming whitespace and dropping empty results.
func SplitSentences(text string) []string {
	parts := sentenceBoundary.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			sentences = append(sentences, part)
		}
	}
	return sentences
}

// semanticChunk assembles one chunk record with inherited parent metadata.
func semanticChunk(content string, parent core.Metadata, index, total int, threshold float64) core.ChunkRecord {
	metadata := parent.Clone()
	metadata["chunk_index"] = index
	metadata["chunking_method"] = core.ChunkMethodSemantic
	metadata["total_chunks"] = total
	metadata["similarity_threshold"] = threshold
	return core.ChunkRecord{Content: content, Metadata: metadata}
}
