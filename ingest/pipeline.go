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


package ingest

import (
	"context"
	"log/slog"
	"os"

	"github.com/poiesic/lexingest/batch"
	"github.com/poiesic/lexingest/capability"
	"github.com/poiesic/lexingest/chunk"
	"github.com/poiesic/lexingest/core"
	"github.com/poiesic/lexingest/extract"
	"github.com/poiesic/lexingest/store"
)

// Pipeline ties the classifier, processors, chunker, batch orchestrator and
// optional extraction cache together behind one API. It is safe for
// concurrent use; capability probing happened before construction and is
// never repeated.
type Pipeline struct {
	snapshot  *capability.Snapshot
	processor *extract.Processor
	chunker   *chunk.Chunker
	orch      *batch.Orchestrator
	cache     *store.Cache
	chunkCfg  chunk.Config
	poolSize  int
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for batch processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		p.poolSize = size
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithCache attaches an extraction cache. The pipeline takes ownership and
// closes it on Release.
func WithCache(cache *store.Cache) Option {
	return func(p *Pipeline) error {
		p.cache = cache
		return nil
	}
}

// WithChunkConfig sets the chunking configuration applied when callers pass
// the zero Config. Default is chunk.DefaultConfig().
func WithChunkConfig(cfg chunk.Config) Option {
	return func(p *Pipeline) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		p.chunkCfg = cfg
		return nil
	}
}

// New creates a pipeline over a probed capability snapshot.
func New(snapshot *capability.Snapshot, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		snapshot: snapshot,
		chunkCfg: chunk.DefaultConfig(),
		logger:   slog.Default().With("component", "pipeline"),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	orchOpts := []batch.Option{batch.WithLogger(p.logger)}
	if p.poolSize > 0 {
		orchOpts = append(orchOpts, batch.WithPoolSize(p.poolSize))
	}
	orch, err := batch.New(orchOpts...)
	if err != nil {
		return nil, err
	}

	p.orch = orch
	p.processor = extract.NewProcessor(snapshot, extract.WithLogger(p.logger))
	p.chunker = chunk.New(snapshot, chunk.WithLogger(p.logger))
	return p, nil
}

// Capabilities returns the snapshot the pipeline was built over.
func (p *Pipeline) Capabilities() *capability.Snapshot {
	return p.snapshot
}

// Release frees the worker pool and closes the cache, if any.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	p.orch.Release()
	if p.cache != nil {
		if err := p.cache.Close(); err != nil {
			p.logger.Warn("closing extraction cache", "err", err)
		}
	}
}

// Extract normalizes a single file into a document record, consulting the
// extraction cache first when one is attached. An unreachable path or
// unsupported format is an error; any other failure yields a record
// describing it.
func (p *Pipeline) Extract(ctx context.Context, path string) (*core.DocumentRecord, error) {
	if p.cache == nil {
		return p.processor.Process(ctx, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		// Let the processor produce the caller-facing error for the path.
		return p.processor.Process(ctx, path)
	}

	key := core.IDFromContent(data)
	if record, ok, cacheErr := p.cache.Get(key); cacheErr != nil {
		p.logger.Warn("cache lookup failed, extracting live", "source", path, "err", cacheErr)
	} else if ok {
		p.logger.Debug("extraction cache hit", "source", path)
		return record, nil
	}

	record, err := p.processor.Process(ctx, path)
	if err != nil {
		return nil, err
	}
	if putErr := p.cache.Put(key, record); putErr != nil {
		p.logger.Warn("cache store failed", "source", path, "err", putErr)
	}
	return record, nil
}

// ExtractBatch extracts every path concurrently, yielding one outcome per
// path in input order. A failing path occupies its own slot as an error
// record and never disturbs sibling results.
func (p *Pipeline) ExtractBatch(ctx context.Context, paths []string) []batch.Outcome[*core.DocumentRecord] {
	return batch.Run(ctx, p.orch, paths, core.ErrorKindExtraction, batch.Locator,
		func(ctx context.Context, path string) (*core.DocumentRecord, error) {
			return p.Extract(ctx, path)
		})
}

// Chunk splits one document. Passing the zero Config applies the pipeline's
// configured default.
func (p *Pipeline) Chunk(ctx context.Context, doc *core.DocumentRecord, cfg chunk.Config) ([]core.ChunkRecord, error) {
	if cfg == (chunk.Config{}) {
		cfg = p.chunkCfg
	}
	return p.chunker.Chunk(ctx, doc, cfg)
}

// ChunkBatch chunks every document concurrently with the same ordering and
// isolation contract as ExtractBatch.
func (p *Pipeline) ChunkBatch(ctx context.Context, docs []*core.DocumentRecord, cfg chunk.Config) []batch.Outcome[[]core.ChunkRecord] {
	locate := func(doc *core.DocumentRecord) string {
		if doc == nil {
			return ""
		}
		return doc.SourceLocator
	}
	return batch.Run(ctx, p.orch, docs, core.ErrorKindChunking, locate,
		func(ctx context.Context, doc *core.DocumentRecord) ([]core.ChunkRecord, error) {
			return p.Chunk(ctx, doc, cfg)
		})
}
