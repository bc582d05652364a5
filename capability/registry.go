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


package capability

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/lexingest/ai"
)

// Registry probes the optional extraction capabilities once at process start.
// Capabilities are configured as factories; a factory that returns an error
// (model weights missing, service unreachable, codec not linked) marks the
// capability unavailable with the causing reason instead of failing the probe.
type Registry struct {
	embedderFactory  func(ctx context.Context) (ai.Embedder, error)
	visionFactory    func(ctx context.Context) (ai.VisionProvider, error)
	mailStoreFactory func(ctx context.Context) (MailStoreReader, error)
	rarProbe         func() error
	serializeOCR     bool
	logger           *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithEmbedder configures the embedding capability factory.
func WithEmbedder(factory func(ctx context.Context) (ai.Embedder, error)) Option {
	return func(r *Registry) {
		r.embedderFactory = factory
	}
}

// WithVisionProvider configures the factory for the page-level capabilities
// (OCR, layout classification, table extraction). A single provider failure
// marks all three unavailable.
func WithVisionProvider(factory func(ctx context.Context) (ai.VisionProvider, error)) Option {
	return func(r *Registry) {
		r.visionFactory = factory
	}
}

// WithMailStoreReader configures the mail-store (PST) reader factory.
func WithMailStoreReader(factory func(ctx context.Context) (MailStoreReader, error)) Option {
	return func(r *Registry) {
		r.mailStoreFactory = factory
	}
}

// WithRARProbe overrides the RAR codec probe. The default reports the codec
// as linked; tests use this to simulate codec absence.
func WithRARProbe(probe func() error) Option {
	return func(r *Registry) {
		r.rarProbe = probe
	}
}

// WithSerializedOCR wraps the probed OCR engine in a single-slot gate so that
// engines unsafe for concurrent inference serve one call at a time while
// other items' work proceeds concurrently.
func WithSerializedOCR() Option {
	return func(r *Registry) {
		r.serializeOCR = true
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
	}
}

// NewRegistry creates a capability registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		rarProbe: func() error { return nil }, // codec compiled in
		logger:   slog.Default().With("component", "capability-registry"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Probe attempts lightweight initialization of each configured capability and
// returns the process-wide snapshot. Initialization failures are caught and
// recorded as unavailable with the causing reason; Probe never returns an
// error. Callers consult the snapshot instead of re-attempting initialization
// per file, which keeps the degradation decision consistent across a batch
// and avoids repeated expensive model loads.
func (r *Registry) Probe(ctx context.Context) *Snapshot {
	snap := &Snapshot{}

	snap.Embedding, snap.embedder = probeHandle(ctx, "embedding", r.logger, r.embedderFactory)

	if r.visionFactory == nil {
		status := unavailable("not configured")
		snap.OCR, snap.Layout, snap.Tables = status, status, status
	} else if provider, err := r.visionFactory(ctx); err != nil {
		r.logger.Warn("capability unavailable", "capability", "vision", "reason", err)
		status := unavailable(err.Error())
		snap.OCR, snap.Layout, snap.Tables = status, status, status
	} else {
		snap.OCR, snap.Layout, snap.Tables = available(), available(), available()
		snap.ocr = provider.OCREngine()
		snap.layout = provider.LayoutClassifier()
		snap.tables = provider.TableExtractor()
		r.logger.Info("capability available", "capability", "vision")
	}

	if r.serializeOCR && snap.ocr != nil {
		snap.ocr = serializedOCR(snap.ocr)
		r.logger.Info("OCR engine serialized for single-slot inference")
	}

	snap.MailStore, snap.mailStore = probeHandle(ctx, "mail_store", r.logger, r.mailStoreFactory)

	if err := r.rarProbe(); err != nil {
		r.logger.Warn("capability unavailable", "capability", "rar_codec", "reason", err)
		snap.RARCodec = unavailable(err.Error())
	} else {
		snap.RARCodec = available()
	}

	return snap
}

// probeHandle runs one factory, converting construction failure or panic into
// an unavailable status.
func probeHandle[T any](ctx context.Context, name string, logger *slog.Logger,
	factory func(ctx context.Context) (T, error)) (status Status, handle T) {

	if factory == nil {
		return unavailable("not configured"), handle
	}

	defer func() {
		if p := recover(); p != nil {
			logger.Warn("capability probe panicked", "capability", name, "panic", p)
			status = unavailable(fmt.Sprintf("probe panicked: %v", p))
			var zero T
			handle = zero
		}
	}()

	h, err := factory(ctx)
	if err != nil {
		logger.Warn("capability unavailable", "capability", name, "reason", err)
		return unavailable(err.Error()), handle
	}

	logger.Info("capability available", "capability", name)
	return available(), h
}
