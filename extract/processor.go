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


package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/poiesic/lexingest/capability"
	"github.com/poiesic/lexingest/core"
)

// Processing method values recorded in DocumentRecord metadata.
const (
	methodEnhanced          = "enhanced"
	methodNativeText        = "native_text"
	methodEmailParsing      = "email_parsing"
	methodEmailExtraction   = "email_extraction"
	methodPSTExtraction     = "pst_extraction"
	methodArchiveExtraction = "archive_extraction"
	methodFallback          = "fallback"
	methodError             = "error"
)

// Processor normalizes source files into document records. It consults the
// capability snapshot before choosing a strategy and never re-initializes
// capability handles per file. A Processor is safe for concurrent use.
type Processor struct {
	snapshot *capability.Snapshot
	logger   *slog.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
	}
}

// NewProcessor creates a processor borrowing capability handles from the
// snapshot. A nil snapshot behaves as if every capability were unavailable.
func NewProcessor(snapshot *capability.Snapshot, opts ...Option) *Processor {
	if snapshot == nil {
		snapshot = &capability.Snapshot{}
	}
	p := &Processor{
		snapshot: snapshot,
		logger:   slog.Default().With("component", "extractor"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process extracts a single file into a normalized record. An unreachable
// path or unsupported extension returns an error; every other condition,
// including total extraction failure, returns a record describing what
// happened.
func (p *Processor) Process(ctx context.Context, path string) (*core.DocumentRecord, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", core.ErrUnsupportedFormat, path)
	}

	kind, err := Classify(path)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("processing file", "source", path, "kind", kind)

	switch kind {
	case KindDocument:
		return p.processDocument(ctx, path, info.Size()), nil
	case KindEmail, KindMailStore:
		return p.processEmail(ctx, path, info.Size()), nil
	case KindArchive:
		return p.processArchive(ctx, path, info.Size()), nil
	default:
		return p.climb(ctx, path, []rung{
			{name: "generic-loader", attempt: func(ctx context.Context) (*core.DocumentRecord, error) {
				return p.loadGeneric(ctx, path, info.Size(), "direct generic-format load")
			}},
		}), nil
	}
}

// rung is one strategy in a processor's degradation ladder.
type rung struct {
	name    string
	attempt func(ctx context.Context) (*core.DocumentRecord, error)
}

// climb walks the rungs in order and returns the first record produced.
// Every transition is logged with the failing rung's reason. If all rungs
// fail, the result is an error-describing record, never a nil record.
func (p *Processor) climb(ctx context.Context, path string, rungs []rung) *core.DocumentRecord {
	var lastErr error
	for _, r := range rungs {
		record, err := r.attempt(ctx)
		if err == nil {
			return record
		}
		lastErr = err
		p.logger.Warn("extraction strategy failed, degrading",
			"source", path, "strategy", r.name, "reason", err)
	}
	return p.errorRecord(path, lastErr)
}

// errorRecord is the terminal rung: a record whose content describes the
// failure, so downstream consumers still receive text for every input.
func (p *Processor) errorRecord(path string, cause error) *core.DocumentRecord {
	message := "unknown failure"
	if cause != nil {
		message = cause.Error()
	}
	p.logger.Error("all extraction strategies failed",
		"source", path, "reason", message)

	return &core.DocumentRecord{
		RawContent:    fmt.Sprintf("Could not process %s: %s", filepath.Base(path), message),
		SourceLocator: path,
		Enhanced:      false,
		Metadata: core.Metadata{
			"file_type":         FileType(path),
			"processing_method": methodError,
			"error":             message,
			"file_size":         fileSize(path),
		},
	}
}

// fileSize returns the on-disk size, or 0 if the file vanished.
func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
