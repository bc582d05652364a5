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


package core

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from raw content using BLAKE2b hashing.
// Identical content always produces the same ID, which makes it suitable
// as an extraction cache key.
func IDFromContent(data []byte) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write(data)
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Metadata carries per-record descriptive fields. Values are scalars, lists
// or nested mappings depending on the processing method that produced them.
// Every record carries at least "file_type" and "processing_method".
type Metadata map[string]any

// Clone returns a shallow copy of the metadata map.
// Nested values are shared; processors treat attached metadata as immutable.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// DocumentRecord is the normalized output of extraction: text plus metadata,
// independent of the source format. Records are immutable once returned and
// have no persisted identity.
type DocumentRecord struct {
	// RawContent is the extracted text. It is always present for a reachable
	// file; in total failure it holds a human-readable error description.
	RawContent string

	// SourceLocator identifies the input, typically the file path.
	SourceLocator string

	// Enhanced is true only if the richest available extraction method
	// succeeded for this record.
	Enhanced bool

	// Metadata describes how the record was produced.
	Metadata Metadata
}

// ChunkRecord is a retrieval-sized slice of a DocumentRecord's text, tagged
// with the method used to produce it. Metadata includes "chunk_index",
// "chunking_method" and "total_chunks", and inherits the parent document's
// metadata.
type ChunkRecord struct {
	Content  string
	Metadata Metadata
}

// Chunking method values recorded in ChunkRecord metadata.
const (
	ChunkMethodSemantic    = "semantic"
	ChunkMethodFixedWindow = "fixed-window"
)

// ErrorRecord represents a failed batch slot. It carries enough context for
// the caller to identify and report the failing input without affecting
// sibling results.
type ErrorRecord struct {
	// SourceLocator identifies the failing input.
	SourceLocator string

	// Kind classifies the failure.
	Kind string

	// Message is the human-readable failure description.
	Message string
}

// Error kinds used in ErrorRecord.
const (
	ErrorKindExtraction = "extraction"
	ErrorKindChunking   = "chunking"
	ErrorKindPanic      = "panic"
	ErrorKindCancelled  = "cancelled"
)

func (e *ErrorRecord) Error() string {
	return e.Kind + ": " + e.SourceLocator + ": " + e.Message
}
