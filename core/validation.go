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

import "fmt"

// ValidateDocumentRecord validates a DocumentRecord against the extraction
// contract.
//
// Validation rules:
//   - SourceLocator must not be empty
//   - Metadata must carry "file_type" and "processing_method"
//
// NOT validated:
//   - RawContent (an error-describing placeholder is a valid content)
//   - Enhanced (false is the degraded-but-valid case)
func ValidateDocumentRecord(record *DocumentRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrNilDocument)
	}

	if record.SourceLocator == "" {
		return fmt.Errorf("invalid document record: source locator is empty")
	}

	for _, key := range []string{"file_type", "processing_method"} {
		if _, ok := record.Metadata[key]; !ok {
			return fmt.Errorf("invalid document record: metadata missing %q", key)
		}
	}

	return nil
}

// ValidateChunkRecord validates a ChunkRecord against the chunking contract.
//
// Validation rules:
//   - Content must not be empty
//   - Metadata must carry "chunk_index", "chunking_method" and "total_chunks"
func ValidateChunkRecord(record *ChunkRecord) error {
	if record == nil {
		return fmt.Errorf("invalid chunk record: record is nil")
	}

	if record.Content == "" {
		return fmt.Errorf("invalid chunk record: %w", ErrEmptyDocument)
	}

	for _, key := range []string{"chunk_index", "chunking_method", "total_chunks"} {
		if _, ok := record.Metadata[key]; !ok {
			return fmt.Errorf("invalid chunk record: metadata missing %q", key)
		}
	}

	method, _ := record.Metadata["chunking_method"].(string)
	if method != ChunkMethodSemantic && method != ChunkMethodFixedWindow {
		return fmt.Errorf("invalid chunk record: unknown chunking method %q", method)
	}

	return nil
}
