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

import "errors"

// Domain errors
var (
	// ErrUnsupportedFormat indicates the classifier has no processor for a
	// file's extension. This is a local, recoverable condition: callers
	// either skip the file or route it to a generic text loader.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrCapabilityUnavailable indicates a specific enhancement step cannot
	// run because its capability was probed as unavailable. Always
	// recoverable; it triggers the next fallback rung.
	ErrCapabilityUnavailable = errors.New("capability unavailable")

	// ErrExtractionFailed indicates a specific extraction strategy threw.
	// Recoverable; it triggers the next fallback rung.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrEmptyDocument indicates a chunking request for a document with no content.
	ErrEmptyDocument = errors.New("document content cannot be empty")

	// ErrNilDocument indicates a chunking request for a nil document.
	ErrNilDocument = errors.New("document required")
)
