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


// Package ai provides abstractions for the AI services used in lexingest.
//
// This package defines interfaces for the optional extraction capabilities:
// text embeddings, page OCR, layout classification and table extraction.
// It follows the dependency inversion principle, allowing the extraction and
// chunking logic to depend on abstractions rather than concrete
// implementations.
//
// # Design Principles
//
// The package is designed around four capability interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - OCREngine: Recognizes line text with per-line confidence in page images
//   - LayoutClassifier: Classifies page structure
//   - TableExtractor: Extracts tabular records from pages
//
// plus VisionProvider, which aggregates the three page-level services for
// convenient initialization.
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewVisionProvider, openai.NewEmbedder) return
// INTERFACE types to enforce abstraction and prevent accidental coupling to
// concrete implementations.
//
// Test utility constructors (mock.NewEmbedder, mock.NewOCREngine, etc.)
// return CONCRETE types to enable test assertions and behavior injection via
// function fields.
//
// # Usage Example
//
//	config := ai.DefaultConfig()
//	provider, err := openai.NewVisionProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	result, err := provider.OCREngine().RecognizePage(ctx, pageImage, "image/png")
package ai
