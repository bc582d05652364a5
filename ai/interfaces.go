package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity grouping.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// OCREngine recognizes text in a page image, returning line text with
// per-line confidence. Implementations that are not safe for concurrent
// inference must be wrapped by the capability registry's serialization gate.
type OCREngine interface {
	// RecognizePage runs OCR over a single page image. The mimeType describes
	// the image encoding, e.g. "image/png".
	// Returns an error if recognition fails; an empty result (no lines) is
	// a valid outcome for a blank page.
	RecognizePage(ctx context.Context, image []byte, mimeType string) (*OCRResult, error)
}

// LayoutClassifier classifies the structural layout of a page image.
// Implementations must be thread-safe for concurrent use.
type LayoutClassifier interface {
	// ClassifyLayout returns a structure label and confidence for the page.
	ClassifyLayout(ctx context.Context, image []byte, mimeType string) (*LayoutInfo, error)
}

// TableExtractor extracts tabular records from a page image.
// Implementations must be thread-safe for concurrent use.
type TableExtractor interface {
	// ExtractTables returns the tables detected on the page, in reading order.
	// Returns an empty slice if no tables are found.
	ExtractTables(ctx context.Context, image []byte, mimeType string) ([]Table, error)
}

// VisionProvider aggregates the page-level extraction services for convenient
// initialization and lifecycle management. A provider creates and manages
// OCREngine, LayoutClassifier and TableExtractor instances, ensuring they
// share configuration and resources appropriately.
type VisionProvider interface {
	// OCREngine returns the OCR service.
	OCREngine() OCREngine

	// LayoutClassifier returns the layout classification service.
	LayoutClassifier() LayoutClassifier

	// TableExtractor returns the table extraction service.
	TableExtractor() TableExtractor

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
