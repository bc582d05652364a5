package mock

import (
	"context"
	"strings"

	"github.com/poiesic/lexingest/ai"
)

// OCREngine is a test double for ai.OCREngine.
// It allows custom behavior injection via function fields.
type OCREngine struct {
	// RecognizePageFunc is called by RecognizePage if set.
	// If nil, uses default deterministic behavior.
	RecognizePageFunc func(ctx context.Context, image []byte, mimeType string) (*ai.OCRResult, error)

	callCount int
}

// NewOCREngine creates a mock OCR engine with default deterministic behavior.
// Note: Returns concrete type to allow test assertions.
func NewOCREngine() *OCREngine {
	return &OCREngine{}
}

// RecognizePage returns the image bytes interpreted as text lines.
// The default treats the image payload as plain text, which lets tests feed
// synthetic "page images" and get predictable OCR output back.
func (m *OCREngine) RecognizePage(ctx context.Context, image []byte, mimeType string) (*ai.OCRResult, error) {
	m.callCount++

	if m.RecognizePageFunc != nil {
		return m.RecognizePageFunc(ctx, image, mimeType)
	}

	result := &ai.OCRResult{}
	for _, line := range strings.Split(string(image), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		result.Lines = append(result.Lines, ai.OCRLine{Text: line, Confidence: 0.95})
	}
	return result, nil
}

// CallCount returns the number of times RecognizePage was called.
func (m *OCREngine) CallCount() int {
	return m.callCount
}

// LayoutClassifier is a test double for ai.LayoutClassifier.
type LayoutClassifier struct {
	// ClassifyLayoutFunc is called by ClassifyLayout if set.
	ClassifyLayoutFunc func(ctx context.Context, image []byte, mimeType string) (*ai.LayoutInfo, error)

	callCount int
}

// NewLayoutClassifier creates a mock layout classifier.
func NewLayoutClassifier() *LayoutClassifier {
	return &LayoutClassifier{}
}

// ClassifyLayout returns a fixed "document" classification by default.
func (m *LayoutClassifier) ClassifyLayout(ctx context.Context, image []byte, mimeType string) (*ai.LayoutInfo, error) {
	m.callCount++

	if m.ClassifyLayoutFunc != nil {
		return m.ClassifyLayoutFunc(ctx, image, mimeType)
	}

	return &ai.LayoutInfo{LayoutType: "document", Confidence: 0.9, HasText: true}, nil
}

// CallCount returns the number of times ClassifyLayout was called.
func (m *LayoutClassifier) CallCount() int {
	return m.callCount
}

// TableExtractor is a test double for ai.TableExtractor.
type TableExtractor struct {
	// ExtractTablesFunc is called by ExtractTables if set.
	ExtractTablesFunc func(ctx context.Context, image []byte, mimeType string) ([]ai.Table, error)

	callCount int
}

// NewTableExtractor creates a mock table extractor.
func NewTableExtractor() *TableExtractor {
	return &TableExtractor{}
}

// ExtractTables returns no tables by default.
func (m *TableExtractor) ExtractTables(ctx context.Context, image []byte, mimeType string) ([]ai.Table, error) {
	m.callCount++

	if m.ExtractTablesFunc != nil {
		return m.ExtractTablesFunc(ctx, image, mimeType)
	}

	return []ai.Table{}, nil
}

// CallCount returns the number of times ExtractTables was called.
func (m *TableExtractor) CallCount() int {
	return m.callCount
}

// VisionProvider is a test double for ai.VisionProvider aggregating the
// concrete mocks so tests can reach them for assertions.
type VisionProvider struct {
	OCR    *OCREngine
	Layout *LayoutClassifier
	Tables *TableExtractor
}

// NewVisionProvider creates a mock provider with default mock services.
func NewVisionProvider() *VisionProvider {
	return &VisionProvider{
		OCR:    NewOCREngine(),
		Layout: NewLayoutClassifier(),
		Tables: NewTableExtractor(),
	}
}

// OCREngine returns the mock OCR service.
func (p *VisionProvider) OCREngine() ai.OCREngine {
	return p.OCR
}

// LayoutClassifier returns the mock layout classification service.
func (p *VisionProvider) LayoutClassifier() ai.LayoutClassifier {
	return p.Layout
}

// TableExtractor returns the mock table extraction service.
func (p *VisionProvider) TableExtractor() ai.TableExtractor {
	return p.Tables
}

// Close is a no-op.
func (p *VisionProvider) Close() error {
	return nil
}
