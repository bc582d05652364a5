package openai

import (
	"context"
	"log/slog"

	"github.com/poiesic/lexingest/ai"
	"github.com/tmc/langchaingo/llms"
)

// OCREngine implements ai.OCREngine using an OpenAI-compatible vision model.
type OCREngine struct {
	client llms.Model
	logger *slog.Logger
}

// ocrResponse matches the JSON structure requested from the model.
type ocrResponse struct {
	Lines []struct {
		Text       string  `json:"text"`
		Confidence float64 `json:"confidence"`
	} `json:"lines"`
}

// newOCREngine is an internal constructor that returns the concrete type.
func newOCREngine(config *ai.Config) (*OCREngine, error) {
	client, err := newVisionClient(config)
	if err != nil {
		return nil, err
	}

	return &OCREngine{
		client: client,
		logger: slog.Default().With("component", "openai-ocr"),
	}, nil
}

// NewOCREngine creates a new OCR engine using the provided configuration.
//
// Returns ai.OCREngine interface to enforce abstraction.
func NewOCREngine(config *ai.Config) (ai.OCREngine, error) {
	return newOCREngine(config)
}

// RecognizePage runs OCR over a single page image via the vision model.
func (e *OCREngine) RecognizePage(ctx context.Context, image []byte, mimeType string) (*ai.OCRResult, error) {
	e.logger.Debug("recognizing page", "bytes", len(image), "mime", mimeType)

	var resp ocrResponse
	if err := generateJSON(ctx, e.client, e.logger,
		ocrSystemPrompt, ocrInstruction, image, mimeType, &resp); err != nil {
		return nil, err
	}

	result := &ai.OCRResult{Lines: make([]ai.OCRLine, 0, len(resp.Lines))}
	for _, line := range resp.Lines {
		if line.Text == "" {
			continue
		}
		result.Lines = append(result.Lines, ai.OCRLine{
			Text:       line.Text,
			Confidence: clampUnit(line.Confidence),
		})
	}

	e.logger.Debug("page recognized", "lines", len(result.Lines),
		"meanConfidence", result.MeanConfidence())
	return result, nil
}

// clampUnit clamps a confidence score to [0, 1].
func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
