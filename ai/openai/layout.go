package openai

import (
	"context"
	"log/slog"

	"github.com/poiesic/lexingest/ai"
	"github.com/tmc/langchaingo/llms"
)

// LayoutClassifier implements ai.LayoutClassifier using an OpenAI-compatible
// vision model.
type LayoutClassifier struct {
	client llms.Model
	logger *slog.Logger
}

// layoutResponse matches the JSON structure requested from the model.
type layoutResponse struct {
	LayoutType string  `json:"layout_type"`
	Confidence float64 `json:"confidence"`
	HasText    bool    `json:"has_text"`
}

// newLayoutClassifier is an internal constructor that returns the concrete type.
func newLayoutClassifier(config *ai.Config) (*LayoutClassifier, error) {
	client, err := newVisionClient(config)
	if err != nil {
		return nil, err
	}

	return &LayoutClassifier{
		client: client,
		logger: slog.Default().With("component", "openai-layout"),
	}, nil
}

// NewLayoutClassifier creates a new layout classifier using the provided
// configuration.
//
// Returns ai.LayoutClassifier interface to enforce abstraction.
func NewLayoutClassifier(config *ai.Config) (ai.LayoutClassifier, error) {
	return newLayoutClassifier(config)
}

// ClassifyLayout returns a structure label and confidence for the page.
func (c *LayoutClassifier) ClassifyLayout(ctx context.Context, image []byte, mimeType string) (*ai.LayoutInfo, error) {
	var resp layoutResponse
	if err := generateJSON(ctx, c.client, c.logger,
		layoutSystemPrompt, layoutInstruction, image, mimeType, &resp); err != nil {
		return nil, err
	}

	if resp.LayoutType == "" {
		resp.LayoutType = "unknown"
	}

	return &ai.LayoutInfo{
		LayoutType: resp.LayoutType,
		Confidence: clampUnit(resp.Confidence),
		HasText:    resp.HasText,
	}, nil
}
