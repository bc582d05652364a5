package openai

import (
	"context"
	"log/slog"

	"github.com/poiesic/lexingest/ai"
	"github.com/tmc/langchaingo/llms"
)

// TableExtractor implements ai.TableExtractor using an OpenAI-compatible
// vision model.
type TableExtractor struct {
	client llms.Model
	logger *slog.Logger
}

// tableResponse matches the JSON structure requested from the model.
type tableResponse struct {
	Tables []struct {
		Rows     [][]string `json:"rows"`
		Accuracy float64    `json:"accuracy"`
	} `json:"tables"`
}

// newTableExtractor is an internal constructor that returns the concrete type.
func newTableExtractor(config *ai.Config) (*TableExtractor, error) {
	client, err := newVisionClient(config)
	if err != nil {
		return nil, err
	}

	return &TableExtractor{
		client: client,
		logger: slog.Default().With("component", "openai-tables"),
	}, nil
}

// NewTableExtractor creates a new table extractor using the provided
// configuration.
//
// Returns ai.TableExtractor interface to enforce abstraction.
func NewTableExtractor(config *ai.Config) (ai.TableExtractor, error) {
	return newTableExtractor(config)
}

// ExtractTables returns the tables detected on the page, in reading order.
func (e *TableExtractor) ExtractTables(ctx context.Context, image []byte, mimeType string) ([]ai.Table, error) {
	var resp tableResponse
	if err := generateJSON(ctx, e.client, e.logger,
		tableSystemPrompt, tableInstruction, image, mimeType, &resp); err != nil {
		return nil, err
	}

	tables := make([]ai.Table, 0, len(resp.Tables))
	for _, t := range resp.Tables {
		if len(t.Rows) == 0 {
			continue
		}
		tables = append(tables, ai.Table{
			Rows:     t.Rows,
			Accuracy: clampUnit(t.Accuracy),
		})
	}

	e.logger.Debug("tables extracted", "count", len(tables))
	return tables, nil
}
