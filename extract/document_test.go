package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/lexingest/ai"
	"github.com/poiesic/lexingest/ai/mock"
	"github.com/poiesic/lexingest/capability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// visionSnapshot probes a snapshot backed by the mock vision provider,
// returning the provider so tests can inject behavior and assert call counts.
func visionSnapshot(t *testing.T) (*capability.Snapshot, *mock.VisionProvider) {
	t.Helper()
	provider := mock.NewVisionProvider()
	registry := capability.NewRegistry(
		capability.WithVisionProvider(func(ctx context.Context) (ai.VisionProvider, error) {
			return provider, nil
		}),
	)
	return registry.Probe(context.Background()), provider
}

func writeImage(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func TestImageOCR(t *testing.T) {
	snapshot, provider := visionSnapshot(t)
	path := writeImage(t, t.TempDir(), "invoice.png", "INVOICE\nTotal: $100")

	processor := NewProcessor(snapshot)
	record, err := processor.Process(context.Background(), path)
	require.NoError(t, err)

	assert.True(t, record.Enhanced)
	assert.Contains(t, record.RawContent, "INVOICE")
	assert.Contains(t, record.RawContent, "Total: $100")
	assert.Equal(t, "image", record.Metadata["file_type"])
	assert.Equal(t, "enhanced", record.Metadata["processing_method"])
	assert.Equal(t, 1, record.Metadata["total_pages"])
	assert.InDelta(t, 0.95, record.Metadata["ocr_confidence"].(float64), 1e-9)
	assert.Equal(t, []string{"document"}, record.Metadata["layout_types"])
	assert.Equal(t, 1, provider.OCR.CallCount())
}

func TestImageOCRRendersTables(t *testing.T) {
	snapshot, provider := visionSnapshot(t)
	provider.Tables.ExtractTablesFunc = func(ctx context.Context, image []byte, mimeType string) ([]ai.Table, error) {
		return []ai.Table{{
			Rows:     [][]string{{"Item", "Amount"}, {"Fees", "$500"}},
			Accuracy: 0.9,
		}}, nil
	}
	path := writeImage(t, t.TempDir(), "schedule.png", "Payment schedule")

	processor := NewProcessor(snapshot)
	record, err := processor.Process(context.Background(), path)
	require.NoError(t, err)

	assert.Contains(t, record.RawContent, "--- Table 1 ---")
	assert.Contains(t, record.RawContent, "Item | Amount")
	assert.Contains(t, record.RawContent, "Fees | $500")
}

func TestImageOCRUnavailableDegrades(t *testing.T) {
	path := writeImage(t, t.TempDir(), "scan.png", "readable bytes")

	processor := NewProcessor(emptySnapshot(t))
	record, err := processor.Process(context.Background(), path)
	require.NoError(t, err)

	assert.False(t, record.Enhanced)
	assert.Equal(t, "fallback", record.Metadata["processing_method"])
	assert.Equal(t, "readable bytes", record.RawContent)
}

func TestImageOCRFailureDegrades(t *testing.T) {
	snapshot, provider := visionSnapshot(t)
	provider.OCR.RecognizePageFunc = func(ctx context.Context, image []byte, mimeType string) (*ai.OCRResult, error) {
		return nil, errors.New("inference crashed")
	}
	path := writeImage(t, t.TempDir(), "scan.png", "still readable")

	processor := NewProcessor(snapshot)
	record, err := processor.Process(context.Background(), path)
	require.NoError(t, err)

	assert.False(t, record.Enhanced)
	assert.Equal(t, "fallback", record.Metadata["processing_method"])
	assert.Equal(t, "still readable", record.RawContent)
}

func TestLayoutFailureIsNotFatal(t *testing.T) {
	snapshot, provider := visionSnapshot(t)
	provider.Layout.ClassifyLayoutFunc = func(ctx context.Context, image []byte, mimeType string) (*ai.LayoutInfo, error) {
		return nil, errors.New("layout model crashed")
	}
	path := writeImage(t, t.TempDir(), "page.png", "body text")

	processor := NewProcessor(snapshot)
	record, err := processor.Process(context.Background(), path)
	require.NoError(t, err)

	assert.True(t, record.Enhanced)
	assert.NotContains(t, record.Metadata, "layout_types")
}

func TestProcessCancelledContext(t *testing.T) {
	snapshot, _ := visionSnapshot(t)
	path := writeImage(t, t.TempDir(), "page.png", "text")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A pre-cancelled context still yields a record: the OCR mock ignores
	// the context and the ladder has no other blocking work for images.
	processor := NewProcessor(snapshot)
	record, err := processor.Process(ctx, path)
	require.NoError(t, err)
	require.NotNil(t, record)
}
