package capability

import (
	"context"
	"sync"

	"github.com/poiesic/lexingest/ai"
)

// gatedOCR serializes calls to an OCR engine that is not safe for concurrent
// inference. Only the engine invocation is gated; callers' file I/O and
// page preparation still run concurrently.
type gatedOCR struct {
	mu    sync.Mutex
	inner ai.OCREngine
}

// serializedOCR wraps engine in a single-slot gate.
func serializedOCR(engine ai.OCREngine) ai.OCREngine {
	return &gatedOCR{inner: engine}
}

// RecognizePage acquires the gate, honoring context cancellation while waiting.
func (g *gatedOCR) RecognizePage(ctx context.Context, image []byte, mimeType string) (*ai.OCRResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inner.RecognizePage(ctx, image, mimeType)
}
