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


package extract

import (
	"context"
	"fmt"
	"mime"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/poiesic/lexingest/ai"
	"github.com/poiesic/lexingest/core"
)

// processDocument runs the document ladder: model-backed page extraction,
// then the native PDF text layer, then the generic loader.
func (p *Processor) processDocument(ctx context.Context, path string, size int64) *core.DocumentRecord {
	if Ext(path) == ".pdf" {
		return p.climb(ctx, path, []rung{
			{name: "ocr", attempt: func(ctx context.Context) (*core.DocumentRecord, error) {
				return p.pdfEnhanced(ctx, path, size)
			}},
			{name: "native-text", attempt: func(ctx context.Context) (*core.DocumentRecord, error) {
				return p.pdfNativeText(path, size)
			}},
			{name: "generic-loader", attempt: func(ctx context.Context) (*core.DocumentRecord, error) {
				return p.loadGeneric(ctx, path, size, "enhanced PDF extraction unavailable")
			}},
		})
	}

	return p.climb(ctx, path, []rung{
		{name: "ocr", attempt: func(ctx context.Context) (*core.DocumentRecord, error) {
			return p.imageEnhanced(ctx, path, size)
		}},
		{name: "generic-loader", attempt: func(ctx context.Context) (*core.DocumentRecord, error) {
			return p.loadGeneric(ctx, path, size, "OCR unavailable for image")
		}},
	})
}

// pageResult accumulates the extracted text of one page plus OCR confidence
// when the text came from recognition rather than the native layer.
type pageResult struct {
	text       string
	confidence float64
	recognized bool
}

// pdfEnhanced is the richest PDF rung: per-page embedded images run through
// OCR (plus layout classification and table extraction when available), with
// a failed page degrading to that page's native text layer instead of
// failing the document.
func (p *Processor) pdfEnhanced(ctx context.Context, path string, size int64) (*core.DocumentRecord, error) {
	engine, ok := p.snapshot.OCREngine()
	if !ok {
		return nil, fmt.Errorf("%w: ocr: %s", core.ErrCapabilityUnavailable, p.snapshot.OCR.Reason)
	}

	pdfCtx, err := openPDF(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrExtractionFailed, err)
	}

	var blocks []string
	var layoutTypes []string
	var confidenceSum float64
	recognizedPages := 0

	for pageNr := 1; pageNr <= pdfCtx.PageCount; pageNr++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		images, imgErr := pdfPageImages(pdfCtx, pageNr)
		if imgErr != nil {
			p.logger.Warn("page image extraction failed, using native text",
				"source", path, "page", pageNr, "reason", imgErr)
			images = nil
		}

		page := p.extractPage(ctx, path, pageNr, pdfCtx, engine, images)
		if page.recognized {
			confidenceSum += page.confidence
			recognizedPages++
		}
		if layoutType := p.classifyPage(ctx, path, pageNr, images); layoutType != "" {
			layoutTypes = append(layoutTypes, layoutType)
		}

		if page.text == "" {
			continue
		}
		block := fmt.Sprintf("--- Page %d ---\n%s", pageNr, page.text)
		if tables := p.extractPageTables(ctx, path, pageNr, images); tables != "" {
			block += "\n" + tables
		}
		blocks = append(blocks, block)
	}

	if len(blocks) == 0 {
		return nil, fmt.Errorf("%w: no text recovered from any page", core.ErrExtractionFailed)
	}

	metadata := core.Metadata{
		"file_type":         "pdf",
		"total_pages":       pdfCtx.PageCount,
		"processing_method": methodEnhanced,
		"file_size":         size,
	}
	if recognizedPages > 0 {
		metadata["ocr_confidence"] = confidenceSum / float64(recognizedPages)
	}
	if len(layoutTypes) > 0 {
		metadata["layout_types"] = layoutTypes
	}

	return &core.DocumentRecord{
		RawContent:    strings.Join(blocks, "\n\n"),
		SourceLocator: path,
		Enhanced:      true,
		Metadata:      metadata,
	}, nil
}

// extractPage recognizes one page's images, falling back to the page's
// native text layer when there are no images or recognition fails.
func (p *Processor) extractPage(ctx context.Context, path string, pageNr int,
	pdfCtx *model.Context, engine ai.OCREngine, images []pageImage) pageResult {

	var parts []string
	var confidenceSum float64
	recognized := 0

	for _, img := range images {
		result, err := engine.RecognizePage(ctx, img.data, img.mimeType)
		if err != nil {
			p.logger.Warn("OCR failed for page image",
				"source", path, "page", pageNr, "reason", err)
			continue
		}
		if text := result.Text(); text != "" {
			parts = append(parts, text)
			confidenceSum += result.MeanConfidence()
			recognized++
		}
	}

	if recognized > 0 {
		return pageResult{
			text:       strings.Join(parts, "\n"),
			confidence: confidenceSum / float64(recognized),
			recognized: true,
		}
	}
	return pageResult{text: pdfPageText(pdfCtx, pageNr)}
}

// classifyPage runs layout classification over the page's first image when
// the capability is available. Failures are logged and ignored.
func (p *Processor) classifyPage(ctx context.Context, path string, pageNr int, images []pageImage) string {
	classifier, ok := p.snapshot.LayoutClassifier()
	if !ok || len(images) == 0 {
		return ""
	}
	info, err := classifier.ClassifyLayout(ctx, images[0].data, images[0].mimeType)
	if err != nil {
		p.logger.Warn("layout classification failed",
			"source", path, "page", pageNr, "reason", err)
		return ""
	}
	return info.LayoutType
}

// extractPageTables renders the page's detected tables as delimited text
// blocks. Table numbering restarts per page. Failures are logged and ignored.
func (p *Processor) extractPageTables(ctx context.Context, path string, pageNr int, images []pageImage) string {
	extractor, ok := p.snapshot.TableExtractor()
	if !ok || len(images) == 0 {
		return ""
	}

	var blocks []string
	tableNr := 0
	for _, img := range images {
		tables, err := extractor.ExtractTables(ctx, img.data, img.mimeType)
		if err != nil {
			p.logger.Warn("table extraction failed",
				"source", path, "page", pageNr, "reason", err)
			continue
		}
		for _, table := range tables {
			rendered := table.Render()
			if rendered == "" {
				continue
			}
			tableNr++
			blocks = append(blocks, fmt.Sprintf("\n--- Table %d ---\n%s", tableNr, rendered))
		}
	}
	return strings.Join(blocks, "\n")
}

// imageEnhanced runs OCR over a standalone page image.
func (p *Processor) imageEnhanced(ctx context.Context, path string, size int64) (*core.DocumentRecord, error) {
	engine, ok := p.snapshot.OCREngine()
	if !ok {
		return nil, fmt.Errorf("%w: ocr: %s", core.ErrCapabilityUnavailable, p.snapshot.OCR.Reason)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrExtractionFailed, err)
	}

	mimeType := mime.TypeByExtension(Ext(path))
	if mimeType == "" {
		mimeType = "image/png"
	}

	result, err := engine.RecognizePage(ctx, data, mimeType)
	if err != nil {
		return nil, fmt.Errorf("%w: ocr: %v", core.ErrExtractionFailed, err)
	}
	text := result.Text()
	if text == "" {
		return nil, fmt.Errorf("%w: no text recognized in image", core.ErrExtractionFailed)
	}

	metadata := core.Metadata{
		"file_type":         "image",
		"total_pages":       1,
		"processing_method": methodEnhanced,
		"ocr_confidence":    result.MeanConfidence(),
		"file_size":         size,
	}
	images := []pageImage{{data: data, mimeType: mimeType}}
	if layoutType := p.classifyPage(ctx, path, 1, images); layoutType != "" {
		metadata["layout_types"] = []string{layoutType}
	}

	content := text
	if tables := p.extractPageTables(ctx, path, 1, images); tables != "" {
		content += "\n" + tables
	}

	return &core.DocumentRecord{
		RawContent:    content,
		SourceLocator: path,
		Enhanced:      true,
		Metadata:      metadata,
	}, nil
}

// pdfNativeText extracts the text layer of every page through the PDF
// content streams, without any model involvement.
func (p *Processor) pdfNativeText(path string, size int64) (*core.DocumentRecord, error) {
	pdfCtx, err := openPDF(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrExtractionFailed, err)
	}

	var blocks []string
	for pageNr := 1; pageNr <= pdfCtx.PageCount; pageNr++ {
		text := pdfPageText(pdfCtx, pageNr)
		if text == "" {
			continue
		}
		blocks = append(blocks, fmt.Sprintf("--- Page %d ---\n%s", pageNr, text))
	}
	if len(blocks) == 0 {
		return nil, fmt.Errorf("%w: no text layer in PDF", core.ErrExtractionFailed)
	}

	return &core.DocumentRecord{
		RawContent:    strings.Join(blocks, "\n\n"),
		SourceLocator: path,
		Enhanced:      false,
		Metadata: core.Metadata{
			"file_type":         "pdf",
			"total_pages":       pdfCtx.PageCount,
			"processing_method": methodNativeText,
			"file_size":         size,
		},
	}, nil
}
