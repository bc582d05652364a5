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


package openai

import (
	"log/slog"

	"github.com/poiesic/lexingest/ai"
)

// VisionProvider implements ai.VisionProvider using OpenAI-compatible services.
// It manages the OCR, layout classification and table extraction instances.
type VisionProvider struct {
	config    *ai.Config
	ocr       *OCREngine
	layout    *LayoutClassifier
	tables    *TableExtractor
	logger    *slog.Logger
}

// NewVisionProvider creates a new provider for the page-level extraction
// services. The config is validated and normalized before use.
//
// Returns ai.VisionProvider interface (not *VisionProvider) to enforce
// abstraction and prevent coupling to OpenAI-specific implementation details.
func NewVisionProvider(config *ai.Config) (ai.VisionProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	ocr, err := newOCREngine(config)
	if err != nil {
		return nil, err
	}

	layout, err := newLayoutClassifier(config)
	if err != nil {
		return nil, err
	}

	tables, err := newTableExtractor(config)
	if err != nil {
		return nil, err
	}

	return &VisionProvider{
		config: config,
		ocr:    ocr,
		layout: layout,
		tables: tables,
		logger: slog.Default().With("component", "openai-vision-provider"),
	}, nil
}

// OCREngine returns the OCR service.
func (p *VisionProvider) OCREngine() ai.OCREngine {
	return p.ocr
}

// LayoutClassifier returns the layout classification service.
func (p *VisionProvider) LayoutClassifier() ai.LayoutClassifier {
	return p.layout
}

// TableExtractor returns the table extraction service.
func (p *VisionProvider) TableExtractor() ai.TableExtractor {
	return p.tables
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *VisionProvider) Close() error {
	p.logger.Debug("closing OpenAI vision provider")
	return nil
}
