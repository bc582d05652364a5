package extract

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"github.com/poiesic/lexingest/core"
	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"
)

// loadGeneric is the last functional rung of every ladder: typed loaders for
// the office and text formats, then a raw read with invalid-byte
// substitution. The reason explains which richer strategy was skipped or
// failed and is carried in the record's metadata.
func (p *Processor) loadGeneric(ctx context.Context, path string, size int64, reason string) (*core.DocumentRecord, error) {
	content, err := p.genericContent(ctx, path, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrExtractionFailed, path, err)
	}

	return &core.DocumentRecord{
		RawContent:    content,
		SourceLocator: path,
		Enhanced:      false,
		Metadata: core.Metadata{
			"file_type":         FileType(path),
			"processing_method": methodFallback,
			"reason":            reason,
			"file_size":         size,
		},
	}, nil
}

// genericContent extracts text with the best loader for the extension,
// degrading to a raw read when the typed loader fails or nothing matches.
func (p *Processor) genericContent(ctx context.Context, path string, size int64) (string, error) {
	var content string
	var err error

	switch Ext(path) {
	case ".txt", ".md", ".rtf":
		return readTextFile(path)
	case ".html", ".htm":
		content, err = p.loadWith(ctx, path, func(f *os.File) documentLoader {
			return documentloaders.NewHTML(f)
		})
	case ".csv":
		content, err = p.loadWith(ctx, path, func(f *os.File) documentLoader {
			return documentloaders.NewCSV(f)
		})
	case ".pdf":
		content, err = p.loadWith(ctx, path, func(f *os.File) documentLoader {
			return documentloaders.NewPDF(f, size)
		})
	case ".docx":
		content, err = readZippedXML(path, "word/document.xml", "p")
	case ".odt":
		content, err = readZippedXML(path, "content.xml", "p")
	default:
		return readTextFile(path)
	}

	if err != nil {
		p.logger.Warn("typed loader failed, reading raw", "source", path, "err", err)
		return readTextFile(path)
	}
	return content, nil
}

// documentLoader is the subset of the langchaingo loader interface used here.
type documentLoader interface {
	Load(ctx context.Context) ([]schema.Document, error)
}

// loadWith runs a typed document loader over the file and joins the page
// contents.
func (p *Processor) loadWith(ctx context.Context, path string, build func(f *os.File) documentLoader) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	docs, err := build(f).Load(ctx)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc.PageContent != "" {
			parts = append(parts, doc.PageContent)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text content in %s", path)
	}
	return strings.Join(parts, "\n"), nil
}

// readTextFile reads the file as UTF-8, substituting invalid bytes so the
// result is always valid text.
func readTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(data), "�"), nil
}

// readZippedXML extracts paragraph text from a ZIP-packaged XML office file
// (.docx word/document.xml, .odt content.xml). Character data inside each
// paragraph element is concatenated; paragraphs are joined with newlines.
func readZippedXML(path, member, paragraphElement string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	var target *zip.File
	for _, f := range zr.File {
		if f.Name == member {
			target = f
			break
		}
	}
	if target == nil {
		return "", fmt.Errorf("%s not found in %s", member, path)
	}

	rc, err := target.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", member, err)
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var paragraphs []string
	var current strings.Builder
	depth := 0

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == paragraphElement {
				if depth == 0 {
					current.Reset()
				}
				depth++
			}
		case xml.CharData:
			if depth > 0 {
				current.Write(t)
			}
		case xml.EndElement:
			if t.Name.Local == paragraphElement && depth > 0 {
				depth--
				if depth == 0 {
					if text := strings.TrimSpace(current.String()); text != "" {
						paragraphs = append(paragraphs, text)
					}
				}
			}
		}
	}

	if len(paragraphs) == 0 {
		return "", fmt.Errorf("no paragraph text in %s", path)
	}
	return strings.Join(paragraphs, "\n"), nil
}
