package ai

import "strings"

// OCRLine is a single recognized text line with its confidence score in [0, 1].
type OCRLine struct {
	Text       string
	Confidence float64
}

// OCRResult holds the recognized lines of one page image, in reading order.
type OCRResult struct {
	Lines []OCRLine
}

// Text returns the recognized lines joined with newlines.
func (r *OCRResult) Text() string {
	parts := make([]string, 0, len(r.Lines))
	for _, line := range r.Lines {
		parts = append(parts, line.Text)
	}
	return strings.Join(parts, "\n")
}

// MeanConfidence returns the average line confidence, or 0 for an empty result.
func (r *OCRResult) MeanConfidence() float64 {
	if len(r.Lines) == 0 {
		return 0
	}
	var sum float64
	for _, line := range r.Lines {
		sum += line.Confidence
	}
	return sum / float64(len(r.Lines))
}

// LayoutInfo describes the structural classification of a page.
type LayoutInfo struct {
	// LayoutType is the structure label, e.g. "document", "form", "table", "unknown".
	LayoutType string

	// Confidence is the classifier's confidence in [0, 1].
	Confidence float64

	// HasText reports whether the page appears to contain text.
	HasText bool
}

// Table is one extracted table as rows of cell text.
type Table struct {
	Rows     [][]string
	Accuracy float64
}

// Render returns the table as a pipe-delimited text block, one row per line.
func (t *Table) Render() string {
	lines := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		lines = append(lines, strings.Join(row, " | "))
	}
	return strings.Join(lines, "\n")
}
