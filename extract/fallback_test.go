package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/lexingest/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenericTextLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("Clause 7 applies.\n"), 0o644))

	processor := NewProcessor(emptySnapshot(t))
	record, err := processor.Process(context.Background(), path)
	require.NoError(t, err)

	assert.False(t, record.Enhanced)
	assert.Equal(t, "Clause 7 applies.\n", record.RawContent)
	assert.Equal(t, "txt", record.Metadata["file_type"])
	assert.Equal(t, "fallback", record.Metadata["processing_method"])
	assert.Equal(t, path, record.SourceLocator)
	assert.Equal(t, int64(18), record.Metadata["file_size"])
}

func TestGenericInvalidUTF8Substituted(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "legacy.txt")
	require.NoError(t, os.WriteFile(path, []byte("caf\xe9 terms"), 0o644))

	processor := NewProcessor(emptySnapshot(t))
	record, err := processor.Process(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "caf� terms", record.RawContent)
}

func TestGenericDocx(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "brief.docx")
	documentXML := `<?xml version="1.0"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		`<w:body>` +
		`<w:p><w:r><w:t>Opening Brief</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>The court should deny the motion.</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	writeZip(t, path, map[string][]byte{
		"word/document.xml":   []byte(documentXML),
		"[Content_Types].xml": []byte(`<?xml version="1.0"?><Types/>`),
	})

	processor := NewProcessor(emptySnapshot(t))
	record, err := processor.Process(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "Opening Brief\nThe court should deny the motion.", record.RawContent)
	assert.Equal(t, "docx", record.Metadata["file_type"])
	assert.Equal(t, "fallback", record.Metadata["processing_method"])
}

func TestGenericCorruptDocxReadsRaw(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mangled.docx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip container"), 0o644))

	processor := NewProcessor(emptySnapshot(t))
	record, err := processor.Process(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "not a zip container", record.RawContent)
	assert.Equal(t, "fallback", record.Metadata["processing_method"])
}

func TestGenericODT(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "memo.odt")
	contentXML := `<?xml version="1.0"?>` +
		`<office:document-content xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"` +
		` xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0">` +
		`<office:body><office:text>` +
		`<text:p>Memorandum of understanding.</text:p>` +
		`</office:text></office:body></office:document-content>`
	writeZip(t, path, map[string][]byte{"content.xml": []byte(contentXML)})

	processor := NewProcessor(emptySnapshot(t))
	record, err := processor.Process(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "Memorandum of understanding.", record.RawContent)
	assert.Equal(t, "odt", record.Metadata["file_type"])
}

func TestProcessUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tool.exe")
	require.NoError(t, os.WriteFile(path, []byte{0x4d, 0x5a}, 0o644))

	processor := NewProcessor(emptySnapshot(t))
	_, err := processor.Process(context.Background(), path)
	assert.ErrorIs(t, err, core.ErrUnsupportedFormat)
}

func TestProcessMissingFile(t *testing.T) {
	processor := NewProcessor(emptySnapshot(t))
	_, err := processor.Process(context.Background(), filepath.Join(t.TempDir(), "absent.pdf"))
	assert.Error(t, err)
}

func TestProcessDirectory(t *testing.T) {
	processor := NewProcessor(emptySnapshot(t))
	_, err := processor.Process(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, core.ErrUnsupportedFormat)
}
