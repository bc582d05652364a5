package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDocumentRecord(t *testing.T) {
	valid := func() *DocumentRecord {
		return &DocumentRecord{
			RawContent:    "some text",
			SourceLocator: "/docs/contract.pdf",
			Metadata: Metadata{
				"file_type":         "pdf",
				"processing_method": "enhanced",
			},
		}
	}

	t.Run("valid record", func(t *testing.T) {
		assert.NoError(t, ValidateDocumentRecord(valid()))
	})

	t.Run("nil record", func(t *testing.T) {
		assert.Error(t, ValidateDocumentRecord(nil))
	})

	t.Run("empty source locator", func(t *testing.T) {
		rec := valid()
		rec.SourceLocator = ""
		assert.Error(t, ValidateDocumentRecord(rec))
	})

	t.Run("missing file_type", func(t *testing.T) {
		rec := valid()
		delete(rec.Metadata, "file_type")
		err := ValidateDocumentRecord(rec)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "file_type")
	})

	t.Run("missing processing_method", func(t *testing.T) {
		rec := valid()
		delete(rec.Metadata, "processing_method")
		assert.Error(t, ValidateDocumentRecord(rec))
	})

	t.Run("error placeholder content is valid", func(t *testing.T) {
		rec := valid()
		rec.RawContent = "Could not process contract.pdf: permission denied"
		rec.Enhanced = false
		assert.NoError(t, ValidateDocumentRecord(rec))
	})
}

func TestValidateChunkRecord(t *testing.T) {
	valid := func() *ChunkRecord {
		return &ChunkRecord{
			Content: "Termination requires 30 days notice.",
			Metadata: Metadata{
				"chunk_index":     0,
				"chunking_method": ChunkMethodSemantic,
				"total_chunks":    1,
			},
		}
	}

	t.Run("valid semantic chunk", func(t *testing.T) {
		assert.NoError(t, ValidateChunkRecord(valid()))
	})

	t.Run("valid fixed-window chunk", func(t *testing.T) {
		rec := valid()
		rec.Metadata["chunking_method"] = ChunkMethodFixedWindow
		assert.NoError(t, ValidateChunkRecord(rec))
	})

	t.Run("nil record", func(t *testing.T) {
		assert.Error(t, ValidateChunkRecord(nil))
	})

	t.Run("empty content", func(t *testing.T) {
		rec := valid()
		rec.Content = ""
		assert.Error(t, ValidateChunkRecord(rec))
	})

	t.Run("unknown chunking method", func(t *testing.T) {
		rec := valid()
		rec.Metadata["chunking_method"] = "byte-window"
		err := ValidateChunkRecord(rec)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "byte-window")
	})

	t.Run("missing chunk_index", func(t *testing.T) {
		rec := valid()
		delete(rec.Metadata, "chunk_index")
		assert.Error(t, ValidateChunkRecord(rec))
	})
}
