package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		id1 := IDFromContent([]byte("termination clause"))
		id2 := IDFromContent([]byte("termination clause"))
		assert.Equal(t, id1, id2)
	})

	t.Run("different content different id", func(t *testing.T) {
		id1 := IDFromContent([]byte("indemnification"))
		id2 := IDFromContent([]byte("termination"))
		assert.NotEqual(t, id1, id2)
	})

	t.Run("empty content", func(t *testing.T) {
		id := IDFromContent(nil)
		assert.Equal(t, id, IDFromContent([]byte{}))
	})
}

func TestMetadataClone(t *testing.T) {
	t.Run("copies top level keys", func(t *testing.T) {
		m := Metadata{"file_type": "pdf", "total_pages": 3}
		c := m.Clone()
		c["file_type"] = "eml"
		assert.Equal(t, "pdf", m["file_type"])
		assert.Equal(t, 3, c["total_pages"])
	})

	t.Run("nil metadata clones to empty", func(t *testing.T) {
		var m Metadata
		c := m.Clone()
		assert.NotNil(t, c)
		assert.Empty(t, c)
	})
}

func TestErrorRecordError(t *testing.T) {
	rec := &ErrorRecord{
		SourceLocator: "/docs/contract.pdf",
		Kind:          ErrorKindExtraction,
		Message:       "file unreadable",
	}
	assert.Equal(t, "extraction: /docs/contract.pdf: file unreadable", rec.Error())
}
