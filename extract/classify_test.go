package extract

import (
	"testing"

	"github.com/poiesic/lexingest/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want Kind
	}{
		{"contract.pdf", KindDocument},
		{"scan.PNG", KindDocument},
		{"page.jpeg", KindDocument},
		{"message.eml", KindEmail},
		{"message.msg", KindEmail},
		{"mailbox.pst", KindMailStore},
		{"bundle.zip", KindArchive},
		{"bundle.rar", KindArchive},
		{"bundle.tar", KindArchive},
		{"bundle.tar.gz", KindArchive},
		{"bundle.tgz", KindArchive},
		{"bundle.tar.bz2", KindArchive},
		{"notes.txt", KindGeneric},
		{"readme.md", KindGeneric},
		{"report.docx", KindGeneric},
		{"sheet.xlsx", KindGeneric},
		{"page.html", KindGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			kind, err := Classify("/data/" + tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, kind)
		})
	}
}

func TestClassifyUnsupported(t *testing.T) {
	for _, path := range []string{"binary.exe", "noextension", "data.sqlite"} {
		_, err := Classify(path)
		assert.ErrorIs(t, err, core.ErrUnsupportedFormat, path)
	}
}

func TestExt(t *testing.T) {
	assert.Equal(t, ".pdf", Ext("/a/b/Contract.PDF"))
	assert.Equal(t, ".tar.gz", Ext("backup.tar.gz"))
	assert.Equal(t, ".tar.bz2", Ext("backup.TAR.BZ2"))
	assert.Equal(t, ".gz", Ext("single.gz"))
	assert.Equal(t, "", Ext("noextension"))
}

func TestFileType(t *testing.T) {
	assert.Equal(t, "pdf", FileType("contract.pdf"))
	assert.Equal(t, "image", FileType("scan.jpeg"))
	assert.Equal(t, "image", FileType("scan.tiff"))
	assert.Equal(t, "tar", FileType("backup.tar.gz"))
	assert.Equal(t, "tar", FileType("backup.tgz"))
	assert.Equal(t, "zip", FileType("bundle.zip"))
}
