package extract

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/lexingest/capability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptySnapshot(t *testing.T, opts ...capability.Option) *capability.Snapshot {
	t.Helper()
	return capability.NewRegistry(opts...).Probe(context.Background())
}

func writeZip(t *testing.T, path string, members map[string][]byte, dirs ...string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for _, dir := range dirs {
		_, err := zw.Create(dir)
		require.NoError(t, err)
	}
	for name, data := range members {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func TestZipArchiveListing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bundle.zip")
	writeZip(t, path, map[string][]byte{
		"contract.txt": []byte("Termination requires notice."),
		"scan.bin":     {0xff, 0xfe, 0x00, 0x01},
	}, "exhibits/")

	processor := NewProcessor(emptySnapshot(t))
	record, err := processor.Process(context.Background(), path)
	require.NoError(t, err)

	assert.True(t, record.Enhanced)
	assert.Contains(t, record.RawContent, "ZIP ARCHIVE CONTENTS")
	assert.Contains(t, record.RawContent, "Archive: bundle.zip")
	assert.Contains(t, record.RawContent, "FILE: contract.txt")
	assert.Contains(t, record.RawContent, "Termination requires notice.")
	assert.Contains(t, record.RawContent, "[Binary file: scan.bin]")
	assert.NotContains(t, record.RawContent, "FILE: exhibits/")

	assert.Equal(t, "zip", record.Metadata["file_type"])
	assert.Equal(t, "archive_extraction", record.Metadata["processing_method"])
	// Directory entries are not counted.
	assert.Equal(t, 2, record.Metadata["file_count"])
	assert.ElementsMatch(t, []string{"contract.txt", "scan.bin"},
		record.Metadata["extracted_files"])
	assert.Equal(t, int64(28+4), record.Metadata["total_size"])
}

func TestTarGzArchiveListing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bundle.tar.gz")

	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	content := []byte("Exhibit A: schedule of payments.")
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name: "exhibit-a.txt", Mode: 0o644, Size: int64(len(content)), Typeflag: tar.TypeReg,
	}))
	_, err = tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	processor := NewProcessor(emptySnapshot(t))
	record, err := processor.Process(context.Background(), path)
	require.NoError(t, err)

	assert.Contains(t, record.RawContent, "TAR ARCHIVE CONTENTS")
	assert.Contains(t, record.RawContent, "Exhibit A: schedule of payments.")
	assert.Equal(t, "tar", record.Metadata["file_type"])
	assert.Equal(t, 1, record.Metadata["file_count"])
}

func TestRARCodecUnavailableDegrades(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bundle.rar")
	require.NoError(t, os.WriteFile(path, []byte("not really rar data"), 0o644))

	snapshot := emptySnapshot(t, capability.WithRARProbe(func() error {
		return errors.New("codec not linked")
	}))
	processor := NewProcessor(snapshot)

	record, err := processor.Process(context.Background(), path)
	require.NoError(t, err)

	assert.False(t, record.Enhanced)
	assert.Equal(t, "fallback", record.Metadata["processing_method"])
	assert.NotEmpty(t, record.Metadata["reason"])
	assert.Equal(t, "not really rar data", record.RawContent)
}

func TestCorruptZipDegrades(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.zip")
	require.NoError(t, os.WriteFile(path, []byte("this is not a zip"), 0o644))

	processor := NewProcessor(emptySnapshot(t))
	record, err := processor.Process(context.Background(), path)
	require.NoError(t, err)

	assert.False(t, record.Enhanced)
	assert.Equal(t, "fallback", record.Metadata["processing_method"])
	assert.Equal(t, "this is not a zip", record.RawContent)
}
