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
	"archive/tar"
	"archive/zip"
	"compress/bzip2"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/nwaples/rardecode"
	"github.com/poiesic/lexingest/core"
)

// archiveEntry is one non-directory member of an archive.
type archiveEntry struct {
	name    string
	size    int64
	kind    string // "text" or "binary"
	content string
}

// processArchive runs the archive ladder: format-specific listing, then the
// generic loader. A missing RAR codec degrades the whole archive rather than
// failing it.
func (p *Processor) processArchive(ctx context.Context, path string, size int64) *core.DocumentRecord {
	return p.climb(ctx, path, []rung{
		{name: "archive-listing", attempt: func(ctx context.Context) (*core.DocumentRecord, error) {
			return p.archiveListing(path, size)
		}},
		{name: "generic-loader", attempt: func(ctx context.Context) (*core.DocumentRecord, error) {
			return p.loadGeneric(ctx, path, size, "archive extraction failed")
		}},
	})
}

// archiveListing dispatches on the archive format and renders the standard
// contents block.
func (p *Processor) archiveListing(path string, size int64) (*core.DocumentRecord, error) {
	var entries []archiveEntry
	var label string
	var err error

	switch Ext(path) {
	case ".zip":
		label = "ZIP"
		entries, err = p.zipEntries(path)
	case ".rar":
		label = "RAR"
		if !p.snapshot.RARCodec.Available {
			return nil, fmt.Errorf("%w: rar codec: %s", core.ErrCapabilityUnavailable, p.snapshot.RARCodec.Reason)
		}
		entries, err = p.rarEntries(path)
	default:
		label = "TAR"
		entries, err = p.tarEntries(path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrExtractionFailed, err)
	}

	var totalSize int64
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		totalSize += entry.size
		names = append(names, entry.name)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%s ARCHIVE CONTENTS\n===================\n", label)
	fmt.Fprintf(&sb, "Archive: %s\n", filepath.Base(path))
	fmt.Fprintf(&sb, "Files: %d\n", len(entries))
	fmt.Fprintf(&sb, "Total Size: %d bytes\n\n", totalSize)

	for _, entry := range entries {
		fmt.Fprintf(&sb, "\nFILE: %s\n", entry.name)
		fmt.Fprintf(&sb, "Size: %d bytes\n", entry.size)
		fmt.Fprintf(&sb, "Type: %s\n", entry.kind)
		fmt.Fprintf(&sb, "Content:\n%s\n", entry.content)
		sb.WriteString(sectionRule + "\n")
	}

	return &core.DocumentRecord{
		RawContent:    sb.String(),
		SourceLocator: path,
		Enhanced:      true,
		Metadata: core.Metadata{
			"file_type":         FileType(path),
			"processing_method": methodArchiveExtraction,
			"file_count":        len(entries),
			"total_size":        totalSize,
			"extracted_files":   names,
			"file_size":         size,
		},
	}, nil
}

// entryFromBytes classifies and renders one archive member. Valid UTF-8 is
// inlined verbatim; anything else is noted by name.
func entryFromBytes(name string, size int64, data []byte) archiveEntry {
	if utf8.Valid(data) {
		return archiveEntry{name: name, size: size, kind: "text", content: string(data)}
	}
	return archiveEntry{
		name:    name,
		size:    size,
		kind:    "binary",
		content: fmt.Sprintf("[Binary file: %s]", name),
	}
}

func (p *Processor) zipEntries(path string) ([]archiveEntry, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	defer zr.Close()

	var entries []archiveEntry
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			p.logger.Warn("skipping unreadable archive member",
				"archive", path, "member", f.Name, "reason", err)
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			p.logger.Warn("skipping unreadable archive member",
				"archive", path, "member", f.Name, "reason", err)
			continue
		}
		entries = append(entries, entryFromBytes(f.Name, int64(f.UncompressedSize64), data))
	}
	return entries, nil
}

func (p *Processor) rarEntries(path string) ([]archiveEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rr, err := rardecode.NewReader(f, "")
	if err != nil {
		return nil, fmt.Errorf("open rar: %w", err)
	}

	var entries []archiveEntry
	for {
		header, err := rr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read rar: %w", err)
		}
		if header.IsDir {
			continue
		}
		data, err := io.ReadAll(rr)
		if err != nil {
			p.logger.Warn("skipping unreadable archive member",
				"archive", path, "member", header.Name, "reason", err)
			continue
		}
		entries = append(entries, entryFromBytes(header.Name, header.UnPackedSize, data))
	}
	return entries, nil
}

func (p *Processor) tarEntries(path string) ([]archiveEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var src io.Reader = f
	switch Ext(path) {
	case ".tar.gz", ".tgz":
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip: %w", err)
		}
		defer gz.Close()
		src = gz
	case ".tar.bz2":
		src = bzip2.NewReader(f)
	}

	tr := tar.NewReader(src)
	var entries []archiveEntry
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read tar: %w", err)
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			p.logger.Warn("skipping unreadable archive member",
				"archive", path, "member", header.Name, "reason", err)
			continue
		}
		entries = append(entries, entryFromBytes(header.Name, header.Size, data))
	}
	return entries, nil
}
