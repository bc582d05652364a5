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
	"fmt"
	"path/filepath"
	"strings"

	"github.com/poiesic/lexingest/core"
)

// Kind names the processor family a file is routed to.
type Kind string

const (
	// KindDocument covers PDFs and page images (OCR ladder).
	KindDocument Kind = "document"

	// KindEmail covers single-message email files (.eml, .msg).
	KindEmail Kind = "email"

	// KindMailStore covers mail-store archives (.pst), handled by the email
	// processor through the mail-store reader capability.
	KindMailStore Kind = "mail-store"

	// KindArchive covers compressed archives (.zip, .rar, tarballs).
	KindArchive Kind = "archive"

	// KindGeneric covers office and plain-text formats served directly by the
	// generic loader.
	KindGeneric Kind = "generic"
)

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tiff": true,
	".tif":  true,
	".bmp":  true,
	".gif":  true,
	".webp": true,
}

var archiveExts = map[string]bool{
	".zip":     true,
	".rar":     true,
	".tar":     true,
	".tar.gz":  true,
	".tgz":     true,
	".tar.bz2": true,
}

var genericExts = map[string]bool{
	".txt":  true,
	".md":   true,
	".rtf":  true,
	".csv":  true,
	".html": true,
	".htm":  true,
	".doc":  true,
	".docx": true,
	".odt":  true,
	".xls":  true,
	".xlsx": true,
	".ppt":  true,
	".pptx": true,
	".epub": true,
}

// Classify routes a file path to a processor kind by extension. Unknown
// extensions return core.ErrUnsupportedFormat wrapped with the extension;
// callers treat this as a recoverable per-file condition.
func Classify(path string) (Kind, error) {
	ext := Ext(path)

	switch {
	case ext == ".pdf" || imageExts[ext]:
		return KindDocument, nil
	case ext == ".eml" || ext == ".msg":
		return KindEmail, nil
	case ext == ".pst":
		return KindMailStore, nil
	case archiveExts[ext]:
		return KindArchive, nil
	case genericExts[ext]:
		return KindGeneric, nil
	default:
		return "", fmt.Errorf("%w: %q", core.ErrUnsupportedFormat, ext)
	}
}

// Ext returns the lowercased extension of path, preserving the compound
// tarball suffixes ".tar.gz" and ".tar.bz2".
func Ext(path string) string {
	base := strings.ToLower(filepath.Base(path))
	for _, compound := range []string{".tar.gz", ".tar.bz2"} {
		if strings.HasSuffix(base, compound) {
			return compound
		}
	}
	return filepath.Ext(base)
}

// FileType returns the metadata file_type value for path: the extension
// without its leading dot, with page images collapsed to "image" and
// tarball variants to "tar".
func FileType(path string) string {
	ext := Ext(path)
	switch {
	case imageExts[ext]:
		return "image"
	case ext == ".tar.gz" || ext == ".tgz" || ext == ".tar.bz2":
		return "tar"
	default:
		return strings.TrimPrefix(ext, ".")
	}
}
