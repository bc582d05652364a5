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


package capability

import (
	"context"

	"github.com/poiesic/lexingest/ai"
)

// Status records whether one optional capability can actually be exercised,
// and if not, why.
type Status struct {
	Available bool
	Reason    string
}

// Available is the status of a usable capability.
func available() Status {
	return Status{Available: true}
}

// Unavailable builds a status carrying the causing reason.
func unavailable(reason string) Status {
	return Status{Available: false, Reason: reason}
}

// MailMessage is one message extracted from a mail store.
// Missing fields are filled with placeholders by the email processor.
type MailMessage struct {
	Subject   string
	Sender    string
	Recipient string
	Date      string
	Body      string
}

// MailStoreReader walks the folder tree of a mail-store file (PST) and yields
// every note/message item. Implementations must skip items they cannot
// extract rather than aborting the walk.
type MailStoreReader interface {
	// Walk calls fn for each message found under path, in folder-traversal
	// order. An error from fn aborts the walk; extraction errors inside the
	// store must not.
	Walk(ctx context.Context, path string, fn func(msg MailMessage) error) error
}

// Snapshot is the immutable per-process record of which optional subsystems
// are usable. It is computed once by Registry.Probe and read by every
// processor before choosing a strategy; processors borrow the handles and
// never re-initialize them.
type Snapshot struct {
	OCR       Status
	Layout    Status
	Tables    Status
	Embedding Status
	MailStore Status
	RARCodec  Status

	ocr       ai.OCREngine
	layout    ai.LayoutClassifier
	tables    ai.TableExtractor
	embedder  ai.Embedder
	mailStore MailStoreReader
}

// OCREngine returns the OCR handle, and whether it is usable.
func (s *Snapshot) OCREngine() (ai.OCREngine, bool) {
	return s.ocr, s.OCR.Available
}

// LayoutClassifier returns the layout handle, and whether it is usable.
func (s *Snapshot) LayoutClassifier() (ai.LayoutClassifier, bool) {
	return s.layout, s.Layout.Available
}

// TableExtractor returns the table extraction handle, and whether it is usable.
func (s *Snapshot) TableExtractor() (ai.TableExtractor, bool) {
	return s.tables, s.Tables.Available
}

// Embedder returns the embedding handle, and whether it is usable.
func (s *Snapshot) Embedder() (ai.Embedder, bool) {
	return s.embedder, s.Embedding.Available
}

// MailStoreReader returns the mail-store handle, and whether it is usable.
func (s *Snapshot) MailStoreReader() (MailStoreReader, bool) {
	return s.mailStore, s.MailStore.Available
}

// Summary returns the capability states keyed by name, for health and
// diagnostics reporting.
func (s *Snapshot) Summary() map[string]Status {
	return map[string]Status{
		"ocr":        s.OCR,
		"layout":     s.Layout,
		"tables":     s.Tables,
		"embedding":  s.Embedding,
		"mail_store": s.MailStore,
		"rar_codec":  s.RARCodec,
	}
}
