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
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jhillyerd/enmime"
	"github.com/microcosm-cc/bluemonday"
	"github.com/poiesic/lexingest/capability"
	"github.com/poiesic/lexingest/core"
)

const sectionRule = "--------------------------------------------------"

// processEmail runs the email ladder for .eml, .msg and .pst files. The rich
// rung depends on the format; everything degrades to the generic loader.
func (p *Processor) processEmail(ctx context.Context, path string, size int64) *core.DocumentRecord {
	var rich rung
	switch Ext(path) {
	case ".eml":
		rich = rung{name: "mime-parse", attempt: func(ctx context.Context) (*core.DocumentRecord, error) {
			return p.emlParse(path, size)
		}}
	case ".msg":
		rich = rung{name: "binary-scrape", attempt: func(ctx context.Context) (*core.DocumentRecord, error) {
			return p.msgScrape(path, size)
		}}
	default: // .pst
		rich = rung{name: "mail-store-walk", attempt: func(ctx context.Context) (*core.DocumentRecord, error) {
			return p.pstWalk(ctx, path, size)
		}}
	}

	return p.climb(ctx, path, []rung{
		rich,
		{name: "generic-loader", attempt: func(ctx context.Context) (*core.DocumentRecord, error) {
			return p.loadGeneric(ctx, path, size, "email extraction failed")
		}},
	})
}

// emailAttachment is one decoded attachment of an EML message.
type emailAttachment struct {
	filename    string
	contentType string
	content     string
	size        int
}

// emlParse extracts a MIME message: decoded headers, a body concatenating
// the plain text and tag-stripped HTML parts, and attachments. Text
// attachments are inlined, binary ones noted by name.
func (p *Processor) emlParse(path string, size int64) (*core.DocumentRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrExtractionFailed, err)
	}
	defer f.Close()

	env, err := enmime.ReadEnvelope(f)
	if err != nil {
		return nil, fmt.Errorf("%w: mime parse: %v", core.ErrExtractionFailed, err)
	}

	subject := env.GetHeader("Subject")
	sender := env.GetHeader("From")
	recipient := env.GetHeader("To")
	date := env.GetHeader("Date")

	// The body carries every text part: plain text first, then HTML parts
	// with tags stripped. HTML-only content must not be lost.
	var bodyParts []string
	if text := strings.TrimSpace(env.Text); text != "" {
		bodyParts = append(bodyParts, text)
	}
	if html := strings.TrimSpace(bluemonday.StrictPolicy().Sanitize(env.HTML)); html != "" {
		bodyParts = append(bodyParts, html)
	}
	body := strings.Join(bodyParts, "\n")

	attachments := collectAttachments(env)

	var sb strings.Builder
	fmt.Fprintf(&sb, "\nEMAIL MESSAGE\n=============\n")
	fmt.Fprintf(&sb, "Subject: %s\nFrom: %s\nTo: %s\nDate: %s\n\n%s\n",
		subject, sender, recipient, date, body)

	if len(attachments) > 0 {
		sb.WriteString("\n\nATTACHMENTS\n===========\n")
		for i, att := range attachments {
			fmt.Fprintf(&sb, "\nAttachment %d: %s\n", i+1, att.filename)
			fmt.Fprintf(&sb, "Type: %s\n", att.contentType)
			fmt.Fprintf(&sb, "Size: %d bytes\n", att.size)
			fmt.Fprintf(&sb, "Content:\n%s\n", att.content)
			sb.WriteString(sectionRule + "\n")
		}
	}

	names := make([]string, 0, len(attachments))
	for _, att := range attachments {
		names = append(names, att.filename)
	}

	return &core.DocumentRecord{
		RawContent:    sb.String(),
		SourceLocator: path,
		Enhanced:      true,
		Metadata: core.Metadata{
			"file_type":         "eml",
			"processing_method": methodEmailParsing,
			"subject":           subject,
			"sender":            sender,
			"recipient":         recipient,
			"date":              date,
			"attachments":       len(attachments),
			"attachment_files":  names,
			"file_size":         size,
		},
	}, nil
}

// collectAttachments decodes the envelope's non-body parts. Any part with a
// filename counts, regardless of disposition: inline images and undeclared
// parts are attachments too. Text attachments are inlined; binary
// attachments are recorded by name only.
func collectAttachments(env *enmime.Envelope) []emailAttachment {
	parts := make([]*enmime.Part, 0, len(env.Attachments)+len(env.Inlines)+len(env.OtherParts))
	parts = append(parts, env.Attachments...)
	parts = append(parts, env.Inlines...)
	parts = append(parts, env.OtherParts...)

	attachments := make([]emailAttachment, 0, len(parts))
	for _, part := range parts {
		name := part.FileName
		if name == "" {
			continue
		}
		att := emailAttachment{
			filename:    name,
			contentType: part.ContentType,
			size:        len(part.Content),
		}
		if strings.HasPrefix(part.ContentType, "text/") {
			att.content = strings.ToValidUTF8(string(part.Content), "�")
		} else {
			att.content = fmt.Sprintf("[Binary attachment: %s]", name)
		}
		attachments = append(attachments, att)
	}
	return attachments
}

// msgScrape extracts the printable text runs from an OLE2 .msg file. This is
// a lossy minimum guarantee: readable strings survive, structure does not.
func (p *Processor) msgScrape(path string, size int64) (*core.DocumentRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrExtractionFailed, err)
	}

	text := scrapePrintable(data)
	if text == "" {
		return nil, fmt.Errorf("%w: no readable text in message", core.ErrExtractionFailed)
	}

	return &core.DocumentRecord{
		RawContent:    text,
		SourceLocator: path,
		Enhanced:      true,
		Metadata: core.Metadata{
			"file_type":         "msg",
			"processing_method": methodEmailExtraction,
			"file_size":         size,
		},
	}, nil
}

// scrapePrintable keeps printable ASCII plus whitespace from raw bytes and
// collapses whitespace runs to single spaces.
func scrapePrintable(data []byte) string {
	var sb strings.Builder
	space := true
	for _, b := range data {
		printable := b >= 0x20 && b <= 0x7e
		whitespace := b == '\n' || b == '\r' || b == '\t' || b == ' '
		switch {
		case printable && b != ' ':
			sb.WriteByte(b)
			space = false
		case whitespace:
			if !space {
				sb.WriteByte(' ')
				space = true
			}
		}
	}
	return strings.TrimSpace(sb.String())
}

// pstWalk concatenates every message of a mail store into one record through
// the mail-store reader capability. A message the reader cannot extract is
// skipped by the reader, not fatal here.
func (p *Processor) pstWalk(ctx context.Context, path string, size int64) (*core.DocumentRecord, error) {
	reader, ok := p.snapshot.MailStoreReader()
	if !ok {
		return nil, fmt.Errorf("%w: mail store: %s", core.ErrCapabilityUnavailable, p.snapshot.MailStore.Reason)
	}

	var sb strings.Builder
	sb.WriteString("OUTLOOK PST FILE - ALL MESSAGES\n")
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")

	count := 0
	err := reader.Walk(ctx, path, func(msg capability.MailMessage) error {
		count++
		fmt.Fprintf(&sb, "MESSAGE %d\n", count)
		sb.WriteString(strings.Repeat("-", 20) + "\n")
		fmt.Fprintf(&sb, "Subject: %s\n", orNA(msg.Subject))
		fmt.Fprintf(&sb, "From: %s\n", orNA(msg.Sender))
		fmt.Fprintf(&sb, "To: %s\n", orNA(msg.Recipient))
		fmt.Fprintf(&sb, "Date: %s\n", orNA(msg.Date))
		fmt.Fprintf(&sb, "Body: %s\n\n", orNA(msg.Body))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: mail store walk: %v", core.ErrExtractionFailed, err)
	}

	return &core.DocumentRecord{
		RawContent:    sb.String(),
		SourceLocator: path,
		Enhanced:      true,
		Metadata: core.Metadata{
			"file_type":         "pst",
			"processing_method": methodPSTExtraction,
			"message_count":     count,
			"file_size":         size,
		},
	}, nil
}

// orNA substitutes the placeholder for missing message fields.
func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
