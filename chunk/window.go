package chunk

import (
	"strings"

	"github.com/poiesic/lexingest/core"
	"github.com/tmc/langchaingo/textsplitter"
)

// fixedWindow splits the document into overlapping fixed-length windows using
// the generic recursive-character splitter. This is the whole-document
// fallback when embeddings are unavailable or semantic grouping fails.
func (c *Chunker) fixedWindow(doc *core.DocumentRecord, cfg Config) ([]core.ChunkRecord, error) {
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(cfg.MaxChunkSize),
		textsplitter.WithChunkOverlap(cfg.ChunkOverlap),
	)

	pieces, err := splitter.SplitText(doc.RawContent)
	if err != nil {
		return nil, err
	}
	if len(pieces) == 0 {
		pieces = []string{strings.TrimSpace(doc.RawContent)}
	}

	records := make([]core.ChunkRecord, 0, len(pieces))
	for i, piece := range pieces {
		metadata := doc.Metadata.Clone()
		metadata["chunk_index"] = i
		metadata["chunking_method"] = core.ChunkMethodFixedWindow
		metadata["total_chunks"] = len(pieces)
		records = append(records, core.ChunkRecord{Content: piece, Metadata: metadata})
	}

	c.logger.Debug("fixed-window chunking complete",
		"source", doc.SourceLocator, "chunks", len(records))
	return records, nil
}
