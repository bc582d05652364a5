// Package ingest is the public surface of the document ingestion pipeline:
// probe capabilities once, construct a Pipeline over the snapshot, then
// extract and chunk files individually or in concurrent batches. Outer
// layers (CLI, services) depend on this package only.
package ingest
