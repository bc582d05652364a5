// Package capability probes the optional extraction capabilities once at
// process start and exposes a read-only snapshot.
//
// A capability is an optional, possibly-unavailable subsystem: the OCR
// engine, layout classifier, table extractor, embedding model, mail-store
// reader and the RAR codec. Probing attempts actual construction (not merely
// configuration presence) so that e.g. an embedding service that is
// configured but unreachable is recorded as unavailable with the causing
// reason.
//
// The resulting Snapshot is created once, never mutated, and queried by every
// processing call. Model and engine handles are owned by the Registry for the
// process lifetime; extraction processors borrow references and never attempt
// to reinitialize them per call.
package capability
