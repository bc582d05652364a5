// Package store provides a BadgerDB-backed extraction cache. Records are
// keyed by the BLAKE2b hash of the source file's bytes, so a re-ingested
// file with identical content skips extraction entirely. The cache is an
// optimization: callers treat every cache failure as a miss.
package store
