// Package chunk splits normalized document records into retrieval-sized
// chunks that respect semantic boundaries rather than arbitrary character
// offsets.
//
// The semantic path splits text into sentences, embeds each sentence, and
// greedily groups consecutive sentences whose cosine similarity to the
// running group's centroid stays above a configured threshold, closing a
// group when similarity drops or the group would exceed the maximum chunk
// length. When the embedding capability is unavailable, or embedding fails at
// runtime, the whole document degrades to overlapping fixed-length windows.
//
// Each chunk's metadata records the method used ("semantic" or
// "fixed-window"), its index, the total chunk count and the parent document's
// metadata, so downstream consumers can tell how a chunk was produced.
package chunk
