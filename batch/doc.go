// Package batch runs independent single-item operations concurrently with
// per-item failure isolation.
//
// The orchestrator guarantees that a batch over N inputs always yields
// exactly N outcomes in input order: a failing, panicking or cancelled item
// surfaces as an error record in its own slot and never affects sibling
// results. Fan-out runs on a shared ants worker pool sized to the host by
// default.
package batch
