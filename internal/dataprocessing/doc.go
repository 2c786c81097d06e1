// Package dataprocessing implements the core of the log merge
// pipeline: column role resolution, temporal normalization,
// fixed-interval downsampling, and the cross-file merge.
//
// # Data Flow
//
// The typical flow for one batch:
//
//	raw table → Resolve → Normalize   (per file, independent)
//	          → Downsample            (per file, shared base instant)
//	          → Merge                 (whole batch)
//
// Resolve and Normalize reject at most one row at a time; a file is
// only rejected as a whole when its Date/Time columns cannot be
// uniquely identified. Downsample requires the batch-wide base
// timestamp, i.e. the minimum timestamp across all files after
// normalization, so every file's bucket boundaries line up at merge
// time.
//
// # Error Handling
//
// Nothing in this package aborts a batch. Failures accumulate as
// diagnostics (see internal/errors) and the callers decide how to
// surface them.
package dataprocessing
