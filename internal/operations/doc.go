// Package operations orchestrates one batch of the pipeline.
//
// Files are independent through ingestion, role resolution, and
// temporal normalization, so that part runs in a bounded worker pool.
// Downsampling cannot start until every file is normalized: the
// bucket grid is anchored to the batch-wide minimum timestamp, and an
// anchor computed per file would desynchronize bucket boundaries
// between files. After the barrier each reduced table replaces its
// full table immediately to bound peak memory.
//
// Progress is reported through an observer callback; the package
// itself never prints.
package operations
