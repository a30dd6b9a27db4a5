// Package tasks runs long favorites operations against the movie catalog with real-time progress reporting.
//
// # Core Operations
//
//  1. [FavoritesExporter.Collect] : Fetch full records for a list of favorite ids
//     - Detail fetches are paced by a token bucket limiter
//     - Credits, videos and posters are fetched by a worker pool
//     - Results come back in the order of the input ids
//
//  2. [FavoritesExporter.Export] : Collect, then write the records to disk
//     - One favorites file in the requested format (json, csv, markdown, txt)
//     - Optional poster images under posters/
//     - An export_manifest.json summarising per-movie outcomes
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Metrics
//
// The optional [Recorder] interface receives one call per movie with its outcome.
// In the CLI it is backed by metrics.Collector.
package tasks
