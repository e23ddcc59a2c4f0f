// Package batch tracks progress through a sprite batch render.
//
// Renders are slow (seconds to minutes per shot), so users need to see how far
// a batch has come and how long the rest will take. Key features:
//   - Completed and skipped shot counts against the planned total
//   - Throughput and remaining-time estimates from wall-clock time
//   - Thread-safe reads so a TUI can poll while the render loop updates
//   - Immutable snapshots for handing to callbacks and views
package batch
