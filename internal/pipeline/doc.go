// Package pipeline implements the batch enrichment controller: the state
// machine that walks selected catalog items through the injected metadata
// lookup capability with pause/resume/cancel control.
//
// The [Controller] owns the [ProcessingState] for one run at a time and is
// the only writer of item statuses during the enriching phase. Per-item
// lookups execute sequentially; pause and cancel requests are cooperative and
// honored only at item boundaries, so an in-flight lookup always resolves
// before the run suspends or stops.
//
// Progress flows to callers two ways: a non-blocking [ProgressUpdate] channel
// for streaming consumers (CLI, TUI), and [Controller.Snapshot] for polling
// consumers (the HTTP control surface). Throughput and ETA come from the
// [Estimator]'s rolling window of completion timestamps.
//
// Failures never abort a run. Each failed lookup is recorded in the
// [ErrorLog] and the item returns to pending, eligible for
// [Controller.Retry].
package pipeline
