// Package review implements the post-enrichment validation workflow.
//
// Enriched items are reviewed one at a time: an item can be validated,
// rejected, or have its enriched fields edited before a decision is made.
// Validation and rejection are terminal and only ever applied by this
// package; the enrichment pipeline never writes those statuses.
//
// The workflow operates over an ItemStore so the same logic serves both
// in-memory pipeline results and the persisted catalog.
package review
