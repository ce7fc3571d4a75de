// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for catalog enrichment:
//  1. [TitleListView] : Browse extracted titles and toggle which ones to process
//  2. [ConfirmView] : Confirm the batch run
//  3. [ProcessView] : Monitor progress with pause/resume/cancel controls
//  4. [ResultView] : Display run counts and failures
//  5. [ReviewView] : Validate or reject enriched items
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the batch controller, providing non-blocking status reporting during runs.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
