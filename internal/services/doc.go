// Package services implements the metadata lookup capability consumed by the
// enrichment pipeline.
//
// # Lookup Service
//
// [LookupService] communicates with the catalog metadata proxy, an HTTP
// service wrapping the upstream music-metadata sources. It satisfies
// pipeline.Enricher: given a [models.MusicItem] it produces a
// [models.Enrichment] or fails with a reason the controller records.
//
// Each item is resolved through an ordered set of strategies:
//
//  1. exact: title + artist search, highest confidence
//  2. title: title-only search, fallback when the artist is unknown or noisy
//
// The strategy that produced the data is tagged on the enrichment as its
// source, so reviewers can weigh confidence accordingly.
//
// # Raw Proxy Client
//
// [APIService] makes raw HTTP requests to the proxy for debugging and the
// `songbook lookup` commands.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrAPIRequest] : HTTP request failed or returned non-2xx
//   - [shared.ErrNoMatch] : the proxy found no candidate for any strategy
//   - [shared.ErrServiceUnavailable] : client not initialized
package services
