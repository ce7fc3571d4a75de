// Package models defines domain entities and persistence interfaces for the songbook catalog pipeline.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): In-memory structs flowing through the pipeline
//   - [SourceFile] / [Sheet] : Parsed tabular input with detected column roles
//   - [ExtractedTitle] : Candidate song title with provenance
//   - [MusicItem] : Unit of enrichment work with lifecycle status
//   - [Enrichment] : Metadata produced by a single lookup strategy
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [CatalogItem] : Enriched/validated items persisted for review and export
//   - [BatchRun] : Run summaries with counts and captured failures
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
