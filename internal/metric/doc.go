// Package metric implements the ingestion and storage core for historical
// energy meter readings.
//
// A Record is one timestamped observation of meter value, average consumption
// and temperature. Records are keyed by timestamp: submitting a record whose
// timestamp already exists fully replaces the stored record (no field merge).
//
// The package is organised around four pieces:
//
//   - Validate: turns one raw JSON object into a typed Record or a rejection
//     reason (pure function, no side effects)
//   - Store: the SQLite-backed record store with an in-memory index, loaded
//     once at startup and mutated only through ingestion
//   - Ingestor: accepts single or bulk submissions, validates per item,
//     applies the valid subset in one transaction, reports per-item errors
//   - Projector: derives the "latest record + status" view exposed to
//     external observers after every successful ingestion
//
// Data flows one way: submission → Ingestor → Validate (per item) → Store
// (upsert) → Projector (recompute) → external read.
package metric
