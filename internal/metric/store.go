package metric

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/nerrad567/energy-metrics-core/internal/infrastructure/logging"
)

// Store is the record store: a SQLite table fronted by an in-memory index.
//
// All reads are served from memory; the database is touched only by Load at
// startup and by the upsert paths, which write through before updating the
// index. When a transaction fails the index is untouched, so memory never
// runs ahead of disk.
type Store struct {
	db     *sql.DB
	logger *logging.Logger

	mu      sync.RWMutex
	records map[string]Record // keyed by Record.Key()
}

// NewStore creates a record store over an open SQLite connection. Call Load
// before serving reads.
func NewStore(db *sql.DB, logger *logging.Logger) *Store {
	return &Store{
		db:      db,
		logger:  logger,
		records: make(map[string]Record),
	}
}

// Load replaces the in-memory index with the table contents. Rows whose
// timestamp no longer parses are kept under their stored key with a zero
// Timestamp so Latest can surface the corruption instead of silently
// skipping the newest reading.
//
// On query failure the index is left empty and the error returned; the
// caller decides whether to continue with an empty store.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]Record)

	rows, err := s.db.QueryContext(ctx, `
		SELECT timestamp, meter_value, average_value, temperature, created_at
		FROM metrics`)
	if err != nil {
		return fmt.Errorf("querying metrics: %w", err)
	}
	defer func() { _ = rows.Close() }()

	loaded, corrupt := 0, 0
	for rows.Next() {
		key, rec, err := scanRecord(rows)
		if err != nil {
			s.records = make(map[string]Record)
			return fmt.Errorf("scanning metric row: %w", err)
		}
		if rec.Timestamp.IsZero() {
			corrupt++
			s.logger.Warn("stored metric has unreadable timestamp", "key", key)
		}
		s.records[key] = rec
		loaded++
	}
	if err := rows.Err(); err != nil {
		s.records = make(map[string]Record)
		return fmt.Errorf("reading metric rows: %w", err)
	}

	s.logger.Info("metric store loaded", "records", loaded, "corrupt", corrupt)
	return nil
}

// Upsert writes one record, replacing any record at the same timestamp.
func (s *Store) Upsert(ctx context.Context, rec Record) error {
	return s.UpsertBulk(ctx, []Record{rec})
}

// UpsertBulk writes a batch of records in a single transaction. Either every
// record is applied or none is. Records sharing a timestamp within the batch
// resolve last-in-batch-wins, matching single sequential submissions.
func (s *Store) UpsertBulk(ctx context.Context, recs []Record) error {
	if len(recs) == 0 {
		return nil
	}

	now := time.Now().UTC()
	for i := range recs {
		if recs[i].CreatedAt.IsZero() {
			recs[i].CreatedAt = now
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO metrics (timestamp, meter_value, average_value, temperature, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(timestamp) DO UPDATE SET
			meter_value   = excluded.meter_value,
			average_value = excluded.average_value,
			temperature   = excluded.temperature,
			created_at    = excluded.created_at`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, rec := range recs {
		_, err := stmt.ExecContext(ctx,
			rec.Key(),
			nullableFloat(rec.MeterValue),
			nullableFloat(rec.AverageValue),
			nullableFloat(rec.Temperature),
			rec.CreatedAt.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("upserting record %s: %w", rec.Key(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing upsert: %w", err)
	}

	s.mu.Lock()
	for _, rec := range recs {
		s.records[rec.Key()] = rec
	}
	s.mu.Unlock()
	return nil
}

// All returns every readable record in ascending timestamp order. Corrupt
// rows are excluded.
func (s *Store) All() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		if rec.Timestamp.IsZero() {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}

// Range returns records with start <= timestamp <= end in ascending order.
// A zero start or end leaves that bound open.
func (s *Store) Range(start, end time.Time) []Record {
	all := s.All()
	out := make([]Record, 0, len(all))
	for _, rec := range all {
		if !start.IsZero() && rec.Timestamp.Before(start) {
			continue
		}
		if !end.IsZero() && rec.Timestamp.After(end) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Latest returns the chronologically newest readable record. Returns
// ErrNoData when the store is empty and ErrCorruptRecord when an unreadable
// row appears to be the newest one.
func (s *Store) Latest() (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.records) == 0 {
		return Record{}, ErrNoData
	}

	// Readable records are ordered by parsed Timestamp; key strings are not
	// chronological once fractional seconds appear. Corrupt keys cannot be
	// parsed at all, so string comparison against the newest readable key is
	// the only ordering available for them.
	var latest Record
	var latestKey, corruptKey string
	found := false
	for key, rec := range s.records {
		if rec.Timestamp.IsZero() {
			if key > corruptKey {
				corruptKey = key
			}
			continue
		}
		if !found || rec.Timestamp.After(latest.Timestamp) {
			latest = rec
			latestKey = key
			found = true
		}
	}
	if !found || corruptKey > latestKey {
		return Record{}, fmt.Errorf("%w: key %q", ErrCorruptRecord, corruptKey)
	}
	return latest, nil
}

// Count returns the number of records in the store, corrupt rows included.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// rowScanner abstracts sql.Row and sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord scans one metrics row. A timestamp that fails to parse leaves
// Record.Timestamp zero rather than returning an error; the stored key is
// always returned so the caller can index the row regardless.
func scanRecord(scanner rowScanner) (string, Record, error) {
	var key, createdAt string
	var meter, average, temperature sql.NullFloat64

	if err := scanner.Scan(&key, &meter, &average, &temperature, &createdAt); err != nil {
		return "", Record{}, err
	}

	var rec Record
	if ts, err := time.Parse(time.RFC3339Nano, key); err == nil {
		rec.Timestamp = ts
	}
	if created, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		rec.CreatedAt = created
	}
	if meter.Valid {
		rec.MeterValue = &meter.Float64
	}
	if average.Valid {
		rec.AverageValue = &average.Float64
	}
	if temperature.Valid {
		rec.Temperature = &temperature.Float64
	}
	return key, rec, nil
}

// nullableFloat returns a sql.NullFloat64 for optional float pointers.
func nullableFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
