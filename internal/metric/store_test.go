package metric

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nerrad567/energy-metrics-core/internal/infrastructure/logging"
)

// setupTestDB creates an in-memory SQLite database with the metrics table.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE metrics (
			timestamp     TEXT PRIMARY KEY,
			meter_value   REAL,
			average_value REAL,
			temperature   REAL,
			created_at    TEXT NOT NULL
		) STRICT;
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(setupTestDB(t), logging.Default())
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("failed to load empty store: %v", err)
	}
	return store
}

func testRecord(ts string, meter, average, temperature *float64) Record {
	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return Record{
		Timestamp:    parsed,
		MeterValue:   meter,
		AverageValue: average,
		Temperature:  temperature,
	}
}

func floatPtr(f float64) *float64 { return &f }

func TestStore_UpsertAndLatest(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	rec := testRecord("2025-06-01T12:00:00Z", floatPtr(1234.5), nil, floatPtr(72.0))
	if err := store.Upsert(ctx, rec); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	latest, err := store.Latest()
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if !latest.Timestamp.Equal(rec.Timestamp) {
		t.Errorf("Latest().Timestamp = %v, want %v", latest.Timestamp, rec.Timestamp)
	}
	if latest.MeterValue == nil || *latest.MeterValue != 1234.5 {
		t.Errorf("Latest().MeterValue = %v, want 1234.5", latest.MeterValue)
	}
	if latest.AverageValue != nil {
		t.Errorf("Latest().AverageValue = %v, want nil", latest.AverageValue)
	}
	if latest.CreatedAt.IsZero() {
		t.Error("Latest().CreatedAt not set on persist")
	}
}

func TestStore_LatestEmpty(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Latest()
	if !errors.Is(err, ErrNoData) {
		t.Errorf("Latest() on empty store error = %v, want ErrNoData", err)
	}
}

func TestStore_LatestFractionalSeconds(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	// "...T10:00:00.5Z" sorts below "...T10:00:00Z" as a string because
	// '.' < 'Z', so Latest must order by parsed time, not by key.
	older := testRecord("2024-01-01T10:00:00Z", floatPtr(100), nil, nil)
	newer := testRecord("2024-01-01T10:00:00.5Z", floatPtr(200), nil, nil)
	if err := store.UpsertBulk(ctx, []Record{older, newer}); err != nil {
		t.Fatalf("UpsertBulk() error = %v", err)
	}

	latest, err := store.Latest()
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if !latest.Timestamp.Equal(newer.Timestamp) {
		t.Errorf("Latest().Timestamp = %v, want %v", latest.Timestamp, newer.Timestamp)
	}
	if latest.MeterValue == nil || *latest.MeterValue != 200 {
		t.Errorf("Latest().MeterValue = %v, want 200", latest.MeterValue)
	}
}

func TestStore_UpsertReplacesWholeRecord(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	first := testRecord("2025-06-01T12:00:00Z", floatPtr(100), floatPtr(2.5), floatPtr(68))
	if err := store.Upsert(ctx, first); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	// Same timestamp, temperature only. The earlier meter and average
	// fields must not survive.
	second := testRecord("2025-06-01T12:00:00Z", nil, nil, floatPtr(70))
	if err := store.Upsert(ctx, second); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	if store.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", store.Count())
	}
	latest, err := store.Latest()
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if latest.MeterValue != nil {
		t.Errorf("MeterValue = %v, want nil after replacement", *latest.MeterValue)
	}
	if latest.AverageValue != nil {
		t.Errorf("AverageValue = %v, want nil after replacement", *latest.AverageValue)
	}
	if latest.Temperature == nil || *latest.Temperature != 70 {
		t.Errorf("Temperature = %v, want 70", latest.Temperature)
	}
}

func TestStore_UpsertBulkLastInBatchWins(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	batch := []Record{
		testRecord("2025-06-01T12:00:00Z", floatPtr(100), nil, nil),
		testRecord("2025-06-01T13:00:00Z", floatPtr(110), nil, nil),
		testRecord("2025-06-01T12:00:00Z", floatPtr(105), nil, nil),
	}
	if err := store.UpsertBulk(ctx, batch); err != nil {
		t.Fatalf("UpsertBulk() error = %v", err)
	}

	if store.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", store.Count())
	}
	all := store.All()
	if *all[0].MeterValue != 105 {
		t.Errorf("duplicate timestamp resolved to %v, want 105", *all[0].MeterValue)
	}
}

func TestStore_AllOrdering(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	// Inserted out of order on purpose.
	batch := []Record{
		testRecord("2025-06-01T14:00:00Z", floatPtr(3), nil, nil),
		testRecord("2025-06-01T12:00:00Z", floatPtr(1), nil, nil),
		testRecord("2025-06-01T13:00:00Z", floatPtr(2), nil, nil),
	}
	if err := store.UpsertBulk(ctx, batch); err != nil {
		t.Fatalf("UpsertBulk() error = %v", err)
	}

	all := store.All()
	if len(all) != 3 {
		t.Fatalf("All() returned %d records, want 3", len(all))
	}
	for i := 1; i < len(all); i++ {
		if !all[i-1].Timestamp.Before(all[i].Timestamp) {
			t.Errorf("All() not ascending at index %d", i)
		}
	}
}

func TestStore_Range(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	batch := []Record{
		testRecord("2025-06-01T12:00:00Z", floatPtr(1), nil, nil),
		testRecord("2025-06-01T13:00:00Z", floatPtr(2), nil, nil),
		testRecord("2025-06-01T14:00:00Z", floatPtr(3), nil, nil),
	}
	if err := store.UpsertBulk(ctx, batch); err != nil {
		t.Fatalf("UpsertBulk() error = %v", err)
	}

	start, _ := time.Parse(time.RFC3339, "2025-06-01T12:30:00Z")
	end, _ := time.Parse(time.RFC3339, "2025-06-01T14:00:00Z")

	got := store.Range(start, end)
	if len(got) != 2 {
		t.Fatalf("Range() returned %d records, want 2", len(got))
	}
	if *got[0].MeterValue != 2 || *got[1].MeterValue != 3 {
		t.Errorf("Range() returned wrong records: %v, %v", *got[0].MeterValue, *got[1].MeterValue)
	}

	// Open bounds return everything.
	if got := store.Range(time.Time{}, time.Time{}); len(got) != 3 {
		t.Errorf("Range() with open bounds returned %d records, want 3", len(got))
	}
}

func TestStore_LoadRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	writer := NewStore(db, logging.Default())
	if err := writer.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	batch := []Record{
		testRecord("2025-06-01T12:00:00Z", floatPtr(100), floatPtr(2.5), nil),
		testRecord("2025-06-01T13:00:00Z", nil, nil, floatPtr(71.5)),
	}
	if err := writer.UpsertBulk(ctx, batch); err != nil {
		t.Fatalf("UpsertBulk() error = %v", err)
	}

	// A second store over the same database simulates a restart.
	reader := NewStore(db, logging.Default())
	if err := reader.Load(ctx); err != nil {
		t.Fatalf("Load() after restart error = %v", err)
	}

	if reader.Count() != 2 {
		t.Fatalf("Count() after reload = %d, want 2", reader.Count())
	}
	latest, err := reader.Latest()
	if err != nil {
		t.Fatalf("Latest() after reload error = %v", err)
	}
	if latest.Temperature == nil || *latest.Temperature != 71.5 {
		t.Errorf("reloaded Temperature = %v, want 71.5", latest.Temperature)
	}
	if latest.MeterValue != nil {
		t.Errorf("reloaded MeterValue = %v, want nil", latest.MeterValue)
	}
}

func TestStore_LatestCorruptRow(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	// A row whose key sorts above every valid RFC 3339 timestamp but does
	// not parse as one.
	_, err := db.Exec(
		`INSERT INTO metrics (timestamp, meter_value, created_at) VALUES (?, ?, ?)`,
		"not-a-timestamp", 42.0, "2025-06-01T12:00:00Z",
	)
	if err != nil {
		t.Fatalf("failed to seed corrupt row: %v", err)
	}

	store := NewStore(db, logging.Default())
	if err := store.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if _, err := store.Latest(); !errors.Is(err, ErrCorruptRecord) {
		t.Errorf("Latest() error = %v, want ErrCorruptRecord", err)
	}
	if got := store.All(); len(got) != 0 {
		t.Errorf("All() includes corrupt row, got %d records", len(got))
	}
}
