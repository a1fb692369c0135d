package metric

import "errors"

var (
	// ErrNoData is returned when the store holds no records.
	ErrNoData = errors.New("no records stored")

	// ErrCorruptRecord is returned when the most recent stored record
	// cannot be read back, typically a timestamp that no longer parses.
	ErrCorruptRecord = errors.New("stored record is corrupt")

	// ErrStorage wraps persistence failures during ingestion. When a
	// submission fails with ErrStorage no item from the batch was applied.
	ErrStorage = errors.New("storage failure")
)
