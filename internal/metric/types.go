package metric

import "time"

// Record is one timestamped energy meter observation. Timestamp is the
// identity of the record; the three data fields are independently optional,
// but at least one is always set on a record that passed validation.
type Record struct {
	// Timestamp identifies the record. Stored normalised to UTC.
	Timestamp time.Time `json:"timestamp"`

	// MeterValue is the cumulative meter register in kWh. Nil when absent.
	MeterValue *float64 `json:"meter_value,omitempty"`

	// AverageValue is the average consumption over the reading interval
	// in kWh. Nil when absent.
	AverageValue *float64 `json:"average_value,omitempty"`

	// Temperature is the ambient temperature at reading time. Nil when
	// absent.
	Temperature *float64 `json:"temperature,omitempty"`

	// CreatedAt is when this record was first persisted. Preserved across
	// overwrites of the same timestamp only when the replacing record is
	// written over it in the same process; a fresh upsert sets it anew.
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Key returns the canonical storage key for the record's timestamp.
func (r Record) Key() string {
	return r.Timestamp.UTC().Format(time.RFC3339Nano)
}

// HasData reports whether at least one data field is present.
func (r Record) HasData() bool {
	return r.MeterValue != nil || r.AverageValue != nil || r.Temperature != nil
}

// Status summarises the health of the metric pipeline as seen by external
// observers. Derived, never stored.
type Status string

const (
	// StatusConnected means the store holds at least one readable record.
	StatusConnected Status = "connected"

	// StatusNoData means the pipeline is up but the store is empty.
	StatusNoData Status = "no_data"

	// StatusDataError means the most recent stored record is unreadable.
	StatusDataError Status = "data_error"

	// StatusDisconnected means the store is unavailable.
	StatusDisconnected Status = "disconnected"

	// StatusError means view derivation itself failed unexpectedly.
	StatusError Status = "error"
)

// View is the derived read model: the latest record by timestamp plus a
// pipeline status. Latest is nil for every status except StatusConnected.
type View struct {
	Latest    *Record   `json:"latest,omitempty"`
	Status    Status    `json:"status"`
	Total     int       `json:"total_readings"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ItemError reports why one item of a bulk submission was rejected. Index
// is the item's zero-based position in the submitted batch.
type ItemError struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// Result summarises one submission: how many items were applied, how many
// were rejected, and the per-item rejection reasons. Accepted plus Rejected
// always equals the submitted batch size.
type Result struct {
	Accepted int         `json:"accepted"`
	Rejected int         `json:"rejected"`
	Errors   []ItemError `json:"errors,omitempty"`
}
