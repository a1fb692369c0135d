package metric

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// timestampLayouts are tried in order when the timestamp is not strict
// RFC 3339. Naive timestamps (no offset) are interpreted as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

// dataFields are validated in a fixed order so rejection reasons are
// deterministic for a given input.
var dataFields = []string{"meter_value", "average_value", "temperature"}

// Validate turns one raw submission item into a typed Record.
//
// Checks run in order: the timestamp must be present, then parseable, then
// at least one of meter_value, average_value or temperature must be present,
// then every present data field must coerce to a number. The first failing
// check produces the returned error; its message is the rejection reason
// reported back to the submitter.
//
// Numeric strings such as "42.5" are accepted for data fields. CreatedAt on
// the returned record is left zero; the store sets it on persist.
func Validate(raw map[string]any) (Record, error) {
	ts, ok := raw["timestamp"]
	if !ok || ts == nil {
		return Record{}, fmt.Errorf("missing timestamp")
	}

	parsed, err := parseTimestamp(ts)
	if err != nil {
		return Record{}, fmt.Errorf("invalid timestamp format: %v", ts)
	}

	hasData := false
	for _, field := range dataFields {
		if v, ok := raw[field]; ok && v != nil {
			hasData = true
			break
		}
	}
	if !hasData {
		return Record{}, fmt.Errorf("no data fields provided")
	}

	rec := Record{Timestamp: parsed}
	for _, field := range dataFields {
		v, ok := raw[field]
		if !ok || v == nil {
			continue
		}
		f, err := coerceFloat(v)
		if err != nil {
			return Record{}, fmt.Errorf("invalid %s type: %v", field, err)
		}
		switch field {
		case "meter_value":
			rec.MeterValue = &f
		case "average_value":
			rec.AverageValue = &f
		case "temperature":
			rec.Temperature = &f
		}
	}

	return rec, nil
}

// parseTimestamp accepts RFC 3339 strings plus a few common ISO 8601
// variants without an offset.
func parseTimestamp(v any) (time.Time, error) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("timestamp is not a string")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("timestamp is empty")
	}
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// coerceFloat converts JSON numbers and numeric strings to float64.
// Booleans and structured values are rejected.
func coerceFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert %q to number", n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to number", v)
	}
}
