package metric

import (
	"strings"
	"testing"
	"time"
)

func TestValidate_ValidRecord(t *testing.T) {
	rec, err := Validate(map[string]any{
		"timestamp":     "2025-06-01T12:00:00Z",
		"meter_value":   1234.5,
		"average_value": 2.5,
		"temperature":   72.0,
	})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	want, _ := time.Parse(time.RFC3339, "2025-06-01T12:00:00Z")
	if !rec.Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", rec.Timestamp, want)
	}
	if rec.MeterValue == nil || *rec.MeterValue != 1234.5 {
		t.Errorf("MeterValue = %v, want 1234.5", rec.MeterValue)
	}
	if rec.AverageValue == nil || *rec.AverageValue != 2.5 {
		t.Errorf("AverageValue = %v, want 2.5", rec.AverageValue)
	}
	if rec.Temperature == nil || *rec.Temperature != 72.0 {
		t.Errorf("Temperature = %v, want 72.0", rec.Temperature)
	}
}

func TestValidate_PartialFields(t *testing.T) {
	rec, err := Validate(map[string]any{
		"timestamp":   "2025-06-01T12:00:00Z",
		"temperature": 68.2,
	})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if rec.MeterValue != nil || rec.AverageValue != nil {
		t.Error("absent fields should stay nil")
	}
	if rec.Temperature == nil || *rec.Temperature != 68.2 {
		t.Errorf("Temperature = %v, want 68.2", rec.Temperature)
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		raw        map[string]any
		wantReason string
	}{
		{
			name:       "missing timestamp",
			raw:        map[string]any{"meter_value": 100.0},
			wantReason: "missing timestamp",
		},
		{
			name:       "null timestamp",
			raw:        map[string]any{"timestamp": nil, "meter_value": 100.0},
			wantReason: "missing timestamp",
		},
		{
			name:       "unparseable timestamp",
			raw:        map[string]any{"timestamp": "yesterday", "meter_value": 100.0},
			wantReason: "invalid timestamp format",
		},
		{
			name:       "numeric timestamp",
			raw:        map[string]any{"timestamp": 1748779200.0, "meter_value": 100.0},
			wantReason: "invalid timestamp format",
		},
		{
			name:       "no data fields",
			raw:        map[string]any{"timestamp": "2025-06-01T12:00:00Z"},
			wantReason: "no data fields provided",
		},
		{
			name:       "all data fields null",
			raw:        map[string]any{"timestamp": "2025-06-01T12:00:00Z", "meter_value": nil},
			wantReason: "no data fields provided",
		},
		{
			name:       "non-numeric meter value",
			raw:        map[string]any{"timestamp": "2025-06-01T12:00:00Z", "meter_value": "a lot"},
			wantReason: "invalid meter_value type",
		},
		{
			name: "non-numeric temperature",
			raw: map[string]any{
				"timestamp":   "2025-06-01T12:00:00Z",
				"meter_value": 100.0,
				"temperature": []any{72.0},
			},
			wantReason: "invalid temperature type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.raw)
			if err == nil {
				t.Fatal("Validate() succeeded, want rejection")
			}
			if !strings.Contains(err.Error(), tt.wantReason) {
				t.Errorf("reason = %q, want it to contain %q", err.Error(), tt.wantReason)
			}
		})
	}
}

func TestValidate_NumericStringCoercion(t *testing.T) {
	rec, err := Validate(map[string]any{
		"timestamp":   "2025-06-01T12:00:00Z",
		"meter_value": "1234.5",
		"temperature": " 72 ",
	})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if rec.MeterValue == nil || *rec.MeterValue != 1234.5 {
		t.Errorf("MeterValue = %v, want 1234.5 from string", rec.MeterValue)
	}
	if rec.Temperature == nil || *rec.Temperature != 72 {
		t.Errorf("Temperature = %v, want 72 from padded string", rec.Temperature)
	}
}

func TestValidate_TimestampVariants(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"rfc3339 with offset", "2025-06-01T12:00:00+02:00"},
		{"rfc3339 nano", "2025-06-01T12:00:00.123456789Z"},
		{"naive T separator", "2025-06-01T12:00:00"},
		{"space separator", "2025-06-01 12:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Validate(map[string]any{"timestamp": tt.in, "meter_value": 1.0})
			if err != nil {
				t.Fatalf("Validate(%q) error = %v", tt.in, err)
			}
			if rec.Timestamp.IsZero() {
				t.Error("parsed timestamp is zero")
			}
		})
	}
}

func TestValidate_OutOfRangeValuesAccepted(t *testing.T) {
	rec, err := Validate(map[string]any{
		"timestamp":   "2025-06-01T12:00:00Z",
		"meter_value": -500.0,
		"temperature": 9000.0,
	})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if *rec.MeterValue != -500 || *rec.Temperature != 9000 {
		t.Error("range is not validated, values should pass through unchanged")
	}
}
