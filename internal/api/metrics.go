package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/nerrad567/energy-metrics-core/internal/metric"
)

// submitResponse is the body returned by POST /api/energy_metrics.
type submitResponse struct {
	Accepted int                `json:"accepted"`
	Rejected int                `json:"rejected"`
	Errors   []metric.ItemError `json:"errors,omitempty"`
	Total    int                `json:"total_readings"`
}

// handleSubmitMetrics accepts a single record or a batch.
//
// Two body shapes are supported:
//
//	{"timestamp": "...", "meter_value": 1234.5}
//	{"metrics": [{...}, {...}]}
//
// Items are validated independently: invalid items are reported with their
// index and reason while the valid remainder is still applied.
func (s *Server) handleSubmitMetrics(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writePayloadTooLarge(w, "submission exceeds payload limit")
			return
		}
		writeBadRequest(w, "reading request body")
		return
	}

	items, err := decodeSubmission(body)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	result, err := s.ingestor.Submit(r.Context(), items)
	switch {
	case errors.Is(err, metric.ErrStorage):
		s.logger.Error("metric submission failed", "error", err)
		writeInternalError(w, "storing metrics failed")
		return
	case err != nil:
		s.logger.Error("metric submission failed", "error", err)
		writeInternalError(w, "processing metrics failed")
		return
	}

	// A non-empty submission with nothing usable is a client error; the
	// per-item reasons still go back so the caller can see what failed.
	// An empty batch is a valid no-op.
	status := http.StatusOK
	if result.Rejected > 0 && result.Accepted == 0 {
		status = http.StatusBadRequest
	}

	writeJSON(w, status, submitResponse{
		Accepted: result.Accepted,
		Rejected: result.Rejected,
		Errors:   result.Errors,
		Total:    s.store.Count(),
	})
}

// decodeSubmission normalises the two accepted body shapes into a batch.
// Batch items that are not JSON objects are kept as nil maps so they are
// rejected per item rather than failing the whole submission.
func decodeSubmission(body []byte) ([]map[string]any, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errors.New("request body is not a JSON object")
	}

	raw, isBatch := envelope["metrics"]
	if !isBatch {
		var single map[string]any
		if err := json.Unmarshal(body, &single); err != nil {
			return nil, errors.New("request body is not a JSON object")
		}
		return []map[string]any{single}, nil
	}

	var rawItems []json.RawMessage
	if err := json.Unmarshal(raw, &rawItems); err != nil {
		return nil, errors.New("metrics must be an array of objects")
	}

	items := make([]map[string]any, len(rawItems))
	for i, rawItem := range rawItems {
		var item map[string]any
		if err := json.Unmarshal(rawItem, &item); err != nil {
			continue // leave nil, rejected during validation
		}
		items[i] = item
	}
	return items, nil
}

// rangeResponse is the body returned by a ranged GET /api/energy_metrics.
type rangeResponse struct {
	Metrics []metric.Record `json:"metrics"`
	Count   int             `json:"count"`
}

// latestResponse is the body returned by an unranged GET /api/energy_metrics.
type latestResponse struct {
	Latest *metric.Record `json:"latest"`
	Status metric.Status  `json:"status"`
	Total  int            `json:"total_readings"`
}

// handleGetMetrics returns stored records.
//
// With start_time and/or end_time query parameters it returns the matching
// range in ascending timestamp order. Without parameters it returns the
// latest record and the pipeline status.
func (s *Server) handleGetMetrics(w http.ResponseWriter, r *http.Request) {
	startParam := r.URL.Query().Get("start_time")
	endParam := r.URL.Query().Get("end_time")

	if startParam == "" && endParam == "" {
		view := s.projector.View()
		writeJSON(w, http.StatusOK, latestResponse{
			Latest: view.Latest,
			Status: view.Status,
			Total:  view.Total,
		})
		return
	}

	var start, end time.Time
	var err error
	if startParam != "" {
		if start, err = parseQueryTime(startParam); err != nil {
			writeBadRequest(w, "invalid start_time: "+startParam)
			return
		}
	}
	if endParam != "" {
		if end, err = parseQueryTime(endParam); err != nil {
			writeBadRequest(w, "invalid end_time: "+endParam)
			return
		}
	}

	records := s.store.Range(start, end)
	writeJSON(w, http.StatusOK, rangeResponse{
		Metrics: records,
		Count:   len(records),
	})
}

// queryTimeLayouts accepted for start_time and end_time parameters.
var queryTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseQueryTime(s string) (time.Time, error) {
	var err error
	for _, layout := range queryTimeLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
