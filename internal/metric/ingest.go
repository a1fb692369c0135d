package metric

import (
	"context"
	"fmt"

	"github.com/nerrad567/energy-metrics-core/internal/infrastructure/logging"
)

// Sink receives every record applied by an ingestion, in batch order, after
// the batch has committed. Implementations must not block; failures are
// theirs to log, not ours to propagate.
type Sink interface {
	UpsertRecord(rec Record)
}

// Ingestor accepts metric submissions, validates each item independently,
// applies the valid subset in one transaction and fans the applied records
// out to downstream sinks.
type Ingestor struct {
	store     *Store
	projector *Projector
	sinks     []Sink
	logger    *logging.Logger
}

// NewIngestor creates an ingestor. Projector may be nil when no derived
// view is needed; sinks may be empty.
func NewIngestor(store *Store, projector *Projector, sinks []Sink, logger *logging.Logger) *Ingestor {
	return &Ingestor{
		store:     store,
		projector: projector,
		sinks:     sinks,
		logger:    logger,
	}
}

// Submit processes one submission batch. Each item is validated on its own:
// invalid items are rejected with an indexed reason and the rest still
// apply. The returned Result always satisfies Accepted+Rejected == len(items).
//
// A non-nil error means persistence failed and nothing from the batch was
// applied; validation rejections alone never produce an error. An empty
// batch is a no-op returning a zero Result.
func (ing *Ingestor) Submit(ctx context.Context, items []map[string]any) (Result, error) {
	if len(items) == 0 {
		return Result{}, nil
	}

	result := Result{}
	accepted := make([]Record, 0, len(items))
	for i, item := range items {
		rec, err := Validate(item)
		if err != nil {
			result.Rejected++
			result.Errors = append(result.Errors, ItemError{Index: i, Reason: err.Error()})
			continue
		}
		accepted = append(accepted, rec)
	}
	result.Accepted = len(accepted)

	if len(accepted) == 0 {
		ing.logger.Warn("submission fully rejected", "items", len(items))
		return result, nil
	}

	if err := ing.store.UpsertBulk(ctx, accepted); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	for _, sink := range ing.sinks {
		for _, rec := range accepted {
			sink.UpsertRecord(rec)
		}
	}

	if ing.projector != nil {
		ing.projector.Recompute()
	}

	ing.logger.Info("submission applied",
		"accepted", result.Accepted,
		"rejected", result.Rejected,
		"stored", ing.store.Count(),
	)
	return result, nil
}
