package metric

import (
	"errors"
	"sync"
	"time"

	"github.com/nerrad567/energy-metrics-core/internal/infrastructure/logging"
)

// ViewPublisher pushes a freshly derived view to an external observer,
// such as a websocket hub or an MQTT state topic.
type ViewPublisher interface {
	PublishView(view View)
}

// Projector derives the latest-record view from the store and pushes it to
// registered publishers after every recompute. The current view is cached
// so reads never touch the store.
type Projector struct {
	store      *Store
	publishers []ViewPublisher
	logger     *logging.Logger

	mu   sync.RWMutex
	view View
}

// NewProjector creates a projector and derives the initial view from the
// store's current contents.
func NewProjector(store *Store, publishers []ViewPublisher, logger *logging.Logger) *Projector {
	p := &Projector{
		store:      store,
		publishers: publishers,
		logger:     logger,
	}
	p.view = p.derive()
	return p
}

// View returns the current derived view.
func (p *Projector) View() View {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.view
}

// Recompute re-derives the view and pushes it to every publisher. Called
// after each successful ingestion.
func (p *Projector) Recompute() {
	view := p.derive()

	p.mu.Lock()
	p.view = view
	p.mu.Unlock()

	for _, pub := range p.publishers {
		pub.PublishView(view)
	}
}

// derive maps store state to a View. Status reflects exactly one of:
// store missing, store empty, newest record unreadable, or a record
// available.
func (p *Projector) derive() View {
	view := View{UpdatedAt: time.Now().UTC()}

	if p.store == nil {
		view.Status = StatusDisconnected
		return view
	}
	view.Total = p.store.Count()

	latest, err := p.store.Latest()
	switch {
	case err == nil:
		view.Status = StatusConnected
		view.Latest = &latest
	case errors.Is(err, ErrNoData):
		view.Status = StatusNoData
	case errors.Is(err, ErrCorruptRecord):
		view.Status = StatusDataError
		p.logger.Error("latest record unreadable", "error", err)
	default:
		view.Status = StatusError
		p.logger.Error("view derivation failed", "error", err)
	}
	return view
}
