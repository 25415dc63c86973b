package store

import (
	"encoding/json"
	"sync"
	"time"
)

// LiveData is the live-data cell of one mounted widget: the latest
// normalized payload plus the loading and error flags the rendering layer
// consumes.
//
// Data holds the last successful payload and survives failed polls, so the
// dashboard keeps showing stale-but-present values while an endpoint is
// down. Error is nil after a successful poll.
type LiveData struct {
	// WidgetID identifies the widget this cell belongs to.
	WidgetID string `json:"widgetId"`

	// Data is the normalized payload from the last successful poll.
	// nil until the first success.
	Data json.RawMessage `json:"data"`

	// Loading is true while a fetch is in flight.
	Loading bool `json:"loading"`

	// Error is the message from the last failed poll, nil when the last
	// poll succeeded.
	Error *string `json:"error"`

	// UpdatedAt is the timestamp of the last state change.
	UpdatedAt time.Time `json:"updatedAt"`
}

// LiveStore holds the live-data cells of all mounted widgets and publishes
// every cell change to subscribers for real-time streaming.
//
// Cells are created lazily on the first fetch, replaced on every poll
// outcome, and destroyed when the widget is removed. Subscribers receive
// updates via buffered channels; sends are non-blocking, so a slow consumer
// misses updates rather than stalling the poll pipeline.
type LiveStore struct {
	mu    sync.RWMutex
	cells map[string]LiveData

	subMu       sync.RWMutex
	subscribers map[chan LiveData]struct{}
}

// NewLiveStore creates an empty [LiveStore].
func NewLiveStore() *LiveStore {
	return &LiveStore{
		cells:       make(map[string]LiveData),
		subscribers: make(map[chan LiveData]struct{}),
	}
}

// MarkLoading flags a fetch in flight for the widget, creating the cell if
// this is the widget's first fetch. Existing data and error are kept.
func (s *LiveStore) MarkLoading(id string) {
	s.mu.Lock()
	cell := s.cells[id]
	cell.WidgetID = id
	cell.Loading = true
	cell.UpdatedAt = time.Now()
	s.cells[id] = cell
	s.mu.Unlock()

	s.notify(cell)
}

// SetData records a successful poll: the payload replaces the previous one
// and any prior error is cleared.
func (s *LiveStore) SetData(id string, data json.RawMessage, at time.Time) {
	s.mu.Lock()
	cell := LiveData{WidgetID: id, Data: data, UpdatedAt: at}
	s.cells[id] = cell
	s.mu.Unlock()

	s.notify(cell)
}

// SetError records a failed poll. The last successful payload is left
// untouched so the dashboard can keep rendering stale data.
func (s *LiveStore) SetError(id string, msg string, at time.Time) {
	s.mu.Lock()
	cell := s.cells[id]
	cell.WidgetID = id
	cell.Loading = false
	cell.Error = &msg
	cell.UpdatedAt = at
	s.cells[id] = cell
	s.mu.Unlock()

	s.notify(cell)
}

// Get returns the live cell for a widget.
func (s *LiveStore) Get(id string) (LiveData, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cell, ok := s.cells[id]
	return cell, ok
}

// GetAll returns a snapshot of all live cells. Order is not guaranteed;
// callers that need display order sort by the widget collection.
func (s *LiveStore) GetAll() []LiveData {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cells := make([]LiveData, 0, len(s.cells))
	for _, cell := range s.cells {
		cells = append(cells, cell)
	}
	return cells
}

// Remove destroys a widget's cell. Called when the widget is removed from
// the collection; removing an absent cell is a no-op.
func (s *LiveStore) Remove(id string) {
	s.mu.Lock()
	delete(s.cells, id)
	s.mu.Unlock()
}

// Subscribe creates a subscription and returns a channel receiving every
// cell update. The channel is buffered (100); callers must call
// [LiveStore.Unsubscribe] when done to prevent resource leaks.
func (s *LiveStore) Subscribe() <-chan LiveData {
	ch := make(chan LiveData, 100)

	s.subMu.Lock()
	s.subscribers[ch] = struct{}{}
	s.subMu.Unlock()

	return ch
}

// Unsubscribe removes a subscription and closes its channel. Safe to call
// with a channel that was already unsubscribed.
func (s *LiveStore) Unsubscribe(ch <-chan LiveData) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for subCh := range s.subscribers {
		if subCh == ch {
			delete(s.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

// notify fans a cell update out to all subscribers without blocking.
func (s *LiveStore) notify(cell LiveData) {
	s.subMu.RLock()
	defer s.subMu.RUnlock()

	for ch := range s.subscribers {
		select {
		case ch <- cell:
		default:
			// subscriber is slow, drop the update
		}
	}
}
