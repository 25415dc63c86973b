package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/deveshsoni7/finboard/widget"
)

// DefaultTheme is the theme a fresh dashboard starts with.
const DefaultTheme = "dark"

// ErrWidgetNotFound is returned by [WidgetStore.UpdateValidated] when the
// target widget does not exist.
var ErrWidgetNotFound = errors.New("widget not found")

// snapshot is the persisted form of the widget store: the whole state as
// one blob, matching the original browser-storage layout.
type snapshot struct {
	Widgets []widget.Widget `json:"widgets"`
	Theme   string          `json:"theme"`
}

// WidgetStore is the single source of truth for widget configurations.
//
// The collection is an ordered slice: insertion order is the display/grid
// order and changes only through explicit Reorder, Add, or Remove calls,
// never by implicit sorting. Widget ids are unique across the collection.
//
// Every mutation is written through to the [Storage] collaborator before the
// call returns. Persistence failures are logged and do not roll back the
// in-memory mutation; the next successful write repairs the snapshot.
//
// All methods are safe for concurrent use.
type WidgetStore struct {
	mu      sync.RWMutex
	widgets []widget.Widget
	theme   string
	storage Storage
	logger  *slog.Logger

	// changes carries coalesced mutation signals for poller resync.
	changes chan struct{}
}

// NewWidgetStore creates a [WidgetStore] backed by the given storage,
// reconstructing the collection from the last saved snapshot.
//
// A missing snapshot yields an empty collection with the default theme. A
// corrupt snapshot is an error; silently discarding user configuration is
// worse than failing startup.
func NewWidgetStore(storage Storage, logger *slog.Logger) (*WidgetStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &WidgetStore{
		theme:   DefaultTheme,
		storage: storage,
		logger:  logger,
		changes: make(chan struct{}, 1),
	}

	data, err := storage.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	if len(data) > 0 {
		var snap snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("corrupt snapshot: %w", err)
		}
		s.widgets = snap.Widgets
		if snap.Theme != "" {
			s.theme = snap.Theme
		}
		logger.Info("widget store loaded", "widgets", len(s.widgets), "theme", s.theme)
	}

	return s, nil
}

// Changes returns a channel that receives a signal after every mutation.
//
// Signals are coalesced: a burst of mutations may produce a single signal,
// so consumers should re-read the full collection on each receive.
func (s *WidgetStore) Changes() <-chan struct{} {
	return s.changes
}

// Add appends a widget to the end of the collection.
//
// The caller supplies the pre-generated id; adding an id that already
// exists is rejected to preserve the uniqueness invariant.
func (s *WidgetStore) Add(w widget.Widget) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.widgets {
		if existing.ID == w.ID {
			return fmt.Errorf("duplicate widget id: %q", w.ID)
		}
	}

	s.widgets = append(s.widgets, w)
	s.persistLocked()
	s.notifyLocked()
	return nil
}

// Remove deletes the widget with the given id, preserving the order of the
// rest. Removing an absent id is a no-op; the return reports whether the
// collection changed.
func (s *WidgetStore) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, w := range s.widgets {
		if w.ID == id {
			s.widgets = append(s.widgets[:i], s.widgets[i+1:]...)
			s.persistLocked()
			s.notifyLocked()
			return true
		}
	}
	return false
}

// Update shallow-merges a patch into the widget with the given id. The
// widget keeps its position. Updating an absent id is a no-op; the return
// reports whether a widget was updated.
func (s *WidgetStore) Update(id string, p widget.Patch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, w := range s.widgets {
		if w.ID == id {
			s.widgets[i] = p.Apply(w)
			s.persistLocked()
			s.notifyLocked()
			return true
		}
	}
	return false
}

// UpdateValidated shallow-merges a patch into the widget with the given id,
// rejecting the merge if the result fails validation. Apply and validate run
// under the write lock, so concurrent patches cannot each validate against
// the pre-patch widget and commit an invalid combination.
//
// Returns the updated widget on success, [ErrWidgetNotFound] for an absent
// id, or the validation error with the collection untouched.
func (s *WidgetStore) UpdateValidated(id string, p widget.Patch) (widget.Widget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, w := range s.widgets {
		if w.ID == id {
			merged := p.Apply(w)
			if err := merged.Validate(); err != nil {
				return widget.Widget{}, err
			}
			s.widgets[i] = merged
			s.persistLocked()
			s.notifyLocked()
			return merged, nil
		}
	}
	return widget.Widget{}, ErrWidgetNotFound
}

// Reorder replaces the collection's order wholesale with the given list.
//
// The caller (the drag-reorder UI) is responsible for passing a permutation
// of the current collection; the list is stored verbatim.
func (s *WidgetStore) Reorder(widgets []widget.Widget) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.widgets = copyWidgets(widgets)
	s.persistLocked()
	s.notifyLocked()
}

// ImportAll replaces the entire collection with the given list verbatim.
// The caller is responsible for validating the list before calling.
func (s *WidgetStore) ImportAll(widgets []widget.Widget) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.widgets = copyWidgets(widgets)
	s.persistLocked()
	s.notifyLocked()
}

// ExportAll returns a copy of the current collection in display order.
func (s *WidgetStore) ExportAll() []widget.Widget {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyWidgets(s.widgets)
}

// All returns a copy of the current collection in display order.
func (s *WidgetStore) All() []widget.Widget {
	return s.ExportAll()
}

// Get returns the widget with the given id.
func (s *WidgetStore) Get(id string) (widget.Widget, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, w := range s.widgets {
		if w.ID == id {
			return w, true
		}
	}
	return widget.Widget{}, false
}

// Theme returns the current dashboard theme.
func (s *WidgetStore) Theme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// SetTheme changes the dashboard theme and persists it.
func (s *WidgetStore) SetTheme(theme string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.theme = theme
	s.persistLocked()
}

// persistLocked writes the current state through to storage. Callers must
// hold the write lock.
func (s *WidgetStore) persistLocked() {
	data, err := json.Marshal(snapshot{Widgets: s.widgets, Theme: s.theme})
	if err != nil {
		s.logger.Error("failed to encode snapshot", "error", err)
		return
	}
	if err := s.storage.Save(data); err != nil {
		s.logger.Error("failed to persist snapshot", "error", err)
	}
}

// notifyLocked sends a coalesced change signal without blocking.
func (s *WidgetStore) notifyLocked() {
	select {
	case s.changes <- struct{}{}:
	default:
		// a signal is already pending, the consumer re-reads everything anyway
	}
}

func copyWidgets(widgets []widget.Widget) []widget.Widget {
	cp := make([]widget.Widget, len(widgets))
	copy(cp, widgets)
	return cp
}
