package poller

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// EventKind classifies a poll lifecycle notification.
type EventKind string

const (
	// EventFetchStarted is emitted when a poll cycle begins.
	EventFetchStarted EventKind = "fetch_started"

	// EventFetchSucceeded carries the normalized payload of a successful poll.
	EventFetchSucceeded EventKind = "fetch_succeeded"

	// EventFetchFailed carries the error of a failed poll.
	EventFetchFailed EventKind = "fetch_failed"
)

// Event is a poll lifecycle notification emitted on the Manager's channel.
type Event struct {
	WidgetID string
	Kind     EventKind

	// Data holds the normalized payload for EventFetchSucceeded.
	Data json.RawMessage

	// Err holds the failure for EventFetchFailed.
	Err error

	At time.Time
}

// Spec describes the polling schedule of a single widget. Two specs are
// equal exactly when all three fields match, which is what Sync uses to
// decide whether a running schedule can be kept.
type Spec struct {
	WidgetID string
	Endpoint string
	Interval time.Duration
}

// runner is one widget's polling goroutine plus the handle to stop it.
type runner struct {
	spec   Spec
	cancel context.CancelFunc
}

// Manager owns one polling runner per widget.
//
// Each runner fetches immediately on creation and then on every interval
// tick. Fetches run in their own goroutines so a slow endpoint delays
// neither its own ticker nor other widgets; if a fetch outlives its
// interval the next tick simply starts another one, and whichever result
// arrives last wins.
//
// Manager is safe for concurrent use. The zero value is not usable; create
// instances with [NewManager].
type Manager struct {
	client *Client
	logger *slog.Logger

	mu      sync.Mutex
	started bool
	stopped bool
	ctx     context.Context
	runners map[string]*runner

	events    chan Event
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewManager creates a polling [Manager] fetching through the given client.
func NewManager(client *Client, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		client:  client,
		logger:  logger,
		runners: make(map[string]*runner),
		events:  make(chan Event, 100),
	}
}

// Start makes the manager ready to accept schedules via [Manager.Sync].
// The context bounds the lifetime of every runner; cancelling it stops all
// polling. Calling Start more than once is an error.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return fmt.Errorf("manager already started")
	}
	if m.stopped {
		return fmt.Errorf("manager already stopped")
	}
	m.started = true
	m.ctx = ctx
	return nil
}

// Events returns the channel on which poll notifications are emitted. The
// channel is closed after [Manager.Stop] returns, once every in-flight
// fetch has finished.
func (m *Manager) Events() <-chan Event {
	return m.events
}

// Sync reconciles the running schedules against the desired set.
//
// Widgets absent from the desired set are stopped; new widgets are started;
// widgets whose endpoint or interval changed are restarted on a fresh
// timer. A widget whose spec is unchanged keeps its running timer and its
// phase.
func (m *Manager) Sync(specs []Spec) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started || m.stopped {
		return
	}

	desired := make(map[string]Spec, len(specs))
	for _, s := range specs {
		desired[s.WidgetID] = s
	}

	for id, r := range m.runners {
		want, ok := desired[id]
		if ok && want == r.spec {
			continue
		}
		r.cancel()
		delete(m.runners, id)
	}

	for id, s := range desired {
		if _, ok := m.runners[id]; ok {
			continue
		}
		runCtx, cancel := context.WithCancel(m.ctx)
		m.runners[id] = &runner{spec: s, cancel: cancel}
		m.wg.Add(1)
		go m.run(runCtx, s)
	}
}

// Stop cancels every runner, waits for in-flight fetches to finish, and
// closes the events channel. Stop is idempotent.
func (m *Manager) Stop() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	for id, r := range m.runners {
		r.cancel()
		delete(m.runners, id)
	}
	m.mu.Unlock()

	m.wg.Wait()
	m.closeOnce.Do(func() { close(m.events) })
}

// run is one widget's polling loop: an immediate fetch followed by one
// fetch per tick until the runner's context is cancelled.
func (m *Manager) run(ctx context.Context, spec Spec) {
	defer m.wg.Done()

	m.logger.Debug("poll runner started",
		"widget_id", spec.WidgetID,
		"endpoint", spec.Endpoint,
		"interval", spec.Interval)

	m.poll(ctx, spec)

	ticker := time.NewTicker(spec.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Debug("poll runner stopped", "widget_id", spec.WidgetID)
			return
		case <-ticker.C:
			m.poll(ctx, spec)
		}
	}
}

// poll runs one fetch cycle in its own goroutine.
func (m *Manager) poll(ctx context.Context, spec Spec) {
	m.emit(ctx, Event{
		WidgetID: spec.WidgetID,
		Kind:     EventFetchStarted,
		At:       time.Now(),
	})

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		v, err := m.client.FetchWidgetData(ctx, spec.Endpoint)
		if err != nil {
			m.emit(ctx, Event{
				WidgetID: spec.WidgetID,
				Kind:     EventFetchFailed,
				Err:      err,
				At:       time.Now(),
			})
			return
		}

		data, err := json.Marshal(v)
		if err != nil {
			m.emit(ctx, Event{
				WidgetID: spec.WidgetID,
				Kind:     EventFetchFailed,
				Err:      fmt.Errorf("failed to encode payload: %w", err),
				At:       time.Now(),
			})
			return
		}

		m.emit(ctx, Event{
			WidgetID: spec.WidgetID,
			Kind:     EventFetchSucceeded,
			Data:     data,
			At:       time.Now(),
		})
	}()
}

// emit delivers an event unless the runner has been cancelled. The liveness
// check means a fetch that completes after its widget was removed, or after
// the manager stopped, is discarded rather than surfacing a stale update.
func (m *Manager) emit(ctx context.Context, ev Event) {
	select {
	case <-ctx.Done():
	case m.events <- ev:
	}
}
