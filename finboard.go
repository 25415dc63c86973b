package finboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/deveshsoni7/finboard/dashboard"
	"github.com/deveshsoni7/finboard/internal/poller"
	"github.com/deveshsoni7/finboard/internal/server"
	"github.com/deveshsoni7/finboard/internal/store"
	"github.com/deveshsoni7/finboard/widget"
)

const (
	defaultPort           = 8080
	defaultDataFile       = "finboard.json"
	defaultRequestTimeout = 10 * time.Second
)

// Update is the outcome of one widget poll, delivered to callbacks
// registered via [WithUpdateCallback].
type Update struct {
	// WidgetID identifies the widget that was polled.
	WidgetID string

	// Data is the normalized payload on success, nil on failure.
	Data json.RawMessage

	// Err is non-nil when the poll failed.
	Err error

	// At is when the poll completed.
	At time.Time
}

// Dashboard is the main orchestrator for widget polling and dashboard serving.
//
// Dashboard loads the persisted widget collection, polls each widget's
// endpoint on its own schedule, keeps the live data state, and serves the
// dashboard UI and API over HTTP. It is created using [New] with functional
// options and started with [Dashboard.Start].
//
// The typical lifecycle is:
//
//	fb, err := finboard.New(finboard.WithDataFile("finboard.json"))
//	if err != nil {
//	    slog.Error("failed to create finboard", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	fb.Start(ctx) // blocks until context cancelled
//
// The caller controls the lifecycle via the context. Cancel the context to
// trigger graceful shutdown.
type Dashboard struct {
	title           string
	port            int
	dataFile        string
	storage         Storage
	proxyURL        string
	requestTimeout  time.Duration
	logger          *slog.Logger
	updateCallbacks []func(Update)
}

// New creates a new [Dashboard] instance with the given options.
//
// All options have sensible defaults:
//   - Port: 8080
//   - Data file: "finboard.json" in the working directory
//   - Request timeout: 10 seconds
//
// Returns an error if any option is invalid.
//
// Example:
//
//	fb, err := finboard.New(
//	    finboard.WithPort(9090),
//	    finboard.WithTitle("Portfolio Overview"),
//	)
func New(opts ...Option) (*Dashboard, error) {
	cfg := &fbConfig{
		port:           defaultPort,
		dataFile:       defaultDataFile,
		requestTimeout: defaultRequestTimeout,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.port < 1 || cfg.port > 65535 {
		return nil, fmt.Errorf("port must be between 1 and 65535, got %d", cfg.port)
	}

	// default to slog.Default() if no logger provided
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Dashboard{
		title:           cfg.title,
		port:            cfg.port,
		dataFile:        cfg.dataFile,
		storage:         cfg.storage,
		proxyURL:        cfg.proxyURL,
		requestTimeout:  cfg.requestTimeout,
		logger:          logger,
		updateCallbacks: cfg.updateCallbacks,
	}, nil
}

// closableProxy is what both proxy implementations provide.
type closableProxy interface {
	poller.Proxy
	Close()
}

// Start loads the widget collection, begins polling, and serves the dashboard.
//
// Start is a blocking call that runs until the provided context is cancelled.
// During execution:
//
//   - The widget collection is restored from the persisted snapshot
//   - Every widget is fetched immediately, then on its own refresh interval
//   - Widget changes made through the API reschedule polling on the fly
//   - The dashboard is available at http://localhost:<port>
//
// Returns nil on graceful shutdown. Returns an error if the snapshot cannot
// be loaded or the HTTP server fails to start.
func (d *Dashboard) Start(ctx context.Context) error {
	d.logger.Info("finboard starting", "data_file", d.dataFile)
	d.logger.Info("dashboard available", "url", fmt.Sprintf("http://localhost:%d", d.port))

	// check if context already cancelled
	if ctx.Err() != nil {
		return nil
	}

	storage := store.Storage(d.storage)
	if storage == nil {
		storage = store.NewFileStorage(d.dataFile)
	}

	widgets, err := store.NewWidgetStore(storage, d.logger)
	if err != nil {
		return fmt.Errorf("failed to load widget store: %w", err)
	}
	live := store.NewLiveStore()

	var proxy closableProxy
	if d.proxyURL != "" {
		proxy = poller.NewHTTPProxy(d.proxyURL)
		d.logger.Info("fetching through proxy", "proxy_url", d.proxyURL)
	} else {
		proxy = poller.NewDirectProxy()
	}
	defer proxy.Close()

	client := poller.NewClient(proxy, d.requestTimeout)
	manager := poller.NewManager(client, d.logger)
	if err := manager.Start(ctx); err != nil {
		return err
	}
	manager.Sync(pollSpecs(widgets.All()))

	var wg sync.WaitGroup
	stop := make(chan struct{})

	// consume poll events into the live store
	wg.Add(1)
	go func() {
		defer wg.Done()
		for ev := range manager.Events() {
			d.applyEvent(live, ev)
		}
	}()

	// reschedule polling and prune live cells whenever the collection changes
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case <-widgets.Changes():
				current := widgets.All()
				manager.Sync(pollSpecs(current))
				pruneLiveCells(live, current)
			}
		}
	}()

	// cleanup stops the scheduler and waits until every in-flight result has
	// been applied
	cleanup := func() {
		close(stop)
		manager.Stop() // closes the events channel
		wg.Wait()
	}

	httpServer := server.NewServer(widgets, live, proxy, d.port, dashboard.Assets, d.title, d.logger)
	if err := httpServer.Start(ctx); err != nil {
		cleanup()
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	<-ctx.Done()
	cleanup()
	d.logger.Info("finboard stopped")
	return nil
}

// applyEvent maps one poll event onto the live store and fires callbacks.
func (d *Dashboard) applyEvent(live *store.LiveStore, ev poller.Event) {
	switch ev.Kind {
	case poller.EventFetchStarted:
		live.MarkLoading(ev.WidgetID)

	case poller.EventFetchSucceeded:
		live.SetData(ev.WidgetID, ev.Data, ev.At)
		d.logger.Debug("widget data updated", "widget_id", ev.WidgetID, "bytes", len(ev.Data))
		d.fireCallbacks(Update{WidgetID: ev.WidgetID, Data: ev.Data, At: ev.At})

	case poller.EventFetchFailed:
		live.SetError(ev.WidgetID, ev.Err.Error(), ev.At)
		d.logger.Warn("widget fetch failed", "widget_id", ev.WidgetID, "error", ev.Err)
		d.fireCallbacks(Update{WidgetID: ev.WidgetID, Err: ev.Err, At: ev.At})
	}
}

// fireCallbacks invokes registered callbacks in order, recovering panics so
// a broken callback cannot crash the event consumer.
func (d *Dashboard) fireCallbacks(u Update) {
	for _, cb := range d.updateCallbacks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					d.logger.Error("update callback panicked", "panic", r, "widget_id", u.WidgetID)
				}
			}()
			cb(u)
		}()
	}
}

// Port returns the configured HTTP port for the dashboard server.
func (d *Dashboard) Port() int {
	return d.port
}

// DataFile returns the path of the persisted widget snapshot.
func (d *Dashboard) DataFile() string {
	return d.dataFile
}

// pollSpecs converts the widget collection into polling schedules.
func pollSpecs(widgets []widget.Widget) []poller.Spec {
	specs := make([]poller.Spec, 0, len(widgets))
	for _, w := range widgets {
		specs = append(specs, poller.Spec{
			WidgetID: w.ID,
			Endpoint: w.APIEndpoint,
			Interval: w.Interval(),
		})
	}
	return specs
}

// pruneLiveCells drops cells whose widget no longer exists.
func pruneLiveCells(live *store.LiveStore, widgets []widget.Widget) {
	current := make(map[string]struct{}, len(widgets))
	for _, w := range widgets {
		current[w.ID] = struct{}{}
	}
	for _, cell := range live.GetAll() {
		if _, ok := current[cell.WidgetID]; !ok {
			live.Remove(cell.WidgetID)
		}
	}
}
