// Package finboard provides a lightweight, embeddable finance dashboard
// that polls JSON APIs and renders their data as live widgets.
//
// FinBoard is designed as an SDK-first library, allowing developers to
// programmatically configure and deploy data dashboards as part of their
// applications. Widgets are created at runtime through the REST API, each
// bound to one JSON endpoint and one refresh interval; their configuration
// is persisted across restarts as a single snapshot file.
//
// # Quick Start
//
// Start the dashboard with graceful shutdown:
//
//	fb, _ := finboard.New(finboard.WithDataFile("finboard.json"))
//
//	// Set up graceful shutdown on SIGINT/SIGTERM
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	fb.Start(ctx) // blocks until context is cancelled
//
// # Configuration
//
// FinBoard uses the functional options pattern for configuration:
//
//	fb, err := finboard.New(
//	    finboard.WithPort(9090),
//	    finboard.WithTitle("Portfolio Overview"),
//	    finboard.WithRequestTimeout(5 * time.Second),
//	    finboard.WithProxyURL("https://proxy.internal/fetch"),
//	)
//
// # Data Shaping
//
// Polled payloads are normalized before storage: financial time-series
// objects keyed by date are converted into arrays of dated rows. The
// [github.com/deveshsoni7/finboard/shape] package exposes the shaping
// primitives (flattening nested JSON into path/value pairs, extracting the
// dominant array for tabular display) for consumers that post-process
// payloads in an [Update] callback.
//
// # Architecture
//
// FinBoard consists of several packages:
//
//   - shape: order-preserving JSON values and shaping transforms
//   - widget: widget configuration model and validation
//   - internal/poller: per-widget polling with independent schedules
//   - internal/store: persisted widget collection and live data state with pub/sub
//   - internal/server: HTTP server with REST API and Server-Sent Events
//   - dashboard: embedded web UI assets
//
// The internal packages are not part of the public API and may change
// without notice. The library is designed for single-binary deployment
// using Go's embed directive for static assets.
package finboard
