package finboard

import (
	"errors"
	"log/slog"
	"net/url"
	"time"
)

// Storage persists the widget snapshot as an opaque blob.
//
// Load returns nil data with a nil error when no snapshot exists yet. The
// default implementation writes a JSON file; [WithStorage] swaps in a custom
// backend.
type Storage interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// fbConfig holds mutable state during Dashboard construction.
type fbConfig struct {
	title           string
	port            int
	dataFile        string
	storage         Storage
	proxyURL        string
	requestTimeout  time.Duration
	logger          *slog.Logger
	updateCallbacks []func(Update)
}

// Option is a function that configures a [Dashboard] instance during construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
//
// Built-in options: [WithPort], [WithTitle], [WithDataFile], [WithStorage],
// [WithProxyURL], [WithRequestTimeout], [WithLogger], [WithUpdateCallback].
type Option func(*fbConfig) error

// WithPort sets the HTTP port for the dashboard server.
//
// The dashboard UI and API will be available at http://localhost:<port>.
// Defaults to 8080 if not specified.
//
// Returns an error if the port is outside the valid range (1-65535).
func WithPort(port int) Option {
	return func(cfg *fbConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithTitle sets the dashboard title displayed in the browser tab and header.
//
// If not specified, defaults to "FinBoard".
func WithTitle(title string) Option {
	return func(cfg *fbConfig) error {
		cfg.title = title
		return nil
	}
}

// WithDataFile sets the path of the persisted widget snapshot.
//
// The file is created on the first mutation if it does not exist. Defaults
// to "finboard.json" in the working directory. Ignored when a custom
// [WithStorage] backend is configured.
//
// Returns an error if the path is empty.
func WithDataFile(path string) Option {
	return func(cfg *fbConfig) error {
		if path == "" {
			return errors.New("data file path cannot be empty")
		}
		cfg.dataFile = path
		return nil
	}
}

// WithStorage replaces the file-based snapshot persistence with a custom
// [Storage] backend.
//
// Use this to keep widget configuration in a database or to run fully
// in-memory in tests.
//
// Returns an error if the storage is nil.
func WithStorage(s Storage) Option {
	return func(cfg *fbConfig) error {
		if s == nil {
			return errors.New("storage cannot be nil")
		}
		cfg.storage = s
		return nil
	}
}

// WithProxyURL routes all widget data fetches through an external proxy
// service instead of fetching endpoints directly.
//
// The proxy is addressed as GET <proxyURL>?url=<percent-encoded endpoint>
// and must relay the endpoint's JSON body and status code.
//
// Returns an error if the URL is not an absolute http or https URL.
func WithProxyURL(proxyURL string) Option {
	return func(cfg *fbConfig) error {
		parsed, err := url.Parse(proxyURL)
		if err != nil {
			return errors.New("proxy URL must be a valid URL")
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return errors.New("proxy URL scheme must be http or https")
		}
		cfg.proxyURL = proxyURL
		return nil
	}
}

// WithRequestTimeout bounds a single widget data fetch.
//
// Defaults to 10 seconds if not specified.
//
// Returns an error if the duration is zero or negative.
func WithRequestTimeout(d time.Duration) Option {
	return func(cfg *fbConfig) error {
		if d <= 0 {
			return errors.New("request timeout must be positive")
		}
		cfg.requestTimeout = d
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the Dashboard instance.
//
// This allows SDK consumers to control where logs are written and in what
// format. If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *fbConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithUpdateCallback registers a function to be called on every poll
// completion, successful or not.
//
// Multiple callbacks may be registered by calling WithUpdateCallback
// multiple times; they execute in registration order.
//
// Callbacks must be non-blocking. Long-running operations should dispatch
// work to a separate goroutine; blocking callbacks delay subsequent poll
// result processing.
//
// Callbacks are invoked synchronously from a single goroutine. Panics within
// callbacks are recovered and logged; they do not crash the poll pipeline.
//
// Nil callbacks are silently ignored.
func WithUpdateCallback(cb func(Update)) Option {
	return func(cfg *fbConfig) error {
		if cb == nil {
			return nil // no-op for nil callback (safe to call)
		}
		cfg.updateCallbacks = append(cfg.updateCallbacks, cb)
		return nil
	}
}
