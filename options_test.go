package finboard

import (
	"io"
	"log/slog"
	"testing"
	"time"
)

func TestNew_Defaults(t *testing.T) {
	fb, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if fb.Port() != 8080 {
		t.Errorf("Port() = %d, want 8080", fb.Port())
	}
	if fb.DataFile() != "finboard.json" {
		t.Errorf("DataFile() = %q, want finboard.json", fb.DataFile())
	}
	if fb.requestTimeout != 10*time.Second {
		t.Errorf("requestTimeout = %v, want 10s", fb.requestTimeout)
	}
}

func TestNew_OptionsApplied(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	fb, err := New(
		WithPort(9090),
		WithTitle("Markets"),
		WithDataFile("state.json"),
		WithRequestTimeout(3*time.Second),
		WithProxyURL("https://proxy.example.com/fetch"),
		WithLogger(logger),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if fb.Port() != 9090 {
		t.Errorf("Port() = %d, want 9090", fb.Port())
	}
	if fb.title != "Markets" {
		t.Errorf("title = %q, want Markets", fb.title)
	}
	if fb.DataFile() != "state.json" {
		t.Errorf("DataFile() = %q, want state.json", fb.DataFile())
	}
	if fb.requestTimeout != 3*time.Second {
		t.Errorf("requestTimeout = %v, want 3s", fb.requestTimeout)
	}
	if fb.proxyURL != "https://proxy.example.com/fetch" {
		t.Errorf("proxyURL = %q", fb.proxyURL)
	}
	if fb.logger != logger {
		t.Error("logger not applied")
	}
}

func TestNew_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"port too low", WithPort(0)},
		{"port too high", WithPort(70000)},
		{"empty data file", WithDataFile("")},
		{"nil storage", WithStorage(nil)},
		{"zero timeout", WithRequestTimeout(0)},
		{"negative timeout", WithRequestTimeout(-time.Second)},
		{"nil logger", WithLogger(nil)},
		{"proxy bad scheme", WithProxyURL("ftp://proxy.example.com")},
		{"proxy relative url", WithProxyURL("proxy.example.com")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opt); err == nil {
				t.Error("New() expected error, got nil")
			}
		})
	}
}

func TestWithUpdateCallback_NilIgnored(t *testing.T) {
	fb, err := New(WithUpdateCallback(nil))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if len(fb.updateCallbacks) != 0 {
		t.Errorf("len(updateCallbacks) = %d, want 0", len(fb.updateCallbacks))
	}
}

func TestWithUpdateCallback_RegistrationOrder(t *testing.T) {
	cb := func(Update) {}
	fb, err := New(WithUpdateCallback(cb), WithUpdateCallback(cb))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if len(fb.updateCallbacks) != 2 {
		t.Errorf("len(updateCallbacks) = %d, want 2", len(fb.updateCallbacks))
	}
}
