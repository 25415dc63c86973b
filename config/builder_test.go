package config

import (
	"testing"
	"time"

	"github.com/deveshsoni7/finboard"
)

func TestBuildOptions_MinimalConfig(t *testing.T) {
	cfg, err := Parse([]byte(""))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	opts := BuildOptions(cfg)
	if len(opts) != 3 {
		t.Errorf("len(opts) = %d, want 3 (port, data file, timeout)", len(opts))
	}

	// the SDK must accept defaults-only configuration
	if _, err := finboard.New(opts...); err != nil {
		t.Errorf("New(BuildOptions(defaults)) error = %v", err)
	}
}

func TestBuildOptions_FullConfig(t *testing.T) {
	cfg, err := Parse([]byte(`
title: Markets
port: 9090
data_file: state.json
request_timeout: 5s
proxy_url: https://proxy.example.com/fetch
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	opts := BuildOptions(cfg)
	if len(opts) != 5 {
		t.Errorf("len(opts) = %d, want 5", len(opts))
	}
	if _, err := finboard.New(opts...); err != nil {
		t.Errorf("New(BuildOptions(full)) error = %v", err)
	}
}

func TestBuildOptions_RoundTripValues(t *testing.T) {
	cfg, err := Parse([]byte("request_timeout: 3s"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.RequestTimeout.Duration() != 3*time.Second {
		t.Fatalf("RequestTimeout = %v, want 3s", cfg.RequestTimeout.Duration())
	}

	if _, err := finboard.New(BuildOptions(cfg)...); err != nil {
		t.Errorf("New() error = %v", err)
	}
}
