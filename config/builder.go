package config

import (
	"github.com/deveshsoni7/finboard"
)

// BuildOptions converts parsed configuration into SDK options.
//
// The returned slice can be passed directly to [finboard.New]. Zero values
// left by [Parse] defaults are passed through; the SDK applies the same
// defaults, so the two layers cannot disagree.
func BuildOptions(cfg *Config) []finboard.Option {
	opts := []finboard.Option{
		finboard.WithPort(cfg.Port),
		finboard.WithDataFile(cfg.DataFile),
		finboard.WithRequestTimeout(cfg.RequestTimeout.Duration()),
	}

	if cfg.Title != "" {
		opts = append(opts, finboard.WithTitle(cfg.Title))
	}
	if cfg.ProxyURL != "" {
		opts = append(opts, finboard.WithProxyURL(cfg.ProxyURL))
	}

	return opts
}
