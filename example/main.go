package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deveshsoni7/finboard"
	"github.com/deveshsoni7/finboard/widget"
)

const dataFile = "example-finboard.json"

func main() {
	// start mock market data server (see mock_server.go)
	go StartMockMarketServer(":9999")
	time.Sleep(100 * time.Millisecond)

	// seed a starter dashboard on first run; later runs keep user edits
	if err := seedDataFile(dataFile); err != nil {
		slog.Error("failed to seed data file", "error", err)
		os.Exit(1)
	}

	fb, err := finboard.New(
		finboard.WithTitle("FinBoard Demo"),
		finboard.WithDataFile(dataFile),
		finboard.WithPort(8080),
	)
	if err != nil {
		slog.Error("failed to create finboard", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  ╔═══════════════════════════════════════════════════════╗")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   FinBoard Demo                                       ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Open http://localhost:8080 in your browser          ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Widgets:                                            ║")
	fmt.Println("  ║   • 2 mock quote cards (5s refresh)                   ║")
	fmt.Println("  ║   • 1 mock daily time-series table (30s refresh)      ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Press Ctrl+C to stop                                ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ╚═══════════════════════════════════════════════════════╝")
	fmt.Println()

	// set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := fb.Start(ctx); err != nil {
		slog.Error("finboard error", "error", err)
		os.Exit(1)
	}
}

// seedDataFile writes a starter widget snapshot unless one already exists.
func seedDataFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	widgets := []widget.Widget{
		{
			ID:              "demo-ibm",
			Title:           "IBM",
			Type:            widget.TypeCard,
			APIEndpoint:     "http://localhost:9999/quote?symbol=IBM",
			RefreshInterval: 5,
			Settings: widget.Settings{DataMap: widget.DataMap{SelectedFields: []string{
				"Global Quote.05. price",
				"Global Quote.09. change",
				"Global Quote.10. change percent",
			}}},
		},
		{
			ID:              "demo-aapl",
			Title:           "AAPL",
			Type:            widget.TypeCard,
			APIEndpoint:     "http://localhost:9999/quote?symbol=AAPL",
			RefreshInterval: 5,
			Settings: widget.Settings{DataMap: widget.DataMap{SelectedFields: []string{
				"Global Quote.05. price",
				"Global Quote.09. change",
			}}},
		},
		{
			ID:              "demo-ibm-daily",
			Title:           "IBM Daily",
			Type:            widget.TypeTable,
			APIEndpoint:     "http://localhost:9999/daily?symbol=IBM",
			RefreshInterval: 30,
			Layout:          widget.Layout{W: 2},
		},
	}

	snapshot := map[string]any{"widgets": widgets, "theme": "dark"}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
