package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

// mockQuote tracks the random-walk price of a single symbol.
type mockQuote struct {
	price float64
	prev  float64
}

// StartMockMarketServer runs a mock market data API that serves random-walk
// quotes and a daily time series, in the shape real stock APIs use.
// Call this in a goroutine before starting the dashboard.
func StartMockMarketServer(addr string) {
	var (
		quotes = make(map[string]*mockQuote)
		mu     sync.Mutex
	)

	step := func(symbol string) *mockQuote {
		q, exists := quotes[symbol]
		if !exists {
			base := 50 + rand.Float64()*200
			q = &mockQuote{price: base, prev: base}
			quotes[symbol] = q
		}
		q.prev = q.price
		q.price *= 1 + (rand.Float64()-0.5)*0.02
		return q
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/quote", func(w http.ResponseWriter, r *http.Request) {
		symbol := r.URL.Query().Get("symbol")
		if symbol == "" {
			symbol = "DEMO"
		}

		// simulate small latency variance
		time.Sleep(time.Duration(20+rand.Intn(80)) * time.Millisecond)

		mu.Lock()
		q := step(symbol)
		change := q.price - q.prev
		resp := map[string]any{
			"Global Quote": map[string]string{
				"01. symbol":         symbol,
				"05. price":          fmt.Sprintf("%.2f", q.price),
				"09. change":         fmt.Sprintf("%.2f", change),
				"10. change percent": fmt.Sprintf("%.2f%%", change/q.prev*100),
			},
		}
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			slog.Error("failed to write response", "error", err)
		}
	})

	mux.HandleFunc("/daily", func(w http.ResponseWriter, r *http.Request) {
		symbol := r.URL.Query().Get("symbol")
		if symbol == "" {
			symbol = "DEMO"
		}

		mu.Lock()
		q := step(symbol)
		series := make(map[string]any, 10)
		price := q.price
		for i := 0; i < 10; i++ {
			day := time.Now().AddDate(0, 0, -i).Format("2006-01-02")
			series[day] = map[string]string{
				"1. open":  fmt.Sprintf("%.2f", price*0.99),
				"2. high":  fmt.Sprintf("%.2f", price*1.01),
				"3. low":   fmt.Sprintf("%.2f", price*0.98),
				"4. close": fmt.Sprintf("%.2f", price),
			}
			price *= 1 + (rand.Float64()-0.5)*0.03
		}
		resp := map[string]any{
			"Meta Data": map[string]string{
				"1. Information": "Daily Prices",
				"2. Symbol":      symbol,
			},
			"Time Series (Daily)": series,
		}
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			slog.Error("failed to write response", "error", err)
		}
	})

	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("mock server error", "error", err)
	}
}
