// Standalone mock market data server for testing the CLI.
//
// Usage:
//
//	go run ./example/cmd/mockserver
//
// Then in another terminal:
//
//	go run ./cmd/finboard serve
//
// and add widgets pointing at http://localhost:9999/quote?symbol=IBM or
// http://localhost:9999/daily?symbol=IBM.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"time"
)

type mockQuote struct {
	price float64
	prev  float64
}

func main() {
	fmt.Println("Mock market data server starting on :9999")
	fmt.Println("Routes: /quote?symbol=X (random-walk quote), /daily?symbol=X (time series)")
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

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

	http.HandleFunc("/quote", func(w http.ResponseWriter, r *http.Request) {
		symbol := r.URL.Query().Get("symbol")
		if symbol == "" {
			symbol = "DEMO"
		}

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
		_ = json.NewEncoder(w).Encode(resp)
	})

	http.HandleFunc("/daily", func(w http.ResponseWriter, r *http.Request) {
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
		_ = json.NewEncoder(w).Encode(resp)
	})

	if err := http.ListenAndServe(":9999", nil); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
