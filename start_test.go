package finboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStorage is an in-memory Storage for tests, optionally pre-seeded with a
// snapshot.
type memStorage struct {
	mu   sync.Mutex
	data []byte
}

func (m *memStorage) Load() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, nil
	}
	return append([]byte(nil), m.data...), nil
}

func (m *memStorage) Save(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	return nil
}

// seededStorage returns storage holding one widget polling the given
// endpoint every second.
func seededStorage(endpoint string) *memStorage {
	snapshot := fmt.Sprintf(`{
		"widgets": [
			{"id": "w1", "title": "Quote", "type": "card", "apiEndpoint": %q, "refreshInterval": 1}
		],
		"theme": "dark"
	}`, endpoint)
	return &memStorage{data: []byte(snapshot)}
}

func TestStart_BlocksUntilContextCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"price":1}`))
	}))
	defer ts.Close()

	fb, err := New(
		WithStorage(seededStorage(ts.URL)),
		WithPort(19101),
		WithLogger(testLogger()),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- fb.Start(ctx)
	}()

	time.Sleep(100 * time.Millisecond)

	// verify Start is still blocking
	select {
	case err := <-done:
		t.Fatalf("Start() returned early with error: %v", err)
	default:
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return after context cancellation")
	}
}

func TestStart_ReturnsImmediatelyIfContextAlreadyCancelled(t *testing.T) {
	fb, err := New(
		WithStorage(&memStorage{}),
		WithPort(19102),
		WithLogger(testLogger()),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() {
		done <- fb.Start(ctx)
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start() did not return with already-cancelled context")
	}
}

func TestStart_CorruptSnapshotFails(t *testing.T) {
	fb, err := New(
		WithStorage(&memStorage{data: []byte(`{broken`)}),
		WithPort(19103),
		WithLogger(testLogger()),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := fb.Start(ctx); err == nil {
		t.Fatal("Start() should fail on a corrupt snapshot")
	}
}

func TestStart_PollsSeededWidgetAndServesData(t *testing.T) {
	var hits atomic.Int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"symbol":"IBM","price":184.2}`))
	}))
	defer ts.Close()

	port := 19104
	fb, err := New(
		WithStorage(seededStorage(ts.URL)),
		WithPort(port),
		WithLogger(testLogger()),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- fb.Start(ctx)
	}()

	// wait for the immediate fetch to land in the live store
	base := fmt.Sprintf("http://localhost:%d", port)
	deadline := time.Now().Add(5 * time.Second)
	var body string
	for time.Now().Before(deadline) {
		resp, err := http.Get(base + "/api/data/w1")
		if err == nil {
			data, _ := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK && strings.Contains(string(data), "184.2") {
				body = string(data)
				break
			}
		}
		time.Sleep(50 * time.Millisecond)
	}
	if body == "" {
		t.Fatal("live data for seeded widget never became available")
	}
	if hits.Load() == 0 {
		t.Error("endpoint was never polled")
	}

	var cell struct {
		WidgetID string          `json:"widgetId"`
		Data     json.RawMessage `json:"data"`
		Error    *string         `json:"error"`
	}
	if err := json.Unmarshal([]byte(body), &cell); err != nil {
		t.Fatalf("decoding live cell: %v", err)
	}
	if cell.WidgetID != "w1" || cell.Error != nil {
		t.Errorf("cell = %+v, want w1 without error", cell)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not shut down")
	}
}

func TestStart_UpdateCallbacksFireAndRecoverPanics(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"price":1}`))
	}))
	defer ts.Close()

	var calls atomic.Int64
	fb, err := New(
		WithStorage(seededStorage(ts.URL)),
		WithPort(19105),
		WithLogger(testLogger()),
		WithUpdateCallback(func(Update) { panic("broken callback") }),
		WithUpdateCallback(func(u Update) {
			if u.WidgetID == "w1" && u.Err == nil {
				calls.Add(1)
			}
		}),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- fb.Start(ctx)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	if calls.Load() == 0 {
		t.Error("second callback never fired; panicking callback must not block the pipeline")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not shut down")
	}
}

func TestStart_NewWidgetGetsPolled(t *testing.T) {
	var hits atomic.Int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"v":1}`))
	}))
	defer ts.Close()

	port := 19106
	fb, err := New(
		WithStorage(&memStorage{}),
		WithPort(port),
		WithLogger(testLogger()),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- fb.Start(ctx)
	}()

	base := fmt.Sprintf("http://localhost:%d", port)

	// wait for the server to come up
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if resp, err := http.Get(base + "/api/widgets"); err == nil {
			_ = resp.Body.Close()
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	// create a widget through the API; the scheduler must pick it up
	payload := fmt.Sprintf(`{"id":"live","apiEndpoint":%q,"refreshInterval":1}`, ts.URL)
	resp, err := http.Post(base+"/api/widgets", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("POST /api/widgets error: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /api/widgets = %d, want 201", resp.StatusCode)
	}

	deadline = time.Now().Add(5 * time.Second)
	for hits.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	if hits.Load() == 0 {
		t.Error("widget created via API was never polled")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not shut down")
	}
}
