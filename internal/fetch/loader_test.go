package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"floodwatch/internal/cfg"
	"floodwatch/internal/floodapi"
	"floodwatch/internal/metrics"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// stubFetcher scripts per-endpoint responses and records call counts.
type stubFetcher struct {
	mu       sync.Mutex
	calls    map[cfg.Endpoint]int
	failures map[cfg.Endpoint]int // fail this many calls before succeeding
	payload  map[cfg.Endpoint]any
	err      error
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{
		calls:    make(map[cfg.Endpoint]int),
		failures: make(map[cfg.Endpoint]int),
		payload:  make(map[cfg.Endpoint]any),
		err:      errors.New("backend unavailable"),
	}
}

func (f *stubFetcher) FetchJSON(_ context.Context, endpoint cfg.Endpoint, out any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[endpoint]++
	if f.failures[endpoint] >= f.calls[endpoint] {
		return f.err
	}

	payload, ok := f.payload[endpoint]
	if !ok {
		return f.err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (f *stubFetcher) callCount(endpoint cfg.Endpoint) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[endpoint]
}

func loaderSettings() cfg.Settings {
	return cfg.Settings{
		BaseURL:       "http://localhost:5000",
		EndpointPaths: cfg.DefaultEndpointPaths(),
		MaxAttempts:   3,
		RetryDelay:    0, // no waiting between attempts in tests
		MockDelay:     0,
	}
}

func TestGetSuccessFirstAttempt(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.payload[cfg.EndpointFloodRisk] = floodapi.FloodRisk{Status: "Normal", Level: "low"}

	l := New(loaderSettings(), fetcher, nil, clockwork.NewFakeClock())

	var risk floodapi.FloodRisk
	if err := l.Get(context.Background(), cfg.EndpointFloodRisk, &risk); err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if risk.Level != "low" {
		t.Errorf("Level = %q, want low", risk.Level)
	}
	if got := fetcher.callCount(cfg.EndpointFloodRisk); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
	if got := l.RetryCount(cfg.EndpointFloodRisk); got != 0 {
		t.Errorf("RetryCount = %d, want 0", got)
	}
}

func TestGetMockModeSkipsNetwork(t *testing.T) {
	fetcher := newStubFetcher()
	s := loaderSettings()
	s.UseMockData = true

	l := New(s, fetcher, nil, clockwork.NewFakeClock())

	var level floodapi.RiverLevel
	if err := l.Get(context.Background(), cfg.EndpointRiverLevel, &level); err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if level.RiverName != "Ravi River" || level.StationName != "Madhopur Station" {
		t.Errorf("expected fixture data, got %+v", level)
	}
	if got := fetcher.callCount(cfg.EndpointRiverLevel); got != 0 {
		t.Errorf("mock mode touched the network: %d calls", got)
	}
}

func TestGetMockModeUnknownEndpoint(t *testing.T) {
	s := loaderSettings()
	s.UseMockData = true

	l := New(s, newStubFetcher(), nil, clockwork.NewFakeClock())

	var out any
	if err := l.Get(context.Background(), cfg.EndpointMap, &out); err == nil {
		t.Error("expected error for endpoint without a fixture")
	}
}

func TestGetRetriesThenSucceeds(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.failures[cfg.EndpointFloodRisk] = 2
	fetcher.payload[cfg.EndpointFloodRisk] = floodapi.FloodRisk{Status: "Normal", Level: "low"}

	l := New(loaderSettings(), fetcher, nil, clockwork.NewFakeClock())

	var risk floodapi.FloodRisk
	if err := l.Get(context.Background(), cfg.EndpointFloodRisk, &risk); err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got := fetcher.callCount(cfg.EndpointFloodRisk); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
	if got := l.RetryCount(cfg.EndpointFloodRisk); got != 0 {
		t.Errorf("RetryCount after success = %d, want 0", got)
	}
}

func TestGetExhaustionFallsBackToMock(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.failures[cfg.EndpointRiverLevel] = 100

	s := loaderSettings()
	s.FallbackToMock = true

	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)
	l := New(s, fetcher, m, clockwork.NewFakeClock())

	var level floodapi.RiverLevel
	if err := l.Get(context.Background(), cfg.EndpointRiverLevel, &level); err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if level.RiverName != "Ravi River" {
		t.Errorf("expected fixture fallback, got %+v", level)
	}
	if got := fetcher.callCount(cfg.EndpointRiverLevel); got != s.MaxAttempts {
		t.Errorf("calls = %d, want exactly %d", got, s.MaxAttempts)
	}
	if got := testutil.ToFloat64(m.MockFallbacks); got != 1 {
		t.Errorf("MockFallbacks = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.FetchRetries); got != float64(s.MaxAttempts-1) {
		t.Errorf("FetchRetries = %v, want %d", got, s.MaxAttempts-1)
	}
}

func TestGetExhaustionWithoutFallback(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.failures[cfg.EndpointFloodRisk] = 100

	s := loaderSettings()
	s.FallbackToMock = false

	l := New(s, fetcher, nil, clockwork.NewFakeClock())

	var risk floodapi.FloodRisk
	err := l.Get(context.Background(), cfg.EndpointFloodRisk, &risk)
	if err == nil {
		t.Fatal("expected error after retry exhaustion")
	}
	if got := fetcher.callCount(cfg.EndpointFloodRisk); got != s.MaxAttempts {
		t.Errorf("calls = %d, want exactly %d", got, s.MaxAttempts)
	}
	// Exhaustion resets the counter so the next call starts fresh.
	if got := l.RetryCount(cfg.EndpointFloodRisk); got != 0 {
		t.Errorf("RetryCount after exhaustion = %d, want 0", got)
	}
}

func TestGetRetryCountsPerEndpoint(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.failures[cfg.EndpointFloodRisk] = 100
	fetcher.payload[cfg.EndpointRiverLevel] = floodapi.RiverLevel{RiverName: "Ravi River"}

	s := loaderSettings()
	s.FallbackToMock = false
	s.MaxAttempts = 2

	l := New(s, fetcher, nil, clockwork.NewFakeClock())

	var risk floodapi.FloodRisk
	if err := l.Get(context.Background(), cfg.EndpointFloodRisk, &risk); err == nil {
		t.Fatal("expected risk fetch to fail")
	}

	// The failing endpoint must not poison the healthy one.
	var level floodapi.RiverLevel
	if err := l.Get(context.Background(), cfg.EndpointRiverLevel, &level); err != nil {
		t.Fatalf("river fetch error: %v", err)
	}
	if got := fetcher.callCount(cfg.EndpointRiverLevel); got != 1 {
		t.Errorf("river calls = %d, want 1", got)
	}
}

func TestGetRetryDelayWaitsBetweenAttempts(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.failures[cfg.EndpointFloodRisk] = 1
	fetcher.payload[cfg.EndpointFloodRisk] = floodapi.FloodRisk{Level: "low"}

	s := loaderSettings()
	s.RetryDelay = 2 * time.Second

	fc := clockwork.NewFakeClock()
	l := New(s, fetcher, nil, fc)

	done := make(chan error, 1)
	go func() {
		var risk floodapi.FloodRisk
		done <- l.Get(context.Background(), cfg.EndpointFloodRisk, &risk)
	}()

	// The loader must be parked on the retry delay, not spinning.
	fc.BlockUntil(1)
	if got := fetcher.callCount(cfg.EndpointFloodRisk); got != 1 {
		t.Fatalf("calls before delay elapsed = %d, want 1", got)
	}

	fc.Advance(2 * time.Second)
	if err := <-done; err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got := fetcher.callCount(cfg.EndpointFloodRisk); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
}

func TestGetContextCanceledDuringRetryWait(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.failures[cfg.EndpointFloodRisk] = 100

	s := loaderSettings()
	s.RetryDelay = time.Hour

	fc := clockwork.NewFakeClock()
	l := New(s, fetcher, nil, fc)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		var risk floodapi.FloodRisk
		done <- l.Get(ctx, cfg.EndpointFloodRisk, &risk)
	}()

	fc.BlockUntil(1)
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
