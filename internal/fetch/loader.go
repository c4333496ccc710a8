// Package fetch wraps the backend client with the dashboard's retry policy:
// a bounded retry loop with a fixed delay between attempts, per-endpoint
// retry counters, a mock-mode short circuit and an optional fixture fallback
// once the retry budget is exhausted.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"floodwatch/internal/cfg"
	"floodwatch/internal/metrics"
	"floodwatch/internal/mockdata"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Fetcher is the transport the loader retries over.
type Fetcher interface {
	FetchJSON(ctx context.Context, endpoint cfg.Endpoint, out any) error
}

// Loader resolves endpoint data according to the configured retry and mock
// policy. Mock mode always wins: when enabled, the network is never touched.
type Loader struct {
	settings cfg.Settings
	client   Fetcher
	clock    clockwork.Clock
	metrics  *metrics.Metrics

	mu      sync.Mutex
	retries map[cfg.Endpoint]int
}

func New(s cfg.Settings, client Fetcher, m *metrics.Metrics, clock clockwork.Clock) *Loader {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Loader{
		settings: s,
		client:   client,
		clock:    clock,
		metrics:  m,
		retries:  make(map[cfg.Endpoint]int),
	}
}

// Get resolves the endpoint's data into out. In mock mode it returns the
// fixture after a simulated delay. Otherwise it fetches, retrying up to the
// configured attempt ceiling with a fixed delay between attempts; on
// exhaustion it substitutes the fixture if fallback is enabled, else returns
// the last error.
func (l *Loader) Get(ctx context.Context, endpoint cfg.Endpoint, out any) error {
	if l.settings.UseMockData {
		if err := l.wait(ctx, l.settings.MockDelay); err != nil {
			return err
		}
		fixture, ok := mockdata.ForEndpoint(endpoint)
		if !ok {
			return fmt.Errorf("no mock fixture for endpoint %s", endpoint)
		}
		return assign(fixture, out)
	}

	for {
		start := l.clock.Now()
		err := l.client.FetchJSON(ctx, endpoint, out)
		if l.metrics != nil {
			l.metrics.FetchDuration.Observe(l.clock.Since(start).Seconds())
		}

		if err == nil {
			l.resetRetries(endpoint)
			if l.metrics != nil {
				l.metrics.FetchesTotal.WithLabelValues(string(endpoint)).Inc()
			}
			return nil
		}

		attempts := l.bumpRetries(endpoint)
		log.Warn().
			Err(err).
			Str("endpoint", string(endpoint)).
			Int("attempt", attempts).
			Int("max", l.settings.MaxAttempts).
			Msg("fetch failed")

		if attempts < l.settings.MaxAttempts {
			if l.metrics != nil {
				l.metrics.FetchRetries.Inc()
			}
			if werr := l.wait(ctx, l.settings.RetryDelay); werr != nil {
				return werr
			}
			continue
		}

		// Retry budget spent; the next call starts fresh.
		l.resetRetries(endpoint)
		if l.metrics != nil {
			l.metrics.FetchFailures.WithLabelValues(string(endpoint)).Inc()
		}

		if l.settings.FallbackToMock {
			if fixture, ok := mockdata.ForEndpoint(endpoint); ok {
				log.Info().
					Str("endpoint", string(endpoint)).
					Msg("substituting mock data after retry exhaustion")
				if l.metrics != nil {
					l.metrics.MockFallbacks.Inc()
				}
				return assign(fixture, out)
			}
		}
		return err
	}
}

// RetryCount reports the endpoint's current consecutive-failure count.
func (l *Loader) RetryCount(endpoint cfg.Endpoint) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.retries[endpoint]
}

func (l *Loader) bumpRetries(endpoint cfg.Endpoint) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.retries[endpoint]++
	return l.retries[endpoint]
}

func (l *Loader) resetRetries(endpoint cfg.Endpoint) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.retries[endpoint] = 0
}

func (l *Loader) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.clock.After(d):
		return nil
	}
}

// assign copies a fixture value into the caller's typed destination.
func assign(fixture, out any) error {
	data, err := json.Marshal(fixture)
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal fixture: %w", err)
	}
	return nil
}
