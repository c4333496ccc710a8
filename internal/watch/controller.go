// Package watch owns the dashboard's refresh lifecycle: the concurrent
// initial load of every data region, the per-group recurring refresh timers
// and the shared snapshot the dashboard serves from.
package watch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"floodwatch/internal/cfg"
	"floodwatch/internal/fetch"
	"floodwatch/internal/floodapi"
	"floodwatch/internal/metrics"
	"floodwatch/internal/store"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Controller orchestrates data refreshes. It owns the snapshot, one recurring
// timer per refresh group and the retry-wrapped loader. After Stop it is
// inert and must not be reused.
type Controller struct {
	settings cfg.Settings
	loader   *fetch.Loader
	store    *store.Store
	metrics  *metrics.Metrics
	clock    clockwork.Clock

	mu   sync.RWMutex
	snap Snapshot

	stateMu   sync.Mutex
	started   bool
	stopped   bool
	cancel    context.CancelFunc
	startedAt time.Time

	wg sync.WaitGroup
}

func NewController(s cfg.Settings, loader *fetch.Loader, st *store.Store, m *metrics.Metrics, clock clockwork.Clock) *Controller {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Controller{
		settings: s,
		loader:   loader,
		store:    st,
		metrics:  m,
		clock:    clock,
		snap:     Snapshot{MockMode: s.UseMockData, RiskStyle: cfg.StyleForRisk("")},
	}
}

// Start performs the initial load of all regions concurrently, waits for all
// of them to settle, then establishes the recurring refresh timers if
// auto-refresh is enabled. It returns once initialization is complete.
func (c *Controller) Start(ctx context.Context) error {
	c.stateMu.Lock()
	if c.stopped {
		c.stateMu.Unlock()
		return fmt.Errorf("controller already stopped")
	}
	if c.started {
		c.stateMu.Unlock()
		return fmt.Errorf("controller already started")
	}
	c.started = true
	c.startedAt = c.clock.Now()

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.stateMu.Unlock()

	if err := runCtx.Err(); err != nil {
		c.update(func(s *Snapshot) { s.InitErr = "initialization aborted: " + err.Error() })
		return err
	}

	c.loadAll(runCtx)
	c.update(func(s *Snapshot) { s.Ready = true })
	log.Info().Msg("initial load complete")

	if c.settings.AutoRefresh {
		c.startTicker(runCtx, "risk", c.settings.RiskInterval, c.refreshRisk)
		c.startTicker(runCtx, "river", c.settings.RiverInterval, c.refreshRiver)
		c.startTicker(runCtx, "forecast", c.settings.ForecastInterval, c.refreshForecasts)
		c.startTicker(runCtx, "history", c.settings.HistoryInterval, c.refreshHistoryGroup)
		c.startTicker(runCtx, "status", c.settings.StatusInterval, c.refreshStatus)
	}
	return nil
}

// Stop cancels all refresh timers and waits for in-flight refreshes to
// finish. The controller cannot be restarted afterwards.
func (c *Controller) Stop() {
	c.stateMu.Lock()
	if c.stopped {
		c.stateMu.Unlock()
		return
	}
	c.stopped = true
	cancel := c.cancel
	c.stateMu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
	log.Info().Msg("controller stopped")
}

// Reload re-runs the full initial load. It backs the dashboard's retry
// action after an initialization failure.
func (c *Controller) Reload(ctx context.Context) {
	c.stateMu.Lock()
	if c.stopped {
		c.stateMu.Unlock()
		return
	}
	c.stateMu.Unlock()

	c.update(func(s *Snapshot) { s.InitErr = "" })
	c.loadAll(ctx)
	c.update(func(s *Snapshot) { s.Ready = true })
}

// Snapshot returns a copy of the current dashboard state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// loadAll runs every region's refresh concurrently and waits for all of them
// to settle. One region's terminal failure never blocks the others.
func (c *Controller) loadAll(ctx context.Context) {
	tasks := []func(context.Context){
		c.refreshRisk,
		c.refreshRiver,
		c.refreshRainForecast,
		c.refreshRiverForecast,
		c.refreshHistory,
		c.refreshComparison,
		c.refreshMap,
	}

	var wg sync.WaitGroup
	for _, task := range tasks {
		wg.Add(1)
		go func(fn func(context.Context)) {
			defer wg.Done()
			fn(ctx)
		}(task)
	}
	wg.Wait()

	c.refreshStatus(ctx)
}

func (c *Controller) startTicker(ctx context.Context, group string, interval time.Duration, fn func(context.Context)) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := c.clock.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.Chan():
				if c.metrics != nil {
					c.metrics.RefreshTicks.WithLabelValues(group).Inc()
				}
				fn(ctx)
			}
		}
	}()
}

// refreshForecasts covers both forecast data sets per tick.
func (c *Controller) refreshForecasts(ctx context.Context) {
	c.refreshRainForecast(ctx)
	c.refreshRiverForecast(ctx)
}

// refreshHistoryGroup covers both slow-moving data sets per tick.
func (c *Controller) refreshHistoryGroup(ctx context.Context) {
	c.refreshHistory(ctx)
	c.refreshComparison(ctx)
}

func (c *Controller) refreshRisk(ctx context.Context) {
	var risk floodapi.FloodRisk
	if err := c.loader.Get(ctx, cfg.EndpointFloodRisk, &risk); err != nil {
		c.fail("flood risk", err, func(s *Snapshot, msg string) { s.RiskErr = msg })
		return
	}

	style := cfg.StyleForRisk(risk.Level)
	c.update(func(s *Snapshot) {
		s.Risk = &risk
		s.RiskStyle = style
		s.RiskErr = ""
		s.LastUpdate = c.clock.Now()
	})
	if c.metrics != nil {
		c.metrics.SetRiskLevel(style.Level)
	}

	if c.store != nil {
		rec := store.RiskRecord{
			Timestamp:  c.clock.Now(),
			Status:     risk.Status,
			Level:      style.Level,
			Confidence: risk.Confidence,
		}
		if err := c.store.StoreRisk(rec); err != nil {
			log.Warn().Err(err).Msg("failed to store risk record")
		}
	}
}

func (c *Controller) refreshRiver(ctx context.Context) {
	var level floodapi.RiverLevel
	if err := c.loader.Get(ctx, cfg.EndpointRiverLevel, &level); err != nil {
		c.fail("river level", err, func(s *Snapshot, msg string) { s.RiverErr = msg })
		return
	}

	c.update(func(s *Snapshot) {
		s.River = &level
		s.RiverErr = ""
		s.LastUpdate = c.clock.Now()
	})
	if c.metrics != nil {
		c.metrics.RiverLevelMeters.Set(level.CurrentLevel)
	}

	if c.store != nil {
		rec := store.RiverLevelRecord{
			Timestamp: c.clock.Now(),
			Level:     level.CurrentLevel,
			Unit:      level.Unit,
		}
		if err := c.store.StoreRiverLevel(rec); err != nil {
			log.Warn().Err(err).Msg("failed to store river level record")
		}
	}
}

func (c *Controller) refreshRainForecast(ctx context.Context) {
	var points []floodapi.RainForecastPoint
	if err := c.loader.Get(ctx, cfg.EndpointForecastRain, &points); err != nil {
		c.fail("rain forecast", err, func(s *Snapshot, msg string) { s.RainForecastErr = msg })
		return
	}
	c.update(func(s *Snapshot) {
		s.RainForecast = points
		s.RainForecastErr = ""
		s.LastUpdate = c.clock.Now()
	})
}

func (c *Controller) refreshRiverForecast(ctx context.Context) {
	var points []floodapi.RiverForecastPoint
	if err := c.loader.Get(ctx, cfg.EndpointForecastRiver, &points); err != nil {
		c.fail("river forecast", err, func(s *Snapshot, msg string) { s.RiverForecastErr = msg })
		return
	}
	c.update(func(s *Snapshot) {
		s.RiverForecast = points
		s.RiverForecastErr = ""
		s.LastUpdate = c.clock.Now()
	})
}

func (c *Controller) refreshHistory(ctx context.Context) {
	var points []floodapi.RiverHistoryPoint
	if err := c.loader.Get(ctx, cfg.EndpointHistoryRiver, &points); err != nil {
		// Degrade to locally persisted gauge readings when available.
		if local := c.localHistory(); len(local) > 0 {
			c.fail("river history", err, func(s *Snapshot, msg string) {
				s.History = local
				s.HistoryLocal = true
				s.HistoryErr = msg
			})
			return
		}
		c.fail("river history", err, func(s *Snapshot, msg string) { s.HistoryErr = msg })
		return
	}
	c.update(func(s *Snapshot) {
		s.History = points
		s.HistoryLocal = false
		s.HistoryErr = ""
		s.LastUpdate = c.clock.Now()
	})
}

func (c *Controller) refreshComparison(ctx context.Context) {
	var points []floodapi.RainfallComparisonPoint
	if err := c.loader.Get(ctx, cfg.EndpointRainfallComparison, &points); err != nil {
		c.fail("rainfall comparison", err, func(s *Snapshot, msg string) { s.ComparisonErr = msg })
		return
	}
	c.update(func(s *Snapshot) {
		s.Comparison = points
		s.ComparisonErr = ""
		s.LastUpdate = c.clock.Now()
	})
}

// refreshMap rebuilds the embeddable map URL so the frame never caches a
// stale overlay. Local only, no network.
func (c *Controller) refreshMap(_ context.Context) {
	url := c.settings.MapURL(c.clock.Now())
	c.update(func(s *Snapshot) { s.MapURL = url })
}

// refreshStatus updates the local-only status fields. No network.
func (c *Controller) refreshStatus(_ context.Context) {
	uptime := c.clock.Since(c.startedAt).Round(time.Second).String()

	var levels, risks int
	if c.store != nil {
		var err error
		levels, risks, err = c.store.Counts()
		if err != nil {
			log.Warn().Err(err).Msg("failed to read store counts")
		}
	}

	c.update(func(s *Snapshot) {
		s.Uptime = uptime
		s.StoredLevels = levels
		s.StoredRisks = risks
	})
}

func (c *Controller) localHistory() []floodapi.RiverHistoryPoint {
	if c.store == nil {
		return nil
	}
	recs, err := c.store.RecentRiverLevels(30)
	if err != nil || len(recs) == 0 {
		return nil
	}
	points := make([]floodapi.RiverHistoryPoint, 0, len(recs))
	for _, rec := range recs {
		points = append(points, floodapi.RiverHistoryPoint{
			Day:       rec.Timestamp.Format("2006-01-02"),
			Date:      rec.Timestamp.Format("2006-01-02"),
			Level:     rec.Level,
			Timestamp: rec.Timestamp.Unix(),
		})
	}
	return points
}

// fail records a region failure. Raw error detail only reaches the snapshot
// when the debug flag is set; otherwise the region shows a generic message.
func (c *Controller) fail(region string, err error, set func(*Snapshot, string)) {
	log.Error().Err(err).Str("region", region).Msg("refresh failed")
	if c.metrics != nil {
		c.metrics.ErrorsTotal.Inc()
	}

	msg := "Unable to load " + region + " data"
	if c.settings.Debug {
		msg = err.Error()
	}
	c.update(func(s *Snapshot) { set(s, msg) })
}

func (c *Controller) update(fn func(*Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.snap)
}
