package floodapi

import (
	"context"
	"encoding/json"
	"time"

	"floodwatch/internal/cfg"

	"github.com/go-resty/resty/v2"
)

// Client fetches JSON payloads from the flood-prediction backend.
type Client struct {
	settings cfg.Settings
	timeout  time.Duration
	rest     *resty.Client
}

func New(s cfg.Settings) *Client {
	r := resty.New()
	timeout := s.FetchTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second // default fallback
	}
	r.SetTimeout(timeout)
	r.SetHeader("Accept", "application/json")
	return &Client{settings: s, timeout: timeout, rest: r}
}

// FetchJSON performs a GET against the named endpoint and decodes the body
// into out. Failures are classified as NetworkError, TimeoutError,
// HTTPStatusError or ParseError.
func (c *Client) FetchJSON(ctx context.Context, endpoint cfg.Endpoint, out any) error {
	resp, err := c.rest.R().
		SetContext(ctx).
		Get(c.settings.EndpointURL(endpoint))
	if err != nil {
		if isTimeout(err) {
			return &TimeoutError{Endpoint: endpoint, Timeout: c.timeout}
		}
		return &NetworkError{Endpoint: endpoint, Err: err}
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return &HTTPStatusError{Endpoint: endpoint, StatusCode: resp.StatusCode()}
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &ParseError{Endpoint: endpoint, Err: err}
	}
	return nil
}

// CurrentFloodRisk fetches the current flood-risk assessment.
func (c *Client) CurrentFloodRisk(ctx context.Context) (FloodRisk, error) {
	var risk FloodRisk
	err := c.FetchJSON(ctx, cfg.EndpointFloodRisk, &risk)
	return risk, err
}

// RiverLevel fetches the latest gauge reading.
func (c *Client) RiverLevel(ctx context.Context) (RiverLevel, error) {
	var level RiverLevel
	err := c.FetchJSON(ctx, cfg.EndpointRiverLevel, &level)
	return level, err
}

// RainForecast fetches the multi-day rainfall forecast.
func (c *Client) RainForecast(ctx context.Context) ([]RainForecastPoint, error) {
	var points []RainForecastPoint
	err := c.FetchJSON(ctx, cfg.EndpointForecastRain, &points)
	return points, err
}

// RiverForecast fetches the multi-day predicted river levels.
func (c *Client) RiverForecast(ctx context.Context) ([]RiverForecastPoint, error) {
	var points []RiverForecastPoint
	err := c.FetchJSON(ctx, cfg.EndpointForecastRiver, &points)
	return points, err
}

// RiverHistory fetches the trailing 30 days of observed river levels.
func (c *Client) RiverHistory(ctx context.Context) ([]RiverHistoryPoint, error) {
	var points []RiverHistoryPoint
	err := c.FetchJSON(ctx, cfg.EndpointHistoryRiver, &points)
	return points, err
}

// RainfallComparison fetches the monthly rainfall comparison series.
func (c *Client) RainfallComparison(ctx context.Context) ([]RainfallComparisonPoint, error) {
	var points []RainfallComparisonPoint
	err := c.FetchJSON(ctx, cfg.EndpointRainfallComparison, &points)
	return points, err
}
