package cfg

import (
	"fmt"
	"strings"
	"time"
)

// Endpoint identifies one of the backend API data sources.
type Endpoint string

const (
	EndpointFloodRisk          Endpoint = "currentFloodRisk"
	EndpointRiverLevel         Endpoint = "riverLevel"
	EndpointForecastRain       Endpoint = "forecastRain"
	EndpointForecastRiver      Endpoint = "forecastRiver"
	EndpointHistoryRiver       Endpoint = "historyRiver"
	EndpointRainfallComparison Endpoint = "rainfallComparison"
	EndpointMap                Endpoint = "map"
)

const (
	defaultBaseURL    = "http://localhost:5000"
	defaultListenAddr = ":8080"
)

// Endpoints returns all endpoint keys in load order.
func Endpoints() []Endpoint {
	return []Endpoint{
		EndpointFloodRisk,
		EndpointRiverLevel,
		EndpointForecastRain,
		EndpointForecastRiver,
		EndpointHistoryRiver,
		EndpointRainfallComparison,
		EndpointMap,
	}
}

// DefaultEndpointPaths returns the backend API paths keyed by endpoint.
func DefaultEndpointPaths() map[Endpoint]string {
	return map[Endpoint]string{
		EndpointFloodRisk:          "/api/current_flood_risk",
		EndpointRiverLevel:         "/api/river_level",
		EndpointForecastRain:       "/api/forecast_rain",
		EndpointForecastRiver:      "/api/forecast_river",
		EndpointHistoryRiver:       "/api/history_river",
		EndpointRainfallComparison: "/api/rainfall_comparison",
		EndpointMap:                "/api/map",
	}
}

// EndpointURL joins the base URL with the endpoint's path.
func (s Settings) EndpointURL(e Endpoint) string {
	path, ok := s.EndpointPaths[e]
	if !ok {
		path = DefaultEndpointPaths()[e]
	}
	return strings.TrimRight(s.BaseURL, "/") + path
}

// MapURL returns the embeddable map URL, cache-busted by a timestamp query
// parameter so an embedded frame never serves a stale overlay.
func (s Settings) MapURL(now time.Time) string {
	return fmt.Sprintf("%s?ts=%d", s.EndpointURL(EndpointMap), now.UnixMilli())
}
