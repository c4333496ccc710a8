// Package mockdata provides static fixtures mirroring the flood-prediction
// backend's payload shapes, plus a synthetic river-history generator.
// Fixtures serve two roles: they replace the network entirely when mock mode
// is enabled, and they act as a last-resort fallback when a live fetch
// exhausts its retry budget.
package mockdata

import (
	"floodwatch/internal/cfg"
	"floodwatch/internal/floodapi"
)

// FloodRisk returns the mock flood-risk assessment.
func FloodRisk() floodapi.FloodRisk {
	return floodapi.FloodRisk{
		Status:     "Moderate",
		Level:      "medium",
		Confidence: 85,
		LastUpdate: "2025-07-14 09:00",
	}
}

// RiverLevel returns the mock gauge reading.
func RiverLevel() floodapi.RiverLevel {
	return floodapi.RiverLevel{
		RiverName:    "Ravi River",
		StationName:  "Madhopur Station",
		CurrentLevel: 4.82,
		Unit:         "m",
		NormalLevel:  3.5,
		DangerLevel:  6.0,
	}
}

// RainForecast returns a five-day mock rainfall forecast.
func RainForecast() []floodapi.RainForecastPoint {
	return []floodapi.RainForecastPoint{
		{Day: "Mon", Date: "2025-07-14", Rainfall: 5.2, Probability: 70},
		{Day: "Tue", Date: "2025-07-15", Rainfall: 12.8, Probability: 85},
		{Day: "Wed", Date: "2025-07-16", Rainfall: 22.4, Probability: 90},
		{Day: "Thu", Date: "2025-07-17", Rainfall: 8.1, Probability: 60},
		{Day: "Fri", Date: "2025-07-18", Rainfall: 2.3, Probability: 30},
	}
}

// RiverForecast returns a five-day mock river-level forecast.
func RiverForecast() []floodapi.RiverForecastPoint {
	return []floodapi.RiverForecastPoint{
		{Day: "Mon", Date: "2025-07-14", Level: 4.91},
		{Day: "Tue", Date: "2025-07-15", Level: 5.12},
		{Day: "Wed", Date: "2025-07-16", Level: 5.48},
		{Day: "Thu", Date: "2025-07-17", Level: 5.31},
		{Day: "Fri", Date: "2025-07-18", Level: 5.02},
	}
}

// RiverHistory returns a synthetic trailing-30-day river-level series.
// The series is regenerated per call; only its shape is stable.
func RiverHistory() []floodapi.RiverHistoryPoint {
	return GenerateRiverHistory(HistoryDays, LevelFloor)
}

// RainfallComparison returns twelve months of mock aggregated rainfall.
func RainfallComparison() []floodapi.RainfallComparisonPoint {
	return []floodapi.RainfallComparisonPoint{
		{Month: "2024-08", Rainfall: 212.4, Days: 14},
		{Month: "2024-09", Rainfall: 148.9, Days: 11},
		{Month: "2024-10", Rainfall: 44.2, Days: 5},
		{Month: "2024-11", Rainfall: 18.7, Days: 3},
		{Month: "2024-12", Rainfall: 25.3, Days: 4},
		{Month: "2025-01", Rainfall: 38.6, Days: 6},
		{Month: "2025-02", Rainfall: 41.2, Days: 5},
		{Month: "2025-03", Rainfall: 62.8, Days: 7},
		{Month: "2025-04", Rainfall: 55.1, Days: 6},
		{Month: "2025-05", Rainfall: 78.4, Days: 8},
		{Month: "2025-06", Rainfall: 164.3, Days: 12},
		{Month: "2025-07", Rainfall: 198.6, Days: 13},
	}
}

// ForEndpoint returns the fixture for an endpoint, or false when no fixture
// exists (the map endpoint has no JSON payload to mock).
func ForEndpoint(e cfg.Endpoint) (any, bool) {
	switch e {
	case cfg.EndpointFloodRisk:
		return FloodRisk(), true
	case cfg.EndpointRiverLevel:
		return RiverLevel(), true
	case cfg.EndpointForecastRain:
		return RainForecast(), true
	case cfg.EndpointForecastRiver:
		return RiverForecast(), true
	case cfg.EndpointHistoryRiver:
		return RiverHistory(), true
	case cfg.EndpointRainfallComparison:
		return RainfallComparison(), true
	default:
		return nil, false
	}
}
