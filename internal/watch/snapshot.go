package watch

import (
	"time"

	"floodwatch/internal/cfg"
	"floodwatch/internal/floodapi"
)

// Snapshot is the dashboard's current view of the world. Each region carries
// its own data and its own error; a failed region never blanks the others.
// Slices are replaced wholesale on refresh, never mutated in place.
type Snapshot struct {
	Risk      *floodapi.FloodRisk `json:"risk,omitempty"`
	RiskStyle cfg.RiskStyle       `json:"riskStyle"`
	RiskErr   string              `json:"riskError,omitempty"`

	River    *floodapi.RiverLevel `json:"river,omitempty"`
	RiverErr string               `json:"riverError,omitempty"`

	RainForecast    []floodapi.RainForecastPoint `json:"rainForecast,omitempty"`
	RainForecastErr string                       `json:"rainForecastError,omitempty"`

	RiverForecast    []floodapi.RiverForecastPoint `json:"riverForecast,omitempty"`
	RiverForecastErr string                        `json:"riverForecastError,omitempty"`

	History      []floodapi.RiverHistoryPoint `json:"history,omitempty"`
	HistoryErr   string                       `json:"historyError,omitempty"`
	HistoryLocal bool                         `json:"historyLocal,omitempty"`

	Comparison    []floodapi.RainfallComparisonPoint `json:"comparison,omitempty"`
	ComparisonErr string                             `json:"comparisonError,omitempty"`

	MapURL string `json:"mapUrl,omitempty"`

	MockMode     bool      `json:"mockMode"`
	Ready        bool      `json:"ready"`
	InitErr      string    `json:"initError,omitempty"`
	LastUpdate   time.Time `json:"lastUpdate"`
	Uptime       string    `json:"uptime,omitempty"`
	StoredLevels int       `json:"storedLevels,omitempty"`
	StoredRisks  int       `json:"storedRisks,omitempty"`
}
