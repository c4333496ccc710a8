package floodapi

// FloodRisk is the current flood-risk assessment.
type FloodRisk struct {
	Status     string  `json:"status"`
	Level      string  `json:"level"`
	Confidence float64 `json:"confidence,omitempty"`
	LastUpdate string  `json:"lastUpdate,omitempty"`
}

// RiverLevel is the latest gauge reading for the monitored station.
type RiverLevel struct {
	RiverName    string  `json:"riverName"`
	StationName  string  `json:"stationName"`
	CurrentLevel float64 `json:"currentLevel"`
	Unit         string  `json:"unit"`
	NormalLevel  float64 `json:"normalLevel,omitempty"`
	DangerLevel  float64 `json:"dangerLevel,omitempty"`
}

// RainForecastPoint is one day of the rainfall forecast.
type RainForecastPoint struct {
	Day         string  `json:"day"`
	Date        string  `json:"date,omitempty"`
	Rainfall    float64 `json:"rainfall"`
	Probability float64 `json:"probability,omitempty"`
}

// RiverForecastPoint is one day of the predicted river level.
type RiverForecastPoint struct {
	Day   string  `json:"day"`
	Date  string  `json:"date,omitempty"`
	Level float64 `json:"level"`
}

// RiverHistoryPoint is one day of observed river level.
type RiverHistoryPoint struct {
	Day       string  `json:"day"`
	Date      string  `json:"date,omitempty"`
	Level     float64 `json:"level"`
	Timestamp int64   `json:"timestamp,omitempty"`
}

// RainfallComparisonPoint is one month of aggregated rainfall.
type RainfallComparisonPoint struct {
	Month    string  `json:"month"`
	Rainfall float64 `json:"rainfall"`
	Days     int     `json:"days,omitempty"`
}
