package dashboard

import (
	"fmt"

	"floodwatch/internal/floodapi"
)

// ChartData is the view-model one chart slot renders from: an ordered label
// sequence, the matching primary series and optional per-point tooltip
// annotations.
type ChartData struct {
	Labels   []string  `json:"labels"`
	Series   []float64 `json:"series"`
	Tooltips []string  `json:"tooltips,omitempty"`
}

// BuildRainForecastChart derives labels from the day field and the primary
// series from rainfall. Points without a probability get no tooltip.
func BuildRainForecastChart(points []floodapi.RainForecastPoint) ChartData {
	data := ChartData{
		Labels:   make([]string, 0, len(points)),
		Series:   make([]float64, 0, len(points)),
		Tooltips: make([]string, 0, len(points)),
	}
	for _, p := range points {
		data.Labels = append(data.Labels, ordinal(p.Day, p.Date))
		data.Series = append(data.Series, p.Rainfall)
		tooltip := ""
		if p.Probability > 0 {
			tooltip = fmt.Sprintf("%.0f%% chance of rain", p.Probability)
		}
		data.Tooltips = append(data.Tooltips, tooltip)
	}
	return data
}

// BuildRiverForecastChart derives labels from the day field and the primary
// series from the predicted level.
func BuildRiverForecastChart(points []floodapi.RiverForecastPoint) ChartData {
	data := ChartData{
		Labels: make([]string, 0, len(points)),
		Series: make([]float64, 0, len(points)),
	}
	for _, p := range points {
		data.Labels = append(data.Labels, ordinal(p.Day, p.Date))
		data.Series = append(data.Series, p.Level)
	}
	return data
}

// BuildRiverHistoryChart derives labels from the day field and the primary
// series from the observed level.
func BuildRiverHistoryChart(points []floodapi.RiverHistoryPoint) ChartData {
	data := ChartData{
		Labels: make([]string, 0, len(points)),
		Series: make([]float64, 0, len(points)),
	}
	for _, p := range points {
		data.Labels = append(data.Labels, ordinal(p.Day, p.Date))
		data.Series = append(data.Series, p.Level)
	}
	return data
}

// BuildComparisonChart derives labels from the month field and the primary
// series from rainfall. Points without a day count get no tooltip.
func BuildComparisonChart(points []floodapi.RainfallComparisonPoint) ChartData {
	data := ChartData{
		Labels:   make([]string, 0, len(points)),
		Series:   make([]float64, 0, len(points)),
		Tooltips: make([]string, 0, len(points)),
	}
	for _, p := range points {
		data.Labels = append(data.Labels, p.Month)
		data.Series = append(data.Series, p.Rainfall)
		tooltip := ""
		if p.Days > 0 {
			tooltip = fmt.Sprintf("%d rain days", p.Days)
		}
		data.Tooltips = append(data.Tooltips, tooltip)
	}
	return data
}

// ordinal prefers the short day label, falling back to the date string.
func ordinal(day, date string) string {
	if day != "" {
		return day
	}
	return date
}
