package cfg

// ChartStyle is the per-slot presentation preset for a dashboard chart.
type ChartStyle struct {
	Type        string `json:"type"`
	BorderColor string `json:"borderColor"`
	FillColor   string `json:"fillColor"`
	AxisLabel   string `json:"axisLabel"`
}

// ChartStyles returns the presentation presets keyed by chart slot.
func ChartStyles() map[string]ChartStyle {
	return map[string]ChartStyle{
		"rainForecast": {
			Type:        "bar",
			BorderColor: "#36a2eb",
			FillColor:   "rgba(54, 162, 235, 0.35)",
			AxisLabel:   "Rainfall (mm)",
		},
		"riverForecast": {
			Type:        "line",
			BorderColor: "#4bc0c0",
			FillColor:   "rgba(75, 192, 192, 0.2)",
			AxisLabel:   "River Level (m)",
		},
		"history": {
			Type:        "line",
			BorderColor: "#9966ff",
			FillColor:   "rgba(153, 102, 255, 0.2)",
			AxisLabel:   "River Level (m)",
		},
		"comparison": {
			Type:        "bar",
			BorderColor: "#ff9f40",
			FillColor:   "rgba(255, 159, 64, 0.35)",
			AxisLabel:   "Rainfall (mm)",
		},
	}
}
