package dashboard

import (
	"reflect"
	"testing"

	"floodwatch/internal/floodapi"
)

func TestBuildRainForecastChart(t *testing.T) {
	points := []floodapi.RainForecastPoint{
		{Day: "Mon", Date: "2025-07-14", Rainfall: 5.2, Probability: 70},
		{Day: "Tue", Date: "2025-07-15", Rainfall: 12.8, Probability: 85},
	}

	got := BuildRainForecastChart(points)

	if !reflect.DeepEqual(got.Labels, []string{"Mon", "Tue"}) {
		t.Errorf("Labels = %v", got.Labels)
	}
	if !reflect.DeepEqual(got.Series, []float64{5.2, 12.8}) {
		t.Errorf("Series = %v", got.Series)
	}
	if len(got.Tooltips) != 2 || got.Tooltips[0] != "70% chance of rain" {
		t.Errorf("Tooltips = %v", got.Tooltips)
	}
}

func TestBuildRainForecastChartNoProbability(t *testing.T) {
	got := BuildRainForecastChart([]floodapi.RainForecastPoint{
		{Day: "Mon", Rainfall: 5.2},
	})
	if got.Tooltips[0] != "" {
		t.Errorf("Tooltips[0] = %q, want empty without probability", got.Tooltips[0])
	}
}

func TestBuildRainForecastChartEmpty(t *testing.T) {
	got := BuildRainForecastChart(nil)
	if len(got.Labels) != 0 || len(got.Series) != 0 {
		t.Errorf("empty input should build an empty chart: %+v", got)
	}
}

func TestBuildRiverForecastChart(t *testing.T) {
	got := BuildRiverForecastChart([]floodapi.RiverForecastPoint{
		{Day: "Mon", Level: 4.91},
		{Day: "Tue", Level: 5.12},
	})
	if !reflect.DeepEqual(got.Series, []float64{4.91, 5.12}) {
		t.Errorf("Series = %v", got.Series)
	}
	if len(got.Tooltips) != 0 {
		t.Errorf("river forecast should have no tooltips: %v", got.Tooltips)
	}
}

func TestBuildRiverHistoryChartLabelFallback(t *testing.T) {
	got := BuildRiverHistoryChart([]floodapi.RiverHistoryPoint{
		{Day: "", Date: "2025-07-14", Level: 4.82},
		{Day: "2025-07-15", Date: "", Level: 4.85},
	})
	if !reflect.DeepEqual(got.Labels, []string{"2025-07-14", "2025-07-15"}) {
		t.Errorf("Labels = %v, want date fallback when day is empty", got.Labels)
	}
}

func TestBuildComparisonChart(t *testing.T) {
	got := BuildComparisonChart([]floodapi.RainfallComparisonPoint{
		{Month: "2025-06", Rainfall: 164.3, Days: 12},
		{Month: "2025-07", Rainfall: 198.6},
	})
	if !reflect.DeepEqual(got.Labels, []string{"2025-06", "2025-07"}) {
		t.Errorf("Labels = %v", got.Labels)
	}
	if got.Tooltips[0] != "12 rain days" {
		t.Errorf("Tooltips[0] = %q", got.Tooltips[0])
	}
	if got.Tooltips[1] != "" {
		t.Errorf("Tooltips[1] = %q, want empty without a day count", got.Tooltips[1])
	}
}
