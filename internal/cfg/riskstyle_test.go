package cfg

import "testing"

func TestStyleForRisk(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantLevel string
		wantColor string
	}{
		{"low", "low", "low", "#28a745"},
		{"medium", "medium", "medium", "#ffc107"},
		{"high", "high", "high", "#dc3545"},
		{"uppercase", "MEDIUM", "medium", "#ffc107"},
		{"mixed case", "High", "high", "#dc3545"},
		{"surrounding whitespace", "  low  ", "low", "#28a745"},
		{"unknown falls back to low", "catastrophic", "low", "#28a745"},
		{"empty falls back to low", "", "low", "#28a745"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StyleForRisk(tt.level)
			if got.Level != tt.wantLevel {
				t.Errorf("StyleForRisk(%q).Level = %q, want %q", tt.level, got.Level, tt.wantLevel)
			}
			if got.Color != tt.wantColor {
				t.Errorf("StyleForRisk(%q).Color = %q, want %q", tt.level, got.Color, tt.wantColor)
			}
			if got.Label == "" || got.Icon == "" {
				t.Errorf("StyleForRisk(%q) missing label or icon: %+v", tt.level, got)
			}
		})
	}
}

func TestChartStylesHaveAllSlots(t *testing.T) {
	styles := ChartStyles()
	for _, slot := range []string{"rainForecast", "riverForecast", "history", "comparison"} {
		style, ok := styles[slot]
		if !ok {
			t.Errorf("no chart style for slot %q", slot)
			continue
		}
		if style.Type != "bar" && style.Type != "line" {
			t.Errorf("slot %q has unexpected type %q", slot, style.Type)
		}
		if style.BorderColor == "" || style.AxisLabel == "" {
			t.Errorf("slot %q missing color or axis label: %+v", slot, style)
		}
	}
}
