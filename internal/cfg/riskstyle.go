package cfg

import "strings"

// RiskStyle describes how a flood-risk level is presented: banner color,
// icon and a human label.
type RiskStyle struct {
	Level string `json:"level"`
	Label string `json:"label"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

var riskStyles = map[string]RiskStyle{
	"low": {
		Level: "low",
		Label: "Low Risk",
		Color: "#28a745",
		Icon:  "✓",
	},
	"medium": {
		Level: "medium",
		Label: "Moderate Risk",
		Color: "#ffc107",
		Icon:  "⚠",
	},
	"high": {
		Level: "high",
		Label: "High Risk",
		Color: "#dc3545",
		Icon:  "⚠",
	},
}

// StyleForRisk resolves the presentation style for a risk level. Lookup is
// case-insensitive; unknown levels fall back to the low-severity style.
func StyleForRisk(level string) RiskStyle {
	if style, ok := riskStyles[strings.ToLower(strings.TrimSpace(level))]; ok {
		return style
	}
	return riskStyles["low"]
}
