package mockdata

import (
	"math"
	"math/rand/v2"
	"time"

	"floodwatch/internal/floodapi"
)

const (
	// HistoryDays is the length of the synthetic history series.
	HistoryDays = 30
	// LevelFloor is the minimum river level the generator will emit.
	LevelFloor = 2.0
)

// GenerateRiverHistory produces a random-walk river-level series ending
// today: one entry per day, dates strictly increasing, every level at or
// above floor. Output is shape-valid but not reproducible.
func GenerateRiverHistory(days int, floor float64) []floodapi.RiverHistoryPoint {
	if days <= 0 {
		return nil
	}

	points := make([]floodapi.RiverHistoryPoint, 0, days)
	level := floor + 1.5 + rand.Float64()

	start := time.Now().AddDate(0, 0, -(days - 1))
	for i := 0; i < days; i++ {
		// Seasonal swell plus noise, clamped to the floor.
		drift := 0.4 * math.Sin(float64(i)/5.0)
		level += drift + (rand.Float64()-0.5)*0.6
		if level < floor {
			level = floor
		}

		day := start.AddDate(0, 0, i)
		points = append(points, floodapi.RiverHistoryPoint{
			Day:       day.Format("2006-01-02"),
			Date:      day.Format("2006-01-02"),
			Level:     math.Round(level*100) / 100,
			Timestamp: day.Unix(),
		})
	}
	return points
}
