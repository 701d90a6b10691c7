package feed

import (
	"context"
	"math"

	"github.com/zerethyily52/Eco-Unity/internal/catalog"
)

// SeedTemplates adjusts template base stats from live readings before the
// catalog is generated. Only the categories a reading speaks to are touched;
// a missing reading leaves the builtin bases alone. The input slice is
// mutated in place and returned for chaining.
func (c *Client) SeedTemplates(ctx context.Context, templates []catalog.Template) []catalog.Template {
	air := c.AirQuality(ctx)
	co2 := c.CO2(ctx)
	ocean := c.Ocean(ctx)

	for i := range templates {
		t := &templates[i]
		switch t.Category {
		case catalog.TreePlanting, catalog.Education:
			if air == nil {
				continue
			}
			pm25 := pollutant(air, "pm25", defaultPM25)
			pm10 := pollutant(air, "pm10", defaultPM10)
			o3 := pollutant(air, "o3", defaultO3)
			t.BaseStats[catalog.StatParticipants] = int(math.Round(pm25 * 100))
			if _, ok := t.BaseStats[catalog.StatTreesPlanted]; ok {
				t.BaseStats[catalog.StatTreesPlanted] = int(math.Round(pm10 * 100))
			}
			t.BaseStats[catalog.StatAreas] = max(1, int(math.Round(o3/10)))
		case catalog.Energy, catalog.Transport:
			if co2 == nil {
				continue
			}
			t.BaseStats[catalog.StatParticipants] = int(math.Round(co2.Trend * 10))
			if _, ok := t.BaseStats[catalog.StatCO2Saved]; ok {
				t.BaseStats[catalog.StatCO2Saved] = int(math.Round(co2.Cycle))
			}
			t.BaseStats[catalog.StatAreas] = max(1, co2.Points)
		case catalog.Cleanup:
			if ocean == nil {
				continue
			}
			t.BaseStats[catalog.StatParticipants] = int(math.Round(math.Abs(ocean.Latest) * 1000))
			if _, ok := t.BaseStats[catalog.StatTrashCollected]; ok {
				prev := math.Abs(ocean.Previous)
				if prev == 0 {
					prev = math.Abs(ocean.Latest) * 0.8
				}
				t.BaseStats[catalog.StatTrashCollected] = int(math.Round(prev * 1000))
			}
			t.BaseStats[catalog.StatAreas] = max(1, ocean.Points)
		}
	}
	return templates
}

func pollutant(air *AirQuality, name string, fallback float64) float64 {
	if v, ok := air.Pollution[name]; ok && v > 0 {
		return v
	}
	return fallback
}
