// Package challenges derives the daily challenge list from current
// environmental readings. Generation is stateless; per-user progress is
// spliced on afterwards by the progress ledger.
package challenges

import (
	"context"

	"github.com/zerethyily52/Eco-Unity/internal/feed"
)

type Category string

const (
	CategoryAir       Category = "air"
	CategoryCarbon    Category = "carbon"
	CategoryWater     Category = "water"
	CategoryEnergy    Category = "energy"
	CategoryTransport Category = "transport"
)

type Challenge struct {
	ID       int      `json:"id"`
	Title    string   `json:"title"`
	Desc     string   `json:"desc"`
	Emoji    string   `json:"emoji"`
	Progress int      `json:"progress"`
	Total    int      `json:"total"`
	Category Category `json:"category"`
	Impact   string   `json:"impact"`
}

type Generator struct {
	feed *feed.Client
}

func NewGenerator(f *feed.Client) *Generator {
	return &Generator{feed: f}
}

// severityLevel folds a raw AQI value onto the 1..5 severity scale that the
// challenge thresholds are written against.
func severityLevel(aqi int) int {
	switch {
	case aqi <= 50:
		return 1
	case aqi <= 100:
		return 2
	case aqi <= 150:
		return 3
	case aqi <= 200:
		return 4
	default:
		return 5
	}
}

// Generate builds the challenge list for the current readings. When every
// feed is down the static fallback list is returned instead.
func (g *Generator) Generate(ctx context.Context) []Challenge {
	air := g.feed.AirQuality(ctx)
	co2 := g.feed.CO2(ctx)
	if air == nil && co2 == nil {
		return Fallback()
	}

	level := 3
	if air != nil {
		level = severityLevel(air.AQI)
	}
	co2Level := g.feed.GlobalStats().CO2Levels
	if co2 != nil {
		co2Level = co2.Trend
	}

	return []Challenge{
		airChallenge(level),
		{
			ID: 2, Title: "Reduce Carbon Footprint",
			Desc: "Track and reduce daily CO₂ emissions", Emoji: "🌱",
			Total: 7, Category: CategoryCarbon,
			Impact: "Helps fight climate change directly",
		},
		{
			ID: 3, Title: "Energy Saving Week",
			Desc: "Reduce electricity usage by 20%", Emoji: "💡",
			Total: 7, Category: CategoryEnergy,
			Impact: "Saves energy and reduces carbon emissions",
		},
		{
			ID: 4, Title: "Water Conservation",
			Desc: "Take shorter showers and fix leaks", Emoji: "💧",
			Total: 5, Category: CategoryWater,
			Impact: "Conserves precious water resources",
		},
		transportChallenge(co2Level),
	}
}

func airChallenge(level int) Challenge {
	switch {
	case level >= 4:
		return Challenge{
			ID: 1, Title: "Urgent Air Action",
			Desc: "Air quality is poor - use public transport today", Emoji: "🚌",
			Total: 3, Category: CategoryAir,
			Impact: "Reduces air pollution and improves health",
		}
	case level >= 3:
		return Challenge{
			ID: 1, Title: "Plant for Clean Air",
			Desc: "Plant or care for trees to improve air quality", Emoji: "🌳",
			Total: 2, Category: CategoryAir,
			Impact: "Trees filter air pollutants naturally",
		}
	default:
		return Challenge{
			ID: 1, Title: "Keep Air Clean",
			Desc: "Walk or bike instead of driving", Emoji: "🚴",
			Total: 5, Category: CategoryTransport,
			Impact: "Prevents air pollution from vehicles",
		}
	}
}

func transportChallenge(co2Level float64) Challenge {
	if co2Level > 420 {
		return Challenge{
			ID: 5, Title: "Emergency Transport Action",
			Desc: "CO₂ levels critical - go car-free this week", Emoji: "🚭",
			Total: 7, Category: CategoryTransport,
			Impact: "Significantly reduces personal CO₂ emissions",
		}
	}
	return Challenge{
		ID: 5, Title: "Green Transport Days",
		Desc: "Use eco-friendly transport options", Emoji: "🚌",
		Total: 5, Category: CategoryTransport,
		Impact: "Reduces carbon footprint from transportation",
	}
}

// Fallback is the static list served when no reading is available.
func Fallback() []Challenge {
	return []Challenge{
		{
			ID: 1, Title: "Plant a Tree",
			Desc: "Contribute to reforestation", Emoji: "🌳",
			Total: 1, Category: CategoryAir,
			Impact: "Improves air quality and carbon absorption",
		},
		{
			ID: 2, Title: "Reduce Plastic Use",
			Desc: "Use reusable bags and bottles", Emoji: "♻️",
			Total: 6, Category: CategoryCarbon,
			Impact: "Reduces plastic pollution and carbon emissions",
		},
		{
			ID: 3, Title: "Walk More, Drive Less",
			Desc: "Use public transport or walk", Emoji: "🚶",
			Total: 5, Category: CategoryTransport,
			Impact: "Reduces transportation emissions",
		},
	}
}

// Recommendations returns category-specific guidance for a challenge.
func Recommendations(c Challenge) []string {
	switch c.Category {
	case CategoryAir:
		return []string{
			"Plant native trees in your area",
			"Use air-purifying plants indoors",
			"Avoid outdoor exercise during high pollution",
			"Support clean air initiatives",
		}
	case CategoryCarbon:
		return []string{
			"Calculate your carbon footprint",
			"Switch to renewable energy",
			"Eat less meat and dairy",
			"Offset unavoidable emissions",
		}
	case CategoryEnergy:
		return []string{
			"Use LED bulbs and energy-efficient appliances",
			"Unplug devices when not in use",
			"Adjust thermostat settings",
			"Use natural light during the day",
		}
	case CategoryWater:
		return []string{
			"Take shorter showers (5 minutes max)",
			"Fix leaky faucets immediately",
			"Use full loads for washing machines",
			"Collect rainwater for plants",
		}
	case CategoryTransport:
		return []string{
			"Walk or bike for short distances",
			"Use public transportation",
			"Carpool with friends or colleagues",
			"Work from home when possible",
		}
	default:
		return []string{"Follow the challenge description for best results"}
	}
}
