package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BuiltinTemplates is the compiled-in campaign set. The order is significant:
// ids are positional.
func BuiltinTemplates() []Template {
	return []Template{
		{
			Title:    "Tree Planting Program",
			Category: TreePlanting,
			BaseStats: Stats{
				StatParticipants: 1250,
				StatTreesPlanted: 5400,
				StatCO2Saved:     890,
			},
			Duration:   "6 months",
			Difficulty: "Easy",
		},
		{
			Title:    "Clean River Initiative",
			Category: Cleanup,
			BaseStats: Stats{
				StatParticipants:   860,
				StatTrashCollected: 12400,
				StatBeachesClean:   18,
			},
			Duration:   "4 months",
			Difficulty: "Beginner",
		},
		{
			Title:    "Eco School Program",
			Category: Education,
			BaseStats: Stats{
				StatParticipants:     430,
				StatStudentsImpacted: 2100,
				StatSchoolsReached:   34,
			},
			Duration:   "1 year",
			Difficulty: "Intermediate",
		},
		{
			Title:    "Green Transport Week",
			Category: Transport,
			BaseStats: Stats{
				StatParticipants: 1900,
				StatMilesWalked:  8600,
				StatCO2Saved:     1300,
			},
			Duration:   "1 week",
			Difficulty: "Beginner",
		},
		{
			Title:    "Home Energy Challenge",
			Category: Energy,
			BaseStats: Stats{
				StatParticipants: 720,
				StatCO2Saved:     2400,
				StatAreas:        12,
			},
			Duration:   "3 months",
			Difficulty: "Intermediate",
		},
		{
			Title:    "Water Guardians",
			Category: Water,
			BaseStats: Stats{
				StatParticipants: 510,
				StatAreas:        9,
			},
			Duration:   "2 months",
			Difficulty: "Easy",
		},
		{
			Title:    "Plastic-Free Challenge",
			Category: Waste,
			BaseStats: Stats{
				StatParticipants:   1480,
				StatTrashCollected: 6700,
				StatAreas:          25,
			},
			Duration:   "1 month",
			Difficulty: "Beginner",
		},
		{
			Title:    "Wildlife Habitat Watch",
			Category: Wildlife,
			BaseStats: Stats{
				StatParticipants: 340,
				StatAreas:        7,
			},
			Duration:   "1 year",
			Difficulty: "Advanced",
		},
	}
}

// LoadTemplates reads a template set from a YAML file, replacing the builtin
// one. Any template with no base stats or unknown category is a config bug
// and fails loudly.
func LoadTemplates(path string) ([]Template, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var templates []Template
	if err := yaml.Unmarshal(raw, &templates); err != nil {
		return nil, fmt.Errorf("campaign templates %s: %w", path, err)
	}
	for i, t := range templates {
		if len(t.BaseStats) == 0 {
			return nil, fmt.Errorf("campaign templates %s: template %d (%q) has no base stats", path, i, t.Title)
		}
		if _, ok := imagePools[t.Category]; !ok {
			return nil, fmt.Errorf("campaign templates %s: template %d (%q) has unknown category %q", path, i, t.Title, t.Category)
		}
	}
	return templates, nil
}

// imagePools holds the per-category image URIs cycled through by generation.
var imagePools = map[Category][]string{
	TreePlanting: {
		"https://images.unsplash.com/photo-1501785888041-af3ef285b470?auto=format&fit=crop&w=800&q=80",
		"https://images.unsplash.com/photo-1500534314209-a25ddb2bd429?auto=format&fit=crop&w=800&q=80",
	},
	Cleanup: {
		"https://images.unsplash.com/photo-1506744038136-46273834b3fb?auto=format&fit=crop&w=800&q=80",
		"https://images.unsplash.com/photo-1507525428034-b723cf961d3e?auto=format&fit=crop&w=800&q=80",
	},
	Education: {
		"https://images.unsplash.com/photo-1503676382389-4809596d5290?auto=format&fit=crop&w=800&q=80",
	},
	Transport: {
		"https://images.unsplash.com/photo-1465101046530-73398c7f28ca?auto=format&fit=crop&w=800&q=80",
	},
	Energy: {
		"https://images.unsplash.com/photo-1509391366360-2e959784a276?auto=format&fit=crop&w=800&q=80",
	},
	Water: {
		"https://images.unsplash.com/photo-1583212292454-1fe6229603b7?auto=format&fit=crop&w=800&q=80",
	},
	Waste: {
		"https://images.unsplash.com/photo-1519125323398-675f0ddb6308?auto=format&fit=crop&w=800&q=80",
	},
	Wildlife: {
		"https://images.unsplash.com/photo-1564349683136-77e08dba1ef7?auto=format&fit=crop&w=800&q=80",
	},
}

type contentTable struct {
	descriptions []string
	details      []string
	steps        []string
	benefits     []string
	locations    []string
}

var contentTables = map[Category]contentTable{
	TreePlanting: {
		descriptions: []string{
			"Join us every weekend to plant trees and make our city greener. Every tree counts!",
			"Help us plant and care for trees in city parks and streets.",
		},
		details: []string{
			"Participate in our tree planting events. Tools and saplings are provided. Suitable for all ages.",
			"Join our urban forest project to make the city greener. We organize regular tree planting and care events.",
		},
		steps: []string{
			"Register for the event",
			"Arrive at the park",
			"Plant your tree",
			"Share your experience on social media",
		},
		benefits:  []string{"Greener city", "Cleaner air", "Community bonding"},
		locations: []string{"City Parks", "Urban Areas"},
	},
	Cleanup: {
		descriptions: []string{
			"Help clean local rivers and lakes. Together we restore nature and protect wildlife.",
			"Join us to clean up beaches and protect marine life.",
		},
		details: []string{
			"Join our clean-up teams. Gloves and bags are provided. Let's make our waters beautiful again!",
			"Participate in our monthly beach cleanups. Help us collect plastic and other waste.",
		},
		steps: []string{
			"Sign up for a clean-up day",
			"Meet at the riverbank",
			"Collect and sort trash",
			"Celebrate with the team",
		},
		benefits:  []string{"Healthier rivers", "Safer wildlife", "Cleaner environment"},
		locations: []string{"Riverbanks", "Coastal Areas"},
	},
	Education: {
		descriptions: []string{
			"Support eco-education and recycling in local schools.",
		},
		details: []string{
			"Become a volunteer in our Eco School Program. Teach kids about recycling, energy saving, and nature protection.",
		},
		steps: []string{
			"Apply as a volunteer",
			"Attend an intro session",
			"Run a classroom workshop",
			"Share results with the community",
		},
		benefits:  []string{"Environmental awareness", "Engaged students", "Long-term habits"},
		locations: []string{"Local Schools"},
	},
	Transport: {
		descriptions: []string{
			"Promote cycling, walking, and public transport in your city.",
		},
		details: []string{
			"Take part in Green Transport Week! Use a bike, walk, or take public transport. Share your experience and inspire others.",
		},
		steps: []string{
			"Pick a car-free day",
			"Log your green miles",
			"Invite a friend to join",
			"Share your weekly total",
		},
		benefits:  []string{"Less traffic", "Cleaner air", "Healthier lifestyle"},
		locations: []string{"Urban Areas", "Global"},
	},
	Energy: {
		descriptions: []string{
			"Cut household energy use and switch to efficient appliances.",
		},
		details: []string{
			"Track your electricity use, swap in LED bulbs, and unplug idle devices. Small changes add up fast.",
		},
		steps: []string{
			"Measure your baseline usage",
			"Replace inefficient bulbs",
			"Unplug devices when not in use",
			"Compare your monthly bill",
		},
		benefits:  []string{"Lower energy bills", "Reduced emissions", "Efficient homes"},
		locations: []string{"Residential Areas", "Global"},
	},
	Water: {
		descriptions: []string{
			"Conserve water at home and protect local watersheds.",
		},
		details: []string{
			"Take shorter showers, fix leaks, and monitor local water quality with our community kit.",
		},
		steps: []string{
			"Audit your water usage",
			"Fix leaky faucets",
			"Collect rainwater for plants",
			"Report watershed issues",
		},
		benefits:  []string{"Conserved water", "Healthier watersheds", "Lower bills"},
		locations: []string{"Watersheds", "Residential Areas"},
	},
	Waste: {
		descriptions: []string{
			"Say no to single-use plastics! Share your experience and inspire others.",
		},
		details: []string{
			"Challenge yourself to avoid single-use plastics. Get tips and support from our community.",
		},
		steps: []string{
			"Refuse plastic bags and bottles",
			"Use reusable containers",
			"Share your progress daily",
			"Nominate a friend",
		},
		benefits:  []string{"Less plastic waste", "Healthier lifestyle", "Inspiring others"},
		locations: []string{"Global", "Urban Areas"},
	},
	Wildlife: {
		descriptions: []string{
			"Monitor and protect local wildlife habitats year round.",
		},
		details: []string{
			"Adopt a habitat patch, record sightings, and help maintain nesting and feeding sites.",
		},
		steps: []string{
			"Adopt a habitat patch",
			"Record wildlife sightings",
			"Maintain nesting sites",
			"Submit seasonal reports",
		},
		benefits:  []string{"Protected habitats", "Better species data", "Thriving wildlife"},
		locations: []string{"Nature Reserves", "City Parks"},
	},
}
