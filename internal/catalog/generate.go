package catalog

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
)

// Per-field jitter fractions used by RerandomizeAll.
var rerandomizeJitter = map[string]float64{
	StatParticipants:     0.15,
	StatTreesPlanted:     0.10,
	StatTrashCollected:   0.12,
	StatMilesWalked:      0.08,
	StatStudentsImpacted: 0.15,
	StatSchoolsReached:   0.20,
	StatBeachesClean:     0.25,
	StatCO2Saved:         0.10,
	StatAreas:            0.12,
}

// jitter applies bounded multiplicative noise: round(base * (1 + u)) with u
// uniform in [-p, +p].
func jitter(rng *rand.Rand, base int, p float64) int {
	u := (rng.Float64()*2 - 1) * p
	return int(math.Round(float64(base) * (1 + u)))
}

// Generate builds the catalog from templates in order. Ids are positional
// (campaign-1, campaign-2, ...), images cycle per category through that
// category's pool, and every base stat field gets an independent jitter draw
// using one variation fraction in [0.05, 0.15) per entity.
func Generate(templates []Template, rng *rand.Rand) []*Campaign {
	categoryCursor := make(map[Category]int)
	campaigns := make([]*Campaign, 0, len(templates))
	for i, t := range templates {
		pool, ok := imagePools[t.Category]
		if !ok || len(pool) == 0 {
			panic(fmt.Sprintf("catalog: no image pool for category %q", t.Category))
		}
		content, ok := contentTables[t.Category]
		if !ok {
			panic(fmt.Sprintf("catalog: no content table for category %q", t.Category))
		}

		image := pool[categoryCursor[t.Category]%len(pool)]
		categoryCursor[t.Category]++

		variation := 0.05 + rng.Float64()*0.10
		stats := make(Stats, len(t.BaseStats))
		for field, base := range t.BaseStats {
			stats[field] = jitter(rng, base, variation)
		}

		campaigns = append(campaigns, &Campaign{
			ID:          fmt.Sprintf("campaign-%d", i+1),
			Title:       t.Title,
			Category:    t.Category,
			Description: pick(rng, content.descriptions),
			Image:       image,
			Details:     pick(rng, content.details),
			Steps:       content.steps,
			Benefits:    content.benefits,
			Stats:       stats,
			Duration:    t.Duration,
			Difficulty:  t.Difficulty,
			Location:    pick(rng, content.locations),
			base:        t.BaseStats.Clone(),
		})
	}
	return campaigns
}

func pick(rng *rand.Rand, options []string) string {
	if len(options) == 0 {
		return ""
	}
	return options[rng.Intn(len(options))]
}

// RerandomizeAll recomputes every present stat field of every campaign from
// its generation-time base snapshot, using the documented per-field jitter.
// Field presence never changes and values never compound.
func RerandomizeAll(campaigns []*Campaign, rng *rand.Rand) {
	for _, c := range campaigns {
		for field, base := range c.base {
			p, ok := rerandomizeJitter[field]
			if !ok {
				panic(fmt.Sprintf("catalog: no jitter fraction for stat field %q", field))
			}
			c.Stats[field] = jitter(rng, base, p)
		}
	}
}

// Service owns the single shared catalog instance, constructed once at
// application start and handed to the HTTP layer by reference.
type Service struct {
	mu        sync.Mutex
	rng       *rand.Rand
	campaigns []*Campaign
}

func NewService(templates []Template, rng *rand.Rand) *Service {
	return &Service{rng: rng, campaigns: Generate(templates, rng)}
}

// Rerandomize refreshes derived stats in place. Called before any screen
// reads the catalog for display.
func (s *Service) Rerandomize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	RerandomizeAll(s.campaigns, s.rng)
}

// Campaigns returns a snapshot copy so callers never observe a concurrent
// rerandomization mid-read.
func (s *Service) Campaigns() []Campaign {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Campaign, len(s.campaigns))
	for i, c := range s.campaigns {
		out[i] = *c
		out[i].Stats = c.Stats.Clone()
	}
	return out
}

func (s *Service) ByID(id string) (Campaign, bool) {
	for _, c := range s.Campaigns() {
		if c.ID == id {
			return c, true
		}
	}
	return Campaign{}, false
}

func (s *Service) ByCategory(cat Category) []Campaign {
	var out []Campaign
	for _, c := range s.Campaigns() {
		if c.Category == cat {
			out = append(out, c)
		}
	}
	return out
}
