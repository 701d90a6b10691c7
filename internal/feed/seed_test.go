package feed

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/zerethyily52/Eco-Unity/internal/catalog"
)

func TestSeedTemplatesAdjustsMatchingCategories(t *testing.T) {
	c, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/feed/"):
			w.Write([]byte(`{"status":"ok","data":{"aqi":60,"city":{"name":"Testville"},"dominentpol":"pm25","iaqi":{"pm25":{"v":20},"pm10":{"v":35},"o3":{"v":40}},"time":{"s":"2026-08-30"}}}`))
		case r.URL.Path == "/co2-api":
			w.Write([]byte(`{"co2":[{"trend":420.5,"cycle":419.3}]}`))
		case r.URL.Path == "/ocean-warming-api":
			w.Write([]byte(`{"result":[{"land":0.9},{"land":1.1}]}`))
		default:
			http.NotFound(w, r)
		}
	}))

	templates := []catalog.Template{
		{Title: "Trees", Category: catalog.TreePlanting, BaseStats: catalog.Stats{
			catalog.StatParticipants: 1, catalog.StatTreesPlanted: 1, catalog.StatAreas: 1,
		}},
		{Title: "Shore", Category: catalog.Cleanup, BaseStats: catalog.Stats{
			catalog.StatParticipants: 1, catalog.StatTrashCollected: 1, catalog.StatAreas: 1,
		}},
		{Title: "Rivers", Category: catalog.Water, BaseStats: catalog.Stats{
			catalog.StatParticipants: 77,
		}},
	}
	c.SeedTemplates(context.Background(), templates)

	if got := templates[0].BaseStats[catalog.StatParticipants]; got != 2000 {
		t.Fatalf("tree participants = %d, want 2000", got)
	}
	if got := templates[0].BaseStats[catalog.StatTreesPlanted]; got != 3500 {
		t.Fatalf("treesPlanted = %d, want 3500", got)
	}
	if got := templates[0].BaseStats[catalog.StatAreas]; got != 4 {
		t.Fatalf("tree areas = %d, want 4", got)
	}
	if got := templates[1].BaseStats[catalog.StatParticipants]; got != 1100 {
		t.Fatalf("cleanup participants = %d, want 1100", got)
	}
	if got := templates[1].BaseStats[catalog.StatTrashCollected]; got != 900 {
		t.Fatalf("trashCollected = %d, want 900", got)
	}
	// Categories no reading speaks to keep their builtin bases.
	if got := templates[2].BaseStats[catalog.StatParticipants]; got != 77 {
		t.Fatalf("water participants = %d, want 77", got)
	}
}

func TestSeedTemplatesKeepsBasesWhenFeedDown(t *testing.T) {
	c, _ := testClient(t, http.NotFoundHandler())
	templates := []catalog.Template{
		{Title: "Trees", Category: catalog.TreePlanting, BaseStats: catalog.Stats{
			catalog.StatParticipants: 42,
		}},
	}
	c.SeedTemplates(context.Background(), templates)
	if got := templates[0].BaseStats[catalog.StatParticipants]; got != 42 {
		t.Fatalf("participants = %d, want untouched 42", got)
	}
}
