package catalog

import (
	"math/rand"
	"strings"
)

// landingSampleSize is how many not-joined campaigns a landing view surfaces
// alongside the user's joined ones.
const landingSampleSize = 4

// MainAndOthers picks the designated main campaign by category plus title
// match, falling back to the first campaign of that category, and returns up
// to 4 others excluding the main by id.
func MainAndOthers(campaigns []Campaign, cat Category, titleHint string) (Campaign, []Campaign, bool) {
	var filtered []Campaign
	for _, c := range campaigns {
		if c.Category == cat {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) == 0 {
		return Campaign{}, nil, false
	}
	main := filtered[0]
	if titleHint != "" {
		for _, c := range filtered {
			if strings.Contains(c.Title, titleHint) {
				main = c
				break
			}
		}
	}
	others := Excluding(campaigns, []string{main.ID})
	if len(others) > 4 {
		others = others[:4]
	}
	return main, others, true
}

// Excluding returns the campaigns whose ids are not in exclude, preserving
// catalog order.
func Excluding(campaigns []Campaign, exclude []string) []Campaign {
	skip := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}
	var out []Campaign
	for _, c := range campaigns {
		if !skip[c.ID] {
			out = append(out, c)
		}
	}
	return out
}

// PartitionJoined splits campaigns into not-joined and joined, preserving
// order within each partition.
func PartitionJoined(campaigns []Campaign, isJoined func(title string) bool) (notJoined, joined []Campaign) {
	for _, c := range campaigns {
		if isJoined(c.Title) {
			joined = append(joined, c)
		} else {
			notJoined = append(notJoined, c)
		}
	}
	return notJoined, joined
}

// LandingSelection returns a random sample of up to 4 not-joined campaigns
// followed by every joined campaign. Joined campaigns are never truncated.
func LandingSelection(campaigns []Campaign, isJoined func(title string) bool, rng *rand.Rand) []Campaign {
	notJoined, joined := PartitionJoined(campaigns, isJoined)
	rng.Shuffle(len(notJoined), func(i, j int) {
		notJoined[i], notJoined[j] = notJoined[j], notJoined[i]
	})
	if len(notJoined) > landingSampleSize {
		notJoined = notJoined[:landingSampleSize]
	}
	return append(notJoined, joined...)
}
