// Package catalog builds the in-memory campaign catalog from compiled-in
// templates and keeps its derived statistics fresh. Generation and
// rerandomization are pure over an injected random source; no I/O happens
// here.
package catalog

import "time"

type Category string

const (
	TreePlanting Category = "tree-planting"
	Cleanup      Category = "cleanup"
	Education    Category = "education"
	Transport    Category = "transport"
	Energy       Category = "energy"
	Water        Category = "water"
	Waste        Category = "waste"
	Wildlife     Category = "wildlife"
)

// Stat field names. A stats block is sparse: only the fields relevant to the
// campaign's category are present.
const (
	StatParticipants     = "participants"
	StatTreesPlanted     = "treesPlanted"
	StatTrashCollected   = "trashCollected"
	StatMilesWalked      = "milesWalked"
	StatStudentsImpacted = "studentsImpacted"
	StatSchoolsReached   = "schoolsReached"
	StatBeachesClean     = "beachesClean"
	StatCO2Saved         = "co2Saved"
	StatAreas            = "areas"
)

// Stats maps stat field names to counter values. Absent means absent, never
// zero.
type Stats map[string]int

func (s Stats) Clone() Stats {
	out := make(Stats, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Template is the fixed build-time definition a campaign is generated from.
type Template struct {
	Title      string   `yaml:"title"`
	Category   Category `yaml:"category"`
	BaseStats  Stats    `yaml:"base_stats"`
	Duration   string   `yaml:"duration"`
	Difficulty string   `yaml:"difficulty"`
}

// Campaign is a generated catalog entity. Base is the immutable snapshot of
// the template's stats taken at generation time; RerandomizeAll always
// derives from it rather than from the previous derived values.
type Campaign struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Details     string   `json:"details"`
	Steps       []string `json:"steps"`
	Benefits    []string `json:"benefits"`
	Stats       Stats    `json:"stats"`
	Duration    string   `json:"duration"`
	Difficulty  string   `json:"difficulty"`
	Location    string   `json:"location"`

	base Stats
}

// Base returns the generation-time stats snapshot.
func (c *Campaign) Base() Stats { return c.base.Clone() }

// Overlay is the per-user supplemental record layered on a campaign.
type Overlay struct {
	DateJoined       time.Time      `json:"dateJoined"`
	UserContribution map[string]int `json:"userContribution"`
	IsCompleted      bool           `json:"isCompleted"`
	LastActivity     time.Time      `json:"lastActivity"`
}
