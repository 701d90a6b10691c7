package progress

import "time"

// Action types recorded in the activity log.
const (
	ActionTreePlanted      = "tree_planted"
	ActionTrashCollected   = "trash_collected"
	ActionEducationSession = "education_session"
	ActionEcoTransport     = "eco_transport"
	ActionEnergySaved      = "energy_saved"
)

// Activity is one recorded contribution event.
type Activity struct {
	ID         string    `json:"id"`
	CampaignID string    `json:"campaignId"`
	ActionType string    `json:"actionType"`
	Amount     int       `json:"amount"`
	Timestamp  time.Time `json:"timestamp"`
}

// UserProgress is the aggregate totals document.
type UserProgress struct {
	TotalTreesPlanted     int       `json:"totalTreesPlanted"`
	TotalTrashCollected   int       `json:"totalTrashCollected"`
	TotalStudentsEducated int       `json:"totalStudentsEducated"`
	TotalEcoMiles         int       `json:"totalEcoMiles"`
	TotalCO2Saved         int       `json:"totalCO2Saved"`
	AchievementsUnlocked  []string  `json:"achievementsUnlocked"`
	JoinDate              time.Time `json:"joinDate"`
}

// addAction folds one activity amount into the matching total. Unknown
// action types are logged by the caller and ignored here.
func (p *UserProgress) addAction(actionType string, amount int) bool {
	switch actionType {
	case ActionTreePlanted:
		p.TotalTreesPlanted += amount
	case ActionTrashCollected:
		p.TotalTrashCollected += amount
	case ActionEducationSession:
		p.TotalStudentsEducated += amount
	case ActionEcoTransport:
		p.TotalEcoMiles += amount
	case ActionEnergySaved:
		p.TotalCO2Saved += amount
	default:
		return false
	}
	return true
}
