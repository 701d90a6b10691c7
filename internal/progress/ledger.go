// Package progress keeps every per-user progress record: campaign overlays,
// challenge progress, the activity log, aggregate totals, and the legacy
// planting counter. All state lives in the key-value store; in-memory copies
// are loaded lazily and mutated optimistically, with a rollback and a log
// line when persistence fails. Read failures degrade to empty defaults so
// the caller path never surfaces a storage error.
package progress

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zerethyily52/Eco-Unity/internal/catalog"
	"github.com/zerethyily52/Eco-Unity/internal/challenges"
	"github.com/zerethyily52/Eco-Unity/internal/kv"
)

// Ledger is one user's progress state. Construct through NewLedger; all
// methods are safe for concurrent use and serialize writes, so persisted
// documents reflect operations in issuance order.
type Ledger struct {
	store kv.Store
	scope string
	log   *zap.Logger
	now   func() time.Time
	newID func() string

	mu sync.Mutex

	overlays       map[string]catalog.Overlay
	overlaysLoaded bool

	chList   []challenges.Challenge
	chLoaded bool

	planting       *Counter
	plantingLoaded bool

	activities []Activity
	actsLoaded bool
	aggregate  UserProgress
	aggLoaded  bool
}

type Option func(*Ledger)

// WithClock injects the time source used for timestamps and the cooldown.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func NewLedger(store kv.Store, scope string, log *zap.Logger, opts ...Option) *Ledger {
	l := &Ledger{
		store: store,
		scope: scope,
		log:   log.With(zap.String("scope", scope)),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.planting = NewCounter(PlantingTarget, cooldownPeriod, l.now)
	return l
}

// load reads key into dst under the mutex, degrading to the zero value on
// any storage or decode error.
func (l *Ledger) load(ctx context.Context, key string, dst any) {
	if _, err := kv.GetJSON(ctx, l.store, l.scope, key, dst); err != nil {
		l.log.Warn("progress read failed, using defaults", zap.String("key", key), zap.Error(err))
	}
}

// persist writes value and reports whether it stuck.
func (l *Ledger) persist(ctx context.Context, key string, value any) bool {
	if err := l.store.Set(ctx, l.scope, key, value); err != nil {
		l.log.Error("progress write failed, rolling back", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// --- campaign overlays ---------------------------------------------------

func (l *Ledger) loadOverlaysLocked(ctx context.Context) {
	if l.overlaysLoaded {
		return
	}
	l.overlays = make(map[string]catalog.Overlay)
	l.load(ctx, kv.KeyCampaignStats, &l.overlays)
	if l.overlays == nil {
		l.overlays = make(map[string]catalog.Overlay)
	}
	l.overlaysLoaded = true
}

// Overlays returns a copy of the per-campaign overlay map.
func (l *Ledger) Overlays(ctx context.Context) map[string]catalog.Overlay {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loadOverlaysLocked(ctx)
	out := make(map[string]catalog.Overlay, len(l.overlays))
	for id, o := range l.overlays {
		out[id] = o
	}
	return out
}

func (l *Ledger) Overlay(ctx context.Context, id string) (catalog.Overlay, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loadOverlaysLocked(ctx)
	o, ok := l.overlays[id]
	return o, ok
}

// PutOverlay writes a fresh overlay for a newly joined campaign: empty
// contribution, not completed, dateJoined now. Rejoining replaces any prior
// record.
func (l *Ledger) PutOverlay(ctx context.Context, id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loadOverlaysLocked(ctx)
	prev, had := l.overlays[id]
	now := l.now()
	l.overlays[id] = catalog.Overlay{
		DateJoined:       now,
		UserContribution: map[string]int{},
		LastActivity:     now,
	}
	if !l.persist(ctx, kv.KeyCampaignStats, l.overlays) {
		if had {
			l.overlays[id] = prev
		} else {
			delete(l.overlays, id)
		}
	}
}

// DeleteOverlay drops the overlay when the campaign is left.
func (l *Ledger) DeleteOverlay(ctx context.Context, id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loadOverlaysLocked(ctx)
	prev, had := l.overlays[id]
	if !had {
		return
	}
	delete(l.overlays, id)
	if !l.persist(ctx, kv.KeyCampaignStats, l.overlays) {
		l.overlays[id] = prev
	}
}

// UpdateStat folds amount into the overlay's contribution for one stat field
// and refreshes lastActivity. A missing overlay is created on the fly, as
// the original flow did.
func (l *Ledger) UpdateStat(ctx context.Context, id, stat string, amount int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loadOverlaysLocked(ctx)
	prev, had := l.overlays[id]
	o := prev
	if !had {
		o = catalog.Overlay{DateJoined: l.now(), UserContribution: map[string]int{}}
	}
	contribution := make(map[string]int, len(o.UserContribution)+1)
	for k, v := range o.UserContribution {
		contribution[k] = v
	}
	contribution[stat] += amount
	o.UserContribution = contribution
	o.LastActivity = l.now()
	l.overlays[id] = o
	if !l.persist(ctx, kv.KeyCampaignStats, l.overlays) {
		if had {
			l.overlays[id] = prev
		} else {
			delete(l.overlays, id)
		}
	}
}

// MarkCompleted flips the overlay's completion flag.
func (l *Ledger) MarkCompleted(ctx context.Context, id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loadOverlaysLocked(ctx)
	prev, had := l.overlays[id]
	if !had || prev.IsCompleted {
		return
	}
	o := prev
	o.IsCompleted = true
	o.LastActivity = l.now()
	l.overlays[id] = o
	if !l.persist(ctx, kv.KeyCampaignStats, l.overlays) {
		l.overlays[id] = prev
	}
}

// --- challenge progress --------------------------------------------------

func (l *Ledger) loadChallengesLocked(ctx context.Context) {
	if l.chLoaded {
		return
	}
	l.load(ctx, kv.KeyChallengesProg, &l.chList)
	l.chLoaded = true
}

// MergeProgress splices persisted progress onto a freshly generated list.
// Only the progress field transfers, matched by challenge id; everything
// else (titles, totals, categories) comes from the fresh generation. The
// merged list becomes the in-memory snapshot later writes operate on.
func (l *Ledger) MergeProgress(ctx context.Context, fresh []challenges.Challenge) []challenges.Challenge {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loadChallengesLocked(ctx)
	stored := make(map[int]int, len(l.chList))
	for _, c := range l.chList {
		stored[c.ID] = c.Progress
	}
	merged := make([]challenges.Challenge, len(fresh))
	copy(merged, fresh)
	for i := range merged {
		if p, ok := stored[merged[i].ID]; ok {
			if p > merged[i].Total {
				p = merged[i].Total
			}
			merged[i].Progress = p
		}
	}
	l.chList = merged
	out := make([]challenges.Challenge, len(merged))
	copy(out, merged)
	return out
}

// SetChallengeProgress updates one challenge's progress on the current
// snapshot, clamped to [0, total], and persists the whole list. Reports
// false when the id is unknown.
func (l *Ledger) SetChallengeProgress(ctx context.Context, id, value int) (challenges.Challenge, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loadChallengesLocked(ctx)
	for i := range l.chList {
		if l.chList[i].ID != id {
			continue
		}
		prev := l.chList[i].Progress
		if value < 0 {
			value = 0
		}
		if value > l.chList[i].Total {
			value = l.chList[i].Total
		}
		l.chList[i].Progress = value
		if !l.persist(ctx, kv.KeyChallengesProg, l.chList) {
			l.chList[i].Progress = prev
		}
		return l.chList[i], true
	}
	return challenges.Challenge{}, false
}

// ResetChallenges clears all persisted challenge progress.
func (l *Ledger) ResetChallenges(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	prevList, prevLoaded := l.chList, l.chLoaded
	l.chList, l.chLoaded = nil, true
	if err := l.store.Remove(ctx, l.scope, kv.KeyChallengesProg); err != nil {
		l.log.Error("challenge reset failed, rolling back", zap.Error(err))
		l.chList, l.chLoaded = prevList, prevLoaded
	}
}

// --- planting counter ----------------------------------------------------

func (l *Ledger) loadPlantingLocked(ctx context.Context) {
	if l.plantingLoaded {
		return
	}
	var saved int
	l.load(ctx, kv.KeyLegacyPlanting, &saved)
	l.planting.Restore(saved)
	l.plantingLoaded = true
}

// Planting reports the counter's progress, target and phase.
func (l *Ledger) Planting(ctx context.Context) (int, int, Phase) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loadPlantingLocked(ctx)
	return l.planting.Progress(), l.planting.Target(), l.planting.Phase()
}

// AddPlanting applies n contributions. It reports false when the counter is
// locked or complete, in which case nothing changes.
func (l *Ledger) AddPlanting(ctx context.Context, n int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loadPlantingLocked(ctx)
	prev := l.planting.Progress()
	if !l.planting.Add(n) {
		return false
	}
	if !l.persist(ctx, kv.KeyLegacyPlanting, l.planting.Progress()) {
		l.planting.Restore(prev)
		return false
	}
	return true
}

// ResetPlanting starts the cooldown from the completed phase.
func (l *Ledger) ResetPlanting(ctx context.Context) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loadPlantingLocked(ctx)
	if !l.planting.Reset() {
		return false
	}
	if !l.persist(ctx, kv.KeyLegacyPlanting, 0) {
		l.planting.Restore(l.planting.Target())
		return false
	}
	return true
}

// --- activity log and aggregate totals -----------------------------------

func (l *Ledger) loadActivitiesLocked(ctx context.Context) {
	if l.actsLoaded {
		return
	}
	l.load(ctx, kv.KeyUserActivities, &l.activities)
	l.actsLoaded = true
}

func (l *Ledger) loadAggregateLocked(ctx context.Context) {
	if l.aggLoaded {
		return
	}
	l.aggregate = UserProgress{AchievementsUnlocked: []string{}, JoinDate: l.now()}
	l.load(ctx, kv.KeyUserProgress, &l.aggregate)
	if l.aggregate.AchievementsUnlocked == nil {
		l.aggregate.AchievementsUnlocked = []string{}
	}
	l.aggLoaded = true
}

// AddActivity appends one contribution event and folds its amount into the
// aggregate totals. The activity record is authoritative; the aggregate is a
// denormalized convenience and a failed aggregate write does not undo the
// appended activity.
func (l *Ledger) AddActivity(ctx context.Context, campaignID, actionType string, amount int) Activity {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loadActivitiesLocked(ctx)
	l.loadAggregateLocked(ctx)

	act := Activity{
		ID:         l.newID(),
		CampaignID: campaignID,
		ActionType: actionType,
		Amount:     amount,
		Timestamp:  l.now(),
	}
	l.activities = append(l.activities, act)
	if !l.persist(ctx, kv.KeyUserActivities, l.activities) {
		l.activities = l.activities[:len(l.activities)-1]
		return act
	}

	prevAgg := l.aggregate
	if !l.aggregate.addAction(actionType, amount) {
		l.log.Warn("activity with unknown action type", zap.String("actionType", actionType))
		return act
	}
	if !l.persist(ctx, kv.KeyUserProgress, l.aggregate) {
		l.aggregate = prevAgg
	}
	return act
}

// Activities returns a copy of the activity log.
func (l *Ledger) Activities(ctx context.Context) []Activity {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loadActivitiesLocked(ctx)
	out := make([]Activity, len(l.activities))
	copy(out, l.activities)
	return out
}

// CategoryTotals folds activity amounts by action type.
func (l *Ledger) CategoryTotals(ctx context.Context) map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loadActivitiesLocked(ctx)
	totals := make(map[string]int)
	for _, a := range l.activities {
		totals[a.ActionType] += a.Amount
	}
	return totals
}

// Progress returns the aggregate totals document.
func (l *Ledger) Progress(ctx context.Context) UserProgress {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loadAggregateLocked(ctx)
	out := l.aggregate
	out.AchievementsUnlocked = append([]string(nil), l.aggregate.AchievementsUnlocked...)
	return out
}

// UnlockAchievement appends an achievement id once. Reports whether it was
// newly unlocked.
func (l *Ledger) UnlockAchievement(ctx context.Context, id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loadAggregateLocked(ctx)
	for _, have := range l.aggregate.AchievementsUnlocked {
		if have == id {
			return false
		}
	}
	l.aggregate.AchievementsUnlocked = append(l.aggregate.AchievementsUnlocked, id)
	if !l.persist(ctx, kv.KeyUserProgress, l.aggregate) {
		l.aggregate.AchievementsUnlocked = l.aggregate.AchievementsUnlocked[:len(l.aggregate.AchievementsUnlocked)-1]
		return false
	}
	return true
}
