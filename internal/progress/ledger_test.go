package progress

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/zerethyily52/Eco-Unity/internal/challenges"
	"github.com/zerethyily52/Eco-Unity/internal/kv"
)

func newTestLedger(t *testing.T) (*Ledger, *kv.Memory, *fakeClock) {
	t.Helper()
	store := kv.NewMemory()
	clock := newFakeClock()
	l := NewLedger(store, "user-1", zap.NewNop(), WithClock(clock.now))
	return l, store, clock
}

func TestUpdateStatMergesContribution(t *testing.T) {
	l, _, clock := newTestLedger(t)
	ctx := context.Background()

	l.PutOverlay(ctx, "campaign-1")
	l.UpdateStat(ctx, "campaign-1", "treesPlanted", 3)
	clock.advance(time.Minute)
	l.UpdateStat(ctx, "campaign-1", "treesPlanted", 2)
	l.UpdateStat(ctx, "campaign-1", "trashCollected", 5)

	o, ok := l.Overlay(ctx, "campaign-1")
	if !ok {
		t.Fatalf("overlay missing")
	}
	if o.UserContribution["treesPlanted"] != 5 || o.UserContribution["trashCollected"] != 5 {
		t.Fatalf("contribution = %v", o.UserContribution)
	}
	if !o.LastActivity.After(o.DateJoined) {
		t.Fatalf("lastActivity %v not refreshed past dateJoined %v", o.LastActivity, o.DateJoined)
	}
}

func TestPutOverlayResetsOnRejoin(t *testing.T) {
	l, _, clock := newTestLedger(t)
	ctx := context.Background()

	l.PutOverlay(ctx, "campaign-2")
	l.UpdateStat(ctx, "campaign-2", "milesWalked", 7)
	clock.advance(time.Hour)
	l.PutOverlay(ctx, "campaign-2")

	o, _ := l.Overlay(ctx, "campaign-2")
	if len(o.UserContribution) != 0 || o.IsCompleted {
		t.Fatalf("rejoin did not reset overlay: %+v", o)
	}
	if !o.DateJoined.Equal(clock.t) {
		t.Fatalf("dateJoined = %v, want %v", o.DateJoined, clock.t)
	}
}

func TestUpdateStatRollsBackOnWriteFailure(t *testing.T) {
	l, store, _ := newTestLedger(t)
	ctx := context.Background()

	l.PutOverlay(ctx, "campaign-1")
	l.UpdateStat(ctx, "campaign-1", "treesPlanted", 3)

	store.FailNextSet = true
	l.UpdateStat(ctx, "campaign-1", "treesPlanted", 100)

	o, _ := l.Overlay(ctx, "campaign-1")
	if o.UserContribution["treesPlanted"] != 3 {
		t.Fatalf("contribution after failed write = %v, want pre-write 3", o.UserContribution)
	}

	// A reloaded ledger sees the same pre-failure state.
	fresh := NewLedger(store, "user-1", zap.NewNop())
	o2, ok := fresh.Overlay(ctx, "campaign-1")
	if !ok || o2.UserContribution["treesPlanted"] != 3 {
		t.Fatalf("persisted contribution = %v", o2.UserContribution)
	}
}

func TestLedgerScopesAreIndependent(t *testing.T) {
	store := kv.NewMemory()
	ctx := context.Background()
	a := NewLedger(store, "user-a", zap.NewNop())
	b := NewLedger(store, "user-b", zap.NewNop())

	a.PutOverlay(ctx, "campaign-1")
	if _, ok := b.Overlay(ctx, "campaign-1"); ok {
		t.Fatalf("overlay leaked across scopes")
	}
}

func freshChallenges() []challenges.Challenge {
	return []challenges.Challenge{
		{ID: 1, Title: "Plant for Clean Air", Total: 2},
		{ID: 2, Title: "Reduce Carbon Footprint", Total: 7},
		{ID: 5, Title: "Green Transport Days", Total: 5},
	}
}

func TestMergeProgressSplicesOnlyProgress(t *testing.T) {
	l, _, _ := newTestLedger(t)
	ctx := context.Background()

	l.MergeProgress(ctx, freshChallenges())
	l.SetChallengeProgress(ctx, 2, 4)
	l.SetChallengeProgress(ctx, 5, 1)

	// A regenerated list with different titles keeps stored progress by id.
	regenerated := []challenges.Challenge{
		{ID: 1, Title: "Urgent Air Action", Total: 3},
		{ID: 2, Title: "Reduce Carbon Footprint", Total: 7},
		{ID: 5, Title: "Emergency Transport Action", Total: 7},
	}
	fresh2 := NewLedger(l.store, "user-1", zap.NewNop())
	merged := fresh2.MergeProgress(ctx, regenerated)

	if merged[0].Progress != 0 {
		t.Fatalf("challenge 1 progress = %d, want 0", merged[0].Progress)
	}
	if merged[1].Progress != 4 {
		t.Fatalf("challenge 2 progress = %d, want persisted 4", merged[1].Progress)
	}
	if merged[2].Progress != 1 || merged[2].Title != "Emergency Transport Action" {
		t.Fatalf("challenge 5 = %+v, want fresh fields with progress 1", merged[2])
	}
}

func TestSetChallengeProgressClampsAndPersists(t *testing.T) {
	l, _, _ := newTestLedger(t)
	ctx := context.Background()

	l.MergeProgress(ctx, freshChallenges())
	got, ok := l.SetChallengeProgress(ctx, 1, 99)
	if !ok || got.Progress != 2 {
		t.Fatalf("clamped progress = %d, ok = %v", got.Progress, ok)
	}
	got, ok = l.SetChallengeProgress(ctx, 1, -3)
	if !ok || got.Progress != 0 {
		t.Fatalf("negative clamp = %d", got.Progress)
	}
	if _, ok := l.SetChallengeProgress(ctx, 42, 1); ok {
		t.Fatalf("unknown id accepted")
	}
}

func TestSetChallengeProgressRollsBackOnWriteFailure(t *testing.T) {
	l, store, _ := newTestLedger(t)
	ctx := context.Background()

	l.MergeProgress(ctx, freshChallenges())
	l.SetChallengeProgress(ctx, 2, 3)
	store.FailNextSet = true
	l.SetChallengeProgress(ctx, 2, 6)

	merged := l.MergeProgress(ctx, freshChallenges())
	if merged[1].Progress != 3 {
		t.Fatalf("progress after failed write = %d, want 3", merged[1].Progress)
	}
}

func TestPlantingFlowPersistsAcrossLedgers(t *testing.T) {
	l, store, _ := newTestLedger(t)
	ctx := context.Background()

	if !l.AddPlanting(ctx, 4) {
		t.Fatalf("add rejected")
	}
	fresh := NewLedger(store, "user-1", zap.NewNop())
	p, target, phase := fresh.Planting(ctx)
	if p != 4 || target != PlantingTarget || phase != PhaseActive {
		t.Fatalf("restored planting = %d/%d %s", p, target, phase)
	}
}

func TestPlantingCooldownThroughLedger(t *testing.T) {
	l, _, clock := newTestLedger(t)
	ctx := context.Background()

	l.AddPlanting(ctx, PlantingTarget)
	if _, _, phase := l.Planting(ctx); phase != PhaseCompleted {
		t.Fatalf("phase = %s", phase)
	}
	if !l.ResetPlanting(ctx) {
		t.Fatalf("reset rejected")
	}
	if l.AddPlanting(ctx, 1) {
		t.Fatalf("add accepted during cooldown")
	}
	clock.advance(2 * time.Second)
	if !l.AddPlanting(ctx, 1) {
		t.Fatalf("add rejected after cooldown")
	}
}

func TestAddPlantingRollsBackOnWriteFailure(t *testing.T) {
	l, store, _ := newTestLedger(t)
	ctx := context.Background()

	l.AddPlanting(ctx, 3)
	store.FailNextSet = true
	if l.AddPlanting(ctx, 2) {
		t.Fatalf("failed write reported success")
	}
	p, _, _ := l.Planting(ctx)
	if p != 3 {
		t.Fatalf("progress after failed write = %d, want 3", p)
	}
}

func TestAddActivityUpdatesAggregate(t *testing.T) {
	l, _, _ := newTestLedger(t)
	ctx := context.Background()

	a1 := l.AddActivity(ctx, "campaign-1", ActionTreePlanted, 3)
	a2 := l.AddActivity(ctx, "campaign-1", ActionTreePlanted, 2)
	l.AddActivity(ctx, "campaign-2", ActionEcoTransport, 12)

	if a1.ID == "" || a1.ID == a2.ID {
		t.Fatalf("activity ids not unique: %q %q", a1.ID, a2.ID)
	}
	totals := l.CategoryTotals(ctx)
	if totals[ActionTreePlanted] != 5 || totals[ActionEcoTransport] != 12 {
		t.Fatalf("totals = %v", totals)
	}
	agg := l.Progress(ctx)
	if agg.TotalTreesPlanted != 5 || agg.TotalEcoMiles != 12 {
		t.Fatalf("aggregate = %+v", agg)
	}
}

func TestUnlockAchievementAppendsOnce(t *testing.T) {
	l, store, _ := newTestLedger(t)
	ctx := context.Background()

	if !l.UnlockAchievement(ctx, "first-tree") {
		t.Fatalf("first unlock rejected")
	}
	if l.UnlockAchievement(ctx, "first-tree") {
		t.Fatalf("duplicate unlock accepted")
	}
	fresh := NewLedger(store, "user-1", zap.NewNop())
	agg := fresh.Progress(ctx)
	if len(agg.AchievementsUnlocked) != 1 || agg.AchievementsUnlocked[0] != "first-tree" {
		t.Fatalf("achievements = %v", agg.AchievementsUnlocked)
	}
}

func TestReadFailureYieldsDefaults(t *testing.T) {
	l, store, _ := newTestLedger(t)
	ctx := context.Background()

	store.FailNextGet = true
	if got := l.Overlays(ctx); len(got) != 0 {
		t.Fatalf("overlays on read failure = %v", got)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	l, _, _ := newTestLedger(t)
	ctx := context.Background()

	l.PutOverlay(ctx, "campaign-1")
	l.UpdateStat(ctx, "campaign-1", "treesPlanted", 4)
	l.AddActivity(ctx, "campaign-1", ActionTreePlanted, 4)
	l.AddPlanting(ctx, 6)
	l.MergeProgress(ctx, freshChallenges())
	l.SetChallengeProgress(ctx, 2, 5)

	bundle, err := l.Export(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(bundle.Data) == 0 {
		t.Fatalf("empty export bundle")
	}

	if err := l.ClearAll(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got := l.Overlays(ctx); len(got) != 0 {
		t.Fatalf("overlays after clear = %v", got)
	}
	if p, _, _ := l.Planting(ctx); p != 0 {
		t.Fatalf("planting after clear = %d", p)
	}

	if err := l.Import(ctx, bundle); err != nil {
		t.Fatalf("import: %v", err)
	}
	o, ok := l.Overlay(ctx, "campaign-1")
	if !ok || o.UserContribution["treesPlanted"] != 4 {
		t.Fatalf("overlay after import = %+v ok=%v", o, ok)
	}
	if p, _, _ := l.Planting(ctx); p != 6 {
		t.Fatalf("planting after import = %d", p)
	}
	merged := l.MergeProgress(ctx, freshChallenges())
	if merged[1].Progress != 5 {
		t.Fatalf("challenge progress after import = %d", merged[1].Progress)
	}
}
