package progress

import "time"

// Phase of the tree-planting counter.
type Phase string

const (
	PhaseActive    Phase = "active"
	PhaseCompleted Phase = "completed"
	PhaseCooldown  Phase = "cooldown"
)

// PlantingTarget is the contribution count that completes the flow.
const PlantingTarget = 10

// cooldownPeriod is how long the counter stays locked after a reset.
const cooldownPeriod = time.Second

// Counter is the planting progress state machine: Active -> Completed when
// the target is reached, Completed -> Cooldown on explicit reset, Cooldown ->
// Active once the period elapses. Not safe for concurrent use; the owning
// Ledger serializes access. The clock is injected so tests control time.
type Counter struct {
	target   int
	progress int
	phase    Phase
	lockedAt time.Time
	period   time.Duration
	now      func() time.Time
}

func NewCounter(target int, period time.Duration, now func() time.Time) *Counter {
	if now == nil {
		now = time.Now
	}
	return &Counter{target: target, phase: PhaseActive, period: period, now: now}
}

// Restore sets the persisted progress, rederiving the phase from it.
func (c *Counter) Restore(progress int) {
	if progress < 0 {
		progress = 0
	}
	if progress > c.target {
		progress = c.target
	}
	c.progress = progress
	if progress >= c.target {
		c.phase = PhaseCompleted
	} else {
		c.phase = PhaseActive
	}
	c.lockedAt = time.Time{}
}

// unlock moves Cooldown back to Active once the period has elapsed.
func (c *Counter) unlock() {
	if c.phase == PhaseCooldown && c.now().Sub(c.lockedAt) >= c.period {
		c.phase = PhaseActive
	}
}

// Add applies n contributions. It reports false, leaving progress unchanged,
// while the counter is locked or already complete.
func (c *Counter) Add(n int) bool {
	c.unlock()
	if c.phase != PhaseActive || n <= 0 {
		return false
	}
	c.progress += n
	if c.progress >= c.target {
		c.progress = c.target
		c.phase = PhaseCompleted
	}
	return true
}

// Reset zeroes a completed counter and starts the cooldown. Resetting from
// any other phase reports false.
func (c *Counter) Reset() bool {
	c.unlock()
	if c.phase != PhaseCompleted {
		return false
	}
	c.progress = 0
	c.phase = PhaseCooldown
	c.lockedAt = c.now()
	return true
}

func (c *Counter) Progress() int { return c.progress }
func (c *Counter) Target() int   { return c.target }

// Phase reports the current phase, resolving an expired cooldown first.
func (c *Counter) Phase() Phase {
	c.unlock()
	return c.phase
}
