package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/zerethyily52/Eco-Unity/internal/kv"
)

// ExportBundle is one user's complete stored state as raw documents, keyed
// by storage key. Raw JSON keeps the bundle forward-compatible: importing a
// bundle never reinterprets documents it does not own.
type ExportBundle struct {
	Data       map[string]json.RawMessage `json:"data"`
	ExportDate time.Time                  `json:"exportDate"`
}

// Export collects every per-user key into one bundle. Unlike the mutation
// paths, export surfaces storage errors: a partial backup is worse than a
// failed one.
func (l *Ledger) Export(ctx context.Context) (ExportBundle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	bundle := ExportBundle{
		Data:       make(map[string]json.RawMessage),
		ExportDate: l.now(),
	}
	for _, key := range kv.UserKeys() {
		raw, ok, err := l.store.Get(ctx, l.scope, key)
		if err != nil {
			return ExportBundle{}, fmt.Errorf("export %s: %w", key, err)
		}
		if ok {
			bundle.Data[key] = raw
		}
	}
	return bundle, nil
}

// Import writes the bundle's documents back, restoring only recognized keys,
// and invalidates the in-memory snapshots so subsequent reads see the
// imported state.
func (l *Ledger) Import(ctx context.Context, bundle ExportBundle) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	known := make(map[string]bool)
	for _, key := range kv.UserKeys() {
		known[key] = true
	}
	for key, raw := range bundle.Data {
		if !known[key] {
			continue
		}
		if err := l.store.Set(ctx, l.scope, key, raw); err != nil {
			return fmt.Errorf("import %s: %w", key, err)
		}
	}
	l.invalidateLocked()
	return nil
}

// ClearAll removes every per-user key, legacy ones included, and resets the
// in-memory state.
func (l *Ledger) ClearAll(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.store.MultiRemove(ctx, l.scope, kv.UserKeys()); err != nil {
		return fmt.Errorf("clear user data: %w", err)
	}
	l.invalidateLocked()
	return nil
}

func (l *Ledger) invalidateLocked() {
	l.overlays, l.overlaysLoaded = nil, false
	l.chList, l.chLoaded = nil, false
	l.activities, l.actsLoaded = nil, false
	l.aggregate, l.aggLoaded = UserProgress{}, false
	l.planting = NewCounter(PlantingTarget, cooldownPeriod, l.now)
	l.plantingLoaded = false
}
