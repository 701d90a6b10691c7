// Package joinstate tracks which campaigns a user has joined. Membership is
// checked by title because generated campaign titles are stable across
// regeneration while stats are not; a title-to-id index is kept alongside so
// the per-campaign overlay can be addressed by id.
package joinstate

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/zerethyily52/Eco-Unity/internal/kv"
)

// OverlayWriter maintains the per-campaign supplemental record that joins
// create and leaves remove.
type OverlayWriter interface {
	PutOverlay(ctx context.Context, id string)
	DeleteOverlay(ctx context.Context, id string)
}

// Store is one user's join set. The persisted set is loaded once, on first
// use; until then Loading reports true and membership reads see the empty
// set. Mutations are optimistic: memory first, then persistence, with a
// rollback and a log line on failure. Errors never reach the caller.
type Store struct {
	store    kv.Store
	scope    string
	log      *zap.Logger
	overlays OverlayWriter

	mu        sync.Mutex
	loaded    bool
	titles    []string
	idByTitle map[string]string
}

func NewStore(store kv.Store, scope string, overlays OverlayWriter, log *zap.Logger) *Store {
	return &Store{
		store:     store,
		scope:     scope,
		log:       log.With(zap.String("scope", scope)),
		overlays:  overlays,
		idByTitle: make(map[string]string),
	}
}

func (s *Store) ensureLoadedLocked(ctx context.Context) {
	if s.loaded {
		return
	}
	var titles []string
	if _, err := kv.GetJSON(ctx, s.store, s.scope, kv.KeyJoinedCampaigns, &titles); err != nil {
		s.log.Warn("joined set read failed, starting empty", zap.Error(err))
		titles = nil
	}
	ids := make(map[string]string)
	if _, err := kv.GetJSON(ctx, s.store, s.scope, kv.KeyJoinedCampaignIDs, &ids); err != nil {
		s.log.Warn("joined id index read failed, starting empty", zap.Error(err))
		ids = make(map[string]string)
	}
	s.titles = titles
	s.idByTitle = ids
	s.loaded = true
}

// Loading reports whether the persisted set has not been read yet.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.loaded
}

func (s *Store) IsJoined(ctx context.Context, title string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoadedLocked(ctx)
	for _, t := range s.titles {
		if t == title {
			return true
		}
	}
	return false
}

// JoinedTitles returns the joined titles in join order.
func (s *Store) JoinedTitles(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoadedLocked(ctx)
	return append([]string(nil), s.titles...)
}

// IDForTitle resolves a joined title to its campaign id.
func (s *Store) IDForTitle(ctx context.Context, title string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoadedLocked(ctx)
	id, ok := s.idByTitle[title]
	return id, ok
}

// persistLocked writes the id index first and the titles list last. The
// titles list is the authoritative membership document: if its write fails,
// the already-written index is restored from prevIDs so durable state never
// disagrees with the rolled-back memory.
func (s *Store) persistLocked(ctx context.Context, prevIDs map[string]string) bool {
	if err := s.store.Set(ctx, s.scope, kv.KeyJoinedCampaignIDs, s.idByTitle); err != nil {
		s.log.Error("joined id index write failed, rolling back", zap.Error(err))
		return false
	}
	if err := s.store.Set(ctx, s.scope, kv.KeyJoinedCampaigns, s.titles); err != nil {
		s.log.Error("joined set write failed, rolling back", zap.Error(err))
		if err := s.store.Set(ctx, s.scope, kv.KeyJoinedCampaignIDs, prevIDs); err != nil {
			s.log.Error("joined id index restore failed", zap.Error(err))
		}
		return false
	}
	return true
}

func (s *Store) snapshotLocked() ([]string, map[string]string) {
	titles := append([]string(nil), s.titles...)
	ids := make(map[string]string, len(s.idByTitle))
	for k, v := range s.idByTitle {
		ids[k] = v
	}
	return titles, ids
}

// Join adds the campaign to the set. Joining an already joined campaign
// leaves the set alone but still writes a fresh overlay, matching the reset
// semantics of rejoining. Both id and title are required.
func (s *Store) Join(ctx context.Context, id, title string) {
	if id == "" || title == "" {
		s.log.Warn("join without id or title ignored",
			zap.String("id", id), zap.String("title", title))
		return
	}
	s.mu.Lock()
	s.ensureLoadedLocked(ctx)
	prevTitles, prevIDs := s.snapshotLocked()
	if !s.hasTitleLocked(title) {
		s.titles = append(s.titles, title)
	}
	s.idByTitle[title] = id
	if !s.persistLocked(ctx, prevIDs) {
		s.titles, s.idByTitle = prevTitles, prevIDs
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.overlays.PutOverlay(ctx, id)
}

// Leave removes the campaign from the set and drops its overlay. Leaving a
// campaign that is not joined is a no-op.
func (s *Store) Leave(ctx context.Context, id, title string) {
	if id == "" || title == "" {
		s.log.Warn("leave without id or title ignored",
			zap.String("id", id), zap.String("title", title))
		return
	}
	s.mu.Lock()
	s.ensureLoadedLocked(ctx)
	if !s.hasTitleLocked(title) {
		s.mu.Unlock()
		return
	}
	prevTitles, prevIDs := s.snapshotLocked()
	kept := s.titles[:0:0]
	for _, t := range s.titles {
		if t != title {
			kept = append(kept, t)
		}
	}
	s.titles = kept
	delete(s.idByTitle, title)
	if !s.persistLocked(ctx, prevIDs) {
		s.titles, s.idByTitle = prevTitles, prevIDs
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.overlays.DeleteOverlay(ctx, id)
}

func (s *Store) hasTitleLocked(title string) bool {
	for _, t := range s.titles {
		if t == title {
			return true
		}
	}
	return false
}
