// Package kv is the durable key-value capability the per-user stores write
// through to. Values are JSON documents; distinct keys are fully independent
// and no cross-key transactions exist.
package kv

import (
	"context"
	"encoding/json"
	"errors"
)

// Keys used by the core, one namespace per user scope.
const (
	KeyJoinedCampaigns   = "joined_campaigns"
	KeyJoinedCampaignIDs = "joined_campaign_ids"
	KeyCampaignStats     = "campaign_stats"
	KeyUserActivities    = "user_activities"
	KeyUserProgress      = "user_progress"
	KeyChallengesProg    = "challenges_progress"
	// Old scalar key kept for compatibility with previously written data.
	KeyLegacyPlanting = "campaignProgress"
)

// UserKeys lists every per-user key, including legacy ones, for ClearAll.
func UserKeys() []string {
	return []string{
		KeyJoinedCampaigns,
		KeyJoinedCampaignIDs,
		KeyCampaignStats,
		KeyUserActivities,
		KeyUserProgress,
		KeyChallengesProg,
		KeyLegacyPlanting,
	}
}

var ErrUnavailable = errors.New("kv store unavailable")

// Store is the asynchronous-storage boundary. Get reports absence via the
// second return value rather than an error.
type Store interface {
	Get(ctx context.Context, scope, key string) (json.RawMessage, bool, error)
	Set(ctx context.Context, scope, key string, value any) error
	Remove(ctx context.Context, scope, key string) error
	MultiRemove(ctx context.Context, scope string, keys []string) error
}

// GetJSON decodes the value at key into dst, returning false when the key is
// absent or the stored document does not decode.
func GetJSON(ctx context.Context, s Store, scope, key string, dst any) (bool, error) {
	raw, ok, err := s.Get(ctx, scope, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, err
	}
	return true, nil
}
