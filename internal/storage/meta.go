package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/conorfennell/wordsync/internal/domain"
)

const (
	metaLastSyncTime = "last_sync_time"
	metaSyncSettings = "sync_settings"
)

// LastSyncTime returns the persisted sync cursor, or nil if this device has
// never completed a round.
func (db *DB) LastSyncTime(ctx context.Context) (*int64, error) {
	raw, ok, err := db.GetMeta(ctx, metaLastSyncTime)
	if err != nil || !ok {
		return nil, err
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse last sync time %q: %w", raw, err)
	}
	return &v, nil
}

// SetLastSyncTime persists the sync cursor.
func (db *DB) SetLastSyncTime(ctx context.Context, millis int64) error {
	return db.SetMeta(ctx, metaLastSyncTime, strconv.FormatInt(millis, 10))
}

// LoadSyncSettings returns the persisted sync settings, or fallback when
// none have been saved yet.
func (db *DB) LoadSyncSettings(ctx context.Context, fallback domain.SyncSettings) (domain.SyncSettings, error) {
	raw, ok, err := db.GetMeta(ctx, metaSyncSettings)
	if err != nil {
		return fallback, err
	}
	if !ok {
		return fallback, nil
	}
	var s domain.SyncSettings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return fallback, fmt.Errorf("failed to decode sync settings: %w", err)
	}
	return s, nil
}

// SaveSyncSettings persists s.
func (db *DB) SaveSyncSettings(ctx context.Context, s domain.SyncSettings) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode sync settings: %w", err)
	}
	return db.SetMeta(ctx, metaSyncSettings, string(b))
}
