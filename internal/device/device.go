// Package device generates and persists the identity of this installation.
package device

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/google/uuid"

	"github.com/conorfennell/wordsync/internal/domain"
)

const (
	metaDeviceID    = "device_id"
	metaDeviceLabel = "device_label"
)

// MetaStore is the key/value surface the identity is persisted in.
type MetaStore interface {
	GetMeta(ctx context.Context, key string) (string, bool, error)
	SetMeta(ctx context.Context, key, value string) error
}

// Ensure returns the persisted device identity, creating it on first use.
// Once created the identity never changes.
func Ensure(ctx context.Context, store MetaStore) (domain.Device, error) {
	id, ok, err := store.GetMeta(ctx, metaDeviceID)
	if err != nil {
		return domain.Device{}, fmt.Errorf("failed to read device id: %w", err)
	}
	if ok {
		label, _, err := store.GetMeta(ctx, metaDeviceLabel)
		if err != nil {
			return domain.Device{}, fmt.Errorf("failed to read device label: %w", err)
		}
		return domain.Device{ID: id, Label: label}, nil
	}

	d := domain.Device{ID: uuid.NewString(), Label: Label()}
	if err := store.SetMeta(ctx, metaDeviceLabel, d.Label); err != nil {
		return domain.Device{}, fmt.Errorf("failed to store device label: %w", err)
	}
	// The id is written last: its presence marks the identity as complete.
	if err := store.SetMeta(ctx, metaDeviceID, d.ID); err != nil {
		return domain.Device{}, fmt.Errorf("failed to store device id: %w", err)
	}
	return d, nil
}

// Label is a human-readable name for this machine.
func Label() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "unknown"
	}
	return fmt.Sprintf("%s (%s)", host, runtime.GOOS)
}
