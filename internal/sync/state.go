package sync

import (
	"slices"

	"github.com/conorfennell/wordsync/internal/domain"
)

// Status is the phase of the current or most recent round.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusSyncing Status = "syncing"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
	StatusSkipped Status = "skipped"
)

// Mode is how much local state a round sends.
type Mode string

const (
	ModeFull        Mode = "full"
	ModeIncremental Mode = "incremental"
)

// Resolution names the side kept when both devices changed a record.
type Resolution string

const (
	KeptLocal  Resolution = "local"
	KeptRemote Resolution = "remote"
)

// SyncError is a failure recorded during a round. EntityType and EntityID are
// empty for round-level failures.
type SyncError struct {
	EntityType domain.EntityType `json:"entityType,omitempty"`
	EntityID   string            `json:"entityId,omitempty"`
	Message    string            `json:"message"`
	At         int64             `json:"at"`
}

// Conflict records a record that changed on both sides and how it resolved.
type Conflict struct {
	EntityType      domain.EntityType `json:"entityType"`
	EntityID        string            `json:"entityId"`
	LocalUpdatedAt  int64             `json:"localUpdatedAt"`
	RemoteUpdatedAt int64             `json:"remoteUpdatedAt"`
	Resolution      Resolution        `json:"resolution"`
}

// SyncState is what callers can observe about synchronization. Errors and
// Conflicts describe the most recent round that ran.
type SyncState struct {
	IsSyncing         bool        `json:"isSyncing"`
	SyncStatus        Status      `json:"syncStatus"`
	LastSyncTime      *int64      `json:"lastSyncTime"`
	PendingOperations int         `json:"pendingOperations"`
	Errors            []SyncError `json:"errors"`
	Conflicts         []Conflict  `json:"conflicts"`
	Mode              Mode        `json:"mode,omitempty"`
	SkipReason        string      `json:"skipReason,omitempty"`
}

func (s SyncState) clone() SyncState {
	out := s
	if s.LastSyncTime != nil {
		v := *s.LastSyncTime
		out.LastSyncTime = &v
	}
	out.Errors = slices.Clone(s.Errors)
	out.Conflicts = slices.Clone(s.Conflicts)
	return out
}
