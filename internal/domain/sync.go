package domain

// EntityType names one of the synchronized collections.
type EntityType string

const (
	EntityVocabulary EntityType = "vocabulary"
	EntityReviews    EntityType = "reviews"
	EntityStats      EntityType = "stats"
)

// OperationKind is create or update. Deletion travels as an update carrying a
// tombstoned record.
type OperationKind string

const (
	OpCreate OperationKind = "create"
	OpUpdate OperationKind = "update"
)

// Operation is the envelope exchanged during a single sync round. It is not
// persisted.
type Operation[T any] struct {
	ID           string        `json:"id"`
	EntityType   EntityType    `json:"entityType"`
	Kind         OperationKind `json:"operation"`
	Data         T             `json:"data"`
	Timestamp    int64         `json:"timestamp"`
	LocalVersion *int64        `json:"localVersion,omitempty"`
}

// UploadRequest is what a device sends for one entity type. LastSyncTime is nil
// on a full sync.
type UploadRequest[T any] struct {
	LastSyncTime *int64         `json:"lastSyncTime"`
	Operations   []Operation[T] `json:"operations"`
	DeviceID     string         `json:"deviceId"`
}

// ConflictPolicy selects how concurrent edits are resolved.
type ConflictPolicy string

// NewestWins keeps the record with the greater UpdatedAt.
const NewestWins ConflictPolicy = "newest-wins"

// SyncSettings is the persisted sync configuration of a device.
type SyncSettings struct {
	AutoSyncEnabled        bool           `json:"autoSyncEnabled"`
	SyncIntervalMinutes    int            `json:"syncIntervalMinutes"`
	ConflictPolicy         ConflictPolicy `json:"conflictPolicy"`
	SyncOnStartup          bool           `json:"syncOnStartup"`
	SyncOnNetworkReconnect bool           `json:"syncOnNetworkReconnect"`
}

// Device identifies one installation.
type Device struct {
	ID    string `json:"deviceId"`
	Label string `json:"deviceLabel"`
}
