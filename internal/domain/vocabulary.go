package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Status is the learning state shown for a vocabulary item. It is derived from
// the item's review record and never edited directly by the user.
type Status string

const (
	StatusNew       Status = "new"
	StatusLearning  Status = "learning"
	StatusReviewing Status = "reviewing"
	StatusMastered  Status = "mastered"
)

// Tags is stored as a JSON array in a single column.
type Tags []string

// Value implements driver.Valuer.
func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(t))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (t *Tags) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*t = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("unsupported tags column type %T", src)
	}
	var tags []string
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &tags); err != nil {
			return fmt.Errorf("invalid tags column: %w", err)
		}
	}
	if len(tags) == 0 {
		tags = nil
	}
	*t = tags
	return nil
}

// VocabularyItem is a word the user is learning. Deletion is a tombstone
// (IsDeleted) so it can propagate to other devices before the row is purged.
type VocabularyItem struct {
	ID         string `json:"id" db:"id"`
	SourceText string `json:"sourceText" db:"source_text"`
	TargetText string `json:"targetText" db:"target_text"`
	Tags       Tags   `json:"tags" db:"tags"`
	Notes      string `json:"notes" db:"notes"`
	Status     Status `json:"status" db:"status"`
	Version    int64  `json:"version" db:"version"`
	CreatedAt  int64  `json:"createdAt" db:"created_at"`
	UpdatedAt  int64  `json:"updatedAt" db:"updated_at"`
	IsDeleted  bool   `json:"isDeleted" db:"is_deleted"`
}

// Phase reports whether the item is live or tombstoned.
func (v VocabularyItem) Phase() Phase {
	if v.IsDeleted {
		return PhaseTombstoned
	}
	return PhaseLive
}

// ModifiedAt is the later of CreatedAt and UpdatedAt.
func (v VocabularyItem) ModifiedAt() int64 {
	return max(v.CreatedAt, v.UpdatedAt)
}

// Phase is the lifecycle phase of a vocabulary item.
type Phase int

const (
	PhaseLive Phase = iota
	PhaseTombstoned
)

func (p Phase) String() string {
	switch p {
	case PhaseLive:
		return "live"
	case PhaseTombstoned:
		return "tombstoned"
	default:
		return "unknown"
	}
}
