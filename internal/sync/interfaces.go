// Package sync reconciles this device's local store with a remote copy.
//
// A round collects local changes since the last cursor, exchanges them with
// the remote one entity type at a time (vocabulary, reviews, stats), merges
// what the remote returns, purges uploaded tombstones and only then advances
// the cursor. Conflicts resolve by newest UpdatedAt, except stats, which are
// replaced wholesale.
package sync

//go:generate mockgen -source=interfaces.go -destination=../mocks/sync/mock_interfaces.go -package=mock_sync

import (
	"context"

	"github.com/conorfennell/wordsync/internal/domain"
)

// Reconciler exchanges one entity type's changes with the remote. Each call
// uploads the local operations and returns the remote's own pending changes
// since the same cursor.
type Reconciler interface {
	ReconcileVocabulary(ctx context.Context, req domain.UploadRequest[domain.VocabularyItem]) ([]domain.Operation[domain.VocabularyItem], error)
	ReconcileReviews(ctx context.Context, req domain.UploadRequest[domain.ReviewRecord]) ([]domain.Operation[domain.ReviewRecord], error)
	ReconcileStats(ctx context.Context, req domain.UploadRequest[domain.DailyStat]) ([]domain.DailyStat, error)
}

// NetworkProbe reports connectivity before a round starts.
type NetworkProbe interface {
	Online(ctx context.Context) bool
}

// AuthProbe reports whether the device holds an authenticated session.
type AuthProbe interface {
	Authenticated(ctx context.Context) bool
}

// Notifier is told when a round has finished successfully so dependent views
// can refetch.
type Notifier interface {
	OnSyncComplete(ctx context.Context)
}
