package sync

import (
	"context"

	"github.com/conorfennell/wordsync/internal/domain"
)

// CollectorStore is the read surface the Collector scans.
type CollectorStore interface {
	ListVocabulary(ctx context.Context, includeDeleted bool) ([]domain.VocabularyItem, error)
	ListVocabularyModifiedSince(ctx context.Context, since int64) ([]domain.VocabularyItem, error)
	ListReviews(ctx context.Context) ([]domain.ReviewRecord, error)
	ListReviewsModifiedSince(ctx context.Context, since int64) ([]domain.ReviewRecord, error)
	ListStats(ctx context.Context) ([]domain.DailyStat, error)
}

// MergeStore is the write surface the Merger applies remote changes through.
// None of these methods stamp timestamps.
type MergeStore interface {
	FindVocabulary(ctx context.Context, id string) (*domain.VocabularyItem, error)
	UpsertVocabulary(ctx context.Context, item domain.VocabularyItem) error
	SetVocabularyStatus(ctx context.Context, id string, status domain.Status) error
	UpdateReview(ctx context.Context, r domain.ReviewRecord) (bool, error)
	CreateReview(ctx context.Context, r domain.ReviewRecord) error
	UpsertStats(ctx context.Context, s domain.DailyStat, preserveTimestamp bool) error
}

// Store is everything a round needs from the local store.
type Store interface {
	CollectorStore
	MergeStore

	CountVocabulary(ctx context.Context) (int, error)
	CountReviews(ctx context.Context) (int, error)
	PurgeTombstone(ctx context.Context, id string, acknowledgedAt int64) (bool, error)
	LastSyncTime(ctx context.Context) (*int64, error)
	SetLastSyncTime(ctx context.Context, millis int64) error
}
