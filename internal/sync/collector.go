package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/conorfennell/wordsync/internal/domain"
)

// DefaultSafetyWindow is how far before the cursor an incremental scan
// starts, so writes that landed during the previous round are resent.
const DefaultSafetyWindow = 60 * time.Second

// Batch is the local side of one round, one list per entity type.
type Batch struct {
	Vocabulary []domain.Operation[domain.VocabularyItem]
	Reviews    []domain.Operation[domain.ReviewRecord]
	Stats      []domain.Operation[domain.DailyStat]
}

// Len is the number of operations across all entity types.
func (b Batch) Len() int {
	return len(b.Vocabulary) + len(b.Reviews) + len(b.Stats)
}

// IDs lists every operation id in the batch.
func (b Batch) IDs() []string {
	ids := make([]string, 0, b.Len())
	for _, op := range b.Vocabulary {
		ids = append(ids, op.ID)
	}
	for _, op := range b.Reviews {
		ids = append(ids, op.ID)
	}
	for _, op := range b.Stats {
		ids = append(ids, op.ID)
	}
	return ids
}

// Tombstones returns the uploaded vocabulary operations that carry a deletion.
func (b Batch) Tombstones() []domain.VocabularyItem {
	var out []domain.VocabularyItem
	for _, op := range b.Vocabulary {
		if op.Data.IsDeleted {
			out = append(out, op.Data)
		}
	}
	return out
}

// Collector turns local changes into operations. It only reads.
type Collector struct {
	store  CollectorStore
	window time.Duration
	now    func() time.Time
}

// NewCollector creates a Collector. A zero window means DefaultSafetyWindow.
func NewCollector(store CollectorStore, window time.Duration, now func() time.Time) *Collector {
	if window <= 0 {
		window = DefaultSafetyWindow
	}
	if now == nil {
		now = time.Now
	}
	return &Collector{store: store, window: window, now: now}
}

// Collect scans the store for everything changed since cursor. A nil cursor
// collects every stored entity.
func (c *Collector) Collect(ctx context.Context, cursor *int64) (Batch, error) {
	var batch Batch

	vocab, err := c.vocabulary(ctx, cursor)
	if err != nil {
		return Batch{}, err
	}
	for _, item := range vocab {
		v := item.Version
		batch.Vocabulary = append(batch.Vocabulary, domain.Operation[domain.VocabularyItem]{
			ID:           uuid.NewString(),
			EntityType:   domain.EntityVocabulary,
			Kind:         c.kind(cursor, item.CreatedAt, item.IsDeleted),
			Data:         item,
			Timestamp:    item.ModifiedAt(),
			LocalVersion: &v,
		})
	}

	reviews, err := c.reviews(ctx, cursor)
	if err != nil {
		return Batch{}, err
	}
	for _, r := range reviews {
		batch.Reviews = append(batch.Reviews, domain.Operation[domain.ReviewRecord]{
			ID:         uuid.NewString(),
			EntityType: domain.EntityReviews,
			Kind:       c.kind(cursor, r.CreatedAt, false),
			Data:       r,
			Timestamp:  r.ModifiedAt(),
		})
	}

	stats, err := c.stats(ctx, cursor)
	if err != nil {
		return Batch{}, err
	}
	for _, s := range stats {
		batch.Stats = append(batch.Stats, domain.Operation[domain.DailyStat]{
			ID:         uuid.NewString(),
			EntityType: domain.EntityStats,
			Kind:       domain.OpUpdate,
			Data:       s,
			Timestamp:  s.UpdatedAt,
		})
	}

	return batch, nil
}

func (c *Collector) since(cursor int64) int64 {
	return cursor - c.window.Milliseconds()
}

func (c *Collector) kind(cursor *int64, createdAt int64, deleted bool) domain.OperationKind {
	if deleted {
		return domain.OpUpdate
	}
	if cursor == nil || createdAt > c.since(*cursor) {
		return domain.OpCreate
	}
	return domain.OpUpdate
}

func (c *Collector) vocabulary(ctx context.Context, cursor *int64) ([]domain.VocabularyItem, error) {
	if cursor == nil {
		items, err := c.store.ListVocabulary(ctx, true)
		if err != nil {
			return nil, fmt.Errorf("collect vocabulary: %w", err)
		}
		return items, nil
	}
	items, err := c.store.ListVocabularyModifiedSince(ctx, c.since(*cursor))
	if err != nil {
		return nil, fmt.Errorf("collect vocabulary: %w", err)
	}
	return items, nil
}

func (c *Collector) reviews(ctx context.Context, cursor *int64) ([]domain.ReviewRecord, error) {
	if cursor == nil {
		records, err := c.store.ListReviews(ctx)
		if err != nil {
			return nil, fmt.Errorf("collect reviews: %w", err)
		}
		return records, nil
	}
	records, err := c.store.ListReviewsModifiedSince(ctx, c.since(*cursor))
	if err != nil {
		return nil, fmt.Errorf("collect reviews: %w", err)
	}
	return records, nil
}

// stats uses the exact cursor, without the safety window. Legacy rows with no
// UpdatedAt are only sent for today so old history is not resent every round.
func (c *Collector) stats(ctx context.Context, cursor *int64) ([]domain.DailyStat, error) {
	all, err := c.store.ListStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect stats: %w", err)
	}
	if cursor == nil {
		return all, nil
	}

	today := c.now().Format(domain.DateLayout)
	var out []domain.DailyStat
	for _, s := range all {
		switch {
		case s.UpdatedAt == 0:
			if s.Date == today {
				out = append(out, s)
			}
		case s.UpdatedAt > *cursor:
			out = append(out, s)
		}
	}
	return out, nil
}
