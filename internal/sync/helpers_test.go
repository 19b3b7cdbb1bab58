package sync

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/conorfennell/wordsync/internal/domain"
	"github.com/conorfennell/wordsync/internal/storage"
)

var base = time.Date(2026, 2, 10, 9, 0, 0, 0, time.Local)

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time          { return c.t }
func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func ms(t time.Time) int64 { return t.UnixMilli() }

func quietLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }

func openStore(t *testing.T) (*storage.DB, *testClock) {
	t.Helper()
	clock := &testClock{t: base}
	db, err := storage.Open(filepath.Join(t.TempDir(), "sync.db"), storage.WithClock(clock.Now))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, clock
}

func seedItem(t *testing.T, db *storage.DB, item domain.VocabularyItem) {
	t.Helper()
	if item.SourceText == "" {
		item.SourceText = item.ID
	}
	if item.Status == "" {
		item.Status = domain.StatusNew
	}
	if item.Version == 0 {
		item.Version = 1
	}
	require.NoError(t, db.UpsertVocabulary(context.Background(), item))
}

func seedReview(t *testing.T, db *storage.DB, r domain.ReviewRecord) {
	t.Helper()
	require.NoError(t, db.CreateReview(context.Background(), r))
}

func op[T any](entity domain.EntityType, id string, data T, ts int64) domain.Operation[T] {
	return domain.Operation[T]{
		ID:         "op-" + id,
		EntityType: entity,
		Kind:       domain.OpUpdate,
		Data:       data,
		Timestamp:  ts,
	}
}

func vocabOp(item domain.VocabularyItem) domain.Operation[domain.VocabularyItem] {
	if item.SourceText == "" {
		item.SourceText = item.ID
	}
	if item.Status == "" {
		item.Status = domain.StatusNew
	}
	return op(domain.EntityVocabulary, item.ID, item, item.ModifiedAt())
}

func reviewOp(r domain.ReviewRecord) domain.Operation[domain.ReviewRecord] {
	return op(domain.EntityReviews, r.VocabID, r, r.ModifiedAt())
}
