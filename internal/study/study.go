// Package study is the user-facing review path: it grades answers with the
// SM-2 policy and writes the result through the local store so it syncs.
package study

import (
	"context"
	"fmt"
	"time"

	"github.com/conorfennell/wordsync/internal/domain"
	"github.com/conorfennell/wordsync/internal/srs"
	"github.com/conorfennell/wordsync/internal/storage"
)

type Store interface {
	FindVocabulary(ctx context.Context, id string) (*domain.VocabularyItem, error)
	FindReview(ctx context.Context, vocabID string) (*domain.ReviewRecord, error)
	RecordReview(ctx context.Context, r *domain.ReviewRecord) error
	SetVocabularyStatus(ctx context.Context, id string, status domain.Status) error
	RecordDailyActivity(ctx context.Context, a storage.Activity) (*domain.DailyStat, error)
	DueReviews(ctx context.Context, now int64, limit int) ([]storage.DueItem, error)
	CountLiveVocabulary(ctx context.Context) (int, error)
}

type Service struct {
	store  Store
	status domain.StatusFunc
	now    func() time.Time
}

func New(store Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, status: srs.StatusFromReview, now: now}
}

// Outcome is the result of grading one answer.
type Outcome struct {
	Review domain.ReviewRecord `json:"review"`
	Status domain.Status       `json:"status"`
}

// Answer grades an answer for item id and persists the updated review, the
// derived status and today's activity.
func (s *Service) Answer(ctx context.Context, id string, q srs.Quality, dir domain.Direction) (Outcome, error) {
	if !q.Valid() {
		return Outcome{}, fmt.Errorf("quality %d out of range 0-5", q)
	}

	item, err := s.store.FindVocabulary(ctx, id)
	if err != nil {
		return Outcome{}, err
	}
	if item == nil || item.IsDeleted {
		return Outcome{}, fmt.Errorf("vocabulary %s: %w", id, storage.ErrNotFound)
	}

	current, err := s.store.FindReview(ctx, id)
	if err != nil {
		return Outcome{}, err
	}
	if current == nil {
		current = &domain.ReviewRecord{VocabID: id}
	}

	next := srs.Review(*current, q, dir, s.now())
	if err := s.store.RecordReview(ctx, &next); err != nil {
		return Outcome{}, err
	}

	status := s.status(next)
	if status != item.Status {
		if err := s.store.SetVocabularyStatus(ctx, id, status); err != nil {
			return Outcome{}, err
		}
	}

	activity := storage.Activity{CardsReviewed: 1}
	if q.Passed() {
		activity.Correct = 1
	}
	if _, err := s.store.RecordDailyActivity(ctx, activity); err != nil {
		return Outcome{}, err
	}

	return Outcome{Review: next, Status: status}, nil
}

// Next returns the next due item, or nil when nothing is due.
func (s *Service) Next(ctx context.Context) (*storage.DueItem, error) {
	due, err := s.store.DueReviews(ctx, s.now().UnixMilli(), 1)
	if err != nil {
		return nil, err
	}
	if len(due) == 0 {
		return nil, nil
	}
	return &due[0], nil
}

// Summary counts due items against the live collection.
type Summary struct {
	Due   int `json:"due"`
	Total int `json:"total"`
}

func (s *Service) Summary(ctx context.Context) (Summary, error) {
	due, err := s.store.DueReviews(ctx, s.now().UnixMilli(), 0)
	if err != nil {
		return Summary{}, err
	}
	total, err := s.store.CountLiveVocabulary(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Due: len(due), Total: total}, nil
}
