package srs

import (
	"math"
	"testing"
	"time"

	"github.com/conorfennell/wordsync/internal/domain"
)

func TestReviewEaseFactor(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	// EF' = 2.5 + (0.1 - 1 * (0.08 + 1 * 0.02)) = 2.5
	got := Review(domain.ReviewRecord{}, CorrectHesitation, domain.Forward, now)
	if math.Abs(got.EaseFactor-2.5) > 0.0001 {
		t.Errorf("Expected ease factor 2.5, but got %.4f", got.EaseFactor)
	}

	// EF' = 1.3 floor after a blackout on a hard card
	got = Review(domain.ReviewRecord{EaseFactor: 1.4}, Blackout, domain.Forward, now)
	if got.EaseFactor != MinEaseFactor {
		t.Errorf("Expected ease factor to be floored at %.1f, but got %.4f", MinEaseFactor, got.EaseFactor)
	}
}

func TestReviewIntervals(t *testing.T) {
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	r := domain.ReviewRecord{VocabID: "w1"}

	t.Run("first three correct answers", func(t *testing.T) {
		r = Review(r, Perfect, domain.Forward, now)
		if r.Interval != 1 {
			t.Errorf("Expected interval 1 after first review, got %d", r.Interval)
		}
		r = Review(r, Perfect, domain.Forward, now)
		if r.Interval != 6 {
			t.Errorf("Expected interval 6 after second review, got %d", r.Interval)
		}
		r = Review(r, Perfect, domain.Reverse, now)
		if r.Interval <= 6 {
			t.Errorf("Expected interval to grow past 6, got %d", r.Interval)
		}
		if r.Repetition != 3 {
			t.Errorf("Expected repetition 3, got %d", r.Repetition)
		}
	})

	t.Run("lapse resets repetition", func(t *testing.T) {
		r = Review(r, Incorrect, domain.Reverse, now)
		if r.Repetition != 0 || r.Interval != 1 {
			t.Errorf("Expected reset to repetition 0 interval 1, got %d/%d", r.Repetition, r.Interval)
		}
	})

	t.Run("counters stay consistent", func(t *testing.T) {
		if r.TotalReviews != r.CorrectCount+r.IncorrectCount {
			t.Errorf("total %d != correct %d + incorrect %d", r.TotalReviews, r.CorrectCount, r.IncorrectCount)
		}
		if r.TotalReviews != 4 || r.ForwardCorrect != 2 || r.ReverseCorrect != 1 || r.ReverseIncorrect != 1 {
			t.Errorf("unexpected counters: %+v", r)
		}
		if r.VocabID != "w1" {
			t.Errorf("Expected vocab id to be kept, got %q", r.VocabID)
		}
	})

	t.Run("next review date follows interval", func(t *testing.T) {
		want := now.AddDate(0, 0, 1).UnixMilli()
		if r.NextReviewDate != want {
			t.Errorf("Expected next review at %d, got %d", want, r.NextReviewDate)
		}
		if r.LastReviewDate != now.UnixMilli() {
			t.Errorf("Expected last review at %d, got %d", now.UnixMilli(), r.LastReviewDate)
		}
	})
}

func TestStatusFromReview(t *testing.T) {
	testCases := []struct {
		name   string
		record domain.ReviewRecord
		want   domain.Status
	}{
		{"never reviewed", domain.ReviewRecord{}, domain.StatusNew},
		{"five of five", domain.ReviewRecord{TotalReviews: 5, CorrectCount: 5, Repetition: 5}, domain.StatusMastered},
		{"many reviews low accuracy", domain.ReviewRecord{TotalReviews: 10, CorrectCount: 5, IncorrectCount: 5, Repetition: 3}, domain.StatusReviewing},
		{"just started", domain.ReviewRecord{TotalReviews: 1, CorrectCount: 1, Repetition: 1}, domain.StatusLearning},
		{"after a lapse", domain.ReviewRecord{TotalReviews: 3, CorrectCount: 2, IncorrectCount: 1}, domain.StatusLearning},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StatusFromReview(tc.record); got != tc.want {
				t.Errorf("Expected %s, got %s", tc.want, got)
			}
		})
	}
}
