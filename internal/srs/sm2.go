// Package srs holds the spaced-repetition policy: the SM-2 review update and
// the status derived from a review record. Sync code only sees these through
// domain.StatusFunc.
package srs

import (
	"math"
	"time"

	"github.com/conorfennell/wordsync/internal/domain"
)

// Quality is the SM-2 response grade, 0 (blackout) to 5 (perfect).
type Quality int

const (
	Blackout          Quality = 0
	Incorrect         Quality = 1
	IncorrectFamiliar Quality = 2
	CorrectDifficult  Quality = 3
	CorrectHesitation Quality = 4
	Perfect           Quality = 5
)

// Valid reports whether q is within the SM-2 scale.
func (q Quality) Valid() bool {
	return q >= Blackout && q <= Perfect
}

// Passed reports whether q counts as a correct answer.
func (q Quality) Passed() bool {
	return q >= CorrectDifficult
}

const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
)

// Review applies one graded answer to r and returns the updated record.
// TotalReviews is kept equal to CorrectCount + IncorrectCount.
func Review(r domain.ReviewRecord, q Quality, dir domain.Direction, now time.Time) domain.ReviewRecord {
	ef := r.EaseFactor
	if ef == 0 {
		ef = DefaultEaseFactor
	}

	// Formula: EF' = EF + (0.1 - (5-q) * (0.08 + (5-q) * 0.02))
	d := float64(Perfect - q)
	ef = math.Max(MinEaseFactor, ef+(0.1-d*(0.08+d*0.02)))
	r.EaseFactor = ef

	if q.Passed() {
		r.Repetition++
		switch r.Repetition {
		case 1:
			r.Interval = 1
		case 2:
			r.Interval = 6
		default:
			r.Interval = int(math.Ceil(float64(max(r.Interval, 1)) * ef))
		}
		r.CorrectCount++
		if dir == domain.Reverse {
			r.ReverseCorrect++
		} else {
			r.ForwardCorrect++
		}
	} else {
		r.Repetition = 0
		r.Interval = 1
		r.IncorrectCount++
		if dir == domain.Reverse {
			r.ReverseIncorrect++
		} else {
			r.ForwardIncorrect++
		}
	}

	r.TotalReviews = r.CorrectCount + r.IncorrectCount
	r.LastReviewDate = now.UnixMilli()
	r.NextReviewDate = now.AddDate(0, 0, r.Interval).UnixMilli()
	return r
}
