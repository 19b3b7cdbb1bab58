package srs

import "github.com/conorfennell/wordsync/internal/domain"

const (
	masteredMinReviews  = 5
	masteredMinAccuracy = 0.8
	reviewingMinStreak  = 2
)

// StatusFromReview derives the displayed status of an item from its review
// record. It satisfies domain.StatusFunc.
func StatusFromReview(r domain.ReviewRecord) domain.Status {
	switch {
	case r.TotalReviews == 0:
		return domain.StatusNew
	case r.TotalReviews >= masteredMinReviews && r.Accuracy() >= masteredMinAccuracy:
		return domain.StatusMastered
	case r.Repetition >= reviewingMinStreak:
		return domain.StatusReviewing
	default:
		return domain.StatusLearning
	}
}
