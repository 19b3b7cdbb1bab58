package domain

// Direction is which way a card was shown during a review.
type Direction string

const (
	// Forward shows the source text and asks for the target text.
	Forward Direction = "forward"
	// Reverse shows the target text and asks for the source text.
	Reverse Direction = "reverse"
)

// ReviewRecord holds the spaced-repetition state of one vocabulary item.
// TotalReviews always equals CorrectCount + IncorrectCount.
type ReviewRecord struct {
	VocabID          string  `json:"vocabId" db:"vocab_id"`
	EaseFactor       float64 `json:"easeFactor" db:"ease_factor"`
	Interval         int     `json:"interval" db:"interval_days"`
	Repetition       int     `json:"repetition" db:"repetition"`
	NextReviewDate   int64   `json:"nextReviewDate" db:"next_review_date"`
	TotalReviews     int     `json:"totalReviews" db:"total_reviews"`
	CorrectCount     int     `json:"correctCount" db:"correct_count"`
	IncorrectCount   int     `json:"incorrectCount" db:"incorrect_count"`
	ForwardCorrect   int     `json:"forwardCorrect" db:"forward_correct"`
	ForwardIncorrect int     `json:"forwardIncorrect" db:"forward_incorrect"`
	ReverseCorrect   int     `json:"reverseCorrect" db:"reverse_correct"`
	ReverseIncorrect int     `json:"reverseIncorrect" db:"reverse_incorrect"`
	LastReviewDate   int64   `json:"lastReviewDate" db:"last_review_date"`
	CreatedAt        int64   `json:"createdAt" db:"created_at"`
	UpdatedAt        int64   `json:"updatedAt" db:"updated_at"`
}

// ModifiedAt is the later of CreatedAt and UpdatedAt.
func (r ReviewRecord) ModifiedAt() int64 {
	return max(r.CreatedAt, r.UpdatedAt)
}

// Accuracy is the share of correct answers, or 0 before the first review.
func (r ReviewRecord) Accuracy() float64 {
	if r.TotalReviews == 0 {
		return 0
	}
	return float64(r.CorrectCount) / float64(r.TotalReviews)
}

// StatusFunc derives a vocabulary item's status from its review record.
type StatusFunc func(ReviewRecord) Status
