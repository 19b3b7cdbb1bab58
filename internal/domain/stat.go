package domain

// DateLayout is the key format of DailyStat.Date.
const DateLayout = "2006-01-02"

// DailyStat is the activity snapshot for one device-local calendar date.
// UpdatedAt is zero for legacy rows recorded before it was tracked.
type DailyStat struct {
	Date          string  `json:"date" db:"date"`
	CardsReviewed int     `json:"cardsReviewed" db:"cards_reviewed"`
	NewWordsAdded int     `json:"newWordsAdded" db:"new_words_added"`
	AccuracyRate  float64 `json:"accuracyRate" db:"accuracy_rate"`
	UpdatedAt     int64   `json:"updatedAt,omitempty" db:"updated_at"`
}
