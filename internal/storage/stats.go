package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/conorfennell/wordsync/internal/domain"
)

const statColumns = `date, cards_reviewed, new_words_added, accuracy_rate, COALESCE(updated_at, 0) AS updated_at`

// FindStat retrieves the snapshot for a date.
func (db *DB) FindStat(ctx context.Context, date string) (*domain.DailyStat, error) {
	var s domain.DailyStat
	err := db.conn.GetContext(ctx, &s, `SELECT `+statColumns+` FROM daily_stats WHERE date = ?`, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No activity recorded that day
		}
		return nil, fmt.Errorf("failed to find stats for %s: %w", date, err)
	}
	return &s, nil
}

// ListStats returns every daily snapshot ordered by date.
func (db *DB) ListStats(ctx context.Context) ([]domain.DailyStat, error) {
	var stats []domain.DailyStat
	if err := db.conn.SelectContext(ctx, &stats, `SELECT `+statColumns+` FROM daily_stats ORDER BY date`); err != nil {
		return nil, fmt.Errorf("failed to list stats: %w", err)
	}
	return stats, nil
}

// UpsertStats replaces the snapshot for s.Date wholesale. With
// preserveTimestamp the given UpdatedAt is kept; otherwise it is stamped now.
func (db *DB) UpsertStats(ctx context.Context, s domain.DailyStat, preserveTimestamp bool) error {
	if !preserveTimestamp {
		s.UpdatedAt = db.nowMillis()
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO daily_stats (date, cards_reviewed, new_words_added, accuracy_rate, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			cards_reviewed = excluded.cards_reviewed,
			new_words_added = excluded.new_words_added,
			accuracy_rate = excluded.accuracy_rate,
			updated_at = excluded.updated_at
	`, s.Date, s.CardsReviewed, s.NewWordsAdded, s.AccuracyRate, nullableMillis(s.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert stats for %s: %w", s.Date, err)
	}
	return nil
}

// Activity is a delta of work done on one day.
type Activity struct {
	CardsReviewed int
	Correct       int
	NewWordsAdded int
}

// RecordDailyActivity adds a to the snapshot of today, recomputing the
// accuracy rate as a running average over reviewed cards.
func (db *DB) RecordDailyActivity(ctx context.Context, a Activity) (*domain.DailyStat, error) {
	date := db.now().Format(domain.DateLayout)
	current, err := db.FindStat(ctx, date)
	if err != nil {
		return nil, err
	}
	s := domain.DailyStat{Date: date}
	if current != nil {
		s = *current
	}

	correctSoFar := s.AccuracyRate * float64(s.CardsReviewed)
	s.CardsReviewed += a.CardsReviewed
	s.NewWordsAdded += a.NewWordsAdded
	if s.CardsReviewed > 0 {
		s.AccuracyRate = (correctSoFar + float64(a.Correct)) / float64(s.CardsReviewed)
	}

	if err := db.UpsertStats(ctx, s, false); err != nil {
		return nil, err
	}
	return db.FindStat(ctx, date)
}
