package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/conorfennell/wordsync/internal/domain"
)

const reviewColumns = `vocab_id, ease_factor, interval_days, repetition, next_review_date,
	total_reviews, correct_count, incorrect_count,
	forward_correct, forward_incorrect, reverse_correct, reverse_incorrect,
	COALESCE(last_review_date, 0) AS last_review_date, created_at, updated_at`

// FindReview retrieves the review record of a vocabulary item.
func (db *DB) FindReview(ctx context.Context, vocabID string) (*domain.ReviewRecord, error) {
	var r domain.ReviewRecord
	err := db.conn.GetContext(ctx, &r, `SELECT `+reviewColumns+` FROM reviews WHERE vocab_id = ?`, vocabID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not reviewed yet
		}
		return nil, fmt.Errorf("failed to find review for %s: %w", vocabID, err)
	}
	return &r, nil
}

// ListReviews returns every review record.
func (db *DB) ListReviews(ctx context.Context) ([]domain.ReviewRecord, error) {
	var records []domain.ReviewRecord
	if err := db.conn.SelectContext(ctx, &records, `SELECT `+reviewColumns+` FROM reviews ORDER BY vocab_id`); err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return records, nil
}

// ListReviewsModifiedSince returns review records created or updated strictly
// after since.
func (db *DB) ListReviewsModifiedSince(ctx context.Context, since int64) ([]domain.ReviewRecord, error) {
	var records []domain.ReviewRecord
	err := db.conn.SelectContext(ctx, &records, `
		SELECT `+reviewColumns+` FROM reviews
		WHERE MAX(created_at, updated_at) > ?
		ORDER BY updated_at, vocab_id
	`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews modified since %d: %w", since, err)
	}
	return records, nil
}

// UpdateReview overwrites the stored record for r.VocabID as-is. It reports
// false when there is no record to update.
func (db *DB) UpdateReview(ctx context.Context, r domain.ReviewRecord) (bool, error) {
	res, err := db.conn.ExecContext(ctx, `
		UPDATE reviews
		SET ease_factor = ?, interval_days = ?, repetition = ?, next_review_date = ?,
			total_reviews = ?, correct_count = ?, incorrect_count = ?,
			forward_correct = ?, forward_incorrect = ?, reverse_correct = ?, reverse_incorrect = ?,
			last_review_date = ?, created_at = ?, updated_at = ?
		WHERE vocab_id = ?
	`,
		r.EaseFactor, r.Interval, r.Repetition, r.NextReviewDate,
		r.TotalReviews, r.CorrectCount, r.IncorrectCount,
		r.ForwardCorrect, r.ForwardIncorrect, r.ReverseCorrect, r.ReverseIncorrect,
		nullableMillis(r.LastReviewDate), r.CreatedAt, r.UpdatedAt,
		r.VocabID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update review for %s: %w", r.VocabID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to update review for %s: %w", r.VocabID, err)
	}
	return n > 0, nil
}

// CreateReview inserts r as-is.
func (db *DB) CreateReview(ctx context.Context, r domain.ReviewRecord) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO reviews (
			vocab_id, ease_factor, interval_days, repetition, next_review_date,
			total_reviews, correct_count, incorrect_count,
			forward_correct, forward_incorrect, reverse_correct, reverse_incorrect,
			last_review_date, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.VocabID, r.EaseFactor, r.Interval, r.Repetition, r.NextReviewDate,
		r.TotalReviews, r.CorrectCount, r.IncorrectCount,
		r.ForwardCorrect, r.ForwardIncorrect, r.ReverseCorrect, r.ReverseIncorrect,
		nullableMillis(r.LastReviewDate), r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create review for %s: %w", r.VocabID, err)
	}
	return nil
}

// RecordReview saves the outcome of a review made on this device, stamping
// updated_at (and created_at for the first review).
func (db *DB) RecordReview(ctx context.Context, r *domain.ReviewRecord) error {
	now := db.nowMillis()
	if r.CreatedAt == 0 {
		r.CreatedAt = now
	}
	r.UpdatedAt = now

	updated, err := db.UpdateReview(ctx, *r)
	if err != nil {
		return err
	}
	if updated {
		return nil
	}
	return db.CreateReview(ctx, *r)
}

// CountReviews counts stored review records.
func (db *DB) CountReviews(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.GetContext(ctx, &n, `SELECT COUNT(*) FROM reviews`); err != nil {
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	return n, nil
}

// DueItem pairs a live vocabulary item with its review record, if any.
type DueItem struct {
	Item   domain.VocabularyItem `json:"item"`
	Review *domain.ReviewRecord  `json:"review,omitempty"`
}

// DueReviews returns live items that are due at now: never reviewed, or with
// a next review date at or before now. Never-reviewed items come first.
// limit <= 0 returns every due item.
func (db *DB) DueReviews(ctx context.Context, now int64, limit int) ([]DueItem, error) {
	query := `
		SELECT
			v.id AS "item.id", v.source_text AS "item.source_text", v.target_text AS "item.target_text",
			v.tags AS "item.tags", v.notes AS "item.notes", v.status AS "item.status",
			v.version AS "item.version", v.created_at AS "item.created_at",
			v.updated_at AS "item.updated_at", v.is_deleted AS "item.is_deleted",
			r.vocab_id IS NOT NULL AS reviewed,
			COALESCE(r.vocab_id, '') AS "review.vocab_id",
			COALESCE(r.ease_factor, 0) AS "review.ease_factor",
			COALESCE(r.interval_days, 0) AS "review.interval_days",
			COALESCE(r.repetition, 0) AS "review.repetition",
			COALESCE(r.next_review_date, 0) AS "review.next_review_date",
			COALESCE(r.total_reviews, 0) AS "review.total_reviews",
			COALESCE(r.correct_count, 0) AS "review.correct_count",
			COALESCE(r.incorrect_count, 0) AS "review.incorrect_count",
			COALESCE(r.forward_correct, 0) AS "review.forward_correct",
			COALESCE(r.forward_incorrect, 0) AS "review.forward_incorrect",
			COALESCE(r.reverse_correct, 0) AS "review.reverse_correct",
			COALESCE(r.reverse_incorrect, 0) AS "review.reverse_incorrect",
			COALESCE(r.last_review_date, 0) AS "review.last_review_date",
			COALESCE(r.created_at, 0) AS "review.created_at",
			COALESCE(r.updated_at, 0) AS "review.updated_at"
		FROM vocabulary v
		LEFT JOIN reviews r ON r.vocab_id = v.id
		WHERE v.is_deleted = 0 AND (r.vocab_id IS NULL OR r.next_review_date <= ?)
		ORDER BY r.vocab_id IS NOT NULL, v.created_at, v.id`
	args := []any{now}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	var rows []struct {
		Item     domain.VocabularyItem `db:"item"`
		Review   domain.ReviewRecord   `db:"review"`
		Reviewed bool                  `db:"reviewed"`
	}
	if err := db.conn.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list due reviews: %w", err)
	}

	out := make([]DueItem, 0, len(rows))
	for _, row := range rows {
		item := DueItem{Item: row.Item}
		if row.Reviewed {
			review := row.Review
			item.Review = &review
		}
		out = append(out, item)
	}
	return out, nil
}

func nullableMillis(v int64) any {
	if v == 0 {
		return nil
	}
	return v
}
