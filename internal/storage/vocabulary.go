package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/conorfennell/wordsync/internal/domain"
)

// ErrNotFound is returned by user-facing updates that target a missing or
// already deleted row.
var ErrNotFound = errors.New("not found")

const vocabularyColumns = `id, source_text, target_text, tags, notes, status, version, created_at, updated_at, is_deleted`

// CreateVocabulary inserts a new item on behalf of the user, stamping its
// timestamps and starting its version at 1.
func (db *DB) CreateVocabulary(ctx context.Context, item *domain.VocabularyItem) error {
	now := db.nowMillis()
	item.CreatedAt = now
	item.UpdatedAt = now
	item.Version = 1
	item.IsDeleted = false
	if item.Status == "" {
		item.Status = domain.StatusNew
	}
	if err := db.insertVocabulary(ctx, item); err != nil {
		return fmt.Errorf("failed to insert vocabulary %s: %w", item.ID, err)
	}
	return nil
}

// UpdateVocabulary saves a user edit of an item's text, tags or notes.
func (db *DB) UpdateVocabulary(ctx context.Context, item *domain.VocabularyItem) error {
	now := db.nowMillis()
	res, err := db.conn.ExecContext(ctx, `
		UPDATE vocabulary
		SET source_text = ?, target_text = ?, tags = ?, notes = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND is_deleted = 0
	`, item.SourceText, item.TargetText, item.Tags, item.Notes, now, item.ID)
	if err != nil {
		return fmt.Errorf("failed to update vocabulary %s: %w", item.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("vocabulary %s: %w", item.ID, ErrNotFound)
	}
	item.UpdatedAt = now
	return nil
}

// SoftDeleteVocabulary turns an item into a tombstone. The row stays until a
// sync round has uploaded the deletion.
func (db *DB) SoftDeleteVocabulary(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `
		UPDATE vocabulary
		SET is_deleted = 1, version = version + 1, updated_at = ?
		WHERE id = ? AND is_deleted = 0
	`, db.nowMillis(), id)
	if err != nil {
		return fmt.Errorf("failed to delete vocabulary %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("vocabulary %s: %w", id, ErrNotFound)
	}
	return nil
}

// FindVocabulary retrieves an item by id, tombstones included.
func (db *DB) FindVocabulary(ctx context.Context, id string) (*domain.VocabularyItem, error) {
	var item domain.VocabularyItem
	err := db.conn.GetContext(ctx, &item, `SELECT `+vocabularyColumns+` FROM vocabulary WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Item not found
		}
		return nil, fmt.Errorf("failed to find vocabulary %s: %w", id, err)
	}
	return &item, nil
}

// ListVocabulary returns all items, optionally including tombstones.
func (db *DB) ListVocabulary(ctx context.Context, includeDeleted bool) ([]domain.VocabularyItem, error) {
	query := `SELECT ` + vocabularyColumns + ` FROM vocabulary`
	if !includeDeleted {
		query += ` WHERE is_deleted = 0`
	}
	query += ` ORDER BY created_at, id`

	var items []domain.VocabularyItem
	if err := db.conn.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("failed to list vocabulary: %w", err)
	}
	return items, nil
}

// ListVocabularyModifiedSince returns items, tombstones included, created or
// updated strictly after since.
func (db *DB) ListVocabularyModifiedSince(ctx context.Context, since int64) ([]domain.VocabularyItem, error) {
	var items []domain.VocabularyItem
	err := db.conn.SelectContext(ctx, &items, `
		SELECT `+vocabularyColumns+` FROM vocabulary
		WHERE MAX(created_at, updated_at) > ?
		ORDER BY updated_at, id
	`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list vocabulary modified since %d: %w", since, err)
	}
	return items, nil
}

// UpsertVocabulary stores item exactly as given. It is the merge path and
// never stamps timestamps.
func (db *DB) UpsertVocabulary(ctx context.Context, item domain.VocabularyItem) error {
	if err := db.insertVocabulary(ctx, &item); err != nil {
		return fmt.Errorf("failed to upsert vocabulary %s: %w", item.ID, err)
	}
	return nil
}

func (db *DB) insertVocabulary(ctx context.Context, item *domain.VocabularyItem) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO vocabulary (`+vocabularyColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_text = excluded.source_text,
			target_text = excluded.target_text,
			tags = excluded.tags,
			notes = excluded.notes,
			status = excluded.status,
			version = excluded.version,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			is_deleted = excluded.is_deleted
	`,
		item.ID,
		item.SourceText,
		item.TargetText,
		item.Tags,
		item.Notes,
		item.Status,
		item.Version,
		item.CreatedAt,
		item.UpdatedAt,
		item.IsDeleted,
	)
	return err
}

// SetVocabularyStatus writes the derived status of an item. The status is
// recomputed on every device, so this does not touch updated_at.
func (db *DB) SetVocabularyStatus(ctx context.Context, id string, status domain.Status) error {
	_, err := db.conn.ExecContext(ctx, `UPDATE vocabulary SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to set status for vocabulary %s: %w", id, err)
	}
	return nil
}

// CountVocabulary counts every stored item, tombstones included.
func (db *DB) CountVocabulary(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.GetContext(ctx, &n, `SELECT COUNT(*) FROM vocabulary`); err != nil {
		return 0, fmt.Errorf("failed to count vocabulary: %w", err)
	}
	return n, nil
}

// CountLiveVocabulary counts items that are not tombstoned.
func (db *DB) CountLiveVocabulary(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.GetContext(ctx, &n, `SELECT COUNT(*) FROM vocabulary WHERE is_deleted = 0`); err != nil {
		return 0, fmt.Errorf("failed to count live vocabulary: %w", err)
	}
	return n, nil
}

// DeletePhysically removes an item and its review record.
func (db *DB) DeletePhysically(ctx context.Context, id string) error {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delete of %s: %w", id, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM vocabulary WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete vocabulary %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE vocab_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete review for %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete of %s: %w", id, err)
	}
	return nil
}

// PurgeTombstone physically removes an item only if it is still a tombstone
// and no newer than acknowledgedAt. It reports whether a row was removed.
func (db *DB) PurgeTombstone(ctx context.Context, id string, acknowledgedAt int64) (bool, error) {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin purge of %s: %w", id, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		DELETE FROM vocabulary
		WHERE id = ? AND is_deleted = 1 AND updated_at <= ?
	`, id, acknowledgedAt)
	if err != nil {
		return false, fmt.Errorf("failed to purge vocabulary %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to purge vocabulary %s: %w", id, err)
	}
	if n == 0 {
		return false, nil
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE vocab_id = ?`, id); err != nil {
		return false, fmt.Errorf("failed to purge review for %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit purge of %s: %w", id, err)
	}
	return true, nil
}
