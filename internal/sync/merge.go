package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/conorfennell/wordsync/internal/domain"
)

// MergeResult summarizes applying one entity type's inbound operations.
type MergeResult struct {
	Applied   int
	Skipped   int
	Conflicts []Conflict
	Failures  []SyncError
}

// Merger applies remote operations to the local store one record at a time.
// A record that fails to apply is logged and skipped; the rest of the batch
// still goes through.
type Merger struct {
	store  MergeStore
	status domain.StatusFunc
	logger *slog.Logger
	now    func() time.Time
}

// NewMerger creates a Merger. status derives an item's status from its
// merged review record.
func NewMerger(store MergeStore, status domain.StatusFunc, logger *slog.Logger, now func() time.Time) *Merger {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &Merger{store: store, status: status, logger: logger, now: now}
}

// MergeVocabulary applies remote vocabulary operations. Unknown ids are
// inserted as-is, tombstones included. Known ids are overwritten only when the
// remote record is strictly newer; otherwise local wins.
func (m *Merger) MergeVocabulary(ctx context.Context, ops []domain.Operation[domain.VocabularyItem]) MergeResult {
	var res MergeResult
	for _, op := range ops {
		remote := op.Data
		if err := m.mergeVocabularyItem(ctx, remote, &res); err != nil {
			m.fail(&res, domain.EntityVocabulary, remote.ID, err)
		}
	}
	return res
}

func (m *Merger) mergeVocabularyItem(ctx context.Context, remote domain.VocabularyItem, res *MergeResult) error {
	if remote.ID == "" {
		return errors.New("operation has no id")
	}

	local, err := m.store.FindVocabulary(ctx, remote.ID)
	if err != nil {
		return err
	}

	if local == nil {
		if err := m.store.UpsertVocabulary(ctx, remote); err != nil {
			return err
		}
		res.Applied++
		return nil
	}

	if remote.UpdatedAt <= local.UpdatedAt {
		if remote.UpdatedAt < local.UpdatedAt {
			res.Conflicts = append(res.Conflicts, Conflict{
				EntityType:      domain.EntityVocabulary,
				EntityID:        remote.ID,
				LocalUpdatedAt:  local.UpdatedAt,
				RemoteUpdatedAt: remote.UpdatedAt,
				Resolution:      KeptLocal,
			})
		}
		res.Skipped++
		return nil
	}

	if err := m.store.UpsertVocabulary(ctx, remote); err != nil {
		return err
	}
	res.Applied++
	res.Conflicts = append(res.Conflicts, Conflict{
		EntityType:      domain.EntityVocabulary,
		EntityID:        remote.ID,
		LocalUpdatedAt:  local.UpdatedAt,
		RemoteUpdatedAt: remote.UpdatedAt,
		Resolution:      KeptRemote,
	})
	if local.Phase() != remote.Phase() {
		m.logger.Info("vocabulary phase changed by merge", "id", remote.ID, "from", local.Phase(), "to", remote.Phase())
	}
	return nil
}

// MergeReviews applies remote review records with update-or-create, then
// recomputes the owning item's status from the merged record.
func (m *Merger) MergeReviews(ctx context.Context, ops []domain.Operation[domain.ReviewRecord]) MergeResult {
	var res MergeResult
	for _, op := range ops {
		remote := op.Data
		if err := m.mergeReview(ctx, remote); err != nil {
			m.fail(&res, domain.EntityReviews, remote.VocabID, err)
			continue
		}
		res.Applied++
	}
	return res
}

func (m *Merger) mergeReview(ctx context.Context, remote domain.ReviewRecord) error {
	if remote.VocabID == "" {
		return errors.New("review has no vocabId")
	}
	if remote.TotalReviews != remote.CorrectCount+remote.IncorrectCount {
		return fmt.Errorf("inconsistent counters: total %d, correct %d, incorrect %d",
			remote.TotalReviews, remote.CorrectCount, remote.IncorrectCount)
	}

	updated, err := m.store.UpdateReview(ctx, remote)
	if err != nil || !updated {
		if createErr := m.store.CreateReview(ctx, remote); createErr != nil {
			return errors.Join(err, createErr)
		}
	}

	return m.refreshStatus(ctx, remote)
}

// refreshStatus keeps the derived status in line with the merged review,
// writing only when it changed.
func (m *Merger) refreshStatus(ctx context.Context, r domain.ReviewRecord) error {
	item, err := m.store.FindVocabulary(ctx, r.VocabID)
	if err != nil {
		return fmt.Errorf("status refresh: %w", err)
	}
	if item == nil || item.IsDeleted {
		return nil
	}
	status := m.status(r)
	if status == item.Status {
		return nil
	}
	if err := m.store.SetVocabularyStatus(ctx, item.ID, status); err != nil {
		return fmt.Errorf("status refresh: %w", err)
	}
	m.logger.Debug("vocabulary status recomputed", "id", item.ID, "from", item.Status, "to", status)
	return nil
}

// MergeStats replaces each date's local snapshot with the remote one,
// keeping the remote UpdatedAt. Counters are never added together.
func (m *Merger) MergeStats(ctx context.Context, stats []domain.DailyStat) MergeResult {
	var res MergeResult
	for _, s := range stats {
		if _, err := time.Parse(domain.DateLayout, s.Date); err != nil {
			m.fail(&res, domain.EntityStats, s.Date, fmt.Errorf("invalid date: %w", err))
			continue
		}
		if err := m.store.UpsertStats(ctx, s, true); err != nil {
			m.fail(&res, domain.EntityStats, s.Date, err)
			continue
		}
		res.Applied++
	}
	return res
}

func (m *Merger) fail(res *MergeResult, entity domain.EntityType, id string, err error) {
	m.logger.Warn("failed to apply remote operation, skipping", "entity", entity, "id", id, "error", err)
	res.Failures = append(res.Failures, SyncError{
		EntityType: entity,
		EntityID:   id,
		Message:    err.Error(),
		At:         m.now().UnixMilli(),
	})
}
