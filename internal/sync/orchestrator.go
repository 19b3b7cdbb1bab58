package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	stdsync "sync"
	"sync/atomic"
	"time"

	"github.com/conorfennell/wordsync/internal/domain"
	"github.com/conorfennell/wordsync/internal/srs"
)

var (
	// ErrSyncInProgress is returned when a round is requested while another is
	// running. The request is dropped, not queued.
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrRoundFailed wraps the cause of a round that ended in StatusError.
	ErrRoundFailed = errors.New("sync round failed")
)

const (
	skipOffline         = "offline"
	skipUnauthenticated = "unauthenticated"
)

// Orchestrator runs sync rounds and owns the SyncState.
type Orchestrator struct {
	store     Store
	remote    Reconciler
	device    domain.Device
	collector *Collector
	merger    *Merger

	network  NetworkProbe
	auth     AuthProbe
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
	window   time.Duration
	status   domain.StatusFunc

	running atomic.Bool

	mu    stdsync.RWMutex
	state SyncState
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithNetworkProbe gates rounds on connectivity. Without one the device is
// assumed online.
func WithNetworkProbe(p NetworkProbe) Option {
	return func(o *Orchestrator) { o.network = p }
}

// WithAuthProbe gates rounds on an authenticated session. Without one the
// device is assumed authenticated.
func WithAuthProbe(p AuthProbe) Option {
	return func(o *Orchestrator) { o.auth = p }
}

func WithNotifier(n Notifier) Option {
	return func(o *Orchestrator) { o.notifier = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithSafetyWindow sets how far before the cursor incremental scans start.
func WithSafetyWindow(d time.Duration) Option {
	return func(o *Orchestrator) { o.window = d }
}

// WithStatusFunc replaces the function that derives an item's status from
// its review record.
func WithStatusFunc(f domain.StatusFunc) Option {
	return func(o *Orchestrator) { o.status = f }
}

// NewOrchestrator creates an Orchestrator and loads the persisted cursor.
func NewOrchestrator(ctx context.Context, store Store, remote Reconciler, device domain.Device, opts ...Option) (*Orchestrator, error) {
	o := &Orchestrator{
		store:  store,
		remote: remote,
		device: device,
		logger: slog.Default(),
		now:    time.Now,
		window: DefaultSafetyWindow,
		status: srs.StatusFromReview,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	o.collector = NewCollector(store, o.window, o.now)
	o.merger = NewMerger(store, o.status, o.logger, o.now)

	cursor, err := store.LastSyncTime(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load last sync time: %w", err)
	}
	o.state = SyncState{SyncStatus: StatusIdle, LastSyncTime: cursor}

	return o, nil
}

// State returns a copy of the current SyncState.
func (o *Orchestrator) State() SyncState {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state.clone()
}

func (o *Orchestrator) update(fn func(*SyncState)) {
	o.mu.Lock()
	fn(&o.state)
	o.mu.Unlock()
}

// Trigger runs a round on behalf of a timer, reconnect event or user action.
// A trigger that arrives while a round is running is dropped.
func (o *Orchestrator) Trigger(ctx context.Context, reason string) {
	_, err := o.Sync(ctx)
	switch {
	case errors.Is(err, ErrSyncInProgress):
		o.logger.Debug("sync trigger dropped, round in flight", "reason", reason)
	case err != nil:
		o.logger.Warn("triggered sync failed", "reason", reason, "error", err)
	}
}

// Sync runs one round and returns the resulting state. It returns
// ErrSyncInProgress without touching state if a round is already running,
// and an error wrapping ErrRoundFailed if the round failed. Skipped rounds
// return a nil error.
//
// Cancelling ctx does not stop a round once it has started: the round runs to
// completion or to its first error. Each remote call is bounded by the
// client's own timeout.
func (o *Orchestrator) Sync(ctx context.Context) (SyncState, error) {
	if !o.running.CompareAndSwap(false, true) {
		return o.State(), ErrSyncInProgress
	}
	defer o.running.Store(false)
	ctx = context.WithoutCancel(ctx)

	// IsSyncing mirrors running so callers rejected above see a round in flight.
	o.update(func(s *SyncState) {
		s.IsSyncing = true
		s.SyncStatus = StatusSyncing
	})

	if reason, ok := o.gate(ctx); !ok {
		o.logger.Info("sync skipped", "reason", reason)
		o.update(func(s *SyncState) {
			s.IsSyncing = false
			s.SyncStatus = StatusSkipped
			s.SkipReason = reason
		})
		return o.State(), nil
	}

	o.update(func(s *SyncState) {
		s.Errors = nil
		s.Conflicts = nil
		s.SkipReason = ""
	})

	started := o.now()
	err := o.round(ctx)
	if err != nil {
		o.logger.Error("sync round failed", "error", err, "duration", time.Since(started))
		o.update(func(s *SyncState) {
			s.IsSyncing = false
			s.SyncStatus = StatusError
			s.Errors = append(s.Errors, SyncError{Message: err.Error(), At: o.now().UnixMilli()})
		})
		return o.State(), fmt.Errorf("%w: %w", ErrRoundFailed, err)
	}

	if o.notifier != nil {
		o.notifier.OnSyncComplete(ctx)
	}
	o.update(func(s *SyncState) {
		s.IsSyncing = false
	})

	state := o.State()
	o.logger.Info("sync round complete",
		"mode", state.Mode,
		"conflicts", len(state.Conflicts),
		"failures", len(state.Errors),
		"duration", time.Since(started))
	return state, nil
}

func (o *Orchestrator) gate(ctx context.Context) (string, bool) {
	if o.network != nil && !o.network.Online(ctx) {
		return skipOffline, false
	}
	if o.auth != nil && !o.auth.Authenticated(ctx) {
		return skipUnauthenticated, false
	}
	return "", true
}

// round runs collect, the three round-trips, tombstone cleanup and the cursor
// advance. Any error leaves the persisted cursor untouched.
func (o *Orchestrator) round(ctx context.Context) error {
	cursor, mode, err := o.mode(ctx)
	if err != nil {
		return err
	}

	batch, err := o.collector.Collect(ctx, cursor)
	if err != nil {
		return err
	}
	o.update(func(s *SyncState) {
		s.Mode = mode
		s.PendingOperations = batch.Len()
	})
	o.logger.Info("sync round started",
		"mode", mode,
		"vocabulary", len(batch.Vocabulary),
		"reviews", len(batch.Reviews),
		"stats", len(batch.Stats))

	vocab, err := o.remote.ReconcileVocabulary(ctx, domain.UploadRequest[domain.VocabularyItem]{
		LastSyncTime: cursor,
		Operations:   batch.Vocabulary,
		DeviceID:     o.device.ID,
	})
	if err != nil {
		return fmt.Errorf("vocabulary round-trip: %w", err)
	}
	o.record(o.merger.MergeVocabulary(ctx, vocab))

	reviews, err := o.remote.ReconcileReviews(ctx, domain.UploadRequest[domain.ReviewRecord]{
		LastSyncTime: cursor,
		Operations:   batch.Reviews,
		DeviceID:     o.device.ID,
	})
	if err != nil {
		return fmt.Errorf("reviews round-trip: %w", err)
	}
	o.record(o.merger.MergeReviews(ctx, reviews))

	stats, err := o.remote.ReconcileStats(ctx, domain.UploadRequest[domain.DailyStat]{
		LastSyncTime: cursor,
		Operations:   batch.Stats,
		DeviceID:     o.device.ID,
	})
	if err != nil {
		return fmt.Errorf("stats round-trip: %w", err)
	}
	o.record(o.merger.MergeStats(ctx, stats))

	if err := o.purge(ctx, batch.Tombstones()); err != nil {
		return err
	}

	now := o.now().UnixMilli()
	if err := o.store.SetLastSyncTime(ctx, now); err != nil {
		return fmt.Errorf("failed to advance cursor: %w", err)
	}

	o.update(func(s *SyncState) {
		s.SyncStatus = StatusSuccess
		s.LastSyncTime = &now
		s.PendingOperations = 0
	})
	return nil
}

// mode picks full or incremental. Full is forced when the cursor is missing
// or either vocabulary or reviews is empty, so a wiped device pulls
// everything instead of reporting no changes.
func (o *Orchestrator) mode(ctx context.Context) (*int64, Mode, error) {
	cursor := o.State().LastSyncTime

	vocab, err := o.store.CountVocabulary(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to count vocabulary: %w", err)
	}
	reviews, err := o.store.CountReviews(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to count reviews: %w", err)
	}

	if cursor == nil || vocab == 0 || reviews == 0 {
		if cursor != nil {
			o.logger.Info("forcing full sync", "vocabulary", vocab, "reviews", reviews)
		}
		return nil, ModeFull, nil
	}
	return cursor, ModeIncremental, nil
}

// purge physically removes tombstones the remote has now acknowledged.
func (o *Orchestrator) purge(ctx context.Context, tombstones []domain.VocabularyItem) error {
	purged := 0
	for _, t := range tombstones {
		ok, err := o.store.PurgeTombstone(ctx, t.ID, t.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to purge tombstone %s: %w", t.ID, err)
		}
		if ok {
			purged++
		}
	}
	if purged > 0 {
		o.logger.Debug("purged acknowledged tombstones", "count", purged)
	}
	return nil
}

func (o *Orchestrator) record(res MergeResult) {
	if len(res.Failures) == 0 && len(res.Conflicts) == 0 {
		return
	}
	o.update(func(s *SyncState) {
		s.Errors = append(s.Errors, res.Failures...)
		s.Conflicts = append(s.Conflicts, res.Conflicts...)
	})
}
