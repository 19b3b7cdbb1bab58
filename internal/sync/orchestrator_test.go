package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/conorfennell/wordsync/internal/domain"
	mock_sync "github.com/conorfennell/wordsync/internal/mocks/sync"
	"github.com/conorfennell/wordsync/internal/storage"
)

type (
	vocabOps  = []domain.Operation[domain.VocabularyItem]
	reviewOps = []domain.Operation[domain.ReviewRecord]
	vocabReq  = domain.UploadRequest[domain.VocabularyItem]
	reviewReq = domain.UploadRequest[domain.ReviewRecord]
	statsReq  = domain.UploadRequest[domain.DailyStat]
)

var testDevice = domain.Device{ID: "device-1", Label: "test (linux)"}

func newTestOrchestrator(t *testing.T, db *storage.DB, clock *testClock, remote Reconciler, opts ...Option) *Orchestrator {
	t.Helper()
	opts = append([]Option{WithClock(clock.Now), WithLogger(quietLogger())}, opts...)
	o, err := NewOrchestrator(context.Background(), db, remote, testDevice, opts...)
	require.NoError(t, err)
	return o
}

// seedSynced leaves the store with a prior cursor and non-empty collections.
func seedSynced(t *testing.T, db *storage.DB, cursor int64) {
	t.Helper()
	old := cursor - time.Hour.Milliseconds()
	seedItem(t, db, domain.VocabularyItem{ID: "w1", CreatedAt: old, UpdatedAt: old})
	seedReview(t, db, domain.ReviewRecord{VocabID: "w1", TotalReviews: 1, CorrectCount: 1, Repetition: 1, CreatedAt: old, UpdatedAt: old})
	require.NoError(t, db.SetLastSyncTime(context.Background(), cursor))
}

func TestNewOrchestratorLoadsCursor(t *testing.T) {
	db, clock := openStore(t)
	require.NoError(t, db.SetLastSyncTime(context.Background(), 1234))

	o := newTestOrchestrator(t, db, clock, nil)
	state := o.State()
	require.NotNil(t, state.LastSyncTime)
	assert.Equal(t, int64(1234), *state.LastSyncTime)
	assert.Equal(t, StatusIdle, state.SyncStatus)
	assert.False(t, state.IsSyncing)
}

func TestSyncColdStartForcesFullMode(t *testing.T) {
	tests := []struct {
		name       string
		seedVocab  bool
		seedReview bool
	}{
		{name: "both collections empty"},
		{name: "reviews empty", seedVocab: true},
		{name: "vocabulary empty", seedReview: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			db, clock := openStore(t)
			cursor := ms(base.Add(-time.Hour))
			require.NoError(t, db.SetLastSyncTime(ctx, cursor))
			if tt.seedVocab {
				seedItem(t, db, domain.VocabularyItem{ID: "w1", CreatedAt: 1, UpdatedAt: 1})
			}
			if tt.seedReview {
				seedReview(t, db, domain.ReviewRecord{VocabID: "w9", CreatedAt: 1, UpdatedAt: 1})
			}

			ctrl := gomock.NewController(t)
			remote := mock_sync.NewMockReconciler(ctrl)
			remote.EXPECT().ReconcileVocabulary(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, req vocabReq) (vocabOps, error) {
					assert.Nil(t, req.LastSyncTime)
					assert.Equal(t, testDevice.ID, req.DeviceID)
					if tt.seedVocab {
						assert.Len(t, req.Operations, 1, "full sync resends old items")
					}
					return nil, nil
				})
			remote.EXPECT().ReconcileReviews(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, req reviewReq) (reviewOps, error) {
					assert.Nil(t, req.LastSyncTime)
					return nil, nil
				})
			remote.EXPECT().ReconcileStats(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, req statsReq) ([]domain.DailyStat, error) {
					assert.Nil(t, req.LastSyncTime)
					return nil, nil
				})

			state, err := newTestOrchestrator(t, db, clock, remote).Sync(ctx)
			require.NoError(t, err)
			assert.Equal(t, ModeFull, state.Mode)
			assert.Equal(t, StatusSuccess, state.SyncStatus)
		})
	}
}

func TestSyncSuccessfulRound(t *testing.T) {
	ctx := context.Background()
	db, clock := openStore(t)
	cursor := ms(base)
	seedSynced(t, db, cursor)

	clock.Advance(5 * time.Minute)
	seedItem(t, db, domain.VocabularyItem{ID: "gone", CreatedAt: cursor - 1000, UpdatedAt: ms(clock.Now()), IsDeleted: true})
	seedItem(t, db, domain.VocabularyItem{ID: "shared", Notes: "mine", CreatedAt: cursor - 1000, UpdatedAt: cursor + 1000})
	clock.Advance(time.Minute)

	ctrl := gomock.NewController(t)
	remote := mock_sync.NewMockReconciler(ctrl)
	notifier := mock_sync.NewMockNotifier(ctrl)

	gomock.InOrder(
		remote.EXPECT().ReconcileVocabulary(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req vocabReq) (vocabOps, error) {
				require.NotNil(t, req.LastSyncTime)
				assert.Equal(t, cursor, *req.LastSyncTime)
				assert.ElementsMatch(t, []string{"gone", "shared"}, opDataIDs(req.Operations))
				return vocabOps{
					vocabOp(domain.VocabularyItem{ID: "shared", Notes: "theirs", CreatedAt: cursor - 1000, UpdatedAt: cursor + 2000}),
					vocabOp(domain.VocabularyItem{ID: "new", TargetText: "bird", CreatedAt: cursor + 500, UpdatedAt: cursor + 500}),
				}, nil
			}),
		remote.EXPECT().ReconcileReviews(gomock.Any(), gomock.Any()).Return(reviewOps{
			reviewOp(domain.ReviewRecord{VocabID: "new", TotalReviews: 5, CorrectCount: 5, Repetition: 5, CreatedAt: cursor + 500, UpdatedAt: cursor + 600}),
			reviewOp(domain.ReviewRecord{VocabID: "bad", TotalReviews: 2}),
		}, nil),
		remote.EXPECT().ReconcileStats(gomock.Any(), gomock.Any()).Return([]domain.DailyStat{
			{Date: "2026-02-10", CardsReviewed: 7, UpdatedAt: cursor + 700},
		}, nil),
		notifier.EXPECT().OnSyncComplete(gomock.Any()),
	)

	o := newTestOrchestrator(t, db, clock, remote, WithNotifier(notifier))
	state, err := o.Sync(ctx)
	require.NoError(t, err)

	now := ms(clock.Now())
	assert.Equal(t, StatusSuccess, state.SyncStatus)
	assert.Equal(t, ModeIncremental, state.Mode)
	assert.False(t, state.IsSyncing)
	assert.Zero(t, state.PendingOperations)
	require.NotNil(t, state.LastSyncTime)
	assert.Equal(t, now, *state.LastSyncTime)

	stored, err := db.LastSyncTime(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, now, *stored)

	gone, err := db.FindVocabulary(ctx, "gone")
	require.NoError(t, err)
	assert.Nil(t, gone, "acknowledged tombstone is purged")

	shared, err := db.FindVocabulary(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, "theirs", shared.Notes)

	added, err := db.FindVocabulary(ctx, "new")
	require.NoError(t, err)
	require.NotNil(t, added)
	assert.Equal(t, domain.StatusMastered, added.Status)

	stat, err := db.FindStat(ctx, "2026-02-10")
	require.NoError(t, err)
	assert.Equal(t, 7, stat.CardsReviewed)

	require.Len(t, state.Conflicts, 1)
	assert.Equal(t, "shared", state.Conflicts[0].EntityID)
	assert.Equal(t, KeptRemote, state.Conflicts[0].Resolution)
	require.Len(t, state.Errors, 1)
	assert.Equal(t, "bad", state.Errors[0].EntityID)
}

func TestSyncFailureLeavesCursor(t *testing.T) {
	ctx := context.Background()
	db, clock := openStore(t)
	d1 := ms(base)
	seedSynced(t, db, d1)
	clock.Advance(time.Minute)
	seedItem(t, db, domain.VocabularyItem{ID: "gone", CreatedAt: d1 - 1000, UpdatedAt: ms(clock.Now()), IsDeleted: true})
	clock.Advance(time.Minute)

	ctrl := gomock.NewController(t)
	remote := mock_sync.NewMockReconciler(ctrl)
	notifier := mock_sync.NewMockNotifier(ctrl)
	o := newTestOrchestrator(t, db, clock, remote, WithNotifier(notifier))

	remote.EXPECT().ReconcileVocabulary(gomock.Any(), gomock.Any()).Return(nil, nil)
	remote.EXPECT().ReconcileReviews(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset"))

	state, err := o.Sync(ctx)
	require.ErrorIs(t, err, ErrRoundFailed)
	assert.ErrorContains(t, err, "connection reset")
	assert.Equal(t, StatusError, state.SyncStatus)
	assert.False(t, state.IsSyncing)
	require.NotEmpty(t, state.Errors)
	require.NotNil(t, state.LastSyncTime)
	assert.Equal(t, d1, *state.LastSyncTime)

	stored, err := db.LastSyncTime(ctx)
	require.NoError(t, err)
	assert.Equal(t, d1, *stored)

	gone, err := db.FindVocabulary(ctx, "gone")
	require.NoError(t, err)
	assert.NotNil(t, gone, "tombstone stays until a round completes")

	t.Run("next round retries the same window", func(t *testing.T) {
		clock.Advance(time.Minute)
		remote.EXPECT().ReconcileVocabulary(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req vocabReq) (vocabOps, error) {
				require.NotNil(t, req.LastSyncTime)
				assert.Equal(t, d1, *req.LastSyncTime)
				assert.Contains(t, opDataIDs(req.Operations), "gone")
				return nil, nil
			})
		remote.EXPECT().ReconcileReviews(gomock.Any(), gomock.Any()).Return(nil, nil)
		remote.EXPECT().ReconcileStats(gomock.Any(), gomock.Any()).Return(nil, nil)
		notifier.EXPECT().OnSyncComplete(gomock.Any())

		state, err := o.Sync(ctx)
		require.NoError(t, err)
		assert.Equal(t, StatusSuccess, state.SyncStatus)
		assert.Empty(t, state.Errors)
		assert.Equal(t, ms(clock.Now()), *state.LastSyncTime)
	})
}

func TestSyncGates(t *testing.T) {
	tests := []struct {
		name          string
		online        bool
		authenticated bool
		reason        string
	}{
		{name: "offline", online: false, reason: "offline"},
		{name: "signed out", online: true, authenticated: false, reason: "unauthenticated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, clock := openStore(t)
			seedSynced(t, db, 1000)

			ctrl := gomock.NewController(t)
			remote := mock_sync.NewMockReconciler(ctrl)
			network := mock_sync.NewMockNetworkProbe(ctrl)
			auth := mock_sync.NewMockAuthProbe(ctrl)
			network.EXPECT().Online(gomock.Any()).Return(tt.online)
			if tt.online {
				auth.EXPECT().Authenticated(gomock.Any()).Return(tt.authenticated)
			}

			o := newTestOrchestrator(t, db, clock, remote, WithNetworkProbe(network), WithAuthProbe(auth))
			state, err := o.Sync(context.Background())
			require.NoError(t, err)
			assert.Equal(t, StatusSkipped, state.SyncStatus)
			assert.Equal(t, tt.reason, state.SkipReason)
			assert.False(t, state.IsSyncing)
			assert.Equal(t, int64(1000), *state.LastSyncTime)
			assert.Empty(t, state.Errors)

			stored, err := db.LastSyncTime(context.Background())
			require.NoError(t, err)
			assert.Equal(t, int64(1000), *stored)
		})
	}
}

func TestSyncSingleFlight(t *testing.T) {
	ctx := context.Background()
	db, clock := openStore(t)
	seedSynced(t, db, ms(base))

	ctrl := gomock.NewController(t)
	remote := mock_sync.NewMockReconciler(ctrl)

	entered := make(chan struct{})
	release := make(chan struct{})
	remote.EXPECT().ReconcileVocabulary(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, vocabReq) (vocabOps, error) {
			close(entered)
			<-release
			return nil, nil
		}).Times(1)
	remote.EXPECT().ReconcileReviews(gomock.Any(), gomock.Any()).Return(nil, nil).Times(1)
	remote.EXPECT().ReconcileStats(gomock.Any(), gomock.Any()).Return(nil, nil).Times(1)

	o := newTestOrchestrator(t, db, clock, remote)

	done := make(chan error, 1)
	go func() {
		_, err := o.Sync(ctx)
		done <- err
	}()
	<-entered

	state, err := o.Sync(ctx)
	assert.ErrorIs(t, err, ErrSyncInProgress)
	assert.True(t, state.IsSyncing)
	assert.Equal(t, StatusSyncing, state.SyncStatus)

	o.Trigger(ctx, "timer")
	assert.Equal(t, state, o.State(), "dropped requests do not mutate state")

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StatusSuccess, o.State().SyncStatus)
}

func TestSyncRoundOutlivesCallerCancellation(t *testing.T) {
	db, clock := openStore(t)
	cursor := ms(base)
	seedSynced(t, db, cursor)
	clock.Advance(time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctrl := gomock.NewController(t)
	remote := mock_sync.NewMockReconciler(ctrl)
	gomock.InOrder(
		remote.EXPECT().ReconcileVocabulary(gomock.Any(), gomock.Any()).DoAndReturn(
			func(context.Context, vocabReq) (vocabOps, error) {
				// The caller goes away while the round is in flight.
				cancel()
				return vocabOps{
					vocabOp(domain.VocabularyItem{ID: "w2", TargetText: "cat", CreatedAt: cursor, UpdatedAt: cursor}),
				}, nil
			}),
		remote.EXPECT().ReconcileReviews(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, _ reviewReq) (reviewOps, error) {
				assert.NoError(t, ctx.Err())
				return nil, nil
			}),
		remote.EXPECT().ReconcileStats(gomock.Any(), gomock.Any()).Return(nil, nil),
	)

	o := newTestOrchestrator(t, db, clock, remote)
	state, err := o.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, state.SyncStatus)
	assert.Empty(t, state.Errors)

	added, err := db.FindVocabulary(context.Background(), "w2")
	require.NoError(t, err)
	require.NotNil(t, added)
	assert.Equal(t, "cat", added.TargetText)

	stored, err := db.LastSyncTime(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ms(clock.Now()), *stored)
}

func TestSyncReportsInFlightWhileHoldingTheRound(t *testing.T) {
	db, clock := openStore(t)
	seedSynced(t, db, ms(base))

	ctrl := gomock.NewController(t)
	remote := mock_sync.NewMockReconciler(ctrl)
	network := mock_sync.NewMockNetworkProbe(ctrl)
	notifier := mock_sync.NewMockNotifier(ctrl)

	var o *Orchestrator
	rejected := func(stage string) {
		state, err := o.Sync(context.Background())
		assert.ErrorIs(t, err, ErrSyncInProgress, stage)
		assert.True(t, state.IsSyncing, stage)
		assert.Equal(t, StatusSyncing, state.SyncStatus, stage)
	}

	network.EXPECT().Online(gomock.Any()).DoAndReturn(func(context.Context) bool {
		rejected("gate")
		return true
	})
	remote.EXPECT().ReconcileVocabulary(gomock.Any(), gomock.Any()).Return(nil, nil)
	remote.EXPECT().ReconcileReviews(gomock.Any(), gomock.Any()).Return(nil, nil)
	remote.EXPECT().ReconcileStats(gomock.Any(), gomock.Any()).Return(nil, nil)
	notifier.EXPECT().OnSyncComplete(gomock.Any()).Do(func(context.Context) {
		state, err := o.Sync(context.Background())
		assert.ErrorIs(t, err, ErrSyncInProgress, "notifier")
		assert.True(t, state.IsSyncing, "notifier")
	})

	o = newTestOrchestrator(t, db, clock, remote, WithNetworkProbe(network), WithNotifier(notifier))
	state, err := o.Sync(context.Background())
	require.NoError(t, err)
	assert.False(t, state.IsSyncing)
	assert.Equal(t, StatusSuccess, state.SyncStatus)
}

func TestStateReturnsCopy(t *testing.T) {
	db, clock := openStore(t)
	require.NoError(t, db.SetLastSyncTime(context.Background(), 42))
	o := newTestOrchestrator(t, db, clock, nil)

	state := o.State()
	*state.LastSyncTime = 7
	assert.Equal(t, int64(42), *o.State().LastSyncTime)
}

func opDataIDs(ops vocabOps) []string {
	ids := make([]string, 0, len(ops))
	for _, o := range ops {
		ids = append(ids, o.Data.ID)
	}
	return ids
}
