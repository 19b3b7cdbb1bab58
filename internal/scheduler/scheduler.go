// Package scheduler fires automatic sync rounds: once on startup, on a fixed
// interval and when the network comes back.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/conorfennell/wordsync/internal/domain"
)

// Trigger reasons passed to the Syncer.
const (
	ReasonStartup   = "startup"
	ReasonInterval  = "interval"
	ReasonReconnect = "reconnect"
)

// DefaultReconnectPoll is how often the network probe is polled.
const DefaultReconnectPoll = 30 * time.Second

// Syncer runs a round. Rounds requested while one is running are dropped by
// the Syncer, not here.
type Syncer interface {
	Trigger(ctx context.Context, reason string)
}

// NetworkProbe reports connectivity.
type NetworkProbe interface {
	Online(ctx context.Context) bool
}

// Scheduler manages the automatic sync triggers.
type Scheduler struct {
	scheduler     *gocron.Scheduler
	syncer        Syncer
	network       NetworkProbe
	settings      domain.SyncSettings
	reconnectPoll time.Duration
	logger        *slog.Logger

	ctx       context.Context
	wasOnline atomic.Bool
	polled    atomic.Bool
}

type Option func(*Scheduler)

func WithReconnectPoll(d time.Duration) Option {
	return func(s *Scheduler) { s.reconnectPoll = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// New creates a scheduler for settings. network may be nil, which disables
// reconnect triggers.
func New(syncer Syncer, network NetworkProbe, settings domain.SyncSettings, opts ...Option) *Scheduler {
	s := &Scheduler{
		scheduler:     gocron.NewScheduler(time.Local),
		syncer:        syncer,
		network:       network,
		settings:      settings,
		reconnectPoll: DefaultReconnectPoll,
		logger:        slog.Default(),
		ctx:           context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start schedules the enabled triggers and runs them in the background until
// Stop. ctx is passed to every triggered round.
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx = ctx

	if s.settings.SyncOnStartup {
		if _, err := s.scheduler.Every(1).Day().LimitRunsTo(1).Tag(ReasonStartup).Do(s.trigger, ReasonStartup); err != nil {
			return fmt.Errorf("failed to schedule startup sync: %w", err)
		}
	}

	if s.settings.AutoSyncEnabled && s.settings.SyncIntervalMinutes > 0 {
		_, err := s.scheduler.Every(s.settings.SyncIntervalMinutes).Minutes().
			WaitForSchedule().
			SingletonMode().
			Tag(ReasonInterval).
			Do(s.trigger, ReasonInterval)
		if err != nil {
			return fmt.Errorf("failed to schedule interval sync: %w", err)
		}
	}

	if s.settings.SyncOnNetworkReconnect && s.network != nil {
		_, err := s.scheduler.Every(s.reconnectPoll).
			SingletonMode().
			Tag(ReasonReconnect).
			Do(s.checkNetwork)
		if err != nil {
			return fmt.Errorf("failed to schedule network polling: %w", err)
		}
	}

	s.logger.Info("sync scheduler started",
		"onStartup", s.settings.SyncOnStartup,
		"intervalMinutes", s.settings.SyncIntervalMinutes,
		"autoSync", s.settings.AutoSyncEnabled,
		"onReconnect", s.settings.SyncOnNetworkReconnect)

	s.scheduler.StartAsync()
	return nil
}

// Stop terminates all scheduled triggers.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// Tags lists the triggers that are scheduled.
func (s *Scheduler) Tags() []string {
	var tags []string
	for _, job := range s.scheduler.Jobs() {
		tags = append(tags, job.Tags()...)
	}
	return tags
}

func (s *Scheduler) trigger(reason string) {
	s.logger.Debug("sync triggered", "reason", reason)
	s.syncer.Trigger(s.ctx, reason)
}

// checkNetwork triggers a round on an offline to online transition. The first
// poll only records the current state.
func (s *Scheduler) checkNetwork() {
	online := s.network.Online(s.ctx)
	was := s.wasOnline.Swap(online)
	if !s.polled.Swap(true) {
		return
	}
	if online && !was {
		s.logger.Info("network reconnected")
		s.trigger(ReasonReconnect)
	}
}
