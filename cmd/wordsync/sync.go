package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/conorfennell/wordsync/internal/scheduler"
	"github.com/conorfennell/wordsync/internal/study"
	"github.com/conorfennell/wordsync/internal/web"
)

const shutdownTimeout = 5 * time.Second

func newSyncCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run one sync round and print the resulting state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Remote.BaseURL == "" {
				return errNoRemote
			}
			o, _, err := a.orchestrator(cmd.Context(), nil)
			if err != nil {
				return err
			}
			state, syncErr := o.Sync(cmd.Context())
			if err := printJSON(cmd.OutOrStdout(), state); err != nil {
				return err
			}
			return syncErr
		},
	}
}

// notifierFunc adapts a function to sync.Notifier.
type notifierFunc func(ctx context.Context)

func (f notifierFunc) OnSyncComplete(ctx context.Context) { f(ctx) }

func newDaemonCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Serve the local web surface and sync automatically",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.runDaemon(ctx)
		},
	}
}

func (a *app) runDaemon(ctx context.Context) error {
	if a.cfg.Remote.BaseURL == "" {
		a.logger.Warn("no sync server configured, rounds will be skipped as offline")
	}

	var server *web.Server
	o, dev, err := a.orchestrator(ctx, notifierFunc(func(ctx context.Context) {
		server.OnSyncComplete(ctx)
	}))
	if err != nil {
		return err
	}
	db, err := a.store()
	if err != nil {
		return err
	}
	server = web.NewServer(o, study.New(db, nil), a.logger)

	settings, err := db.LoadSyncSettings(ctx, a.cfg.Sync.Settings())
	if err != nil {
		return err
	}
	sched := scheduler.New(o, a.remote(), settings,
		scheduler.WithReconnectPoll(a.cfg.Sync.ReconnectPoll),
		scheduler.WithLogger(a.logger))
	if err := sched.Start(ctx); err != nil {
		return err
	}
	defer sched.Stop()

	httpServer := &http.Server{
		Addr:              a.cfg.Web.Addr,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("serving", "addr", a.cfg.Web.Addr, "deviceId", dev.ID, "deviceLabel", dev.Label)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("web server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down web server: %w", err)
	}
	return nil
}
