package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/conorfennell/wordsync/internal/config"
	"github.com/conorfennell/wordsync/internal/device"
	"github.com/conorfennell/wordsync/internal/domain"
	"github.com/conorfennell/wordsync/internal/logging"
	"github.com/conorfennell/wordsync/internal/remote"
	"github.com/conorfennell/wordsync/internal/storage"
	"github.com/conorfennell/wordsync/internal/sync"
)

func main() {
	a := &app{}
	rootCommand := newRootCommand(a)
	err := rootCommand.Execute()
	a.close()
	if err != nil {
		if _, fprintfErr := fmt.Fprintf(os.Stderr, "failed to execute a command: %+v\n", err); fprintfErr != nil {
			panic(fmt.Errorf("failed to output an error: %w. Reason: %w", err, fprintfErr))
		}
		os.Exit(1)
	}
	os.Exit(0)
}

func newRootCommand(a *app) *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           "wordsync",
		Short:         "Keep a vocabulary deck in sync across devices",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	config.RegisterFlags(rootCommand.PersistentFlags())

	rootCommand.AddCommand(
		newSyncCommand(a),
		newDaemonCommand(a),
		newImportCommand(a),
		newAddCommand(a),
		newListCommand(a),
		newDeleteCommand(a),
		newReviewCommand(a),
		newSettingsCommand(a),
		newDeviceCommand(a),
	)
	return rootCommand
}

// app holds what every command shares once flags are parsed.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	closer io.Closer
	db     *storage.DB
}

func (a *app) setup(cmd *cobra.Command) error {
	loader, err := config.NewLoader()
	if err != nil {
		return err
	}
	cfg, err := loader.Load(cmd.Flags())
	if err != nil {
		return err
	}
	logger, closer, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	a.cfg, a.logger, a.closer = cfg, logger, closer
	return nil
}

// store opens the database on first use.
func (a *app) store() (*storage.DB, error) {
	if a.db != nil {
		return a.db, nil
	}
	db, err := storage.Open(a.cfg.Storage.Path)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("database opened", "path", a.cfg.Storage.Path)
	a.db = db
	return db, nil
}

func (a *app) close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}
	if a.closer != nil {
		_ = a.closer.Close()
	}
}

func (a *app) remote() *remote.Client {
	return remote.New(remote.Config{
		BaseURL:      a.cfg.Remote.BaseURL,
		Token:        a.cfg.Remote.Token,
		Timeout:      a.cfg.Remote.Timeout,
		ProbeTimeout: a.cfg.Remote.ProbeTimeout,
	})
}

// orchestrator wires the sync engine to the local store and the remote
// client. notifier may be nil.
func (a *app) orchestrator(ctx context.Context, notifier sync.Notifier) (*sync.Orchestrator, domain.Device, error) {
	db, err := a.store()
	if err != nil {
		return nil, domain.Device{}, err
	}
	dev, err := device.Ensure(ctx, db)
	if err != nil {
		return nil, domain.Device{}, err
	}

	client := a.remote()
	opts := []sync.Option{
		sync.WithNetworkProbe(client),
		sync.WithAuthProbe(client),
		sync.WithLogger(a.logger),
		sync.WithSafetyWindow(a.cfg.Sync.SafetyWindow),
	}
	if notifier != nil {
		opts = append(opts, sync.WithNotifier(notifier))
	}
	o, err := sync.NewOrchestrator(ctx, db, client, dev, opts...)
	if err != nil {
		return nil, domain.Device{}, err
	}
	return o, dev, nil
}

var errNoRemote = errors.New("no sync server configured: set remote.base_url or --remote")

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
