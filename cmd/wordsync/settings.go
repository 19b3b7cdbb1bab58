package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conorfennell/wordsync/internal/device"
)

func newSettingsCommand(a *app) *cobra.Command {
	var autoSync, onStartup, onReconnect bool
	var interval int
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the sync settings stored for this device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.store()
			if err != nil {
				return err
			}
			settings, err := db.LoadSyncSettings(cmd.Context(), a.cfg.Sync.Settings())
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			changed := false
			for _, name := range []string{"auto-sync", "interval", "on-startup", "on-reconnect"} {
				changed = changed || flags.Changed(name)
			}
			if flags.Changed("auto-sync") {
				settings.AutoSyncEnabled = autoSync
			}
			if flags.Changed("interval") {
				if interval < 1 {
					return fmt.Errorf("interval must be at least 1 minute, got %d", interval)
				}
				settings.SyncIntervalMinutes = interval
			}
			if flags.Changed("on-startup") {
				settings.SyncOnStartup = onStartup
			}
			if flags.Changed("on-reconnect") {
				settings.SyncOnNetworkReconnect = onReconnect
			}
			if changed {
				if err := db.SaveSyncSettings(cmd.Context(), settings); err != nil {
					return err
				}
			}
			return printJSON(cmd.OutOrStdout(), settings)
		},
	}
	cmd.Flags().BoolVar(&autoSync, "auto-sync", true, "Sync on a fixed interval")
	cmd.Flags().IntVar(&interval, "interval", 15, "Minutes between automatic syncs")
	cmd.Flags().BoolVar(&onStartup, "on-startup", true, "Sync when the daemon starts")
	cmd.Flags().BoolVar(&onReconnect, "on-reconnect", true, "Sync when the network comes back")
	return cmd
}

func newDeviceCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "device",
		Short: "Print the identity of this installation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.store()
			if err != nil {
				return err
			}
			d, err := device.Ensure(cmd.Context(), db)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), d)
		},
	}
}
