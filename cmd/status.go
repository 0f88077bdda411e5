package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/pinsync/internal/config"
	"github.com/user/pinsync/internal/db"
	"github.com/user/pinsync/internal/pinboard"
	"github.com/user/pinsync/internal/syncer"
	"github.com/user/pinsync/internal/ui"
)

var statusRemoteFlag bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the sync watermark",
	Long:  "Print the local watermark and number of synced bookmarks, optionally comparing against Pinboard.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger, logCloser := newLogger(cfg, verboseFlag)
		defer logCloser.Close()
		ctx := cmd.Context()

		store, err := db.NewStore(cfg.DBPath())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer store.Close()

		local, err := db.NewWatermark(store, logger).Read(ctx)
		if err != nil {
			return fmt.Errorf("failed to read watermark: %w", err)
		}
		count, err := store.Count(ctx)
		if err != nil {
			return err
		}

		if local.Equal(syncer.Epoch) {
			fmt.Printf("Last updated locally: %s\n", ui.Dim("never"))
		} else {
			fmt.Printf("Last updated locally: %s\n", ui.Info(local.Format(time.RFC3339)))
		}
		fmt.Printf("Bookmarks synced: %d\n", count)
		fmt.Printf("Save directory: %s\n", ui.Bold(cfg.SaveDir))

		if !statusRemoteFlag {
			return nil
		}

		client, err := pinboard.New(cfg.Pinboard)
		if err != nil {
			return err
		}
		remote, err := client.LastModified(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Last updated on Pinboard: %s\n", ui.Info(remote.Format(time.RFC3339)))
		if local.Before(remote) {
			fmt.Println(ui.StatusWarning("Sync needed."))
		} else {
			fmt.Println(ui.StatusSuccess("Up to date."))
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusRemoteFlag, "remote", false, "Also query Pinboard's last update time")
	rootCmd.AddCommand(statusCmd)
}
