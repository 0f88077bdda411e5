package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/user/pinsync/internal/artifact"
	"github.com/user/pinsync/internal/config"
	"github.com/user/pinsync/internal/db"
	"github.com/user/pinsync/internal/pinboard"
	"github.com/user/pinsync/internal/syncer"
	"github.com/user/pinsync/internal/ui"
)

var (
	syncTagFlag   string
	syncResetFlag int
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Download bookmarks changed since the last sync",
	Long: `Fetch bookmarks modified since the last successful sync and write one
.webloc file per bookmark. Exits 0 when the sync completed, 2 when there was
nothing to sync and 1 on error.

--reset N rewinds the stored watermark N days behind its previous value
after a run that fetched bookmarks, so the next sync re-processes that
window. It has no effect when Pinboard reports nothing new: an up-to-date
run exits 2 and leaves the watermark as it was.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := config.SyncOptions{Tag: syncTagFlag, ResetDays: syncResetFlag, Verbose: verboseFlag}
		if err := opts.Validate(); err != nil {
			return err
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger, logCloser := newLogger(cfg, opts.Verbose)
		defer logCloser.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		res, err := runSync(ctx, cfg, opts, logger)
		if err != nil {
			return err
		}
		if res.Outcome == syncer.OutcomeUpToDate {
			fmt.Println(ui.StatusSkipped("Pinboard download is up-to-date."))
			return ErrUpToDate
		}
		printSummary(res, cfg.SaveDir)
		return nil
	},
}

func printSummary(res *syncer.Result, saveDir string) {
	fmt.Println(ui.StatusSuccess(fmt.Sprintf("%d bookmark(s) saved to %s", res.Created, ui.Bold(saveDir))))
	if res.Duplicates > 0 {
		fmt.Println(ui.StatusSkipped(fmt.Sprintf("%d duplicate(s) skipped", res.Duplicates)))
	}
	if res.Failed > 0 {
		fmt.Println(ui.StatusWarning(fmt.Sprintf("%d bookmark(s) with errors, see log", res.Failed)))
	}
}

func init() {
	syncCmd.Flags().StringVarP(&syncTagFlag, "tag", "t", "", "Only sync bookmarks with this tag")
	syncCmd.Flags().IntVarP(&syncResetFlag, "reset", "r", 0, "Rewind the watermark by this many days after a sync that fetched bookmarks")
	rootCmd.AddCommand(syncCmd)
}

// runSync wires the engine to Pinboard, the SQLite store and the artifact
// writers, then performs one run.
func runSync(ctx context.Context, cfg *config.Config, opts config.SyncOptions, logger *slog.Logger) (*syncer.Result, error) {
	client, err := pinboard.New(cfg.Pinboard)
	if err != nil {
		return nil, err
	}

	store, err := db.NewStore(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	engine, err := syncer.New(syncer.Deps{
		Remote:    client,
		Links:     artifact.NewWeblocWriter(),
		Annotator: artifact.NewAnnotator(cfg.Annotate, runtime.GOOS),
		Watermark: db.NewWatermark(store, logger),
		Namer:     syncer.NewNamer(cfg.SaveDir),
		Ledger:    store,
		Logger:    logger,
	}, syncer.Options{
		Tag:       opts.Tag,
		ResetDays: opts.ResetDays,
	})
	if err != nil {
		return nil, err
	}

	return engine.Run(ctx)
}
