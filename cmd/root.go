package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/user/pinsync/internal/config"
	"github.com/user/pinsync/internal/logging"
	"github.com/user/pinsync/internal/ui"
)

// Process exit statuses.
const (
	ExitSynced   = 0 // run completed, any number of artifacts
	ExitError    = 1 // fatal error before or during the run
	ExitUpToDate = 2 // nothing to sync
)

// ErrUpToDate is returned by the sync command when the local watermark is
// already at or past the remote last-modified time.
var ErrUpToDate = errors.New("bookmarks are up to date")

var (
	verboseFlag bool
	noColorFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "pinsync",
	Short: "Sync Pinboard bookmarks to .webloc files",
	Long: `pinsync incrementally downloads Pinboard bookmarks into a directory of
.webloc link files, tagged and commented with the bookmark's metadata.

Only bookmarks changed since the last successful sync are fetched.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColorFlag {
			ui.DisableColors()
		}
	},
}

// Execute runs the CLI and exits with the status documented by ExitCode.
func Execute() {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, ErrUpToDate) {
		fmt.Fprintln(os.Stderr, ui.StatusError(err.Error()))
	}
	os.Exit(ExitCode(err))
}

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSynced
	case errors.Is(err, ErrUpToDate):
		return ExitUpToDate
	default:
		return ExitError
	}
}

func init() {
	rootCmd.PersistentFlags().String("data-dir", "", "Data directory (default: ~/.pinsync)")
	rootCmd.PersistentFlags().String("save-dir", "", "Directory for .webloc files (default: ~/Bookmarks/Pinboard)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output")

	viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	viper.BindPFlag("save_dir", rootCmd.PersistentFlags().Lookup("save-dir"))
}

// newLogger builds the command logger. The closer flushes and releases the
// log file when log.file is set.
func newLogger(cfg *config.Config, verbose bool) (*slog.Logger, io.Closer) {
	level := logging.ParseLevel(cfg.Log.Level)
	if verbose {
		level = logging.LevelDebug
	}
	return logging.Open(logging.Options{
		Level:      level,
		JSON:       cfg.Log.JSON,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
}
