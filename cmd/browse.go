package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/pinsync/internal/config"
	"github.com/user/pinsync/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse synced bookmarks interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return tui.Run(cfg)
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
