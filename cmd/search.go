package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/pinsync/internal/config"
	"github.com/user/pinsync/internal/db"
)

var (
	jsonOutput      bool
	plaintextOutput bool
	limitFlag       int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search synced bookmarks",
	Long:  "Full-text search over the descriptions, notes, tags and URLs of synced bookmarks.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		store, err := db.NewStore(cfg.DBPath())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer store.Close()

		results, err := store.Search(cmd.Context(), query, limitFlag)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		return printBookmarks(results)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recently synced bookmarks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		store, err := db.NewStore(cfg.DBPath())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer store.Close()

		results, err := store.List(cmd.Context(), limitFlag)
		if err != nil {
			return err
		}
		return printBookmarks(results)
	},
}

func printBookmarks(results []db.Bookmark) error {
	if jsonOutput {
		return outputJSON(results)
	}
	if plaintextOutput {
		return outputPlaintext(results)
	}
	return outputDefault(results)
}

func outputJSON(results []db.Bookmark) error {
	if results == nil {
		results = []db.Bookmark{}
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func outputPlaintext(results []db.Bookmark) error {
	for _, r := range results {
		fmt.Printf("%s\t%s\t%s\n", r.Description, r.URL, r.Path)
	}
	return nil
}

func outputDefault(results []db.Bookmark) error {
	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	for i, r := range results {
		fmt.Printf("%d. %s\n   %s\n", i+1, r.Description, r.URL)
		if r.Tags != "" {
			fmt.Printf("   tags: %s\n", r.Tags)
		}
		if r.Extended != "" {
			fmt.Printf("   %s\n", truncate(r.Extended, 100))
		}
		fmt.Println()
	}
	return nil
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

func init() {
	for _, c := range []*cobra.Command{searchCmd, listCmd} {
		c.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
		c.Flags().BoolVarP(&plaintextOutput, "plaintext", "p", false, "Output as tab separated text")
		c.Flags().IntVarP(&limitFlag, "limit", "l", 20, "Maximum number of results")
		rootCmd.AddCommand(c)
	}
}
