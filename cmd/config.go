package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/user/pinsync/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Print the configuration after defaults, config file, environment and
flags are merged. Secrets are masked.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return writeConfig(os.Stdout, cfg)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

type configView struct {
	DataDir  string `yaml:"data_dir"`
	SaveDir  string `yaml:"save_dir"`
	Annotate bool   `yaml:"annotate"`
	Pinboard struct {
		Token    string        `yaml:"token,omitempty"`
		Username string        `yaml:"username,omitempty"`
		Password string        `yaml:"password,omitempty"`
		APIURL   string        `yaml:"api_url"`
		Timeout  time.Duration `yaml:"timeout"`
	} `yaml:"pinboard"`
	Log struct {
		Level      string `yaml:"level"`
		JSON       bool   `yaml:"json"`
		File       string `yaml:"file,omitempty"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
	} `yaml:"log"`
}

func writeConfig(w io.Writer, cfg *config.Config) error {
	var v configView
	v.DataDir = cfg.DataDir
	v.SaveDir = cfg.SaveDir
	v.Annotate = cfg.Annotate
	v.Pinboard.Token = maskSecret(cfg.Pinboard.Token)
	v.Pinboard.Username = cfg.Pinboard.Username
	v.Pinboard.Password = maskSecret(cfg.Pinboard.Password)
	v.Pinboard.APIURL = cfg.Pinboard.APIURL
	v.Pinboard.Timeout = cfg.Pinboard.Timeout
	v.Log.Level = cfg.Log.Level
	v.Log.JSON = cfg.Log.JSON
	v.Log.File = cfg.Log.File
	v.Log.MaxSizeMB = cfg.Log.MaxSizeMB
	v.Log.MaxBackups = cfg.Log.MaxBackups

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// maskSecret keeps the user part of a user:TOKEN pair visible.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if user, _, ok := strings.Cut(s, ":"); ok {
		return user + ":****"
	}
	return "****"
}
