package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const DefaultAPIURL = "https://api.pinboard.in/v1"

var ErrInvalidReset = errors.New("reset window must be zero or a positive number of days")

type Config struct {
	DataDir  string         `mapstructure:"data_dir"`
	SaveDir  string         `mapstructure:"save_dir"`
	Annotate bool           `mapstructure:"annotate"`
	Pinboard PinboardConfig `mapstructure:"pinboard"`
	Log      LogConfig      `mapstructure:"log"`
}

type PinboardConfig struct {
	Token    string        `mapstructure:"token"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	APIURL   string        `mapstructure:"api_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	JSON       bool   `mapstructure:"json"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// SyncOptions are the per-invocation knobs of a sync run.
type SyncOptions struct {
	Tag       string
	ResetDays int
	Verbose   bool
}

func (o SyncOptions) Validate() error {
	if o.ResetDays < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidReset, o.ResetDays)
	}
	return nil
}

// Load reads configuration through the global viper instance so that
// flags bound by the CLI take part in resolution.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

func LoadFrom(v *viper.Viper) (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	defaultDataDir := filepath.Join(homeDir, ".pinsync")

	v.SetDefault("data_dir", defaultDataDir)
	v.SetDefault("save_dir", filepath.Join(homeDir, "Bookmarks", "Pinboard"))
	v.SetDefault("annotate", true)
	v.SetDefault("pinboard.api_url", DefaultAPIURL)
	v.SetDefault("pinboard.timeout", 30*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)

	// Environment variable overrides
	v.SetEnvPrefix("PINSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.BindEnv("data_dir", "PINSYNC_DATA_DIR")
	v.BindEnv("save_dir", "PINSYNC_SAVE_DIR")
	v.BindEnv("pinboard.token", "PINSYNC_PINBOARD_TOKEN", "PINBOARD_TOKEN")

	// Config file lives next to the database unless the data dir was moved
	// through the environment.
	configDir := defaultDataDir
	if d := v.GetString("data_dir"); d != "" {
		configDir = d
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.DataDir = expandHome(cfg.DataDir, homeDir)
	cfg.SaveDir = expandHome(cfg.SaveDir, homeDir)
	cfg.Log.File = expandHome(cfg.Log.File, homeDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("data_dir must not be empty")
	}
	if c.SaveDir == "" {
		return errors.New("save_dir must not be empty")
	}
	if c.Pinboard.APIURL == "" {
		return errors.New("pinboard.api_url must not be empty")
	}
	if c.Pinboard.Timeout <= 0 {
		return fmt.Errorf("pinboard.timeout must be positive, got %s", c.Pinboard.Timeout)
	}
	return nil
}

func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "pinsync.db")
}

func expandHome(p, home string) string {
	if p == "~" {
		return home
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(home, p[2:])
	}
	return p
}
