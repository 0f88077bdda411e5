package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".pinsync"), cfg.DataDir)
	assert.Equal(t, filepath.Join(home, "Bookmarks", "Pinboard"), cfg.SaveDir)
	assert.Equal(t, DefaultAPIURL, cfg.Pinboard.APIURL)
	assert.Equal(t, 30*time.Second, cfg.Pinboard.Timeout)
	assert.True(t, cfg.Annotate)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.DirExists(t, cfg.DataDir)
	assert.Equal(t, filepath.Join(cfg.DataDir, "pinsync.db"), cfg.DBPath())
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dataDir := filepath.Join(home, "state")
	t.Setenv("PINSYNC_DATA_DIR", dataDir)
	t.Setenv("PINBOARD_TOKEN", "alice:ABC123")
	t.Setenv("PINSYNC_PINBOARD_TIMEOUT", "5s")

	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, dataDir, cfg.DataDir)
	assert.Equal(t, "alice:ABC123", cfg.Pinboard.Token)
	assert.Equal(t, 5*time.Second, cfg.Pinboard.Timeout)
}

func TestLoadFrom_ConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dataDir := filepath.Join(home, ".pinsync")
	require.NoError(t, os.MkdirAll(dataDir, 0755))

	yaml := "save_dir: ~/links\nannotate: false\npinboard:\n  username: bob\n  password: secret\nlog:\n  level: debug\n  json: true\n  file: ~/pinsync.log\n"
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "links"), cfg.SaveDir)
	assert.False(t, cfg.Annotate)
	assert.Equal(t, "bob", cfg.Pinboard.Username)
	assert.Equal(t, "secret", cfg.Pinboard.Password)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, filepath.Join(home, "pinsync.log"), cfg.Log.File)
	assert.Equal(t, 10, cfg.Log.MaxSizeMB)
}

func TestValidate(t *testing.T) {
	valid := Config{DataDir: "/d", SaveDir: "/s", Pinboard: PinboardConfig{APIURL: DefaultAPIURL, Timeout: time.Second}}
	require.NoError(t, valid.Validate())

	noSave := valid
	noSave.SaveDir = ""
	assert.Error(t, noSave.Validate())

	badTimeout := valid
	badTimeout.Pinboard.Timeout = 0
	assert.Error(t, badTimeout.Validate())
}

func TestSyncOptionsValidate(t *testing.T) {
	assert.NoError(t, SyncOptions{ResetDays: 0}.Validate())
	assert.NoError(t, SyncOptions{ResetDays: 7}.Validate())
	assert.ErrorIs(t, SyncOptions{ResetDays: -1}.Validate(), ErrInvalidReset)
}
