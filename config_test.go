package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("canvas:\n  width: 800\n  height: 600\nmin_adjustable: true\nlisten_addr: \":9000\"\n"), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, CanvasConfig{Width: 800, Height: 600}, c.Canvas)
	assert.True(t, c.MinAdjustable)
	assert.Equal(t, ":9000", c.ListenAddr)
	assert.Equal(t, 8.0, c.HandleSize)
	assert.Equal(t, 50, c.UndoDepth)
	assert.True(t, c.Confirmations)
}

func TestSaveLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rc.yaml")
	c := defaultConfig()
	c.LogLevel = "debug"
	c.MaxAdjustable = true
	require.NoError(t, Save(path, c))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestLoadConfigFallsBackOnError(t *testing.T) {
	c, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	assert.Equal(t, defaultConfig(), c)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("canvas: [1, 2"), 0644))
	c, err = loadConfig(path)
	assert.Error(t, err)
	assert.Equal(t, defaultConfig(), c)
}

func TestGetSavePath(t *testing.T) {
	c := defaultConfig()
	assert.Equal(t, "ramp.yaml", c.GetSavePath("ramp.yaml"))

	dir := filepath.Join(t.TempDir(), "curves")
	c.SaveDirectory = dir
	assert.Equal(t, filepath.Join(dir, "ramp.yaml"), c.GetSavePath("ramp.yaml"))
	assert.DirExists(t, dir)
	assert.Equal(t, filepath.Join(dir, "curvedit.log"), c.LogPath())
}
