package main

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const configName = ".curveditrc.yaml"

type CanvasConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type Config struct {
	SaveDirectory string       `yaml:"save_directory"`
	Confirmations bool         `yaml:"confirmations"`
	Canvas        CanvasConfig `yaml:"canvas"`
	HandleSize    float64      `yaml:"handle_size"`
	MinAdjustable bool         `yaml:"min_adjustable"`
	MaxAdjustable bool         `yaml:"max_adjustable"`
	UndoDepth     int          `yaml:"undo_depth"`
	ListenAddr    string       `yaml:"listen_addr"` // empty disables the remote server
	LogFile       string       `yaml:"log_file"`
	LogLevel      string       `yaml:"log_level"`
}

func defaultConfig() *Config {
	return &Config{
		Confirmations: true,
		Canvas:        CanvasConfig{Width: 400, Height: 300},
		HandleSize:    8,
		UndoDepth:     50,
		LogFile:       "curvedit.log",
		LogLevel:      "info",
	}
}

// Load reads a YAML config on top of the defaults.
func Load(path string) (*Config, error) {
	c := defaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}
	c.SaveDirectory = expandHome(c.SaveDirectory)
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// loadConfig reads ~/.curveditrc.yaml, or path when one is given. A missing
// or broken file leaves the defaults in place and is reported to the caller.
func loadConfig(path string) (*Config, error) {
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return defaultConfig(), nil
		}
		path = filepath.Join(homeDir, configName)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return defaultConfig(), nil
		}
	}
	c, err := Load(path)
	if err != nil {
		return defaultConfig(), err
	}
	return c, nil
}

func expandHome(p string) string {
	if p == "" {
		return p
	}
	if strings.HasPrefix(p, "~") {
		if homeDir, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(homeDir, strings.TrimPrefix(p, "~"))
		}
	}
	if !filepath.IsAbs(p) {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
	}
	return p
}

func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0755)
	return filepath.Join(c.SaveDirectory, filename)
}

// LogPath puts a relative log file next to the saved curves.
func (c *Config) LogPath() string {
	if c.LogFile == "" || filepath.IsAbs(c.LogFile) {
		return c.LogFile
	}
	return c.GetSavePath(c.LogFile)
}
