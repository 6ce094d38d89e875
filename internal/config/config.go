// Package config loads application settings from a YAML file with
// MEMOVOX_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds every tunable the app reads at startup. Memos themselves are
// never persisted; this file and the log are the only disk artifacts.
type Config struct {
	Audio  AudioConfig  `mapstructure:"audio" yaml:"audio"`
	Export ExportConfig `mapstructure:"export" yaml:"export"`
	LogDir string       `mapstructure:"log_dir" yaml:"log_dir"`
}

type AudioConfig struct {
	SampleRate   int     `mapstructure:"sample_rate" yaml:"sample_rate"`
	Channels     int     `mapstructure:"channels" yaml:"channels"`
	Volume       float64 `mapstructure:"volume" yaml:"volume"`
	InputDevice  string  `mapstructure:"input_device" yaml:"input_device"`
	OutputDevice string  `mapstructure:"output_device" yaml:"output_device"`
}

type ExportConfig struct {
	Directory string `mapstructure:"directory" yaml:"directory"`
}

// DefaultPath returns the conventional config location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "memovox.yaml"
	}
	return filepath.Join(home, ".config", "memovox", "config.yaml")
}

// defaultLogDir keeps logs next to the config.
func defaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "memovox")
}

// defaultExportDir is where exported WAV files land.
func defaultExportDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Downloads")
}

// Load reads the config file at path (DefaultPath when empty). A missing
// file is not an error; defaults apply. Environment variables prefixed with
// MEMOVOX_ override file values, e.g. MEMOVOX_AUDIO_SAMPLE_RATE.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("audio.sample_rate", 44100)
	v.SetDefault("audio.channels", 1)
	v.SetDefault("audio.volume", 1.0)
	v.SetDefault("audio.input_device", "")
	v.SetDefault("audio.output_device", "")
	v.SetDefault("export.directory", defaultExportDir())
	v.SetDefault("log_dir", defaultLogDir())

	if path == "" {
		path = DefaultPath()
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("MEMOVOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.normalize()
	return &cfg, nil
}

// normalize clamps out-of-range values back to usable defaults rather than
// failing startup over a bad hand-edit.
func (c *Config) normalize() {
	if c.Audio.SampleRate <= 0 {
		c.Audio.SampleRate = 44100
	}
	if c.Audio.Channels != 1 && c.Audio.Channels != 2 {
		c.Audio.Channels = 1
	}
	if c.Audio.Volume <= 0 || c.Audio.Volume > 1.0 {
		c.Audio.Volume = 1.0
	}
	if c.Export.Directory == "" {
		c.Export.Directory = defaultExportDir()
	}
	if c.LogDir == "" {
		c.LogDir = defaultLogDir()
	}
}
