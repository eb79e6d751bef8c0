// Package config loads the TOML configuration file and supplies defaults
// when none exists.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Store contains output directory configuration.
type Store struct {
	Dir string `toml:"dir"`
}

// Process contains worker pool configuration.
type Process struct {
	Workers int `toml:"workers"`
}

// Log contains logging configuration.
type Log struct {
	Level string `toml:"level"`
}

type Config struct {
	Store   Store   `toml:"store"`
	Process Process `toml:"process"`
	Log     Log     `toml:"log"`
}

func Default() Config {
	return Config{
		Store:   Store{Dir: "output"},
		Process: Process{Workers: 0},
		Log:     Log{Level: "info"},
	}
}

// DefaultPath is the per-user config location, empty when the platform has
// no user config dir.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "graystore", "config.toml")
}

// Load reads the configuration at path, falling back to the default
// location when path is empty. A missing file at the default location is
// not an error; an explicitly given path must exist.
func Load(path string) (Config, error) {
	conf := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, &conf); err != nil {
				return Config{}, fmt.Errorf("could not parse config %q: %w", path, err)
			}
		case explicit || !errors.Is(err, fs.ErrNotExist):
			return Config{}, fmt.Errorf("could not read config %q: %w", path, err)
		}
	}

	if _, err := parseLevel(conf.Log.Level); err != nil {
		return Config{}, fmt.Errorf("invalid log level %q: %w", conf.Log.Level, err)
	}
	if conf.Process.Workers < 0 {
		return Config{}, fmt.Errorf("invalid worker count: %d", conf.Process.Workers)
	}

	return conf, nil
}

// LogLevel returns the configured level. Only valid on a Config that came
// from Default or Load.
func (c Config) LogLevel() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, err
	}
	return level, nil
}
