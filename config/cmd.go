package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// InitCmd is the init subcommand: write a sample configuration file.
type InitCmd struct {
	Path  string `help:"Where to write the sample config. Defaults to the user config dir." type:"path"`
	Force bool   `help:"Overwrite an existing file" default:"false"`
}

func (c *InitCmd) Run() error {
	path := c.Path
	if path == "" {
		path = DefaultPath()
		if path == "" {
			return fmt.Errorf("no user config dir available, give a path")
		}
	}

	if !c.Force {
		if info, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %q", info.Name())
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("cannot stat %q: %w", path, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("unable to create config folder: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("could not write config %q: %w", path, err)
	}

	slog.Info("wrote sample configuration", "path", path)
	return nil
}
