// Package catalog holds the subcommands that query the output store
// directly: listing stored entries and retrieving one.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"graystore/config"
	"graystore/store"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// ListCmd is the list subcommand: show all stored outputs.
type ListCmd struct {
	Dir string `help:"Store folder to list. Overrides the configured folder."`
}

func (c *ListCmd) Run(conf *config.Config) error {
	st, err := store.Open(pickDir(c.Dir, conf))
	if err != nil {
		return err
	}

	outputs, err := st.List()
	if err != nil {
		return err
	}
	if len(outputs) == 0 {
		slog.Info("no stored outputs", "dir", st.Root())
		return nil
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Name", "Bytes", "Created"})
	for _, out := range outputs {
		tw.AppendRow(table.Row{
			out.Filename,
			strconv.FormatInt(out.Size, 10),
			out.CreatedAt.Format(time.RFC3339),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	tw.Render()
	return nil
}

// GetCmd is the get subcommand: write one stored output to stdout or to a
// file.
type GetCmd struct {
	Name string `arg:"" help:"Stored output filename"`
	Dir  string `help:"Store folder to read from. Overrides the configured folder."`
	Out  string `help:"Write to this file instead of stdout" type:"path"`
}

func (c *GetCmd) Run(conf *config.Config) error {
	st, err := store.Open(pickDir(c.Dir, conf))
	if err != nil {
		return err
	}

	data, err := st.Read(c.Name)
	if err != nil {
		return err
	}

	if c.Out == "" {
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("could not write to stdout: %w", err)
		}
		return nil
	}

	if info, err := os.Stat(c.Out); err == nil {
		return fmt.Errorf("destination file already exists: %q", info.Name())
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("cannot stat destination file %q: %w", c.Out, err)
	}
	if err := os.WriteFile(c.Out, data, 0o644); err != nil {
		return fmt.Errorf("could not write destination file %q: %w", c.Out, err)
	}

	slog.Info("retrieved", "name", c.Name, "to", c.Out)
	return nil
}

func pickDir(flag string, conf *config.Config) string {
	if flag != "" {
		return flag
	}
	return conf.Store.Dir
}
