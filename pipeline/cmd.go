package pipeline

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"graystore/config"
	"graystore/parallel"
	"graystore/raster"
	"graystore/store"

	"github.com/alecthomas/kong"
)

// CLICmd is the process subcommand: grayscale the given images and store
// the results.
type CLICmd struct {
	Paths []string `arg:"" optional:"" help:"Image files to process" type:"existingfile"`
	Scan  string   `help:"Folder to scan for images to process"`
	Dest  string   `help:"Store folder for processed images. Overrides the configured folder."`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	if len(c.Paths) == 0 && c.Scan == "" {
		return fmt.Errorf("nothing to process: give image paths or --scan")
	}

	if c.Scan != "" {
		scanDir, err := filepath.Abs(c.Scan)
		var info os.FileInfo
		if err == nil {
			if info, err = os.Stat(scanDir); err == nil && !info.IsDir() {
				err = fmt.Errorf("not a directory")
			}
		}
		if err != nil {
			return fmt.Errorf("invalid scan path %q: %w", c.Scan, err)
		}
		c.Scan = scanDir
	}

	return nil
}

func (c *CLICmd) Run(conf *config.Config, worker parallel.WorkerFunc, wait parallel.WaitFunc) error {
	dest := c.Dest
	if dest == "" {
		dest = conf.Store.Dir
	}
	st, err := store.Open(dest)
	if err != nil {
		return err
	}
	pl := New(st)

	files := append([]string(nil), c.Paths...)
	if c.Scan != "" {
		entries, err := os.ReadDir(c.Scan)
		if err != nil {
			return fmt.Errorf("unable to read folder %q: %w", c.Scan, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !raster.SupportedExt(filepath.Ext(entry.Name())) {
				continue
			}
			files = append(files, filepath.Join(c.Scan, entry.Name()))
		}
	}
	if len(files) == 0 {
		slog.Info("no images to process", "scan", c.Scan)
		return nil
	}

	var processedCount, errCount atomic.Uint64
	for _, path := range files {
		worker(func(filePath string) func() {
			return func() {
				logger := slog.Default().With("file", filePath)

				out, err := pl.ProcessFile(filePath)
				if err != nil {
					errCount.Add(1)
					logger.Error("could not process image", "error", err)
					return
				}
				processedCount.Add(1)
				logger.Info("stored", "output", out.Filename)
			}
		}(path))
	}

	wait(true)

	processed := processedCount.Load()
	errors := errCount.Load()
	slog.Info("stats", "processed", processed, "errors", errors,
		"total", processed+errors)

	if errors > 0 {
		return fmt.Errorf("error processing %d files", errors)
	}
	return nil
}
