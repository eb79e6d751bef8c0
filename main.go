package main

import (
	"log/slog"
	"os"

	"graystore/catalog"
	"graystore/config"
	"graystore/parallel"
	"graystore/pipeline"

	"github.com/alecthomas/kong"
)

type cli struct {
	Config string `help:"Configuration file to load" type:"path"`

	Process pipeline.CLICmd `cmd:"" help:"Grayscale images and store the results"`
	List    catalog.ListCmd `cmd:"" help:"List stored outputs"`
	Get     catalog.GetCmd  `cmd:"" help:"Retrieve a stored output"`
	Init    config.InitCmd  `cmd:"" help:"Write a sample configuration file"`
}

func main() {
	var cmd cli
	kctx := kong.Parse(&cmd,
		kong.Name("graystore"),
		kong.Description("Grayscale image processing with a persistent output store."),
		kong.UsageOnError(),
	)

	conf, err := config.Load(cmd.Config)
	kctx.FatalIfErrorf(err)

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: conf.LogLevel(),
	})))

	pool := parallel.Start(conf.Process.Workers)
	err = kctx.Run(&conf, parallel.WorkerFunc(pool.Do), parallel.WaitFunc(pool.Wait))
	kctx.FatalIfErrorf(err)
}
