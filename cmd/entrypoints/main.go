package main

import (
	"log/slog"
	"os"

	"github.com/birkland/entrypoints/drivers/fs"
	"github.com/birkland/entrypoints/fspath"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli"
)

var mainOpts = struct {
	path    string
	strict  bool
	verbose bool
}{}

var logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix: "entrypoints",
})

func main() {
	app := cli.NewApp()
	app.Name = "entrypoints"
	app.Usage = "Discover entry points advertised by installed distributions"
	app.EnableBashCompletion = true
	app.Commands = []cli.Command{
		ls,
		show,
		diagnose,
	}
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:        "path, p",
			Usage:       "Search path, as a list of directories separated by the os path list separator",
			EnvVar:      "ENTRYPOINTS_PATH",
			Destination: &mainOpts.path,
		},
		cli.BoolFlag{
			Name:        "strict",
			Usage:       "Fail on malformed entry points instead of skipping them",
			Destination: &mainOpts.strict,
		},
		cli.BoolFlag{
			Name:        "verbose, v",
			Usage:       "Log skipped locations and entry points in detail",
			Destination: &mainOpts.verbose,
		},
	}
	app.Before = func(c *cli.Context) error {
		if mainOpts.verbose {
			logger.SetLevel(log.DebugLevel)
		}
		return nil
	}

	err := app.Run(os.Args)
	if err != nil {
		logger.Fatal(err)
	}
}

func newDriver() *fs.Driver {
	return fs.NewDriver(fs.Config{
		Path:   searchPath(),
		Strict: mainOpts.strict,
		Logger: slog.New(logger),
	})
}

// Nil uses the default search path of the host
func searchPath() fspath.Source {
	if mainOpts.path == "" {
		return nil
	}
	return fspath.Static(fspath.List(mainOpts.path)...)
}
