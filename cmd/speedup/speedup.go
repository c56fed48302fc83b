package main

import (
	"os"

	"github.com/evergreen-ci/speedup/operations"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/level"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

func main() {
	if err := run(os.Args); err != nil {
		grip.EmergencyFatal(err)
	}
}

// run executes the command named by args and returns its error.
func run(args []string) error {
	return errors.WithStack(buildApp().Run(args))
}

func buildApp() *cli.App {
	app := cli.NewApp()

	app.Name = "speedup"
	app.Usage = "synthetic point lists and parallel scaling charts"
	app.Version = "0.1.0"

	app.Commands = []cli.Command{
		operations.Generate(),
		operations.Plot(),
		operations.Export(),
		operations.Conf(),
	}

	// --level applies to every subcommand.
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "level",
			Value: "info",
			Usage: "Specify lowest visible loglevel as string: 'emergency|alert|critical|error|warning|notice|info|debug'",
		},
	}

	app.Before = func(c *cli.Context) error {
		return errors.WithStack(loggingSetup(app.Name, c.String("level")))
	}

	return app
}

// loggingSetup names the default grip sender after the binary and sets
// its threshold from a level name such as "debug" or "warning".
func loggingSetup(name, logLevel string) error {
	sender := grip.GetSender()
	sender.SetName(name)

	lvl := sender.Level()
	lvl.Threshold = level.FromString(logLevel)
	return errors.WithStack(sender.SetLevel(lvl))
}
