package operations

import (
	"github.com/evergreen-ci/speedup/util"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// Conf is responsible for inspecting the application configuration.
func Conf() cli.Command {
	return cli.Command{
		Name:  "conf",
		Usage: "speedup configuration",
		Subcommands: []cli.Command{
			dumpConfig(),
		},
	}
}

func dumpConfig() cli.Command {
	return cli.Command{
		Name:  "dump",
		Usage: "write the effective configuration as YAML",
		Flags: mergeFlags(baseFlags(), generateFlags(), addFormatFlag()),
		Action: func(c *cli.Context) error {
			conf, err := loadConfig(c)
			if err != nil {
				return errors.WithStack(err)
			}
			if err = applyGenerateFlags(c, conf); err != nil {
				return errors.WithStack(err)
			}

			return errors.WithStack(util.WriteYAML(c.App.Writer, conf))
		},
	}
}
