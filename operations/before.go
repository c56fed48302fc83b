package operations

import (
	"github.com/evergreen-ci/utility"
	"github.com/mongodb/grip"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// this file contains validator functions passed to command and
// subcommand functions to check the contents of flags before the
// action runs.

func requireResultsFile(name string) cli.BeforeFunc {
	return func(c *cli.Context) error {
		path := c.String(name)
		if path == "" {
			return errors.Errorf("flag '--%s' was not specified", name)
		}
		if !utility.FileExists(path) {
			return errors.Errorf("could not find results file '%s'", path)
		}

		return nil
	}
}

func requirePositiveInt(name string) cli.BeforeFunc {
	return func(c *cli.Context) error {
		if c.Int(name) <= 0 {
			return errors.Errorf("flag '--%s' must be positive", name)
		}
		return nil
	}
}

func mergeBeforeFuncs(ops ...func(c *cli.Context) error) cli.BeforeFunc {
	return func(c *cli.Context) error {
		catcher := grip.NewBasicCatcher()

		for _, op := range ops {
			catcher.Add(op(c))
		}

		return catcher.Resolve()
	}
}
