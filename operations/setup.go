package operations

import (
	"context"
	"time"

	"github.com/evergreen-ci/speedup"
	"github.com/evergreen-ci/speedup/storage"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

// loadConfig reads the configuration file named by --config, if any,
// and applies the flags that were explicitly set on top of it.
func loadConfig(c *cli.Context) (*speedup.Configuration, error) {
	conf, err := speedup.LoadConfiguration(c.String(configFlag))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if c.IsSet(numWorkersFlag) {
		conf.NumWorkers = c.Int(numWorkersFlag)
	}
	if c.IsSet(bucketTypeFlag) {
		conf.Output.Type = storage.PailType(c.String(bucketTypeFlag))
	}
	if c.IsSet(bucketNameFlag) {
		conf.Output.Name = c.String(bucketNameFlag)
	}
	if c.IsSet(bucketPrefixFlag) {
		conf.Output.Prefix = c.String(bucketPrefixFlag)
	}
	if c.IsSet(bucketRegionFlag) {
		conf.Output.Region = c.String(bucketRegionFlag)
	}
	if c.IsSet(formatFlagName) {
		conf.Plot.Format = c.String(formatFlagName)
	}
	if c.IsSet(labelFlag) {
		conf.Plot.Label = c.String(labelFlag)
	}

	return conf, errors.WithStack(conf.Validate())
}

// configure sets up the global environment, starting the shared local
// queue. The caller must close the environment.
func configure(ctx context.Context, conf *speedup.Configuration) (speedup.Environment, error) {
	env := speedup.GetEnvironment()
	if err := env.Configure(ctx, conf); err != nil {
		return nil, errors.Wrap(err, "problem configuring environment")
	}

	grip.Info(message.Fields{
		"message": "configured local queue",
		"workers": conf.NumWorkers,
		"output":  conf.Output.Name,
	})

	return env, nil
}

func timeSeed() int64 { return time.Now().UnixNano() }
