package speedup

import (
	"context"
	"sync"

	"github.com/mongodb/amboy"
	"github.com/mongodb/amboy/queue"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

const queueCapacity = 1024

var globalEnv *envState

func init()                       { resetEnv() }
func GetEnvironment() Environment { return globalEnv }

func resetEnv() { globalEnv = &envState{name: "global"} }

// Environment objects provide access to shared configuration and
// state, in a way that you can isolate and test for in
type Environment interface {
	// Configure validates the configuration and starts a local
	// queue with the configured number of workers.
	Configure(context.Context, *Configuration) error

	// GetQueue retrieves the shared queue that point list and export
	// jobs run on.
	GetQueue() (amboy.Queue, error)

	GetConf() (*Configuration, error)
	Close(context.Context) error
}

// NewEnvironment returns a configured environment that is independent
// of the global one.
func NewEnvironment(ctx context.Context, name string, conf *Configuration) (Environment, error) {
	env := &envState{name: name}
	if err := env.Configure(ctx, conf); err != nil {
		return nil, errors.WithStack(err)
	}
	return env, nil
}

type envState struct {
	name  string
	queue amboy.Queue
	conf  *Configuration
	mutex sync.RWMutex
}

func (c *envState) Configure(ctx context.Context, conf *Configuration) error {
	if conf == nil {
		return errors.New("cannot configure with a nil configuration")
	}
	if err := conf.Validate(); err != nil {
		return errors.WithStack(err)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.queue != nil {
		return errors.New("environment is already configured")
	}

	q := queue.NewLocalLimitedSize(conf.NumWorkers, queueCapacity)
	if err := q.Start(ctx); err != nil {
		return errors.Wrap(err, "starting queue")
	}

	c.queue = q
	c.conf = conf

	grip.Debug(message.Fields{
		"message": "configured local queue",
		"env":     c.name,
		"workers": conf.NumWorkers,
	})

	return nil
}

func (c *envState) GetQueue() (amboy.Queue, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if c.queue == nil {
		return nil, errors.New("no queue defined in the services cache")
	}

	return c.queue, nil
}

func (c *envState) GetConf() (*Configuration, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if c.conf == nil {
		return nil, errors.New("configuration is not set")
	}

	// copy the struct
	out := &Configuration{}
	*out = *c.conf

	return out, nil
}

func (c *envState) Close(ctx context.Context) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.queue != nil {
		c.queue.Close(ctx)
		c.queue = nil
	}

	return nil
}
