package scheduler

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tidewell/scheduler/internal/shardqueue"
)

// Option configures a Controller in New.
type Option func(*Controller) error

// WithExecutor runs remote writes on exec. The caller keeps ownership; Close
// does not stop it.
func WithExecutor(exec Executor) Option {
	return func(c *Controller) error {
		if exec == nil {
			return fmt.Errorf("executor must not be nil")
		}
		c.exec = exec
		c.ownsExec = false
		return nil
	}
}

// WithQueueConfig configures the executor New creates when none is given.
func WithQueueConfig(cfg shardqueue.Config) Option {
	return func(c *Controller) error {
		c.queueCfg = cfg
		return nil
	}
}

// WithLocation sets the zone dates typed into the edit session are read in.
func WithLocation(loc *time.Location) Option {
	return func(c *Controller) error {
		if loc == nil {
			return fmt.Errorf("location must not be nil")
		}
		c.loc = loc
		return nil
	}
}

// WithDayStart sets the hour new appointments start at on their day.
func WithDayStart(hour int) Option {
	return func(c *Controller) error {
		if hour < 0 || hour > 23 {
			return fmt.Errorf("invalid day start hour %d", hour)
		}
		c.dayStart = hour
		return nil
	}
}

// WithTimeout bounds each single store call attempt.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be > 0")
		}
		c.timeout = d
		return nil
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) error {
		c.now = now
		return nil
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) error {
		c.log = l
		return nil
	}
}

// WithObserver registers fn to receive every new View. fn runs on the event
// loop and must not call back into the Controller synchronously.
func WithObserver(fn func(View)) Option {
	return func(c *Controller) error {
		c.observers = append(c.observers, fn)
		return nil
	}
}
