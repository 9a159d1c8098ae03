package shardqueue

import "context"

// Job is a unit of work executed by a ShardExecutor.
type Job interface {
	Run(ctx context.Context) error
}

// JobFunc adapts a function to a Job.
type JobFunc func(ctx context.Context) error

func (f JobFunc) Run(ctx context.Context) error { return f(ctx) }

// Completer is implemented by jobs that want their final outcome. Done is
// called exactly once, after the last attempt, with nil on success. It is
// also called for jobs skipped because their context was cancelled.
type Completer interface {
	Done(err error)
}

// Tracked wraps run so that done receives its final outcome.
func Tracked(run func(ctx context.Context) error, done func(err error)) Job {
	return trackedJob{run: run, done: done}
}

type trackedJob struct {
	run  func(ctx context.Context) error
	done func(err error)
}

func (j trackedJob) Run(ctx context.Context) error { return j.run(ctx) }

func (j trackedJob) Done(err error) {
	if j.done != nil {
		j.done(err)
	}
}
