// Package shardqueue runs remote store writes on a fixed set of worker
// goroutines partitioned by key. Jobs for one key run one at a time in
// submission order; jobs for different keys may run in parallel.
//
// Callers must not Submit concurrently for the same key; FIFO order relies on
// that external serialisation.
package shardqueue

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"github.com/tidewell/scheduler/internal/errors"
)

type queuedJob struct {
	ctx context.Context
	job Job
}

// ShardExecutor executes Jobs on worker goroutines partitioned by a stable
// hash of the key.
type ShardExecutor struct {
	cfg    Config
	queues []chan queuedJob

	done   chan struct{}
	closed uint32

	wg sync.WaitGroup
}

// NewShardExecutor applies defaults to zero fields and starts the workers.
func NewShardExecutor(cfg Config) *ShardExecutor {
	cfg = cfg.withDefaults()
	p := &ShardExecutor{
		cfg:    cfg,
		queues: make([]chan queuedJob, cfg.Shards),
		done:   make(chan struct{}),
	}
	for i := 0; i < cfg.Shards; i++ {
		ch := make(chan queuedJob, cfg.QueueSize)
		p.queues[i] = ch
		p.wg.Add(1)
		go p.runWorker(i, ch)
	}
	return p
}

// Submit enqueues job on the shard for key.
//
//   - ErrExecutorClosed once Stop has been called.
//   - *QueueFullError (errors.Is ErrQueueFull) if the shard stays full for
//     EnqueueTimeout.
//   - ctx.Err() if ctx ends first.
func (p *ShardExecutor) Submit(ctx context.Context, key string, job Job) error {
	if atomic.LoadUint32(&p.closed) == 1 {
		return ErrExecutorClosed
	}
	select {
	case <-p.done:
		return ErrExecutorClosed
	default:
	}

	shard := p.shardFor(key)
	ch := p.queues[shard]

	timer := time.NewTimer(p.cfg.EnqueueTimeout)
	defer timer.Stop()

	select {
	case ch <- queuedJob{ctx: ctx, job: job}:
		submissionsTotal.WithLabelValues(labelFor(shard)).Inc()
		return nil
	case <-p.done:
		return ErrExecutorClosed
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		queueFullTotal.WithLabelValues(labelFor(shard)).Inc()
		return &QueueFullError{Shard: shard, Length: len(ch), Capacity: cap(ch)}
	}
}

// Barrier returns once every job submitted for key before it has finished.
func (p *ShardExecutor) Barrier(ctx context.Context, key string) error {
	reached := make(chan struct{})
	if err := p.Submit(ctx, key, JobFunc(func(context.Context) error {
		close(reached)
		return nil
	})); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-reached:
		return nil
	}
}

// Stop rejects new work, lets every worker drain its queue and waits for
// them. Jobs drained after Stop get a single attempt. Idempotent.
func (p *ShardExecutor) Stop() {
	if !atomic.CompareAndSwapUint32(&p.closed, 0, 1) {
		return
	}
	log.Debug().Int("shards", p.cfg.Shards).Msg("shardqueue: stopping, draining shards")
	close(p.done)
	p.wg.Wait()
	log.Debug().Msg("shardqueue: stopped")
}

// Close lets ShardExecutor satisfy io.Closer.
func (p *ShardExecutor) Close() error {
	p.Stop()
	return nil
}

func (p *ShardExecutor) runWorker(idx int, ch <-chan queuedJob) {
	defer p.wg.Done()
	label := labelFor(idx)

	for {
		select {
		case qj := <-ch:
			p.execute(label, qj, true)
			queueDepth.WithLabelValues(label).Set(float64(len(ch)))

		case <-p.done:
			drained := 0
			for {
				select {
				case qj := <-ch:
					p.execute(label, qj, false)
					drained++
				default:
					if drained > 0 {
						log.Debug().Int("shard", idx).Int("jobs", drained).Msg("shardqueue: drained")
					}
					queueDepth.WithLabelValues(label).Set(0)
					return
				}
			}
		}
	}
}

// execute runs one job to its final outcome and reports it.
func (p *ShardExecutor) execute(label string, qj queuedJob, retry bool) {
	if qj.job == nil {
		return
	}
	if err := qj.ctx.Err(); err != nil {
		p.finish(qj.job, err)
		return
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.cfg.BaseBackoff
	exp.Multiplier = 2
	exp.MaxInterval = p.cfg.MaxInterval
	exp.MaxElapsedTime = 0
	exp.Reset()

	var err error
	for attempt := 1; ; attempt++ {
		start := time.Now()
		err = p.attempt(qj)
		runDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())

		if err == nil || !retry || errors.IsIrrecoverable(err) || attempt >= p.cfg.MaxAttempts {
			break
		}

		retriesTotal.WithLabelValues(label).Inc()
		log.Debug().Err(err).Int("attempt", attempt).Msg("shardqueue: retrying job")

		wait := time.NewTimer(exp.NextBackOff())
		select {
		case <-wait.C:
			continue
		case <-p.done:
			// Stopping: one more attempt, then move on to draining.
			wait.Stop()
			retry = false
			continue
		case <-qj.ctx.Done():
			wait.Stop()
			err = qj.ctx.Err()
		}
		break
	}
	p.finish(qj.job, err)
}

func (p *ShardExecutor) attempt(qj queuedJob) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("shardqueue: job panic")
			err = &PanicError{Value: r}
		}
	}()
	return qj.job.Run(qj.ctx)
}

func (p *ShardExecutor) finish(job Job, err error) {
	if err != nil {
		p.safeHandleError(err)
	}
	if c, ok := job.(Completer); ok {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Error().Interface("panic", r).Msg("shardqueue: completion hook panic")
				}
			}()
			c.Done(err)
		}()
	}
}

func (p *ShardExecutor) safeHandleError(err error) {
	if p.cfg.ErrorHandler == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("shardqueue: error handler panic")
		}
	}()
	p.cfg.ErrorHandler(err)
}

func (p *ShardExecutor) shardFor(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(p.cfg.Shards))
}
