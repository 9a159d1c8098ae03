// Package scheduler drives the engine reducer from a single event loop,
// executes the remote writes it emits and feeds their outcomes back as
// intents.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tidewell/scheduler/internal/engine"
	"github.com/tidewell/scheduler/internal/shardqueue"
	"github.com/tidewell/scheduler/internal/store"
)

var (
	ErrClosed     = errors.New("scheduler: controller closed")
	ErrNotStarted = errors.New("scheduler: controller not started")
)

// Executor runs remote writes with per-key FIFO ordering.
type Executor interface {
	Submit(ctx context.Context, key string, job shardqueue.Job) error
	Stop()
}

type envelope struct {
	intent engine.Intent
	reply  chan View
}

// Controller owns the engine state. All reductions happen on one goroutine;
// store calls happen on the executor and report back through results.
type Controller struct {
	store    store.Appointments
	exec     Executor
	ownsExec bool
	queueCfg shardqueue.Config

	loc       *time.Location
	dayStart  int
	timeout   time.Duration
	now       func() time.Time
	log       zerolog.Logger
	observers []func(View)

	state   engine.State
	mailbox chan envelope
	ready   chan struct{} // closed once the initial load was reduced
	quit    chan struct{}
	stopped chan struct{}
	started uint32
	closed  uint32

	// results is unbounded so executor workers never wait on the loop.
	resMu   sync.Mutex
	results []engine.Intent
	wake    chan struct{}

	viewMu sync.RWMutex
	view   View

	remotes *resolver

	// inflight counts writes whose outcome has not been reduced yet.
	flightMu sync.Mutex
	inflight int
	idle     []chan struct{}
}

// New builds a Controller over s. Call Start before dispatching.
func New(s store.Appointments, opts ...Option) (*Controller, error) {
	if s == nil {
		return nil, fmt.Errorf("store must not be nil")
	}
	c := &Controller{
		store:    s,
		ownsExec: true,
		loc:      time.Local,
		dayStart: 9,
		timeout:  10 * time.Second,
		now:      time.Now,
		log:      log.Logger,
		mailbox:  make(chan envelope),
		ready:    make(chan struct{}),
		quit:     make(chan struct{}),
		stopped:  make(chan struct{}),
		wake:     make(chan struct{}, 1),
		remotes:  newResolver(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.exec == nil {
		c.exec = shardqueue.NewShardExecutor(c.queueCfg)
		c.ownsExec = true
	}
	c.state = engine.NewState(c.loc)
	c.view = viewOf(c.state)
	return c, nil
}

// Start loads the collection from the store and starts the event loop. A
// failed load is not an error: the collection stays empty and the View
// carries a load_failed notice. Dispatch calls made meanwhile wait until the
// load has been reduced.
func (c *Controller) Start(ctx context.Context) error {
	if atomic.LoadUint32(&c.closed) == 1 {
		return ErrClosed
	}
	if !atomic.CompareAndSwapUint32(&c.started, 0, 1) {
		return fmt.Errorf("scheduler: already started")
	}
	go c.loop()
	defer close(c.ready)

	loadCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	docs, err := c.store.List(loadCtx)
	var in engine.Intent = engine.Loaded{Docs: docs}
	if err != nil {
		c.log.Warn().Err(err).Msg("appointment load failed; starting with an empty calendar")
		in = engine.LoadFailed{Err: err}
	} else {
		c.log.Debug().Int("appointments", len(docs)).Msg("appointments loaded")
	}
	_, err = c.send(ctx, in)
	return err
}

// Dispatch hands one intent to the event loop and returns the View after it
// was reduced. Remote writes it causes run in the background.
func (c *Controller) Dispatch(ctx context.Context, in engine.Intent) (View, error) {
	if atomic.LoadUint32(&c.started) == 0 {
		return View{}, ErrNotStarted
	}
	select {
	case <-c.ready:
	case <-c.quit:
		return View{}, ErrClosed
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
	return c.send(ctx, in)
}

func (c *Controller) send(ctx context.Context, in engine.Intent) (View, error) {
	env := envelope{intent: in, reply: make(chan View, 1)}
	select {
	case c.mailbox <- env:
	case <-c.quit:
		return View{}, ErrClosed
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
	select {
	case v := <-env.reply:
		return v, nil
	case <-c.stopped:
		return View{}, ErrClosed
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
}

// View returns the latest snapshot without going through the loop.
func (c *Controller) View() View {
	c.viewMu.RLock()
	defer c.viewMu.RUnlock()
	return c.view
}

// NewAppointment opens a new-appointment session on day, defaulting to one
// hour from the start of the working day.
func (c *Controller) NewAppointment(ctx context.Context, day time.Time) (View, error) {
	if day.IsZero() {
		day = c.now()
	}
	day = day.In(c.loc)
	start := time.Date(day.Year(), day.Month(), day.Day(), c.dayStart, 0, 0, 0, c.loc)
	return c.Dispatch(ctx, engine.NewAppointmentRequested{Start: start, End: start.Add(time.Hour)})
}

// Location is the zone the controller interprets dates in.
func (c *Controller) Location() *time.Location { return c.loc }

// AwaitConsistency blocks until every remote write issued so far has
// finished and its outcome is visible in View.
func (c *Controller) AwaitConsistency(ctx context.Context) error {
	c.flightMu.Lock()
	if c.inflight == 0 {
		c.flightMu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	c.idle = append(c.idle, ch)
	c.flightMu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains pending writes, applies their outcomes and stops the loop.
// It is idempotent.
func (c *Controller) Close() error {
	if !atomic.CompareAndSwapUint32(&c.closed, 0, 1) {
		return nil
	}
	if c.ownsExec {
		c.exec.Stop()
	}
	close(c.quit)
	if atomic.LoadUint32(&c.started) == 1 {
		<-c.stopped
	}
	return nil
}

func (c *Controller) loop() {
	defer close(c.stopped)
	for {
		select {
		case env := <-c.mailbox:
			c.apply(env.intent, false)
			env.reply <- c.View()
		case <-c.wake:
			c.drainResults()
		case <-c.quit:
			c.drainResults()
			return
		}
	}
}

func (c *Controller) drainResults() {
	c.resMu.Lock()
	batch := c.results
	c.results = nil
	c.resMu.Unlock()
	for _, in := range batch {
		c.apply(in, true)
	}
}

func (c *Controller) apply(in engine.Intent, settles bool) {
	intentsTotal.WithLabelValues(intentName(in)).Inc()
	next, effects := engine.Reduce(c.state, in)
	c.state = next
	for _, eff := range effects {
		c.submit(eff)
	}

	v := viewOf(c.state)
	c.viewMu.Lock()
	c.view = v
	c.viewMu.Unlock()
	dirtyRecords.Set(float64(len(c.state.Collection.Dirty())))
	for _, fn := range c.observers {
		fn(v)
	}

	if settles {
		c.settle()
	}
}

// post queues an outcome intent for the loop. Safe from any goroutine.
func (c *Controller) post(in engine.Intent) {
	c.resMu.Lock()
	c.results = append(c.results, in)
	c.resMu.Unlock()
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *Controller) submit(eff engine.Effect) {
	c.flightMu.Lock()
	c.inflight++
	c.flightMu.Unlock()

	job := c.jobFor(eff)
	key := strconv.Itoa(eff.RecordKey())
	if err := c.exec.Submit(context.Background(), key, job); err != nil {
		c.log.Error().Err(err).Int("key", eff.RecordKey()).Str("op", string(eff.Op())).Msg("remote write not queued")
		remoteWritesTotal.WithLabelValues(string(eff.Op()), "rejected").Inc()
		c.post(engine.RemoteFailed{Key: eff.RecordKey(), Op: eff.Op(), Err: err})
	}
}

func (c *Controller) settle() {
	c.flightMu.Lock()
	defer c.flightMu.Unlock()
	if c.inflight > 0 {
		c.inflight--
	}
	if c.inflight == 0 {
		for _, ch := range c.idle {
			close(ch)
		}
		c.idle = nil
	}
}

func intentName(in engine.Intent) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", in), "engine.")
}
