package scheduler

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/tidewell/scheduler/internal/engine"
	"github.com/tidewell/scheduler/internal/errors"
	"github.com/tidewell/scheduler/internal/model"
	"github.com/tidewell/scheduler/internal/shardqueue"
)

// resolver maps local keys to the store ids their creates returned. Writes
// for a key run in order, so an update queued behind a create finds the id
// here once the create has finished.
type resolver struct {
	mu  sync.RWMutex
	ids map[int]string
}

func newResolver() *resolver { return &resolver{ids: make(map[int]string)} }

func (r *resolver) set(key int, id string) {
	r.mu.Lock()
	r.ids[key] = id
	r.mu.Unlock()
}

func (r *resolver) forget(key int) {
	r.mu.Lock()
	delete(r.ids, key)
	r.mu.Unlock()
}

func (r *resolver) lookup(key int) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	remote, ok := r.ids[key]
	return remote, ok
}

func (r *resolver) resolve(key int, id model.ID) (string, bool) {
	if remote, ok := id.Remote(); ok {
		return remote, true
	}
	return r.lookup(key)
}

func (c *Controller) jobFor(eff engine.Effect) shardqueue.Job {
	switch e := eff.(type) {
	case engine.CreateEffect:
		var created string
		return shardqueue.Tracked(func(ctx context.Context) error {
			if id, ok := c.remotes.lookup(e.Key); ok {
				// An earlier create for this record already landed.
				created = id
				return nil
			}
			ctx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()
			id, err := c.store.Create(ctx, e.Document)
			if err != nil {
				return err
			}
			created = id
			c.remotes.set(e.Key, id)
			return nil
		}, func(err error) {
			c.finish(eff, err, engine.RemoteCreated{Key: e.Key, RemoteID: created})
		})

	case engine.UpdateEffect:
		return shardqueue.Tracked(func(ctx context.Context) error {
			remote, ok := c.remotes.resolve(e.Key, e.ID)
			if !ok {
				return errors.Irrecoverablef("appointment %s has no store id yet", e.ID)
			}
			ctx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()
			return c.store.Update(ctx, remote, e.Changes)
		}, func(err error) {
			c.finish(eff, err, engine.RemoteSucceeded{Key: e.Key, Op: engine.OpUpdate, Full: e.Full})
		})

	case engine.DeleteEffect:
		return shardqueue.Tracked(func(ctx context.Context) error {
			remote, ok := c.remotes.resolve(e.Key, e.ID)
			if !ok {
				// The create never landed, so there is nothing to remove.
				return nil
			}
			ctx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()
			err := c.store.Delete(ctx, remote)
			if stderrors.Is(err, model.ErrNotFound) {
				c.log.Debug().Str("id", remote).Msg("appointment already gone from store")
				err = nil
			}
			if err == nil {
				c.remotes.forget(e.Key)
			}
			return err
		}, func(err error) {
			c.finish(eff, err, engine.RemoteSucceeded{Key: e.Key, Op: engine.OpDelete, Full: true})
		})
	}

	return shardqueue.Tracked(func(context.Context) error {
		return errors.Irrecoverablef("unsupported effect %T", eff)
	}, func(err error) { c.finish(eff, err, nil) })
}

func (c *Controller) finish(eff engine.Effect, err error, success engine.Intent) {
	op := string(eff.Op())
	if err != nil {
		remoteWritesTotal.WithLabelValues(op, "failed").Inc()
		c.log.Error().Err(err).Int("key", eff.RecordKey()).Str("op", op).Msg("remote write failed")
		c.post(engine.RemoteFailed{Key: eff.RecordKey(), Op: eff.Op(), Err: err})
		return
	}
	remoteWritesTotal.WithLabelValues(op, "ok").Inc()
	c.post(success)
}
