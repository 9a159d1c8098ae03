package engine

import (
	"time"

	"github.com/tidewell/scheduler/internal/model"
)

// Collection is the ordered list of committed appointments. Every method
// returns a new value and leaves the receiver untouched.
type Collection struct {
	items   []model.Appointment
	nextKey int
	nextSeq int
}

// Items returns a copy of the records in collection order.
func (c Collection) Items() []model.Appointment {
	out := make([]model.Appointment, len(c.items))
	copy(out, c.items)
	return out
}

func (c Collection) Len() int { return len(c.items) }

func (c Collection) Get(key int) (model.Appointment, bool) {
	if i := c.index(key); i >= 0 {
		return c.items[i], true
	}
	return model.Appointment{}, false
}

// FindRemote looks a record up by the store's key.
func (c Collection) FindRemote(remoteID string) (model.Appointment, bool) {
	for _, a := range c.items {
		if r, ok := a.ID.Remote(); ok && r == remoteID {
			return a, true
		}
	}
	return model.Appointment{}, false
}

// Load replaces the whole collection with the store's documents. Remote ids
// are copied verbatim; dates are truncated to the minute. Keys keep counting
// from where the previous collection stopped.
func (c Collection) Load(docs []model.StoredDocument) Collection {
	next := Collection{
		items:   make([]model.Appointment, 0, len(docs)),
		nextKey: c.nextKey,
		nextSeq: c.nextSeq,
	}
	seen := make(map[string]struct{}, len(docs))
	for _, d := range docs {
		if _, dup := seen[d.ID]; dup {
			continue
		}
		seen[d.ID] = struct{}{}
		next.items = append(next.items, model.Appointment{
			Key:       next.nextKey,
			ID:        model.ConfirmedID(d.ID),
			Title:     d.Title,
			Location:  d.Location,
			Notes:     d.Notes,
			StartDate: d.StartDate.Truncate(time.Minute),
			EndDate:   d.EndDate.Truncate(time.Minute),
		})
		next.nextKey++
	}
	return next
}

// ApplyAdd appends a with a fresh key and a pending id. Sequence numbers
// start at zero and are never handed out twice, even after deletes.
func (c Collection) ApplyAdd(a model.Appointment) (Collection, model.Appointment) {
	a.Key = c.nextKey
	a.ID = model.PendingID(c.nextSeq)
	a.Dirty = false
	next := c.with(append(c.Items(), a))
	next.nextKey++
	next.nextSeq++
	return next, a
}

// ApplyChange merges changes into the record for key. Absent keys leave the
// collection unchanged.
func (c Collection) ApplyChange(key int, changes model.Changes) Collection {
	i := c.index(key)
	if i < 0 || changes.IsEmpty() {
		return c
	}
	items := c.Items()
	items[i] = changes.Apply(items[i])
	return c.with(items)
}

// ApplyDelete removes the record for key if present.
func (c Collection) ApplyDelete(key int) Collection {
	i := c.index(key)
	if i < 0 {
		return c
	}
	items := make([]model.Appointment, 0, len(c.items)-1)
	items = append(items, c.items[:i]...)
	items = append(items, c.items[i+1:]...)
	return c.with(items)
}

// MarkConfirmed moves a pending record to the store's key.
func (c Collection) MarkConfirmed(key int, remoteID string) Collection {
	i := c.index(key)
	if i < 0 {
		return c
	}
	items := c.Items()
	items[i].ID = model.ConfirmedID(remoteID)
	return c.with(items)
}

func (c Collection) MarkDirty(key int, dirty bool) Collection {
	i := c.index(key)
	if i < 0 || c.items[i].Dirty == dirty {
		return c
	}
	items := c.Items()
	items[i].Dirty = dirty
	return c.with(items)
}

// Dirty returns the records whose last remote write failed.
func (c Collection) Dirty() []model.Appointment {
	var out []model.Appointment
	for _, a := range c.items {
		if a.Dirty {
			out = append(out, a)
		}
	}
	return out
}

func (c Collection) with(items []model.Appointment) Collection {
	return Collection{items: items, nextKey: c.nextKey, nextSeq: c.nextSeq}
}

func (c Collection) index(key int) int {
	for i, a := range c.items {
		if a.Key == key {
			return i
		}
	}
	return -1
}
