// Package engine holds the appointment lifecycle as a pure reducer: Reduce
// takes the current State and one Intent and returns the next State plus the
// remote store calls the caller has to perform. Nothing in this package does
// I/O, starts goroutines or keeps package state.
package engine

import (
	"fmt"
	"time"

	"github.com/tidewell/scheduler/internal/model"
)

// NoticeKind classifies a user-visible, non-blocking notice.
type NoticeKind string

const (
	NoticeLoadFailed  NoticeKind = "load_failed"
	NoticeWriteFailed NoticeKind = "write_failed"
)

// Notice is surfaced to the rendering side without blocking it.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Key     int        `json:"key,omitempty"`
	Op      Op         `json:"op,omitempty"`
	Message string     `json:"message"`
}

// State is everything the engine knows. The zero value is an empty, not yet
// loaded engine in the local time zone.
type State struct {
	Collection Collection
	Session    Session
	Gate       Gate
	Notices    []Notice
	Loaded     bool

	// Location is used to interpret date text typed into the edit session.
	Location *time.Location

	// stash holds the existing-record session that was open when a new
	// appointment was started; cancelling the new one reopens it.
	stash Session
}

// NewState returns an empty state interpreting dates in loc.
func NewState(loc *time.Location) State {
	if loc == nil {
		loc = time.Local
	}
	return State{Location: loc}
}

// Reduce applies one intent. Unknown intents and intents that do not apply
// to the current state return st unchanged with no effects.
func Reduce(st State, in Intent) (State, []Effect) {
	switch in := in.(type) {
	case Loaded:
		st.Collection = st.Collection.Load(in.Docs)
		st.Loaded = true
		return st, nil

	case LoadFailed:
		st.Collection = st.Collection.Load(nil)
		st.Loaded = true
		st = st.notify(Notice{Kind: NoticeLoadFailed, Message: errText("load appointments", in.Err)})
		return st, nil

	case NewAppointmentRequested:
		end := in.End
		if end.IsZero() {
			end = in.Start.Add(time.Hour)
		}
		scaffold := model.Appointment{
			StartDate: in.Start.Truncate(time.Minute),
			EndDate:   end.Truncate(time.Minute),
		}
		if st.Session.Active() && !st.Session.IsNew() {
			st.stash = st.Session
		}
		st.Session = BeginEdit(New(scaffold), model.Appointment{})
		return st, nil

	case EditRequested:
		rec, ok := st.Collection.Get(in.Key)
		if !ok {
			return st, nil
		}
		st.stash = Session{}
		st.Session = BeginEdit(Existing(in.Key), rec)
		return st, nil

	case FieldChanged:
		st.Session = st.Session.SetField(in.Field, in.Value, st.location())
		return st, nil

	case SaveRequested:
		if !st.Session.Active() {
			return st, nil
		}
		proj := st.Session.Projection()
		if key, ok := st.Session.Target().Key(); ok {
			proj.Key = key
			return Commit(st, Changed, proj)
		}
		return Commit(st, Added, proj)

	case CancelRequested:
		if st.Session.IsNew() && st.stash.Active() {
			if k, ok := st.stash.Target().Key(); ok {
				if _, exists := st.Collection.Get(k); exists {
					st.Session = st.stash
					st.stash = Session{}
					return st, nil
				}
			}
		}
		st.Session = st.Session.Discard()
		st.stash = Session{}
		return st, nil

	case DeleteRequested:
		if _, ok := st.Collection.Get(in.Key); !ok {
			return st, nil
		}
		return Commit(st, Deleted, model.Appointment{Key: in.Key})

	case ConfirmDelete:
		return confirmDelete(st)

	case CancelDelete:
		st.Gate = st.Gate.Cancel()
		return st, nil

	case RemoteCreated:
		st.Collection = st.Collection.MarkConfirmed(in.Key, in.RemoteID)
		st.Collection = st.Collection.MarkDirty(in.Key, false)
		return st, nil

	case RemoteSucceeded:
		if in.Full {
			st.Collection = st.Collection.MarkDirty(in.Key, false)
		}
		return st, nil

	case RemoteFailed:
		st.Collection = st.Collection.MarkDirty(in.Key, true)
		st = st.notify(Notice{
			Kind:    NoticeWriteFailed,
			Key:     in.Key,
			Op:      in.Op,
			Message: errText(string(in.Op)+" appointment", in.Err),
		})
		return st, nil

	case RetryRequested:
		rec, ok := st.Collection.Get(in.Key)
		if !ok || !rec.Dirty {
			return st, nil
		}
		if rec.ID.IsPending() {
			return st, []Effect{CreateEffect{Key: rec.Key, Document: rec.Document()}}
		}
		return st, []Effect{UpdateEffect{
			Key:     rec.Key,
			ID:      rec.ID,
			Changes: model.FullChanges(rec.Document()),
			Full:    true,
		}}

	case DismissNotices:
		st.Notices = nil
		return st, nil
	}
	return st, nil
}

// ReduceAll folds intents left to right, concatenating effects.
func ReduceAll(st State, intents ...Intent) (State, []Effect) {
	var all []Effect
	for _, in := range intents {
		var effs []Effect
		st, effs = Reduce(st, in)
		all = append(all, effs...)
	}
	return st, all
}

func (st State) location() *time.Location {
	if st.Location == nil {
		return time.Local
	}
	return st.Location
}

func (st State) notify(n Notice) State {
	notices := make([]Notice, 0, len(st.Notices)+1)
	notices = append(notices, st.Notices...)
	st.Notices = append(notices, n)
	return st
}

func errText(what string, err error) string {
	if err == nil {
		return what + " failed"
	}
	return fmt.Sprintf("%s: %v", what, err)
}
