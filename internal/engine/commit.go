package engine

import "github.com/tidewell/scheduler/internal/model"

// Kind selects what Commit does with an appointment.
type Kind int

const (
	Added Kind = iota
	Changed
	Deleted
)

func (k Kind) String() string {
	switch k {
	case Added:
		return "added"
	case Changed:
		return "changed"
	case Deleted:
		return "deleted"
	}
	return "unknown"
}

// Commit reconciles one appointment against the collection. For Added and
// Changed, a is the edit projection; for Deleted only a.Key is read and the
// gate is armed instead of touching the collection. The edit session is
// cleared in every case.
func Commit(st State, kind Kind, a model.Appointment) (State, []Effect) {
	st.Session = st.Session.Discard()
	st.stash = Session{}

	switch kind {
	case Added:
		col, added := st.Collection.ApplyAdd(a)
		st.Collection = col
		return st, []Effect{CreateEffect{Key: added.Key, Document: added.Document()}}

	case Changed:
		prev, ok := st.Collection.Get(a.Key)
		if !ok {
			return st, nil
		}
		changes := model.Diff(prev, a)
		if changes.IsEmpty() {
			return st, nil
		}
		st.Collection = st.Collection.ApplyChange(a.Key, changes)
		return st, []Effect{UpdateEffect{Key: a.Key, ID: prev.ID, Changes: changes}}

	case Deleted:
		if _, ok := st.Collection.Get(a.Key); !ok {
			return st, nil
		}
		st.Gate = st.Gate.Arm(a.Key)
		return st, nil
	}
	return st, nil
}

// confirmDelete runs the confirm path of the gate.
func confirmDelete(st State) (State, []Effect) {
	gate, key, ok := st.Gate.Confirm()
	st.Gate = gate
	if !ok {
		return st, nil
	}
	rec, found := st.Collection.Get(key)
	if !found {
		return st, nil
	}
	st.Collection = st.Collection.ApplyDelete(key)
	if st.Session.Active() {
		if k, ok := st.Session.Target().Key(); ok && k == key {
			st.Session = st.Session.Discard()
		}
	}
	return st, []Effect{DeleteEffect{Key: key, ID: rec.ID}}
}
