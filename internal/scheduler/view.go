package scheduler

import (
	"github.com/tidewell/scheduler/internal/engine"
	"github.com/tidewell/scheduler/internal/model"
)

// View is the read-only snapshot handed to the rendering side.
type View struct {
	Appointments []model.Appointment `json:"appointments"`
	Editing      *EditView           `json:"editing,omitempty"`
	Gate         GateView            `json:"gate"`
	Notices      []engine.Notice     `json:"notices,omitempty"`
	Loaded       bool                `json:"loaded"`
}

// EditView describes the open edit session.
type EditView struct {
	New        bool              `json:"new"`
	Key        *int              `json:"key,omitempty"`
	Projection model.Appointment `json:"projection"`
	Pending    model.Changes     `json:"pending"`
}

type GateView struct {
	State     string `json:"state"`
	Candidate *int   `json:"candidate,omitempty"`
}

// Find returns the appointment with key.
func (v View) Find(key int) (model.Appointment, bool) {
	for _, a := range v.Appointments {
		if a.Key == key {
			return a, true
		}
	}
	return model.Appointment{}, false
}

// Lookup resolves a user-facing reference: a store id, a pending id such as
// "pending-3", or a local key written "#3".
func (v View) Lookup(ref string) (model.Appointment, bool) {
	if len(ref) > 1 && ref[0] == '#' {
		var key int
		for _, r := range ref[1:] {
			if r < '0' || r > '9' {
				return model.Appointment{}, false
			}
			key = key*10 + int(r-'0')
		}
		return v.Find(key)
	}
	id, err := model.ParseID(ref)
	if err != nil {
		return model.Appointment{}, false
	}
	for _, a := range v.Appointments {
		if a.ID == id {
			return a, true
		}
	}
	return model.Appointment{}, false
}

func viewOf(st engine.State) View {
	v := View{
		Appointments: st.Collection.Items(),
		Gate:         GateView{State: st.Gate.State().String()},
		Loaded:       st.Loaded,
	}
	if len(st.Notices) > 0 {
		v.Notices = append([]engine.Notice(nil), st.Notices...)
	}
	if k, ok := st.Gate.Candidate(); ok {
		v.Gate.Candidate = &k
	}
	if st.Session.Active() {
		ev := &EditView{
			New:        st.Session.IsNew(),
			Projection: st.Session.Projection(),
			Pending:    st.Session.Pending(),
		}
		if k, ok := st.Session.Target().Key(); ok {
			ev.Key = &k
		}
		v.Editing = ev
	}
	return v
}
