package engine

import (
	"time"

	"github.com/tidewell/scheduler/internal/model"
)

// Intent is an input to Reduce: a user action or the outcome of a remote call.
type Intent interface{ intent() }

type (
	// Loaded carries the store contents read at start.
	Loaded struct{ Docs []model.StoredDocument }

	// LoadFailed reports that the initial read failed.
	LoadFailed struct{ Err error }

	NewAppointmentRequested struct{ Start, End time.Time }

	EditRequested struct{ Key int }

	FieldChanged struct {
		Field model.Field
		Value any
	}

	SaveRequested   struct{}
	CancelRequested struct{}

	DeleteRequested struct{ Key int }
	ConfirmDelete   struct{}
	CancelDelete    struct{}

	// RemoteCreated reports the key the store assigned to a pending record.
	RemoteCreated struct {
		Key      int
		RemoteID string
	}

	RemoteSucceeded struct {
		Key  int
		Op   Op
		Full bool
	}

	RemoteFailed struct {
		Key int
		Op  Op
		Err error
	}

	// RetryRequested re-sends whatever write brings a dirty record back in
	// line with the store.
	RetryRequested struct{ Key int }

	DismissNotices struct{}
)

func (Loaded) intent()                  {}
func (LoadFailed) intent()              {}
func (NewAppointmentRequested) intent() {}
func (EditRequested) intent()           {}
func (FieldChanged) intent()            {}
func (SaveRequested) intent()           {}
func (CancelRequested) intent()         {}
func (DeleteRequested) intent()         {}
func (ConfirmDelete) intent()           {}
func (CancelDelete) intent()            {}
func (RemoteCreated) intent()           {}
func (RemoteSucceeded) intent()         {}
func (RemoteFailed) intent()            {}
func (RetryRequested) intent()          {}
func (DismissNotices) intent()          {}
