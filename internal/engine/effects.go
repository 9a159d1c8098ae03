package engine

import "github.com/tidewell/scheduler/internal/model"

// Op names the remote store call an effect asks for.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Effect is a remote store call emitted by Reduce. The caller executes it and
// reports the outcome back as RemoteCreated, RemoteSucceeded or RemoteFailed.
type Effect interface {
	// RecordKey is the local key the call belongs to. Calls for one key must
	// reach the store in emission order.
	RecordKey() int
	Op() Op
}

// CreateEffect asks the store to create a document. The local pending id is
// not part of the document.
type CreateEffect struct {
	Key      int
	Document model.Document
}

// UpdateEffect asks the store to apply Changes to the record's document. ID
// may still be pending when the create for the same key is in flight; the
// executor resolves it once the create has landed. Full is set when Changes
// carries every field, which is what a retry sends.
type UpdateEffect struct {
	Key     int
	ID      model.ID
	Changes model.Changes
	Full    bool
}

// DeleteEffect asks the store to delete the record's document.
type DeleteEffect struct {
	Key int
	ID  model.ID
}

func (e CreateEffect) RecordKey() int { return e.Key }

func (e CreateEffect) Op() Op { return OpCreate }

func (e UpdateEffect) RecordKey() int { return e.Key }

func (e UpdateEffect) Op() Op { return OpUpdate }

func (e DeleteEffect) RecordKey() int { return e.Key }

func (e DeleteEffect) Op() Op { return OpDelete }
