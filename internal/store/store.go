// Package store defines the remote appointment store the engine persists
// to, and the probes the service uses to watch it.
package store

import (
	"context"

	"github.com/tidewell/scheduler/internal/model"
)

// Appointments is an asynchronous document collection keyed by an opaque
// string. Update and Delete return model.ErrNotFound for unknown ids; Create
// returns model.ErrValidation for documents failing Document.Validate.
type Appointments interface {
	List(ctx context.Context) ([]model.StoredDocument, error)
	Create(ctx context.Context, doc model.Document) (string, error)
	Update(ctx context.Context, id string, changes model.Changes) error
	Delete(ctx context.Context, id string) error
}
