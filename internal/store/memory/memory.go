// Package memory is an in-process store.Appointments used by tests and by
// the CLI when no backend is configured.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/tidewell/scheduler/internal/model"
	"github.com/tidewell/scheduler/internal/store"
)

// Store keeps documents in a map guarded by a mutex.
type Store struct {
	mu   sync.RWMutex
	docs map[string]model.Document
}

var _ store.Appointments = (*Store)(nil)

func New() *Store { return &Store{docs: make(map[string]model.Document)} }

// List returns documents ordered by start date, then id.
func (s *Store) List(ctx context.Context) ([]model.StoredDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]model.StoredDocument, 0, len(s.docs))
	for id, d := range s.docs {
		out = append(out, model.StoredDocument{ID: id, Document: d})
	}
	s.mu.RUnlock()
	Sort(out)
	return out, nil
}

func (s *Store) Create(ctx context.Context, doc model.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := doc.Validate(); err != nil {
		return "", err
	}
	id := ulid.Make().String()
	s.mu.Lock()
	s.docs[id] = doc
	s.mu.Unlock()
	return id, nil
}

func (s *Store) Update(ctx context.Context, id string, changes model.Changes) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.docs[id]
	if !ok {
		return fmt.Errorf("appointment %s: %w", id, model.ErrNotFound)
	}
	next := changes.ApplyDocument(cur)
	if err := next.Validate(); err != nil {
		return err
	}
	s.docs[id] = next
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return fmt.Errorf("appointment %s: %w", id, model.ErrNotFound)
	}
	delete(s.docs, id)
	return nil
}

func (s *Store) HealthPing(ctx context.Context) error { return ctx.Err() }

// Sort orders documents the way every backend lists them.
func Sort(docs []model.StoredDocument) {
	sort.SliceStable(docs, func(i, j int) bool {
		if !docs[i].StartDate.Equal(docs[j].StartDate) {
			return docs[i].StartDate.Before(docs[j].StartDate)
		}
		return docs[i].ID < docs[j].ID
	})
}
