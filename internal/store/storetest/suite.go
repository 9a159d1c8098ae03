// Package storetest is a compliance suite every store.Appointments backend
// runs from its own tests.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tidewell/scheduler/internal/model"
	"github.com/tidewell/scheduler/internal/store"
)

// Run exercises s. makeStore must return an empty, isolated store.
func Run(t *testing.T, makeStore func(t *testing.T) store.Appointments) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()
	start := time.Date(2018, 11, 1, 9, 45, 0, 0, time.UTC)

	if docs, err := s.List(ctx); err != nil || len(docs) != 0 {
		t.Fatalf("List on empty store: n=%d err=%v", len(docs), err)
	}

	meeting := model.Document{Title: "Meeting", Location: "Room 1", StartDate: start, EndDate: start.Add(75 * time.Minute)}
	id1, err := s.Create(ctx, meeting)
	if err != nil || id1 == "" {
		t.Fatalf("Create: id=%q err=%v", id1, err)
	}
	gym := model.Document{Title: "Gym", StartDate: start.Add(-time.Hour), EndDate: start}
	id2, err := s.Create(ctx, gym)
	if err != nil || id2 == "" || id2 == id1 {
		t.Fatalf("Create second: id=%q err=%v", id2, err)
	}

	docs, err := s.List(ctx)
	if err != nil || len(docs) != 2 {
		t.Fatalf("List: n=%d err=%v", len(docs), err)
	}
	if docs[0].ID != id2 || docs[1].ID != id1 {
		t.Fatalf("List order: want [%s %s] by start date, got [%s %s]", id2, id1, docs[0].ID, docs[1].ID)
	}
	if got := docs[1]; got.Title != "Meeting" || got.Location != "Room 1" || !got.StartDate.Equal(start) || !got.EndDate.Equal(meeting.EndDate) {
		t.Fatalf("List round trip: got %+v", got)
	}

	title := "Standup"
	if err := s.Update(ctx, id1, model.Changes{Title: &title}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got := find(t, s, id1)
	if got.Title != "Standup" || got.Location != "Room 1" || !got.StartDate.Equal(start) {
		t.Fatalf("Update must only touch given fields: got %+v", got)
	}

	empty := ""
	newEnd := start.Add(2 * time.Hour)
	if err := s.Update(ctx, id1, model.Changes{Location: &empty, EndDate: &newEnd}); err != nil {
		t.Fatalf("Update clear: %v", err)
	}
	got = find(t, s, id1)
	if got.Location != "" || !got.EndDate.Equal(newEnd) {
		t.Fatalf("Update clear: got %+v", got)
	}

	if err := s.Update(ctx, id1, model.Changes{}); err != nil {
		t.Fatalf("Update with no changes: %v", err)
	}

	if err := s.Update(ctx, "missing", model.Changes{Title: &title}); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Update missing: want ErrNotFound, got %v", err)
	}
	if err := s.Update(ctx, "missing", model.Changes{}); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Update missing with no changes: want ErrNotFound, got %v", err)
	}

	if _, err := s.Create(ctx, model.Document{Title: "no dates"}); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("Create invalid: want ErrValidation, got %v", err)
	}

	// Date order is not enforced: an end before the start is stored as given.
	late := start.Add(5 * time.Hour)
	if err := s.Update(ctx, id1, model.Changes{StartDate: &late}); err != nil {
		t.Fatalf("Update start past end: %v", err)
	}
	if got := find(t, s, id1); !got.StartDate.Equal(late) || !got.EndDate.Equal(newEnd) {
		t.Fatalf("Update start past end: got %+v", got)
	}
	inverted := model.Document{Title: "inverted", StartDate: start.Add(time.Hour), EndDate: start}
	id3, err := s.Create(ctx, inverted)
	if err != nil {
		t.Fatalf("Create inverted range: %v", err)
	}
	if err := s.Delete(ctx, id3); err != nil {
		t.Fatalf("Delete inverted: %v", err)
	}

	if err := s.Delete(ctx, id2); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, id2); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Delete twice: want ErrNotFound, got %v", err)
	}
	if docs, err := s.List(ctx); err != nil || len(docs) != 1 || docs[0].ID != id1 {
		t.Fatalf("List after delete: %+v err=%v", docs, err)
	}
}

func find(t *testing.T, s store.Appointments, id string) model.StoredDocument {
	t.Helper()
	docs, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, d := range docs {
		if d.ID == id {
			return d
		}
	}
	t.Fatalf("document %s not found", id)
	return model.StoredDocument{}
}
