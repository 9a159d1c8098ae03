package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidewell/scheduler/internal/model"
)

func at(s string) time.Time {
	t, err := time.ParseInLocation(model.DateLayout, s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func TestApplyAdd_SequentialPendingIDs(t *testing.T) {
	var c Collection
	for i := 0; i < 5; i++ {
		var a model.Appointment
		c, a = c.ApplyAdd(model.Appointment{Title: "x"})
		seq, ok := a.ID.Seq()
		require.True(t, ok)
		assert.Equal(t, i, seq)
		assert.Equal(t, i, a.Key)
	}

	// Deleting the newest record must not free its sequence number.
	c = c.ApplyDelete(4)
	c, a := c.ApplyAdd(model.Appointment{})
	seq, _ := a.ID.Seq()
	assert.Equal(t, 5, seq)

	seen := map[int]bool{}
	for _, rec := range c.Items() {
		assert.False(t, seen[rec.Key], "duplicate key %d", rec.Key)
		seen[rec.Key] = true
	}
}

func TestApplyAdd_DoesNotMutateReceiver(t *testing.T) {
	var c Collection
	c, _ = c.ApplyAdd(model.Appointment{Title: "a"})
	next, _ := c.ApplyAdd(model.Appointment{Title: "b"})
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 2, next.Len())
}

func TestApplyChange(t *testing.T) {
	c := Collection{}.Load([]model.StoredDocument{{
		ID:       "r0",
		Document: model.Document{Title: "Meeting", StartDate: at("2018-11-01T09:45"), EndDate: at("2018-11-01T11:00")},
	}})
	before, _ := c.Get(0)

	t.Run("empty changes leave record unchanged", func(t *testing.T) {
		after, ok := c.ApplyChange(0, model.Changes{}).Get(0)
		require.True(t, ok)
		assert.Equal(t, before, after)
	})

	t.Run("merge in place", func(t *testing.T) {
		title := "Standup"
		after, _ := c.ApplyChange(0, model.Changes{Title: &title}).Get(0)
		assert.Equal(t, "Standup", after.Title)
		assert.Equal(t, before.StartDate, after.StartDate)
		assert.Equal(t, before.ID, after.ID)
		orig, _ := c.Get(0)
		assert.Equal(t, "Meeting", orig.Title)
	})

	t.Run("absent key is a no-op", func(t *testing.T) {
		title := "x"
		next := c.ApplyChange(42, model.Changes{Title: &title})
		assert.Equal(t, c.Items(), next.Items())
	})
}

func TestApplyDelete(t *testing.T) {
	var c Collection
	c, _ = c.ApplyAdd(model.Appointment{Title: "a"})
	c, _ = c.ApplyAdd(model.Appointment{Title: "b"})

	assert.Equal(t, 2, c.ApplyDelete(9).Len())
	next := c.ApplyDelete(0)
	require.Equal(t, 1, next.Len())
	assert.Equal(t, "b", next.Items()[0].Title)
}

func TestLoad(t *testing.T) {
	c := Collection{}.Load([]model.StoredDocument{
		{ID: "a", Document: model.Document{Title: "one", StartDate: at("2024-03-01T10:00").Add(30 * time.Second)}},
		{ID: "b", Document: model.Document{Title: "two"}},
		{ID: "a", Document: model.Document{Title: "dup"}},
	})
	require.Equal(t, 2, c.Len())
	first := c.Items()[0]
	assert.Equal(t, model.ConfirmedID("a"), first.ID)
	assert.Equal(t, at("2024-03-01T10:00"), first.StartDate)

	rec, ok := c.FindRemote("b")
	require.True(t, ok)
	assert.Equal(t, "two", rec.Title)

	// Keys keep counting across reloads.
	again := c.Load([]model.StoredDocument{{ID: "c"}})
	assert.Equal(t, 2, again.Items()[0].Key)
}

func TestMarkConfirmedAndDirty(t *testing.T) {
	var c Collection
	c, a := c.ApplyAdd(model.Appointment{Title: "Gym"})
	c = c.MarkDirty(a.Key, true)
	require.Len(t, c.Dirty(), 1)

	c = c.MarkConfirmed(a.Key, "remote-1")
	rec, _ := c.Get(a.Key)
	assert.Equal(t, model.ConfirmedID("remote-1"), rec.ID)
	assert.True(t, rec.Dirty)

	c = c.MarkDirty(a.Key, false)
	assert.Empty(t, c.Dirty())
}
