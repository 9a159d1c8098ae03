package validate

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tidewell/scheduler/internal/model"
)

func ptr[T any](v T) *T { return &v }

func TestDocument(t *testing.T) {
	start := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		doc     model.Document
		wantErr bool
	}{
		{"ok", model.Document{Title: "Gym", StartDate: start, EndDate: start.Add(time.Hour)}, false},
		{"zero length ok", model.Document{StartDate: start, EndDate: start}, false},
		{"missing start", model.Document{EndDate: start}, true},
		{"end before start accepted", model.Document{StartDate: start, EndDate: start.Add(-time.Minute)}, false},
		{"title too long", model.Document{Title: strings.Repeat("x", MaxTitle+1), StartDate: start, EndDate: start}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Document(tt.doc)
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestChanges(t *testing.T) {
	start := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	assert.NoError(t, Changes(model.Changes{}))
	assert.NoError(t, Changes(model.Changes{Title: ptr("x")}))
	assert.NoError(t, Changes(model.Changes{EndDate: ptr(start)}))
	assert.ErrorIs(t, Changes(model.Changes{StartDate: ptr(time.Time{})}), model.ErrValidation)
	assert.NoError(t, Changes(model.Changes{StartDate: ptr(start), EndDate: ptr(start.Add(-time.Hour))}))
	assert.ErrorIs(t, Changes(model.Changes{Notes: ptr(strings.Repeat("n", MaxNotes+1))}), model.ErrValidation)
}
