// Package validate checks appointment payloads before they reach a store.
package validate

import (
	"fmt"
	"unicode/utf8"

	"github.com/tidewell/scheduler/internal/model"
)

const (
	MaxTitle    = 200
	MaxLocation = 200
	MaxNotes    = 4000
)

func MaxLen(field string, v *string, limit int) error {
	if v == nil {
		return nil
	}
	if utf8.RuneCountInString(*v) > limit {
		return fmt.Errorf("%s exceeds %d characters", field, limit)
	}
	return nil
}

// Document validates a create payload.
func Document(d model.Document) error {
	if err := textFields(&d.Title, &d.Location, &d.Notes); err != nil {
		return err
	}
	if err := d.Validate(); err != nil {
		return err
	}
	return nil
}

// Changes validates a partial update. An empty update is allowed. Dates are
// not checked against each other; the store keeps whatever range it is given.
func Changes(c model.Changes) error {
	if err := textFields(c.Title, c.Location, c.Notes); err != nil {
		return err
	}
	if c.StartDate != nil && c.StartDate.IsZero() {
		return fmt.Errorf("%w: startDate must not be empty", model.ErrValidation)
	}
	if c.EndDate != nil && c.EndDate.IsZero() {
		return fmt.Errorf("%w: endDate must not be empty", model.ErrValidation)
	}
	return nil
}

func textFields(title, location, notes *string) error {
	for _, f := range []struct {
		name  string
		v     *string
		limit int
	}{
		{"title", title, MaxTitle},
		{"location", location, MaxLocation},
		{"notes", notes, MaxNotes},
	} {
		if err := MaxLen(f.name, f.v, f.limit); err != nil {
			return fmt.Errorf("%w: %v", model.ErrValidation, err)
		}
	}
	return nil
}
