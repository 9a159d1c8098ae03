package model

import "time"

// DateLayout is the minute-precision form dates take in edit input and
// in list output.
const DateLayout = "2006-01-02T15:04"

// Appointment is one calendar event as held by the local collection.
// Key is a process-local handle that survives the Pending → Confirmed
// transition of ID and is never reused.
type Appointment struct {
	Key       int       `json:"key"`
	ID        ID        `json:"id"`
	Title     string    `json:"title,omitempty"`
	Location  string    `json:"location,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Dirty     bool      `json:"dirty,omitempty"`
}

// Document returns the fields persisted remotely. Identifiers are carried
// out of band.
func (a Appointment) Document() Document {
	return Document{
		Title:     a.Title,
		Location:  a.Location,
		Notes:     a.Notes,
		StartDate: a.StartDate,
		EndDate:   a.EndDate,
	}
}

// Document is the shape exchanged with the remote appointment store.
type Document struct {
	Title     string    `json:"title,omitempty"`
	Location  string    `json:"location,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// StoredDocument is a Document together with the key the store holds it under.
type StoredDocument struct {
	ID string `json:"id"`
	Document
}

// Changes is a partial Document; nil fields are left untouched.
type Changes struct {
	Title     *string    `json:"title,omitempty"`
	Location  *string    `json:"location,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

func (c Changes) IsEmpty() bool {
	return c.Title == nil && c.Location == nil && c.Notes == nil && c.StartDate == nil && c.EndDate == nil
}

// Apply returns a copy of a with c merged over it.
func (c Changes) Apply(a Appointment) Appointment {
	if c.Title != nil {
		a.Title = *c.Title
	}
	if c.Location != nil {
		a.Location = *c.Location
	}
	if c.Notes != nil {
		a.Notes = *c.Notes
	}
	if c.StartDate != nil {
		a.StartDate = *c.StartDate
	}
	if c.EndDate != nil {
		a.EndDate = *c.EndDate
	}
	return a
}

// ApplyDocument merges c over d.
func (c Changes) ApplyDocument(d Document) Document {
	return c.Apply(Appointment{
		Title: d.Title, Location: d.Location, Notes: d.Notes,
		StartDate: d.StartDate, EndDate: d.EndDate,
	}).Document()
}

// FullChanges returns a Changes value setting every field of d.
func FullChanges(d Document) Changes {
	return Changes{
		Title:     &d.Title,
		Location:  &d.Location,
		Notes:     &d.Notes,
		StartDate: &d.StartDate,
		EndDate:   &d.EndDate,
	}
}

// Diff returns the fields of next that differ from prev.
func Diff(prev, next Appointment) Changes {
	var c Changes
	if prev.Title != next.Title {
		v := next.Title
		c.Title = &v
	}
	if prev.Location != next.Location {
		v := next.Location
		c.Location = &v
	}
	if prev.Notes != next.Notes {
		v := next.Notes
		c.Notes = &v
	}
	if !prev.StartDate.Equal(next.StartDate) {
		v := next.StartDate
		c.StartDate = &v
	}
	if !prev.EndDate.Equal(next.EndDate) {
		v := next.EndDate
		c.EndDate = &v
	}
	return c
}

// Merge combines two change sets; fields set in later win.
func Merge(earlier, later Changes) Changes {
	out := earlier
	if later.Title != nil {
		out.Title = later.Title
	}
	if later.Location != nil {
		out.Location = later.Location
	}
	if later.Notes != nil {
		out.Notes = later.Notes
	}
	if later.StartDate != nil {
		out.StartDate = later.StartDate
	}
	if later.EndDate != nil {
		out.EndDate = later.EndDate
	}
	return out
}
