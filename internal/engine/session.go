package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/tidewell/scheduler/internal/model"
)

type targetKind int

const (
	targetNone targetKind = iota
	targetNew
	targetExisting
)

// EditTarget says what an edit session is editing: a scaffold that does not
// exist yet, or a committed record addressed by key.
type EditTarget struct {
	kind     targetKind
	key      int
	scaffold model.Appointment
}

func New(scaffold model.Appointment) EditTarget {
	return EditTarget{kind: targetNew, scaffold: scaffold}
}

func Existing(key int) EditTarget { return EditTarget{kind: targetExisting, key: key} }

func (t EditTarget) IsNew() bool { return t.kind == targetNew }

// Key returns the target record key; ok is false for new targets.
func (t EditTarget) Key() (key int, ok bool) {
	return t.key, t.kind == targetExisting
}

// Session buffers uncommitted field edits for one appointment.
type Session struct {
	target  EditTarget
	base    model.Appointment
	pending model.Changes
}

// BeginEdit opens a session on base with no pending changes.
func BeginEdit(target EditTarget, base model.Appointment) Session {
	if target.kind == targetNew {
		base = target.scaffold
	}
	return Session{target: target, base: base}
}

func (s Session) Active() bool { return s.target.kind != targetNone }

func (s Session) IsNew() bool { return s.target.IsNew() }

func (s Session) Target() EditTarget { return s.target }

func (s Session) Base() model.Appointment { return s.base }

func (s Session) Pending() model.Changes { return s.pending }

// Projection is base overlaid with the pending changes.
func (s Session) Projection() model.Appointment { return s.pending.Apply(s.base) }

// Discard drops the session without committing anything.
func (s Session) Discard() Session { return Session{} }

// SetField records a pending value. Text fields take any value and render it
// with fmt. Date fields take a time.Time or a string in one of
// DateInputLayouts; empty or unparsable input keeps the current projected
// value so the field is never left unset.
func (s Session) SetField(f model.Field, value any, loc *time.Location) Session {
	if !s.Active() {
		return s
	}
	next := s
	switch f {
	case model.FieldTitle:
		v := text(value)
		next.pending.Title = &v
	case model.FieldLocation:
		v := text(value)
		next.pending.Location = &v
	case model.FieldNotes:
		v := text(value)
		next.pending.Notes = &v
	case model.FieldStartDate:
		v := dateOr(value, s.Projection().StartDate, loc)
		next.pending.StartDate = &v
	case model.FieldEndDate:
		v := dateOr(value, s.Projection().EndDate, loc)
		next.pending.EndDate = &v
	}
	return next
}

// DateInputLayouts are tried in order when a date field is set from text.
var DateInputLayouts = []string{
	model.DateLayout,
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate parses s against DateInputLayouts in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range DateInputLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.Truncate(time.Minute), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: cannot parse date %q", model.ErrValidation, s)
}

func dateOr(value any, fallback time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	switch v := value.(type) {
	case time.Time:
		if !v.IsZero() {
			return v.Truncate(time.Minute)
		}
	case *time.Time:
		if v != nil && !v.IsZero() {
			return v.Truncate(time.Minute)
		}
	case string:
		if t, err := ParseDate(v, loc); err == nil {
			return t
		}
	}
	return fallback
}

func text(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case *string:
		if v == nil {
			return ""
		}
		return *v
	default:
		return fmt.Sprint(v)
	}
}
