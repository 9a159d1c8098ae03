// Package ics converts appointments to and from iCalendar.
package ics

import (
	"io"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/pkg/errors"

	"github.com/tidewell/scheduler/internal/model"
)

const DefaultProdID = "-//tidewell//scheduler//EN"

// Export writes one VEVENT per appointment. The UID is the store id, or the
// pending id for records the store has not acknowledged yet. now stamps
// DTSTAMP.
func Export(w io.Writer, appts []model.Appointment, prodID string, now time.Time) error {
	if prodID == "" {
		prodID = DefaultProdID
	}
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(prodID)

	for _, a := range appts {
		ev := cal.AddEvent(a.ID.String())
		ev.SetDtStampTime(now.UTC())
		ev.SetStartAt(a.StartDate.UTC())
		ev.SetEndAt(a.EndDate.UTC())
		if a.Title != "" {
			ev.SetSummary(a.Title)
		}
		if a.Location != "" {
			ev.SetLocation(a.Location)
		}
		if a.Notes != "" {
			ev.SetDescription(a.Notes)
		}
	}
	_, err := io.WriteString(w, cal.Serialize())
	return errors.Wrap(err, "write calendar")
}

// Import reads VEVENTs as documents. Events without DTSTART are skipped; a
// missing DTEND defaults to one hour after the start.
func Import(r io.Reader) ([]model.Document, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, errors.Wrap(err, "parse calendar")
	}
	var out []model.Document
	for _, ev := range cal.Events() {
		start, err := ev.GetStartAt()
		if err != nil || start.IsZero() {
			continue
		}
		end, err := ev.GetEndAt()
		if err != nil || end.IsZero() || end.Before(start) {
			end = start.Add(time.Hour)
		}
		out = append(out, model.Document{
			Title:     propValue(ev, ical.ComponentPropertySummary),
			Location:  propValue(ev, ical.ComponentPropertyLocation),
			Notes:     propValue(ev, ical.ComponentPropertyDescription),
			StartDate: start.Truncate(time.Minute),
			EndDate:   end.Truncate(time.Minute),
		})
	}
	return out, nil
}

func propValue(ev *ical.VEvent, p ical.ComponentProperty) string {
	if prop := ev.GetProperty(p); prop != nil {
		return prop.Value
	}
	return ""
}
