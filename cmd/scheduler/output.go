package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/tidewell/scheduler/internal/engine"
	"github.com/tidewell/scheduler/internal/model"
	"github.com/tidewell/scheduler/internal/scheduler"
)

// row is the printable form of an appointment.
type row struct {
	Key      int    `json:"key" yaml:"key"`
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Start    string `json:"start" yaml:"start"`
	End      string `json:"end" yaml:"end"`
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
	Notes    string `json:"notes,omitempty" yaml:"notes,omitempty"`
	Dirty    bool   `json:"dirty,omitempty" yaml:"dirty,omitempty"`
}

func toRow(a model.Appointment) row {
	return row{
		Key:      a.Key,
		ID:       a.ID.String(),
		Title:    a.Title,
		Start:    a.StartDate.Format(model.DateLayout),
		End:      a.EndDate.Format(model.DateLayout),
		Location: a.Location,
		Notes:    a.Notes,
		Dirty:    a.Dirty,
	}
}

func writeAppointments(w io.Writer, format string, appts []model.Appointment) error {
	rows := make([]row, 0, len(appts))
	for _, a := range appts {
		rows = append(rows, toRow(a))
	}
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "KEY\tID\tSTART\tEND\tTITLE\tLOCATION")
		for _, r := range rows {
			id := r.ID
			if r.Dirty {
				id += "*"
			}
			fmt.Fprintf(tw, "#%d\t%s\t%s\t%s\t%s\t%s\n", r.Key, id, r.Start, r.End, r.Title, r.Location)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
	}
}

func failedWrites(v scheduler.View) int {
	n := 0
	for _, nt := range v.Notices {
		if nt.Kind == engine.NoticeWriteFailed {
			n++
		}
	}
	return n
}

func loadFailed(v scheduler.View) bool {
	for _, nt := range v.Notices {
		if nt.Kind == engine.NoticeLoadFailed {
			return true
		}
	}
	return false
}

func noticeText(v scheduler.View) string {
	msgs := make([]string, 0, len(v.Notices))
	for _, nt := range v.Notices {
		msgs = append(msgs, nt.Message)
	}
	return strings.Join(msgs, "; ")
}

func describe(a model.Appointment) string {
	return a.ID.String() + " " + summary(a)
}

func summary(a model.Appointment) string {
	s := fmt.Sprintf("%q %s - %s", a.Title,
		a.StartDate.Format(model.DateLayout), a.EndDate.Format(model.DateLayout))
	if a.Location != "" {
		s += " @ " + a.Location
	}
	return s
}
