package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tidewell/scheduler/internal/engine"
	"github.com/tidewell/scheduler/internal/ics"
	"github.com/tidewell/scheduler/internal/model"
	"github.com/tidewell/scheduler/internal/scheduler"
)

func newListCmd(opts *options) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List appointments ordered by start date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, s *session) error {
				return writeAppointments(cmd.OutOrStdout(), output, s.ctl.View().Appointments)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table, json or yaml")
	return cmd
}

// fieldFlags are the editable fields as command flags.
type fieldFlags struct {
	title, location, notes, start, end string
}

func (f *fieldFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Title")
	cmd.Flags().StringVar(&f.location, "location", "", "Location")
	cmd.Flags().StringVar(&f.notes, "notes", "", "Notes")
	cmd.Flags().StringVar(&f.start, "start", "", "Start, e.g. 2024-05-06T09:00")
	cmd.Flags().StringVar(&f.end, "end", "", "End, e.g. 2024-05-06T10:00")
}

// intents turns the flags that were set on cmd into field changes.
func (f *fieldFlags) intents(cmd *cobra.Command, loc *time.Location) ([]engine.Intent, error) {
	var out []engine.Intent
	text := []struct {
		flag  string
		field model.Field
		value string
	}{
		{"title", model.FieldTitle, f.title},
		{"location", model.FieldLocation, f.location},
		{"notes", model.FieldNotes, f.notes},
	}
	for _, t := range text {
		if cmd.Flags().Changed(t.flag) {
			out = append(out, engine.FieldChanged{Field: t.field, Value: t.value})
		}
	}
	dates := []struct {
		flag  string
		field model.Field
		value string
	}{
		{"start", model.FieldStartDate, f.start},
		{"end", model.FieldEndDate, f.end},
	}
	for _, d := range dates {
		if !cmd.Flags().Changed(d.flag) {
			continue
		}
		t, err := engine.ParseDate(d.value, loc)
		if err != nil {
			return nil, err
		}
		out = append(out, engine.FieldChanged{Field: d.field, Value: t})
	}
	return out, nil
}

// dispatchAll sends intents in order and returns the last view.
func dispatchAll(ctx context.Context, ctl *scheduler.Controller, intents ...engine.Intent) (scheduler.View, error) {
	v := ctl.View()
	for _, in := range intents {
		var err error
		if v, err = ctl.Dispatch(ctx, in); err != nil {
			return v, err
		}
	}
	return v, nil
}

// saveSession validates the open session's projection and commits it. It
// returns the key of the saved record.
func saveSession(ctx context.Context, ctl *scheduler.Controller) (int, error) {
	v := ctl.View()
	if v.Editing == nil {
		return 0, fmt.Errorf("no appointment is being edited")
	}
	doc := v.Editing.Projection.Document()
	if err := doc.Validate(); err != nil {
		return 0, err
	}
	if err := doc.CheckRange(); err != nil {
		return 0, err
	}
	before := make(map[int]bool, len(v.Appointments))
	for _, a := range v.Appointments {
		before[a.Key] = true
	}
	editKey := v.Editing.Key
	v, err := ctl.Dispatch(ctx, engine.SaveRequested{})
	if err != nil {
		return 0, err
	}
	if editKey != nil {
		return *editKey, nil
	}
	for _, a := range v.Appointments {
		if !before[a.Key] {
			return a.Key, nil
		}
	}
	return 0, fmt.Errorf("saved appointment not found")
}

func newAddCmd(opts *options) *cobra.Command {
	var f fieldFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an appointment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, s *session) error {
				loc := s.ctl.Location()
				start, err := engine.ParseDate(f.start, loc)
				if err != nil {
					return err
				}
				if !cmd.Flags().Changed("end") {
					f.end = start.Add(time.Hour).Format(model.DateLayout)
					_ = cmd.Flags().Set("end", f.end)
				}
				changes, err := f.intents(cmd, loc)
				if err != nil {
					return err
				}
				if _, err := s.ctl.NewAppointment(ctx, start); err != nil {
					return err
				}
				if _, err := dispatchAll(ctx, s.ctl, changes...); err != nil {
					return err
				}
				key, err := saveSession(ctx, s.ctl)
				if err != nil {
					return err
				}
				if err := s.finish(ctx); err != nil {
					return err
				}
				a, _ := s.ctl.View().Find(key)
				fmt.Fprintf(cmd.OutOrStdout(), "Appointment created: %s\n", describe(a))
				return nil
			})
		},
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

func lookup(v scheduler.View, ref string) (model.Appointment, error) {
	a, ok := v.Lookup(ref)
	if !ok {
		return model.Appointment{}, fmt.Errorf("%w: no appointment %q", model.ErrNotFound, ref)
	}
	return a, nil
}

func newEditCmd(opts *options) *cobra.Command {
	var f fieldFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, s *session) error {
				a, err := lookup(s.ctl.View(), args[0])
				if err != nil {
					return err
				}
				changes, err := f.intents(cmd, s.ctl.Location())
				if err != nil {
					return err
				}
				if len(changes) == 0 {
					return fmt.Errorf("nothing to change; pass at least one field flag")
				}
				intents := append([]engine.Intent{engine.EditRequested{Key: a.Key}}, changes...)
				if _, err := dispatchAll(ctx, s.ctl, intents...); err != nil {
					return err
				}
				if _, err := saveSession(ctx, s.ctl); err != nil {
					return err
				}
				if err := s.finish(ctx); err != nil {
					return err
				}
				a, _ = s.ctl.View().Find(a.Key)
				fmt.Fprintf(cmd.OutOrStdout(), "Appointment updated: %s\n", describe(a))
				return nil
			})
		},
	}
	f.register(cmd)
	return cmd
}

// confirm asks a y/N question on in.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func newDeleteCmd(opts *options) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an appointment after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, s *session) error {
				a, err := lookup(s.ctl.View(), args[0])
				if err != nil {
					return err
				}
				if _, err := s.ctl.Dispatch(ctx, engine.DeleteRequested{Key: a.Key}); err != nil {
					return err
				}
				if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Delete %q?", a.Title)) {
					_, err := s.ctl.Dispatch(ctx, engine.CancelDelete{})
					fmt.Fprintln(cmd.OutOrStdout(), "Delete cancelled")
					return err
				}
				if _, err := s.ctl.Dispatch(ctx, engine.ConfirmDelete{}); err != nil {
					return err
				}
				if err := s.finish(ctx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Appointment deleted: %s\n", a.ID)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func newExportCmd(opts *options) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write appointments as an iCalendar file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, s *session) error {
				w := cmd.OutOrStdout()
				if file != "" && file != "-" {
					fh, err := os.Create(file)
					if err != nil {
						return err
					}
					defer fh.Close()
					w = fh
				}
				appts := s.ctl.View().Appointments
				if err := ics.Export(w, appts, "", time.Now()); err != nil {
					return err
				}
				log.Debug().Int("appointments", len(appts)).Str("file", file).Msg("calendar exported")
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "Output file, - for stdout")
	return cmd
}

func newImportCmd(opts *options) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Add every event of an iCalendar file as an appointment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if file != "-" {
				fh, err := os.Open(file)
				if err != nil {
					return err
				}
				defer fh.Close()
				r = fh
			}
			docs, err := ics.Import(r)
			if err != nil {
				return err
			}
			return opts.run(cmd, func(ctx context.Context, s *session) error {
				for _, d := range docs {
					if _, err := s.ctl.NewAppointment(ctx, d.StartDate); err != nil {
						return err
					}
					_, err := dispatchAll(ctx, s.ctl,
						engine.FieldChanged{Field: model.FieldTitle, Value: d.Title},
						engine.FieldChanged{Field: model.FieldLocation, Value: d.Location},
						engine.FieldChanged{Field: model.FieldNotes, Value: d.Notes},
						engine.FieldChanged{Field: model.FieldStartDate, Value: d.StartDate},
						engine.FieldChanged{Field: model.FieldEndDate, Value: d.EndDate},
					)
					if err != nil {
						return err
					}
					if _, err := saveSession(ctx, s.ctl); err != nil {
						return fmt.Errorf("event %q: %w", d.Title, err)
					}
				}
				if err := s.finish(ctx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d appointment(s)\n", len(docs))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "Input file, - for stdin")
	return cmd
}
