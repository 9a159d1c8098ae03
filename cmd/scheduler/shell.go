package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tidewell/scheduler/internal/engine"
	"github.com/tidewell/scheduler/internal/model"
	"github.com/tidewell/scheduler/internal/scheduler"
)

const shellHelp = `Commands:
  new [date]            start a new appointment (default: today)
  open <id>             edit an existing appointment
  set <field> <value>   set title, location, notes, startDate or endDate
  save | cancel         commit or discard the open edit
  delete <id>           ask to delete an appointment
  confirm | abort       answer a pending delete
  retry <id>            resend a failed write
  dismiss               clear notices
  show                  print the edit session, delete gate and notices
  list                  print all appointments
  quit                  wait for pending writes and exit`

func newShellCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive appointment editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The shell is long-lived; only its setup and final drain are bounded.
			ctx := cmd.Context()
			openCtx, cancel := context.WithTimeout(ctx, commandTimeout)
			s, err := opts.open(openCtx)
			cancel()
			if err != nil {
				return err
			}
			defer func() { _ = s.close() }()

			sh := &shell{ctl: s.ctl, out: cmd.OutOrStdout()}
			sh.loop(ctx, cmd.InOrStdin())

			finishCtx, cancel := context.WithTimeout(ctx, commandTimeout)
			defer cancel()
			return s.finish(finishCtx)
		},
	}
}

type shell struct {
	ctl *scheduler.Controller
	out io.Writer
}

func (sh *shell) loop(ctx context.Context, in io.Reader) {
	sc := bufio.NewScanner(in)
	fmt.Fprint(sh.out, "> ")
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "quit" || line == "exit" {
			return
		}
		if line != "" {
			if err := sh.exec(ctx, line); err != nil {
				fmt.Fprintf(sh.out, "error: %v\n", err)
			}
		}
		fmt.Fprint(sh.out, "> ")
	}
}

func (sh *shell) exec(ctx context.Context, line string) error {
	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	var in engine.Intent
	switch verb {
	case "help":
		fmt.Fprintln(sh.out, shellHelp)
		return nil
	case "list":
		return writeAppointments(sh.out, "table", sh.ctl.View().Appointments)
	case "show":
		sh.show(sh.ctl.View())
		return nil
	case "new":
		day := time.Now()
		if rest != "" {
			t, err := engine.ParseDate(rest, sh.ctl.Location())
			if err != nil {
				return err
			}
			day = t
		}
		v, err := sh.ctl.NewAppointment(ctx, day)
		if err != nil {
			return err
		}
		sh.show(v)
		return nil
	case "open", "delete", "retry":
		a, err := lookup(sh.ctl.View(), rest)
		if err != nil {
			return err
		}
		switch verb {
		case "open":
			in = engine.EditRequested{Key: a.Key}
		case "delete":
			in = engine.DeleteRequested{Key: a.Key}
		default:
			in = engine.RetryRequested{Key: a.Key}
		}
	case "set":
		name, value, _ := strings.Cut(rest, " ")
		f, err := model.ParseField(name)
		if err != nil {
			return err
		}
		in = engine.FieldChanged{Field: f, Value: strings.TrimSpace(value)}
	case "save":
		in = engine.SaveRequested{}
	case "cancel":
		in = engine.CancelRequested{}
	case "confirm":
		in = engine.ConfirmDelete{}
	case "abort":
		in = engine.CancelDelete{}
	case "dismiss":
		in = engine.DismissNotices{}
	default:
		return fmt.Errorf("unknown command %q, try help", verb)
	}

	v, err := sh.ctl.Dispatch(ctx, in)
	if err != nil {
		return err
	}
	sh.show(v)
	return nil
}

func (sh *shell) show(v scheduler.View) {
	if e := v.Editing; e != nil {
		label := "new appointment"
		if e.Key != nil {
			label = fmt.Sprintf("editing #%d", *e.Key)
		}
		fmt.Fprintf(sh.out, "%s: %s\n", label, summary(e.Projection))
	}
	if v.Gate.Candidate != nil {
		if a, ok := v.Find(*v.Gate.Candidate); ok {
			fmt.Fprintf(sh.out, "delete %q? confirm or abort\n", a.Title)
		}
	}
	for _, n := range v.Notices {
		fmt.Fprintf(sh.out, "! %s\n", n.Message)
	}
}
