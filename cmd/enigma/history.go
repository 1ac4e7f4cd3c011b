package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"enigma/internal/journal"
)

const historySynopsis = "history [-n count] [-v] [-delete] [session-id]"

func (a *app) cmdHistory(args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	limit := fs.Int("n", 20, "number of sessions to list, 0 for all")
	verbose := fs.Bool("v", false, "print every recorded press of a transcript")
	del := fs.Bool("delete", false, "delete the given session")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 1 || *limit < 0 || (*del && fs.NArg() != 1) {
		return usageError(historySynopsis)
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Journal.Enabled {
		return errors.New("the journal is disabled in the key sheet")
	}

	j, err := openJournal(cfg)
	if err != nil {
		return err
	}
	defer j.Close()

	ctx := context.Background()
	switch {
	case *del:
		if err := j.DeleteSession(ctx, fs.Arg(0)); err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Deleted session %s\n", fs.Arg(0))
		return nil
	case fs.NArg() == 1:
		return a.printTranscript(ctx, j, fs.Arg(0), *verbose)
	default:
		return a.printSessions(ctx, j, *limit)
	}
}

func (a *app) printSessions(ctx context.Context, j *journal.Journal, limit int) error {
	sessions, err := j.ListSessions(ctx, limit)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Fprintln(a.stdout, "No sessions recorded.")
		return nil
	}

	fmt.Fprintf(a.stdout, "%-26s  %-19s  %-7s  %-12s  %-5s  %s\n", "ID", "Started", "Mode", "Rotors", "Start", "Presses")
	fmt.Fprintln(a.stdout, strings.Repeat("-", 86))
	for _, s := range sessions {
		fmt.Fprintf(a.stdout, "%-26s  %-19s  %-7s  %-12s  %-5s  %d\n",
			s.ID, s.StartedAt.Local().Format(time.DateTime), s.Mode, s.Rotors, s.StartPositions, s.Presses)
	}
	return nil
}

func (a *app) printTranscript(ctx context.Context, j *journal.Journal, id string, verbose bool) error {
	tr, err := j.Transcript(ctx, id)
	if err != nil {
		return err
	}
	s := tr.Session

	ended := "(open)"
	if s.EndedAt != nil {
		ended = s.EndedAt.Local().Format(time.DateTime)
	}
	plugboard := s.Plugboard
	if plugboard == "" {
		plugboard = "(none)"
	}

	fmt.Fprintf(a.stdout, "%-11s %s\n", "Session:", s.ID)
	fmt.Fprintf(a.stdout, "%-11s %s\n", "Mode:", s.Mode)
	fmt.Fprintf(a.stdout, "%-11s %s\n", "Started:", s.StartedAt.Local().Format(time.DateTime))
	fmt.Fprintf(a.stdout, "%-11s %s\n", "Ended:", ended)
	fmt.Fprintf(a.stdout, "%-11s %s\n", "Rotors:", s.Rotors)
	fmt.Fprintf(a.stdout, "%-11s %s\n", "Rings:", s.Rings)
	fmt.Fprintf(a.stdout, "%-11s %s\n", "Reflector:", s.Reflector)
	fmt.Fprintf(a.stdout, "%-11s %s\n", "Plugboard:", plugboard)
	fmt.Fprintf(a.stdout, "%-11s %s\n", "Start:", s.StartPositions)
	fmt.Fprintf(a.stdout, "%-11s %d\n", "Presses:", s.Presses)
	fmt.Fprintln(a.stdout)
	fmt.Fprintf(a.stdout, "%-11s %s\n", "Input:", groupLetters(tr.Input(), 5))
	fmt.Fprintf(a.stdout, "%-11s %s\n", "Output:", groupLetters(tr.Output(), 5))

	if verbose {
		fmt.Fprintln(a.stdout)
		for _, e := range tr.Entries {
			switch e.Kind {
			case journal.EntryReset:
				fmt.Fprintf(a.stdout, "%5d  reset      %s\n", e.Seq, e.Positions)
			default:
				fmt.Fprintf(a.stdout, "%5d  %c -> %c     %s\n", e.Seq, e.Input, e.Output, e.Positions)
			}
		}
	}
	return nil
}
