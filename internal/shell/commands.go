package shell

import (
	"context"
	"fmt"
	"time"

	"github.com/dshills/ttedit/internal/engine/diff"
)

// registerHandlers builds the command name to handler table.
func (s *Shell) registerHandlers() {
	s.handlers = map[string]func(ctx context.Context, cmd Command) error{
		"h":      s.cmdHelp,
		"s":      s.cmdShow,
		"t":      s.cmdTimeline,
		"p":      s.cmdPreview,
		"c":      s.cmdCheckout,
		"r":      s.cmdReplace,
		"i":      s.cmdInsert,
		"d":      s.cmdDelete,
		"diff":   s.cmdDiff,
		"play":   s.cmdPlay,
		"save":   s.cmdSave,
		"source": s.cmdSource,
		"q":      s.cmdQuit,
	}
}

func (s *Shell) cmdHelp(_ context.Context, _ Command) error {
	fmt.Fprint(s.out, HelpText())
	return nil
}

func (s *Shell) cmdQuit(_ context.Context, _ Command) error {
	fmt.Fprintln(s.out, "Bye.")
	return errQuit
}

func (s *Shell) cmdShow(_ context.Context, _ Command) error {
	tl := s.session.Timeline()
	fmt.Fprintf(s.out, "\n=== Current file state (index %d) ===\n", tl.Head())
	writeLines(s.out, s.session.Buffer())
	fmt.Fprint(s.out, "=== end ===\n\n")
	return nil
}

func (s *Shell) cmdTimeline(_ context.Context, _ Command) error {
	tl := s.session.Timeline()
	head := tl.Head()

	fmt.Fprint(s.out, "\n--- Timeline ---\n")
	for i, snap := range tl.All() {
		fmt.Fprintln(s.out, timelineRow(i, snap, i == head, s.labelWidth))
	}
	fmt.Fprint(s.out, "--- end ---\n\n")
	return nil
}

func (s *Shell) cmdPreview(_ context.Context, cmd Command) error {
	index := cmd.Args[0]
	snap, err := s.session.Timeline().Get(index)
	if err != nil {
		s.report(err)
		return nil
	}

	fmt.Fprintf(s.out, "\n--- Preview state %d (%s) ---\n", index, snap.Timestamp().Format(TimeFormat))
	writeLines(s.out, snap.Content())
	fmt.Fprint(s.out, "--- end preview ---\n\n")
	return nil
}

func (s *Shell) cmdCheckout(_ context.Context, cmd Command) error {
	index := cmd.Args[0]
	head, err := s.session.Checkout(index)
	if err != nil {
		s.report(err)
		return nil
	}
	fmt.Fprintf(s.out, "Checked out state %d and created new head at index %d.\n", index, head)
	return nil
}

func (s *Shell) cmdReplace(ctx context.Context, cmd Command) error {
	text, err := s.ask(ctx, "New text (replace): ")
	if err != nil {
		return err
	}
	if _, err := s.session.Replace(cmd.Args[0], text); err != nil {
		s.report(err)
		return nil
	}
	fmt.Fprintln(s.out, "Replaced.")
	return nil
}

func (s *Shell) cmdInsert(ctx context.Context, cmd Command) error {
	text, err := s.ask(ctx, "New text (insert): ")
	if err != nil {
		return err
	}
	if _, err := s.session.Insert(cmd.Args[0], text); err != nil {
		s.report(err)
		return nil
	}
	fmt.Fprintln(s.out, "Inserted.")
	return nil
}

func (s *Shell) cmdDelete(ctx context.Context, cmd Command) error {
	n := cmd.Args[0]
	if s.confirmDelete {
		ok, err := s.confirm(ctx, fmt.Sprintf("Delete line %d? (y/N): ", n))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(s.out, "Cancelled.")
			return nil
		}
	}

	if _, err := s.session.Delete(n); err != nil {
		s.report(err)
		return nil
	}
	fmt.Fprintln(s.out, "Deleted.")
	return nil
}

func (s *Shell) cmdDiff(_ context.Context, cmd Command) error {
	tl := s.session.Timeline()
	from := cmd.Args[0]
	to := tl.Head()
	if len(cmd.Args) > 1 {
		to = cmd.Args[1]
	}

	oldBuf, err := tl.Preview(from)
	if err != nil {
		s.report(err)
		return nil
	}
	newBuf, err := tl.Preview(to)
	if err != nil {
		s.report(err)
		return nil
	}

	result := diff.Compute(oldBuf, newBuf, diff.Options{})
	if !result.HasChanges() {
		fmt.Fprintf(s.out, "No differences between state %d and state %d.\n", from, to)
		return nil
	}

	fmt.Fprintf(s.out, "--- state %d\n+++ state %d\n", from, to)
	if err := diff.Format(s.out, result); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%d added, %d removed\n", result.Inserted(), result.Deleted())
	return nil
}

func (s *Shell) cmdPlay(ctx context.Context, _ Command) error {
	input, err := s.ask(ctx, fmt.Sprintf("Delay seconds between steps (default %s): ", formatSeconds(s.playDelay)))
	if err != nil {
		return err
	}
	delay := parseDelay(input, s.playDelay)

	fmt.Fprintln(s.out, "Playing timeline forward from 0 to tip:")
	first := true
	for i, snap := range s.session.Timeline().All() {
		if !first {
			if !sleep(ctx, delay) {
				fmt.Fprintln(s.out, "\nPlay interrupted.")
				return nil
			}
		}
		first = false

		fmt.Fprintf(s.out, "\n---- state %d (%s) ----\n", i, snap.Timestamp().Format(TimeFormat))
		writeLines(s.out, snap.Content())
	}
	fmt.Fprint(s.out, "Play finished.\n\n")
	return nil
}

// sleep waits for d or until ctx is done. It reports whether the full
// delay elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (s *Shell) cmdSave(ctx context.Context, _ Command) error {
	if s.saver == nil {
		fmt.Fprintln(s.out, "Saving is not available.")
		return nil
	}

	result, err := s.saver.Save(ctx, s.session.Buffer())
	if result.BackupErr != nil {
		fmt.Fprintf(s.out, "Warning: couldn't write backup: %v\n", result.BackupErr)
	}
	if err != nil {
		fmt.Fprintf(s.out, "Error writing file: %v\n", err)
		return nil
	}
	if !result.BackedUp {
		fmt.Fprintf(s.out, "Saved current state to %s\n", result.Path)
		return nil
	}
	fmt.Fprintf(s.out, "Saved current state to %s (backup -> %s)\n", result.Path, result.BackupPath)
	return nil
}

func (s *Shell) cmdSource(ctx context.Context, cmd Command) error {
	if s.scripts == nil {
		fmt.Fprintln(s.out, "Scripting is not available.")
		return nil
	}

	if err := s.scripts.RunFile(ctx, cmd.Path); err != nil {
		fmt.Fprintf(s.out, "Script error: %v\n", err)
		return nil
	}
	fmt.Fprintf(s.out, "Script finished. Head is now state %d.\n", s.session.Timeline().Head())
	return nil
}
