package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"ainotebook/internal"
	"ainotebook/internal/focuslog"
	"ainotebook/internal/note"
	"ainotebook/internal/pomodoro"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	addTags     []string
	addNotebook string
	addStdin    bool

	sessionsLimit int
	timerNote     string
)

var listCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List notes, optionally filtered by a search query",
	Long: `Lists notes with favorites first. A query keeps only notes whose
title, content or tags contain it, ignoring case.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		all, err := notes.GetAll()
		if err != nil {
			return err
		}
		query := ""
		if len(args) == 1 {
			query = args[0]
		}
		return printNotes(cmd.OutOrStdout(), note.Filter(all, query))
	},
}

var addCmd = &cobra.Command{
	Use:   "add TITLE [CONTENT]",
	Short: "Create a note",
	Example: `  ainotebook add "Standup" "- shipped search" --tag work
  cat draft.md | ainotebook add "Draft" --stdin --notebook Ideas`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		content := ""
		if len(args) == 2 {
			content = args[1]
		}
		if addStdin {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			content = string(data)
		}

		n := note.NewNote(args[0], content)
		for _, tag := range addTags {
			n.AddTag(tag)
		}
		if addNotebook != "" {
			nb, err := notes.FindNotebook(addNotebook)
			if err != nil {
				return err
			}
			n.NotebookID = nb.ID
		}

		if err := notes.Create(n); err != nil {
			return err
		}
		logger.Info("note created", zap.String("id", n.ID))
		fmt.Fprintln(cmd.OutOrStdout(), n.ID)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Render a note as markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := findNote(args[0])
		if err != nil {
			return err
		}
		renderer, err := internal.NewRenderer(cfg.Preview)
		if err != nil {
			return err
		}
		body := fmt.Sprintf("# %s\n\n%s", n.DisplayTitle(), n.Content)
		if len(n.Tags) > 0 {
			body += "\n\n---\n\ntags: " + strings.Join(n.Tags, ", ")
		}
		out, err := renderer.Render(body)
		if err != nil {
			return fmt.Errorf("render note: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

var notebookCmd = &cobra.Command{
	Use:   "notebook",
	Short: "Manage notebooks",
}

var notebookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notebooks with their note counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		notebooks, err := notes.GetNotebooks()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, nb := range notebooks {
			fmt.Fprintf(w, "%s\t%s\t%d notes\n", shortID(nb.ID), nb.Name, nb.NoteCount)
		}
		return w.Flush()
	},
}

var notebookAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Create a notebook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nb, err := notes.CreateNotebook(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), nb.ID)
		return nil
	},
}

var notebookRemoveCmd = &cobra.Command{
	Use:   "rm ID|NAME",
	Short: "Delete a notebook, keeping its notes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nb, err := notes.FindNotebook(args[0])
		if err != nil {
			return err
		}
		return notes.DeleteNotebook(nb.ID)
	},
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List tags by usage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tags, err := notes.Tags()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, t := range tags {
			fmt.Fprintf(w, "%s\t%d\n", t.Name, t.Count)
		}
		return w.Flush()
	},
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Show recent focus sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		recent, err := sessions.Recent(sessionsLimit)
		if err != nil {
			return err
		}
		now := time.Now()
		today, err := sessions.TotalFocused(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()))
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, s := range recent {
			status := "abandoned"
			if s.Completed {
				status = "completed"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				s.StoppedAt.Local().Format("2006-01-02 15:04"),
				s.Focused.Round(time.Second),
				status,
				shortID(s.NoteID),
			)
		}
		fmt.Fprintf(w, "\nfocused today:\t%s\n", today.Round(time.Second))
		return w.Flush()
	},
}

var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Run one pomodoro in the terminal",
	Long: `Counts down a 25 minute focus session and records it when it ends.
Interrupting with Ctrl+C records the session as abandoned.`,
	Args: cobra.NoArgs,
	RunE: runTimer,
}

func runTimer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	noteID := ""
	if timerNote != "" {
		n, err := findNote(timerNote)
		if err != nil {
			return err
		}
		noteID = n.ID
	}

	engine := pomodoro.New(
		pomodoro.WithLogger(logger.Named("pomodoro")),
		pomodoro.WithOnExpire(bell),
	)
	defer engine.Close()
	events := engine.Subscribe(16)

	out := cmd.OutOrStdout()
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(40))
	var tracker focuslog.Tracker
	save := func(s *focuslog.Session) error {
		if s == nil {
			return nil
		}
		if err := sessions.Create(s); err != nil {
			return err
		}
		logger.Info("focus session recorded", zap.Int64("id", s.ID), zap.Bool("completed", s.Completed))
		return nil
	}

	engine.Start()
	for {
		select {
		case <-ctx.Done():
			s := tracker.Flush(engine.State(), time.Now())
			fmt.Fprintln(out)
			if s != nil {
				fmt.Fprintf(out, "Stopped after %s.\n", s.Focused)
			}
			return save(s)
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := save(tracker.Observe(ev, noteID)); err != nil {
				return err
			}
			fmt.Fprintf(out, "\r%s %s", ev.State.FormattedTime(), bar.ViewAs(ev.State.ProgressPercent()/100))
			if ev.Type == pomodoro.EventExpired {
				fmt.Fprintln(out, "\nTime's up! Take a break.")
				return nil
			}
		}
	}
}

func init() {
	addCmd.Flags().StringSliceVarP(&addTags, "tag", "t", nil, "tag to attach (repeatable)")
	addCmd.Flags().StringVarP(&addNotebook, "notebook", "b", "", "notebook id or name")
	addCmd.Flags().BoolVar(&addStdin, "stdin", false, "read the content from stdin")

	sessionsCmd.Flags().IntVarP(&sessionsLimit, "limit", "n", 20, "number of sessions to show")
	timerCmd.Flags().StringVar(&timerNote, "note", "", "note id the session is for")

	notebookCmd.AddCommand(notebookListCmd, notebookAddCmd, notebookRemoveCmd)
}

// findNote resolves a full id or a unique id prefix.
func findNote(ref string) (*note.Note, error) {
	n, err := notes.GetByID(ref)
	if err == nil {
		return n, nil
	}
	if !errors.Is(err, note.ErrNotFound) {
		return nil, err
	}

	all, err := notes.GetAll()
	if err != nil {
		return nil, err
	}
	var match *note.Note
	for _, candidate := range all {
		if strings.HasPrefix(candidate.ID, ref) {
			if match != nil {
				return nil, fmt.Errorf("note id %q is ambiguous", ref)
			}
			match = candidate
		}
	}
	if match == nil {
		return nil, fmt.Errorf("note %s: %w", ref, note.ErrNotFound)
	}
	return match, nil
}

func printNotes(w io.Writer, list []*note.Note) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, n := range list {
		star := " "
		if n.Favorite {
			star = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			shortID(n.ID), star, n.DisplayTitle(), strings.Join(n.Tags, ","),
			n.UpdatedAt.Local().Format("2006-01-02 15:04"),
		)
	}
	return tw.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
