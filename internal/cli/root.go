// Package cli implements the todo command line client.
package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Uzipoo/ToDo-app/internal/models"
)

const shortIDLen = 8

type options struct {
	server  string
	data    string
	timeout time.Duration
	verbose bool
}

// backendFactory is swapped in tests to point commands at a fixed backend.
type backendFactory func(ctx context.Context, opts *options) (Backend, error)

func defaultBackend(ctx context.Context, opts *options) (Backend, error) {
	if opts.server != "" {
		return newRemoteBackend(opts.server)
	}
	logOut := io.Discard
	if opts.verbose {
		logOut = os.Stderr
	}
	return newLocalBackend(ctx, opts.data, log.New(logOut, "", log.LstdFlags))
}

// NewRootCommand builds the todo command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(defaultBackend)
}

func newRootCommand(factory backendFactory) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "todo",
		Short:         "Manage a personal task list",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.server, "server", os.Getenv("TODO_SERVER"), "gRPC server address; local mode when empty")
	root.PersistentFlags().StringVar(&opts.data, "data", "todo.db", "sqlite file used in local mode")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "per command timeout")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log storage activity to stderr")

	run := func(fn func(ctx context.Context, b Backend, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			b, err := factory(ctx, opts)
			if err != nil {
				return err
			}
			defer b.Close()
			return fn(ctx, b, cmd, args)
		}
	}

	root.AddCommand(
		newAddCommand(run),
		newListCommand(run),
		newToggleCommand(run),
		newDeleteCommand(run),
		newStatsCommand(run),
	)
	return root
}

type runner func(fn func(ctx context.Context, b Backend, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error

func newAddCommand(run runner) *cobra.Command {
	var due string
	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: run(func(ctx context.Context, b Backend, cmd *cobra.Command, args []string) error {
			var dueDate *time.Time
			if due != "" {
				d, err := parseDueDate(due)
				if err != nil {
					return err
				}
				dueDate = &d
			}

			task, added, err := b.Add(ctx, strings.Join(args, " "), dueDate)
			if err != nil {
				return err
			}
			if !added {
				return fmt.Errorf("task text must not be empty")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", shortID(task.ID), task.Text)
			return nil
		}),
	}
	cmd.Flags().StringVar(&due, "due", "", "due date (RFC3339 or YYYY-MM-DD)")
	return cmd
}

func newListCommand(run runner) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, b Backend, cmd *cobra.Command, args []string) error {
			f, err := models.ParseFilter(filter)
			if err != nil {
				return err
			}
			tasks, stats, err := b.List(ctx, f)
			if err != nil {
				return err
			}
			printTasks(cmd.OutOrStdout(), tasks, time.Now())
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d total, %d completed, %d pending\n", stats.Total, stats.Completed, stats.Pending)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", models.FilterAll.String(), "all, active or completed")
	return cmd
}

func newToggleCommand(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark a task completed or active",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, b Backend, cmd *cobra.Command, args []string) error {
			id, err := resolveID(ctx, b, args[0])
			if err != nil {
				return err
			}
			task, found, err := b.Toggle(ctx, id)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("task %s not found", args[0])
			}
			state := "active"
			if task.Completed {
				state = "completed"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", shortID(task.ID), state)
			return nil
		}),
	}
}

func newDeleteCommand(run runner) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, b Backend, cmd *cobra.Command, args []string) error {
			id, err := resolveID(ctx, b, args[0])
			if err != nil {
				return err
			}
			deleted, err := b.Delete(ctx, id)
			if err != nil {
				return err
			}
			if !deleted {
				return fmt.Errorf("task %s not found", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", shortID(id))
			return nil
		}),
	}
}

func newStatsCommand(run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task counts",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, b Backend, cmd *cobra.Command, args []string) error {
			stats, err := b.Stats(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Total:     %d\nCompleted: %d\nPending:   %d\nProgress:  %.0f%%\n",
				stats.Total, stats.Completed, stats.Pending, stats.Ratio()*100)
			return nil
		}),
	}
}

// resolveID expands a unique id prefix, as printed by list, to the full id.
func resolveID(ctx context.Context, b Backend, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", fmt.Errorf("task id must not be empty")
	}

	tasks, _, err := b.List(ctx, models.FilterAll)
	if err != nil {
		return "", err
	}

	var matches []string
	for _, t := range tasks {
		if t.ID == prefix {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, prefix) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 0:
		// Let the backend report it as not found.
		return prefix, nil
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("id prefix %q matches %d tasks", prefix, len(matches))
	}
}

func parseDueDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q: use RFC3339 or YYYY-MM-DD", s)
	}
	return t, nil
}

func printTasks(w io.Writer, tasks []models.Task, now time.Time) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDONE\tTASK\tDUE")
	for _, t := range tasks {
		done := "[ ]"
		if t.Completed {
			done = "[x]"
		}
		due := "-"
		if t.DueDate != nil {
			due = t.DueDate.Local().Format(time.DateOnly)
			if t.IsOverdue(now) {
				due += " (overdue)"
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", shortID(t.ID), done, t.Text, due)
	}
	tw.Flush()
}

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}
