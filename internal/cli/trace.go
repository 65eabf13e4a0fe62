package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ministore/internal/ir"
	"github.com/roach88/ministore/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	Session  string // optional - without it, sessions are listed
	Action   string // optional - filter to one action type
}

// TraceEvent represents a single event in the trace timeline.
type TraceEvent struct {
	Seq    int64       `json:"seq"`
	Type   string      `json:"type"` // "action" or "outcome"
	ID     string      `json:"id"`
	Action string      `json:"action,omitempty"`
	Args   ir.IRObject `json:"args,omitempty"`
	Case   string      `json:"case,omitempty"`
	Result ir.IRObject `json:"result,omitempty"`
}

// TraceResult holds the trace of one session.
type TraceResult struct {
	Session  string               `json:"session"`
	Timeline []TraceEvent         `json:"timeline"`
	Summary  store.SessionSummary `json:"summary"`
}

// SessionList holds the summaries of every journaled session.
type SessionList struct {
	Sessions []store.SessionSummary `json:"sessions"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show the journal of a session",
		Long: `Show the journaled actions and outcomes of a storefront session.

Without --session, lists every session in the journal with its action,
rejection, and order counts.

Examples:
  ministore trace --db ./sessions.db
  ministore trace --db ./sessions.db --session 0190c7c4-...
  ministore trace --db ./sessions.db --session s1 --action add_to_cart --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the SQLite session journal (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session token to trace")
	cmd.Flags().StringVar(&opts.Action, "action", "", "filter to one action type")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if err := requireFile(opts.Database, "journal"); err != nil {
		return err
	}
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer st.Close()

	if opts.Session == "" {
		list, err := listSessions(ctx, st)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list sessions", err)
		}
		return formatter.Success(list, func(w io.Writer) {
			writeSessionList(w, list)
		})
	}

	entries, err := st.ReadSession(ctx, opts.Session)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read session", err)
	}
	summary, err := st.Summarize(ctx, opts.Session)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to summarize session", err)
	}

	result := TraceResult{
		Session:  opts.Session,
		Timeline: buildTimeline(entries, opts.Action),
		Summary:  summary,
	}

	return formatter.Success(result, func(w io.Writer) {
		if len(entries) == 0 {
			fmt.Fprintf(w, "No events found for session: %s\n", opts.Session)
			return
		}
		writeTraceText(w, result, opts.Verbose)
	})
}

func listSessions(ctx context.Context, st *store.Store) (SessionList, error) {
	tokens, err := st.ListSessions(ctx)
	if err != nil {
		return SessionList{}, err
	}
	list := SessionList{Sessions: make([]store.SessionSummary, 0, len(tokens))}
	for _, token := range tokens {
		sum, err := st.Summarize(ctx, token)
		if err != nil {
			return SessionList{}, err
		}
		list.Sessions = append(list.Sessions, sum)
	}
	return list, nil
}

// buildTimeline flattens journal entries into seq order. A non-empty
// action filter keeps matching actions and their outcomes.
func buildTimeline(entries []ir.JournalEntry, action string) []TraceEvent {
	timeline := []TraceEvent{}
	for _, e := range entries {
		if action != "" && string(e.Action.Type) != action {
			continue
		}
		timeline = append(timeline, TraceEvent{
			Seq:    e.Action.Seq,
			Type:   "action",
			ID:     e.Action.ID,
			Action: string(e.Action.Type),
			Args:   e.Action.Args,
		})
		if e.Outcome != nil {
			timeline = append(timeline, TraceEvent{
				Seq:    e.Outcome.Seq,
				Type:   "outcome",
				ID:     e.Outcome.ID,
				Case:   e.Outcome.Case,
				Result: e.Outcome.Result,
			})
		}
	}
	return timeline
}

func writeSessionList(w io.Writer, list SessionList) {
	if len(list.Sessions) == 0 {
		fmt.Fprintln(w, "No sessions found in journal.")
		return
	}
	fmt.Fprintf(w, "Sessions: %d\n", len(list.Sessions))
	for _, s := range list.Sessions {
		fmt.Fprintf(w, "  %s  actions=%d rejected=%d orders=%d pending=%d last_seq=%d\n",
			s.Session, s.Actions, s.Rejected, s.OrdersPlaced, s.Pending, s.LastSeq)
	}
}

func writeTraceText(w io.Writer, result TraceResult, verbose bool) {
	fmt.Fprintf(w, "Trace for session: %s\n", result.Session)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Timeline ===")
	if len(result.Timeline) == 0 {
		fmt.Fprintln(w, "  (no matching events)")
	}
	for _, ev := range result.Timeline {
		switch ev.Type {
		case "action":
			fmt.Fprintf(w, "  [%d] %s %s\n", ev.Seq, ev.Action, formatObject(ev.Args))
		case "outcome":
			fmt.Fprintf(w, "  [%d]   -> %s %s\n", ev.Seq, ev.Case, formatObject(ev.Result))
		}
		if verbose {
			fmt.Fprintf(w, "       ID: %s\n", truncateID(ev.ID))
		}
	}
	fmt.Fprintln(w)

	s := result.Summary
	fmt.Fprintln(w, "=== Summary ===")
	fmt.Fprintf(w, "  Actions:       %d\n", s.Actions)
	fmt.Fprintf(w, "  Rejected:      %d\n", s.Rejected)
	fmt.Fprintf(w, "  Orders placed: %d\n", s.OrdersPlaced)
	if s.Pending > 0 {
		fmt.Fprintf(w, "  Pending:       %d\n", s.Pending)
	}
}

// formatObject renders an IRObject with sorted keys.
func formatObject(obj ir.IRObject) string {
	if len(obj) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(obj))
	for _, k := range obj.SortedKeys() {
		parts = append(parts, fmt.Sprintf("%s=%s", k, formatValue(obj[k])))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func formatValue(v ir.IRValue) string {
	switch val := v.(type) {
	case ir.IRString:
		return string(val)
	case ir.IRInt:
		return fmt.Sprintf("%d", val)
	case ir.IRBool:
		return fmt.Sprintf("%t", val)
	case ir.IRArray:
		parts := make([]string, len(val))
		for i, elem := range val {
			parts[i] = formatValue(elem)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case ir.IRObject:
		return formatObject(val)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// truncateID truncates a long ID for display.
func truncateID(id string) string {
	if len(id) <= 16 {
		return id
	}
	return id[:8] + "..." + id[len(id)-8:]
}
