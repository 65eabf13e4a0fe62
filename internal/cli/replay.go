package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/ministore/internal/engine"
	"github.com/roach88/ministore/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	Session  string // optional - specific session only
	Catalog  string
}

// ReplaySessionResult holds the replay result for a single session.
type ReplaySessionResult struct {
	Session    string            `json:"session"`
	Actions    int               `json:"actions"`
	Identical  bool              `json:"identical"`
	Mismatches []engine.Mismatch `json:"mismatches,omitempty"`
	Total      string            `json:"total"`
	Status     string            `json:"status,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Sessions      []ReplaySessionResult `json:"sessions"`
	TotalSessions int                   `json:"total_sessions"`
	AllIdentical  bool                  `json:"all_identical"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay journaled sessions and verify outcomes",
		Long: `Re-apply every journaled action to a fresh session and verify that each
outcome, and each content-addressed id, matches the journal.

The catalog must be the one the sessions were recorded against.

Exit codes:
  0 - All sessions replay identically
  1 - One or more outcomes differ
  2 - Command error (journal not found, invalid catalog, etc.)

Examples:
  ministore replay --db ./sessions.db
  ministore replay --db ./sessions.db --session 0190c7c4-...
  ministore replay --db ./sessions.db --catalog ./outdoor.cue --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the SQLite session journal (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Session, "session", "", "replay one session only")
	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "path to a CUE catalog (default: built-in)")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := context.Background()
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cfg, err := loadSettings(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg.Catalog)
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			exitErr.Code = ExitCommandError
		}
		return err
	}

	if err := requireFile(opts.Database, "journal"); err != nil {
		return err
	}
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer st.Close()

	var sessions []string
	if opts.Session != "" {
		sessions = []string{opts.Session}
	} else {
		sessions, err = st.ListSessions(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list sessions", err)
		}
	}

	result := ReplayResult{
		Sessions:      make([]ReplaySessionResult, 0, len(sessions)),
		TotalSessions: len(sessions),
		AllIdentical:  true,
	}

	for _, session := range sessions {
		entries, err := st.ReadSession(ctx, session)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to read session %s", session), err)
		}
		if len(entries) == 0 {
			return NewExitError(ExitCommandError, fmt.Sprintf("session not found: %s", session))
		}
		formatter.VerboseLog("replaying %s (%d actions)", session, len(entries))

		report := engine.Replay(cat, entries)
		sr := ReplaySessionResult{
			Session:    session,
			Actions:    report.Actions,
			Identical:  report.OK(),
			Mismatches: report.Mismatches,
			Total:      report.Final.Cart.Total,
			Status:     report.Final.Status,
		}
		if !sr.Identical {
			result.AllIdentical = false
		}
		result.Sessions = append(result.Sessions, sr)
	}

	if formatter.JSON() {
		if !result.AllIdentical {
			if err := formatter.Failure(result, ErrCodeReplay, "replay verification failed"); err != nil {
				return err
			}
			return NewExitError(ExitFailure, "replay verification failed")
		}
		return formatter.Success(result, nil)
	}

	return writeReplayText(formatter.Writer, result, opts.Verbose)
}

func writeReplayText(w io.Writer, result ReplayResult, verbose bool) error {
	if result.TotalSessions == 0 {
		fmt.Fprintln(w, "No sessions found in journal.")
		return nil
	}

	fmt.Fprintf(w, "Replay Summary: %d session(s)\n", result.TotalSessions)
	fmt.Fprintln(w)

	for _, s := range result.Sessions {
		status := "✓"
		if !s.Identical {
			status = "✗"
		}
		fmt.Fprintf(w, "%s Session: %s\n", status, s.Session)
		fmt.Fprintf(w, "  Actions: %d  Final total: %s\n", s.Actions, s.Total)
		if verbose && s.Status != "" {
			fmt.Fprintf(w, "  Status: %s\n", s.Status)
		}
		for _, m := range s.Mismatches {
			fmt.Fprintf(w, "  %s\n", m)
		}
		fmt.Fprintln(w)
	}

	if result.AllIdentical {
		fmt.Fprintln(w, "✓ All sessions replay identically")
		return nil
	}

	fmt.Fprintln(w, "✗ Replay verification failed")
	return NewExitError(ExitFailure, "replay verification failed")
}
