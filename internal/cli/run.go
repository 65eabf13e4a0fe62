package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/ministore/internal/engine"
	"github.com/roach88/ministore/internal/harness"
)

// RunResult is the output of the run command.
type RunResult struct {
	Name   string               `json:"name"`
	Pass   bool                 `json:"pass"`
	Errors []string             `json:"errors,omitempty"`
	Trace  []harness.TraceEvent `json:"trace"`
	Final  engine.Snapshot      `json:"final"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run one scenario and print its final state",
		Long: `Run a single scenario file against a fresh session and print the
final observable outputs: view, products, cart, form, errors, and status.

The submission delay is released by 'await: checkout' steps, so runs are
instant and deterministic.

Exit codes:
  0 - Scenario passed
  1 - Expectations or assertions failed
  2 - Command error (scenario not found, invalid scenario, etc.)

Examples:
  ministore run ./scenarios/order_placed.yaml
  ministore run ./scenarios/order_placed.yaml --verbose --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarioFile(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runScenarioFile(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenario file not found: %s", path))
	}
	scenario, err := harness.LoadScenario(path)
	if err != nil {
		_ = formatter.Error(ErrCodeScenario, err.Error(), path)
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	result, err := harness.RunContext(ctx, scenario)
	if err != nil {
		return WrapExitError(ExitFailure, "scenario execution failed", err)
	}

	out := RunResult{
		Name:   scenario.Name,
		Pass:   result.Pass,
		Errors: result.Errors,
		Trace:  result.Trace,
		Final:  result.Final,
	}

	if formatter.JSON() {
		if !result.Pass {
			if err := formatter.Failure(out, ErrCodeTestFailed, "scenario failed"); err != nil {
				return err
			}
			return NewExitError(ExitFailure, "scenario failed")
		}
		return formatter.Success(out, nil)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Scenario: %s\n", scenario.Name)
	if opts.Verbose {
		writeTrace(w, result.Trace)
	}
	renderSnapshot(w, result.Final)
	fmt.Fprintln(w)

	if !result.Pass {
		fmt.Fprintf(w, "✗ %s\n", scenario.Name)
		for _, e := range result.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
		return NewExitError(ExitFailure, "scenario failed")
	}
	fmt.Fprintf(w, "✓ %s\n", scenario.Name)
	return nil
}

// writeTrace prints a harness trace one event per line.
func writeTrace(w io.Writer, trace []harness.TraceEvent) {
	for _, ev := range trace {
		switch ev.Type {
		case harness.EventAction:
			fmt.Fprintf(w, "  [%d] %s %s\n", ev.Seq, ev.Action, formatObject(ev.Args))
		case harness.EventOutcome:
			fmt.Fprintf(w, "  [%d]   -> %s %s\n", ev.Seq, ev.Case, formatObject(ev.Result))
		}
	}
}
