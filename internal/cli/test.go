package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/ministore/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // scenario filter (glob pattern)
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run storefront scenarios",
		Long: `Run every scenario file in a directory, validating expectations,
assertions, and golden traces.

A scenario's golden file is golden/<name>.golden next to it. Scenarios
without a golden file are checked by their assertions only.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  ministore test ./scenarios
  ministore test ./scenarios --filter "cart_*"
  ministore test ./scenarios --update
  ministore test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runTests(opts *TestOptions, scenariosDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	paths, err := harness.Discover(scenariosDir, opts.Filter)
	if err != nil {
		var notFound *harness.ScenarioNotFoundError
		if errors.As(err, &notFound) {
			return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", scenariosDir))
		}
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	if len(paths) == 0 {
		return formatter.Success(&harness.SuiteResult{Scenarios: []harness.ScenarioOutcome{}}, func(w io.Writer) {
			fmt.Fprintln(w, "No scenarios found.")
		})
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	suite := harness.RunSuite(ctx, paths)

	for i, outcome := range suite.Scenarios {
		if outcome.Result == nil {
			continue
		}
		if msg := checkGolden(outcome, opts.Update); msg != "" {
			suite.Fail(i, msg)
		}
	}

	if formatter.JSON() {
		if suite.Failed > 0 {
			msg := fmt.Sprintf("%d scenario(s) failed", suite.Failed)
			if err := formatter.Failure(suite, ErrCodeTestFailed, msg); err != nil {
				return err
			}
			return NewExitError(ExitFailure, msg)
		}
		return formatter.Success(suite, nil)
	}

	return writeTestText(formatter.Writer, suite, opts.Update)
}

// checkGolden compares or rewrites the golden file of one scenario and
// describes a failure, or returns "".
func checkGolden(outcome harness.ScenarioOutcome, update bool) string {
	data, err := harness.GoldenBytes(outcome.Scenario, outcome.Result)
	if err != nil {
		return fmt.Sprintf("failed to render golden trace: %v", err)
	}
	goldenPath := harness.GoldenPath(outcome.Path)

	if update {
		if err := os.MkdirAll(filepath.Dir(goldenPath), 0o755); err != nil {
			return fmt.Sprintf("failed to create golden directory: %v", err)
		}
		if err := os.WriteFile(goldenPath, data, 0o644); err != nil {
			return fmt.Sprintf("failed to write golden file: %v", err)
		}
		return ""
	}

	want, err := os.ReadFile(goldenPath)
	if errors.Is(err, os.ErrNotExist) {
		return ""
	}
	if err != nil {
		return fmt.Sprintf("failed to read golden file: %v", err)
	}
	if !bytes.Equal(want, data) {
		return "trace does not match golden file (run with --update to regenerate)"
	}
	return ""
}

func writeTestText(w io.Writer, suite *harness.SuiteResult, updated bool) error {
	for _, s := range suite.Scenarios {
		if s.Pass {
			if updated {
				fmt.Fprintf(w, "✓ %s (golden updated)\n", s.Name)
			} else {
				fmt.Fprintf(w, "✓ %s\n", s.Name)
			}
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", s.Name)
		for _, e := range s.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", suite.Passed, suite.Failed, suite.Total)

	if suite.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", suite.Failed))
	}

	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}
