package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/ministore/internal/catalog"
	"github.com/roach88/ministore/internal/harness"
)

// ValidationError is one problem found in a catalog or scenario file.
type ValidationError struct {
	File    string `json:"file"`
	Line    int    `json:"line,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool              `json:"valid"`
	Catalog   string            `json:"catalog"`
	Products  int               `json:"products"`
	Scenarios int               `json:"scenarios"`
	Errors    []ValidationError `json:"errors,omitempty"`
}

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Catalog string
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate [scenarios...]",
		Short: "Validate a catalog file and scenario files",
		Long: `Validate a CUE catalog and any number of scenario files without running
them.

The catalog is checked against the catalog schema: required fields,
non-negative prices, unique ids, and declared categories. Scenario files
are checked for unknown fields, unknown actions, and malformed steps and
assertions; a scenario's own catalog is validated too.

Examples:
  ministore validate --catalog ./outdoor.cue
  ministore validate ./scenarios/*.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "path to a CUE catalog (default: built-in)")

	return cmd
}

func runValidate(opts *ValidateOptions, scenarioFiles []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cfg, err := loadSettings(cmd, opts.RootOptions)
	if err != nil {
		return err
	}

	result := ValidationResult{Catalog: cfg.Catalog}
	if result.Catalog == "" {
		result.Catalog = "(built-in)"
	}

	if cfg.Catalog != "" {
		if _, err := os.Stat(cfg.Catalog); os.IsNotExist(err) {
			_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("catalog file not found: %s", cfg.Catalog), nil)
			return NewExitError(ExitCommandError, fmt.Sprintf("catalog file not found: %s", cfg.Catalog))
		}
	}
	cat, verr := validateCatalog(cfg.Catalog)
	if verr != nil {
		result.Errors = append(result.Errors, *verr)
	} else {
		result.Products = cat.Len()
		formatter.VerboseLog("catalog %s: %d product(s)", result.Catalog, cat.Len())
	}

	for _, path := range scenarioFiles {
		result.Scenarios++
		s, err := harness.LoadScenario(path)
		if err != nil {
			result.Errors = append(result.Errors, ValidationError{
				File:    path,
				Code:    ErrCodeScenario,
				Message: err.Error(),
			})
			continue
		}
		if s.Catalog != "" {
			if _, verr := validateCatalog(s.Catalog); verr != nil {
				result.Errors = append(result.Errors, *verr)
				continue
			}
		}
		formatter.VerboseLog("scenario %s: %d step(s), %d assertion(s)", s.Name, len(s.Steps), len(s.Assertions))
	}

	result.Valid = len(result.Errors) == 0
	if !result.Valid {
		return outputValidationErrors(formatter, result)
	}

	return formatter.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "✓ Catalog valid: %s (%d products)\n", result.Catalog, result.Products)
		if result.Scenarios > 0 {
			fmt.Fprintf(w, "✓ %d scenario(s) valid\n", result.Scenarios)
		}
	})
}

// validateCatalog compiles a catalog file, or the built-in catalog for an
// empty path, and converts a failure into a ValidationError.
func validateCatalog(path string) (*catalog.Catalog, *ValidationError) {
	if path == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(path)
	if err == nil {
		return cat, nil
	}

	verr := &ValidationError{File: path, Code: ErrCodeCatalog, Message: err.Error()}
	var cerr *catalog.CompileError
	if errors.As(err, &cerr) {
		verr.Message = fmt.Sprintf("%s: %s", cerr.Field, cerr.Message)
		if cerr.Pos.IsValid() {
			verr.Line = cerr.Pos.Line()
		}
	}
	return nil, verr
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	errs := result.Errors
	failure := NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))

	if formatter.JSON() {
		if err := formatter.Failure(result, errs[0].Code, errs[0].Message); err != nil {
			return err
		}
		return failure
	}

	w := formatter.Writer
	fmt.Fprintln(w, "✗ Validation failed")
	fmt.Fprintln(w)
	for _, e := range errs {
		if e.Line > 0 {
			fmt.Fprintf(w, "%s:%d\n", e.File, e.Line)
		} else {
			fmt.Fprintln(w, e.File)
		}
		fmt.Fprintf(w, "  %s: %s\n\n", e.Code, e.Message)
	}
	return failure
}
