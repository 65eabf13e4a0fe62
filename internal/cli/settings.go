package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/ministore/internal/catalog"
	"github.com/roach88/ministore/internal/config"
)

// loadSettings reads the --config file, if any, and applies flag values
// the user set explicitly on cmd. Flags win over the file.
func loadSettings(cmd *cobra.Command, opts *RootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	flags := cmd.Flags()
	if flags.Changed("catalog") {
		cfg.Catalog, _ = flags.GetString("catalog")
	}
	if flags.Changed("journal") {
		cfg.Journal, _ = flags.GetString("journal")
	}
	if flags.Changed("db") {
		cfg.Journal, _ = flags.GetString("db")
	}
	if flags.Changed("submit-delay") {
		cfg.SubmitDelay, _ = flags.GetDuration("submit-delay")
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "invalid settings", err)
	}
	return cfg, nil
}

// newLogger builds the stderr text logger. --verbose forces debug level.
func newLogger(w io.Writer, cfg config.Config, verbose bool) *slog.Logger {
	level := cfg.Level()
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadCatalog returns the built-in catalog for an empty path.
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("catalog file not found: %s", path))
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "invalid catalog", err)
	}
	return cat, nil
}

// requireFile fails with ExitCommandError when path does not exist.
// store.Open would otherwise create an empty journal.
func requireFile(path, what string) error {
	if path == "" || path == ":memory:" {
		return NewExitError(ExitCommandError, fmt.Sprintf("%s path is required", what))
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("%s not found: %s", what, path))
	}
	return nil
}
