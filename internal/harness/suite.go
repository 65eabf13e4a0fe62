package harness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ScenarioNotFoundError is returned when a scenario directory or file
// doesn't exist.
type ScenarioNotFoundError struct {
	Path string
}

// Error implements the error interface.
func (e *ScenarioNotFoundError) Error() string {
	return fmt.Sprintf("scenario path %q does not exist", e.Path)
}

// Discover finds scenario YAML files under dir, in lexical order.
// filter is an optional glob matched against the file name without its
// extension.
func Discover(dir, filter string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, &ScenarioNotFoundError{Path: dir}
	}
	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
	}

	files := []string{}
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			if matched, _ := filepath.Match(filter, name); !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// GoldenName is the golden file name of a scenario file: its base name
// without extension.
func GoldenName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// GoldenPath is the golden file of a scenario file:
// <dir>/golden/<name>.golden.
func GoldenPath(path string) string {
	return filepath.Join(filepath.Dir(path), "golden", GoldenName(path)+".golden")
}

// ScenarioOutcome is the result of loading and running one scenario file.
type ScenarioOutcome struct {
	Path     string    `json:"path"`
	Name     string    `json:"name"`
	Pass     bool      `json:"pass"`
	Errors   []string  `json:"errors,omitempty"`
	Scenario *Scenario `json:"-"`
	Result   *Result   `json:"-"`
}

// SuiteResult summarizes a run over many scenario files.
type SuiteResult struct {
	Scenarios []ScenarioOutcome `json:"scenarios"`
	Passed    int               `json:"passed"`
	Failed    int               `json:"failed"`
	Total     int               `json:"total"`
}

// RunSuite loads and runs each scenario file. Load and execution failures
// are recorded as failed scenarios rather than returned.
func RunSuite(ctx context.Context, paths []string) *SuiteResult {
	suite := &SuiteResult{
		Scenarios: make([]ScenarioOutcome, 0, len(paths)),
		Total:     len(paths),
	}

	for _, path := range paths {
		outcome := runFile(ctx, path)
		if outcome.Pass {
			suite.Passed++
		} else {
			suite.Failed++
		}
		suite.Scenarios = append(suite.Scenarios, outcome)
	}

	return suite
}

func runFile(ctx context.Context, path string) ScenarioOutcome {
	outcome := ScenarioOutcome{Path: path, Name: GoldenName(path)}

	scenario, err := LoadScenario(path)
	if err != nil {
		outcome.Errors = []string{fmt.Sprintf("failed to load scenario: %v", err)}
		return outcome
	}
	outcome.Name = scenario.Name
	outcome.Scenario = scenario

	result, err := RunContext(ctx, scenario)
	if err != nil {
		outcome.Errors = []string{fmt.Sprintf("execution failed: %v", err)}
		return outcome
	}
	outcome.Result = result
	outcome.Pass = result.Pass
	outcome.Errors = result.Errors
	return outcome
}

// Fail marks an outcome failed with an extra message, keeping the suite
// counters consistent.
func (s *SuiteResult) Fail(i int, msg string) {
	if s.Scenarios[i].Pass {
		s.Passed--
		s.Failed++
	}
	s.Scenarios[i].Pass = false
	s.Scenarios[i].Errors = append(s.Scenarios[i].Errors, msg)
}
