package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ministore/internal/ir"
)

// DefaultSession is the session token used when a scenario names none.
const DefaultSession = "test-session-default"

// AwaitCheckout is the only await target: the end of an order submission.
const AwaitCheckout = "checkout"

// Scenario defines a storefront test scenario: a sequence of user actions
// applied to a fresh session, followed by assertions on the trace and the
// final observable state.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Catalog is an optional CUE catalog path, relative to the scenario
	// file. Empty selects the built-in catalog.
	Catalog string `yaml:"catalog,omitempty"`

	// Session is an optional fixed session token. Defaults to
	// DefaultSession so golden traces are reproducible.
	Session string `yaml:"session,omitempty"`

	// Steps are applied in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final trace and state.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is either a user action or an await.
type Step struct {
	// Action is the user action type (e.g., "add_to_cart").
	Action string `yaml:"action,omitempty"`

	// Args contains the action arguments.
	// Values are converted to ir.IRValue types during execution.
	Args map[string]interface{} `yaml:"args,omitempty"`

	// Expect specifies the expected outcome.
	// If nil, any outcome is accepted.
	Expect *ExpectClause `yaml:"expect,omitempty"`

	// Await releases the simulated submission delay and waits for the
	// order to complete. The only value is "checkout".
	Await string `yaml:"await,omitempty"`
}

// ExpectClause specifies the expected outcome of a step.
type ExpectClause struct {
	// Case is the expected outcome case (e.g., "Applied", "Rejected").
	Case string `yaml:"case"`

	// Result contains expected result field values.
	// This is a subset match - only specified fields are validated.
	Result map[string]interface{} `yaml:"result,omitempty"`
}

// LineExpect is one expected cart line.
type LineExpect struct {
	ProductID string `yaml:"product_id"`
	Quantity  int    `yaml:"quantity"`
}

// Assertion validates the trace or the final observable state.
type Assertion struct {
	// Type selects the assertion; see the Assert constants.
	Type string `yaml:"type"`

	// Action is the action type (trace_contains, trace_count).
	Action string `yaml:"action,omitempty"`

	// Args are the expected action arguments (trace_contains).
	// Subset match - only specified fields are validated.
	Args map[string]interface{} `yaml:"args,omitempty"`

	// Count is the expected number of occurrences (trace_count).
	Count int `yaml:"count,omitempty"`

	// Actions is the expected action order (trace_order).
	Actions []string `yaml:"actions,omitempty"`

	// View is the expected active view (view).
	View string `yaml:"view,omitempty"`

	// Products are the expected visible product ids, in order (products).
	Products []string `yaml:"products,omitempty"`

	// Lines are the expected cart lines, in order (cart_lines).
	Lines []LineExpect `yaml:"lines,omitempty"`

	// Total is the expected displayed cart total, e.g. "$12.50" (cart_total).
	Total string `yaml:"total,omitempty"`

	// Errors are the expected validation messages by field. Exact match;
	// an empty map asserts there are none (errors).
	Errors map[string]string `yaml:"errors,omitempty"`

	// Status is the expected status message (status).
	Status string `yaml:"status,omitempty"`

	// Form holds expected form values by field. Subset match (form).
	Form map[string]string `yaml:"form,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertView          = "view"
	AssertProducts      = "products"
	AssertCartLines     = "cart_lines"
	AssertCartTotal     = "cart_total"
	AssertErrors        = "errors"
	AssertStatus        = "status"
	AssertForm          = "form"
)

// LoadScenario reads and parses a scenario YAML file, resolving the catalog
// path relative to the scenario file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data, filepath.Dir(path))
}

// ParseScenario parses scenario YAML. A relative catalog path is resolved
// against baseDir.
func ParseScenario(data []byte, baseDir string) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Catalog != "" && !filepath.IsAbs(scenario.Catalog) && baseDir != "" {
		scenario.Catalog = filepath.Join(baseDir, scenario.Catalog)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	if s.Catalog != "" {
		if _, err := os.Stat(s.Catalog); os.IsNotExist(err) {
			return fmt.Errorf("catalog file not found: %s", s.Catalog)
		}
	}

	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(index int, step Step) error {
	switch {
	case step.Action != "" && step.Await != "":
		return fmt.Errorf("steps[%d]: action and await are mutually exclusive", index)
	case step.Await != "":
		if step.Await != AwaitCheckout {
			return fmt.Errorf("steps[%d]: unknown await target %q", index, step.Await)
		}
		if step.Args != nil || step.Expect != nil {
			return fmt.Errorf("steps[%d]: await takes no args or expect", index)
		}
	case step.Action != "":
		if !ir.IsUserAction(ir.ActionType(step.Action)) {
			return fmt.Errorf("steps[%d]: unknown action %q", index, step.Action)
		}
		if step.Expect != nil && step.Expect.Case == "" {
			return fmt.Errorf("steps[%d].expect: case is required", index)
		}
	default:
		return fmt.Errorf("steps[%d]: action or await is required", index)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Actions) == 0 {
			return fmt.Errorf("assertions[%d]: actions list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertView:
		if a.View == "" {
			return fmt.Errorf("assertions[%d]: view is required for view", index)
		}
	case AssertCartTotal:
		if a.Total == "" {
			return fmt.Errorf("assertions[%d]: total is required for cart_total", index)
		}
	case AssertForm:
		if len(a.Form) == 0 {
			return fmt.Errorf("assertions[%d]: form is required for form", index)
		}
	case AssertProducts, AssertCartLines, AssertErrors, AssertStatus:
		// Empty values are meaningful: no products, empty cart, no errors,
		// no status.
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
