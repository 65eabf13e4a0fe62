package harness

import (
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"

	"github.com/roach88/ministore/internal/engine"
	"github.com/roach88/ministore/internal/ir"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for i, event := range e.Trace {
			if event.Type == EventAction {
				fmt.Fprintf(&buf, "  [%d] %s %v\n", i+1, event.Action, event.Args)
			}
		}
	}

	return buf.String()
}

// assertTraceContains checks if the trace contains an action matching
// the specified type and args (subset match).
func assertTraceContains(trace []TraceEvent, assertion Assertion) error {
	want, err := convertArgsToIRObject(assertion.Args)
	if err != nil {
		return fmt.Errorf("trace_contains: invalid args: %w", err)
	}

	for _, event := range trace {
		if event.Type == EventAction && event.Action == assertion.Action && matchArgs(event.Args, want) {
			return nil
		}
	}

	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("action %s with args %v", assertion.Action, assertion.Args),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks if actions appear in the specified order.
// Actions don't need to be consecutive (intervening actions are allowed).
func assertTraceOrder(trace []TraceEvent, assertion Assertion) error {
	positions := make(map[string]int)

	for i, event := range trace {
		if event.Type != EventAction {
			continue
		}
		for _, expectedAction := range assertion.Actions {
			if event.Action == expectedAction && positions[expectedAction] == 0 {
				positions[expectedAction] = i + 1 // 1-indexed for readability
			}
		}
	}

	for _, action := range assertion.Actions {
		if positions[action] == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all actions present: %v", assertion.Actions),
				Actual:   fmt.Sprintf("missing action: %s", action),
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(assertion.Actions); i++ {
		prev := assertion.Actions[i-1]
		curr := assertion.Actions[i]

		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("actions in order: %v", assertion.Actions),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}

	return nil
}

// assertTraceCount checks if the action appears exactly the specified number of times.
func assertTraceCount(trace []TraceEvent, assertion Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Type == EventAction && event.Action == assertion.Action {
			count++
		}
	}

	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", assertion.Count, assertion.Action),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}

	return nil
}

// assertState checks one observable output of the final snapshot.
func assertState(snap engine.Snapshot, assertion Assertion) error {
	var expected, actual string

	switch assertion.Type {
	case AssertView:
		expected, actual = assertion.View, string(snap.View)

	case AssertProducts:
		expected = fmt.Sprintf("%v", nonNil(assertion.Products))
		actual = fmt.Sprintf("%v", snap.ProductIDs())

	case AssertCartLines:
		want := make([]string, len(assertion.Lines))
		for i, l := range assertion.Lines {
			want[i] = fmt.Sprintf("%s×%d", l.ProductID, l.Quantity)
		}
		got := make([]string, len(snap.Cart.Lines))
		for i, l := range snap.Cart.Lines {
			got[i] = fmt.Sprintf("%s×%d", l.ProductID, l.Quantity)
		}
		expected, actual = fmt.Sprintf("%v", want), fmt.Sprintf("%v", got)

	case AssertCartTotal:
		expected, actual = assertion.Total, snap.Cart.Total

	case AssertErrors:
		want := make(map[string]string, len(assertion.Errors))
		for f, msg := range assertion.Errors {
			want[f] = msg
		}
		got := make(map[string]string, len(snap.Errors))
		for f, msg := range snap.Errors {
			got[string(f)] = msg
		}
		expected, actual = formatMap(want), formatMap(got)

	case AssertStatus:
		expected, actual = assertion.Status, snap.Status

	case AssertForm:
		values := map[string]string{
			"name":          snap.Form.Name,
			"email":         snap.Form.Email,
			"address":       snap.Form.Address,
			"city":          snap.Form.City,
			"zip":           snap.Form.Zip,
			"paymentMethod": string(snap.Form.PaymentMethod),
		}
		got := make(map[string]string, len(assertion.Form))
		for f := range assertion.Form {
			v, ok := values[f]
			if !ok {
				return fmt.Errorf("form: unknown field %q", f)
			}
			got[f] = v
		}
		expected, actual = formatMap(assertion.Form), formatMap(got)

	default:
		return fmt.Errorf("unknown state assertion %q", assertion.Type)
	}

	if expected != actual {
		return &AssertionError{
			Type:     assertion.Type,
			Expected: expected,
			Actual:   actual,
		}
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// formatMap renders a map with sorted keys.
func formatMap(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%q", k, m[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// matchArgs checks if actual contains all expected keys with equal values
// (subset match). Extra keys in actual are ignored.
func matchArgs(actual, expected ir.IRObject) bool {
	for key, expectedVal := range expected {
		actualVal, exists := actual[key]
		if !exists {
			return false
		}
		if !reflect.DeepEqual(actualVal, expectedVal) {
			return false
		}
	}
	return true
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		default:
			if !slices.Contains(stateAssertions, assertion.Type) {
				err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
				break
			}
			err = assertState(result.Final, assertion)
		}

		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	return errs
}

var stateAssertions = []string{
	AssertView, AssertProducts, AssertCartLines, AssertCartTotal,
	AssertErrors, AssertStatus, AssertForm,
}
