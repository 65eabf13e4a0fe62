package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ministore/internal/ir"
)

func TestScenarios_Golden(t *testing.T) {
	paths, err := Discover("testdata/scenarios", "")
	require.NoError(t, err)
	require.Len(t, paths, 7)

	for _, path := range paths {
		t.Run(GoldenName(path), func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := RunWithGolden(t, GoldenName(path), scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_OrderPlacedFinalState(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/order_placed.yaml")
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	require.True(t, result.Pass, "errors: %v", result.Errors)

	assert.Empty(t, result.Final.Cart.Lines)
	assert.Equal(t, "order", result.Final.Session)
	assert.Equal(t, int64(22), result.Final.Seq)
	assert.Len(t, result.Trace, 22)
}

func TestRun_ExpectMismatchFails(t *testing.T) {
	scenario := &Scenario{
		Name:        "mismatch",
		Description: "expects the wrong case",
		Steps: []Step{
			{
				Action: "add_to_cart",
				Args:   map[string]interface{}{"product_id": "1"},
				Expect: &ExpectClause{Case: ir.CaseRejected},
			},
			{
				Action: "add_to_cart",
				Args:   map[string]interface{}{"product_id": "1"},
				Expect: &ExpectClause{Case: ir.CaseApplied, Result: map[string]interface{}{"quantity": 3}},
			},
		},
		Assertions: []Assertion{{Type: AssertCartTotal, Total: "$199.98"}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "expected case Rejected, got Applied")
	assert.Contains(t, result.Errors[1], "expected result")
}

func TestRun_AssertionFailureReported(t *testing.T) {
	scenario := &Scenario{
		Name:        "wrong_view",
		Description: "asserts the wrong view",
		Steps: []Step{
			{Action: "navigate", Args: map[string]interface{}{"view": "cart"}},
		},
		Assertions: []Assertion{{Type: AssertView, View: "checkout"}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Assertion failed: view")
	assert.Contains(t, result.Errors[0], "Actual: cart")
}

func TestRun_DefaultSession(t *testing.T) {
	scenario := &Scenario{
		Name:        "default_session",
		Description: "no session token",
		Steps:       []Step{{Action: "search_changed", Args: map[string]interface{}{"text": "x"}}},
		Assertions:  []Assertion{{Type: AssertProducts}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, DefaultSession, result.Final.Session)
	assert.Equal(t, "No products found for your search/filter.", result.Final.EmptyText)
}

func TestRun_AwaitWithoutSubmission(t *testing.T) {
	scenario := &Scenario{
		Name:        "idle_await",
		Description: "await with nothing in flight returns at once",
		Steps:       []Step{{Await: AwaitCheckout}},
		Assertions:  []Assertion{{Type: AssertStatus}},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Trace)
}

func TestRun_FloatArgsRejected(t *testing.T) {
	scenario := &Scenario{
		Name:        "float",
		Description: "floats are not action values",
		Steps: []Step{
			{Action: "set_quantity", Args: map[string]interface{}{"product_id": "1", "quantity": 1.5}},
		},
		Assertions: []Assertion{{Type: AssertStatus}},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floats are forbidden")
}

func TestRun_MissingCatalog(t *testing.T) {
	scenario := &Scenario{
		Name:        "missing",
		Description: "catalog file is gone",
		Catalog:     "testdata/catalogs/nope.cue",
		Steps:       []Step{{Action: "navigate", Args: map[string]interface{}{"view": "cart"}}},
		Assertions:  []Assertion{{Type: AssertStatus}},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load catalog")
}

func TestRunContext_Cancelled(t *testing.T) {
	scenario := &Scenario{
		Name:        "cancelled",
		Description: "context already done",
		Steps:       []Step{{Action: "navigate", Args: map[string]interface{}{"view": "cart"}}},
		Assertions:  []Assertion{{Type: AssertStatus}},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunContext(ctx, scenario)
	require.Error(t, err)
}
