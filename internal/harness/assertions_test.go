package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ministore/internal/checkout"
	"github.com/roach88/ministore/internal/engine"
	"github.com/roach88/ministore/internal/ir"
)

func sampleTrace() []TraceEvent {
	r := NewResult()
	r.AddActionTrace(ir.ActionAddToCart, ir.IRObject{"product_id": ir.IRString("1")}, 1)
	r.AddOutcomeTrace(ir.CaseApplied, ir.IRObject{"quantity": ir.IRInt(1)}, 2)
	r.AddActionTrace(ir.ActionNavigate, ir.IRObject{"view": ir.IRString("checkout")}, 3)
	r.AddOutcomeTrace(ir.CaseApplied, ir.IRObject{}, 4)
	r.AddActionTrace(ir.ActionAddToCart, ir.IRObject{"product_id": ir.IRString("2")}, 5)
	r.AddOutcomeTrace(ir.CaseApplied, ir.IRObject{"quantity": ir.IRInt(1)}, 6)
	return r.Trace
}

func TestAssertTraceContains(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertTraceContains(trace, Assertion{Action: "add_to_cart"}))
	assert.NoError(t, assertTraceContains(trace, Assertion{Action: "add_to_cart", Args: map[string]interface{}{"product_id": "2"}}))

	err := assertTraceContains(trace, Assertion{Action: "add_to_cart", Args: map[string]interface{}{"product_id": "3"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found in trace")
	assert.Contains(t, err.Error(), "[1] add_to_cart")
}

func TestAssertTraceOrder(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertTraceOrder(trace, Assertion{Actions: []string{"add_to_cart", "navigate"}}))

	err := assertTraceOrder(trace, Assertion{Actions: []string{"navigate", "add_to_cart"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "should be before")

	err = assertTraceOrder(trace, Assertion{Actions: []string{"submit_checkout"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing action: submit_checkout")
}

func TestAssertTraceCount(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertTraceCount(trace, Assertion{Action: "add_to_cart", Count: 2}))
	assert.NoError(t, assertTraceCount(trace, Assertion{Action: "remove_from_cart", Count: 0}))
	assert.Error(t, assertTraceCount(trace, Assertion{Action: "navigate", Count: 2}))
}

func sampleSnapshot() engine.Snapshot {
	return engine.Snapshot{
		View:     engine.ViewCart,
		Products: []engine.ProductView{{ID: "1"}, {ID: "5"}},
		Cart: engine.CartView{
			Lines: []engine.LineView{{ProductID: "1", Quantity: 2}},
			Total: "$199.98",
		},
		Form:   checkout.Form{Name: "Ada", PaymentMethod: checkout.PayPal},
		Errors: checkout.Errors{checkout.FieldEmail: checkout.MsgEmailInvalid},
		Status: checkout.StatusCorrectErrors,
	}
}

func TestAssertState(t *testing.T) {
	snap := sampleSnapshot()

	passing := []Assertion{
		{Type: AssertView, View: "cart"},
		{Type: AssertProducts, Products: []string{"1", "5"}},
		{Type: AssertCartLines, Lines: []LineExpect{{ProductID: "1", Quantity: 2}}},
		{Type: AssertCartTotal, Total: "$199.98"},
		{Type: AssertErrors, Errors: map[string]string{"email": "Email is invalid."}},
		{Type: AssertStatus, Status: "Please correct the errors in the form."},
		{Type: AssertForm, Form: map[string]string{"name": "Ada", "paymentMethod": "paypal"}},
	}
	for _, a := range passing {
		assert.NoError(t, assertState(snap, a), a.Type)
	}

	failing := []Assertion{
		{Type: AssertView, View: "catalog"},
		{Type: AssertProducts},
		{Type: AssertCartLines},
		{Type: AssertCartTotal, Total: "$0.00"},
		{Type: AssertErrors},
		{Type: AssertStatus},
		{Type: AssertForm, Form: map[string]string{"city": "London"}},
		{Type: AssertForm, Form: map[string]string{"country": "UK"}},
	}
	for _, a := range failing {
		assert.Error(t, assertState(snap, a), a.Type)
	}
}

func TestEvaluateAssertions(t *testing.T) {
	result := NewResult()
	result.Trace = sampleTrace()
	result.Final = sampleSnapshot()

	errs := EvaluateAssertions(result, []Assertion{
		{Type: AssertTraceCount, Action: "add_to_cart", Count: 2},
		{Type: AssertView, View: "cart"},
		{Type: "final_state"},
		{Type: AssertStatus, Status: "nope"},
	})

	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], `unknown assertion type "final_state"`)
	assert.Contains(t, errs[1], "Assertion failed: status")
}

func TestMatchArgs(t *testing.T) {
	actual := ir.IRObject{"product_id": ir.IRString("1"), "quantity": ir.IRInt(2)}

	assert.True(t, matchArgs(actual, nil))
	assert.True(t, matchArgs(actual, ir.IRObject{"quantity": ir.IRInt(2)}))
	assert.False(t, matchArgs(actual, ir.IRObject{"quantity": ir.IRInt(3)}))
	assert.False(t, matchArgs(actual, ir.IRObject{"view": ir.IRString("cart")}))
}
