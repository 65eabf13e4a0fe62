package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ministore/internal/cart"
	"github.com/roach88/ministore/internal/catalog"
	"github.com/roach88/ministore/internal/checkout"
	"github.com/roach88/ministore/internal/ir"
)

func TestReduce_DoesNotModifyInput(t *testing.T) {
	cat := catalog.Default()
	st := NewState()
	st.Cart = cart.Cart{}.Add("1")

	tr := Reduce(cat, st, ir.ActionAddToCart, add("1"))
	require.Nil(t, tr.Err)

	qty, _ := st.Cart.Quantity("1")
	assert.Equal(t, 1, qty)
	qty, _ = tr.State.Cart.Quantity("1")
	assert.Equal(t, 2, qty)
}

func TestReduce_NavigateCheckoutWithEmptyCart(t *testing.T) {
	tr := Reduce(catalog.Default(), NewState(), ir.ActionNavigate, ir.IRObject{"view": ir.IRString("checkout")})

	require.Nil(t, tr.Err)
	assert.Equal(t, ViewCheckout, tr.State.View)
}

func TestReduce_NavigationKeepsForm(t *testing.T) {
	cat := catalog.Default()
	st := NewState()
	st.Form.Name = "Ada"

	tr := Reduce(cat, st, ir.ActionNavigate, ir.IRObject{"view": ir.IRString("cart")})
	assert.Equal(t, "Ada", tr.State.Form.Name)
}

func TestReduce_SetQuantityMissingLineIsNoop(t *testing.T) {
	tr := Reduce(catalog.Default(), NewState(), ir.ActionSetQuantity, ir.IRObject{
		"product_id": ir.IRString("1"),
		"quantity":   ir.IRInt(3),
	})

	require.Nil(t, tr.Err)
	assert.Equal(t, ir.CaseApplied, tr.Case)
	assert.True(t, tr.State.Cart.IsEmpty())
	assert.Equal(t, ir.IRObject{"product_id": ir.IRString("1"), "quantity": ir.IRInt(0)}, tr.Result)
}

func TestReduce_RemoveMissingIsNoop(t *testing.T) {
	st := NewState()
	st.Cart = cart.Cart{}.Add("2")

	tr := Reduce(catalog.Default(), st, ir.ActionRemoveFromCart, add("5"))
	require.Nil(t, tr.Err)
	assert.Equal(t, st.Cart.Lines(), tr.State.Cart.Lines())
}

func TestReduce_NoticeLastsOneAction(t *testing.T) {
	cat := catalog.Default()

	tr := Reduce(cat, NewState(), ir.ActionAddToCart, add("1"))
	assert.Equal(t, cart.NoticeAdded, tr.State.Notice)

	tr = Reduce(cat, tr.State, ir.ActionSearchChanged, ir.IRObject{"text": ir.IRString("x")})
	assert.Empty(t, tr.State.Notice)
}

func TestReduce_SubmitValidationResult(t *testing.T) {
	tr := Reduce(catalog.Default(), NewState(), ir.ActionSubmitCheckout, ir.IRObject{})

	assert.Equal(t, ir.CaseValidationFailed, tr.Case)
	assert.False(t, tr.StartDelay)
	errs, ok := tr.Result["errors"].(ir.IRObject)
	require.True(t, ok)
	assert.Equal(t, ir.IRString(checkout.MsgZipRequired), errs["zip"])
	assert.Len(t, errs, 5)
}

func TestReduce_SubmitValidStartsDelay(t *testing.T) {
	st := NewState()
	st.Form = checkout.Form{
		Name: "A", Email: "a@b.c", Address: "1 Road", City: "Town", Zip: "12345-6789",
		PaymentMethod: checkout.CashOnDelivery,
	}
	st.Errors = checkout.Errors{checkout.FieldZip: checkout.MsgZipInvalid}

	tr := Reduce(catalog.Default(), st, ir.ActionSubmitCheckout, ir.IRObject{})

	assert.Equal(t, ir.CaseProcessing, tr.Case)
	assert.True(t, tr.StartDelay)
	assert.Empty(t, tr.State.Errors, "errors recomputed wholesale")
	assert.True(t, tr.State.Submission.Processing())
}

func TestReduce_CompletedWithoutSubmission(t *testing.T) {
	tr := Reduce(catalog.Default(), NewState(), ir.ActionCheckoutCompleted, ir.IRObject{})

	require.NotNil(t, tr.Err)
	assert.Equal(t, ErrCodeNotProcessing, tr.Err.Code)
}

func TestReduce_CompletedResetsCartAndForm(t *testing.T) {
	st := NewState()
	st.Cart = cart.Cart{}.Add("1")
	st.Form.Name = "Ada"
	st.Submission = checkout.Submission{Phase: checkout.Processing}
	st.View = ViewCheckout

	tr := Reduce(catalog.Default(), st, ir.ActionCheckoutCompleted, ir.IRObject{})

	require.Nil(t, tr.Err)
	assert.Equal(t, ir.CaseOrderPlaced, tr.Case)
	assert.True(t, tr.State.Cart.IsEmpty())
	assert.Equal(t, checkout.DefaultForm(), tr.State.Form)
	assert.Equal(t, checkout.StatusOrderPlaced, tr.State.Submission.Status)
	assert.Equal(t, ViewCheckout, tr.State.View, "view is not changed by completion")
}

func TestReduce_UnknownActionType(t *testing.T) {
	tr := Reduce(catalog.Default(), NewState(), ir.ActionType("nope"), nil)

	require.NotNil(t, tr.Err)
	assert.Equal(t, ErrCodeUnknownAction, tr.Err.Code)
	assert.Equal(t, ir.CaseRejected, tr.Case)
	assert.Equal(t, ir.IRString("UNKNOWN_ACTION"), tr.Result["code"])
}

func TestState_Nav(t *testing.T) {
	st := NewState()
	assert.Equal(t, []NavEntry{
		{View: ViewCatalog, Label: "Products", Active: true},
		{View: ViewCart, Label: "Cart (0)"},
	}, st.Nav())

	st.Cart = cart.Cart{}.Add("1").Add("2").Add("1")
	st.View = ViewCheckout
	assert.Equal(t, []NavEntry{
		{View: ViewCatalog, Label: "Products"},
		{View: ViewCart, Label: "Cart (2)"},
		{View: ViewCheckout, Label: "Checkout", Active: true},
	}, st.Nav())
}

func TestParseView(t *testing.T) {
	for _, name := range []string{"catalog", "cart", "checkout"} {
		v, err := ParseView(name)
		require.NoError(t, err)
		assert.Equal(t, View(name), v)
	}

	_, err := ParseView("Cart")
	assert.Error(t, err)
}

func TestRender_DanglingLine(t *testing.T) {
	st := NewState()
	st.Cart = cart.Of(
		cart.Line{ProductID: "1", Quantity: 1},
		cart.Line{ProductID: "gone", Quantity: 2},
	)

	snap, dangling := Render(catalog.Default(), func(q, c string) []catalog.Product { return nil }, st)

	assert.Equal(t, []string{"gone"}, dangling)
	require.Len(t, snap.Cart.Lines, 1)
	assert.Equal(t, "$99.99", snap.Cart.Total)
	assert.Equal(t, 2, snap.Cart.Badge, "badge counts lines, resolved or not")
	assert.Equal(t, NoProductsText, snap.EmptyText)
}
