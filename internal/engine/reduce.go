package engine

import (
	"errors"

	"github.com/roach88/ministore/internal/cart"
	"github.com/roach88/ministore/internal/catalog"
	"github.com/roach88/ministore/internal/checkout"
	"github.com/roach88/ministore/internal/ir"
)

// Transition is the result of applying one action to a State.
type Transition struct {
	// State is the next state. Equal to the input state when Err is set.
	State State

	// Case is the outcome case recorded in the journal.
	Case string

	// Result carries outcome details for the journal.
	Result ir.IRObject

	// Err is set when the action was rejected.
	Err *ActionError

	// StartDelay asks the caller to start the simulated submission delay
	// and apply ActionCheckoutCompleted when it elapses.
	StartDelay bool
}

// Reduce applies one action to st. It is pure: it performs no I/O, starts no
// timers, and never modifies st. The engine is its only caller at runtime;
// replay calls it directly.
func Reduce(cat *catalog.Catalog, st State, typ ir.ActionType, args ir.IRObject) Transition {
	switch typ {
	case ir.ActionSearchChanged:
		return reduceSearch(st, args)
	case ir.ActionCategoryChanged:
		return reduceCategory(cat, st, args)
	case ir.ActionAddToCart:
		return reduceAdd(cat, st, args)
	case ir.ActionSetQuantity:
		return reduceSetQuantity(st, args)
	case ir.ActionRemoveFromCart:
		return reduceRemove(st, args)
	case ir.ActionNavigate:
		return reduceNavigate(st, args)
	case ir.ActionFieldChanged:
		return reduceField(st, args)
	case ir.ActionSubmitCheckout:
		return reduceSubmit(st)
	case ir.ActionCheckoutCompleted:
		return reduceCompleted(st)
	default:
		return rejected(st, reject(typ, ErrCodeUnknownAction, "unknown action type %q", typ))
	}
}

func applied(st State, result ir.IRObject) Transition {
	if result == nil {
		result = ir.IRObject{}
	}
	return Transition{State: st, Case: ir.CaseApplied, Result: result}
}

func rejected(st State, err *ActionError) Transition {
	return Transition{
		State: st,
		Case:  ir.CaseRejected,
		Result: ir.IRObject{
			"code":    ir.IRString(err.Code),
			"message": ir.IRString(err.Message),
		},
		Err: err,
	}
}

// stringArg and intArg fetch a required argument or return a rejection.
func stringArg(typ ir.ActionType, args ir.IRObject, key string) (string, *ActionError) {
	v, ok := args.String(key)
	if !ok {
		return "", reject(typ, ErrCodeInvalidArgs, "%s requires string argument %q", typ, key)
	}
	return v, nil
}

func intArg(typ ir.ActionType, args ir.IRObject, key string) (int, *ActionError) {
	v, ok := args.Int(key)
	if !ok {
		return 0, reject(typ, ErrCodeInvalidArgs, "%s requires integer argument %q", typ, key)
	}
	return int(v), nil
}

// next starts a user-action transition. Notices last for one action.
func next(st State) State {
	st.Notice = ""
	return st
}

func reduceSearch(st State, args ir.IRObject) Transition {
	text, err := stringArg(ir.ActionSearchChanged, args, "text")
	if err != nil {
		return rejected(st, err)
	}
	ns := next(st)
	ns.Query = text
	return applied(ns, ir.IRObject{"text": ir.IRString(text)})
}

func reduceCategory(cat *catalog.Catalog, st State, args ir.IRObject) Transition {
	category, err := stringArg(ir.ActionCategoryChanged, args, "category")
	if err != nil {
		return rejected(st, err)
	}
	if !cat.HasCategory(category) {
		return rejected(st, reject(ir.ActionCategoryChanged, ErrCodeUnknownCategory, "unknown category %q", category))
	}
	ns := next(st)
	ns.Category = category
	return applied(ns, ir.IRObject{"category": ir.IRString(category)})
}

func reduceAdd(cat *catalog.Catalog, st State, args ir.IRObject) Transition {
	id, err := stringArg(ir.ActionAddToCart, args, "product_id")
	if err != nil {
		return rejected(st, err)
	}
	if _, ok := cat.Lookup(id); !ok {
		return rejected(st, reject(ir.ActionAddToCart, ErrCodeUnknownProduct, "%v: %q", catalog.ErrUnknownProduct, id))
	}
	ns := next(st)
	ns.Cart = st.Cart.Add(id)
	ns.Notice = cart.NoticeAdded
	qty, _ := ns.Cart.Quantity(id)
	return applied(ns, ir.IRObject{
		"product_id": ir.IRString(id),
		"quantity":   ir.IRInt(qty),
	})
}

func reduceSetQuantity(st State, args ir.IRObject) Transition {
	id, err := stringArg(ir.ActionSetQuantity, args, "product_id")
	if err != nil {
		return rejected(st, err)
	}
	n, err := intArg(ir.ActionSetQuantity, args, "quantity")
	if err != nil {
		return rejected(st, err)
	}
	if n <= 0 {
		return reduceRemove(st, ir.IRObject{"product_id": ir.IRString(id)})
	}
	ns := next(st)
	ns.Cart = st.Cart.SetQuantity(id, n)
	qty, _ := ns.Cart.Quantity(id)
	return applied(ns, ir.IRObject{
		"product_id": ir.IRString(id),
		"quantity":   ir.IRInt(qty),
	})
}

func reduceRemove(st State, args ir.IRObject) Transition {
	id, err := stringArg(ir.ActionRemoveFromCart, args, "product_id")
	if err != nil {
		return rejected(st, err)
	}
	ns := next(st)
	ns.Cart = st.Cart.Remove(id)
	ns.Notice = cart.NoticeRemoved
	return applied(ns, ir.IRObject{"product_id": ir.IRString(id)})
}

func reduceNavigate(st State, args ir.IRObject) Transition {
	name, err := stringArg(ir.ActionNavigate, args, "view")
	if err != nil {
		return rejected(st, err)
	}
	v, perr := ParseView(name)
	if perr != nil {
		return rejected(st, reject(ir.ActionNavigate, ErrCodeUnknownView, "%v", perr))
	}
	ns := next(st)
	ns.View = v
	return applied(ns, ir.IRObject{"view": ir.IRString(v)})
}

// reduceField updates one form value. Validation errors are left as they
// are; only a submission recomputes them.
func reduceField(st State, args ir.IRObject) Transition {
	name, err := stringArg(ir.ActionFieldChanged, args, "field")
	if err != nil {
		return rejected(st, err)
	}
	value, err := stringArg(ir.ActionFieldChanged, args, "value")
	if err != nil {
		return rejected(st, err)
	}
	field, perr := checkout.ParseField(name)
	if perr != nil {
		return rejected(st, reject(ir.ActionFieldChanged, ErrCodeUnknownField, "%v", perr))
	}
	form, perr := st.Form.With(field, value)
	if perr != nil {
		code := ErrCodeInvalidArgs
		if errors.Is(perr, checkout.ErrInvalidPaymentMethod) {
			code = ErrCodeInvalidPaymentMethod
		}
		return rejected(st, reject(ir.ActionFieldChanged, code, "%v", perr))
	}
	ns := next(st)
	ns.Form = form
	return applied(ns, ir.IRObject{"field": ir.IRString(field)})
}

func reduceSubmit(st State) Transition {
	sub, errs, ok, err := st.Submission.Begin(st.Form)
	if err != nil {
		return rejected(st, reject(ir.ActionSubmitCheckout, ErrCodeSubmissionInProgress, "%v", err))
	}
	ns := next(st)
	ns.Submission = sub
	ns.Errors = errs
	if !ok {
		return Transition{
			State:  ns,
			Case:   ir.CaseValidationFailed,
			Result: ir.IRObject{"errors": errorsObject(errs)},
		}
	}
	return Transition{
		State:      ns,
		Case:       ir.CaseProcessing,
		Result:     ir.IRObject{},
		StartDelay: true,
	}
}

func reduceCompleted(st State) Transition {
	if !st.Submission.Processing() {
		return rejected(st, reject(ir.ActionCheckoutCompleted, ErrCodeNotProcessing, "no submission in progress"))
	}
	ns := next(st)
	ns.Submission = st.Submission.Complete()
	ns.Cart = cart.Cart{}
	ns.Form = checkout.DefaultForm()
	ns.Errors = checkout.Errors{}
	return Transition{
		State:  ns,
		Case:   ir.CaseOrderPlaced,
		Result: ir.IRObject{"status": ir.IRString(ns.Submission.Status)},
	}
}

func errorsObject(errs checkout.Errors) ir.IRObject {
	obj := make(ir.IRObject, len(errs))
	for f, msg := range errs {
		obj[string(f)] = ir.IRString(msg)
	}
	return obj
}
