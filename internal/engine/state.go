package engine

import (
	"fmt"

	"github.com/roach88/ministore/internal/cart"
	"github.com/roach88/ministore/internal/catalog"
	"github.com/roach88/ministore/internal/checkout"
)

// View selects which storefront screen is active.
type View string

const (
	ViewCatalog  View = "catalog"
	ViewCart     View = "cart"
	ViewCheckout View = "checkout"
)

// ParseView resolves a view name.
func ParseView(s string) (View, error) {
	switch v := View(s); v {
	case ViewCatalog, ViewCart, ViewCheckout:
		return v, nil
	default:
		return "", fmt.Errorf("unknown view %q", s)
	}
}

// State is the complete application state of one storefront session.
// It is a value: transitions produce a new State and never modify the
// previous one.
type State struct {
	Query      string
	Category   string
	Cart       cart.Cart
	Form       checkout.Form
	Errors     checkout.Errors
	Submission checkout.Submission
	View       View
	Notice     string
}

// NewState returns the state of a fresh session.
func NewState() State {
	return State{
		Category:   catalog.AllCategories,
		Form:       checkout.DefaultForm(),
		Errors:     checkout.Errors{},
		Submission: checkout.Submission{Phase: checkout.Idle},
		View:       ViewCatalog,
	}
}

// NavEntry is one navigation control.
type NavEntry struct {
	View   View   `json:"view"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// Nav returns the navigation entries. Checkout is exposed only while the
// cart is non-empty; requesting it directly is still allowed.
func (s State) Nav() []NavEntry {
	nav := []NavEntry{
		{View: ViewCatalog, Label: "Products"},
		{View: ViewCart, Label: fmt.Sprintf("Cart (%d)", s.Cart.Len())},
	}
	if !s.Cart.IsEmpty() {
		nav = append(nav, NavEntry{View: ViewCheckout, Label: "Checkout"})
	}
	for i := range nav {
		nav[i].Active = nav[i].View == s.View
	}
	return nav
}
