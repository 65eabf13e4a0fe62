package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/roach88/ministore/internal/checkout"
	"github.com/roach88/ministore/internal/engine"
)

// renderSnapshot writes the observable outputs of a session as text.
func renderSnapshot(w io.Writer, snap engine.Snapshot) {
	nav := make([]string, len(snap.Nav))
	for i, n := range snap.Nav {
		if n.Active {
			nav[i] = "[" + n.Label + "]"
		} else {
			nav[i] = n.Label
		}
	}
	fmt.Fprintf(w, "View: %s  |  %s\n", snap.View, strings.Join(nav, "  "))

	switch snap.View {
	case engine.ViewCatalog:
		fmt.Fprintf(w, "Search: %q  Category: %s\n", snap.Query, snap.Category)
		renderProducts(w, snap.Products, snap.EmptyText)
	case engine.ViewCart:
		renderCart(w, snap.Cart)
	case engine.ViewCheckout:
		renderCart(w, snap.Cart)
		renderForm(w, snap)
	}

	if snap.Notice != "" {
		fmt.Fprintf(w, "Notice: %s\n", snap.Notice)
	}
	if snap.Status != "" {
		fmt.Fprintf(w, "Status: %s\n", snap.Status)
	}
}

func renderProducts(w io.Writer, products []engine.ProductView, emptyText string) {
	if len(products) == 0 {
		fmt.Fprintf(w, "  %s\n", emptyText)
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, p := range products {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", p.ID, p.Name, p.Price, p.Category)
	}
	tw.Flush()
}

func renderCart(w io.Writer, cart engine.CartView) {
	fmt.Fprintf(w, "Cart (%d):\n", cart.Badge)
	if len(cart.Lines) == 0 {
		fmt.Fprintf(w, "  %s\n", cart.EmptyText)
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, l := range cart.Lines {
			fmt.Fprintf(tw, "  %s\t%s\t%s x %d\t%s\n", l.ProductID, l.Name, l.Price, l.Quantity, l.Subtotal)
		}
		tw.Flush()
	}
	fmt.Fprintf(w, "Total: %s\n", cart.Total)
}

func renderForm(w io.Writer, snap engine.Snapshot) {
	fmt.Fprintln(w, "Checkout:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, f := range checkout.Fields {
		line := fmt.Sprintf("  %s\t%q", f, snap.Form.Get(f))
		if msg, ok := snap.Errors[f]; ok {
			line += "\t! " + msg
		}
		fmt.Fprintln(tw, line)
	}
	tw.Flush()
	fmt.Fprintf(w, "[%s]\n", snap.PayLabel)
}
