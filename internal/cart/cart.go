// Package cart implements the storefront shopping cart: an insertion-ordered
// mapping from product id to quantity. Cart values are immutable; every
// operation returns a new Cart.
package cart

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/roach88/ministore/internal/catalog"
)

// Transient notices shown after cart mutations.
const (
	NoticeAdded   = "Product added to cart! 🛒"
	NoticeRemoved = "Product removed from cart!"
)

// Line is one cart entry. Quantity is always at least 1.
type Line struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Cart is an ordered list of lines, at most one per product id, in first-add
// order. The zero value is an empty cart.
type Cart struct {
	lines []Line
}

// Of builds a cart from lines, merging repeated ids and dropping lines with
// quantity below 1.
func Of(lines ...Line) Cart {
	var c Cart
	for _, l := range lines {
		if l.Quantity < 1 {
			continue
		}
		if i := c.index(l.ProductID); i >= 0 {
			c.lines[i].Quantity += l.Quantity
			continue
		}
		c.lines = append(c.lines, l)
	}
	return c
}

func (c Cart) index(id string) int {
	return slices.IndexFunc(c.lines, func(l Line) bool { return l.ProductID == id })
}

// Add increments the quantity of id, or appends a new line with quantity 1.
func (c Cart) Add(id string) Cart {
	lines := slices.Clone(c.lines)
	if i := c.index(id); i >= 0 {
		lines[i].Quantity++
		return Cart{lines: lines}
	}
	return Cart{lines: append(lines, Line{ProductID: id, Quantity: 1})}
}

// SetQuantity sets the quantity of id to n. n <= 0 removes the line.
// It is a no-op when id has no line.
func (c Cart) SetQuantity(id string, n int) Cart {
	if n <= 0 {
		return c.Remove(id)
	}
	i := c.index(id)
	if i < 0 {
		return c
	}
	lines := slices.Clone(c.lines)
	lines[i].Quantity = n
	return Cart{lines: lines}
}

// Remove deletes the line for id, if any.
func (c Cart) Remove(id string) Cart {
	i := c.index(id)
	if i < 0 {
		return c
	}
	return Cart{lines: slices.Delete(slices.Clone(c.lines), i, i+1)}
}

// Lines returns the cart lines in insertion order, or nil when empty.
func (c Cart) Lines() []Line {
	if len(c.lines) == 0 {
		return nil
	}
	return slices.Clone(c.lines)
}

// Len returns the number of lines, which is also the cart badge count.
func (c Cart) Len() int {
	return len(c.lines)
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Quantity returns the quantity for id.
func (c Cart) Quantity(id string) (int, bool) {
	i := c.index(id)
	if i < 0 {
		return 0, false
	}
	return c.lines[i].Quantity, true
}

// Products resolves product ids to catalog entries.
type Products interface {
	Lookup(id string) (catalog.Product, bool)
}

// Item is a cart line joined against the catalog.
type Item struct {
	Product  catalog.Product
	Quantity int
	Subtotal decimal.Decimal
}

// CanDecrement reports whether the decrement control is enabled.
func (it Item) CanDecrement() bool {
	return it.Quantity > 1
}

// Resolve joins lines against products. Lines whose id does not resolve are
// returned in dangling and are absent from items.
func (c Cart) Resolve(products Products) (items []Item, dangling []string) {
	for _, l := range c.lines {
		p, ok := products.Lookup(l.ProductID)
		if !ok {
			dangling = append(dangling, l.ProductID)
			continue
		}
		items = append(items, Item{
			Product:  p,
			Quantity: l.Quantity,
			Subtotal: p.Price.Mul(decimal.NewFromInt(int64(l.Quantity))),
		})
	}
	return items, dangling
}

// Total is the sum of price times quantity over lines that resolve.
// Unresolved lines contribute zero.
func (c Cart) Total(products Products) decimal.Decimal {
	total := decimal.Zero
	items, _ := c.Resolve(products)
	for _, it := range items {
		total = total.Add(it.Subtotal)
	}
	return total
}
