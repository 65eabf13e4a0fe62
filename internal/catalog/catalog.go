// Package catalog holds the immutable product list of a storefront and the
// search/filter view over it.
package catalog

import (
	"errors"
	"fmt"
	"slices"
)

// AllCategories is the category selector value that matches every product.
const AllCategories = "All"

// ErrUnknownProduct is returned when an id does not resolve in the catalog.
var ErrUnknownProduct = errors.New("unknown product")

// Catalog is an ordered, immutable list of products known at startup.
// It is safe for concurrent reads.
type Catalog struct {
	products []Product
	index    map[string]int
}

// New builds a Catalog from products in display order.
// Ids must be non-empty and unique; prices must be non-negative.
func New(products []Product) (*Catalog, error) {
	c := &Catalog{
		products: slices.Clone(products),
		index:    make(map[string]int, len(products)),
	}

	for i, p := range c.products {
		if p.ID == "" {
			return nil, fmt.Errorf("product at index %d: id is required", i)
		}
		if p.Price.IsNegative() {
			return nil, fmt.Errorf("product %q: price must be non-negative, got %s", p.ID, p.Price)
		}
		if prev, dup := c.index[p.ID]; dup {
			return nil, fmt.Errorf("product %q: duplicate id (first at index %d)", p.ID, prev)
		}
		c.index[p.ID] = i
	}

	return c, nil
}

// MustNew is like New but panics on error.
// Use only in tests or for built-in product lists.
func MustNew(products []Product) *Catalog {
	c, err := New(products)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// Products returns the products in catalog order.
// The returned slice is a copy.
func (c *Catalog) Products() []Product {
	return slices.Clone(c.products)
}

// Lookup returns the product with the given id.
func (c *Catalog) Lookup(id string) (Product, bool) {
	i, ok := c.index[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// Get is like Lookup but returns ErrUnknownProduct for a missing id.
func (c *Catalog) Get(id string) (Product, error) {
	p, ok := c.Lookup(id)
	if !ok {
		return Product{}, fmt.Errorf("%w: %q", ErrUnknownProduct, id)
	}
	return p, nil
}

// Categories returns the category selector entries: AllCategories followed
// by each distinct product category in first-seen order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	out := []string{AllCategories}
	for _, p := range c.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

// HasCategory reports whether category is a valid selector value.
func (c *Catalog) HasCategory(category string) bool {
	return slices.Contains(c.Categories(), category)
}
