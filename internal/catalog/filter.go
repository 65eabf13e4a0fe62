package catalog

import (
	"strings"

	"golang.org/x/text/cases"
)

// Filter returns the ordered subsequence of products whose category matches
// (or category is AllCategories) and whose name contains query, compared
// under Unicode case folding. An empty query matches every name.
func Filter(products []Product, query, category string) []Product {
	q := fold(query)
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if category != AllCategories && p.Category != category {
			continue
		}
		if !strings.Contains(fold(p.Name), q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func fold(s string) string {
	return cases.Fold().String(s)
}

type filterKey struct {
	query    string
	category string
}

// View memoizes Filter over a Catalog on exactly (query, category).
// It recomputes only when either input changes. Not safe for concurrent use;
// the engine owns one View per session.
type View struct {
	catalog *Catalog
	key     filterKey
	result  []Product
	valid   bool
	misses  int
}

// NewView returns a memoized filter over c.
func NewView(c *Catalog) *View {
	return &View{catalog: c}
}

// Filter returns the visible products for (query, category).
// The returned slice is shared with the memo and must not be modified.
func (v *View) Filter(query, category string) []Product {
	key := filterKey{query: query, category: category}
	if v.valid && v.key == key {
		return v.result
	}
	v.key = key
	v.result = Filter(v.catalog.products, query, category)
	v.valid = true
	v.misses++
	return v.result
}

// Recomputations returns how many times Filter missed the memo.
func (v *View) Recomputations() int {
	return v.misses
}
