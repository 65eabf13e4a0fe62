package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ids(products []Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestFilter(t *testing.T) {
	products := Default().Products()

	tests := []struct {
		name     string
		query    string
		category string
		want     []string
	}{
		{"empty query all", "", "All", []string{"1", "2", "3", "4", "5", "6", "7", "8"}},
		{"category only", "", "Electronics", []string{"1", "2", "5", "8"}},
		{"case insensitive", "WATCH", "All", []string{"3"}},
		{"substring", "er", "All", []string{"2", "4", "5", "6", "7"}},
		{"query and category", "er", "Kitchen", []string{"7"}},
		{"description not searched", "fitness", "All", []string{}},
		{"no match", "zzz", "All", []string{}},
		{"unknown category", "", "Garden", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(products, tt.query, tt.category)))
		})
	}
}

func TestFilterUnicodeFolding(t *testing.T) {
	products := []Product{
		{ID: "a", Name: "Straße Map", Category: "Books"},
		{ID: "b", Name: "ÉCLAIR Tin", Category: "Kitchen"},
	}

	assert.Equal(t, []string{"a"}, ids(Filter(products, "STRASSE", AllCategories)))
	assert.Equal(t, []string{"b"}, ids(Filter(products, "éclair", AllCategories)))
}

func TestFilterProperties(t *testing.T) {
	c := Default()
	products := c.Products()

	for _, q := range []string{"", "a", "smart", "o"} {
		for _, cat := range c.Categories() {
			got := Filter(products, q, cat)

			// Subsequence of catalog order.
			last := -1
			for _, p := range got {
				idx := indexOf(products, p.ID)
				assert.Greater(t, idx, last)
				last = idx
				if cat != AllCategories {
					assert.Equal(t, cat, p.Category)
				}
			}

			assert.Equal(t, got, Filter(products, q, cat), "idempotent")
		}
	}
}

func indexOf(products []Product, id string) int {
	for i, p := range products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func TestViewMemoizesOnInputs(t *testing.T) {
	v := NewView(Default())

	first := v.Filter("er", "All")
	second := v.Filter("er", "All")
	assert.Equal(t, first, second)
	assert.Equal(t, 1, v.Recomputations())

	v.Filter("er", "Kitchen")
	assert.Equal(t, 2, v.Recomputations())

	v.Filter("er", "Kitchen")
	assert.Equal(t, 2, v.Recomputations())

	v.Filter("", "Kitchen")
	assert.Equal(t, 3, v.Recomputations())
}
