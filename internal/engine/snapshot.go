package engine

import (
	"github.com/roach88/ministore/internal/catalog"
	"github.com/roach88/ministore/internal/checkout"
)

// Empty-state texts.
const (
	NoProductsText = "No products found for your search/filter."
	EmptyCartText  = "Your cart is empty. Time to shop!"
)

// Snapshot is the set of observable outputs of a session at one point in
// its history. It is derived from State and never modified after it is
// published.
type Snapshot struct {
	Session    string          `json:"session"`
	Seq        int64           `json:"seq"`
	View       View            `json:"view"`
	Nav        []NavEntry      `json:"nav"`
	Query      string          `json:"query"`
	Category   string          `json:"category"`
	Categories []string        `json:"categories"`
	Products   []ProductView   `json:"products"`
	EmptyText  string          `json:"empty_text,omitempty"`
	Cart       CartView        `json:"cart"`
	Form       checkout.Form   `json:"form"`
	Errors     checkout.Errors `json:"errors"`
	Status     string          `json:"status"`
	Phase      checkout.Phase  `json:"phase"`
	PayLabel   string          `json:"pay_label"`
	Notice     string          `json:"notice,omitempty"`
}

// ProductView is a product as displayed in the catalog grid.
type ProductView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// CartView is the cart as displayed, joined against the catalog.
type CartView struct {
	Lines     []LineView `json:"lines"`
	Total     string     `json:"total"`
	Badge     int        `json:"badge"`
	EmptyText string     `json:"empty_text,omitempty"`
}

// LineView is one displayed cart line.
type LineView struct {
	ProductID    string `json:"product_id"`
	Name         string `json:"name"`
	Price        string `json:"price"`
	Quantity     int    `json:"quantity"`
	Subtotal     string `json:"subtotal"`
	CanDecrement bool   `json:"can_decrement"`
}

// ProductIDs returns the ids of the visible products in order.
func (s Snapshot) ProductIDs() []string {
	ids := make([]string, len(s.Products))
	for i, p := range s.Products {
		ids[i] = p.ID
	}
	return ids
}

// Render derives the observable outputs of st. filter supplies the visible
// products and may be memoized. dangling lists cart lines whose product id
// does not resolve; they are left out of the view.
func Render(cat *catalog.Catalog, filter func(query, category string) []catalog.Product, st State) (snap Snapshot, dangling []string) {
	visible := filter(st.Query, st.Category)
	products := make([]ProductView, len(visible))
	for i, p := range visible {
		products[i] = ProductView{
			ID:          p.ID,
			Name:        p.Name,
			Price:       p.DisplayPrice(),
			Category:    p.Category,
			Description: p.Description,
			Image:       p.ImageURL(),
		}
	}

	items, dangling := st.Cart.Resolve(cat)
	lines := make([]LineView, len(items))
	for i, it := range items {
		lines[i] = LineView{
			ProductID:    it.Product.ID,
			Name:         it.Product.Name,
			Price:        it.Product.DisplayPrice(),
			Quantity:     it.Quantity,
			Subtotal:     catalog.FormatPrice(it.Subtotal),
			CanDecrement: it.CanDecrement(),
		}
	}
	total := st.Cart.Total(cat)

	snap = Snapshot{
		View:       st.View,
		Nav:        st.Nav(),
		Query:      st.Query,
		Category:   st.Category,
		Categories: cat.Categories(),
		Products:   products,
		Cart: CartView{
			Lines: lines,
			Total: catalog.FormatPrice(total),
			Badge: st.Cart.Len(),
		},
		Form:     st.Form,
		Errors:   st.Errors,
		Status:   st.Submission.Status,
		Phase:    st.Submission.Phase,
		PayLabel: st.Submission.PayLabel(total),
		Notice:   st.Notice,
	}
	if len(products) == 0 {
		snap.EmptyText = NoProductsText
	}
	if len(lines) == 0 {
		snap.Cart.EmptyText = EmptyCartText
	}
	return snap, dangling
}

// renderPlain renders without memoization.
func renderPlain(cat *catalog.Catalog, st State) Snapshot {
	snap, _ := Render(cat, func(q, c string) []catalog.Product {
		return catalog.Filter(cat.Products(), q, c)
	}, st)
	return snap
}
