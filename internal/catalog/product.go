package catalog

import (
	"github.com/shopspring/decimal"
)

// PlaceholderImage is shown in place of a product image that is missing.
const PlaceholderImage = "https://placehold.co/400x300/DDDDDD/000000?text=Image+Error"

// Product is an immutable catalog entry.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Image       string          `json:"image,omitempty"`
}

// ImageURL returns the product image, or PlaceholderImage when none is set.
func (p Product) ImageURL() string {
	if p.Image == "" {
		return PlaceholderImage
	}
	return p.Image
}

// DisplayPrice formats the product price for display.
func (p Product) DisplayPrice() string {
	return FormatPrice(p.Price)
}

// FormatPrice renders an amount as "$" followed by two fixed decimals.
func FormatPrice(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
