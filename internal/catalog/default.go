package catalog

import "github.com/shopspring/decimal"

// Default returns the built-in storefront catalog.
func Default() *Catalog {
	return MustNew([]Product{
		{
			ID:          "1",
			Name:        "Stylish Headphones",
			Price:       decimal.RequireFromString("99.99"),
			Category:    "Electronics",
			Description: "High-fidelity sound with comfortable ear cups, perfect for music lovers.",
			Image:       "https://placehold.co/400x300/F0F8FF/000000?text=Headphones",
		},
		{
			ID:          "2",
			Name:        "Vintage Camera",
			Price:       decimal.RequireFromString("149.99"),
			Category:    "Electronics",
			Description: "Capture timeless moments with this classic film camera. Easy to use.",
			Image:       "https://placehold.co/400x300/E6E6FA/000000?text=Camera",
		},
		{
			ID:          "3",
			Name:        "Smart Watch",
			Price:       decimal.RequireFromString("199.99"),
			Category:    "Wearables",
			Description: "Track your fitness, receive notifications, and stay connected on the go.",
			Image:       "https://placehold.co/400x300/F0FFF0/000000?text=Smartwatch",
		},
		{
			ID:          "4",
			Name:        "Ergonomic Chair",
			Price:       decimal.RequireFromString("299.99"),
			Category:    "Home Office",
			Description: "Designed for ultimate comfort and support during long work hours.",
			Image:       "https://placehold.co/400x300/FFF5EE/000000?text=Chair",
		},
		{
			ID:          "5",
			Name:        "Portable Speaker",
			Price:       decimal.RequireFromString("79.99"),
			Category:    "Electronics",
			Description: "Compact and powerful, take your music anywhere with rich, clear sound.",
			Image:       "https://placehold.co/400x300/F8F8FF/000000?text=Speaker",
		},
		{
			ID:          "6",
			Name:        "Designer Backpack",
			Price:       decimal.RequireFromString("59.99"),
			Category:    "Accessories",
			Description: "Stylish and durable, perfect for daily commute or weekend adventures.",
			Image:       "https://placehold.co/400x300/F5FFFA/000000?text=Backpack",
		},
		{
			ID:          "7",
			Name:        "Coffee Maker",
			Price:       decimal.RequireFromString("89.99"),
			Category:    "Kitchen",
			Description: "Start your day right with a fresh cup of coffee, brewed to perfection.",
			Image:       "https://placehold.co/400x300/FAEBD7/000000?text=CoffeeMaker",
		},
		{
			ID:          "8",
			Name:        "Wireless Earbuds",
			Price:       decimal.RequireFromString("129.99"),
			Category:    "Electronics",
			Description: "Seamless audio experience with noise cancellation and long battery life.",
			Image:       "https://placehold.co/400x300/F0F8FF/000000?text=Earbuds",
		},
	})
}
