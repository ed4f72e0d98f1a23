package models

type WishlistItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
}

// WishlistToggleResult reports whether a toggle added or removed the product.
type WishlistToggleResult struct {
	ProductID string `json:"product_id"`
	Added     bool   `json:"added"`
	Message   string `json:"message"`
}
