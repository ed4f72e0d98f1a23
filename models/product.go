package models

// Product is the catalog representation consumed by the storefront. The
// catalog service owns the canonical record; this is a read model.
type Product struct {
	ID              string   `json:"id"`
	Name            string   `json:"title"`
	Category        string   `json:"category"`
	Images          []string `json:"images"`
	OriginalPrice   float64  `json:"original_price"`
	DiscountedPrice float64  `json:"discounted_price"`
	Sizes           []string `json:"sizes,omitempty"`
	InStock         bool     `json:"in_stock"`
}

type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parent_id,omitempty"`
}

// ProductListParams are the storefront browse filters forwarded to the
// catalog service.
type ProductListParams struct {
	Search   string
	Category string
	Sort     string
	Sizes    []string
	MinPrice *float64
	MaxPrice *float64
	Limit    int
	Offset   int
}

// ProductListResponse is a paginated catalog page.
type ProductListResponse struct {
	Products []Product `json:"products"`
	Total    int64     `json:"total"`
	Limit    int       `json:"limit"`
	Offset   int       `json:"offset"`
}
