package models

// ItemStatus is the stock-validation status of a single cart line item.
type ItemStatus string

const (
	StatusAvailable        ItemStatus = "available"
	StatusOutOfStock       ItemStatus = "out_of_stock"
	StatusQuantityExceeded ItemStatus = "quantity_exceeded"
	StatusLowStockWarning  ItemStatus = "low_stock_warning"
)

// Code returns the uppercase enum form used in API payloads.
func (s ItemStatus) Code() string {
	switch s {
	case StatusAvailable:
		return "AVAILABLE"
	case StatusOutOfStock:
		return "OUT_OF_STOCK"
	case StatusQuantityExceeded:
		return "QUANTITY_EXCEEDED"
	case StatusLowStockWarning:
		return "LOW_STOCK"
	}
	return "UNKNOWN"
}

// ItemAction is the recommended user action for a line item.
type ItemAction string

const (
	ActionProceed            ItemAction = "proceed"
	ActionRemove             ItemAction = "remove"
	ActionReduceQuantity     ItemAction = "reduce_quantity"
	ActionProceedWithCaution ItemAction = "proceed_with_caution"
)

// LowStockThreshold is the advisory threshold: stock below this (but above
// zero) marks an item as low_stock_warning.
const LowStockThreshold = 10

// StockInfo carries the availability numbers behind an item's status.
type StockInfo struct {
	AvailableStock int  `json:"available_stock"`
	CartQuantity   int  `json:"cart_quantity"`
	MaxAllowed     *int `json:"max_allowed,omitempty"`
	IsOutOfStock   bool `json:"is_out_of_stock"`
	IsLowStock     bool `json:"is_low_stock"`
}

// CartLineItem is one product variant held in the cart.
type CartLineItem struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`

	Name     string `json:"name"`
	Category string `json:"category"`
	Image    string `json:"image"`

	OriginalPrice    float64 `json:"original_price"`
	DiscountedPrice  float64 `json:"discounted_price"`
	Subtotal         float64 `json:"subtotal"`
	OriginalSubtotal float64 `json:"original_subtotal"`
	Discount         float64 `json:"discount"`

	Quantity  int    `json:"quantity"`
	StockName string `json:"stock_name"`

	Status               ItemStatus `json:"status"`
	StatusCode           string     `json:"status_code"`
	Message              string     `json:"message"`
	Action               ItemAction `json:"action"`
	CanProceedToCheckout bool       `json:"can_proceed_to_checkout"`
	StockInfo            StockInfo  `json:"stock_info"`
}

// OverallStatus is the aggregate checkout readiness of the cart.
type OverallStatus string

const (
	CartReady           OverallStatus = "ready"
	CartRequiresAction  OverallStatus = "requires_action"
	CartLowStockWarning OverallStatus = "low_stock_warning"
)

// CartSummary aggregates over all line items. It is always derived from the
// current item list and never stored independently of it.
type CartSummary struct {
	TotalItems         int     `json:"total_items"`
	TotalUniqueItems   int     `json:"total_unique_items"`
	TotalPrice         float64 `json:"total_price"`
	TotalOriginalPrice float64 `json:"total_original_price"`
	TotalDiscount      float64 `json:"total_discount"`

	HasOutOfStockItems      bool `json:"has_out_of_stock_items"`
	HasLowStockWarnings     bool `json:"has_low_stock_warnings"`
	HasQuantityIssues       bool `json:"has_quantity_issues"`
	ItemsRequiringAttention int  `json:"items_requiring_attention"`

	OverallStatus        OverallStatus `json:"overall_status"`
	CanProceedToCheckout bool          `json:"can_proceed_to_checkout"`
	CheckoutMessage      string        `json:"checkout_message"`
}

// Cart is the aggregate root owned by the cart manager.
type Cart struct {
	Items   []CartLineItem `json:"items"`
	Summary CartSummary    `json:"summary"`
}

// Clone returns a deep copy safe to hand to consumers.
func (c Cart) Clone() Cart {
	out := Cart{Summary: c.Summary}
	if c.Items != nil {
		out.Items = make([]CartLineItem, len(c.Items))
		copy(out.Items, c.Items)
	}
	return out
}
