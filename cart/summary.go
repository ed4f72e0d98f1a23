package cart

import (
	"fmt"

	"storefront-service/models"
)

// EmptyCartSummary is the summary of a cart with no items. An empty cart is
// vacuously ready for checkout.
func EmptyCartSummary() models.CartSummary {
	return models.CartSummary{
		OverallStatus:        models.CartReady,
		CanProceedToCheckout: true,
		CheckoutMessage:      "Your cart is empty",
	}
}

func emptyCart() models.Cart {
	return models.Cart{
		Items:   []models.CartLineItem{},
		Summary: EmptyCartSummary(),
	}
}

// derivePricing recomputes the quantity-derived pricing fields in place.
func derivePricing(item *models.CartLineItem) {
	item.Subtotal = float64(item.Quantity) * item.DiscountedPrice
	item.OriginalSubtotal = float64(item.Quantity) * item.OriginalPrice
	item.Discount = item.OriginalSubtotal - item.Subtotal
}

// RevalidateItem applies a new quantity to a line item and recomputes its
// pricing and stock-validation envelope from the previously known available
// stock. Local edits never transition an item to out_of_stock; only a
// server-reported conflict does.
func RevalidateItem(item models.CartLineItem, quantity int) models.CartLineItem {
	item.Quantity = quantity
	derivePricing(&item)

	available := item.StockInfo.AvailableStock
	item.StockInfo.CartQuantity = quantity
	item.StockInfo.IsLowStock = available > 0 && available < models.LowStockThreshold

	switch {
	case item.StockInfo.IsOutOfStock:
		item.Status = models.StatusOutOfStock
		item.Action = models.ActionRemove
		item.CanProceedToCheckout = false
	case quantity > available:
		item.Status = models.StatusQuantityExceeded
		item.Message = fmt.Sprintf("Only %d available", available)
		item.Action = models.ActionReduceQuantity
		item.CanProceedToCheckout = false
	case item.StockInfo.IsLowStock:
		item.Status = models.StatusLowStockWarning
		item.Message = fmt.Sprintf("Only %d left in stock", available)
		item.Action = models.ActionProceedWithCaution
		item.CanProceedToCheckout = true
	default:
		item.Status = models.StatusAvailable
		item.Message = ""
		item.Action = models.ActionProceed
		item.CanProceedToCheckout = true
	}
	item.StatusCode = item.Status.Code()

	return item
}

// ComputeSummary derives the whole-cart summary from the item list. It is a
// pure function; callers must re-run it after every mutation.
func ComputeSummary(items []models.CartLineItem) models.CartSummary {
	if len(items) == 0 {
		return EmptyCartSummary()
	}

	var summary models.CartSummary
	summary.TotalUniqueItems = len(items)
	summary.CanProceedToCheckout = true

	for _, item := range items {
		summary.TotalItems += item.Quantity
		summary.TotalPrice += item.Subtotal
		summary.TotalOriginalPrice += item.OriginalSubtotal
		summary.TotalDiscount += item.Discount

		switch item.Status {
		case models.StatusOutOfStock:
			summary.HasOutOfStockItems = true
		case models.StatusQuantityExceeded:
			summary.HasQuantityIssues = true
		case models.StatusLowStockWarning:
			summary.HasLowStockWarnings = true
		}
		if !item.CanProceedToCheckout {
			summary.ItemsRequiringAttention++
			summary.CanProceedToCheckout = false
		}
	}

	switch {
	case !summary.CanProceedToCheckout:
		summary.OverallStatus = models.CartRequiresAction
		summary.CheckoutMessage = fmt.Sprintf("%d item(s) need attention before checkout", summary.ItemsRequiringAttention)
	case summary.HasLowStockWarnings:
		summary.OverallStatus = models.CartLowStockWarning
		summary.CheckoutMessage = "Some items are low in stock"
	default:
		summary.OverallStatus = models.CartReady
		summary.CheckoutMessage = "Ready to checkout"
	}

	return summary
}
