package cart

import (
	"storefront-service/clients"
	"storefront-service/models"
)

// correctItem applies a server-reported stock conflict to a single line item.
// The server decides the correction: remove (or zero stock) marks the item
// out of stock; reduce_quantity clamps to what inventory can still supply.
func correctItem(item models.CartLineItem, conflict *clients.StockConflictError) models.CartLineItem {
	if conflict.Action == models.ActionRemove || conflict.AvailableStock == 0 {
		item.Status = models.StatusOutOfStock
		item.StatusCode = item.Status.Code()
		item.Message = conflict.Message
		item.Action = models.ActionRemove
		item.CanProceedToCheckout = false
		item.Subtotal = 0
		item.Discount = 0
		item.OriginalSubtotal = 0
		item.StockInfo = models.StockInfo{
			AvailableStock: 0,
			CartQuantity:   item.Quantity,
			IsOutOfStock:   true,
		}
		return item
	}

	if conflict.Action == models.ActionReduceQuantity {
		available := conflict.AvailableStock
		if item.Quantity > available {
			item.Quantity = available
		}
		derivePricing(&item)
		item.Status = models.StatusQuantityExceeded
		item.StatusCode = item.Status.Code()
		item.Message = conflict.Message
		item.Action = models.ActionReduceQuantity
		item.CanProceedToCheckout = false
		maxAllowed := available
		item.StockInfo = models.StockInfo{
			AvailableStock: available,
			CartQuantity:   item.Quantity,
			MaxAllowed:     &maxAllowed,
			IsOutOfStock:   false,
			IsLowStock:     available > 0 && available < models.LowStockThreshold,
		}
		return item
	}

	return item
}

// conflictSummary recomputes the summary after a conflict correction. The
// cart is known to need attention at this point regardless of what the
// aggregate rules alone would conclude.
func conflictSummary(items []models.CartLineItem) models.CartSummary {
	summary := ComputeSummary(items)
	if len(items) > 0 {
		summary.OverallStatus = models.CartRequiresAction
		summary.HasQuantityIssues = true
	}
	return summary
}
