package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-service/cart"
	"storefront-service/clients"
	"storefront-service/middleware"
	"storefront-service/notifications"
)

// CartController exposes the per-user cart manager over HTTP.
type CartController struct {
	store *cart.Store
	feed  *notifications.Feed
}

func NewCartController(store *cart.Store, feed *notifications.Feed) *CartController {
	return &CartController{store: store, feed: feed}
}

// GetCart returns the current cart snapshot. refresh=true forces a resync
// with the remote cart API first.
func (cc *CartController) GetCart(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	manager := cc.store.ForUser(c.Request.Context(), userID)
	if c.Query("refresh") == "true" {
		manager.FetchCart(c.Request.Context())
	}

	c.JSON(http.StatusOK, gin.H{
		"cart":           manager.Snapshot(),
		"action_loading": manager.ActionLoading(),
	})
}

type addToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	StockName string `json:"stock_name"`
	Quantity  int    `json:"quantity"`
}

// AddToCart adds a product variant and returns the resynced cart.
func (cc *CartController) AddToCart(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	manager := cc.store.ForUser(c.Request.Context(), userID)
	result, err := manager.AddToCart(c.Request.Context(), req.ProductID, req.StockName, req.Quantity)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result": result,
		"cart":   manager.Snapshot(),
	})
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// UpdateQuantity changes a line item's quantity; quantity 0 removes it. The
// response always carries the post-reconciliation cart, including any
// stock-conflict corrections.
func (cc *CartController) UpdateQuantity(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil || *req.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	itemID := c.Param("id")
	manager := cc.store.ForUser(c.Request.Context(), userID)

	err = manager.UpdateQuantity(c.Request.Context(), itemID, *req.Quantity)
	if err != nil {
		if errors.Is(err, cart.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "cart item not found"})
			return
		}
		var conflict *clients.StockConflictError
		if errors.As(err, &conflict) {
			// The conflict was reconciled locally; report it alongside
			// the corrected cart so the UI can surface it.
			c.JSON(http.StatusConflict, gin.H{
				"error":   string(conflict.Kind),
				"message": conflict.Message,
				"cart":    manager.Snapshot(),
			})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{
			"error": err.Error(),
			"cart":  manager.Snapshot(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": manager.Snapshot()})
}

// RemoveItem removes a line item.
func (cc *CartController) RemoveItem(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	manager := cc.store.ForUser(c.Request.Context(), userID)
	if err := manager.RemoveFromCart(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": err.Error(),
			"cart":  manager.Snapshot(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": manager.Snapshot()})
}

// ClearCart empties the cart.
func (cc *CartController) ClearCart(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	manager := cc.store.ForUser(c.Request.Context(), userID)
	if err := manager.ClearCart(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": manager.Snapshot()})
}

// Notifications returns the user's recent cart notifications.
func (cc *CartController) Notifications(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	recent, err := cc.feed.Recent(c.Request.Context(), userID, 20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": recent})
}

// Logout drops the user's cart manager; the next access re-fetches from the
// cart API.
func (cc *CartController) Logout(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	cc.store.Drop(userID)
	c.JSON(http.StatusOK, gin.H{"message": "session cleared"})
}
