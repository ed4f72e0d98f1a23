package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"storefront-service/models"
)

// ConflictKind is the closed set of stock-conflict codes the cart service
// reports. Anything outside this set is treated as an unknown upstream error.
type ConflictKind string

const (
	ConflictOutOfStock         ConflictKind = "OUT_OF_STOCK"
	ConflictInsufficientStock  ConflictKind = "INSUFFICIENT_STOCK"
	ConflictProductUnavailable ConflictKind = "PRODUCT_UNAVAILABLE"
)

// ProductInfo identifies the product a conflict refers to.
type ProductInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// StockConflictError is a well-formed domain conflict reported by the cart
// service: the requested quantity no longer matches actual inventory.
type StockConflictError struct {
	Kind           ConflictKind      `json:"error"`
	Message        string            `json:"message"`
	AvailableStock int               `json:"available_stock"`
	Action         models.ItemAction `json:"action"`
	ProductInfo    *ProductInfo      `json:"product_info,omitempty"`
}

func (e *StockConflictError) Error() string {
	return fmt.Sprintf("stock conflict %s: %s", e.Kind, e.Message)
}

// AddItemRequest is the POST /cart/add payload.
type AddItemRequest struct {
	ProductID string `json:"product_id"`
	StockName string `json:"stock_name"`
	Quantity  int    `json:"quantity"`
}

// AddItemResponse is the server's add-to-cart result.
type AddItemResponse struct {
	Success       bool `json:"success"`
	AlreadyInCart bool `json:"already_in_cart"`
	CartItem      struct {
		ID       string `json:"id"`
		Quantity int    `json:"quantity"`
	} `json:"cart_item"`
	Message string `json:"message"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartClient talks to the remote cart API.
type CartClient struct {
	baseClient
}

func NewCartClient(baseURL string, timeout time.Duration) *CartClient {
	return &CartClient{baseClient: newBaseClient(baseURL, timeout)}
}

// GetCart fetches the authoritative cart for a user.
func (c *CartClient) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	resp, err := c.do(ctx, http.MethodGet, "/cart", nil, userID, nil)
	if err != nil {
		return nil, err
	}
	var cart models.Cart
	if err := decodeJSON(resp, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddItem adds a product variant to the cart. Merging with an existing line
// is the server's job; callers must re-fetch afterwards.
func (c *CartClient) AddItem(ctx context.Context, userID string, req AddItemRequest) (*AddItemResponse, error) {
	resp, err := c.do(ctx, http.MethodPost, "/cart/add", nil, userID, req)
	if err != nil {
		return nil, err
	}
	var out AddItemResponse
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateQuantity sets a line item's quantity. Stock conflicts come back as
// *StockConflictError; other failures as *APIError or a transport error.
func (c *CartClient) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (*models.Cart, error) {
	path := fmt.Sprintf("/cart/items/%s/quantity", itemID)
	resp, err := c.do(ctx, http.MethodPatch, path, nil, userID, updateQuantityRequest{Quantity: quantity})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, parseCartError(resp)
	}
	var cart models.Cart
	if err := decodeJSON(resp, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// RemoveItem deletes a line item and returns the resulting cart.
func (c *CartClient) RemoveItem(ctx context.Context, userID, itemID string) (*models.Cart, error) {
	resp, err := c.do(ctx, http.MethodDelete, "/cart/items/"+itemID, nil, userID, nil)
	if err != nil {
		return nil, err
	}
	var cart models.Cart
	if err := decodeJSON(resp, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// Clear empties the cart server-side.
func (c *CartClient) Clear(ctx context.Context, userID string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/cart/clear", nil, userID, nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil)
}

// parseCartError classifies a cart API failure body. Only a payload whose
// error tag is one of the known conflict kinds, with the fields that kind
// requires, becomes a StockConflictError; everything else degrades to a
// generic APIError so malformed conflicts never drive state corrections.
func parseCartError(resp *http.Response) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Status: resp.StatusCode}
	}

	var conflict StockConflictError
	if err := json.Unmarshal(body, &conflict); err != nil {
		return &APIError{Status: resp.StatusCode}
	}

	switch conflict.Kind {
	case ConflictOutOfStock:
		conflict.AvailableStock = 0
		if conflict.Action == "" {
			conflict.Action = models.ActionRemove
		}
	case ConflictProductUnavailable:
		// carries no stock numbers; the item is simply gone.
	case ConflictInsufficientStock:
		if conflict.AvailableStock <= 0 {
			return &APIError{Status: resp.StatusCode, Message: conflict.Message}
		}
		if conflict.Action == "" {
			conflict.Action = models.ActionReduceQuantity
		}
	default:
		apiErr := &APIError{Status: resp.StatusCode, Message: conflict.Message}
		if apiErr.Message == "" {
			apiErr.Message = string(conflict.Kind)
		}
		return apiErr
	}

	if conflict.Message == "" {
		conflict.Message = "Stock changed for an item in your cart"
	}
	return &conflict
}
