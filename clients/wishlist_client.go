package clients

import (
	"context"
	"net/http"
	"time"

	"storefront-service/models"
)

// WishlistClient talks to the remote wishlist API.
type WishlistClient struct {
	baseClient
}

func NewWishlistClient(baseURL string, timeout time.Duration) *WishlistClient {
	return &WishlistClient{baseClient: newBaseClient(baseURL, timeout)}
}

func (c *WishlistClient) List(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	resp, err := c.do(ctx, http.MethodGet, "/wishlist", nil, userID, nil)
	if err != nil {
		return nil, err
	}
	var out []models.WishlistItem
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *WishlistClient) Toggle(ctx context.Context, userID, productID string) (*models.WishlistToggleResult, error) {
	body := map[string]string{"product_id": productID}
	resp, err := c.do(ctx, http.MethodPost, "/wishlist/toggle", nil, userID, body)
	if err != nil {
		return nil, err
	}
	var out models.WishlistToggleResult
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
