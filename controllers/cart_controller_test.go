package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	cartpkg "storefront-service/cart"
	"storefront-service/clients"
	"storefront-service/logger"
	"storefront-service/models"
	"storefront-service/notifications"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()
	zap.ReplaceGlobals(logger.Log)
	os.Exit(m.Run())
}

type fakeCartAPI struct {
	cart      models.Cart
	updateErr error
	removeErr error
}

func (f *fakeCartAPI) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	c := f.cart.Clone()
	return &c, nil
}

func (f *fakeCartAPI) AddItem(ctx context.Context, userID string, req clients.AddItemRequest) (*clients.AddItemResponse, error) {
	resp := &clients.AddItemResponse{Success: true, Message: "Added to cart"}
	resp.CartItem.ID = "li-new"
	resp.CartItem.Quantity = req.Quantity
	return resp, nil
}

func (f *fakeCartAPI) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (*models.Cart, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	c := f.cart.Clone()
	return &c, nil
}

func (f *fakeCartAPI) RemoveItem(ctx context.Context, userID, itemID string) (*models.Cart, error) {
	if f.removeErr != nil {
		return nil, f.removeErr
	}
	return &models.Cart{Items: []models.CartLineItem{}}, nil
}

func (f *fakeCartAPI) Clear(ctx context.Context, userID string) error {
	return nil
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, string, string, string) {}

func newTestRedisClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: "localhost:0",
		Dialer: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return nil, errors.New("redis disabled in tests")
		},
	})
}

func seededCartItem() models.CartLineItem {
	item := models.CartLineItem{
		ID:              "li-1",
		ProductID:       "p-1",
		Name:            "Hoodie",
		DiscountedPrice: 50,
		OriginalPrice:   60,
		StockName:       "M",
		StockInfo:       models.StockInfo{AvailableStock: 20},
	}
	return cartpkg.RevalidateItem(item, 2)
}

func newCartRouter(api *fakeCartAPI) *gin.Engine {
	store := cartpkg.NewStore(api, noopNotifier{}, nil, time.Second)
	feed := notifications.NewFeed(newTestRedisClient(), time.Hour)
	controller := NewCartController(store, feed)

	router := gin.New()
	authed := router.Group("/")
	authed.Use(testAuth())
	authed.GET("/cart", controller.GetCart)
	authed.POST("/cart/add", controller.AddToCart)
	authed.PATCH("/cart/items/:id/quantity", controller.UpdateQuantity)
	authed.DELETE("/cart/items/:id", controller.RemoveItem)
	authed.DELETE("/cart/clear", controller.ClearCart)
	return router
}

func testAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.GetHeader("X-User-ID"); userID != "" {
			c.Set("userID", userID)
		}
		c.Next()
	}
}

func TestGetCartReturnsSnapshot(t *testing.T) {
	api := &fakeCartAPI{cart: models.Cart{Items: []models.CartLineItem{seededCartItem()}}}
	api.cart.Summary = cartpkg.ComputeSummary(api.cart.Items)
	router := newCartRouter(api)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set("X-User-ID", "user-1")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, recorder.Code)
	}

	var body struct {
		Cart models.Cart `json:"cart"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Cart.Items) != 1 || body.Cart.Items[0].ID != "li-1" {
		t.Fatalf("unexpected cart items: %+v", body.Cart.Items)
	}
	if body.Cart.Summary.TotalItems != 2 {
		t.Fatalf("expected total items 2, got %d", body.Cart.Summary.TotalItems)
	}
}

func TestGetCartUnauthorized(t *testing.T) {
	router := newCartRouter(&fakeCartAPI{})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, recorder.Code)
	}
}

func TestAddToCartInvalidPayload(t *testing.T) {
	router := newCartRouter(&fakeCartAPI{})

	req := httptest.NewRequest(http.MethodPost, "/cart/add", strings.NewReader(`{"quantity":2}`))
	req.Header.Set("X-User-ID", "user-1")
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, recorder.Code)
	}
}

func TestUpdateQuantityConflictReturnsCorrectedCart(t *testing.T) {
	api := &fakeCartAPI{
		cart: models.Cart{Items: []models.CartLineItem{seededCartItem()}},
		updateErr: &clients.StockConflictError{
			Kind:           clients.ConflictInsufficientStock,
			Message:        "only 1 left",
			AvailableStock: 1,
			Action:         models.ActionReduceQuantity,
		},
	}
	api.cart.Summary = cartpkg.ComputeSummary(api.cart.Items)
	router := newCartRouter(api)

	req := httptest.NewRequest(http.MethodPatch, "/cart/items/li-1/quantity", strings.NewReader(`{"quantity":5}`))
	req.Header.Set("X-User-ID", "user-1")
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusConflict {
		t.Fatalf("expected status %d, got %d", http.StatusConflict, recorder.Code)
	}

	var body struct {
		Error string      `json:"error"`
		Cart  models.Cart `json:"cart"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Error != "INSUFFICIENT_STOCK" {
		t.Fatalf("expected INSUFFICIENT_STOCK, got %q", body.Error)
	}
	if len(body.Cart.Items) != 1 || body.Cart.Items[0].Quantity != 1 {
		t.Fatalf("expected corrected quantity 1, got %+v", body.Cart.Items)
	}
	if body.Cart.Summary.OverallStatus != models.CartRequiresAction {
		t.Fatalf("expected requires_action, got %s", body.Cart.Summary.OverallStatus)
	}
}

func TestUpdateQuantityZeroRemovesItem(t *testing.T) {
	api := &fakeCartAPI{cart: models.Cart{Items: []models.CartLineItem{seededCartItem()}}}
	api.cart.Summary = cartpkg.ComputeSummary(api.cart.Items)
	router := newCartRouter(api)

	req := httptest.NewRequest(http.MethodPatch, "/cart/items/li-1/quantity", strings.NewReader(`{"quantity":0}`))
	req.Header.Set("X-User-ID", "user-1")
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, recorder.Code, recorder.Body.String())
	}

	var body struct {
		Cart models.Cart `json:"cart"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", body.Cart.Items)
	}
	if body.Cart.Summary.CheckoutMessage != "Your cart is empty" {
		t.Fatalf("unexpected checkout message %q", body.Cart.Summary.CheckoutMessage)
	}
}

func TestUpdateQuantityUnknownItem(t *testing.T) {
	api := &fakeCartAPI{cart: models.Cart{Items: []models.CartLineItem{}}}
	router := newCartRouter(api)

	req := httptest.NewRequest(http.MethodPatch, "/cart/items/missing/quantity", strings.NewReader(`{"quantity":2}`))
	req.Header.Set("X-User-ID", "user-1")
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, recorder.Code)
	}
}
