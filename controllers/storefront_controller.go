package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront-service/cache"
	"storefront-service/clients"
	"storefront-service/middleware"
	"storefront-service/models"
)

// StorefrontController serves product browsing and the wishlist.
type StorefrontController struct {
	catalog  *clients.CatalogClient
	wishlist *clients.WishlistClient
	cache    *cache.CatalogCache
}

func NewStorefrontController(catalog *clients.CatalogClient, wishlist *clients.WishlistClient, catalogCache *cache.CatalogCache) *StorefrontController {
	return &StorefrontController{catalog: catalog, wishlist: wishlist, cache: catalogCache}
}

func (sc *StorefrontController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetProducts returns a filtered, paginated product page.
func (sc *StorefrontController) GetProducts(c *gin.Context) {
	params, err := parseListParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if cached, ok := sc.cache.GetProductList(c.Request.Context(), params); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	page, err := sc.catalog.ListProducts(c.Request.Context(), params)
	if err != nil {
		zap.L().Error("Failed to list products", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load products"})
		return
	}

	sc.cache.SetProductListAsync(params, page)
	c.JSON(http.StatusOK, page)
}

// GetProduct returns one product.
func (sc *StorefrontController) GetProduct(c *gin.Context) {
	product, err := sc.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load product"})
		return
	}
	c.JSON(http.StatusOK, product)
}

// GetCategories returns the category tree. Failures degrade to an empty
// list; the storefront renders without the category rail.
func (sc *StorefrontController) GetCategories(c *gin.Context) {
	if cached, ok := sc.cache.GetCategories(c.Request.Context()); ok {
		c.JSON(http.StatusOK, gin.H{"categories": cached})
		return
	}

	categories, err := sc.catalog.ListCategories(c.Request.Context())
	if err != nil {
		zap.L().Warn("Failed to load categories, degrading to empty list", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"categories": []models.Category{}})
		return
	}

	sc.cache.SetCategoriesAsync(categories)
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// Home aggregates the storefront landing data: first product page plus
// categories, fetched in parallel.
func (sc *StorefrontController) Home(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := parseListParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if params.Limit == 0 {
		params.Limit = 12
	}

	type productsResult struct {
		page *models.ProductListResponse
		err  error
	}
	type categoriesResult struct {
		categories []models.Category
		err        error
	}

	productsCh := make(chan productsResult, 1)
	categoriesCh := make(chan categoriesResult, 1)

	go func() {
		if cached, ok := sc.cache.GetProductList(ctx, params); ok {
			productsCh <- productsResult{page: cached}
			return
		}
		page, err := sc.catalog.ListProducts(ctx, params)
		if err == nil {
			sc.cache.SetProductListAsync(params, page)
		}
		productsCh <- productsResult{page: page, err: err}
	}()

	go func() {
		if cached, ok := sc.cache.GetCategories(ctx); ok {
			categoriesCh <- categoriesResult{categories: cached}
			return
		}
		categories, err := sc.catalog.ListCategories(ctx)
		if err == nil {
			sc.cache.SetCategoriesAsync(categories)
		}
		categoriesCh <- categoriesResult{categories: categories, err: err}
	}()

	products := <-productsCh
	categories := <-categoriesCh

	if products.err != nil {
		zap.L().Error("Failed to load home data", zap.Error(products.err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load home data"})
		return
	}
	// Category failure is non-critical; the page renders without the rail.
	if categories.err != nil {
		zap.L().Warn("Home: categories unavailable", zap.Error(categories.err))
		categories.categories = []models.Category{}
	}

	c.JSON(http.StatusOK, gin.H{
		"products":   products.page,
		"categories": categories.categories,
		"timestamp":  time.Now().UTC(),
	})
}

// GetWishlist returns the user's wishlist, degrading to an empty list when
// the wishlist service is unavailable.
func (sc *StorefrontController) GetWishlist(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	items, err := sc.wishlist.List(c.Request.Context(), userID)
	if err != nil {
		zap.L().Warn("Failed to load wishlist, degrading to empty list",
			zap.String("user_id", userID), zap.Error(err))
		items = []models.WishlistItem{}
	}

	c.JSON(http.StatusOK, gin.H{"wishlist": items})
}

type wishlistToggleRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// ToggleWishlist adds or removes a product from the wishlist.
func (sc *StorefrontController) ToggleWishlist(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req wishlistToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	result, err := sc.wishlist.Toggle(c.Request.Context(), userID, req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to update wishlist"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// parseListParams extracts browse filters from the query string. Invalid
// numerics are a client error, not something to guess around.
func parseListParams(c *gin.Context) (models.ProductListParams, error) {
	params := models.ProductListParams{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Sort:     c.Query("sort"),
	}

	if sizes := c.Query("sizes"); sizes != "" {
		params.Sizes = strings.Split(sizes, ",")
	}

	if raw := c.Query("minPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return params, errInvalidParam("minPrice")
		}
		params.MinPrice = &v
	}
	if raw := c.Query("maxPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return params, errInvalidParam("maxPrice")
		}
		params.MaxPrice = &v
	}
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return params, errInvalidParam("limit")
		}
		params.Limit = v
	}
	if raw := c.Query("offset"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return params, errInvalidParam("offset")
		}
		params.Offset = v
	}

	return params, nil
}

type invalidParamError struct {
	name string
}

func (e invalidParamError) Error() string {
	return "invalid query parameter: " + e.name
}

func errInvalidParam(name string) error {
	return invalidParamError{name: name}
}
