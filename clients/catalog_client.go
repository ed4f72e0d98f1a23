package clients

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront-service/models"
)

// CatalogClient talks to the remote product/category API.
type CatalogClient struct {
	baseClient
}

func NewCatalogClient(baseURL string, timeout time.Duration) *CatalogClient {
	return &CatalogClient{baseClient: newBaseClient(baseURL, timeout)}
}

// ListProducts fetches a filtered, paginated product page.
func (c *CatalogClient) ListProducts(ctx context.Context, params models.ProductListParams) (*models.ProductListResponse, error) {
	query := url.Values{}
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	if params.Category != "" {
		query.Set("category", params.Category)
	}
	if params.Sort != "" {
		query.Set("sort", params.Sort)
	}
	if len(params.Sizes) > 0 {
		query.Set("sizes", strings.Join(params.Sizes, ","))
	}
	if params.MinPrice != nil {
		query.Set("minPrice", strconv.FormatFloat(*params.MinPrice, 'f', -1, 64))
	}
	if params.MaxPrice != nil {
		query.Set("maxPrice", strconv.FormatFloat(*params.MaxPrice, 'f', -1, 64))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		query.Set("offset", strconv.Itoa(params.Offset))
	}

	resp, err := c.do(ctx, http.MethodGet, "/products", query, "", nil)
	if err != nil {
		return nil, err
	}
	var out models.ProductListResponse
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CatalogClient) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	resp, err := c.do(ctx, http.MethodGet, "/products/"+productID, nil, "", nil)
	if err != nil {
		return nil, err
	}
	var out models.Product
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *CatalogClient) ListCategories(ctx context.Context) ([]models.Category, error) {
	resp, err := c.do(ctx, http.MethodGet, "/categories", nil, "", nil)
	if err != nil {
		return nil, err
	}
	var out []models.Category
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	return out, nil
}
