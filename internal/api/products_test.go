package api

import (
	"net/http"
	"net/url"
	"testing"

	"shop_system/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCatalog(t *testing.T, env *testEnv) {
	t.Helper()
	env.createProduct(t, "Blue Shirt", 12.00, "Clothing")
	env.createProduct(t, "Red SHIRT", 18.50, "Clothing")
	env.createProduct(t, "Mug", 8.00, "Home")
	env.createProduct(t, "Lamp", 25.00, "Home")
}

func TestListProductsPriceWindow(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(t, env)

	w := env.do(t, http.MethodGet, "/products?minPrice=10&maxPrice=20", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	products := decode(t, w)["products"].([]any)
	require.Len(t, products, 2)
	for _, p := range products {
		price := p.(map[string]any)["price"].(float64)
		assert.GreaterOrEqual(t, price, 10.0)
		assert.LessOrEqual(t, price, 20.0)
	}

	// Bounds are inclusive
	w = env.do(t, http.MethodGet, "/products?minPrice=8&maxPrice=8", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	products = decode(t, w)["products"].([]any)
	require.Len(t, products, 1)
	assert.Equal(t, "Mug", products[0].(map[string]any)["title"])
}

func TestListProductsSearchIsCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(t, env)

	w := env.do(t, http.MethodGet, "/products?search=shirt", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	products := decode(t, w)["products"].([]any)
	require.Len(t, products, 2)

	// Filters combine
	w = env.do(t, http.MethodGet, "/products?search=shirt&maxPrice=15", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	products = decode(t, w)["products"].([]any)
	require.Len(t, products, 1)
	assert.Equal(t, "Blue Shirt", products[0].(map[string]any)["title"])
}

func TestListProductsCategoryFilterAndPagination(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(t, env)
	var home domain.Category
	require.NoError(t, env.db.Where("name = ?", "Home").First(&home).Error)

	w := env.do(t, http.MethodGet, "/products?category="+itoa(home.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Len(t, body["products"].([]any), 2)

	// Page size one yields two pages
	w = env.do(t, http.MethodGet, "/products?category="+itoa(home.ID)+"&limit=1&page=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Len(t, body["products"].([]any), 1)
	pagination := body["pagination"].(map[string]any)
	assert.Equal(t, float64(2), pagination["total"])
	assert.Equal(t, float64(2), pagination["page"])
	assert.Equal(t, float64(2), pagination["totalPages"])
}

func TestListProductsCacheInvalidation(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.adminToken(t)
	env.createProduct(t, "Mug", 8.00, "Home")
	var home domain.Category
	require.NoError(t, env.db.Where("name = ?", "Home").First(&home).Error)

	// First read misses the cache, second read hits it
	w := env.do(t, http.MethodGet, "/products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["cached"])
	w = env.do(t, http.MethodGet, "/products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["cached"])

	// A catalog mutation drops the cached pages
	w = env.do(t, http.MethodPost, "/products", adminToken, gin.H{
		"title":      "Lamp",
		"price":      25.0,
		"categoryId": home.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = env.do(t, http.MethodGet, "/products", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["cached"])
	assert.Len(t, body["products"].([]any), 2)
}

func TestListProductsCacheKeySeparatesFilterValues(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(t, env)

	// A filter value that spells out the serialized form of other filters
	// must not share a cache entry with that real combination
	crafted := url.QueryEscape("X:min=:max=:q=shirt")
	w := env.do(t, http.MethodGet, "/products?category="+crafted, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	// A non-numeric category value applies no filter
	assert.Len(t, decode(t, w)["products"].([]any), 4)

	w = env.do(t, http.MethodGet, "/products?category=X&search=shirt", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["cached"])
	assert.Len(t, body["products"].([]any), 2)
}

func TestGetProductDetailAndNotFound(t *testing.T) {
	env := newTestEnv(t)
	product := env.createProduct(t, "Mug", 8.00, "Home")

	w := env.do(t, http.MethodGet, "/products/"+itoa(product.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Mug", body["title"])
	assert.Equal(t, "Home", body["category"].(map[string]any)["name"])
	assert.NotEmpty(t, body["images"])

	w = env.do(t, http.MethodGet, "/products/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductWritesRequireAdmin(t *testing.T) {
	env := newTestEnv(t)
	userToken := env.registerUser(t, "shopper@example.com")
	adminToken := env.adminToken(t)
	var category = domain.Category{Name: "Clothing"}
	require.NoError(t, env.db.Create(&category).Error)

	// Anonymous and regular users are rejected
	w := env.do(t, http.MethodPost, "/products", "", gin.H{"title": "X", "price": 1.0, "categoryId": category.ID})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = env.do(t, http.MethodPost, "/products", userToken, gin.H{"title": "X", "price": 1.0, "categoryId": category.ID})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Admin create with ordered images
	w = env.do(t, http.MethodPost, "/products", adminToken, gin.H{
		"title":       "Shirt",
		"description": `{"blocks":[]}`,
		"price":       19.99,
		"categoryId":  category.ID,
		"images":      []string{"/storage/a.jpg", "/storage/b.jpg"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Len(t, body["images"].([]any), 2)
	productID := itoa(uint(body["id"].(float64)))

	// Negative price is rejected
	w = env.do(t, http.MethodPost, "/products", adminToken, gin.H{"title": "Bad", "price": -1.0, "categoryId": category.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Update replaces the image set
	w = env.do(t, http.MethodPut, "/products/"+productID, adminToken, gin.H{
		"title":      "Shirt v2",
		"price":      21.00,
		"categoryId": category.ID,
		"images":     []string{"/storage/c.jpg"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body = decode(t, w)
	assert.Equal(t, "Shirt v2", body["title"])
	images := body["images"].([]any)
	require.Len(t, images, 1)
	assert.Equal(t, "/storage/c.jpg", images[0].(map[string]any)["url"])

	// Delete removes the product and its images
	w = env.do(t, http.MethodDelete, "/products/"+productID, adminToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	var imageCount int64
	require.NoError(t, env.db.Model(&domain.Image{}).Count(&imageCount).Error)
	assert.Zero(t, imageCount)
	w = env.do(t, http.MethodDelete, "/products/"+productID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
