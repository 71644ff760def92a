package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"shop_system/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCategoriesWithProductCounts(t *testing.T) {
	env := newTestEnv(t)
	env.createProduct(t, "Blue Shirt", 12.00, "Clothing")
	env.createProduct(t, "Red Shirt", 18.50, "Clothing")
	var empty = domain.Category{Name: "Empty"}
	require.NoError(t, env.db.Create(&empty).Error)

	w := env.do(t, http.MethodGet, "/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rows []CategoryWithCount
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	counts := map[string]int64{}
	for _, row := range rows {
		counts[row.Name] = row.ProductCount
	}
	assert.Equal(t, int64(2), counts["Clothing"])
	assert.Equal(t, int64(0), counts["Empty"])
}

func TestCreateCategoryRejectsDuplicates(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.adminToken(t)

	w := env.do(t, http.MethodPost, "/categories", adminToken, gin.H{"name": "Clothing"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, "/categories", adminToken, gin.H{"name": "Clothing"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Missing name
	w = env.do(t, http.MethodPost, "/categories", adminToken, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Admin only
	userToken := env.registerUser(t, "shopper@example.com")
	w = env.do(t, http.MethodPost, "/categories", userToken, gin.H{"name": "Other"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateCategory(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.adminToken(t)
	category := domain.Category{Name: "Clothing"}
	require.NoError(t, env.db.Create(&category).Error)

	w := env.do(t, http.MethodPut, "/categories/"+itoa(category.ID), adminToken, gin.H{"name": "Apparel"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Apparel", decode(t, w)["name"])

	w = env.do(t, http.MethodPut, "/categories/9999", adminToken, gin.H{"name": "Ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteCategoryBlockedWhileReferenced(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.adminToken(t)
	product := env.createProduct(t, "Blue Shirt", 12.00, "Clothing")
	var category domain.Category
	require.NoError(t, env.db.Where("name = ?", "Clothing").First(&category).Error)

	// Deletion fails and neither entity is removed
	w := env.do(t, http.MethodDelete, "/categories/"+itoa(category.ID), adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var categoryCount, productCount int64
	require.NoError(t, env.db.Model(&domain.Category{}).Count(&categoryCount).Error)
	require.NoError(t, env.db.Model(&domain.Product{}).Count(&productCount).Error)
	assert.Equal(t, int64(1), categoryCount)
	assert.Equal(t, int64(1), productCount)

	// Once the product is gone the category can be deleted
	w = env.do(t, http.MethodDelete, "/products/"+itoa(product.ID), adminToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = env.do(t, http.MethodDelete, "/categories/"+itoa(category.ID), adminToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
