package api

import (
	"net/http"
	"testing"

	"shop_system/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCartWithoutCartRowReturnsEmptyItems(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerUser(t, "shopper@example.com")

	w := env.do(t, http.MethodGet, "/cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Empty(t, body["items"])

	// Reading must not create a cart row
	var count int64
	require.NoError(t, env.db.Model(&domain.Cart{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAddItemOverwritesQuantity(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerUser(t, "shopper@example.com")
	product := env.createProduct(t, "Shirt", 19.99, "Clothing")

	w := env.do(t, http.MethodPost, "/cart", token, gin.H{"productId": product.ID, "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Adding the same product again replaces the quantity, it does not add
	w = env.do(t, http.MethodPost, "/cart", token, gin.H{"productId": product.ID, "quantity": 5})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	items := decode(t, w)["items"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, float64(5), item["quantity"])
	// The nested product carries its category and images
	nested := item["product"].(map[string]any)
	assert.Equal(t, "Shirt", nested["title"])
	assert.Equal(t, "Clothing", nested["category"].(map[string]any)["name"])
	assert.NotEmpty(t, nested["images"])
}

func TestAddItemValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerUser(t, "shopper@example.com")
	product := env.createProduct(t, "Shirt", 19.99, "Clothing")

	// Quantity below one is rejected
	w := env.do(t, http.MethodPost, "/cart", token, gin.H{"productId": product.ID, "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown product is rejected
	w = env.do(t, http.MethodPost, "/cart", token, gin.H{"productId": 9999, "quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// No token at all
	w = env.do(t, http.MethodPost, "/cart", "", gin.H{"productId": product.ID, "quantity": 1})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSetQuantityOnOwnItem(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerUser(t, "shopper@example.com")
	product := env.createProduct(t, "Shirt", 19.99, "Clothing")

	w := env.do(t, http.MethodPost, "/cart", token, gin.H{"productId": product.ID, "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)

	var item domain.CartItem
	require.NoError(t, env.db.First(&item).Error)

	w = env.do(t, http.MethodPut, "/cart/"+itoa(item.ID), token, gin.H{"quantity": 3})
	require.Equal(t, http.StatusOK, w.Code)
	items := decode(t, w)["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, float64(3), items[0].(map[string]any)["quantity"])

	// Zero quantity is invalid, removal is a DELETE
	w = env.do(t, http.MethodPut, "/cart/"+itoa(item.ID), token, gin.H{"quantity": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveForeignItemFailsAndLeavesCartUntouched(t *testing.T) {
	env := newTestEnv(t)
	ownerToken := env.registerUser(t, "owner@example.com")
	strangerToken := env.registerUser(t, "stranger@example.com")
	product := env.createProduct(t, "Shirt", 19.99, "Clothing")

	w := env.do(t, http.MethodPost, "/cart", ownerToken, gin.H{"productId": product.ID, "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)

	var item domain.CartItem
	require.NoError(t, env.db.First(&item).Error)

	// A stranger cannot remove or edit someone else's cart line
	w = env.do(t, http.MethodDelete, "/cart/"+itoa(item.ID), strangerToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = env.do(t, http.MethodPut, "/cart/"+itoa(item.ID), strangerToken, gin.H{"quantity": 9})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// The owner's cart is unchanged
	var unchanged domain.CartItem
	require.NoError(t, env.db.First(&unchanged, item.ID).Error)
	assert.Equal(t, 2, unchanged.Quantity)

	// A nonexistent item id is NotFound as well
	w = env.do(t, http.MethodDelete, "/cart/9999", ownerToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRemoveItemDeletesRow(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerUser(t, "shopper@example.com")
	product := env.createProduct(t, "Shirt", 19.99, "Clothing")

	w := env.do(t, http.MethodPost, "/cart", token, gin.H{"productId": product.ID, "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)

	var item domain.CartItem
	require.NoError(t, env.db.First(&item).Error)

	w = env.do(t, http.MethodDelete, "/cart/"+itoa(item.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["items"])

	var count int64
	require.NoError(t, env.db.Model(&domain.CartItem{}).Count(&count).Error)
	assert.Zero(t, count)
}
