package api

import (
	"errors"                      // Error comparison
	"net/http"                    // HTTP status codes
	"shop_system/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Request struct for adding a product to the cart
type AddCartItemRequest struct {
	ProductID uint `json:"productId" binding:"required"`      // Product to add
	Quantity  int  `json:"quantity" binding:"required,min=1"` // Always >= 1
}

// Request struct for changing a cart line's quantity
type SetQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"` // Always >= 1
}

// loadCart fetches the user's cart with items, products, categories and
// images attached. Returns gorm.ErrRecordNotFound when no cart row exists.
func loadCart(db *gorm.DB, userID uint) (*domain.Cart, error) {
	var cart domain.Cart
	err := db.Preload("Items.Product.Category").
		Preload("Items.Product.Images").
		Preload("Items").
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	// Preload leaves nil for a cart with no rows left
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}
	return &cart, nil
}

// respondWithCart reloads and returns the full cart after a mutation,
// keeping every mutation read-after-write consistent
func respondWithCart(c *gin.Context, db *gorm.DB, userID uint) {
	cart, err := loadCart(db, userID) // Reload the cart
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}
	c.JSON(http.StatusOK, cart) // Return the reloaded cart
}

// GetCartHandler returns the caller's cart. A user without a cart row
// gets an empty items list; reading never creates the cart.
func GetCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Get subject ID from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		cart, err := loadCart(db, userID) // Load the cart with relations
		if err != nil {
			// No cart yet: respond with empty items, do not create one
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusOK, gin.H{"items": []domain.CartItem{}})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, cart) // Return the cart
	}
}

// AddCartItemHandler puts a product into the cart. The cart is created
// lazily on first use. If the product is already present its quantity is
// overwritten with the requested value, not accumulated.
func AddCartItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Get subject ID from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req AddCartItemRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product or quantity"})
			return
		}
		// The product must exist
		var product domain.Product
		if err := db.First(&product, req.ProductID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		// Find or lazily create the user's cart
		var cart domain.Cart
		if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
				return
			}
			cart = domain.Cart{UserID: userID} // First add creates the cart
			if err := db.Create(&cart).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create cart"})
				return
			}
		}
		// Overwrite the quantity when the product is already in the cart
		var item domain.CartItem
		err := db.Where("cart_id = ? AND product_id = ?", cart.ID, req.ProductID).First(&item).Error
		if err == nil {
			// Existing line: overwrite, not add
			if err := db.Model(&item).Update("quantity", req.Quantity).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
				return
			}
		} else if errors.Is(err, gorm.ErrRecordNotFound) {
			// New line for this product
			item = domain.CartItem{CartID: cart.ID, ProductID: req.ProductID, Quantity: req.Quantity}
			if err := db.Create(&item).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
				return
			}
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart item"})
			return
		}
		// Log the mutation
		logrus.WithFields(logrus.Fields{
			"user_id":    userID,        // Cart owner
			"product_id": req.ProductID, // Added product
			"quantity":   req.Quantity,  // Resulting quantity
		}).Info("Cart item set")
		respondWithCart(c, db, userID) // Return the reloaded cart
	}
}

// UpdateCartItemHandler sets the quantity of a cart line. Fails with
// NotFound when the item does not belong to the caller's cart.
func UpdateCartItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Get subject ID from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req SetQuantityRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quantity"})
			return
		}
		// The item must exist and belong to the caller's cart
		var item domain.CartItem
		if err := db.Joins("JOIN carts ON carts.id = cart_items.cart_id").
			Where("cart_items.id = ? AND carts.user_id = ?", c.Param("itemId"), userID).
			First(&item).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}
		// Apply the new quantity
		if err := db.Model(&item).Update("quantity", req.Quantity).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
			return
		}
		respondWithCart(c, db, userID) // Return the reloaded cart
	}
}

// RemoveCartItemHandler deletes a cart line. Fails with NotFound when
// the item is absent or owned by another user; the caller's cart is
// untouched in that case.
func RemoveCartItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Get subject ID from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		// The item must exist and belong to the caller's cart
		var item domain.CartItem
		if err := db.Joins("JOIN carts ON carts.id = cart_items.cart_id").
			Where("cart_items.id = ? AND carts.user_id = ?", c.Param("itemId"), userID).
			First(&item).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}
		// Removal deletes the row rather than zeroing the quantity
		if err := db.Delete(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove cart item"})
			return
		}
		respondWithCart(c, db, userID) // Return the reloaded cart
	}
}
