package api

import (
	"errors"                      // Error comparison
	"net/http"                    // HTTP status codes
	"shop_system/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Request struct for the admin status update
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"` // New order status
}

// loadOrder fetches an order with items, product details and the owning
// user attached
func loadOrder(db *gorm.DB, id any) (*domain.Order, error) {
	var order domain.Order
	err := db.Preload("Items.Product.Category").
		Preload("Items.Product.Images").
		Preload("User").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateOrderHandler converts the caller's cart into an immutable order.
// The order insert and the cart clear commit in one transaction, so a
// failure between them can never leave an order behind with a full cart.
func CreateOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Get subject ID from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var order domain.Order // Created inside the transaction
		err := db.Transaction(func(tx *gorm.DB) error {
			// Load the cart with current product prices
			var cart domain.Cart
			if err := tx.Preload("Items.Product").Where("user_id = ?", userID).First(&cart).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errEmptyCart // No cart at all counts as empty
				}
				return err
			}
			// An existing but empty cart is equally rejected
			if len(cart.Items) == 0 {
				return errEmptyCart
			}
			// Capture current prices into the order lines; later product
			// edits never touch these rows
			total := 0.0
			items := make([]domain.OrderItem, len(cart.Items))
			for i, line := range cart.Items {
				items[i] = domain.OrderItem{
					ProductID: line.ProductID,     // Referenced product
					Quantity:  line.Quantity,      // Purchased quantity
					Price:     line.Product.Price, // Price frozen at this moment
				}
				total += line.Product.Price * float64(line.Quantity) // Accumulate total
			}
			order = domain.Order{
				UserID: userID,                    // Owning user
				Total:  total,                     // Captured total, never recomputed
				Status: domain.OrderStatusPending, // Every order starts pending
				Items:  items,                     // Order lines created alongside
			}
			// Insert the order with its items
			if err := tx.Create(&order).Error; err != nil {
				return err // Return error to rollback
			}
			// Empty the cart atomically with the order insert
			if err := tx.Where("cart_id = ?", cart.ID).Delete(&domain.CartItem{}).Error; err != nil {
				return err // Return error to rollback
			}
			return nil // Commit transaction
		})
		// Handle transaction result
		if err != nil {
			// Empty cart is a client error, not a server failure
			if errors.Is(err, errEmptyCart) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
				return
			}
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // Order owner
				"error":   err.Error(), // Error message
			}).Error("Order creation failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating order"})
			return
		}
		// Log the conversion
		logrus.WithFields(logrus.Fields{
			"user_id":  userID,   // Order owner
			"order_id": order.ID, // New order
			"total":    order.Total,
		}).Info("Order created")
		// Return the order with full relations attached
		full, err := loadOrder(db, order.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating order"})
			return
		}
		c.JSON(http.StatusCreated, full)
	}
}

// errEmptyCart distinguishes the empty-cart rejection from real
// transaction failures
var errEmptyCart = errors.New("cart is empty")

// ListOrdersHandler returns paginated orders, newest first. Users see
// only their own orders; admins see everyone's.
func ListOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Get subject ID from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		page, limit := pageParams(c, 10) // Default page size for order history
		query := db.Model(&domain.Order{})
		// Non-admins are scoped to their own orders
		if !currentIsAdmin(c) {
			query = query.Where("user_id = ?", userID)
		}
		var total int64 // Total count for pagination
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching orders"})
			return
		}
		offset := (page - 1) * limit // Calculate offset
		var orders []domain.Order
		// Fetch the page with relations preloaded, newest first
		if err := query.Preload("Items.Product.Category").
			Preload("Items.Product.Images").
			Preload("User").
			Order("created_at desc").
			Offset(offset).
			Limit(limit).
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching orders"})
			return
		}
		totalPages := (int(total) + limit - 1) / limit // Calculate total pages
		// Return the page
		c.JSON(http.StatusOK, gin.H{
			"orders": orders, // Page of orders
			"pagination": gin.H{
				"total":      total,      // Total orders visible to the caller
				"page":       page,       // Current page
				"totalPages": totalPages, // Total pages
			},
		})
	}
}

// GetOrderHandler returns a single order. Only the owner or an admin may
// view it.
func GetOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Get subject ID from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		order, err := loadOrder(db, c.Param("id")) // Load with relations
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		// Owner or admin only
		if !currentIsAdmin(c) && order.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to view this order"})
			return
		}
		c.JSON(http.StatusOK, order) // Return the order
	}
}

// CancelOrderHandler cancels an order. Permitted for the owning user or
// an admin; an order that is already DELIVERED or CANCELLED stays as it
// is and the request is rejected.
func CancelOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Get subject ID from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var order domain.Order // Load the order
		if err := db.First(&order, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		// Owner or admin only; status stays untouched for strangers
		if !currentIsAdmin(c) && order.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to cancel this order"})
			return
		}
		// Terminal orders cannot be cancelled
		if order.Status == domain.OrderStatusDelivered || order.Status == domain.OrderStatusCancelled {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Order is already " + order.Status})
			return
		}
		// Apply the cancellation
		if err := db.Model(&order).Update("status", domain.OrderStatusCancelled).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error cancelling order"})
			return
		}
		// Log the cancellation
		logrus.WithFields(logrus.Fields{
			"order_id": order.ID, // Cancelled order
			"user_id":  userID,   // Acting subject
		}).Info("Order cancelled")
		// Return the order with full relations
		full, err := loadOrder(db, order.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error cancelling order"})
			return
		}
		c.JSON(http.StatusOK, full)
	}
}

// UpdateOrderStatusHandler overwrites an order's status (admin only).
// The status must be one of the five enum values; beyond that there is
// no transition table, matching the storefront's operational model.
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateStatusRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// The status must be a known enum value
		if !domain.ValidOrderStatus(req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order status"})
			return
		}
		var order domain.Order // Load the order
		if err := db.First(&order, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		// Overwrite unconditionally
		if err := db.Model(&order).Update("status", req.Status).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating order"})
			return
		}
		// Log the status change
		logrus.WithFields(logrus.Fields{
			"order_id": order.ID,   // Updated order
			"status":   req.Status, // New status
		}).Info("Order status updated")
		// Return the order with full relations
		full, err := loadOrder(db, order.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating order"})
			return
		}
		c.JSON(http.StatusOK, full)
	}
}

// DeleteOrderHandler hard-deletes an order and its items (admin only).
// Irreversible, no archival.
func DeleteOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var order domain.Order // Load the order
		if err := db.First(&order, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		// Items and order go together or not at all
		err := db.Transaction(func(tx *gorm.DB) error {
			// Delete order items first
			if err := tx.Where("order_id = ?", order.ID).Delete(&domain.OrderItem{}).Error; err != nil {
				return err // Return error to rollback
			}
			// Then delete the order
			if err := tx.Delete(&order).Error; err != nil {
				return err // Return error to rollback
			}
			return nil // Commit transaction
		})
		// Handle transaction result
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"order_id": order.ID,    // Target order
				"error":    err.Error(), // Error message
			}).Error("Order deletion failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting order"})
			return
		}
		// Log the hard delete
		logrus.WithFields(logrus.Fields{"order_id": order.ID}).Info("Order deleted")
		c.Status(http.StatusNoContent)
	}
}
