package api

import (
	"net/http"                    // HTTP status codes
	"shop_system/internal/domain" // Importing domain models
	"shop_system/internal/utils"  // Utility functions
	"strings"                     // String manipulation

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// Request struct for registration. The password bounds follow bcrypt's
// 72-byte input cap.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`           // Email must be a valid address
	Password string `json:"password" binding:"required,min=8,max=72"` // Password length bounds
	Name     string `json:"name" binding:"required"`                  // Display name must be provided
}

// Request struct for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"` // Email must be a valid address
	Password string `json:"password" binding:"required"`    // Password must be provided
}

// Request struct for profile updates
type UpdateProfileRequest struct {
	Name  string `json:"name"`                            // New display name
	Email string `json:"email" binding:"omitempty,email"` // New email, validated when present
}

// Request struct for password changes
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`          // Current password for verification
	NewPassword     string `json:"newPassword" binding:"required,min=8,max=72"` // Replacement password
}

// RegisterHandler creates a new user account and returns a signed token
func RegisterHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind and validate the JSON request
		if err := c.ShouldBindJSON(&req); err != nil {
			// Binding covers the email shape and password length rules
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		email := strings.ToLower(req.Email) // Store emails lowercased for uniqueness
		// Reject duplicate registrations up front for a clean message
		var existing domain.User
		if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
			return
		}
		// Hash the password and create the user
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			// If hashing fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		user := domain.User{Email: email, Password: string(hash), Name: req.Name}
		// Attempt to create the user in the database
		if err := db.Create(&user).Error; err != nil {
			// Unique index may still trip under a racing duplicate
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
			return
		}
		// Issue a token so the client is logged in immediately after registering
		token, err := utils.GenerateJWT(user.ID, false, jwtSecret)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		// Log the registration
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,    // New user ID
			"email":   user.Email, // Registered email
		}).Info("User registered")
		// Return the user (password excluded by json tag) and the token
		c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
	}
}

// LoginHandler authenticates an admin or a user and returns a JWT token.
// Admin credentials are checked first; the two identity classes live in
// separate tables and the winning one decides the token's admin flag.
func LoginHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		email := strings.ToLower(req.Email) // Normalize the email
		// Check the admin table first
		var admin domain.Admin
		if err := db.Where("email = ?", email).First(&admin).Error; err == nil {
			// Compare provided password with the stored admin hash
			if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)) == nil {
				token, err := utils.GenerateJWT(admin.ID, true, jwtSecret) // Admin token
				if err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
					return
				}
				// Return the admin identity and the token
				c.JSON(http.StatusOK, gin.H{"user": admin, "token": token})
				return
			}
		}
		var user domain.User // Fall back to the user table
		if err := db.Where("email = ?", email).First(&user).Error; err != nil {
			// If user not found, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Generate JWT token
		token, err := utils.GenerateJWT(user.ID, false, jwtSecret)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		// Return the user and the token
		c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
	}
}

// MeHandler returns the authenticated identity, resolving the admin flag
// in the token to the matching table
func MeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Get subject ID from context
		if !ok {
			// If missing, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		// Admin tokens resolve against the admin table
		if currentIsAdmin(c) {
			var admin domain.Admin
			if err := db.First(&admin, userID).Error; err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "Admin not found"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"id": admin.ID, "email": admin.Email, "name": admin.Name, "isAdmin": true})
			return
		}
		var user domain.User // Regular user lookup
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": user.ID, "email": user.Email, "name": user.Name, "isAdmin": false})
	}
}

// UpdateProfileHandler edits the caller's name and/or email
func UpdateProfileHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Get subject ID from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req UpdateProfileRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var user domain.User // Load the caller
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		// Apply email change after checking it isn't taken by someone else
		if req.Email != "" {
			email := strings.ToLower(req.Email)
			var other domain.User
			if err := db.Where("email = ?", email).First(&other).Error; err == nil && other.ID != userID {
				// Email belongs to a different account
				c.JSON(http.StatusBadRequest, gin.H{"error": "Email already in use"})
				return
			}
			user.Email = email // Accept the new email
		}
		// Apply name change
		if req.Name != "" {
			user.Name = req.Name
		}
		// Persist the update
		if err := db.Save(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
			return
		}
		c.JSON(http.StatusOK, user) // Return the updated user
	}
}

// ChangePasswordHandler verifies the current password and replaces it
func ChangePasswordHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Get subject ID from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req ChangePasswordRequest // Bind and validate the JSON request
		if err := c.ShouldBindJSON(&req); err != nil {
			// Binding covers the replacement password's length rules
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var user domain.User // Load the caller
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		// Verify the current password before accepting a new one
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
			return
		}
		// Hash the new password
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		// Persist the new hash
		if err := db.Model(&user).Update("password", string(hash)).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
	}
}

// DeleteProfileHandler removes the caller's account with all dependent
// rows: cart items, cart, order items, orders, then the user itself
func DeleteProfileHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Get subject ID from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		// The whole cascade runs in one transaction so a failure leaves the
		// account intact
		err := db.Transaction(func(tx *gorm.DB) error {
			// Delete cart items belonging to the user's cart
			if err := tx.Where("cart_id IN (?)",
				tx.Model(&domain.Cart{}).Select("id").Where("user_id = ?", userID),
			).Delete(&domain.CartItem{}).Error; err != nil {
				return err // Return error to rollback
			}
			// Delete the cart row
			if err := tx.Where("user_id = ?", userID).Delete(&domain.Cart{}).Error; err != nil {
				return err // Return error to rollback
			}
			// Delete order items belonging to the user's orders
			if err := tx.Where("order_id IN (?)",
				tx.Model(&domain.Order{}).Select("id").Where("user_id = ?", userID),
			).Delete(&domain.OrderItem{}).Error; err != nil {
				return err // Return error to rollback
			}
			// Delete the orders
			if err := tx.Where("user_id = ?", userID).Delete(&domain.Order{}).Error; err != nil {
				return err // Return error to rollback
			}
			// Finally delete the user
			if err := tx.Delete(&domain.User{}, userID).Error; err != nil {
				return err // Return error to rollback
			}
			return nil // Commit transaction
		})
		// Handle transaction result
		if err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // Deleted account
				"error":   err.Error(), // Error message
			}).Error("Account deletion failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting account"})
			return
		}
		// Log the deletion
		logrus.WithFields(logrus.Fields{"user_id": userID}).Info("Account deleted")
		c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
	}
}
