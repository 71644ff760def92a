package api

import (
	"net/http"                    // HTTP status codes
	"shop_system/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// Request struct for category creation and renames
type CategoryRequest struct {
	Name string `json:"name" binding:"required"` // Category name must be provided
}

// Listing entry carrying the category plus its product count
type CategoryWithCount struct {
	ID           uint   `json:"id"`           // Category ID
	Name         string `json:"name"`         // Category name
	ProductCount int64  `json:"productCount"` // Number of products referencing it
}

// ListCategoriesHandler returns all categories with their product counts
func ListCategoriesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Single grouped query instead of one count per category
		var rows []CategoryWithCount
		if err := db.Model(&domain.Category{}).
			Select("categories.id, categories.name, COUNT(products.id) as product_count").
			Joins("LEFT JOIN products ON products.category_id = categories.id").
			Group("categories.id, categories.name").
			Order("categories.id").
			Scan(&rows).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
			return
		}
		// Scan leaves nil for an empty table; the client expects an array
		if rows == nil {
			rows = []CategoryWithCount{}
		}
		c.JSON(http.StatusOK, rows) // Return all categories
	}
}

// CreateCategoryHandler creates a category (admin only)
func CreateCategoryHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CategoryRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category name is required"})
			return
		}
		category := domain.Category{Name: req.Name} // New category row
		// Attempt to create; the unique index rejects duplicates
		if err := db.Create(&category).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category already exists"})
			return
		}
		invalidateProductCache(rdb)          // Listings embed category names
		c.JSON(http.StatusCreated, category) // Return the new category
	}
}

// UpdateCategoryHandler renames a category (admin only)
func UpdateCategoryHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")          // Category ID from path
		var category domain.Category // Load the existing category
		if err := db.First(&category, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		var req CategoryRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category name is required"})
			return
		}
		// Attempt the rename; the unique index rejects duplicates
		if err := db.Model(&category).Update("name", req.Name).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category name already exists"})
			return
		}
		invalidateProductCache(rdb)     // Listings embed category names
		c.JSON(http.StatusOK, category) // Return the renamed category
	}
}

// DeleteCategoryHandler removes a category (admin only). Deletion fails
// while products still reference the category; nothing is cascaded or
// orphaned.
func DeleteCategoryHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")          // Category ID from path
		var category domain.Category // Load the existing category
		if err := db.First(&category, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		// Refuse while products reference it. The FK RESTRICT constraint is
		// the backstop; the explicit check produces a usable message.
		var productCount int64
		if err := db.Model(&domain.Product{}).Where("category_id = ?", category.ID).Count(&productCount).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
			return
		}
		if productCount > 0 {
			// Deletion is blocked, both entities stay
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category still has products attached"})
			return
		}
		// Delete the empty category
		if err := db.Delete(&category).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"category_id": category.ID, // Target category
				"error":       err.Error(), // Error message
			}).Error("Failed to delete category")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
			return
		}
		invalidateProductCache(rdb) // Listings embed category names
		c.Status(http.StatusNoContent)
	}
}
