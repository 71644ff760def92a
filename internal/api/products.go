package api

import (
	"context"                     // Context for Redis operations
	"net/http"                    // HTTP status codes
	"net/url"                     // Cache key encoding
	"shop_system/internal/domain" // Importing domain models
	"shop_system/internal/utils"  // Utility functions
	"strconv"                     // String conversion
	"time"                        // Time durations

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// Request struct for product creation and updates
type ProductRequest struct {
	Title       string   `json:"title" binding:"required"`      // Product title
	Description string   `json:"description"`                   // Rich-text JSON blob
	Price       *float64 `json:"price" binding:"required"`      // Pointer so zero is distinguishable from absent
	CategoryID  uint     `json:"categoryId" binding:"required"` // Owning category
	Images      []string `json:"images"`                        // Ordered image URLs
}

// Cached shape for a product listing page
type productPage struct {
	Products   []domain.Product `json:"products"`   // Page of products
	Total      int64            `json:"total"`      // Total matching products
	Page       int              `json:"page"`       // Current page
	TotalPages int              `json:"totalPages"` // Total pages
}

// pageParams reads page/limit query values with defaults and caps
func pageParams(c *gin.Context, defaultLimit int) (int, int) {
	page := 1             // Default page
	limit := defaultLimit // Default page size
	// If page exists in query
	if p := c.Query("page"); p != "" {
		// Convert page to integer
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v // Set page if valid
		}
	}
	// If limit exists in query
	if l := c.Query("limit"); l != "" {
		// Convert limit to integer
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			limit = v // Set limit if valid
		}
	}
	return page, limit
}

// invalidateProductCache drops all cached listing pages and product
// details after any catalog mutation
func invalidateProductCache(rdb *redis.Client) {
	ctx := context.Background()                             // Context for Redis operations
	_ = utils.DeleteCachePrefix(ctx, rdb, "products:list:") // Drop listing pages
	_ = utils.DeleteCachePrefix(ctx, rdb, "products:id:")   // Drop product details
}

// ListProductsHandler returns a filtered, paginated product page.
// Filters: category id, inclusive min/max price, case-insensitive title
// substring. Absent filters impose no constraint.
func ListProductsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := pageParams(c, 9) // Default page size matches the storefront grid
		// Cache key covers every filter; url.Values escapes the raw values
		// so crafted filter text cannot alias another combination's key
		filters := url.Values{}
		filters.Set("cat", c.Query("category"))
		filters.Set("min", c.Query("minPrice"))
		filters.Set("max", c.Query("maxPrice"))
		filters.Set("q", c.Query("search"))
		filters.Set("page", strconv.Itoa(page))
		filters.Set("limit", strconv.Itoa(limit))
		cacheKey := "products:list:" + filters.Encode()
		ctx := context.Background() // Context for Redis operations
		var cached productPage      // Cached page shape
		// Try to get from cache
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			// Return the cached page
			c.JSON(http.StatusOK, gin.H{
				"products": cached.Products, // Cached products
				"pagination": gin.H{
					"total":      cached.Total,      // Total matching products
					"page":       cached.Page,       // Current page
					"totalPages": cached.TotalPages, // Total pages
				},
				"cached": true, // Indicate response is from cache
			})
			return
		}
		query := db.Model(&domain.Product{}) // Base query, filters applied below
		// Category filter
		if cat := c.Query("category"); cat != "" {
			if id, err := strconv.Atoi(cat); err == nil {
				query = query.Where("category_id = ?", id)
			}
		}
		// Inclusive minimum price
		if min := c.Query("minPrice"); min != "" {
			if v, err := strconv.ParseFloat(min, 64); err == nil {
				query = query.Where("price >= ?", v)
			}
		}
		// Inclusive maximum price
		if max := c.Query("maxPrice"); max != "" {
			if v, err := strconv.ParseFloat(max, 64); err == nil {
				query = query.Where("price <= ?", v)
			}
		}
		// Case-insensitive title substring match
		if search := c.Query("search"); search != "" {
			query = query.Where("LOWER(title) LIKE LOWER(?)", "%"+search+"%")
		}
		var total int64 // Total count for pagination
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching products"})
			return
		}
		offset := (page - 1) * limit // Calculate offset
		var products []domain.Product
		// Fetch the page with category and images preloaded, newest first
		if err := query.Preload("Category").Preload("Images").
			Order("created_at desc").
			Offset(offset).
			Limit(limit).
			Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching products"})
			return
		}
		totalPages := (int(total) + limit - 1) / limit // Calculate total pages
		// Cache the page for 60 seconds
		_ = utils.SetCache(ctx, rdb, cacheKey, productPage{
			Products:   products,   // Page of products
			Total:      total,      // Total matching products
			Page:       page,       // Current page
			TotalPages: totalPages, // Total pages
		}, 60*time.Second)
		// Return the page
		c.JSON(http.StatusOK, gin.H{
			"products": products, // Page of products
			"pagination": gin.H{
				"total":      total,      // Total matching products
				"page":       page,       // Current page
				"totalPages": totalPages, // Total pages
			},
			"cached": false, // Not from cache
		})
	}
}

// GetProductHandler returns a single product with category and images
func GetProductHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")             // Product ID from path
		cacheKey := "products:id:" + id // Cache key for the detail view
		ctx := context.Background()     // Context for Redis operations
		var product domain.Product      // Product struct to hold data
		found, err := utils.GetCache(ctx, rdb, cacheKey, &product)
		// If found in cache, return it
		if err == nil && found {
			c.JSON(http.StatusOK, product)
			return
		}
		// Fetch from the database with relations preloaded
		if err := db.Preload("Category").Preload("Images").First(&product, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, product, 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, product)                                  // Return the product
	}
}

// CreateProductHandler creates a product with its image rows (admin only)
func CreateProductHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ProductRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Reject negative prices
		if *req.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be non-negative"})
			return
		}
		// The referenced category must exist
		var category domain.Category
		if err := db.First(&category, req.CategoryID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
			return
		}
		// Build the image rows in the given order
		images := make([]domain.Image, len(req.Images))
		for i, url := range req.Images {
			images[i] = domain.Image{URL: url}
		}
		product := domain.Product{
			Title:       req.Title,       // Product title
			Description: req.Description, // Rich-text JSON blob
			Price:       *req.Price,      // Validated price
			CategoryID:  req.CategoryID,  // Owning category
			Images:      images,          // Image rows created alongside
		}
		// Create the product with its images
		if err := db.Create(&product).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"title": req.Title,   // Attempted title
				"error": err.Error(), // Error message
			}).Error("Failed to create product")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating product"})
			return
		}
		// Reload with the category attached
		_ = db.Preload("Category").Preload("Images").First(&product, product.ID).Error
		invalidateProductCache(rdb)         // Mutation invalidates cached pages
		c.JSON(http.StatusCreated, product) // Return the created product
	}
}

// UpdateProductHandler edits a product and replaces its image set (admin only)
func UpdateProductHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")        // Product ID from path
		var product domain.Product // Load the existing product
		if err := db.First(&product, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		var req ProductRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Reject negative prices
		if *req.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be non-negative"})
			return
		}
		// The referenced category must exist
		var category domain.Category
		if err := db.First(&category, req.CategoryID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
			return
		}
		// Field edits and the image replacement commit together
		err := db.Transaction(func(tx *gorm.DB) error {
			// Apply scalar field updates
			updates := map[string]any{
				"title":       req.Title,       // Product title
				"description": req.Description, // Rich-text JSON blob
				"price":       *req.Price,      // Validated price
				"category_id": req.CategoryID,  // Owning category
			}
			if err := tx.Model(&product).Updates(updates).Error; err != nil {
				return err // Return error to rollback
			}
			// Replace the image set: delete old rows, insert the new ones
			if err := tx.Where("product_id = ?", product.ID).Delete(&domain.Image{}).Error; err != nil {
				return err // Return error to rollback
			}
			for _, url := range req.Images {
				if err := tx.Create(&domain.Image{URL: url, ProductID: product.ID}).Error; err != nil {
					return err // Return error to rollback
				}
			}
			return nil // Commit transaction
		})
		// Handle transaction result
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"product_id": product.ID,  // Edited product
				"error":      err.Error(), // Error message
			}).Error("Failed to update product")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating product"})
			return
		}
		// Reload the updated product with relations
		_ = db.Preload("Category").Preload("Images").First(&product, product.ID).Error
		invalidateProductCache(rdb)    // Mutation invalidates cached pages
		c.JSON(http.StatusOK, product) // Return the updated product
	}
}

// DeleteProductHandler removes a product and its images (admin only)
func DeleteProductHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")        // Product ID from path
		var product domain.Product // Load the existing product
		if err := db.First(&product, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		// Images go with the product
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("product_id = ?", product.ID).Delete(&domain.Image{}).Error; err != nil {
				return err // Return error to rollback
			}
			if err := tx.Delete(&product).Error; err != nil {
				return err // Return error to rollback
			}
			return nil // Commit transaction
		})
		// Handle transaction result
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"product_id": product.ID,  // Deleted product
				"error":      err.Error(), // Error message
			}).Error("Failed to delete product")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting product"})
			return
		}
		invalidateProductCache(rdb) // Mutation invalidates cached pages
		c.Status(http.StatusNoContent)
	}
}
