package api

import (
	"context"                     // Context for Redis operations
	"net/http"                    // HTTP status codes
	"shop_system/internal/domain" // Importing domain models
	"shop_system/internal/utils"  // Utility functions
	"time"                        // Time calculations

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// Aggregate row for a single day of sales
type salesByDay struct {
	Date       string  `json:"date"`       // Calendar day
	OrderCount int64   `json:"orderCount"` // Delivered orders that day
	TotalSales float64 `json:"totalSales"` // Revenue that day
}

// Aggregate row for the daily summary
type dailySummary struct {
	TotalSales float64 `json:"totalSales"` // Today's delivered revenue
	OrderCount int64   `json:"orderCount"` // Today's delivered orders
}

// Per-product sales totals for the best-seller ranking
type productSales struct {
	ProductID    uint    `json:"productId"`    // Ranked product
	TotalSold    int64   `json:"totalSold"`    // Units sold
	TotalRevenue float64 `json:"totalRevenue"` // Revenue from those units
}

// Best-seller entry merging product details with its sales totals
type BestSellingProduct struct {
	domain.Product                               // Product with category and images
	TotalSold      int64   `json:"totalSold"`    // Units sold
	TotalRevenue   float64 `json:"totalRevenue"` // Revenue from those units
}

// Statistics only ever count DELIVERED orders

// DailyStatisticsHandler returns today's delivered sales summary (admin only)
func DailyStatisticsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		endOfDay := startOfDay.AddDate(0, 0, 1) // Exclusive upper bound
		cacheKey := "stats:daily:" + startOfDay.Format("2006-01-02")
		ctx := context.Background() // Context for Redis operations
		var cached dailySummary
		// Try to get from cache
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"totalSales": cached.TotalSales,               // Cached revenue
				"orderCount": cached.OrderCount,               // Cached order count
				"date":       startOfDay.Format("2006-01-02"), // Today's date
				"cached":     true,                            // Indicate response is from cache
			})
			return
		}
		var row dailySummary // Aggregate today's delivered orders
		if err := db.Model(&domain.Order{}).
			Select("COALESCE(SUM(total), 0) as total_sales, COUNT(*) as order_count").
			Where("created_at >= ? AND created_at < ? AND status = ?", startOfDay, endOfDay, domain.OrderStatusDelivered).
			Scan(&row).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch daily statistics"})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, row, 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, gin.H{
			"totalSales": row.TotalSales,                  // Today's revenue
			"orderCount": row.OrderCount,                  // Today's order count
			"date":       startOfDay.Format("2006-01-02"), // Today's date
			"cached":     false,                           // Not from cache
		})
	}
}

// salesSince groups delivered orders per day from the given start time
func salesSince(db *gorm.DB, start time.Time) ([]salesByDay, error) {
	var rows []salesByDay
	err := db.Model(&domain.Order{}).
		Select("DATE(created_at) as date, COUNT(*) as order_count, COALESCE(SUM(total), 0) as total_sales").
		Where("created_at >= ? AND status = ?", start, domain.OrderStatusDelivered).
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	// Scan leaves nil when there are no rows; the client expects an array
	if rows == nil {
		rows = []salesByDay{}
	}
	return rows, nil
}

// WeeklyStatisticsHandler returns per-day delivered sales since the
// start of the current week (admin only)
func WeeklyStatisticsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		// Week starts on Sunday, matching the storefront dashboard
		startOfWeek := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
			AddDate(0, 0, -int(now.Weekday()))
		rows, err := salesSince(db, startOfWeek) // Group per day
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch weekly statistics"})
			return
		}
		c.JSON(http.StatusOK, rows) // Return the per-day rows
	}
}

// MonthlyStatisticsHandler returns per-day delivered sales since the
// first of the current month (admin only)
func MonthlyStatisticsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		rows, err := salesSince(db, startOfMonth) // Group per day
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch monthly statistics"})
			return
		}
		c.JSON(http.StatusOK, rows) // Return the per-day rows
	}
}

// BestSellingHandler returns the top ten products by units sold across
// delivered orders, with product details merged in (admin only)
func BestSellingHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		cacheKey := "stats:best-selling"
		ctx := context.Background() // Context for Redis operations
		var cached []BestSellingProduct
		// Try to get from cache
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, cached)
			return
		}
		// Rank products by units sold in delivered orders
		var totals []productSales
		if err := db.Model(&domain.OrderItem{}).
			Select("order_items.product_id as product_id, SUM(order_items.quantity) as total_sold, SUM(order_items.price * order_items.quantity) as total_revenue").
			Joins("JOIN orders ON orders.id = order_items.order_id").
			Where("orders.status = ?", domain.OrderStatusDelivered).
			Group("order_items.product_id").
			Order("total_sold DESC").
			Limit(10).
			Scan(&totals).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch best-selling products"})
			return
		}
		// Merge product details onto the totals, skipping products that
		// were deleted after being sold
		result := make([]BestSellingProduct, 0, len(totals))
		for _, t := range totals {
			var product domain.Product
			if err := db.Preload("Category").Preload("Images").First(&product, t.ProductID).Error; err != nil {
				continue // Product no longer exists
			}
			result = append(result, BestSellingProduct{
				Product:      product,        // Product with relations
				TotalSold:    t.TotalSold,    // Units sold
				TotalRevenue: t.TotalRevenue, // Revenue from those units
			})
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, result, 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, result)                                  // Return the ranking
	}
}
