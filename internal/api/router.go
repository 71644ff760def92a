package api

import (
	"net/http"                        // HTTP status codes
	"shop_system/internal/config"     // Application configuration
	"shop_system/internal/middleware" // Auth middleware
	"time"                            // Timestamps

	"github.com/gin-contrib/cors"  // CORS middleware
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// NewRouter wires every route group with its middleware. A nil Redis
// client disables caching, which the handlers tolerate.
func NewRouter(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *gin.Engine {
	r := gin.Default() // Gin router instance with logger and recovery

	r.Use(cors.Default()) // Allow the SPA origin during development

	// Static assets: uploaded images are served straight from disk
	r.Static("/storage", cfg.StoragePath)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().Format(time.RFC3339)})
	})

	auth := middleware.JWTAuthMiddleware(cfg.JWTSecret) // Token validation
	admin := middleware.AdminOnlyMiddleware()           // Admin gate on top of auth

	// Auth routes
	authGroup := r.Group("/auth")
	authGroup.POST("/register", RegisterHandler(db, cfg.JWTSecret)) // Registration endpoint
	authGroup.POST("/login", LoginHandler(db, cfg.JWTSecret))       // Login endpoint
	authGroup.GET("/me", auth, MeHandler(db))                       // Current identity
	authGroup.PUT("/profile", auth, UpdateProfileHandler(db))       // Profile edit
	authGroup.PUT("/change-password", auth, ChangePasswordHandler(db))
	authGroup.DELETE("/profile", auth, DeleteProfileHandler(db)) // Account deletion

	// Product routes: reads are public, writes are admin-only
	products := r.Group("/products")
	products.GET("", ListProductsHandler(db, rdb))                      // Filtered listing
	products.GET("/:id", GetProductHandler(db, rdb))                    // Product detail
	products.POST("", auth, admin, CreateProductHandler(db, rdb))       // Create product
	products.PUT("/:id", auth, admin, UpdateProductHandler(db, rdb))    // Edit product
	products.DELETE("/:id", auth, admin, DeleteProductHandler(db, rdb)) // Delete product

	// Category routes: reads are public, writes are admin-only
	categories := r.Group("/categories")
	categories.GET("", ListCategoriesHandler(db))                          // All categories
	categories.POST("", auth, admin, CreateCategoryHandler(db, rdb))       // Create category
	categories.PUT("/:id", auth, admin, UpdateCategoryHandler(db, rdb))    // Rename category
	categories.DELETE("/:id", auth, admin, DeleteCategoryHandler(db, rdb)) // Delete category

	// Cart routes (authenticated user)
	cart := r.Group("/cart", auth)
	cart.GET("", GetCartHandler(db))                   // Current cart
	cart.POST("", AddCartItemHandler(db))              // Add or overwrite an item
	cart.PUT("/:itemId", UpdateCartItemHandler(db))    // Set item quantity
	cart.DELETE("/:itemId", RemoveCartItemHandler(db)) // Remove an item

	// Order routes (authenticated; some admin-only)
	orders := r.Group("/orders", auth)
	orders.GET("", ListOrdersHandler(db))                   // Own orders, or all for admins
	orders.GET("/:id", GetOrderHandler(db))                 // Single order
	orders.POST("", CreateOrderHandler(db))                 // Cart to order conversion
	orders.PUT("/:id/cancel", CancelOrderHandler(db))       // Cancel an order
	orders.PUT("/:id", admin, UpdateOrderStatusHandler(db)) // Admin status overwrite
	orders.DELETE("/:id", admin, DeleteOrderHandler(db))    // Admin hard delete

	// Upload route (admin only)
	r.POST("/upload", auth, admin, UploadHandler(cfg.StoragePath))

	// Statistics routes (admin only)
	stats := r.Group("/statistics", auth, admin)
	stats.GET("/daily", DailyStatisticsHandler(db, rdb))    // Today's summary
	stats.GET("/weekly", WeeklyStatisticsHandler(db))       // Per-day since start of week
	stats.GET("/monthly", MonthlyStatisticsHandler(db))     // Per-day since start of month
	stats.GET("/best-selling", BestSellingHandler(db, rdb)) // Top products by units sold

	return r
}
