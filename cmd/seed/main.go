package main

import (
	"shop_system/internal/config" // Custom import path (Config)
	"shop_system/internal/domain" // Domain models

	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/driver/postgres"    // Postgres driver for GORM
	"gorm.io/gorm"               // GORM ORM library
)

// Demo product used to populate the catalog
type seedProduct struct {
	Title       string   // Product title
	Description string   // Rich-text JSON blob
	Price       float64  // Product price
	Category    string   // Category name
	Images      []string // Image URLs
}

// Admin accounts created on a fresh install
var seedAdmins = []struct {
	Email    string
	Name     string
	Password string
}{
	{Email: "admin@example.com", Name: "Super Admin", Password: "admin123"},
	{Email: "manager@example.com", Name: "System Manager", Password: "manager123"},
}

// Demo catalog
var seedProducts = []seedProduct{
	{
		Title:       "Classic Cotton Shirt",
		Description: `{"blocks":[{"type":"paragraph","text":"Breathable cotton shirt for everyday wear."}]}`,
		Price:       19.99,
		Category:    "Clothing",
		Images:      []string{"/storage/classic-cotton-shirt.jpg"},
	},
	{
		Title:       "Wireless Earbuds",
		Description: `{"blocks":[{"type":"paragraph","text":"Compact earbuds with a charging case."}]}`,
		Price:       59.90,
		Category:    "Electronics",
		Images:      []string{"/storage/wireless-earbuds.jpg"},
	},
	{
		Title:       "Stainless Water Bottle",
		Description: `{"blocks":[{"type":"paragraph","text":"Keeps drinks cold for 24 hours."}]}`,
		Price:       14.50,
		Category:    "Home",
		Images:      []string{"/storage/stainless-water-bottle.jpg"},
	},
	{
		Title:       "Leather Wallet",
		Description: `{"blocks":[{"type":"paragraph","text":"Slim bifold wallet in full-grain leather."}]}`,
		Price:       34.00,
		Category:    "Accessories",
		Images:      []string{"/storage/leather-wallet.jpg"},
	},
}

// Main entry point for seeding admins and the demo catalog
func main() {
	cfg := config.LoadConfig() // Load configuration

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{}) // Connect to the database
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err)
	}

	// Seed admin accounts; existing emails are left alone
	for _, a := range seedAdmins {
		var existing domain.Admin
		if err := db.Where("email = ?", a.Email).First(&existing).Error; err == nil {
			continue // Admin already present
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), bcrypt.DefaultCost)
		if err != nil {
			logrus.Fatalf("failed to hash admin password: %v", err)
		}
		admin := domain.Admin{Email: a.Email, Name: a.Name, Password: string(hash)}
		if err := db.Create(&admin).Error; err != nil {
			logrus.Fatalf("failed to seed admin %s: %v", a.Email, err)
		}
		logrus.WithFields(logrus.Fields{"email": a.Email}).Info("Admin seeded")
	}

	// Seed the demo catalog; categories are created on demand
	for _, p := range seedProducts {
		var category domain.Category
		if err := db.Where("name = ?", p.Category).First(&category).Error; err != nil {
			category = domain.Category{Name: p.Category}
			if err := db.Create(&category).Error; err != nil {
				logrus.Fatalf("failed to seed category %s: %v", p.Category, err)
			}
		}
		// Skip products that already exist
		var existing domain.Product
		if err := db.Where("title = ?", p.Title).First(&existing).Error; err == nil {
			continue
		}
		images := make([]domain.Image, len(p.Images))
		for i, url := range p.Images {
			images[i] = domain.Image{URL: url}
		}
		product := domain.Product{
			Title:       p.Title,       // Product title
			Description: p.Description, // Rich-text JSON blob
			Price:       p.Price,       // Product price
			CategoryID:  category.ID,   // Owning category
			Images:      images,        // Image rows
		}
		if err := db.Create(&product).Error; err != nil {
			logrus.Fatalf("failed to seed product %s: %v", p.Title, err)
		}
		logrus.WithFields(logrus.Fields{"title": p.Title}).Info("Product seeded")
	}

	logrus.Info("Seeding completed.")
}
