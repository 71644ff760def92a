package domain

import "time"

// Product Model
type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`       // Primary key
	Title       string    `gorm:"not null" json:"title"`      // Product title
	Description string    `json:"description"`                // Rich-text description stored as a JSON blob
	Price       float64   `gorm:"not null" json:"price"`      // Non-negative price
	CategoryID  uint      `gorm:"not null" json:"categoryId"` // Foreign key to Category
	// Deleting a category with products attached must fail, not cascade or orphan
	Category  *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"category,omitempty"`
	Images    []Image   `gorm:"constraint:OnDelete:CASCADE;" json:"images"` // Ordered image collection
	CreatedAt time.Time `json:"createdAt"`                                  // Creation timestamp
	UpdatedAt time.Time `json:"updatedAt"`                                  // Last edit timestamp
}

// Image Model, owned by exactly one Product
type Image struct {
	ID        uint   `gorm:"primaryKey" json:"id"` // Primary key
	URL       string `gorm:"not null" json:"url"`  // Public URL under /storage
	ProductID uint   `gorm:"index" json:"-"`       // Owning product
}
