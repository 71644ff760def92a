package domain

import "time"

// Cart Model, created lazily on the first add
type Cart struct {
	ID        uint       `gorm:"primaryKey" json:"id"`                      // Primary key
	UserID    uint       `gorm:"uniqueIndex" json:"userId"`                 // One cart per user
	Items     []CartItem `gorm:"constraint:OnDelete:CASCADE;" json:"items"` // Cascade delete items with the cart
	CreatedAt time.Time  `json:"createdAt"`                                 // Creation timestamp
	UpdatedAt time.Time  `json:"updatedAt"`                                 // Last mutation timestamp
}

// CartItem Model. One row per (cart, product); adding an existing
// product overwrites the quantity instead of inserting a duplicate row.
type CartItem struct {
	ID        uint     `gorm:"primaryKey" json:"id"`      // Primary key
	CartID    uint     `gorm:"index" json:"cartId"`       // Owning cart
	ProductID uint     `gorm:"not null" json:"productId"` // Referenced product
	Product   *Product `json:"product,omitempty"`         // Loaded with category and images on reads
	Quantity  int      `gorm:"not null" json:"quantity"`  // Always >= 1; removal deletes the row
}
