package domain

import "time"

// Order lifecycle statuses
const (
	OrderStatusPending    = "PENDING"    // Order placed, awaiting processing
	OrderStatusProcessing = "PROCESSING" // Being prepared
	OrderStatusShipped    = "SHIPPED"    // Out for delivery
	OrderStatusDelivered  = "DELIVERED"  // Customer received the items
	OrderStatusCancelled  = "CANCELLED"  // Cancelled by the user or an admin
)

// ValidOrderStatus reports whether s is one of the five order statuses
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order Model: immutable purchase snapshot with a mutable status.
// Total is captured at creation time and never recomputed.
type Order struct {
	ID        uint        `gorm:"primaryKey" json:"id"`                      // Primary key
	UserID    uint        `gorm:"index;not null" json:"userId"`              // Owning user
	User      *User       `json:"user,omitempty"`                            // Attached for admin listings
	Total     float64     `gorm:"not null" json:"total"`                     // Sum of item price x quantity at creation
	Status    string      `gorm:"not null;default:'PENDING'" json:"status"`  // One of the status constants
	Items     []OrderItem `gorm:"constraint:OnDelete:CASCADE;" json:"items"` // Cascade delete items with the order
	CreatedAt time.Time   `json:"createdAt"`                                 // Creation timestamp
}

// OrderItem Model. Price is frozen at purchase time so later product
// edits never alter historical orders.
type OrderItem struct {
	ID        uint     `gorm:"primaryKey" json:"id"`      // Primary key
	OrderID   uint     `gorm:"index" json:"orderId"`      // Owning order
	ProductID uint     `gorm:"not null" json:"productId"` // Referenced product
	Product   *Product `json:"product,omitempty"`         // Loaded with category and images on reads
	Quantity  int      `gorm:"not null" json:"quantity"`  // Purchased quantity
	Price     float64  `gorm:"not null" json:"price"`     // Price at purchase time
}
