package domain

import "time"

// Admin Model. Admins live in their own table rather than behind a role
// flag on User, and never own a cart or orders.
type Admin struct {
	ID        uint      `gorm:"primaryKey" json:"id"`         // Primary key
	Email     string    `gorm:"unique;not null" json:"email"` // Unique login email
	Password  string    `gorm:"not null" json:"-"`            // Hashed password, never serialized
	Name      string    `json:"name"`                         // Display name
	CreatedAt time.Time `json:"createdAt"`                    // Creation timestamp
}
