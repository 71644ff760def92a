package domain

import "time"

// User Model
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                  // Primary key
	Email     string    `gorm:"unique;not null" json:"email"`          // Unique login email
	Password  string    `gorm:"not null" json:"-"`                     // Hashed password, never serialized
	Name      string    `json:"name"`                                  // Display name
	CreatedAt time.Time `json:"createdAt"`                             // Registration timestamp
	Cart      *Cart     `gorm:"constraint:OnDelete:CASCADE;" json:"-"` // One-to-one relationship with Cart
}
