package models

import "gorm.io/gorm"

// Role values stored on User and carried in JWT claims.
const (
	RoleAdmin  = "admin"
	RoleDriver = "driver"
	RoleParent = "parent"
)

type User struct {
	gorm.Model
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"unique"`
	Password string `json:"-"`
	Phone    string `json:"phone"`
	Role     string `json:"role"` // "admin", "driver", "parent"

	// Actor-specific relations
	Vehicles []Vehicle `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"vehicles,omitempty"`
	Bookings []Booking `gorm:"foreignKey:UserID" json:"bookings,omitempty"`
}
