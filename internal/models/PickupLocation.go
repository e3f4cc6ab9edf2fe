package models

import (
	"gorm.io/gorm"
)

// PickupLocation is a home-side stop along a route. Bookings reference it
// as their morning boarding point.
type PickupLocation struct {
	gorm.Model

	RouteID        uint   `json:"route_id" gorm:"index"`
	Name           string `json:"name" binding:"required"`
	GPSCoordinates string `json:"gps_coordinates"` // "lat,lng"

	Route    Route     `gorm:"foreignKey:RouteID" json:"-"`
	Bookings []Booking `gorm:"foreignKey:PickupLocationID" json:"bookings,omitempty"`
}
