package models

import (
	"gorm.io/gorm"
)

// SchoolLocation is a school-side destination on a route. Bookings
// reference it as their morning dropoff point.
type SchoolLocation struct {
	gorm.Model

	RouteID        uint   `json:"route_id" gorm:"index"`
	Name           string `json:"name" binding:"required"`
	GPSCoordinates string `json:"gps_coordinates"` // "lat,lng"

	Route    Route     `gorm:"foreignKey:RouteID" json:"-"`
	Bookings []Booking `gorm:"foreignKey:DropoffLocationID" json:"bookings,omitempty"`
}
