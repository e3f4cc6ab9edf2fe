package models

import (
	"gorm.io/gorm"
)

// Route represents a service corridor between a neighbourhood and one or
// more schools. A route owns its stops, school destinations, assigned
// vehicles and the bookings riding on it.
type Route struct {
	gorm.Model

	Name          string  `json:"name" binding:"required" gorm:"unique"`
	StartingPoint string  `json:"starting_point"`
	EndingPoint   string  `json:"ending_point"`
	StartGPS      string  `json:"start_gps"`
	EndGPS        string  `json:"end_gps"`
	PickupRadius  float64 `json:"pickup_radius"` // meters around the corridor we will stop in

	// Corridor geometry stored as a LINESTRING in WKB.
	// When creating/updating, provide GeoJSON; serialization converts back.
	Geometry []byte `gorm:"type:bytea" json:"-"`

	// Associations
	PickupLocations []PickupLocation `gorm:"foreignKey:RouteID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"pickup_locations,omitempty"`
	SchoolLocations []SchoolLocation `gorm:"foreignKey:RouteID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"school_locations,omitempty"`
	Vehicles        []Vehicle        `gorm:"foreignKey:RouteID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"vehicles,omitempty"`
	Bookings        []Booking        `gorm:"foreignKey:RouteID" json:"bookings,omitempty"`
}
