package models

import (
	"time"

	"gorm.io/gorm"
)

// Booking statuses. Transitions are monotonic: active may move to
// cancelled or completed; terminal states never change again.
const (
	BookingActive    = "active"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

// Service types a booking may request.
const (
	ServiceMorning = "morning"
	ServiceEvening = "evening"
	ServiceBoth    = "both"
)

// Booking is a recurring reservation over a date range. At creation it is
// expanded into one Trip per qualifying weekday (two when service_type is
// "both").
type Booking struct {
	gorm.Model

	UserID            uint `json:"user_id" gorm:"index"`
	RouteID           uint `json:"route_id" gorm:"index"`
	PickupLocationID  uint `json:"pickup_location_id"`
	DropoffLocationID uint `json:"dropoff_location_id"` // a SchoolLocation

	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	DaysOfWeek  string    `json:"days_of_week"` // ISO weekday codes, e.g. "1,3,5"
	ServiceType string    `json:"service_type"` // morning | evening | both
	SeatsBooked int       `json:"seats_booked"`
	Status      string    `json:"status" gorm:"default:active"`

	// Associations
	User            User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Route           Route          `gorm:"foreignKey:RouteID" json:"-"`
	PickupLocation  PickupLocation `gorm:"foreignKey:PickupLocationID" json:"pickup_location,omitempty"`
	DropoffLocation SchoolLocation `gorm:"foreignKey:DropoffLocationID" json:"dropoff_location,omitempty"`
	Trips           []Trip         `gorm:"foreignKey:BookingID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"trips,omitempty"`
}
