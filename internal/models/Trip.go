package models

import (
	"time"

	"gorm.io/gorm"
)

// Trip statuses. A trip moves scheduled → picked_up → completed; cancelled
// is terminal and only reachable through its booking being cancelled.
const (
	TripScheduled = "scheduled"
	TripPickedUp  = "picked_up"
	TripCompleted = "completed"
	TripCancelled = "cancelled"
)

// Trip is one dated occurrence derived from a Booking. Trips are created
// in bulk when the booking is accepted and never regenerated afterwards.
type Trip struct {
	gorm.Model

	BookingID   uint      `json:"booking_id" gorm:"index"`
	TripDate    time.Time `json:"trip_date" gorm:"index"`
	ServiceTime string    `json:"service_time"` // morning | evening
	Status      string    `json:"status" gorm:"default:scheduled"`

	ActualPickupTime  *time.Time `json:"actual_pickup_time"`
	ActualDropoffTime *time.Time `json:"actual_dropoff_time"`
	DriverNotes       string     `json:"driver_notes"`

	Booking *Booking `gorm:"foreignKey:BookingID" json:"-"`
}
