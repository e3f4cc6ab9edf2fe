package services

import (
	"gorm.io/gorm"

	"shule_ride/internal/models"
)

// GenerateTrips expands a persisted booking into dated trips: one per
// qualifying weekday in the booking window, doubled when the booking
// covers both the morning and evening run. All trips are inserted in a
// single batch on tx so the expansion lands atomically with its caller.
// Returns the number of trips created.
func GenerateTrips(tx *gorm.DB, booking *models.Booking) (int, error) {
	days, err := ParseDaysOfWeek(booking.DaysOfWeek)
	if err != nil {
		return 0, err
	}
	wanted := make(map[int]bool, len(days))
	for _, d := range days {
		wanted[d] = true
	}

	var trips []models.Trip
	end := DateOnly(booking.EndDate)
	for d := DateOnly(booking.StartDate); !d.After(end); d = d.AddDate(0, 0, 1) {
		if !wanted[ISOWeekday(d)] {
			continue
		}
		if booking.ServiceType == models.ServiceMorning || booking.ServiceType == models.ServiceBoth {
			trips = append(trips, models.Trip{
				BookingID:   booking.ID,
				TripDate:    d,
				ServiceTime: models.ServiceMorning,
				Status:      models.TripScheduled,
			})
		}
		if booking.ServiceType == models.ServiceEvening || booking.ServiceType == models.ServiceBoth {
			trips = append(trips, models.Trip{
				BookingID:   booking.ID,
				TripDate:    d,
				ServiceTime: models.ServiceEvening,
				Status:      models.TripScheduled,
			})
		}
	}
	if len(trips) == 0 {
		return 0, nil
	}
	if err := tx.Create(&trips).Error; err != nil {
		return 0, err
	}
	return len(trips), nil
}

// Endpoints is the pickup/dropoff pair a trip effectively serves.
type Endpoints struct {
	PickupID    uint   `json:"pickup_location_id"`
	PickupName  string `json:"pickup_location"`
	DropoffID   uint   `json:"dropoff_location_id"`
	DropoffName string `json:"dropoff_location"`
}

// EffectiveEndpoints returns where a trip boards and drops. Evening runs
// go school → home, so the booking's pair swaps. The swap is recomputed
// on every read and never stored. The booking must have its
// PickupLocation and DropoffLocation loaded.
func EffectiveEndpoints(serviceTime string, booking *models.Booking) Endpoints {
	ep := Endpoints{
		PickupID:    booking.PickupLocationID,
		PickupName:  booking.PickupLocation.Name,
		DropoffID:   booking.DropoffLocationID,
		DropoffName: booking.DropoffLocation.Name,
	}
	if serviceTime == models.ServiceEvening {
		ep.PickupID, ep.DropoffID = ep.DropoffID, ep.PickupID
		ep.PickupName, ep.DropoffName = ep.DropoffName, ep.PickupName
	}
	return ep
}
