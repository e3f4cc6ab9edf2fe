package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"shule_ride/internal/models"
)

// TripService drives the per-trip state machine
// (scheduled → picked_up → completed) and the driver's daily view.
type TripService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func (s *TripService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// MarkPickedUp records that the child boarded. Completed and cancelled
// trips reject the call; the booking is reconciled in the same
// transaction.
func (s *TripService) MarkPickedUp(tripID uint, notes string) (*models.Trip, error) {
	return s.transition(tripID, notes, func(trip *models.Trip) {
		now := s.now()
		trip.Status = models.TripPickedUp
		trip.ActualPickupTime = &now
	})
}

// MarkDroppedOff records that the child was dropped off and completes the
// trip. A missing pickup time is backfilled, covering drivers who skip
// the pickup tap.
func (s *TripService) MarkDroppedOff(tripID uint, notes string) (*models.Trip, error) {
	return s.transition(tripID, notes, func(trip *models.Trip) {
		now := s.now()
		trip.Status = models.TripCompleted
		trip.ActualDropoffTime = &now
		if trip.ActualPickupTime == nil {
			trip.ActualPickupTime = &now
		}
	})
}

func (s *TripService) transition(tripID uint, notes string, apply func(*models.Trip)) (*models.Trip, error) {
	var trip models.Trip
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&trip, tripID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("trip %d: %w", tripID, ErrNotFound)
			}
			return err
		}
		switch trip.Status {
		case models.TripCompleted:
			return fmt.Errorf("%w: trip is already completed", ErrConflict)
		case models.TripCancelled:
			return fmt.Errorf("%w: trip has been cancelled", ErrConflict)
		}
		apply(&trip)
		if notes != "" {
			trip.DriverNotes = notes
		}
		if err := tx.Save(&trip).Error; err != nil {
			return err
		}
		return reconcileBooking(tx, trip.BookingID)
	})
	if err != nil {
		return nil, err
	}

	if err := s.DB.
		Preload("Booking").
		Preload("Booking.User").
		Preload("Booking.PickupLocation").
		Preload("Booking.DropoffLocation").
		First(&trip, trip.ID).Error; err != nil {
		return nil, err
	}
	return &trip, nil
}

// TodaySummary is the driver's operational checklist for one run.
type TodaySummary struct {
	Date          string
	ServiceTime   string
	VehicleID     uint
	Trips         []models.Trip
	TotalExpected int
	TotalPickedUp int
	TotalPending  int
}

// TodaysTrips lists today's still-running trips (scheduled or picked_up)
// for the route served by the given vehicle, filtered to one service
// time. Cancelled and completed trips are excluded from the view.
func (s *TripService) TodaysTrips(vehicleID uint, serviceTime string) (*TodaySummary, error) {
	if serviceTime != models.ServiceMorning && serviceTime != models.ServiceEvening {
		return nil, fmt.Errorf("%w: service_time must be 'morning' or 'evening'", ErrValidation)
	}

	var vehicle models.Vehicle
	if err := s.DB.First(&vehicle, vehicleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("vehicle %d: %w", vehicleID, ErrNotFound)
		}
		return nil, err
	}

	today := DateOnly(s.now())
	tomorrow := today.AddDate(0, 0, 1)

	var trips []models.Trip
	err := s.DB.
		Joins("JOIN bookings ON bookings.id = trips.booking_id").
		Where("bookings.route_id = ?", vehicle.RouteID).
		Where("trips.trip_date >= ? AND trips.trip_date < ?", today, tomorrow).
		Where("trips.service_time = ?", serviceTime).
		Where("trips.status IN ?", []string{models.TripScheduled, models.TripPickedUp}).
		Preload("Booking").
		Preload("Booking.User").
		Preload("Booking.PickupLocation").
		Preload("Booking.DropoffLocation").
		Order("trips.id").
		Find(&trips).Error
	if err != nil {
		return nil, err
	}

	summary := &TodaySummary{
		Date:          today.Format("2006-01-02"),
		ServiceTime:   serviceTime,
		VehicleID:     vehicle.ID,
		Trips:         trips,
		TotalExpected: len(trips),
	}
	for _, t := range trips {
		if t.Status == models.TripPickedUp {
			summary.TotalPickedUp++
		} else {
			summary.TotalPending++
		}
	}
	return summary, nil
}
