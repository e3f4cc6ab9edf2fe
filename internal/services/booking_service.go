package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"shule_ride/internal/models"
)

// BookingService orchestrates the booking lifecycle: creation with
// capacity enforcement and trip expansion, status transitions, lazy
// expiry on read, reconciliation from trip outcomes, and deletion.
type BookingService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func (s *BookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// CreateBookingInput carries a validated-shape booking request. Dates are
// calendar dates; DaysOfWeek is the raw "1,3,5" string.
type CreateBookingInput struct {
	UserID            uint
	RouteID           uint
	PickupLocationID  uint
	DropoffLocationID uint
	StartDate         time.Time
	EndDate           time.Time
	DaysOfWeek        string
	ServiceType       string
	SeatsBooked       int
}

// Create validates the request, verifies every referenced entity, runs
// the capacity check with the route's vehicle row locked, persists the
// booking and expands it into trips — all in one transaction, so a
// failing expansion leaves no orphaned active booking behind.
func (s *BookingService) Create(in CreateBookingInput) (*models.Booking, int, error) {
	if in.SeatsBooked < 1 {
		return nil, 0, fmt.Errorf("%w: seats_booked must be at least 1", ErrValidation)
	}
	if err := ValidateBooking(in.StartDate, in.EndDate, s.now(), in.DaysOfWeek, in.ServiceType); err != nil {
		return nil, 0, err
	}

	var booking models.Booking
	var created int
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := firstOrNotFound(tx, &models.User{}, in.UserID, "user"); err != nil {
			return err
		}
		if err := firstOrNotFound(tx, &models.Route{}, in.RouteID, "route"); err != nil {
			return err
		}

		var pickup models.PickupLocation
		if err := firstOrNotFound(tx, &pickup, in.PickupLocationID, "pickup location"); err != nil {
			return err
		}
		if pickup.RouteID != in.RouteID {
			return fmt.Errorf("%w: pickup location does not belong to the route", ErrValidation)
		}

		var school models.SchoolLocation
		if err := firstOrNotFound(tx, &school, in.DropoffLocationID, "dropoff location"); err != nil {
			return err
		}
		if school.RouteID != in.RouteID {
			return fmt.Errorf("%w: dropoff location does not belong to the route", ErrValidation)
		}

		// Lock the vehicle row so concurrent bookings on the same route
		// serialize around the capacity check.
		var vehicle models.Vehicle
		if err := lockForUpdate(tx).Where("route_id = ?", in.RouteID).Order("id").First(&vehicle).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoVehicle
			}
			return err
		}
		used, err := maxSeatUsage(tx, in.RouteID, in.StartDate, in.EndDate)
		if err != nil {
			return err
		}
		available := vehicle.Capacity - used
		if in.SeatsBooked > available {
			return fmt.Errorf("%w: only %d seats available for the requested dates", ErrConflict, available)
		}

		booking = models.Booking{
			UserID:            in.UserID,
			RouteID:           in.RouteID,
			PickupLocationID:  in.PickupLocationID,
			DropoffLocationID: in.DropoffLocationID,
			StartDate:         DateOnly(in.StartDate),
			EndDate:           DateOnly(in.EndDate),
			DaysOfWeek:        in.DaysOfWeek,
			ServiceType:       in.ServiceType,
			SeatsBooked:       in.SeatsBooked,
			Status:            models.BookingActive,
		}
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}

		// Rolling back the transaction discards the booking row with the
		// failed expansion, so no active booking without trips survives.
		created, err = GenerateTrips(tx, &booking)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	if err := s.reload(&booking); err != nil {
		return nil, 0, err
	}
	return &booking, created, nil
}

// Get fetches a booking with its trips, reconciling and lazily expiring
// it on the way out.
func (s *BookingService) Get(id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := firstOrNotFound(s.DB, &booking, id, "booking"); err != nil {
		return nil, err
	}
	if err := reconcileBooking(s.DB, id); err != nil {
		return nil, err
	}
	if err := s.reload(&booking); err != nil {
		return nil, err
	}
	if err := s.expireIfPast(&booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// BookingFilter narrows List; zero values mean "any".
type BookingFilter struct {
	UserID  uint
	RouteID uint
	Status  string
}

// List returns bookings matching the filter, lazily expiring stale
// active ones as they pass through.
func (s *BookingService) List(f BookingFilter) ([]models.Booking, error) {
	q := s.DB.
		Preload("Trips", tripOrder).
		Preload("User").
		Preload("PickupLocation").
		Preload("DropoffLocation")
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.RouteID != 0 {
		q = q.Where("route_id = ?", f.RouteID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var bookings []models.Booking
	if err := q.Order("id").Find(&bookings).Error; err != nil {
		return nil, err
	}
	for i := range bookings {
		if err := s.expireIfPast(&bookings[i]); err != nil {
			return nil, err
		}
	}
	return bookings, nil
}

// UpdateStatus moves an active booking to cancelled or completed.
// Cancelling also cancels every remaining trip dated today or later;
// completing completes every remaining trip regardless of date. Any
// other current status rejects with a conflict.
func (s *BookingService) UpdateStatus(id uint, target string) (*models.Booking, error) {
	if target != models.BookingCancelled && target != models.BookingCompleted {
		return nil, fmt.Errorf("%w: status must be 'cancelled' or 'completed'", ErrValidation)
	}

	var booking models.Booking
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := firstOrNotFound(lockForUpdate(tx), &booking, id, "booking"); err != nil {
			return err
		}
		if booking.Status != models.BookingActive {
			return fmt.Errorf("%w: booking is already %s", ErrConflict, booking.Status)
		}

		open := []string{models.TripScheduled, models.TripPickedUp}
		switch target {
		case models.BookingCancelled:
			// Trips that already ran keep their outcome.
			if err := tx.Model(&models.Trip{}).
				Where("booking_id = ? AND status IN ? AND trip_date >= ?", id, open, DateOnly(s.now())).
				Update("status", models.TripCancelled).Error; err != nil {
				return err
			}
		case models.BookingCompleted:
			if err := tx.Model(&models.Trip{}).
				Where("booking_id = ? AND status IN ?", id, open).
				Update("status", models.TripCompleted).Error; err != nil {
				return err
			}
		}
		booking.Status = target
		return tx.Model(&booking).Update("status", target).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.reload(&booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// Delete removes a terminal (cancelled or completed) booking and its
// trips. Active bookings must be cancelled or completed first.
func (s *BookingService) Delete(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := firstOrNotFound(tx, &booking, id, "booking"); err != nil {
			return err
		}
		if booking.Status == models.BookingActive {
			return fmt.Errorf("%w: cancel or complete the booking before deleting it", ErrInvalidState)
		}
		if err := tx.Unscoped().Where("booking_id = ?", id).Delete(&models.Trip{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&booking).Error
	})
}

// reconcileBooking derives booking status from trip outcomes. It is a
// no-op unless the booking is active and has at least one trip, and only
// completes the booking once no trip remains scheduled or picked_up.
// Safe to call repeatedly.
func reconcileBooking(tx *gorm.DB, bookingID uint) error {
	var booking models.Booking
	if err := tx.First(&booking, bookingID).Error; err != nil {
		return err
	}
	if booking.Status != models.BookingActive {
		return nil
	}

	var total int64
	if err := tx.Model(&models.Trip{}).Where("booking_id = ?", bookingID).Count(&total).Error; err != nil {
		return err
	}
	if total == 0 {
		return nil
	}

	var open int64
	if err := tx.Model(&models.Trip{}).
		Where("booking_id = ? AND status IN ?", bookingID, []string{models.TripScheduled, models.TripPickedUp}).
		Count(&open).Error; err != nil {
		return err
	}
	if open > 0 {
		return nil
	}
	return tx.Model(&booking).Update("status", models.BookingCompleted).Error
}

// expireIfPast force-completes an active booking whose window has fully
// passed, independent of trip state.
func (s *BookingService) expireIfPast(b *models.Booking) error {
	if b.Status != models.BookingActive {
		return nil
	}
	if !DateOnly(b.EndDate).Before(DateOnly(s.now())) {
		return nil
	}
	b.Status = models.BookingCompleted
	return s.DB.Model(&models.Booking{}).Where("id = ?", b.ID).Update("status", models.BookingCompleted).Error
}

func (s *BookingService) reload(b *models.Booking) error {
	return s.DB.
		Preload("Trips", tripOrder).
		Preload("User").
		Preload("PickupLocation").
		Preload("DropoffLocation").
		First(b, b.ID).Error
}

func tripOrder(db *gorm.DB) *gorm.DB {
	return db.Order("trip_date, service_time")
}

// TripCounts tallies trips by status for the booking detail view.
func TripCounts(trips []models.Trip) map[string]int {
	counts := map[string]int{
		models.TripScheduled: 0,
		models.TripPickedUp:  0,
		models.TripCompleted: 0,
		models.TripCancelled: 0,
	}
	for _, t := range trips {
		counts[t.Status]++
	}
	return counts
}

func firstOrNotFound(tx *gorm.DB, dest any, id uint, what string) error {
	if err := tx.First(dest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
		}
		return err
	}
	return nil
}
