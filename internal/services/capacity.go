package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shule_ride/internal/models"
)

// CapacityService answers whether a seat request fits the route's vehicle
// on every day of a date range. The binding constraint is the worst
// single day in the range, since the vehicle must hold on every day it
// runs.
type CapacityService struct {
	DB *gorm.DB
}

// CheckCapacity reports whether seatsRequested fits within the route's
// vehicle for every day in [start, end], along with the seats remaining
// on the tightest day.
func (s *CapacityService) CheckCapacity(routeID uint, start, end time.Time, seatsRequested int) (bool, int, error) {
	vehicle, err := routeVehicle(s.DB, routeID)
	if err != nil {
		return false, 0, err
	}
	used, err := maxSeatUsage(s.DB, routeID, start, end)
	if err != nil {
		return false, 0, err
	}
	available := vehicle.Capacity - used
	return seatsRequested <= available, available, nil
}

// routeVehicle resolves the capacity-bearing vehicle for a route.
// Multi-vehicle routes are not pooled: the first assigned vehicle is
// authoritative.
func routeVehicle(tx *gorm.DB, routeID uint) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := tx.Where("route_id = ?", routeID).Order("id").First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoVehicle
		}
		return nil, err
	}
	return &vehicle, nil
}

// maxSeatUsage returns the worst single-day committed seat count on the
// route between start and end inclusive. Only trips still expected to run
// (scheduled or picked_up) hold seats.
func maxSeatUsage(tx *gorm.DB, routeID uint, start, end time.Time) (int, error) {
	var rows []struct {
		TripDate    time.Time
		SeatsBooked int
	}
	err := tx.Model(&models.Trip{}).
		Select("trips.trip_date, bookings.seats_booked").
		Joins("JOIN bookings ON bookings.id = trips.booking_id").
		Where("bookings.route_id = ?", routeID).
		Where("trips.trip_date >= ? AND trips.trip_date <= ?", DateOnly(start), DateOnly(end)).
		Where("trips.status IN ?", []string{models.TripScheduled, models.TripPickedUp}).
		Scan(&rows).Error
	if err != nil {
		return 0, err
	}

	usage := make(map[string]int)
	worst := 0
	for _, r := range rows {
		day := r.TripDate.Format("2006-01-02")
		usage[day] += r.SeatsBooked
		if usage[day] > worst {
			worst = usage[day]
		}
	}
	return worst, nil
}

// lockForUpdate adds a FOR UPDATE clause where the dialect supports it.
// SQLite (used by the tests) rejects the clause and serializes writers on
// its own.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
