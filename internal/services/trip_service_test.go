package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shule_ride/internal/models"
)

func TestMarkPickedUpThenDroppedOff(t *testing.T) {
	f := newFixture(t)
	bookings := f.bookingService("2026-08-31")

	booking, created, err := bookings.Create(f.bookingInput(t, "2026-08-31", "2026-08-31", "1", models.ServiceMorning, 1))
	require.NoError(t, err)
	require.Equal(t, 1, created)
	tripID := booking.Trips[0].ID

	trips := f.tripService("2026-08-31")

	trip, err := trips.MarkPickedUp(tripID, "waiting at gate 2")
	require.NoError(t, err)
	assert.Equal(t, models.TripPickedUp, trip.Status)
	require.NotNil(t, trip.ActualPickupTime)
	assert.Nil(t, trip.ActualDropoffTime)
	assert.Equal(t, "waiting at gate 2", trip.DriverNotes)

	pickupAt := *trip.ActualPickupTime

	trip, err = trips.MarkDroppedOff(tripID, "")
	require.NoError(t, err)
	assert.Equal(t, models.TripCompleted, trip.Status)
	require.NotNil(t, trip.ActualDropoffTime)
	require.NotNil(t, trip.ActualPickupTime)
	assert.True(t, trip.ActualPickupTime.Equal(pickupAt))
	assert.Equal(t, "waiting at gate 2", trip.DriverNotes)

	// Last open trip done: the booking completes with it.
	var reloaded models.Booking
	require.NoError(t, f.DB.First(&reloaded, booking.ID).Error)
	assert.Equal(t, models.BookingCompleted, reloaded.Status)
}

func TestMarkDroppedOffBackfillsPickup(t *testing.T) {
	f := newFixture(t)
	bookings := f.bookingService("2026-08-31")

	booking, _, err := bookings.Create(f.bookingInput(t, "2026-08-31", "2026-08-31", "1", models.ServiceMorning, 1))
	require.NoError(t, err)

	trips := f.tripService("2026-08-31")
	trip, err := trips.MarkDroppedOff(booking.Trips[0].ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.TripCompleted, trip.Status)
	require.NotNil(t, trip.ActualPickupTime)
	require.NotNil(t, trip.ActualDropoffTime)
	assert.True(t, trip.ActualPickupTime.Equal(*trip.ActualDropoffTime))
}

func TestTripTransitionConflicts(t *testing.T) {
	f := newFixture(t)
	bookings := f.bookingService("2026-08-31")
	trips := f.tripService("2026-08-31")

	booking, _, err := bookings.Create(f.bookingInput(t, "2026-08-31", "2026-08-31", "1", models.ServiceBoth, 1))
	require.NoError(t, err)
	require.Len(t, booking.Trips, 2)

	done, err := trips.MarkDroppedOff(booking.Trips[0].ID, "")
	require.NoError(t, err)

	_, err = trips.MarkPickedUp(done.ID, "")
	assert.ErrorIs(t, err, ErrConflict)
	_, err = trips.MarkDroppedOff(done.ID, "")
	assert.ErrorIs(t, err, ErrConflict)

	// Cancel the booking; its remaining trip rejects driver updates.
	_, err = bookings.UpdateStatus(booking.ID, models.BookingCancelled)
	require.NoError(t, err)
	_, err = trips.MarkPickedUp(booking.Trips[1].ID, "")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestTripTransitionNotFound(t *testing.T) {
	f := newFixture(t)
	trips := f.tripService("2026-08-31")

	_, err := trips.MarkPickedUp(9999, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTodaysTrips(t *testing.T) {
	f := newFixture(t)
	bookings := f.bookingService("2026-08-31")
	trips := f.tripService("2026-08-31")

	// Mon-Tue, both runs: today (Monday) carries one morning and one
	// evening trip; tomorrow's stay out of the view.
	_, created, err := bookings.Create(f.bookingInput(t, "2026-08-31", "2026-09-01", "1,2", models.ServiceBoth, 3))
	require.NoError(t, err)
	require.Equal(t, 4, created)

	summary, err := trips.TodaysTrips(f.Vehicle.ID, models.ServiceMorning)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-31", summary.Date)
	assert.Equal(t, f.Vehicle.ID, summary.VehicleID)
	assert.Equal(t, 1, summary.TotalExpected)
	assert.Equal(t, 0, summary.TotalPickedUp)
	assert.Equal(t, 1, summary.TotalPending)
	require.Len(t, summary.Trips, 1)
	assert.Equal(t, models.ServiceMorning, summary.Trips[0].ServiceTime)
	require.NotNil(t, summary.Trips[0].Booking)
	assert.Equal(t, f.Parent.Name, summary.Trips[0].Booking.User.Name)

	morningTrip := summary.Trips[0]

	// Picked up children stay on the checklist.
	_, err = trips.MarkPickedUp(morningTrip.ID, "")
	require.NoError(t, err)
	summary, err = trips.TodaysTrips(f.Vehicle.ID, models.ServiceMorning)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalExpected)
	assert.Equal(t, 1, summary.TotalPickedUp)
	assert.Equal(t, 0, summary.TotalPending)

	// Dropped off children leave it.
	_, err = trips.MarkDroppedOff(morningTrip.ID, "")
	require.NoError(t, err)
	summary, err = trips.TodaysTrips(f.Vehicle.ID, models.ServiceMorning)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalExpected)
	assert.Empty(t, summary.Trips)

	// The evening run is untouched.
	summary, err = trips.TodaysTrips(f.Vehicle.ID, models.ServiceEvening)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalExpected)
}

func TestTodaysTripsValidation(t *testing.T) {
	f := newFixture(t)
	trips := f.tripService("2026-08-31")

	_, err := trips.TodaysTrips(f.Vehicle.ID, "noon")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = trips.TodaysTrips(9999, models.ServiceMorning)
	assert.ErrorIs(t, err, ErrNotFound)
}
