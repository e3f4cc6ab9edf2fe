package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shule_ride/internal/models"
)

func TestCreateBooking(t *testing.T) {
	f := newFixture(t)
	svc := f.bookingService("2026-08-31")

	booking, created, err := svc.Create(f.bookingInput(t, "2026-08-31", "2026-09-04", "1,2,3,4,5", models.ServiceMorning, 2))
	require.NoError(t, err)
	assert.Equal(t, 5, created)
	assert.Equal(t, models.BookingActive, booking.Status)
	assert.Equal(t, "1,2,3,4,5", booking.DaysOfWeek)
	require.Len(t, booking.Trips, 5)
	for _, trip := range booking.Trips {
		assert.Equal(t, models.TripScheduled, trip.Status)
		assert.Equal(t, models.ServiceMorning, trip.ServiceTime)
	}
	assert.Equal(t, f.Parent.Name, booking.User.Name)
	assert.Equal(t, f.Pickup.Name, booking.PickupLocation.Name)
	assert.Equal(t, f.School.Name, booking.DropoffLocation.Name)
}

func TestCreateBookingValidation(t *testing.T) {
	f := newFixture(t)
	svc := f.bookingService("2026-08-31")

	cases := []struct {
		name  string
		input CreateBookingInput
	}{
		{"zero seats", f.bookingInput(t, "2026-08-31", "2026-09-04", "1,2", models.ServiceMorning, 0)},
		{"start in past", f.bookingInput(t, "2026-08-30", "2026-09-04", "1,2", models.ServiceMorning, 1)},
		{"end before start", f.bookingInput(t, "2026-09-04", "2026-08-31", "1,2", models.ServiceMorning, 1)},
		{"span too long", f.bookingInput(t, "2026-08-31", "2027-03-15", "1,2", models.ServiceMorning, 1)},
		{"bad days", f.bookingInput(t, "2026-08-31", "2026-09-04", "0,9", models.ServiceMorning, 1)},
		{"bad service type", f.bookingInput(t, "2026-08-31", "2026-09-04", "1,2", "midday", 1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Create(tc.input)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	// Nothing slipped into the database.
	var count int64
	require.NoError(t, f.DB.Model(&models.Booking{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateBookingMissingReferences(t *testing.T) {
	f := newFixture(t)
	svc := f.bookingService("2026-08-31")

	in := f.bookingInput(t, "2026-08-31", "2026-09-04", "1,2", models.ServiceMorning, 1)
	in.UserID = 9999
	_, _, err := svc.Create(in)
	assert.ErrorIs(t, err, ErrNotFound)

	in = f.bookingInput(t, "2026-08-31", "2026-09-04", "1,2", models.ServiceMorning, 1)
	in.RouteID = 9999
	_, _, err = svc.Create(in)
	assert.ErrorIs(t, err, ErrNotFound)

	in = f.bookingInput(t, "2026-08-31", "2026-09-04", "1,2", models.ServiceMorning, 1)
	in.PickupLocationID = 9999
	_, _, err = svc.Create(in)
	assert.ErrorIs(t, err, ErrNotFound)

	in = f.bookingInput(t, "2026-08-31", "2026-09-04", "1,2", models.ServiceMorning, 1)
	in.DropoffLocationID = 9999
	_, _, err = svc.Create(in)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateBookingLocationOnWrongRoute(t *testing.T) {
	f := newFixture(t)
	svc := f.bookingService("2026-08-31")

	other := models.Route{Name: "Karen Loop", StartingPoint: "Karen", EndingPoint: "Hardy"}
	require.NoError(t, f.DB.Create(&other).Error)
	strayPickup := models.PickupLocation{RouteID: other.ID, Name: "Karen Shopping Centre", GPSCoordinates: "-1.3192,36.7070"}
	require.NoError(t, f.DB.Create(&strayPickup).Error)

	in := f.bookingInput(t, "2026-08-31", "2026-09-04", "1,2", models.ServiceMorning, 1)
	in.PickupLocationID = strayPickup.ID
	_, _, err := svc.Create(in)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateBookingNoVehicle(t *testing.T) {
	f := newFixture(t)
	svc := f.bookingService("2026-08-31")

	bare := models.Route{Name: "Karen Loop", StartingPoint: "Karen", EndingPoint: "Hardy"}
	require.NoError(t, f.DB.Create(&bare).Error)
	pickup := models.PickupLocation{RouteID: bare.ID, Name: "Karen Shopping Centre", GPSCoordinates: "-1.3192,36.7070"}
	require.NoError(t, f.DB.Create(&pickup).Error)
	school := models.SchoolLocation{RouteID: bare.ID, Name: "Hillcrest", GPSCoordinates: "-1.3400,36.7200"}
	require.NoError(t, f.DB.Create(&school).Error)

	in := f.bookingInput(t, "2026-08-31", "2026-09-04", "1,2", models.ServiceMorning, 1)
	in.RouteID = bare.ID
	in.PickupLocationID = pickup.ID
	in.DropoffLocationID = school.ID
	_, _, err := svc.Create(in)
	assert.ErrorIs(t, err, ErrNoVehicle)
}

func TestCreateBookingCapacityConflict(t *testing.T) {
	f := newFixture(t)
	svc := f.bookingService("2026-08-31")

	_, _, err := svc.Create(f.bookingInput(t, "2026-08-31", "2026-09-04", "1,2,3,4,5", models.ServiceMorning, 10))
	require.NoError(t, err)

	_, _, err = svc.Create(f.bookingInput(t, "2026-09-02", "2026-09-02", "3", models.ServiceMorning, 5))
	assert.ErrorIs(t, err, ErrConflict)

	// The rejected request left no rows behind.
	var count int64
	require.NoError(t, f.DB.Model(&models.Booking{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// The remainder still fits.
	_, created, err := svc.Create(f.bookingInput(t, "2026-09-02", "2026-09-02", "3", models.ServiceMorning, 4))
	require.NoError(t, err)
	assert.Equal(t, 1, created)
}

func TestGetBooking(t *testing.T) {
	f := newFixture(t)
	svc := f.bookingService("2026-08-31")

	booking, _, err := svc.Create(f.bookingInput(t, "2026-08-31", "2026-09-01", "1,2", models.ServiceMorning, 1))
	require.NoError(t, err)

	got, err := svc.Get(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, got.ID)
	assert.Len(t, got.Trips, 2)

	_, err = svc.Get(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListBookings(t *testing.T) {
	f := newFixture(t)
	svc := f.bookingService("2026-08-31")

	first, _, err := svc.Create(f.bookingInput(t, "2026-08-31", "2026-08-31", "1", models.ServiceMorning, 1))
	require.NoError(t, err)
	second, _, err := svc.Create(f.bookingInput(t, "2026-09-01", "2026-09-01", "2", models.ServiceMorning, 1))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(second.ID, models.BookingCancelled)
	require.NoError(t, err)

	all, err := svc.List(BookingFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := svc.List(BookingFilter{Status: models.BookingActive})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, first.ID, active[0].ID)

	byUser, err := svc.List(BookingFilter{UserID: f.Parent.ID})
	require.NoError(t, err)
	assert.Len(t, byUser, 2)

	none, err := svc.List(BookingFilter{UserID: 9999})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestBookingReconciliation(t *testing.T) {
	f := newFixture(t)
	bookings := f.bookingService("2026-08-31")
	trips := f.tripService("2026-08-31")

	booking, created, err := bookings.Create(f.bookingInput(t, "2026-08-31", "2026-08-31", "1", models.ServiceBoth, 1))
	require.NoError(t, err)
	require.Equal(t, 2, created)

	// One of two trips done: still active.
	_, err = trips.MarkDroppedOff(booking.Trips[0].ID, "")
	require.NoError(t, err)
	got, err := bookings.Get(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingActive, got.Status)

	// Second trip done: the booking completes.
	_, err = trips.MarkDroppedOff(booking.Trips[1].ID, "")
	require.NoError(t, err)
	got, err = bookings.Get(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, got.Status)

	// Reconciling again changes nothing.
	require.NoError(t, reconcileBooking(f.DB, booking.ID))
	got, err = bookings.Get(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, got.Status)
}

func TestReconcileSkipsTriplessBooking(t *testing.T) {
	f := newFixture(t)
	svc := f.bookingService("2026-08-31")

	// Tuesday-only window on a Monday-only schedule yields zero trips.
	booking, created, err := svc.Create(f.bookingInput(t, "2026-09-01", "2026-09-01", "1", models.ServiceMorning, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	got, err := svc.Get(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingActive, got.Status)
}

func TestBookingLazyExpiry(t *testing.T) {
	f := newFixture(t)
	svc := f.bookingService("2026-08-31")

	booking, _, err := svc.Create(f.bookingInput(t, "2026-08-31", "2026-08-31", "1", models.ServiceMorning, 1))
	require.NoError(t, err)

	// Same day: still active.
	got, err := svc.Get(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingActive, got.Status)

	// Read a week later: the window has passed, so the booking expires
	// into completed and the change persists.
	later := f.bookingService("2026-09-07")
	got, err = later.Get(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, got.Status)

	var stored models.Booking
	require.NoError(t, f.DB.First(&stored, booking.ID).Error)
	assert.Equal(t, models.BookingCompleted, stored.Status)
}

func TestBookingLazyExpiryOnList(t *testing.T) {
	f := newFixture(t)
	svc := f.bookingService("2026-08-31")

	booking, _, err := svc.Create(f.bookingInput(t, "2026-08-31", "2026-08-31", "1", models.ServiceMorning, 1))
	require.NoError(t, err)

	later := f.bookingService("2026-09-07")
	list, err := later.List(BookingFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, booking.ID, list[0].ID)
	assert.Equal(t, models.BookingCompleted, list[0].Status)
}

func TestUpdateStatusCancel(t *testing.T) {
	f := newFixture(t)
	svc := f.bookingService("2026-08-31")

	booking, created, err := svc.Create(f.bookingInput(t, "2026-08-31", "2026-09-04", "1,2,3,4,5", models.ServiceMorning, 1))
	require.NoError(t, err)
	require.Equal(t, 5, created)

	// Cancel mid-week: Wednesday onward is cancelled, Monday and Tuesday
	// keep whatever state they reached.
	wednesday := f.bookingService("2026-09-02")
	got, err := wednesday.UpdateStatus(booking.ID, models.BookingCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, got.Status)

	counts := TripCounts(got.Trips)
	assert.Equal(t, 2, counts[models.TripScheduled]) // Mon, Tue already past
	assert.Equal(t, 3, counts[models.TripCancelled]) // Wed, Thu, Fri

	// A second transition conflicts.
	_, err = wednesday.UpdateStatus(booking.ID, models.BookingCompleted)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUpdateStatusComplete(t *testing.T) {
	f := newFixture(t)
	svc := f.bookingService("2026-08-31")

	booking, _, err := svc.Create(f.bookingInput(t, "2026-08-31", "2026-09-04", "1,2,3,4,5", models.ServiceMorning, 1))
	require.NoError(t, err)

	got, err := svc.UpdateStatus(booking.ID, models.BookingCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, got.Status)

	counts := TripCounts(got.Trips)
	assert.Equal(t, 5, counts[models.TripCompleted])
	assert.Equal(t, 0, counts[models.TripScheduled])
}

func TestUpdateStatusValidation(t *testing.T) {
	f := newFixture(t)
	svc := f.bookingService("2026-08-31")

	booking, _, err := svc.Create(f.bookingInput(t, "2026-08-31", "2026-08-31", "1", models.ServiceMorning, 1))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(booking.ID, "active")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateStatus(9999, models.BookingCancelled)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteBooking(t *testing.T) {
	f := newFixture(t)
	svc := f.bookingService("2026-08-31")

	booking, _, err := svc.Create(f.bookingInput(t, "2026-08-31", "2026-09-04", "1,2,3,4,5", models.ServiceMorning, 1))
	require.NoError(t, err)

	// Active bookings refuse deletion.
	err = svc.Delete(booking.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = svc.UpdateStatus(booking.ID, models.BookingCancelled)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(booking.ID))

	_, err = svc.Get(booking.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var tripCount int64
	require.NoError(t, f.DB.Model(&models.Trip{}).Where("booking_id = ?", booking.ID).Count(&tripCount).Error)
	assert.Zero(t, tripCount)

	err = svc.Delete(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
