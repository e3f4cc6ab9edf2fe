package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shule_ride/internal/models"
)

func TestCheckCapacityWorstDay(t *testing.T) {
	f := newFixture(t)
	svc := f.bookingService("2026-08-31")

	// Existing booking holds 10 of the 14 seats Mon-Fri.
	_, _, err := svc.Create(f.bookingInput(t, "2026-08-31", "2026-09-04", "1,2,3,4,5", models.ServiceMorning, 10))
	require.NoError(t, err)

	capSvc := &CapacityService{DB: f.DB}

	ok, available, err := capSvc.CheckCapacity(f.Route.ID, mustDate(t, "2026-09-02"), mustDate(t, "2026-09-02"), 5)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 4, available)

	ok, available, err = capSvc.CheckCapacity(f.Route.ID, mustDate(t, "2026-09-02"), mustDate(t, "2026-09-02"), 4)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 4, available)

	// The weekend carries no trips, so the full vehicle is free.
	ok, available, err = capSvc.CheckCapacity(f.Route.ID, mustDate(t, "2026-09-05"), mustDate(t, "2026-09-06"), 14)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 14, available)

	// A range spanning busy and free days binds on the busy day.
	ok, available, err = capSvc.CheckCapacity(f.Route.ID, mustDate(t, "2026-09-04"), mustDate(t, "2026-09-06"), 10)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 4, available)
}

func TestCheckCapacityIgnoresTerminalTrips(t *testing.T) {
	f := newFixture(t)
	svc := f.bookingService("2026-08-31")

	booking, _, err := svc.Create(f.bookingInput(t, "2026-08-31", "2026-08-31", "1", models.ServiceMorning, 10))
	require.NoError(t, err)

	// Cancelling releases the seats for that day.
	_, err = svc.UpdateStatus(booking.ID, models.BookingCancelled)
	require.NoError(t, err)

	capSvc := &CapacityService{DB: f.DB}
	ok, available, err := capSvc.CheckCapacity(f.Route.ID, mustDate(t, "2026-08-31"), mustDate(t, "2026-08-31"), 14)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 14, available)
}

func TestCheckCapacityNoVehicle(t *testing.T) {
	f := newFixture(t)

	bare := models.Route{Name: "Karen Loop", StartingPoint: "Karen", EndingPoint: "Hardy"}
	require.NoError(t, f.DB.Create(&bare).Error)

	capSvc := &CapacityService{DB: f.DB}
	_, _, err := capSvc.CheckCapacity(bare.ID, mustDate(t, "2026-08-31"), mustDate(t, "2026-08-31"), 1)
	assert.ErrorIs(t, err, ErrNoVehicle)
}
