package services

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"shule_ride/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Route{},
		&models.PickupLocation{},
		&models.SchoolLocation{},
		&models.Vehicle{},
		&models.Booking{},
		&models.Trip{},
	))
	return db
}

// fixture seeds one route with a 14-seat vehicle, a parent, a driver and
// a pickup/school pair.
type fixture struct {
	DB      *gorm.DB
	Parent  models.User
	Driver  models.User
	Route   models.Route
	Pickup  models.PickupLocation
	School  models.SchoolLocation
	Vehicle models.Vehicle
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{DB: setupTestDB(t)}

	f.Parent = models.User{Name: "Grace Kuria", Email: "grace@example.com", Password: "x", Role: models.RoleParent}
	require.NoError(t, f.DB.Create(&f.Parent).Error)

	f.Driver = models.User{Name: "Kipkemboi Kebut", Email: "kip@example.com", Password: "x", Role: models.RoleDriver}
	require.NoError(t, f.DB.Create(&f.Driver).Error)

	f.Route = models.Route{Name: "Westlands - Lavington", StartingPoint: "Westlands", EndingPoint: "Lavington"}
	require.NoError(t, f.DB.Create(&f.Route).Error)

	f.Pickup = models.PickupLocation{RouteID: f.Route.ID, Name: "Sarit Centre", GPSCoordinates: "-1.2605,36.8025"}
	require.NoError(t, f.DB.Create(&f.Pickup).Error)

	f.School = models.SchoolLocation{RouteID: f.Route.ID, Name: "Braeburn School", GPSCoordinates: "-1.2700,36.7700"}
	require.NoError(t, f.DB.Create(&f.School).Error)

	f.Vehicle = models.Vehicle{RouteID: f.Route.ID, UserID: f.Driver.ID, LicensePlate: "KDA 123A", VehicleModel: "Toyota Hiace", Capacity: 14}
	require.NoError(t, f.DB.Create(&f.Vehicle).Error)

	return f
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func fixedNow(s string) func() time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return func() time.Time { return d }
}

func (f *fixture) bookingService(today string) *BookingService {
	return &BookingService{DB: f.DB, Now: fixedNow(today)}
}

func (f *fixture) tripService(today string) *TripService {
	return &TripService{DB: f.DB, Now: fixedNow(today)}
}

// bookingInput builds a create request against the fixture's route.
// 2026-08-31 is a Monday; most tests anchor there.
func (f *fixture) bookingInput(t *testing.T, start, end, days, serviceType string, seats int) CreateBookingInput {
	t.Helper()
	return CreateBookingInput{
		UserID:            f.Parent.ID,
		RouteID:           f.Route.ID,
		PickupLocationID:  f.Pickup.ID,
		DropoffLocationID: f.School.ID,
		StartDate:         mustDate(t, start),
		EndDate:           mustDate(t, end),
		DaysOfWeek:        days,
		ServiceType:       serviceType,
		SeatsBooked:       seats,
	}
}
