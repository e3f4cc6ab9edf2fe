package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shule_ride/internal/config"
	"shule_ride/internal/models"
	"shule_ride/internal/services"
)

func tripService() *services.TripService {
	return &services.TripService{DB: config.DB}
}

// serializeTrip renders a trip with the booking details a driver needs.
// Pickup/dropoff reflect the trip's direction: evening runs show the
// school → home pair.
func serializeTrip(t *models.Trip) gin.H {
	out := gin.H{
		"trip_id":             t.ID,
		"booking_id":          t.BookingID,
		"trip_date":           t.TripDate.Format(dateLayout),
		"service_time":        t.ServiceTime,
		"status":              t.Status,
		"actual_pickup_time":  t.ActualPickupTime,
		"actual_dropoff_time": t.ActualDropoffTime,
		"driver_notes":        t.DriverNotes,
	}
	if b := t.Booking; b != nil {
		ep := services.EffectiveEndpoints(t.ServiceTime, b)
		out["child_name"] = b.User.Name
		out["seats_booked"] = b.SeatsBooked
		out["pickup_location_id"] = ep.PickupID
		out["pickup_location"] = ep.PickupName
		out["dropoff_location_id"] = ep.DropoffID
		out["dropoff_location"] = ep.DropoffName
	}
	return out
}

// TodayTrips handles GET /trips/today?vehicle_id=&service_time=, the
// driver's daily checklist for one run.
func TodayTrips(c *gin.Context) {
	vehicleParam := c.Query("vehicle_id")
	if vehicleParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "vehicle_id is required"})
		return
	}
	vehicleID, err := strconv.ParseUint(vehicleParam, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "vehicle_id must be an integer"})
		return
	}
	serviceTime := c.Query("service_time")
	if serviceTime == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "service_time is required"})
		return
	}

	summary, err := tripService().TodaysTrips(uint(vehicleID), serviceTime)
	if err != nil {
		respondServiceError(c, "TodayTrips", err)
		return
	}

	trips := make([]gin.H, 0, len(summary.Trips))
	for i := range summary.Trips {
		trips = append(trips, serializeTrip(&summary.Trips[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"date":            summary.Date,
		"service_time":    summary.ServiceTime,
		"vehicle_id":      summary.VehicleID,
		"trips":           trips,
		"total_expected":  summary.TotalExpected,
		"total_picked_up": summary.TotalPickedUp,
		"total_pending":   summary.TotalPending,
	})
}

// PickupTrip handles PATCH /trips/:id/pickup.
func PickupTrip(c *gin.Context) {
	tripTransition(c, "PickupTrip", "Child marked as picked up", tripService().MarkPickedUp)
}

// DropoffTrip handles PATCH /trips/:id/dropoff.
func DropoffTrip(c *gin.Context) {
	tripTransition(c, "DropoffTrip", "Child marked as dropped off", tripService().MarkDroppedOff)
}

func tripTransition(c *gin.Context, op, message string, apply func(uint, string) (*models.Trip, error)) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip ID"})
		return
	}

	// Notes are optional; an empty body is fine.
	var input struct {
		DriverNotes string `json:"driver_notes"`
	}
	_ = c.ShouldBindJSON(&input)

	trip, err := apply(uint(id), input.DriverNotes)
	if err != nil {
		respondServiceError(c, op, err)
		return
	}

	out := serializeTrip(trip)
	out["message"] = message
	c.JSON(http.StatusOK, out)
}
