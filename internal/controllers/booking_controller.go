package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"shule_ride/internal/config"
	"shule_ride/internal/models"
	"shule_ride/internal/services"
)

const dateLayout = "2006-01-02"

func bookingService() *services.BookingService {
	return &services.BookingService{DB: config.DB}
}

// respondServiceError logs a service-layer failure and renders it with
// the status the error taxonomy assigns.
func respondServiceError(c *gin.Context, op string, err error) {
	status := services.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		logrus.WithError(err).Error(op + ": unexpected failure")
	} else {
		logrus.WithError(err).Warn(op + ": rejected")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// serializeBooking renders a booking with its embedded trips and trip
// counts by status. Trip endpoints are derived per service time, so
// evening trips show the school → home direction.
func serializeBooking(b *models.Booking) gin.H {
	trips := make([]gin.H, 0, len(b.Trips))
	for i := range b.Trips {
		trips = append(trips, serializeBookingTrip(&b.Trips[i], b))
	}
	return gin.H{
		"id":                  b.ID,
		"user_id":             b.UserID,
		"user_name":           b.User.Name,
		"route_id":            b.RouteID,
		"pickup_location_id":  b.PickupLocationID,
		"pickup_location":     b.PickupLocation.Name,
		"dropoff_location_id": b.DropoffLocationID,
		"dropoff_location":    b.DropoffLocation.Name,
		"start_date":          b.StartDate.Format(dateLayout),
		"end_date":            b.EndDate.Format(dateLayout),
		"days_of_week":        b.DaysOfWeek,
		"service_type":        b.ServiceType,
		"seats_booked":        b.SeatsBooked,
		"status":              b.Status,
		"trips":               trips,
		"trip_counts":         services.TripCounts(b.Trips),
	}
}

func serializeBookingTrip(t *models.Trip, b *models.Booking) gin.H {
	ep := services.EffectiveEndpoints(t.ServiceTime, b)
	return gin.H{
		"trip_id":             t.ID,
		"trip_date":           t.TripDate.Format(dateLayout),
		"service_time":        t.ServiceTime,
		"status":              t.Status,
		"actual_pickup_time":  t.ActualPickupTime,
		"actual_dropoff_time": t.ActualDropoffTime,
		"driver_notes":        t.DriverNotes,
		"pickup_location_id":  ep.PickupID,
		"pickup_location":     ep.PickupName,
		"dropoff_location_id": ep.DropoffID,
		"dropoff_location":    ep.DropoffName,
	}
}

// CreateBooking handles POST /bookings: validates, checks capacity and
// expands the booking into trips in one shot.
func CreateBooking(c *gin.Context) {
	var input struct {
		UserID            uint   `json:"user_id" binding:"required"`
		RouteID           uint   `json:"route_id" binding:"required"`
		PickupLocationID  uint   `json:"pickup_location_id" binding:"required"`
		DropoffLocationID uint   `json:"dropoff_location_id" binding:"required"`
		StartDate         string `json:"start_date" binding:"required"`
		EndDate           string `json:"end_date" binding:"required"`
		DaysOfWeek        string `json:"days_of_week" binding:"required"`
		ServiceType       string `json:"service_type" binding:"required"`
		SeatsBooked       int    `json:"seats_booked" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking input: " + err.Error()})
		return
	}

	start, err := time.Parse(dateLayout, input.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be formatted YYYY-MM-DD"})
		return
	}
	end, err := time.Parse(dateLayout, input.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be formatted YYYY-MM-DD"})
		return
	}

	booking, created, err := bookingService().Create(services.CreateBookingInput{
		UserID:            input.UserID,
		RouteID:           input.RouteID,
		PickupLocationID:  input.PickupLocationID,
		DropoffLocationID: input.DropoffLocationID,
		StartDate:         start,
		EndDate:           end,
		DaysOfWeek:        input.DaysOfWeek,
		ServiceType:       input.ServiceType,
		SeatsBooked:       input.SeatsBooked,
	})
	if err != nil {
		respondServiceError(c, "CreateBooking", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"booking":       serializeBooking(booking),
		"trips_created": created,
	})
}

// ListBookings handles GET /bookings?user_id=&route_id=&status=.
func ListBookings(c *gin.Context) {
	var filter services.BookingFilter
	if v := c.Query("user_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id must be an integer"})
			return
		}
		filter.UserID = uint(id)
	}
	if v := c.Query("route_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "route_id must be an integer"})
			return
		}
		filter.RouteID = uint(id)
	}
	filter.Status = c.Query("status")

	bookings, err := bookingService().List(filter)
	if err != nil {
		respondServiceError(c, "ListBookings", err)
		return
	}

	out := make([]gin.H, 0, len(bookings))
	for i := range bookings {
		out = append(out, serializeBooking(&bookings[i]))
	}
	c.JSON(http.StatusOK, gin.H{"bookings": out})
}

// GetBooking handles GET /bookings/:id.
func GetBooking(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	booking, err := bookingService().Get(uint(id))
	if err != nil {
		respondServiceError(c, "GetBooking", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": serializeBooking(booking)})
}

// PatchBooking handles PATCH /bookings/:id with body {"status": ...}.
func PatchBooking(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}

	booking, err := bookingService().UpdateStatus(uint(id), input.Status)
	if err != nil {
		respondServiceError(c, "PatchBooking", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": serializeBooking(booking)})
}

// DeleteBooking handles DELETE /bookings/:id. Only cancelled or
// completed bookings can be removed; their trips go with them.
func DeleteBooking(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	if err := bookingService().Delete(uint(id)); err != nil {
		respondServiceError(c, "DeleteBooking", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking deleted"})
}
