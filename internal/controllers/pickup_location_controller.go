package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"shule_ride/internal/config"
	"shule_ride/internal/models"
)

// ListPickupLocations handles GET /pickup-locations?route_id=.
func ListPickupLocations(c *gin.Context) {
	q := config.DB.Preload("Route")
	if v := c.Query("route_id"); v != "" {
		routeID, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "route_id must be an integer"})
			return
		}
		q = q.Where("route_id = ?", routeID)
	}

	var locations []models.PickupLocation
	if err := q.Find(&locations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]gin.H, 0, len(locations))
	for _, loc := range locations {
		out = append(out, gin.H{
			"id":              loc.ID,
			"route_id":        loc.RouteID,
			"route_name":      loc.Route.Name,
			"name":            loc.Name,
			"gps_coordinates": loc.GPSCoordinates,
		})
	}
	c.JSON(http.StatusOK, gin.H{"pickup_locations": out})
}

// CreatePickupLocation adds a stop to an existing route.
func CreatePickupLocation(c *gin.Context) {
	var input struct {
		RouteID        uint   `json:"route_id" binding:"required"`
		Name           string `json:"name" binding:"required"`
		GPSCoordinates string `json:"gps_coordinates" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var route models.Route
	if err := config.DB.First(&route, input.RouteID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		return
	}

	location := models.PickupLocation{
		RouteID:        input.RouteID,
		Name:           input.Name,
		GPSCoordinates: input.GPSCoordinates,
	}
	if err := config.DB.Create(&location).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create pickup location: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"pickup_location": location})
}

// GetPickupLocation returns one stop, with the number of bookings
// referencing it.
func GetPickupLocation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pickup location ID"})
		return
	}

	var location models.PickupLocation
	if err := config.DB.Preload("Route").First(&location, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pickup location not found"})
		return
	}

	var bookings int64
	if err := config.DB.Model(&models.Booking{}).Where("pickup_location_id = ?", location.ID).Count(&bookings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"pickup_location": gin.H{
		"id":              location.ID,
		"route_id":        location.RouteID,
		"route_name":      location.Route.Name,
		"name":            location.Name,
		"gps_coordinates": location.GPSCoordinates,
		"bookings_count":  bookings,
	}})
}

// UpdatePickupLocation applies a partial update to a stop.
func UpdatePickupLocation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pickup location ID"})
		return
	}

	var location models.PickupLocation
	if err := config.DB.First(&location, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pickup location not found"})
		return
	}

	var input struct {
		RouteID        *uint   `json:"route_id"`
		Name           *string `json:"name"`
		GPSCoordinates *string `json:"gps_coordinates"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.RouteID != nil {
		var route models.Route
		if err := config.DB.First(&route, *input.RouteID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
			return
		}
		location.RouteID = *input.RouteID
	}
	if input.Name != nil {
		location.Name = *input.Name
	}
	if input.GPSCoordinates != nil {
		location.GPSCoordinates = *input.GPSCoordinates
	}

	if err := config.DB.Save(&location).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pickup_location": location})
}

// DeletePickupLocation removes a stop. It refuses while bookings still
// reference the stop.
func DeletePickupLocation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pickup location ID"})
		return
	}

	var location models.PickupLocation
	if err := config.DB.First(&location, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pickup location not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	var bookings int64
	if err := config.DB.Model(&models.Booking{}).Where("pickup_location_id = ?", location.ID).Count(&bookings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if bookings > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":           "Cannot delete pickup location with active bookings",
			"active_bookings": bookings,
		})
		return
	}

	config.DB.Delete(&location)
	c.JSON(http.StatusOK, gin.H{"message": "Pickup location deleted successfully"})
}

// PickupLocationsByRoute handles GET /routes/:id/pickup-locations.
func PickupLocationsByRoute(c *gin.Context) {
	routeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid route ID"})
		return
	}

	var route models.Route
	if err := config.DB.First(&route, routeID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		return
	}

	var locations []models.PickupLocation
	if err := config.DB.Where("route_id = ?", routeID).Find(&locations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"route":            gin.H{"id": route.ID, "name": route.Name},
		"pickup_locations": locations,
	})
}

// BulkCreatePickupLocations creates several stops on one route at once.
func BulkCreatePickupLocations(c *gin.Context) {
	var input struct {
		RouteID   uint `json:"route_id" binding:"required"`
		Locations []struct {
			Name           string `json:"name" binding:"required"`
			GPSCoordinates string `json:"gps_coordinates" binding:"required"`
		} `json:"locations" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var route models.Route
	if err := config.DB.First(&route, input.RouteID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		return
	}

	locations := make([]models.PickupLocation, 0, len(input.Locations))
	for _, loc := range input.Locations {
		locations = append(locations, models.PickupLocation{
			RouteID:        input.RouteID,
			Name:           loc.Name,
			GPSCoordinates: loc.GPSCoordinates,
		})
	}
	if len(locations) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "locations must not be empty"})
		return
	}

	if err := config.DB.Create(&locations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Bulk create failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":          strconv.Itoa(len(locations)) + " pickup locations created successfully",
		"pickup_locations": locations,
	})
}
