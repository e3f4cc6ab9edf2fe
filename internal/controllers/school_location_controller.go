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

// CreateSchoolLocation adds a school destination to a route.
func CreateSchoolLocation(c *gin.Context) {
	var input struct {
		RouteID        uint   `json:"route_id" binding:"required"`
		Name           string `json:"name" binding:"required"`
		GPSCoordinates string `json:"gps_coordinates"`
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

	location := models.SchoolLocation{
		RouteID:        input.RouteID,
		Name:           input.Name,
		GPSCoordinates: input.GPSCoordinates,
	}
	if err := config.DB.Create(&location).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create school location: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"location": location})
}

// ListSchoolLocations returns every school destination.
func ListSchoolLocations(c *gin.Context) {
	var locations []models.SchoolLocation
	if err := config.DB.Find(&locations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": locations})
}

// GetSchoolLocation returns one school destination by id.
func GetSchoolLocation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid school location ID"})
		return
	}

	var location models.SchoolLocation
	if err := config.DB.First(&location, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "School location not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"location": location})
}

// UpdateSchoolLocation applies a partial update to a school destination.
func UpdateSchoolLocation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid school location ID"})
		return
	}

	var location models.SchoolLocation
	if err := config.DB.First(&location, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "School location not found"})
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
	c.JSON(http.StatusOK, gin.H{"location": location})
}

// DeleteSchoolLocation removes a school destination. It refuses while
// bookings still use it as a dropoff.
func DeleteSchoolLocation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid school location ID"})
		return
	}

	var location models.SchoolLocation
	if err := config.DB.First(&location, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "School location not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	var bookings int64
	if err := config.DB.Model(&models.Booking{}).Where("dropoff_location_id = ?", location.ID).Count(&bookings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if bookings > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":           "Cannot delete school location with active bookings",
			"active_bookings": bookings,
		})
		return
	}

	config.DB.Delete(&location)
	c.JSON(http.StatusOK, gin.H{"message": "School location deleted successfully"})
}
