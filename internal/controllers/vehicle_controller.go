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

// CreateVehicle assigns a new vehicle to a route and a driver.
func CreateVehicle(c *gin.Context) {
	var input struct {
		RouteID      uint   `json:"route_id" binding:"required"`
		UserID       uint   `json:"user_id" binding:"required"`
		LicensePlate string `json:"license_plate" binding:"required"`
		VehicleModel string `json:"model"`
		Capacity     int    `json:"capacity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle input: " + err.Error()})
		return
	}
	if input.Capacity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "capacity must be a positive integer"})
		return
	}

	var route models.Route
	if err := config.DB.First(&route, input.RouteID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		return
	}
	var driver models.User
	if err := config.DB.First(&driver, input.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Driver not found"})
		return
	}
	if driver.Role != models.RoleDriver {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user is not a driver"})
		return
	}

	vehicle := models.Vehicle{
		RouteID:      input.RouteID,
		UserID:       input.UserID,
		LicensePlate: input.LicensePlate,
		VehicleModel: input.VehicleModel,
		Capacity:     input.Capacity,
	}
	if err := config.DB.Create(&vehicle).Error; err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "license plate already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create vehicle: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"vehicle": vehicle})
}

// ListVehicles returns all vehicles, optionally filtered by route or driver.
func ListVehicles(c *gin.Context) {
	q := config.DB
	if v := c.Query("route_id"); v != "" {
		routeID, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "route_id must be an integer"})
			return
		}
		q = q.Where("route_id = ?", routeID)
	}
	if v := c.Query("user_id"); v != "" {
		userID, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id must be an integer"})
			return
		}
		q = q.Where("user_id = ?", userID)
	}

	var vehicles []models.Vehicle
	if err := q.Find(&vehicles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing vehicles: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": vehicles})
}

// GetVehicle returns one vehicle by id.
func GetVehicle(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle ID"})
		return
	}

	var vehicle models.Vehicle
	if err := config.DB.First(&vehicle, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}

// UpdateVehicle applies a partial update to a vehicle.
func UpdateVehicle(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle ID"})
		return
	}

	var vehicle models.Vehicle
	if err := config.DB.First(&vehicle, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		return
	}

	var input struct {
		RouteID      *uint   `json:"route_id"`
		UserID       *uint   `json:"user_id"`
		LicensePlate *string `json:"license_plate"`
		VehicleModel *string `json:"model"`
		Capacity     *int    `json:"capacity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid update"})
		return
	}

	if input.RouteID != nil {
		var route models.Route
		if err := config.DB.First(&route, *input.RouteID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
			return
		}
		vehicle.RouteID = *input.RouteID
	}
	if input.UserID != nil {
		var driver models.User
		if err := config.DB.First(&driver, *input.UserID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Driver not found"})
			return
		}
		if driver.Role != models.RoleDriver {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user is not a driver"})
			return
		}
		vehicle.UserID = *input.UserID
	}
	if input.LicensePlate != nil {
		vehicle.LicensePlate = *input.LicensePlate
	}
	if input.VehicleModel != nil {
		vehicle.VehicleModel = *input.VehicleModel
	}
	if input.Capacity != nil {
		if *input.Capacity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "capacity must be a positive integer"})
			return
		}
		vehicle.Capacity = *input.Capacity
	}

	if err := config.DB.Save(&vehicle).Error; err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "license plate already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}

// DeleteVehicle removes a vehicle from its route.
func DeleteVehicle(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle ID"})
		return
	}

	var vehicle models.Vehicle
	if err := config.DB.First(&vehicle, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	config.DB.Delete(&vehicle)
	c.JSON(http.StatusOK, gin.H{"message": "Vehicle deleted"})
}
