package controllers

import (
	"encoding/binary"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"shule_ride/internal/config"
	"shule_ride/internal/models"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// RouteResponse mirrors models.Route but carries the corridor geometry
// as a GeoJSON string for API output.
type RouteResponse struct {
	ID              uint                    `json:"id"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
	Name            string                  `json:"name"`
	StartingPoint   string                  `json:"starting_point"`
	EndingPoint     string                  `json:"ending_point"`
	StartGPS        string                  `json:"start_gps"`
	EndGPS          string                  `json:"end_gps"`
	PickupRadius    float64                 `json:"pickup_radius"`
	Geometry        string                  `json:"geometry"`
	PickupLocations []models.PickupLocation `json:"pickup_locations"`
	SchoolLocations []models.SchoolLocation `json:"school_locations"`
	Vehicles        []models.Vehicle        `json:"vehicles"`
}

func toRouteResponse(route models.Route) RouteResponse {
	jsonGeom, _ := convertWKBToGeoJSON(route.Geometry)
	return RouteResponse{
		ID:              route.ID,
		CreatedAt:       route.CreatedAt,
		UpdatedAt:       route.UpdatedAt,
		Name:            route.Name,
		StartingPoint:   route.StartingPoint,
		EndingPoint:     route.EndingPoint,
		StartGPS:        route.StartGPS,
		EndGPS:          route.EndGPS,
		PickupRadius:    route.PickupRadius,
		Geometry:        jsonGeom,
		PickupLocations: route.PickupLocations,
		SchoolLocations: route.SchoolLocations,
		Vehicles:        route.Vehicles,
	}
}

// parseAndConvertGeometry parses a GeoJSON string into WKB bytes for storage.
func parseAndConvertGeometry(raw string) ([]byte, error) {
	if raw == "" {
		return nil, nil
	}
	var g geom.T
	if err := gjson.Unmarshal([]byte(raw), &g); err != nil {
		return nil, err
	}
	return wkb.Marshal(g, binary.LittleEndian)
}

// convertWKBToGeoJSON converts stored WKB bytes back into a GeoJSON string.
func convertWKBToGeoJSON(wkbBytes []byte) (string, error) {
	if len(wkbBytes) == 0 {
		return "", nil
	}
	g, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return "", err
	}
	b, err := gjson.Marshal(g)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CreateRoute creates a route, optionally with a GeoJSON corridor.
func CreateRoute(c *gin.Context) {
	var input struct {
		Name          string  `json:"name" binding:"required"`
		StartingPoint string  `json:"starting_point" binding:"required"`
		EndingPoint   string  `json:"ending_point" binding:"required"`
		StartGPS      string  `json:"start_gps"`
		EndGPS        string  `json:"end_gps"`
		PickupRadius  float64 `json:"pickup_radius"`
		Geometry      string  `json:"geometry"` // GeoJSON LineString
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("CreateRoute: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	wkbGeom, err := parseAndConvertGeometry(input.Geometry)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid geometry: " + err.Error()})
		return
	}

	route := models.Route{
		Name:          input.Name,
		StartingPoint: input.StartingPoint,
		EndingPoint:   input.EndingPoint,
		StartGPS:      input.StartGPS,
		EndGPS:        input.EndGPS,
		PickupRadius:  input.PickupRadius,
		Geometry:      wkbGeom,
	}
	if err := config.DB.Create(&route).Error; err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "route name already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create route failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"route": toRouteResponse(route)})
}

// ListRoutes returns all routes with their stops, schools and vehicles.
func ListRoutes(c *gin.Context) {
	var routes []models.Route
	if err := config.DB.
		Preload("PickupLocations").
		Preload("SchoolLocations").
		Preload("Vehicles").
		Find(&routes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing routes: " + err.Error()})
		return
	}

	routeResponses := make([]RouteResponse, 0, len(routes))
	for _, r := range routes {
		routeResponses = append(routeResponses, toRouteResponse(r))
	}
	c.JSON(http.StatusOK, gin.H{"routes": routeResponses})
}

// GetRoute returns a single route with its stops, schools and vehicles.
func GetRoute(c *gin.Context) {
	rID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid route ID"})
		return
	}

	var route models.Route
	if err := config.DB.
		Preload("PickupLocations").
		Preload("SchoolLocations").
		Preload("Vehicles").
		First(&route, rID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"route": toRouteResponse(route)})
}

// UpdateRoute applies a partial update to a route.
func UpdateRoute(c *gin.Context) {
	rID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid route ID"})
		return
	}

	var existingRoute models.Route
	if err := config.DB.First(&existingRoute, rID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		} else {
			logrus.WithError(err).Error("UpdateRoute: database error fetching route")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	var input routeUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("UpdateRoute: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := applyRouteUpdates(&existingRoute, &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := config.DB.Save(&existingRoute).Error; err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "route name already exists"})
			return
		}
		logrus.WithError(err).Error("UpdateRoute: failed to save updated route")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"route": toRouteResponse(existingRoute)})
}

type routeUpdateInput struct {
	Name          *string  `json:"name"`
	StartingPoint *string  `json:"starting_point"`
	EndingPoint   *string  `json:"ending_point"`
	StartGPS      *string  `json:"start_gps"`
	EndGPS        *string  `json:"end_gps"`
	PickupRadius  *float64 `json:"pickup_radius"`
	Geometry      *string  `json:"geometry"`
}

func applyRouteUpdates(route *models.Route, input *routeUpdateInput) error {
	if input.Name != nil {
		route.Name = *input.Name
	}
	if input.StartingPoint != nil {
		route.StartingPoint = *input.StartingPoint
	}
	if input.EndingPoint != nil {
		route.EndingPoint = *input.EndingPoint
	}
	if input.StartGPS != nil {
		route.StartGPS = *input.StartGPS
	}
	if input.EndGPS != nil {
		route.EndGPS = *input.EndGPS
	}
	if input.PickupRadius != nil {
		route.PickupRadius = *input.PickupRadius
	}
	if input.Geometry != nil {
		if *input.Geometry == "" {
			route.Geometry = nil
		} else {
			wkbGeom, err := parseAndConvertGeometry(*input.Geometry)
			if err != nil {
				return errors.New("Invalid geometry: " + err.Error())
			}
			route.Geometry = wkbGeom
		}
	}
	return nil
}

// DeleteRoute removes a route along with its stops and school
// destinations. Routes with bookings on record cannot be removed.
func DeleteRoute(c *gin.Context) {
	rID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid route ID"})
		return
	}

	var route models.Route
	if err := config.DB.First(&route, rID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	var bookings int64
	if err := config.DB.Model(&models.Booking{}).Where("route_id = ?", route.ID).Count(&bookings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if bookings > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete a route with bookings", "bookings": bookings})
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	if err := tx.Where("route_id = ?", route.ID).Delete(&models.PickupLocation{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete pickup locations: " + err.Error()})
		return
	}
	if err := tx.Where("route_id = ?", route.ID).Delete(&models.SchoolLocation{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete school locations: " + err.Error()})
		return
	}
	if err := tx.Delete(&route).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete route: " + err.Error()})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction commit failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Route deleted successfully"})
}
