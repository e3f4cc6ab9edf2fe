package routes

import (
	"shule_ride/internal/controllers"
	"shule_ride/internal/middleware"

	"github.com/gin-gonic/gin"
)

func TripRoutes(r *gin.Engine) {
	trips := r.Group("/trips")
	trips.Use(middleware.RequireAuth())
	{
		trips.GET("/today", controllers.TodayTrips)
	}

	driverTrips := r.Group("/trips")
	driverTrips.Use(middleware.RequireAuthWithRole("driver"))
	{
		driverTrips.PATCH("/:id/pickup", controllers.PickupTrip)
		driverTrips.PATCH("/:id/dropoff", controllers.DropoffTrip)
	}
}
