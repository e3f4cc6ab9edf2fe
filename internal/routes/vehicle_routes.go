package routes

import (
	"shule_ride/internal/controllers"
	"shule_ride/internal/middleware"

	"github.com/gin-gonic/gin"
)

func VehicleRoutes(r *gin.Engine) {
	vehicles := r.Group("/vehicles")
	vehicles.Use(middleware.RequireAuth())
	{
		vehicles.GET("", controllers.ListVehicles)
		vehicles.GET("/:id", controllers.GetVehicle)
	}

	vehicleAdmin := r.Group("/vehicles")
	vehicleAdmin.Use(middleware.RequireAuthWithRole("admin"))
	{
		vehicleAdmin.POST("", controllers.CreateVehicle)
		vehicleAdmin.PUT("/:id", controllers.UpdateVehicle)
		vehicleAdmin.DELETE("/:id", controllers.DeleteVehicle)
	}
}
