package routes

import (
	"shule_ride/internal/controllers"
	"shule_ride/internal/middleware"

	"github.com/gin-gonic/gin"
)

func LocationRoutes(r *gin.Engine) {
	pickup := r.Group("/pickup-locations")
	pickup.Use(middleware.RequireAuth())
	{
		pickup.GET("", controllers.ListPickupLocations)
		pickup.GET("/:id", controllers.GetPickupLocation)
	}

	// Admins manage stops; parents may suggest them too, matching the
	// operator's onboarding flow.
	pickupAdmin := r.Group("/pickup-locations")
	pickupAdmin.Use(middleware.RequireAuthWithRole("admin", "parent"))
	{
		pickupAdmin.POST("", controllers.CreatePickupLocation)
		pickupAdmin.POST("/bulk", controllers.BulkCreatePickupLocations)
		pickupAdmin.PATCH("/:id", controllers.UpdatePickupLocation)
		pickupAdmin.DELETE("/:id", controllers.DeletePickupLocation)
	}

	school := r.Group("/school-locations")
	school.Use(middleware.RequireAuth())
	{
		school.GET("/all", controllers.ListSchoolLocations)
		school.GET("/:id", controllers.GetSchoolLocation)
	}

	schoolAdmin := r.Group("/school-locations")
	schoolAdmin.Use(middleware.RequireAuthWithRole("admin", "parent"))
	{
		schoolAdmin.POST("", controllers.CreateSchoolLocation)
		schoolAdmin.PUT("/:id", controllers.UpdateSchoolLocation)
		schoolAdmin.DELETE("/:id", controllers.DeleteSchoolLocation)
	}
}
