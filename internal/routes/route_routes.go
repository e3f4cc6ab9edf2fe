package routes

import (
	"shule_ride/internal/controllers"
	"shule_ride/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RouteRoutes(r *gin.Engine) {
	routes := r.Group("/routes")
	routes.Use(middleware.RequireAuth())
	{
		routes.GET("", controllers.ListRoutes)
		routes.GET("/:id", controllers.GetRoute)
		routes.GET("/:id/pickup-locations", controllers.PickupLocationsByRoute)
	}

	adminRoutes := r.Group("/routes")
	adminRoutes.Use(middleware.RequireAuthWithRole("admin"))
	{
		adminRoutes.POST("", controllers.CreateRoute)
		adminRoutes.PUT("/:id", controllers.UpdateRoute)
		adminRoutes.DELETE("/:id", controllers.DeleteRoute)
	}
}
