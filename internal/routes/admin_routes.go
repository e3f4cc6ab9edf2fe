package routes

import (
	"shule_ride/internal/controllers"
	"shule_ride/internal/middleware"

	"github.com/gin-gonic/gin"
)

func AdminRoutes(r *gin.Engine) {
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAuthWithRole("admin"))
	{
		admin.POST("/drivers", controllers.CreateDriver)
		admin.GET("/drivers", controllers.ListDrivers)
		admin.POST("/admins", controllers.CreateAdmin)
		admin.GET("/users", controllers.ListUsers)
		admin.PUT("/users/:id", controllers.UpdateUser)
		admin.DELETE("/users/:id", controllers.DeleteUser)
	}
}
