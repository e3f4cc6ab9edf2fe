package routes

import (
	"shule_ride/internal/controllers"
	"shule_ride/internal/middleware"

	"github.com/gin-gonic/gin"
)

func BookingRoutes(r *gin.Engine) {
	bookings := r.Group("/bookings")
	bookings.Use(middleware.RequireAuth())
	{
		bookings.GET("", controllers.ListBookings)
		bookings.GET("/:id", controllers.GetBooking)
	}

	bookingWrites := r.Group("/bookings")
	bookingWrites.Use(middleware.RequireAuthWithRole("admin", "parent"))
	{
		bookingWrites.POST("", controllers.CreateBooking)
		bookingWrites.PATCH("/:id", controllers.PatchBooking)
		bookingWrites.DELETE("/:id", controllers.DeleteBooking)
	}
}
