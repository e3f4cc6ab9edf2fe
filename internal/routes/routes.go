package routes

import (
	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.New()

	// Recovery and request logging must be attached before any routes.
	r.Use(gin.Recovery())
	r.Use(ginlog.SetLogger())

	AuthRoutes(r)
	AdminRoutes(r)
	RouteRoutes(r)
	LocationRoutes(r)
	VehicleRoutes(r)
	BookingRoutes(r)
	TripRoutes(r)

	return r
}
