package main

import (
	"log"
	"net/http"

	"shule_ride/internal/config"
	"shule_ride/internal/logger"
	"shule_ride/internal/middleware"
	"shule_ride/internal/routes"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database
	config.InitDB()

	// Setup Gin router (recovery + request logging live inside)
	r := routes.SetupRouter()

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	log.Println("🚌 Server running at :8080")
	log.Fatal(http.ListenAndServe("0.0.0.0:8080", handler))
}
