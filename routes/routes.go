package routes

import (
	"swiftaid/internal/handlers"
	"swiftaid/internal/middleware"
	"swiftaid/pkg/websocket"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires the dispatch API. All routes require the identity
// provider's JWT; role guards narrow the user, driver and admin surfaces.
func SetupRoutes(r *gin.RouterGroup, jwtSecret string, requestHandler *handlers.RequestHandler, driverHandler *handlers.DriverHandler, adminHandler *handlers.AdminHandler, wsHandler *websocket.Handler) {
	// WebSocket event stream
	r.GET("/ws", middleware.AuthRequired(jwtSecret), wsHandler.HandleWebSocket)

	// User routes
	requests := r.Group("/requests")
	requests.Use(middleware.AuthRequired(jwtSecret))
	{
		requests.POST("", middleware.UserRequired(), requestHandler.CreateRequest)
		requests.GET("/mine", requestHandler.GetMyRequests)
		requests.GET("/:id", requestHandler.GetRequest)
		requests.POST("/:id/rate", middleware.UserRequired(), requestHandler.RateService)

		// Chat rides along with the request
		requests.POST("/:id/messages", requestHandler.SendMessage)
		requests.GET("/:id/messages", requestHandler.GetChatHistory)
	}

	// Driver routes
	driver := r.Group("/driver")
	driver.Use(middleware.AuthRequired(jwtSecret), middleware.DriverRequired())
	{
		driver.GET("/profile", driverHandler.GetProfile)
		driver.PUT("/availability", driverHandler.UpdateAvailability)
		driver.PUT("/schedule", driverHandler.UpdateSchedule)
		driver.PUT("/location", driverHandler.UpdateLocation)
		driver.GET("/jobs", driverHandler.GetMyJobs)
		driver.POST("/jobs/:id/start", driverHandler.StartJob)
		driver.POST("/jobs/:id/complete", driverHandler.CompleteJob)
	}

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthRequired(jwtSecret), middleware.AdminRequired())
	{
		admin.GET("/requests", adminHandler.ListRequests)
		admin.POST("/requests/:id/assign", adminHandler.AssignDriver)
		admin.GET("/drivers", adminHandler.ListDrivers)
		admin.GET("/drivers/available", adminHandler.ListAvailableDrivers)
		admin.GET("/stats", adminHandler.GetDashboardStats)
	}
}
