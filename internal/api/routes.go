package api

import (
	"net/http"

	"alcyxob/plants-manager/internal/domain"
	"alcyxob/plants-manager/internal/service"

	"github.com/gin-gonic/gin"
)

// Services bundles everything the routes delegate to.
type Services struct {
	Locations     service.LocationService
	Plants        service.PlantService
	Care          service.CareService
	Treatments    service.TreatmentService
	Photos        service.PhotoService
	GrowthLogs    service.GrowthLogService
	Notifications service.NotificationService
	Dashboard     service.DashboardService
	Timeline      service.TimelineService
}

// JobRoutesConfig enables the job trigger routes when Secret is set.
type JobRoutesConfig struct {
	Secret        string
	RetentionDays int
	Now           service.Clock
}

func SetupRoutes(router *gin.Engine, services Services, jobs JobRoutesConfig) {
	locationHandler := NewLocationHandler(services.Locations)
	plantHandler := NewPlantHandler(services.Plants, services.Timeline)
	treatmentHandler := NewTreatmentHandler(services.Treatments)
	photoHandler := NewPhotoHandler(services.Photos)
	growthHandler := NewGrowthLogHandler(services.GrowthLogs)
	notificationHandler := NewNotificationHandler(services.Notifications)
	dashboardHandler := NewDashboardHandler(services.Dashboard)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")

	locationGroup := apiV1.Group("/locations")
	{
		locationGroup.GET("", locationHandler.ListLocations)
		locationGroup.POST("", locationHandler.CreateLocation)
		locationGroup.GET("/:locationId", locationHandler.GetLocation)
		locationGroup.PUT("/:locationId", locationHandler.UpdateLocation)
		locationGroup.DELETE("/:locationId", locationHandler.DeleteLocation)
	}

	plantGroup := apiV1.Group("/plants")
	{
		plantGroup.GET("", plantHandler.ListPlants)
		plantGroup.POST("", plantHandler.CreatePlant)
		plantGroup.GET("/search", plantHandler.SearchPlants)
		plantGroup.GET("/by-acquisition-date", plantHandler.PlantsByAcquisitionDate)
		plantGroup.GET("/location/:locationId", plantHandler.PlantsByLocation)
		plantGroup.GET("/:plantId", plantHandler.GetPlant)
		plantGroup.PUT("/:plantId", plantHandler.UpdatePlant)
		plantGroup.DELETE("/:plantId", plantHandler.DeletePlant)
		plantGroup.GET("/:plantId/timeline", plantHandler.GetTimeline)
	}

	// Watering and fertilization share one route layout.
	for _, kind := range domain.CareKinds {
		careHandler := NewCareHandler(kind, services.Care)
		careGroup := apiV1.Group("/" + string(kind))
		{
			careGroup.GET("/schedules/:scheduleId", careHandler.GetSchedule)
			careGroup.PUT("/schedules/:scheduleId", careHandler.UpdateSchedule)
			careGroup.DELETE("/schedules/:scheduleId", careHandler.DeleteSchedule)
			careGroup.GET("/schedules/:scheduleId/next-date", careHandler.GetScheduleNextDate)
			careGroup.GET("/due", careHandler.GetDue)
			careGroup.GET("/plants/:plantId/schedules", careHandler.ListPlantSchedules)
			careGroup.POST("/plants/:plantId/schedules", careHandler.CreateSchedule)
			careGroup.GET("/plants/:plantId/logs", careHandler.ListPlantLogs)
			careGroup.POST("/plants/:plantId/logs", careHandler.CreateLog)
			careGroup.DELETE("/logs/:logId", careHandler.DeleteLog)
		}
	}

	treatmentGroup := apiV1.Group("/treatments")
	{
		treatmentGroup.GET("/active", treatmentHandler.ListActiveTreatments)
		treatmentGroup.GET("/plants/:plantId/treatments", treatmentHandler.ListPlantTreatments)
		treatmentGroup.POST("/plants/:plantId/treatments", treatmentHandler.CreateTreatment)
		treatmentGroup.GET("/:treatmentId", treatmentHandler.GetTreatment)
		treatmentGroup.PUT("/:treatmentId", treatmentHandler.UpdateTreatment)
		treatmentGroup.DELETE("/:treatmentId", treatmentHandler.DeleteTreatment)
		treatmentGroup.GET("/:treatmentId/applications", treatmentHandler.ListApplications)
		treatmentGroup.POST("/:treatmentId/applications", treatmentHandler.CreateApplication)
	}

	photoGroup := apiV1.Group("/photos")
	{
		photoGroup.GET("/plants/:plantId/photos", photoHandler.ListPlantPhotos)
		photoGroup.POST("/plants/:plantId/photos", photoHandler.UploadPhoto)
		photoGroup.GET("/:photoId", photoHandler.GetPhoto)
		photoGroup.GET("/:photoId/file", photoHandler.GetPhotoFile)
		photoGroup.PUT("/:photoId", photoHandler.UpdatePhoto)
		photoGroup.DELETE("/:photoId", photoHandler.DeletePhoto)
	}

	growthGroup := apiV1.Group("/growth-logs")
	{
		growthGroup.GET("/plants/:plantId/growth", growthHandler.ListPlantGrowthLogs)
		growthGroup.POST("/plants/:plantId/growth", growthHandler.CreateGrowthLog)
		growthGroup.GET("/:growthLogId", growthHandler.GetGrowthLog)
		growthGroup.PUT("/:growthLogId", growthHandler.UpdateGrowthLog)
		growthGroup.DELETE("/:growthLogId", growthHandler.DeleteGrowthLog)
	}

	notificationGroup := apiV1.Group("/notifications")
	{
		notificationGroup.GET("", notificationHandler.ListNotifications)
		notificationGroup.GET("/stats", notificationHandler.GetStats)
		notificationGroup.POST("/read-all", notificationHandler.MarkAllRead)
		notificationGroup.POST("/:notificationId/read", notificationHandler.MarkRead)
		notificationGroup.DELETE("/:notificationId", notificationHandler.DeleteNotification)
	}

	dashboardGroup := apiV1.Group("/dashboard")
	{
		dashboardGroup.GET("/overview", dashboardHandler.GetOverview)
		dashboardGroup.GET("/tasks", dashboardHandler.GetDueTasks)
		dashboardGroup.GET("/treatments/active", dashboardHandler.GetActiveTreatments)
		dashboardGroup.GET("/activities/recent", dashboardHandler.GetRecentActivities)
		dashboardGroup.GET("/calendar", dashboardHandler.GetCalendar)
	}

	// Without a secret nothing could authenticate, so the routes are left out.
	if jobs.Secret != "" {
		jobHandler := NewJobHandler(services.Notifications, jobs.RetentionDays, jobs.Now)
		jobGroup := apiV1.Group("/jobs")
		jobGroup.Use(JobTokenMiddleware(jobs.Secret))
		{
			jobGroup.POST("/notification-sweep", jobHandler.RunSweep)
			jobGroup.POST("/notification-cleanup", jobHandler.RunCleanup)
		}
	}
}
