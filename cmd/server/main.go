package main

import (
	"alcyxob/plants-manager/internal/api"
	"alcyxob/plants-manager/internal/config"
	"alcyxob/plants-manager/internal/jobs"
	"alcyxob/plants-manager/internal/repository"
	"alcyxob/plants-manager/internal/repository/memory"
	"alcyxob/plants-manager/internal/repository/mongo"
	"alcyxob/plants-manager/internal/service"
	"alcyxob/plants-manager/internal/storage"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// @title Plants Manager API
// @version 1.0
// @description API for tracking plants, their care schedules, treatments and growth.
// @host localhost:8080
// @BasePath /api/v1
func main() {
	log.Println("Starting Plants Manager Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Repositories ---
	var store repository.Store
	switch cfg.Database.Driver {
	case "memory":
		log.Println("WARN: Using the in-memory store, data is lost on restart.")
		store = memory.NewStore()
	default:
		dbClient, err := mongo.ConnectDB(cfg.Database.URI)
		if err != nil {
			log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
		}
		defer func() {
			log.Println("Disconnecting MongoDB...")
			if err := mongo.DisconnectDB(dbClient); err != nil {
				log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
			}
		}()
		appDB := dbClient.Database(cfg.Database.Name)
		log.Println("Database connection established.")

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			mongo.EnsureIndexes(ctx, appDB)
			log.Println("Index creation process completed.")
		}()
		store = mongo.NewStore(appDB)
	}

	// --- Storage ---
	var fileStorage storage.FileStorage
	if cfg.S3.BucketName != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		fileStorage, err = storage.NewS3Storage(ctx, cfg.S3)
		cancel()
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
		}
	} else {
		log.Println("WARN: No S3 bucket configured, photos are kept in memory.")
		fileStorage = storage.NewMemoryStorage()
	}

	// --- Services ---
	log.Println("Initializing services...")
	clock := service.SystemClock
	careService := service.NewCareService(store.Plants, store.CareSchedules, store.CareLogs, clock)
	notificationService := service.NewNotificationService(careService, store.Plants, store.Notifications, clock)
	services := api.Services{
		Locations:  service.NewLocationService(store.Locations, store.Plants),
		Plants:     service.NewPlantService(store, fileStorage),
		Care:       careService,
		Treatments: service.NewTreatmentService(store.Plants, store.Treatments, clock),
		Photos: service.NewPhotoService(store.Plants, store.Photos, store.GrowthLogs, fileStorage, service.PhotoOptions{
			MaxBytes:      cfg.Photos.MaxUploadBytes(),
			MaxPixels:     cfg.Photos.MaxPixels,
			ThumbnailSize: cfg.Photos.ThumbnailSize,
			URLExpiry:     cfg.Photos.URLExpiry,
		}),
		GrowthLogs:    service.NewGrowthLogService(store.Plants, store.Photos, store.GrowthLogs, clock),
		Notifications: notificationService,
		Dashboard:     service.NewDashboardService(careService, store.Plants, store.Treatments, clock),
		Timeline:      service.NewTimelineService(store),
	}

	// --- Background jobs ---
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler, err = jobs.NewScheduler(cfg.Jobs, cfg.Notifications.RetentionDays, notificationService, clock)
		if err != nil {
			log.Fatalf("FATAL: Could not schedule jobs: %v", err)
		}
		scheduler.Start()
		log.Printf("Jobs scheduled (sweep %q, cleanup %q).", cfg.Jobs.SweepCron, cfg.Jobs.CleanupCron)
	}

	// --- Gin Engine ---
	if cfg.Server.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	log.Println("Setting up API routes...")
	api.SetupRoutes(router, services, api.JobRoutesConfig{
		Secret:        cfg.Jobs.TokenSecret,
		RetentionDays: cfg.Notifications.RetentionDays,
		Now:           clock,
	})

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if scheduler != nil {
		scheduler.Stop(ctxShutdown)
	}
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Printf("ERROR: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
