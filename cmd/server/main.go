package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"peakform/coach-app/internal/api"
	"peakform/coach-app/internal/cache"
	"peakform/coach-app/internal/config"
	"peakform/coach-app/internal/repository/mongo"
	"peakform/coach-app/internal/service"
	"peakform/coach-app/internal/storage"
)

const lookupCacheTTL = 15 * time.Minute

func main() {
	log.SetFormatter(&log.JSONFormatter{})
	log.Info("starting coach app server")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.WithError(err).Fatal("could not load config")
	}

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.WithError(err).Fatal("could not connect to MongoDB")
	}
	defer func() {
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.WithError(err).Error("failed to disconnect MongoDB")
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.WithField("database", cfg.Database.Name).Info("database connection established")

	// --- Ensure Indexes ---
	// Index creation runs in the background; the unique completion index is
	// the one that matters for correctness and exists after first startup.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		ensure := []struct {
			collection string
			fn         func(context.Context, *mongodriver.Collection) error
		}{
			{"users", mongo.EnsureUserIndexes},
			{"exercises", mongo.EnsureExerciseIndexes},
			{"programs", mongo.EnsureProgramIndexes},
			{"workout_definitions", mongo.EnsureWorkoutDefinitionIndexes},
			{"enrollments", mongo.EnsureEnrollmentIndexes},
			{"completions", mongo.EnsureCompletionIndexes},
			{"set_logs", mongo.EnsureSetLogIndexes},
			{"progress_photos", mongo.EnsureProgressPhotoIndexes},
			{"personal_bests", mongo.EnsurePersonalBestIndexes},
		}
		for _, e := range ensure {
			if err := e.fn(ctx, appDB.Collection(e.collection)); err != nil {
				log.WithError(err).WithField("collection", e.collection).Error("index creation failed")
			}
		}
		log.Info("index creation process completed")
	}()

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize S3 storage")
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	programRepo := mongo.NewMongoProgramRepository(appDB)
	workoutDefRepo := mongo.NewMongoWorkoutDefinitionRepository(appDB)
	enrollmentRepo := mongo.NewMongoEnrollmentRepository(appDB)
	completionRepo := mongo.NewMongoCompletionRepository(appDB)
	setLogRepo := mongo.NewMongoSetLogRepository(appDB)
	streakRepo := mongo.NewMongoStreakStateRepository(appDB)
	photoRepo := mongo.NewMongoProgressPhotoRepository(appDB)
	bestRepo := mongo.NewMongoPersonalBestRepository(appDB)

	// --- Initialize Services ---
	lookupCache := cache.NewFreecache(cfg.Engine.LookupCacheMB, lookupCacheTTL)
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	exerciseService := service.NewExerciseService(exerciseRepo, lookupCache)
	coachService := service.NewCoachService(userRepo, programRepo, workoutDefRepo, enrollmentRepo)
	clientService := service.NewClientService(
		programRepo, workoutDefRepo, enrollmentRepo,
		completionRepo, setLogRepo, streakRepo,
		photoRepo, bestRepo, fileStorage, cfg.Engine,
	)

	// --- Initialize Gin Engine ---
	router := gin.Default()

	// --- Setup Routes ---
	api.SetupRoutes(router, cfg.JWT.Secret, authService, coachService, clientService, exerciseService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.WithField("address", cfg.Server.Address).Info("server starting")

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("listen and serve error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}

	log.Info("server exiting")
}
