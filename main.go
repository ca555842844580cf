package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Abhishekabysm/dynamic-survey-builder/internal/cache"
	"github.com/Abhishekabysm/dynamic-survey-builder/internal/config"
	"github.com/Abhishekabysm/dynamic-survey-builder/internal/database"
	"github.com/Abhishekabysm/dynamic-survey-builder/internal/editor"
	"github.com/Abhishekabysm/dynamic-survey-builder/internal/handlers"
	logger "github.com/Abhishekabysm/dynamic-survey-builder/internal/logging"
	"github.com/Abhishekabysm/dynamic-survey-builder/internal/repository"
	"github.com/Abhishekabysm/dynamic-survey-builder/internal/router"
	"github.com/Abhishekabysm/dynamic-survey-builder/internal/services"
)

func main() {
	// Load configuration first so the logger picks up the logging section.
	if err := config.Init("."); err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	// Initialize Logger
	log, err := logger.Init(".")
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()
	log.Info("Configuration loaded successfully")

	// Hot-reload config changes, reported through the real logger.
	config.Watch(log)

	// Initialize Database
	db, err := database.Init(log)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}

	// Repositories over the database
	users := repository.NewUserRepository(db)
	surveys := repository.NewSurveyRepository(db)
	responses := repository.NewResponseRepository(db)

	// Optional Redis cache for derived response counts
	counts := cache.New(
		config.Conf.Redis.Addr,
		time.Duration(config.Conf.Redis.CountTTLSeconds)*time.Second,
		log,
	)
	defer counts.Close()

	// Services and editing sessions
	email := services.NewEmailService(log)
	submission := services.NewSubmissionService(responses)
	drafts := editor.NewManager()

	// Background count warming, stopped on shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	warmer := services.NewCountWarmer(log, surveys, responses, counts)
	warmer.Start(ctx)

	// Setup router, passing the logger to it
	r := router.Setup(log, router.Handlers{
		Auth:    handlers.NewAuthHandler(log, users, email, drafts),
		Drafts:  handlers.NewDraftHandler(log, surveys, drafts),
		Surveys: handlers.NewSurveyHandler(log, surveys, responses, counts),
		Public:  handlers.NewPublicHandler(log, surveys, submission, counts),
		Results: handlers.NewResultsHandler(log, surveys, responses),
		Users:   users,
	})

	// Start the Gin server
	port := ":" + config.Conf.Server.Port
	log.Info("Server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}
