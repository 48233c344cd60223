package main

import (
	"log"

	"transit-hub/cmd"
	"transit-hub/internal/data/repository"
	"transit-hub/internal/queue"
	"transit-hub/internal/usecase"
	"transit-hub/internal/wire"
	"transit-hub/pkg/cache"
	"transit-hub/pkg/database"
	"transit-hub/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Event publisher and notification consumer. The app runs without a
	// broker; events are simply skipped.
	var publisher usecase.EventPublisher
	if p, err := queue.NewPublisher(config.RabbitMQ.URL, logger); err != nil {
		logger.Warn("RabbitMQ unavailable, events disabled", zap.Error(err))
	} else {
		publisher = p
		defer p.Close()
		go queue.StartConsumer(config.RabbitMQ.URL, logger)
	}

	// Availability snapshot cache. Optional as well.
	var availability usecase.AvailabilityCache
	if c, err := cache.NewAvailabilityCache(config.Redis.Addr, config.Redis.Password, config.Redis.DB, logger); err != nil {
		logger.Warn("Redis unavailable, availability cache disabled", zap.Error(err))
	} else {
		availability = c
		defer c.Close()
	}

	gateway := usecase.NewSimulatedGateway()

	// Wire all dependencies
	app := wire.Wiring(repos, config, publisher, availability, gateway, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
