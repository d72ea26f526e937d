package main

import (
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"freshpress-pos/internal/adapters/http/middleware"
	"freshpress-pos/internal/adapters/http/routes"
	"freshpress-pos/internal/adapters/persistence/models"
	"freshpress-pos/internal/config"
	"freshpress-pos/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if err := config.SetupLogger(&cfg.Log); err != nil {
		log.Fatal().Err(err).Msg("failed to set up logging")
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer config.CloseDatabase()

	if err := models.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to auto migrate")
	}

	seedStoreID, _ := strconv.Atoi(os.Getenv("SEED_STORE_ID"))
	if seedStoreID > 0 {
		if err := config.NewSeeder(db, uint(seedStoreID)).Run(); err != nil {
			log.Warn().Err(err).Msg("seeding failed")
		}
	}

	// Scheduler owns the captcha sweeper and the overdue alarm scan
	captchaService := services.NewCaptchaService()
	alarmService := services.NewAlarmService(db)
	cronService, err := services.NewCronService(captchaService, alarmService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up scheduler")
	}
	cronService.Start()
	defer cronService.Stop()

	app := fiber.New(fiber.Config{
		AppName:      "FreshPress POS API",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	middleware.Setup(app, cfg)
	routes.Setup(app, db, cfg, captchaService)

	go gracefulShutdown(app)

	log.Info().Str("port", cfg.Port).Str("mode", cfg.AppMode).Msg("server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("server stopped")
}
