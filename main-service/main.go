package main

import (
	"log"

	"flightlink/main-service/handler"
	"flightlink/shared/config"
	"flightlink/shared/constants"
	sharedlogger "flightlink/shared/logger"
	redisclient "flightlink/shared/redis"
	"flightlink/shared/tracing"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if cfg.Tracing.Enabled {
		tracing.MustInit(constants.ServiceMain, cfg.Tracing.Endpoint)
	}
	defer tracing.Shutdown()

	sharedlogger.Init(cfg.Logging.Level, cfg.Logging.Format)
	defer sharedlogger.L().Sync()

	redisclient.Init(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
	defer redisclient.Close()

	handler.Configure(cfg.Search.ResultTTL)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	app.Use(otelfiber.Middleware())
	handler.Routes(app)

	sharedlogger.L().Info("Main service started", zap.String("port", cfg.App.Port))
	if err := app.Listen(":" + cfg.App.Port); err != nil {
		sharedlogger.L().Fatal("server stopped", zap.Error(err))
	}
}
