package main

import (
	"context"
	"log"
	"time"

	"flightlink/export-service/worker"
	"flightlink/shared/config"
	"flightlink/shared/constants"
	sharedlogger "flightlink/shared/logger"
	redisclient "flightlink/shared/redis"
	"flightlink/shared/tracing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var consumer = uuid.NewString()

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if cfg.Tracing.Enabled {
		tracing.MustInit(constants.ServiceExport, cfg.Tracing.Endpoint)
	}
	defer tracing.Shutdown()

	sharedlogger.Init(cfg.Logging.Level, cfg.Logging.Format)
	defer sharedlogger.L().Sync()

	redisclient.Init(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
	defer redisclient.Close()
	redisCtx := context.Background()

	archiver, err := worker.NewArchiver(cfg.Export.ArchiveDir)
	if err != nil {
		log.Fatalf("failed to prepare archive: %v", err)
	}

	err = redisclient.CreateStreamGroup(redisCtx, constants.FlightLinksGenerated, constants.ExportGroup, "0")
	if err != nil {
		log.Fatalf("failed to create group: %v", err)
	}

	sharedlogger.L().Info("Export service started",
		zap.String("consumer", consumer),
		zap.String("archive_dir", cfg.Export.ArchiveDir),
	)

	for {
		msgs, err := worker.ReadBatch(redisCtx, constants.ExportGroup, consumer, 5*time.Second)
		if err != nil {
			if !redisclient.IsNoMessages(err) {
				sharedlogger.L().Warn("XReadGroup error", zap.Error(err))
				time.Sleep(time.Second)
			}
			continue
		}

		for _, m := range msgs {
			go worker.HandleMessage(archiver, constants.ExportGroup, m.ID, m.Values)
		}
	}
}
